package redis

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// IRedis mirrors dashboard snapshots to a pub/sub channel so other
// processes can follow the live view without holding a websocket.
type IRedis interface {
	PublishSnapshot(ctx context.Context, payload []byte) error
	SetLatest(ctx context.Context, payload []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
	Channel() string
	Close() error
}

type Options struct {
	Address  string
	Password string
	DB       int
	Channel  string
}

type redisClient struct {
	client  *redis.Client
	channel string
	log     *logrus.Logger
}

func New(log *logrus.Logger, opts Options) IRedis {
	if opts.Address == "" {
		opts.Address = os.Getenv("REDIS_ADDRESS")
		opts.Password = os.Getenv("REDIS_PASSWORD")
		opts.DB, _ = strconv.Atoi(os.Getenv("REDIS_DB"))
	}
	if opts.Channel == "" {
		opts.Channel = "dashboard:snapshots"
	}

	log.Info(fmt.Sprintf("Connecting to Redis at %s...", opts.Address))

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		log.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client, channel: opts.Channel, log: log}
}

func (r *redisClient) Channel() string {
	return r.channel
}

// PublishSnapshot sends payload to the mirror channel and refreshes the
// latest-snapshot key so late subscribers can catch up.
func (r *redisClient) PublishSnapshot(ctx context.Context, payload []byte) error {
	receivers, err := r.client.Publish(ctx, r.channel, payload).Result()
	if err != nil {
		r.log.Error(fmt.Sprintf("Error publishing snapshot to %s: %v", r.channel, err))
		return err
	}
	r.log.Debug(fmt.Sprintf("Published snapshot to %s (%d receivers)", r.channel, receivers))

	return r.SetLatest(ctx, payload, 0)
}

func (r *redisClient) SetLatest(ctx context.Context, payload []byte, ttl time.Duration) error {
	key := r.channel + ":latest"
	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		r.log.Error(fmt.Sprintf("Error storing latest snapshot at %s: %v", key, err))
		return err
	}
	return nil
}

func (r *redisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisClient) Close() error {
	return r.client.Close()
}
