package main

import (
	conversationService "ClinicDashboard/internal/api/conversation/service"
	scheduleService "ClinicDashboard/internal/api/schedule/service"
	"ClinicDashboard/internal/config"
	"ClinicDashboard/internal/events"
	"ClinicDashboard/internal/middleware"
	"ClinicDashboard/pkg/clinicapi"
	"ClinicDashboard/pkg/clock"
	"ClinicDashboard/pkg/log"
	"ClinicDashboard/pkg/metrics"
	"ClinicDashboard/pkg/redis"
	"ClinicDashboard/pkg/utils"
	websocketPkg "ClinicDashboard/pkg/websocket"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func main() {
	logger := log.NewLogger()
	config.LoadDotEnv(logger)

	validator := config.NewValidator()
	cfg, err := config.Load(validator)
	if err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	clk := clock.New()
	m := metrics.New()

	websocket := websocketPkg.NewDashboardWebSocketClient(logger, websocketPkg.Options{
		URL:                  cfg.DashboardWSURL,
		ReconnectDelay:       cfg.ReconnectDelay,
		MaxReconnectAttempts: cfg.ReconnectMaxAttempts,
		PingInterval:         cfg.HeartbeatInterval,
		Clock:                clk,
		Metrics:              m,
	})

	conv := conversationService.NewConversationService(logger, clk, utils.New())
	sched := scheduleService.NewScheduleService(logger, clk, m, scheduleService.Config{
		FreshnessThreshold: cfg.HighlightFreshness,
		HighlightDuration:  cfg.HighlightDuration,
	})

	router := events.NewRouter(logger, events.RouterOptions{
		Source:       websocket,
		Decoder:      events.NewDecoder(validator),
		Conversation: conv,
		Schedule:     sched,
		Hub:          events.NewHub(logger),
		Metrics:      m,
		Clock:        clk,
	})

	clinicAPI := clinicapi.New(logger, cfg.ClinicAPIURL, cfg.HTTPTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	routerDone := make(chan error, 1)
	go func() {
		routerDone <- router.Run(ctx)
	}()

	var redisServer redis.IRedis
	if cfg.RedisEnabled() {
		redisServer = redis.New(logger, redis.Options{
			Address:  cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Channel:  cfg.RedisChannel,
		})
		if err := redisServer.Ping(ctx); err != nil {
			logger.WithFields(logrus.Fields{
				"address": cfg.RedisAddress,
				"error":   err.Error(),
			}).Warn("Redis not reachable yet, snapshots will be mirrored once it is")
		}
		go router.Hub().Mirror(ctx, redisServer)
		logger.WithFields(logrus.Fields{
			"address": cfg.RedisAddress,
			"channel": redisServer.Channel(),
		}).Info("Mirroring dashboard snapshots to redis")
	}

	if err := router.Reload(ctx, clinicAPI); err != nil {
		logger.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error("Initial clinic configuration load failed, schedule stays empty")
	}
	websocket.Connect()

	server, err := config.NewServer(
		config.WithFiber(config.NewFiber(logger)),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithWebSocket(websocket),
		config.WithRouter(router),
		config.WithClinicAPI(clinicAPI),
		config.WithClock(clk),
		config.WithPort(cfg.AppPort),
		config.WithMiddleware(middleware.Options{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		}),
	)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")

	websocket.Disconnect()
	cancel()
	if err := <-routerDone; err != nil && !errors.Is(err, context.Canceled) {
		logger.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error("Event router stopped with error")
	}
	sched.Close()

	if err := server.Shutdown(); err != nil {
		logger.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error("Error shutting down server")
	}
	if redisServer != nil {
		_ = redisServer.Close()
	}
}
