package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config is the dashboard engine's environment. Durations accept Go
// duration strings ("3s", "500ms").
type Config struct {
	AppEnv   string `validate:"omitempty,oneof=development production test"`
	AppPort  string `validate:"required,numeric"`
	LogLevel string `validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`

	DashboardWSURL       string        `validate:"required,url"`
	ReconnectDelay       time.Duration `validate:"gt=0"`
	ReconnectMaxAttempts int           `validate:"gte=0"`
	HeartbeatInterval    time.Duration `validate:"gt=0"`

	HighlightFreshness time.Duration `validate:"gt=0"`
	HighlightDuration  time.Duration `validate:"gt=0"`

	ClinicAPIURL string        `validate:"required,url"`
	HTTPTimeout  time.Duration `validate:"gt=0"`

	RateLimitRPS   float64 `validate:"gt=0"`
	RateLimitBurst int     `validate:"gt=0"`

	RedisAddress  string `validate:"omitempty,hostname_port"`
	RedisPassword string
	RedisDB       int    `validate:"gte=0"`
	RedisChannel  string `validate:"required_with=RedisAddress"`
}

// LoadDotEnv reads .env into the process environment. A missing file is
// normal in containers and only logged.
func LoadDotEnv(log *logrus.Logger, files ...string) {
	if err := godotenv.Load(files...); err != nil {
		log.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Debug("No .env file loaded, using process environment")
	}
}

// Load reads Config from the environment, applying defaults, and validates
// it.
func Load(v *validator.Validate) (Config, error) {
	var err error
	cfg := Config{
		AppEnv:         os.Getenv("APP_ENV"),
		AppPort:        getEnv("APP_PORT", "3000"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
		DashboardWSURL: getEnv("DASHBOARD_WS_URL", "ws://localhost:5050/ws/dashboard"),
		ClinicAPIURL:   getEnv("CLINIC_API_URL", "http://localhost:5050/api"),
		RedisAddress:   os.Getenv("REDIS_ADDRESS"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisChannel:   getEnv("REDIS_CHANNEL", "dashboard:snapshots"),
	}

	durations := []struct {
		key      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"RECONNECT_DELAY", 3 * time.Second, &cfg.ReconnectDelay},
		{"HEARTBEAT_INTERVAL", 30 * time.Second, &cfg.HeartbeatInterval},
		{"HIGHLIGHT_FRESHNESS", 5 * time.Second, &cfg.HighlightFreshness},
		{"HIGHLIGHT_DURATION", 5 * time.Second, &cfg.HighlightDuration},
		{"HTTP_TIMEOUT", 10 * time.Second, &cfg.HTTPTimeout},
	}
	for _, d := range durations {
		if *d.dst, err = getDuration(d.key, d.fallback); err != nil {
			return Config{}, err
		}
	}

	if cfg.ReconnectMaxAttempts, err = getInt("RECONNECT_MAX_ATTEMPTS", 10); err != nil {
		return Config{}, err
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 100); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitRPS, err = getFloat("RATE_LIMIT_RPS", 50); err != nil {
		return Config{}, err
	}

	if v == nil {
		v = NewValidator()
	}
	if err := v.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c Config) RedisEnabled() bool {
	return c.RedisAddress != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
