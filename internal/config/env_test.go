package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "APP_PORT", "LOG_LEVEL", "DASHBOARD_WS_URL", "CLINIC_API_URL",
		"RECONNECT_DELAY", "RECONNECT_MAX_ATTEMPTS", "HEARTBEAT_INTERVAL",
		"HIGHLIGHT_FRESHNESS", "HIGHLIGHT_DURATION", "HTTP_TIMEOUT",
		"REDIS_ADDRESS", "REDIS_PASSWORD", "REDIS_DB", "REDIS_CHANNEL",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, "ws://localhost:5050/ws/dashboard", cfg.DashboardWSURL)
	assert.Equal(t, "http://localhost:5050/api", cfg.ClinicAPIURL)
	assert.Equal(t, 3*time.Second, cfg.ReconnectDelay)
	assert.Equal(t, 10, cfg.ReconnectMaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, 5*time.Second, cfg.HighlightFreshness)
	assert.Equal(t, 5*time.Second, cfg.HighlightDuration)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.RedisEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8081")
	t.Setenv("RECONNECT_DELAY", "500ms")
	t.Setenv("RECONNECT_MAX_ATTEMPTS", "0")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load(NewValidator())
	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.AppPort)
	assert.Equal(t, 500*time.Millisecond, cfg.ReconnectDelay)
	assert.Equal(t, 0, cfg.ReconnectMaxAttempts)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, 2, cfg.RedisDB)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"RECONNECT_DELAY":        "soon",
		"RECONNECT_MAX_ATTEMPTS": "-1",
		"HIGHLIGHT_DURATION":     "0s",
		"APP_PORT":               "http",
		"DASHBOARD_WS_URL":       "not a url",
		"REDIS_ADDRESS":          "no-port",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load(nil)
			assert.Error(t, err)
		})
	}
}
