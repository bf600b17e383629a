package middleware

import (
	contextPkg "ClinicDashboard/pkg/context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newApp(m Middleware) *fiber.App {
	app := fiber.New()
	app.Use(m.NewRequestIDMiddleware())
	app.Use(m.NewLoggingMiddleware())
	app.Get("/ping", m.NewRateLimiter, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"request_id": m.GetRequestID(c),
			"context_id": contextPkg.GetRequestID(c.UserContext()),
		})
	})
	return app
}

func TestRequestIDIsGeneratedAndEchoed(t *testing.T) {
	app := newApp(New(quietLogger(), Options{}))

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	id := resp.Header.Get(RequestIDKey)
	assert.Len(t, id, 26)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"request_id":"`+id+`"`)
	assert.Contains(t, string(body), `"context_id":"`+id+`"`)
}

func TestRequestIDIsReused(t *testing.T) {
	app := newApp(New(quietLogger(), Options{}))

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(RequestIDKey, "abc-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDKey))
}

func TestRateLimiterRejectsBurstOverflow(t *testing.T) {
	app := newApp(New(quietLogger(), Options{RequestsPerSecond: 0.001, Burst: 2}))

	codes := []int{}
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, fiber.StatusTooManyRequests}, codes)
}

func TestRateLimiterSweepsIdleVisitors(t *testing.T) {
	r := newRateLimiter(1, 1)
	start := time.Now()

	r.GetLimiterFrom("10.0.0.1", start)
	r.GetLimiterFrom("10.0.0.2", start)
	assert.Equal(t, 2, r.size())

	later := start.Add(limiterIdleTTL + time.Minute)
	r.GetLimiterFrom("10.0.0.3", later)
	assert.Equal(t, 1, r.size())
}

func TestSanitizeRequestBody(t *testing.T) {
	got := sanitizeRequestBody("/api/v1/appointments", []byte(`{"doctor_id":"d1","patient_phone":"+40722000003","patient_name":"Ana"}`))
	assert.Contains(t, got, `"patient_phone":"[SECRET]"`)
	assert.Contains(t, got, `"patient_name":"[SECRET]"`)
	assert.Contains(t, got, `"doctor_id":"d1"`)

	assert.Equal(t, "[non-JSON body]", sanitizeRequestBody("/x", []byte("plain")))
	assert.True(t, strings.HasPrefix(sanitizeRequestBody("/x", []byte(`{"a":1}`)), "{"))
}
