package conversationHandler

import (
	"ClinicDashboard/internal/api/conversation"
	"ClinicDashboard/internal/api/schedule"
	"ClinicDashboard/internal/entity"
	"ClinicDashboard/internal/events"
	"ClinicDashboard/internal/middleware"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*fiber.App, *events.Hub) {
	t.Helper()
	l := logrus.New()
	l.SetOutput(io.Discard)

	hub := events.NewHub(l)
	app := fiber.New()
	New(l, middleware.New(l, middleware.Options{}), hub).Start(app.Group("/api/v1"))
	return app, hub
}

func TestGetConversation(t *testing.T) {
	app, hub := setup(t)
	started := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	hub.Publish(conversation.Snapshot{
		Connected: true,
		Call:      conversation.CallState{IsActive: true, CallID: "c1", StartedAt: &started},
		Turns: []entity.TranscriptTurn{
			{ID: "t1", Role: entity.RoleSystem, Text: "New call connected", CreatedAt: started, Finality: entity.Final},
			{ID: "t2", Role: entity.RoleCaller, Text: "hello", CreatedAt: started, Finality: entity.Provisional},
		},
	}, schedule.Snapshot{}, started)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/conversation", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Version      uint64 `json:"version"`
		Conversation struct {
			Connected bool `json:"connected"`
			Turns     []struct {
				ID       string `json:"id"`
				Role     string `json:"role"`
				Finality string `json:"finality"`
			} `json:"turns"`
		} `json:"conversation"`
	}
	require.NoError(t, jsoniter.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, uint64(1), body.Version)
	assert.True(t, body.Conversation.Connected)
	require.Len(t, body.Conversation.Turns, 2)
	assert.Equal(t, "caller", body.Conversation.Turns[1].Role)
	assert.Equal(t, "provisional", body.Conversation.Turns[1].Finality)
}

func TestGetActiveCallWithoutCall(t *testing.T) {
	app, _ := setup(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/conversation/call", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetActiveCall(t *testing.T) {
	app, hub := setup(t)
	hub.Publish(conversation.Snapshot{
		Call: conversation.CallState{IsActive: true, CallID: "c1", CallerNumber: "+40722000001"},
	}, schedule.Snapshot{}, time.Now())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/conversation/call", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"call_id":"c1"`)
}
