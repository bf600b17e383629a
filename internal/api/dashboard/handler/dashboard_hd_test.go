package dashboardHandler

import (
	"ClinicDashboard/internal/api/conversation"
	"ClinicDashboard/internal/api/schedule"
	"ClinicDashboard/internal/entity"
	"ClinicDashboard/internal/events"
	"ClinicDashboard/internal/middleware"
	"io"
	"net"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	gorilla "github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConnection struct {
	mu          sync.Mutex
	state       entity.ConnectionState
	stopped     bool
	connects    int
	disconnects int
}

func (f *fakeConnection) Connect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects++
	f.stopped = false
	f.state = entity.Connecting
}

func (f *fakeConnection) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnects++
	f.stopped = true
	f.state = entity.Disconnected
}

func (f *fakeConnection) Ping() error { return nil }

func (f *fakeConnection) State() entity.ConnectionState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeConnection) Status() entity.ConnectionStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return entity.ConnectionStatus{State: f.state, MaxRetries: 10, Stopped: f.stopped}
}

func (f *fakeConnection) Frames() <-chan []byte     { return nil }
func (f *fakeConnection) Connectivity() <-chan bool { return nil }

func setup(t *testing.T) (*fiber.App, *fakeConnection, *events.Hub) {
	t.Helper()
	l := logrus.New()
	l.SetOutput(io.Discard)

	conn := &fakeConnection{}
	hub := events.NewHub(l)
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	New(l, middleware.New(l, middleware.Options{}), conn, hub).Start(app.Group("/api/v1"))
	return app, conn, hub
}

func TestConnectionControl(t *testing.T) {
	app, conn, _ := setup(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/connection", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"state":"disconnected"`)

	resp, err = app.Test(httptest.NewRequest("POST", "/api/v1/connection/connect", nil))
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	assert.Contains(t, string(body), `"state":"connecting"`)
	assert.Equal(t, 1, conn.connects)

	resp, err = app.Test(httptest.NewRequest("POST", "/api/v1/connection/disconnect", nil))
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"stopped":true`)
	assert.Equal(t, 1, conn.disconnects)
}

func TestStreamRequiresUpgrade(t *testing.T) {
	app, _, _ := setup(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/stream", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestStreamPushesSnapshots(t *testing.T) {
	app, _, hub := setup(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	ws, _, err := gorilla.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/api/v1/stream", nil)
	require.NoError(t, err)
	defer ws.Close()

	var first events.Snapshot
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, ws.ReadJSON(&first))
	assert.Zero(t, first.Version)
	assert.True(t, first.Schedule.Loading)

	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	hub.Publish(conversation.Snapshot{Connected: true}, schedule.Snapshot{Today: "2026-10-17"}, time.Now())

	var next events.Snapshot
	require.NoError(t, ws.ReadJSON(&next))
	assert.Equal(t, uint64(1), next.Version)
	assert.True(t, next.Conversation.Connected)
	assert.Equal(t, "2026-10-17", next.Schedule.Today)

	ws.Close()
	assert.Eventually(t, func() bool { return hub.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
}
