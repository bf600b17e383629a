package websocketPkg

import (
	"ClinicDashboard/internal/entity"
	"ClinicDashboard/pkg/clock"
	"ClinicDashboard/pkg/metrics"
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrNotConnected = errors.New("not connected to dashboard push channel")

// IWebsocket is the connection manager for the dashboard push channel. It
// keeps at most one live connection and recovers from drops on its own.
type IWebsocket interface {
	Connect()
	Disconnect()
	Ping() error
	State() entity.ConnectionState
	Status() entity.ConnectionStatus
	Frames() <-chan []byte
	Connectivity() <-chan bool
}

type Options struct {
	URL                  string
	ReconnectDelay       time.Duration
	MaxReconnectAttempts int
	PingInterval         time.Duration
	WriteTimeout         time.Duration
	HandshakeTimeout     time.Duration
	Clock                clock.Clock
	Metrics              *metrics.Metrics
}

type webSocketClient struct {
	url            string
	dialer         *websocket.Dialer
	log            *logrus.Logger
	clock          clock.Clock
	metrics        *metrics.Metrics
	reconnectDelay time.Duration
	maxAttempts    int
	pingInterval   time.Duration
	writeTimeout   time.Duration

	mu             sync.Mutex
	state          entity.ConnectionState
	conn           *websocket.Conn
	generation     uint64
	retries        int
	stopped        bool
	reconnectTimer clock.Timer
	cancelDial     context.CancelFunc
	done           chan struct{}

	writeMu      sync.Mutex
	frames       chan []byte
	connectivity chan bool
}

func NewDashboardWebSocketClient(log *logrus.Logger, opts Options) IWebsocket {
	if opts.URL == "" {
		opts.URL = os.Getenv("DASHBOARD_WS_URL")
		if opts.URL == "" {
			opts.URL = "ws://localhost:5050/ws/dashboard"
		}
	}
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = 3 * time.Second
	}
	if opts.MaxReconnectAttempts < 0 {
		opts.MaxReconnectAttempts = 0
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = 30 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = 10 * time.Second
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = opts.HandshakeTimeout

	return &webSocketClient{
		url:            opts.URL,
		dialer:         &dialer,
		log:            log,
		clock:          opts.Clock,
		metrics:        opts.Metrics,
		reconnectDelay: opts.ReconnectDelay,
		maxAttempts:    opts.MaxReconnectAttempts,
		pingInterval:   opts.PingInterval,
		writeTimeout:   opts.WriteTimeout,
		state:          entity.Disconnected,
		frames:         make(chan []byte, 64),
		connectivity:   make(chan bool, 8),
	}
}

func (c *webSocketClient) Frames() <-chan []byte {
	return c.frames
}

func (c *webSocketClient) Connectivity() <-chan bool {
	return c.connectivity
}

func (c *webSocketClient) State() entity.ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *webSocketClient) Status() entity.ConnectionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return entity.ConnectionStatus{
		State:          c.state,
		RetryCount:     c.retries,
		MaxRetries:     c.maxAttempts,
		ReconnectDelay: c.reconnectDelay.String(),
		Endpoint:       c.url,
		Stopped:        c.stopped,
	}
}

// Connect opens the push channel unless a connection is already open or
// being opened. It also re-enables automatic reconnects after Disconnect or
// after the retry ceiling was reached.
func (c *webSocketClient) Connect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = false
	c.connectLocked()
}

// Disconnect tears the connection down and cancels any pending reconnect.
// No further automatic reconnect happens until Connect is called again.
func (c *webSocketClient) Disconnect() {
	c.mu.Lock()

	c.stopped = true
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
	if c.cancelDial != nil {
		c.cancelDial()
		c.cancelDial = nil
	}
	// in-flight dial and read goroutines see a stale generation and back off
	c.generation++

	if c.done != nil {
		close(c.done)
		c.done = nil
	}
	conn := c.conn
	c.conn = nil

	wasUp := c.state != entity.Disconnected
	c.setStateLocked(entity.Disconnected)
	if wasUp {
		c.notifyLocked(false)
	}
	c.mu.Unlock()

	if conn != nil {
		c.writeMu.Lock()
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "dashboard shutting down"),
			time.Now().Add(c.writeTimeout),
		)
		c.writeMu.Unlock()
		conn.Close()
	}

	c.log.WithFields(logrus.Fields{
		"endpoint": c.url,
	}).Info("Dashboard push channel disconnected by caller")
}

// Ping writes one heartbeat frame on the open connection.
func (c *webSocketClient) Ping() error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}
	return c.write(conn, entity.PingCommand)
}

func (c *webSocketClient) connectLocked() {
	if c.state != entity.Disconnected {
		c.log.WithFields(logrus.Fields{
			"state": c.state.String(),
		}).Debug("Connect ignored, push channel already open or opening")
		return
	}
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}

	c.generation++
	gen := c.generation
	ctx, cancel := context.WithCancel(context.Background())
	c.cancelDial = cancel
	c.setStateLocked(entity.Connecting)

	c.log.WithFields(logrus.Fields{
		"endpoint": c.url,
		"attempt":  c.retries,
	}).Info("Connecting to dashboard push channel")

	go c.dial(ctx, gen)
}

func (c *webSocketClient) dial(ctx context.Context, gen uint64) {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || c.state != entity.Connecting {
		if conn != nil {
			conn.Close()
		}
		return
	}
	c.cancelDial = nil

	if err != nil {
		c.log.WithFields(logrus.Fields{
			"endpoint": c.url,
			"error":    err.Error(),
		}).Warn("Failed to open dashboard push channel")
		c.dropLocked(gen)
		return
	}

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout))
		if err != nil {
			c.log.WithFields(logrus.Fields{
				"error": err.Error(),
			}).Debug("Error sending pong")
		}
		return nil
	})

	done := make(chan struct{})
	ticker := c.clock.NewTicker(c.pingInterval)

	c.conn = conn
	c.done = done
	c.retries = 0
	c.setStateLocked(entity.Connected)
	c.notifyLocked(true)

	c.log.WithFields(logrus.Fields{
		"endpoint": c.url,
	}).Info("Dashboard push channel connected")

	go c.keepAlive(conn, gen, ticker, done)
	go c.readPump(conn, gen, done)
}

// dropLocked moves a live or opening connection to Disconnected and, unless
// the caller asked to stop or the ceiling is reached, schedules a reconnect.
func (c *webSocketClient) dropLocked(gen uint64) {
	if gen != c.generation || c.state == entity.Disconnected {
		return
	}

	if c.done != nil {
		close(c.done)
		c.done = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.setStateLocked(entity.Disconnected)
	c.notifyLocked(false)

	if c.stopped {
		return
	}

	if c.retries >= c.maxAttempts {
		c.log.WithFields(logrus.Fields{
			"endpoint":     c.url,
			"max_attempts": c.maxAttempts,
		}).Error("Reconnect ceiling reached, waiting for manual connect")
		return
	}

	c.retries++
	c.metrics.ReconnectsTotal.Inc()
	c.log.WithFields(logrus.Fields{
		"endpoint": c.url,
		"attempt":  c.retries,
		"max":      c.maxAttempts,
		"delay":    c.reconnectDelay.String(),
	}).Info("Scheduling dashboard push channel reconnect")

	c.reconnectTimer = c.clock.AfterFunc(c.reconnectDelay, c.reconnect)
}

func (c *webSocketClient) reconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reconnectTimer = nil
	if c.stopped {
		return
	}
	c.connectLocked()
}

func (c *webSocketClient) readPump(conn *websocket.Conn, gen uint64, done <-chan struct{}) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			if gen == c.generation {
				c.log.WithFields(logrus.Fields{
					"endpoint": c.url,
					"error":    err.Error(),
				}).Warn("Dashboard push channel closed")
			}
			c.dropLocked(gen)
			c.mu.Unlock()
			return
		}

		c.metrics.FramesReceivedTotal.Inc()

		select {
		case c.frames <- message:
		case <-done:
			return
		}
	}
}

func (c *webSocketClient) keepAlive(conn *websocket.Conn, gen uint64, ticker clock.Ticker, done <-chan struct{}) {
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C():
			if err := c.write(conn, entity.PingCommand); err != nil {
				c.log.WithFields(logrus.Fields{
					"endpoint": c.url,
					"error":    err.Error(),
				}).Warn("Heartbeat failed, marking connection as dead")
				c.mu.Lock()
				c.dropLocked(gen)
				c.mu.Unlock()
				return
			}
			c.metrics.HeartbeatsSentTotal.Inc()
		}
	}
}

func (c *webSocketClient) write(conn *websocket.Conn, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *webSocketClient) setStateLocked(state entity.ConnectionState) {
	c.state = state
	c.metrics.ConnectionState.Set(float64(state))
}

// notifyLocked publishes the connectivity level. When the consumer lags, the
// oldest pending level is dropped so the newest one always gets through.
func (c *webSocketClient) notifyLocked(connected bool) {
	for {
		select {
		case c.connectivity <- connected:
			return
		default:
		}
		select {
		case <-c.connectivity:
		default:
		}
	}
}
