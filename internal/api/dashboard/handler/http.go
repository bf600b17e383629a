package dashboardHandler

import (
	"ClinicDashboard/internal/events"
	"ClinicDashboard/internal/middleware"
	websocketPkg "ClinicDashboard/pkg/websocket"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type DashboardHandler struct {
	log          *logrus.Logger
	middleware   middleware.Middleware
	connection   websocketPkg.IWebsocket
	hub          *events.Hub
	writeTimeout time.Duration
}

func New(
	log *logrus.Logger,
	middleware middleware.Middleware,
	connection websocketPkg.IWebsocket,
	hub *events.Hub,
) *DashboardHandler {
	return &DashboardHandler{
		log:          log,
		middleware:   middleware,
		connection:   connection,
		hub:          hub,
		writeTimeout: 5 * time.Second,
	}
}

func (h *DashboardHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	connection := srv.Group("/connection")
	connection.Use(h.middleware.NewRateLimiter)
	connection.Get("/", h.GetConnection)
	connection.Post("/connect", h.Connect)
	connection.Post("/disconnect", h.Disconnect)

	srv.Use("/stream", wsMiddleware)
	srv.Get("/stream", websocket.New(h.handleStream))
}
