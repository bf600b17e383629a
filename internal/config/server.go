package config

import (
	conversationHandler "ClinicDashboard/internal/api/conversation/handler"
	dashboardHandler "ClinicDashboard/internal/api/dashboard/handler"
	scheduleHandler "ClinicDashboard/internal/api/schedule/handler"
	"ClinicDashboard/internal/events"
	"ClinicDashboard/internal/middleware"
	"ClinicDashboard/pkg/clinicapi"
	"ClinicDashboard/pkg/clock"
	websocketPkg "ClinicDashboard/pkg/websocket"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine     *fiber.App
	log        *logrus.Logger
	middleware middleware.Middleware
	validator  *validator.Validate
	handlers   []handler
	connection websocketPkg.IWebsocket
	router     *events.Router
	clinicAPI  clinicapi.IClinicAPI
	clock      clock.Clock
	port       string
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.router == nil {
		return nil, fmt.Errorf("event router is required")
	}
	if server.middleware == nil {
		server.middleware = middleware.New(server.log, middleware.Options{})
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}
	if server.clinicAPI == nil {
		server.clinicAPI = clinicapi.New(server.log, "", 0)
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithWebSocket(webSocket websocketPkg.IWebsocket) ServerOption {
	return func(s *Server) error {
		s.connection = webSocket
		return nil
	}
}

func WithRouter(router *events.Router) ServerOption {
	return func(s *Server) error {
		s.router = router
		return nil
	}
}

func WithClinicAPI(api clinicapi.IClinicAPI) ServerOption {
	return func(s *Server) error {
		s.clinicAPI = api
		return nil
	}
}

func WithClock(clk clock.Clock) ServerOption {
	return func(s *Server) error {
		s.clock = clk
		return nil
	}
}

func WithPort(port string) ServerOption {
	return func(s *Server) error {
		s.port = port
		return nil
	}
}

func WithMiddleware(opts middleware.Options) ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log, opts)
		return nil
	}
}

func (s *Server) RegisterHandler() {
	hub := s.router.Hub()

	// Conversation Domain
	conversationHandlers := conversationHandler.New(s.log, s.middleware, hub)

	// Schedule Domain
	scheduleHandlers := scheduleHandler.New(s.log, s.validator, s.middleware, s.router, s.clinicAPI, s.clock)

	s.handlers = append(s.handlers, conversationHandlers, scheduleHandlers)

	// Connection control and snapshot stream
	if s.connection != nil {
		s.handlers = append(s.handlers, dashboardHandler.New(s.log, s.middleware, s.connection, hub))
	}

	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())

	s.setupHealthCheck()
	s.engine.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	router := s.engine.Group("/api/v1")
	for _, h := range s.handlers {
		h.Start(router)
	}
}

func (s *Server) Run() error {
	port := s.port
	if port == "" {
		port = os.Getenv("APP_PORT")
	}
	if port == "" {
		port = "3000"
	}

	s.log.WithFields(logrus.Fields{
		"port": port,
	}).Info("View server listening")

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) Shutdown() error {
	return s.engine.Shutdown()
}

func (s *Server) App() *fiber.App {
	return s.engine
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		snap := s.router.Hub().Current()
		return ctx.JSON(fiber.Map{
			"message":   "Server is Healthy!",
			"version":   snap.Version,
			"connected": snap.Conversation.Connected,
			"loading":   snap.Schedule.Loading,
		})
	})
}
