package conversationHandler

import (
	"ClinicDashboard/internal/events"
	"ClinicDashboard/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ConversationHandler struct {
	log        *logrus.Logger
	middleware middleware.Middleware
	hub        *events.Hub
}

func New(
	log *logrus.Logger,
	middleware middleware.Middleware,
	hub *events.Hub,
) *ConversationHandler {
	return &ConversationHandler{
		log:        log,
		middleware: middleware,
		hub:        hub,
	}
}

func (h *ConversationHandler) Start(srv fiber.Router) {
	conversation := srv.Group("/conversation")
	conversation.Use(h.middleware.NewRateLimiter)

	conversation.Get("/", h.GetConversation)
	conversation.Get("/call", h.GetActiveCall)
}
