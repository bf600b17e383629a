package dashboardHandler

import (
	"ClinicDashboard/internal/api/dashboard"
	"ClinicDashboard/pkg/handlerUtil"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func (h *DashboardHandler) GetConnection(ctx *fiber.Ctx) error {
	errHandler := handlerUtil.New(h.log)

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, dashboard.ConnectionResponse{
		Connection:  h.connection.Status(),
		Subscribers: h.hub.Subscribers(),
	})
}

// Connect is the manual reconnect entry point. It is a no-op while the push
// channel is open or opening, and re-arms automatic reconnects otherwise.
func (h *DashboardHandler) Connect(ctx *fiber.Ctx) error {
	errHandler := handlerUtil.New(h.log)

	h.connection.Connect()
	h.log.WithFields(logrus.Fields{
		"request_id": h.middleware.GetRequestID(ctx),
	}).Info("Manual connect requested")

	return errHandler.HandleSuccess(ctx, fiber.StatusAccepted, dashboard.ConnectionResponse{
		Connection:  h.connection.Status(),
		Subscribers: h.hub.Subscribers(),
	})
}

func (h *DashboardHandler) Disconnect(ctx *fiber.Ctx) error {
	errHandler := handlerUtil.New(h.log)

	h.connection.Disconnect()
	h.log.WithFields(logrus.Fields{
		"request_id": h.middleware.GetRequestID(ctx),
	}).Info("Manual disconnect requested")

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, dashboard.ConnectionResponse{
		Connection:  h.connection.Status(),
		Subscribers: h.hub.Subscribers(),
	})
}
