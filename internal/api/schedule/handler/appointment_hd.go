package scheduleHandler

import (
	"ClinicDashboard/internal/api/schedule"
	contextPkg "ClinicDashboard/pkg/context"
	"ClinicDashboard/pkg/handlerUtil"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

// ListAppointments passes through to the clinic backend, optionally for
// another day than the one on screen (?date=YYYY-MM-DD).
func (h *ScheduleHandler) ListAppointments(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	date := ctx.Query("date")
	if date != "" {
		if err := h.validator.Var(date, "datetime=2006-01-02"); err != nil {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}
	}

	appointments, err := h.clinicAPI.FetchAppointments(c, date)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_appointments")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, appointments)
}

// CreateAppointment forwards the request to the clinic backend. The local
// schedule only changes once the matching appointment_created event arrives
// on the push channel.
func (h *ScheduleHandler) CreateAppointment(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req schedule.CreateAppointmentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, fiber.NewError(fiber.StatusBadRequest, "invalid request body"), ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	res, err := h.clinicAPI.CreateAppointment(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "create_appointment")
	}
	if !res.Success {
		return errHandler.HandleSuccess(ctx, fiber.StatusUnprocessableEntity, schedule.AppointmentResponse(res))
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, schedule.AppointmentResponse(res))
	}
}

func (h *ScheduleHandler) DeleteAppointment(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id := strings.TrimSpace(ctx.Params("id"))
	if id == "" {
		return errHandler.Handle(ctx, requestID, schedule.ErrInvalidAppointmentID, ctx.Path(), "delete_appointment")
	}

	res, err := h.clinicAPI.DeleteAppointment(c, id)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "delete_appointment")
	}
	if !res.Success {
		return errHandler.HandleSuccess(ctx, fiber.StatusNotFound, res)
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
}
