package scheduleHandler

import (
	"ClinicDashboard/internal/api/schedule"
	contextPkg "ClinicDashboard/pkg/context"
	"ClinicDashboard/pkg/handlerUtil"
	"ClinicDashboard/pkg/log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *ScheduleHandler) GetSchedule(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	snap := h.router.Hub().Current()
	if snap.Schedule.Error != "" {
		return errHandler.Handle(ctx, requestID, schedule.ErrConfigUnavailable, ctx.Path(), "get_schedule")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
		"version":  snap.Version,
		"schedule": snap.Schedule,
	})
}

func (h *ScheduleHandler) GetDoctorSchedule(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	sched := h.router.Hub().Current().Schedule
	if sched.Error != "" {
		return errHandler.Handle(ctx, requestID, schedule.ErrConfigUnavailable, ctx.Path(), "get_doctor_schedule")
	}

	column, err := sched.DoctorSchedule(ctx.Params("doctor_id"), h.clock.Now())
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_doctor_schedule")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, column)
}

// ReloadConfig re-fetches the clinic configuration and re-seeds the
// schedule. It is the manual retry after a failed startup fetch.
func (h *ScheduleHandler) ReloadConfig(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 15*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	if err := h.router.Reload(c, h.clinicAPI); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "reload_config")
	}

	snap := h.router.Hub().Current()
	log.WithRequestID(c).WithFields(log.Fields{
		"version":      snap.Version,
		"appointments": len(snap.Schedule.Appointments),
	}).Info("Clinic configuration reloaded")

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"version":  snap.Version,
			"schedule": snap.Schedule,
		})
	}
}
