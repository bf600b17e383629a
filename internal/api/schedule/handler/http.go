package scheduleHandler

import (
	"ClinicDashboard/internal/events"
	"ClinicDashboard/internal/middleware"
	"ClinicDashboard/pkg/clinicapi"
	"ClinicDashboard/pkg/clock"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ScheduleHandler struct {
	log        *logrus.Logger
	validator  *validator.Validate
	middleware middleware.Middleware
	router     *events.Router
	clinicAPI  clinicapi.IClinicAPI
	clock      clock.Clock
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	router *events.Router,
	api clinicapi.IClinicAPI,
	clk clock.Clock,
) *ScheduleHandler {
	if clk == nil {
		clk = clock.New()
	}
	return &ScheduleHandler{
		log:        log,
		validator:  validate,
		middleware: middleware,
		router:     router,
		clinicAPI:  api,
		clock:      clk,
	}
}

func (h *ScheduleHandler) Start(srv fiber.Router) {
	schedule := srv.Group("/schedule")
	schedule.Use(h.middleware.NewRateLimiter)
	schedule.Get("/", h.GetSchedule)
	schedule.Get("/doctors/:doctor_id", h.GetDoctorSchedule)

	srv.Post("/config/reload", h.middleware.NewRateLimiter, h.ReloadConfig)

	appointments := srv.Group("/appointments")
	appointments.Use(h.middleware.NewRateLimiter)
	appointments.Get("/", h.ListAppointments)
	appointments.Post("/", h.CreateAppointment)
	appointments.Delete("/:id", h.DeleteAppointment)
}
