package schedule

import "ClinicDashboard/pkg/response"

var (
	ErrDoctorNotFound       = response.NewError(404, "doctor not found")
	ErrInvalidWorkingHours  = response.NewError(500, "invalid clinic working hours")
	ErrScheduleNotLoaded    = response.NewError(503, "clinic schedule not loaded")
	ErrConfigUnavailable    = response.NewError(503, "clinic configuration unavailable")
	ErrInvalidAppointmentID = response.NewError(400, "invalid appointment id")
)
