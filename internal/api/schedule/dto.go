package schedule

import (
	"ClinicDashboard/internal/entity"
	"ClinicDashboard/pkg/clinicapi"
	"time"
)

type TimeSlot struct {
	Time        string              `json:"time"`
	Appointment *entity.Appointment `json:"appointment"`
	IsAvailable bool                `json:"is_available"`
	IsNew       bool                `json:"is_new"`
}

type DoctorSchedule struct {
	Doctor         entity.Doctor        `json:"doctor"`
	Date           string               `json:"date"`
	WorkingHours   entity.WorkingHours  `json:"working_hours"`
	Appointments   []entity.Appointment `json:"appointments"`
	Slots          []TimeSlot           `json:"slots"`
	BookedCount    int                  `json:"booked_count"`
	AvailableCount int                  `json:"available_count"`
}

// Snapshot is the read-only view of the schedule published after every
// change. Highlights maps appointment ids to the instant their "new" marker
// expires.
type Snapshot struct {
	Loading      bool                 `json:"loading"`
	Error        string               `json:"error,omitempty"`
	Clinic       *entity.Clinic       `json:"clinic,omitempty"`
	Doctors      []entity.Doctor      `json:"doctors"`
	Services     []entity.Service     `json:"services"`
	Today        string               `json:"today"`
	Appointments []entity.Appointment `json:"appointments"`
	Highlights   map[string]time.Time `json:"highlights"`
}

type CreateAppointmentRequest = entity.AppointmentCreate

type AppointmentResponse = clinicapi.Result
