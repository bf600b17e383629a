package schedule

import (
	"ClinicDashboard/internal/entity"
	"time"
)

func (s Snapshot) AppointmentsForDoctor(doctorID string) []entity.Appointment {
	return AppointmentsForDoctor(s.Appointments, doctorID)
}

func (s Snapshot) DoctorByID(id string) (entity.Doctor, bool) {
	for _, d := range s.Doctors {
		if d.ID == id {
			return d, true
		}
	}
	return entity.Doctor{}, false
}

func (s Snapshot) ServiceByID(id string) (entity.Service, bool) {
	for _, svc := range s.Services {
		if svc.ID == id {
			return svc, true
		}
	}
	return entity.Service{}, false
}

// IsHighlighted reports whether id carries an unexpired "new" marker at now.
func (s Snapshot) IsHighlighted(id string, now time.Time) bool {
	expiresAt, ok := s.Highlights[id]
	return ok && now.Before(expiresAt)
}

// DoctorSchedule builds the column view for one doctor at now.
func (s Snapshot) DoctorSchedule(doctorID string, now time.Time) (DoctorSchedule, error) {
	if s.Loading {
		return DoctorSchedule{}, ErrScheduleNotLoaded
	}
	doctor, ok := s.DoctorByID(doctorID)
	if !ok {
		return DoctorSchedule{}, ErrDoctorNotFound
	}

	hours := entity.DefaultWorkingHours
	if s.Clinic != nil {
		hours = s.Clinic.Hours()
	}
	appointments := s.AppointmentsForDoctor(doctorID)

	slots, err := BuildSlotGrid(hours, appointments, func(id string) bool {
		return s.IsHighlighted(id, now)
	})
	if err != nil {
		return DoctorSchedule{}, err
	}

	available := 0
	for _, slot := range slots {
		if slot.IsAvailable {
			available++
		}
	}

	return DoctorSchedule{
		Doctor:         doctor,
		Date:           s.Today,
		WorkingHours:   hours,
		Appointments:   appointments,
		Slots:          slots,
		BookedCount:    len(appointments),
		AvailableCount: available,
	}, nil
}

func AppointmentsForDoctor(appointments []entity.Appointment, doctorID string) []entity.Appointment {
	out := make([]entity.Appointment, 0)
	for _, apt := range appointments {
		if apt.DoctorID == doctorID {
			out = append(out, apt)
		}
	}
	return out
}
