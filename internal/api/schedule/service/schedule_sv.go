package scheduleService

import (
	"ClinicDashboard/internal/api/schedule"
	"ClinicDashboard/internal/entity"

	"github.com/sirupsen/logrus"
)

// Seed replaces the whole working set with the configuration snapshot and
// marks loading complete. Highlight windows for ids that are gone are closed.
func (s *scheduleService) Seed(cfg entity.ClinicConfig) {
	clinic := cfg.Clinic
	s.clinic = &clinic
	s.doctors = append([]entity.Doctor(nil), cfg.Doctors...)
	s.services = append([]entity.Service(nil), cfg.Services...)
	if cfg.Today != "" {
		s.today = cfg.Today
	}

	s.appointments = make([]entity.Appointment, 0, len(cfg.Appointments))
	present := make(map[string]bool, len(cfg.Appointments))
	for _, apt := range cfg.Appointments {
		if present[apt.ID] {
			s.log.WithFields(logrus.Fields{
				"appointment_id": apt.ID,
			}).Warn("Duplicate appointment in schedule snapshot, keeping the first")
			continue
		}
		present[apt.ID] = true
		s.appointments = append(s.appointments, apt)
	}
	for id := range s.windows {
		if !present[id] {
			s.closeWindow(id)
		}
	}

	s.loading = false
	s.loadErr = ""

	s.log.WithFields(logrus.Fields{
		"appointments": len(s.appointments),
		"doctors":      len(s.doctors),
		"services":     len(s.services),
		"today":        s.today,
	}).Info("Schedule seeded")
}

func (s *scheduleService) SeedFailed(err error) {
	s.loading = false
	s.loadErr = err.Error()

	s.log.WithFields(logrus.Fields{
		"error": err.Error(),
	}).Error("Schedule could not be seeded")
}

// Insert adds an appointment and, when it was created within the freshness
// threshold, highlights it for a fixed time counted from now. An appointment
// that is already present is overwritten in place instead of duplicated.
func (s *scheduleService) Insert(apt entity.Appointment) {
	if i := s.indexOf(apt.ID); i >= 0 {
		s.log.WithFields(logrus.Fields{
			"appointment_id": apt.ID,
		}).Debug("Appointment already present, replacing in place")
		s.appointments[i] = apt
	} else {
		s.appointments = append(s.appointments, apt)
	}

	if s.isFresh(apt) {
		s.openWindow(apt.ID)
	}
}

// Replace overwrites the appointment with the same id. A miss is a benign
// race with a local removal and is reported only through the return value.
func (s *scheduleService) Replace(apt entity.Appointment) bool {
	i := s.indexOf(apt.ID)
	if i < 0 {
		s.log.WithFields(logrus.Fields{
			"appointment_id": apt.ID,
		}).Debug("Update for unknown appointment ignored")
		return false
	}
	s.appointments[i] = apt
	return true
}

// Remove drops the appointment and its highlight window, if any.
func (s *scheduleService) Remove(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		s.log.WithFields(logrus.Fields{
			"appointment_id": id,
		}).Debug("Delete for unknown appointment ignored")
		return false
	}
	s.appointments = append(s.appointments[:i], s.appointments[i+1:]...)
	s.closeWindow(id)
	return true
}

func (s *scheduleService) Appointments() []entity.Appointment {
	return append([]entity.Appointment(nil), s.appointments...)
}

func (s *scheduleService) AppointmentsForDoctor(doctorID string) []entity.Appointment {
	return schedule.AppointmentsForDoctor(s.appointments, doctorID)
}

func (s *scheduleService) DoctorSchedule(doctorID string) (schedule.DoctorSchedule, error) {
	return s.Snapshot().DoctorSchedule(doctorID, s.clock.Now())
}

func (s *scheduleService) Snapshot() schedule.Snapshot {
	snap := schedule.Snapshot{
		Loading:      s.loading,
		Error:        s.loadErr,
		Doctors:      append([]entity.Doctor(nil), s.doctors...),
		Services:     append([]entity.Service(nil), s.services...),
		Today:        s.today,
		Appointments: s.Appointments(),
		Highlights:   s.activeHighlights(),
	}
	if s.clinic != nil {
		clinic := *s.clinic
		snap.Clinic = &clinic
	}
	return snap
}

func (s *scheduleService) indexOf(id string) int {
	for i := range s.appointments {
		if s.appointments[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *scheduleService) isFresh(apt entity.Appointment) bool {
	created, ok := apt.CreatedInstant()
	if !ok {
		return false
	}
	return s.clock.Now().Sub(created) < s.config.FreshnessThreshold
}
