package entity

import (
	"strings"
	"time"
)

type Appointment struct {
	ID           string `json:"id" validate:"required"`
	DoctorID     string `json:"doctor_id" validate:"required"`
	Date         string `json:"date"`
	Time         string `json:"time" validate:"required"`
	PatientName  string `json:"patient_name"`
	PatientPhone string `json:"patient_phone"`
	ServiceID    string `json:"service_id"`
	CreatedAt    string `json:"created_at"`
	CreatedBy    string `json:"created_by"`
	Status       string `json:"status"`
}

// AppointmentCreate is the client-submitted part of an Appointment; the
// server assigns id, created_at, created_by and status.
type AppointmentCreate struct {
	DoctorID     string `json:"doctor_id" validate:"required"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	Time         string `json:"time" validate:"required,datetime=15:04"`
	PatientName  string `json:"patient_name" validate:"required"`
	PatientPhone string `json:"patient_phone" validate:"required"`
	ServiceID    string `json:"service_id" validate:"required"`
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// CreatedInstant parses CreatedAt. Timestamps without a zone are read as UTC,
// which is how the clinic backend emits them.
func (a Appointment) CreatedInstant() (time.Time, bool) {
	raw := strings.TrimSpace(a.CreatedAt)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
