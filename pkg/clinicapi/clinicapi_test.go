package clinicapi

import (
	"ClinicDashboard/internal/entity"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) IClinicAPI {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	l := logrus.New()
	l.SetOutput(io.Discard)
	return New(l, srv.URL+"/api/", time.Second)
}

func TestFetchConfig(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/config", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"clinic": {"name": "SmilePro", "working_hours": {"start": "09:00", "end": "17:00", "slot_duration_minutes": 30}},
			"doctors": [{"id": "d1", "name": "Dr. Popescu", "available_services": ["s1"]}],
			"services": [{"id": "s1", "name": "Cleaning", "price": 150, "duration_minutes": 30}],
			"appointments": [{"id": "a1", "doctor_id": "d1", "time": "09:00"}],
			"today": "2026-10-17"
		}`))
	})

	cfg, err := c.FetchConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SmilePro", cfg.Clinic.Name)
	assert.Equal(t, 30, cfg.Clinic.WorkingHours.SlotDurationMinutes)
	require.Len(t, cfg.Doctors, 1)
	assert.Equal(t, []string{"s1"}, cfg.Doctors[0].AvailableServices)
	require.Len(t, cfg.Appointments, 1)
	assert.Equal(t, "2026-10-17", cfg.Today)
}

func TestFetchConfigErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.FetchConfig(context.Background())
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestFetchConfigUnreachable(t *testing.T) {
	l := logrus.New()
	l.SetOutput(io.Discard)
	c := New(l, "http://127.0.0.1:1/api", 200*time.Millisecond)

	_, err := c.FetchConfig(context.Background())
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestFetchAppointmentsFiltersByDate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/appointments", r.URL.Path)
		assert.Equal(t, "2026-10-18", r.URL.Query().Get("filter_date"))
		_, _ = w.Write([]byte(`[{"id":"a7","doctor_id":"d2","date":"2026-10-18","time":"11:00"}]`))
	})

	got, err := c.FetchAppointments(context.Background(), "2026-10-18")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a7", got[0].ID)
}

func TestCreateAppointment(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{
			"doctor_id":"d1","date":"2026-10-17","time":"10:00",
			"patient_name":"Ana","patient_phone":"+40722000003","service_id":"s1"
		}`, string(body))
		_, _ = w.Write([]byte(`{"success":true,"message":"created","appointment":{"id":"a9","doctor_id":"d1","time":"10:00","created_by":"staff"}}`))
	})

	res, err := c.CreateAppointment(context.Background(), entity.AppointmentCreate{
		DoctorID: "d1", Date: "2026-10-17", Time: "10:00",
		PatientName: "Ana", PatientPhone: "+40722000003", ServiceID: "s1",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.NotNil(t, res.Appointment)
	assert.Equal(t, "a9", res.Appointment.ID)
}

func TestCreateAppointmentRejection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"slot already booked"}`))
	})

	res, err := c.CreateAppointment(context.Background(), entity.AppointmentCreate{DoctorID: "d1"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "slot already booked", res.Message)
	assert.Nil(t, res.Appointment)
}

func TestDeleteAppointment(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/appointments/a1", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"message":"deleted"}`))
	})

	res, err := c.DeleteAppointment(context.Background(), "a1")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "deleted", res.Message)
}

func TestDeleteAppointmentServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"success":false}`))
	})

	_, err := c.DeleteAppointment(context.Background(), "a1")
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}
