package clinicapi

import (
	"ClinicDashboard/internal/entity"
	"ClinicDashboard/pkg/response"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrRequestFailed    = response.NewError(502, "clinic api request failed")
	ErrUnexpectedStatus = response.NewError(502, "clinic api returned an unexpected status")
	ErrBadResponse      = response.NewError(502, "clinic api returned an unreadable body")
)

// IClinicAPI is the REST contract of the clinic backend: the startup
// configuration fetch and appointment CRUD.
type IClinicAPI interface {
	FetchConfig(ctx context.Context) (entity.ClinicConfig, error)
	FetchAppointments(ctx context.Context, date string) ([]entity.Appointment, error)
	CreateAppointment(ctx context.Context, req entity.AppointmentCreate) (Result, error)
	DeleteAppointment(ctx context.Context, id string) (Result, error)
}

// Result is the clinic backend's answer to a create or delete.
type Result struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message"`
	Appointment *entity.Appointment `json:"appointment,omitempty"`
}

type clinicAPI struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger
}

func New(log *logrus.Logger, baseURL string, timeout time.Duration) IClinicAPI {
	if baseURL == "" {
		baseURL = os.Getenv("CLINIC_API_URL")
		if baseURL == "" {
			baseURL = "http://localhost:5050/api"
		}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &clinicAPI{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (c *clinicAPI) FetchConfig(ctx context.Context) (entity.ClinicConfig, error) {
	var cfg entity.ClinicConfig
	if err := c.do(ctx, http.MethodGet, "/config", nil, &cfg, false); err != nil {
		return entity.ClinicConfig{}, err
	}

	c.log.WithFields(logrus.Fields{
		"clinic":       cfg.Clinic.Name,
		"doctors":      len(cfg.Doctors),
		"appointments": len(cfg.Appointments),
		"today":        cfg.Today,
	}).Info("Clinic configuration fetched")
	return cfg, nil
}

// FetchAppointments lists the appointments of date, or of today when date is
// empty.
func (c *clinicAPI) FetchAppointments(ctx context.Context, date string) ([]entity.Appointment, error) {
	path := "/appointments"
	if date != "" {
		path += "?filter_date=" + url.QueryEscape(date)
	}

	appointments := make([]entity.Appointment, 0)
	if err := c.do(ctx, http.MethodGet, path, nil, &appointments, false); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (c *clinicAPI) CreateAppointment(ctx context.Context, req entity.AppointmentCreate) (Result, error) {
	var res Result
	if err := c.do(ctx, http.MethodPost, "/appointments", req, &res, true); err != nil {
		return Result{}, err
	}

	c.log.WithFields(logrus.Fields{
		"doctor_id": req.DoctorID,
		"date":      req.Date,
		"time":      req.Time,
		"success":   res.Success,
	}).Info("Appointment create submitted")
	return res, nil
}

func (c *clinicAPI) DeleteAppointment(ctx context.Context, id string) (Result, error) {
	var res Result
	if err := c.do(ctx, http.MethodDelete, "/appointments/"+url.PathEscape(id), nil, &res, true); err != nil {
		return Result{}, err
	}

	c.log.WithFields(logrus.Fields{
		"appointment_id": id,
		"success":        res.Success,
	}).Info("Appointment delete submitted")
	return res, nil
}

// do sends one request and decodes the JSON answer into out. With
// bodyOnError the clinic's own {success, message} body is decoded for 4xx
// answers too, since create and delete report rejections that way.
func (c *clinicAPI) do(ctx context.Context, method, path string, in, out interface{}, bodyOnError bool) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"error":  err.Error(),
		}).Warn("Clinic api request failed")
		return fmt.Errorf("%w: %s %s: %v", ErrRequestFailed, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok && !(bodyOnError && resp.StatusCode < 500) {
		c.log.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		}).Warn("Clinic api answered with an error status")
		return fmt.Errorf("%w: %s %s: status %d", ErrUnexpectedStatus, method, path, resp.StatusCode)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		if !ok {
			return fmt.Errorf("%w: %s %s: status %d", ErrUnexpectedStatus, method, path, resp.StatusCode)
		}
		return fmt.Errorf("%w: %s %s: %v", ErrBadResponse, method, path, err)
	}
	return nil
}
