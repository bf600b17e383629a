package scheduleService

import (
	"ClinicDashboard/internal/api/schedule"
	"ClinicDashboard/internal/entity"
	"ClinicDashboard/pkg/clock"
	"ClinicDashboard/pkg/metrics"
	"time"

	"github.com/sirupsen/logrus"
)

// Expiration is delivered when a highlight window's timer fires. Seq tells
// a stale expiration apart from the window that replaced it.
type Expiration struct {
	ID  string
	Seq uint64
}

// IScheduleService owns the day's appointments and their "new" highlight
// windows. It is not safe for concurrent use; the event router is its only
// writer and feeds Expirations back through Expire.
type IScheduleService interface {
	Seed(cfg entity.ClinicConfig)
	SeedFailed(err error)
	Insert(apt entity.Appointment)
	Replace(apt entity.Appointment) bool
	Remove(id string) bool
	Expire(e Expiration) bool
	Expirations() <-chan Expiration
	IsHighlighted(id string) bool
	Appointments() []entity.Appointment
	AppointmentsForDoctor(doctorID string) []entity.Appointment
	DoctorSchedule(doctorID string) (schedule.DoctorSchedule, error)
	Snapshot() schedule.Snapshot
	Close()
}

type Config struct {
	FreshnessThreshold time.Duration
	HighlightDuration  time.Duration
}

type window struct {
	seq       uint64
	expiresAt time.Time
	timer     clock.Timer
}

type scheduleService struct {
	log     *logrus.Logger
	clock   clock.Clock
	metrics *metrics.Metrics
	config  Config

	loading      bool
	loadErr      string
	clinic       *entity.Clinic
	doctors      []entity.Doctor
	services     []entity.Service
	today        string
	appointments []entity.Appointment

	windows map[string]*window
	seq     uint64
	expired chan Expiration
	closing chan struct{}
	closed  bool
}

func NewScheduleService(log *logrus.Logger, clk clock.Clock, m *metrics.Metrics, cfg Config) IScheduleService {
	if clk == nil {
		clk = clock.New()
	}
	if m == nil {
		m = metrics.New()
	}
	if cfg.FreshnessThreshold <= 0 {
		cfg.FreshnessThreshold = 5 * time.Second
	}
	if cfg.HighlightDuration <= 0 {
		cfg.HighlightDuration = 5 * time.Second
	}
	return &scheduleService{
		log:     log,
		clock:   clk,
		metrics: m,
		config:  cfg,
		loading: true,
		today:   clk.Now().Format("2006-01-02"),
		windows: make(map[string]*window),
		expired: make(chan Expiration, 64),
		closing: make(chan struct{}),
	}
}
