package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds the dashboard engine's Prometheus collectors.
type Metrics struct {
	FramesReceivedTotal  prometheus.Counter
	FramesMalformedTotal prometheus.Counter
	EventsTotal          *prometheus.CounterVec
	UnknownEventsTotal   prometheus.Counter
	ReconnectsTotal      prometheus.Counter
	ConnectionState      prometheus.Gauge
	HeartbeatsSentTotal  prometheus.Counter
	HighlightsOpen       prometheus.Gauge
}

// New returns the process-wide collectors, registering them once.
//
// Metrics:
//   - dashboard_frames_received_total
//   - dashboard_frames_malformed_total
//   - dashboard_events_total{type}
//   - dashboard_unknown_events_total
//   - dashboard_reconnect_attempts_total
//   - dashboard_connection_state (0 disconnected, 1 connecting, 2 connected)
//   - dashboard_heartbeats_sent_total
//   - dashboard_highlights_open
func New() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			FramesReceivedTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "dashboard_frames_received_total",
				Help: "Total number of frames read from the push channel",
			}),
			FramesMalformedTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "dashboard_frames_malformed_total",
				Help: "Total number of frames dropped because they could not be decoded",
			}),
			EventsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "dashboard_events_total",
					Help: "Total number of decoded events by type",
				},
				[]string{"type"},
			),
			UnknownEventsTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "dashboard_unknown_events_total",
				Help: "Total number of frames with an unrecognised event type",
			}),
			ReconnectsTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "dashboard_reconnect_attempts_total",
				Help: "Total number of scheduled reconnect attempts",
			}),
			ConnectionState: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "dashboard_connection_state",
				Help: "Current push channel state (0 disconnected, 1 connecting, 2 connected)",
			}),
			HeartbeatsSentTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "dashboard_heartbeats_sent_total",
				Help: "Total number of heartbeat frames written",
			}),
			HighlightsOpen: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "dashboard_highlights_open",
				Help: "Number of appointments currently highlighted as new",
			}),
		}
	})

	return globalMetrics
}
