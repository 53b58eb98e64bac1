package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsRegistry holds all Prometheus metrics for paperrun.
type MetricsRegistry struct {
	registry *prometheus.Registry

	SessionsStarted  prometheus.Counter
	SessionsStopped  prometheus.Counter
	ActiveSessions   prometheus.Gauge
	SessionUpdates   prometheus.Counter
	SnapshotFailures prometheus.Counter

	Validations     *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetricsRegistry creates a registry with all paperrun metrics registered.
func NewMetricsRegistry() *MetricsRegistry {
	m := &MetricsRegistry{
		registry: prometheus.NewRegistry(),

		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "paperrun_sessions_started_total",
			Help: "Total number of paper trading sessions started",
		}),
		SessionsStopped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "paperrun_sessions_stopped_total",
			Help: "Total number of paper trading sessions stopped",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "paperrun_sessions_active",
			Help: "Number of currently running paper trading sessions",
		}),
		SessionUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "paperrun_session_updates_total",
			Help: "Total number of accepted session state updates",
		}),
		SnapshotFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "paperrun_snapshot_failures_total",
			Help: "Total number of failed session snapshot writes",
		}),

		Validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paperrun_validations_total",
				Help: "Total number of validation runs by overall status",
			},
			[]string{"overall"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "paperrun_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
			[]string{"route", "method", "status"},
		),
	}

	m.registry.MustRegister(
		m.SessionsStarted,
		m.SessionsStopped,
		m.ActiveSessions,
		m.SessionUpdates,
		m.SnapshotFailures,
		m.Validations,
		m.RequestDuration,
	)
	return m
}

// Handler returns the /metrics endpoint handler.
func (m *MetricsRegistry) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
