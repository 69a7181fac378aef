package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics коллекторы Prometheus сервиса.
// Все методы безопасны для nil-получателя: при выключенных метриках
// в сервисы передается nil.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBOpenConnections  prometheus.Gauge
	DBInUseConnections prometheus.Gauge
	DBIdleConnections  prometheus.Gauge
	DBWaitCount        prometheus.Gauge

	BookingsCreated    *prometheus.CounterVec
	BookingConflicts   *prometheus.CounterVec
	BookingTransitions *prometheus.CounterVec
	SideEffectFailures *prometheus.CounterVec
}

// New регистрирует коллекторы в reg (обычно prometheus.DefaultRegisterer)
func New(serviceName string, reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBOpenConnections: f.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: labels,
		}),
		DBInUseConnections: f.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: labels,
		}),
		DBIdleConnections: f.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: labels,
		}),
		DBWaitCount: f.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: labels,
		}),

		BookingsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Accepted booking requests by mode",
			ConstLabels: labels,
		}, []string{"mode"}),
		BookingConflicts: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_conflicts_total",
			Help:        "Rejected booking requests by reason",
			ConstLabels: labels,
		}, []string{"reason"}),
		BookingTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_transitions_total",
			Help:        "Committed booking lifecycle transitions",
			ConstLabels: labels,
		}, []string{"action"}),
		SideEffectFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_side_effect_failures_total",
			Help:        "Swallowed notification, event and payment gateway failures",
			ConstLabels: labels,
		}, []string{"kind"}),
	}
}

func (m *Metrics) IncBookingCreated(mode string) {
	if m == nil {
		return
	}
	m.BookingsCreated.WithLabelValues(mode).Inc()
}

func (m *Metrics) IncConflict(reason string) {
	if m == nil {
		return
	}
	m.BookingConflicts.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncTransition(action string) {
	if m == nil {
		return
	}
	m.BookingTransitions.WithLabelValues(action).Inc()
}

func (m *Metrics) IncSideEffectFailure(kind string) {
	if m == nil {
		return
	}
	m.SideEffectFailures.WithLabelValues(kind).Inc()
}
