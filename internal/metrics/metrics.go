// Package metrics registers the Prometheus collectors for the event
// promotion sweeper and the HTTP surface. Observe methods tolerate a nil
// receiver so tests and one-shot scripts can run without a registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/groupstage/groupstage-backend/internal/models"
)

// SweepMetrics instruments the periodic auto-promotion sweep.
type SweepMetrics struct {
	promotions *prometheus.CounterVec
	conflicts  prometheus.Counter
	errors     prometheus.Counter
	duration   prometheus.Summary
	examined   prometheus.Gauge
}

// NewSweepMetrics creates and registers the sweeper collectors on the default
// registry.
func NewSweepMetrics() *SweepMetrics {
	m := &SweepMetrics{}
	m.promotions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "groupstage",
		Subsystem: "sweep",
		Name:      "promotions_total",
		Help:      "Number of status promotions applied by the sweeper",
	}, []string{"from", "to"})
	m.conflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "groupstage",
		Subsystem: "sweep",
		Name:      "conflicts_total",
		Help:      "Number of optimistic-concurrency conflicts hit while promoting",
	})
	m.errors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "groupstage",
		Subsystem: "sweep",
		Name:      "errors_total",
		Help:      "Number of events the sweeper failed to process",
	})
	m.duration = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace: "groupstage",
		Subsystem: "sweep",
		Name:      "duration_seconds",
		Help:      "Time spent per sweep run",
	})
	m.examined = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "groupstage",
		Subsystem: "sweep",
		Name:      "examined_events",
		Help:      "Number of scheduled/active events examined by the last sweep",
	})

	prometheus.MustRegister(m.promotions, m.conflicts, m.errors, m.duration, m.examined)
	return m
}

// ObservePromotion records one applied promotion.
func (m *SweepMetrics) ObservePromotion(from, to models.EventStatus) {
	if m == nil {
		return
	}
	m.promotions.WithLabelValues(string(from), string(to)).Inc()
}

// ObserveConflict records one conflicted write during promotion.
func (m *SweepMetrics) ObserveConflict() {
	if m == nil {
		return
	}
	m.conflicts.Inc()
}

// ObserveError records one event the sweep could not process.
func (m *SweepMetrics) ObserveError() {
	if m == nil {
		return
	}
	m.errors.Inc()
}

// ObserveSweep records the duration and size of a completed sweep run.
func (m *SweepMetrics) ObserveSweep(elapsed time.Duration, examined int) {
	if m == nil {
		return
	}
	m.duration.Observe(elapsed.Seconds())
	m.examined.Set(float64(examined))
}

// HTTPMetrics instruments the gin HTTP surface.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics creates and registers the HTTP collectors on the default
// registry.
func NewHTTPMetrics() *HTTPMetrics {
	m := &HTTPMetrics{}
	m.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "groupstage",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Number of HTTP requests by method, route and status code",
	}, []string{"method", "route", "status"})
	m.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "groupstage",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	prometheus.MustRegister(m.requests, m.duration)
	return m
}

// ObserveRequest records one completed HTTP request.
func (m *HTTPMetrics) ObserveRequest(method, route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, status).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
