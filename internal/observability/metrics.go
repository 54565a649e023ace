package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for the triage service.
type Metrics struct {
	RequestsTotal     *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	TriagesTotal      *prometheus.CounterVec
	TriageDuration    prometheus.Histogram
	HandlerExecutions *prometheus.CounterVec
	HandlerDuration   *prometheus.HistogramVec
	FallbackTotal     prometheus.Counter
	SweepRunsTotal    *prometheus.CounterVec
	SweepEscalations  prometheus.Counter
	SweepWarnings     prometheus.Counter
	EventsPublished   *prometheus.CounterVec
}

// NewMetrics registers and returns service metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_http_requests_total",
			Help: "Total HTTP requests by route, method, and status.",
		}, []string{"route", "method", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "triage_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms .. ~10s
		}, []string{"route", "method"}),
		TriagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_runs_total",
			Help: "Total triage runs by classified intent and outcome.",
		}, []string{"intent", "outcome"}),
		TriageDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "triage_run_duration_seconds",
			Help:    "End-to-end duration of triage runs in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms .. ~20s
		}),
		HandlerExecutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_handler_executions_total",
			Help: "Total handler executions by handler name and status.",
		}, []string{"handler", "status"}),
		HandlerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "triage_handler_duration_seconds",
			Help:    "Duration of individual handler executions in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"handler"}),
		FallbackTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "triage_fallback_selections_total",
			Help: "Routing decisions that fell back to the catch-all handler.",
		}),
		SweepRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_sla_sweep_runs_total",
			Help: "Total SLA sweep runs by result.",
		}, []string{"result"}),
		SweepEscalations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "triage_sla_escalations_total",
			Help: "Work items escalated by SLA sweeps.",
		}),
		SweepWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "triage_sla_warnings_total",
			Help: "Work items inside the SLA warning window during sweeps.",
		}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_events_published_total",
			Help: "Domain events published by type.",
		}, []string{"type"}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.TriagesTotal,
		m.TriageDuration,
		m.HandlerExecutions,
		m.HandlerDuration,
		m.FallbackTotal,
		m.SweepRunsTotal,
		m.SweepEscalations,
		m.SweepWarnings,
		m.EventsPublished,
	)

	return m
}

// ObserveTriage records one triage run.
func (m *Metrics) ObserveTriage(intent string, success, fallback bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.TriagesTotal.WithLabelValues(intent, outcome).Inc()
	m.TriageDuration.Observe(elapsed.Seconds())
	if fallback {
		m.FallbackTotal.Inc()
	}
}

// ObserveHandler records one handler execution.
func (m *Metrics) ObserveHandler(handler string, success bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	m.HandlerExecutions.WithLabelValues(handler, status).Inc()
	m.HandlerDuration.WithLabelValues(handler).Observe(elapsed.Seconds())
}

// ObserveSweep records one SLA sweep run.
func (m *Metrics) ObserveSweep(result string, escalated, warnings int) {
	if m == nil {
		return
	}
	m.SweepRunsTotal.WithLabelValues(result).Inc()
	m.SweepEscalations.Add(float64(escalated))
	m.SweepWarnings.Add(float64(warnings))
}

// ObserveEvent records one published domain event.
func (m *Metrics) ObserveEvent(eventType string) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(eventType).Inc()
}
