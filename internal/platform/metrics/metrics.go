package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the audit log service.
type Metrics struct {
	EventsIngested      prometheus.Counter
	EventsRejected      prometheus.Counter
	PersistenceFailures prometheus.Counter
	IngestDuration      prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		EventsIngested: promauto.NewCounter(prometheus.CounterOpts{
			Name: "auditlog_events_ingested_total",
			Help: "Total number of AuditEvents successfully persisted",
		}),
		EventsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "auditlog_events_rejected_total",
			Help: "Total number of inbound documents rejected as not AuditEvents",
		}),
		PersistenceFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "auditlog_persistence_failures_total",
			Help: "Total number of appends that failed at the store",
		}),
		IngestDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "auditlog_ingest_duration_seconds",
			Help:    "Latency of the ingest path from receipt to durable append",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// The increment helpers tolerate a nil receiver so handler tests can run
// without a registry.

func (m *Metrics) IncIngested() {
	if m != nil {
		m.EventsIngested.Inc()
	}
}

func (m *Metrics) IncRejected() {
	if m != nil {
		m.EventsRejected.Inc()
	}
}

func (m *Metrics) IncPersistenceFailure() {
	if m != nil {
		m.PersistenceFailures.Inc()
	}
}

func (m *Metrics) ObserveIngestSeconds(seconds float64) {
	if m != nil {
		m.IngestDuration.Observe(seconds)
	}
}
