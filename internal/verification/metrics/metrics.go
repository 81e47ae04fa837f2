package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the verification engine.
// Engine and handler accept a nil *Metrics so tests can run without touching
// the default registry.
type Metrics struct {
	VerificationsTotal  *prometheus.CounterVec
	ActiveVerifications prometheus.Gauge
	ModuleDuration      *prometheus.HistogramVec
	CacheHits           prometheus.Counter
	CacheMisses         prometheus.Counter
	AuditEventsDropped  prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		VerificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "verifier_verifications_total",
			Help: "Total verifications by outcome (completed, cached, rejected, invalid, cancelled)",
		}, []string{"outcome"}),
		ActiveVerifications: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "verifier_active_verifications",
			Help: "Number of verifications currently in flight",
		}),
		ModuleDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "verifier_module_duration_seconds",
			Help:    "Per-module validation duration by module and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"module", "status"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "verifier_cache_hits_total",
			Help: "Results cache hits observed by the engine",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "verifier_cache_misses_total",
			Help: "Results cache misses observed by the engine",
		}),
		AuditEventsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "verifier_audit_events_dropped_total",
			Help: "Audit events dropped because the emitter inbox was full",
		}),
	}
}

func (m *Metrics) ObserveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.VerificationsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetActive(n int) {
	if m == nil {
		return
	}
	m.ActiveVerifications.Set(float64(n))
}

func (m *Metrics) ObserveModule(module, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.ModuleDuration.WithLabelValues(module, status).Observe(d.Seconds())
}

func (m *Metrics) IncrementCacheHits() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

func (m *Metrics) IncrementCacheMisses() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}

func (m *Metrics) IncrementAuditDropped() {
	if m == nil {
		return
	}
	m.AuditEventsDropped.Inc()
}
