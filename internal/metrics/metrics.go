package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Review submission outcomes.
const (
	OutcomeSaved    = "saved"
	OutcomeStale    = "aggregate_stale"
	OutcomeRejected = "rejected"
)

type Metrics struct {
	registry          *prometheus.Registry
	storageFallbacks  *prometheus.CounterVec
	lostWrites        *prometheus.CounterVec
	reviewSubmissions *prometheus.CounterVec
}

// New registers the service collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		storageFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "xalq",
			Name:      "storage_fallback_total",
			Help:      "Storage calls served by the local fallback backend.",
		}, []string{"operation"}),
		lostWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "xalq",
			Name:      "storage_unpersisted_writes_total",
			Help:      "Writes that no backend accepted.",
		}, []string{"operation"}),
		reviewSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "xalq",
			Name:      "review_submissions_total",
			Help:      "Review submissions by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(
		m.storageFallbacks,
		m.lostWrites,
		m.reviewSubmissions,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Fallback(op string) {
	if m == nil {
		return
	}
	m.storageFallbacks.WithLabelValues(op).Inc()
}

func (m *Metrics) UnpersistedWrite(op string) {
	if m == nil {
		return
	}
	m.lostWrites.WithLabelValues(op).Inc()
}

func (m *Metrics) ReviewSubmission(outcome string) {
	if m == nil {
		return
	}
	m.reviewSubmissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
