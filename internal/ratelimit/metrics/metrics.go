package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Checks by endpoint class and outcome: allowed, denied, bypassed
	Checks *prometheus.CounterVec

	// Checks answered by the in-memory fallback while the primary store is failing
	FallbackChecks prometheus.Counter

	// 1 while the bucket store circuit is open
	Degraded prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Checks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lifepath_ratelimit_checks_total",
			Help: "Rate limit checks by endpoint class and outcome",
		}, []string{"class", "outcome"}),
		FallbackChecks: f.NewCounter(prometheus.CounterOpts{
			Name: "lifepath_ratelimit_fallback_checks_total",
			Help: "Rate limit checks served by the in-memory fallback",
		}),
		Degraded: f.NewGauge(prometheus.GaugeOpts{
			Name: "lifepath_ratelimit_degraded",
			Help: "Whether rate limiting runs on the in-memory fallback",
		}),
	}
}

func (m *Metrics) RecordCheck(class, outcome string) {
	if m != nil {
		m.Checks.WithLabelValues(class, outcome).Inc()
	}
}

func (m *Metrics) RecordFallback() {
	if m != nil {
		m.FallbackChecks.Inc()
	}
}

func (m *Metrics) SetDegraded(degraded bool) {
	if m == nil {
		return
	}
	if degraded {
		m.Degraded.Set(1)
		return
	}
	m.Degraded.Set(0)
}
