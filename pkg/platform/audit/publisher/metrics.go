package publisher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the event pipeline.
type Metrics struct {
	Published      *prometheus.CounterVec
	Sampled        prometheus.Counter
	Dropped        prometheus.Counter
	PersistFailure prometheus.Counter
	QueueDepth     prometheus.Gauge
}

// NewMetrics registers the pipeline metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Published: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lifepath_events_published_total",
			Help: "Events handed to the event store, by category",
		}, []string{"category"}),
		Sampled: f.NewCounter(prometheus.CounterOpts{
			Name: "lifepath_events_sampled_total",
			Help: "Operations events dropped by sampling",
		}),
		Dropped: f.NewCounter(prometheus.CounterOpts{
			Name: "lifepath_events_dropped_total",
			Help: "Events dropped because the async buffer was full",
		}),
		PersistFailure: f.NewCounter(prometheus.CounterOpts{
			Name: "lifepath_events_persist_failures_total",
			Help: "Events the store failed to accept",
		}),
		QueueDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "lifepath_events_queue_depth",
			Help: "Events waiting in the async buffer",
		}),
	}
}

func (m *Metrics) incPublished(category string) {
	if m != nil {
		m.Published.WithLabelValues(category).Inc()
	}
}

func (m *Metrics) incSampled() {
	if m != nil {
		m.Sampled.Inc()
	}
}

func (m *Metrics) incDropped() {
	if m != nil {
		m.Dropped.Inc()
	}
}

func (m *Metrics) incPersistFailure() {
	if m != nil {
		m.PersistFailure.Inc()
	}
}

func (m *Metrics) setQueueDepth(n int) {
	if m != nil {
		m.QueueDepth.Set(float64(n))
	}
}
