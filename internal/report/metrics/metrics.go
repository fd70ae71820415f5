package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"lifepath/internal/report"
)

// Metrics provides observability for calculations and report generation.
type Metrics struct {
	// Model call latency by outcome
	GenerationLatency *prometheus.HistogramVec

	// Generate outcomes: ok, cached, timeout, rate_limited, unavailable, error
	GenerationOutcome *prometheus.CounterVec

	// Billed tokens by kind: prompt, candidate, thought
	Tokens *prometheus.CounterVec

	// Spend in the configured currency
	Cost *prometheus.CounterVec

	CacheLookups *prometheus.CounterVec

	// Calculations by life path number, master numbers included
	Calculations *prometheus.CounterVec

	// Requests that joined an identical in-flight generation
	Deduplicated prometheus.Counter
}

// New registers the report metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		GenerationLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lifepath_report_generation_duration_seconds",
			Help:    "Duration of model generation calls",
			Buckets: []float64{5, 15, 30, 45, 60, 90, 120, 150, 180, 240},
		}, []string{"outcome"}),

		GenerationOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lifepath_report_generations_total",
			Help: "Report generation outcomes",
		}, []string{"outcome"}),

		Tokens: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lifepath_report_tokens_total",
			Help: "Tokens billed for report generation by kind",
		}, []string{"kind"}),

		Cost: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lifepath_report_cost_total",
			Help: "Generation spend by currency",
		}, []string{"currency"}),

		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lifepath_report_cache_lookups_total",
			Help: "Report cache lookups by result (hit, miss, error)",
		}, []string{"result"}),

		Calculations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lifepath_numerology_calculations_total",
			Help: "Numerology calculations by life path number",
		}, []string{"life_path"}),

		Deduplicated: f.NewCounter(prometheus.CounterOpts{
			Name: "lifepath_report_deduplicated_total",
			Help: "Generate requests served by an identical in-flight generation",
		}),
	}
}

// ObserveGeneration records one model call.
func (m *Metrics) ObserveGeneration(outcome string, d time.Duration) {
	if m != nil {
		m.GenerationLatency.WithLabelValues(outcome).Observe(d.Seconds())
	}
}

// IncrementOutcome records how a generate request ended.
func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.GenerationOutcome.WithLabelValues(outcome).Inc()
	}
}

// AddUsage records billed tokens and spend.
func (m *Metrics) AddUsage(u report.Usage, c report.Cost) {
	if m == nil {
		return
	}
	m.Tokens.WithLabelValues("prompt").Add(float64(u.PromptTokens))
	m.Tokens.WithLabelValues("candidate").Add(float64(u.CandidateTokens))
	m.Tokens.WithLabelValues("thought").Add(float64(u.ThoughtTokens))
	m.Cost.WithLabelValues(c.Currency).Add(c.Amount)
}

func (m *Metrics) IncrementCache(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) IncrementCalculation(lifePath int) {
	if m != nil {
		m.Calculations.WithLabelValues(strconv.Itoa(lifePath)).Inc()
	}
}

func (m *Metrics) IncrementDeduplicated() {
	if m != nil {
		m.Deduplicated.Inc()
	}
}
