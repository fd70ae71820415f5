package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"lifepath/internal/report"
)

func TestMetrics_AddUsage(t *testing.T) {
	m := New(prometheus.NewRegistry())

	u := report.Usage{PromptTokens: 1000, CandidateTokens: 2000, ThoughtTokens: 3000}
	m.AddUsage(u, u.Cost(report.DefaultPricing))

	assert.Equal(t, 1000.0, testutil.ToFloat64(m.Tokens.WithLabelValues("prompt")))
	assert.Equal(t, 3000.0, testutil.ToFloat64(m.Tokens.WithLabelValues("thought")))
	assert.InDelta(t, 0.230625, testutil.ToFloat64(m.Cost.WithLabelValues("MYR")), 1e-9)
}

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementCalculation(22)
	m.IncrementCalculation(22)
	m.IncrementCache("hit")
	m.IncrementOutcome("timeout")
	m.ObserveGeneration("ok", 40*time.Second)
	m.IncrementDeduplicated()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Calculations.WithLabelValues("22")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerationOutcome.WithLabelValues("timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Deduplicated))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementCalculation(7)
		m.AddUsage(report.Usage{}, report.Cost{})
		m.ObserveGeneration("ok", time.Second)
	})
}
