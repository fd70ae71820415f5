package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsageCost(t *testing.T) {
	u := Usage{PromptTokens: 1000, CandidateTokens: 2000, ThoughtTokens: 3000, TotalTokens: 6000}

	c := u.Cost(DefaultPricing)

	// (2000+3000) * 10.00 * 4.50 / 1e6 + 1000 * 1.25 * 4.50 / 1e6
	assert.InDelta(t, 0.230625, c.Amount, 1e-9)
	assert.Equal(t, "MYR", c.Currency)
}

func TestUsageCost_Zero(t *testing.T) {
	assert.Zero(t, Usage{}.Cost(DefaultPricing).Amount)
}
