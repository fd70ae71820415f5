package report

// Usage is the token accounting of one generation.
type Usage struct {
	PromptTokens    int32 `json:"prompt_tokens"`
	CandidateTokens int32 `json:"candidate_tokens"`
	ThoughtTokens   int32 `json:"thought_tokens"`
	TotalTokens     int32 `json:"total_tokens"`
}

// Pricing converts token counts to money. Rates are per million tokens in
// USD; ExchangeRate converts to Currency. Thought tokens bill as output.
type Pricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
	ExchangeRate     float64
	Currency         string
}

// DefaultPricing is gemini-2.5-pro list pricing converted to ringgit.
var DefaultPricing = Pricing{
	InputPerMillion:  1.25,
	OutputPerMillion: 10.00,
	ExchangeRate:     4.50,
	Currency:         "MYR",
}

// Cost is an amount in a currency.
type Cost struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Cost prices the usage.
func (u Usage) Cost(p Pricing) Cost {
	output := float64(u.ThoughtTokens+u.CandidateTokens) * p.OutputPerMillion * p.ExchangeRate / 1e6
	input := float64(u.PromptTokens) * p.InputPerMillion * p.ExchangeRate / 1e6
	return Cost{Amount: output + input, Currency: p.Currency}
}
}

// Generation is the raw outcome of one model call.
type Generation struct {
	Raw              []byte
	Usage            Usage
	ThoughtSummaries []string
	Model            string
}
