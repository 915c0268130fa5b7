// Package cost tracks Anthropic API spend across extraction calls.
package cost

import "sync"

// ModelRate holds per-model token pricing, in USD per million tokens.
type ModelRate struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// Rates maps model identifiers to pricing.
type Rates map[string]ModelRate

// DefaultRates returns the published pricing for the models we run.
func DefaultRates() Rates {
	return Rates{
		"claude-3-5-haiku-latest":  {Input: 0.80, Output: 4.00},
		"claude-3-5-sonnet-latest": {Input: 3.00, Output: 15.00},
	}
}

// Calculator converts token counts into dollars.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Claude computes the cost of one Claude API call. Unknown models cost zero.
func (c *Calculator) Claude(model string, input, output int64) float64 {
	rate, ok := c.rates[model]
	if !ok {
		return 0
	}
	return (float64(input)/1e6)*rate.Input + (float64(output)/1e6)*rate.Output
}

// Snapshot is a point-in-time view of accumulated spend.
type Snapshot struct {
	Calls        int     `json:"calls"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	USD          float64 `json:"usd"`
}

// Meter accumulates token usage and spend. Safe for concurrent use.
type Meter struct {
	mu   sync.Mutex
	calc *Calculator
	snap Snapshot
}

// NewMeter creates a Meter priced with rates. Nil rates use DefaultRates.
func NewMeter(rates Rates) *Meter {
	if rates == nil {
		rates = DefaultRates()
	}
	return &Meter{calc: NewCalculator(rates)}
}

// Record adds one call's token usage to the running totals.
func (m *Meter) Record(model string, input, output int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.Calls++
	m.snap.InputTokens += input
	m.snap.OutputTokens += output
	m.snap.USD += m.calc.Claude(model, input, output)
}

// Snapshot returns the accumulated totals.
func (m *Meter) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}
