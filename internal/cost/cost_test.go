package cost

import (
	"math"
	"sync"
	"testing"
)

func TestCalculatorClaude(t *testing.T) {
	c := NewCalculator(Rates{
		"claude-3-5-haiku-latest": {Input: 0.80, Output: 4.00},
	})

	got := c.Claude("claude-3-5-haiku-latest", 1_000_000, 500_000)
	want := 0.80 + 2.00
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Claude() = %v, want %v", got, want)
	}
}

func TestCalculatorUnknownModel(t *testing.T) {
	c := NewCalculator(DefaultRates())
	if got := c.Claude("some-future-model", 1000, 1000); got != 0 {
		t.Errorf("Claude() for unknown model = %v, want 0", got)
	}
}

func TestMeterAccumulates(t *testing.T) {
	m := NewMeter(nil)

	m.Record("claude-3-5-haiku-latest", 10_000, 2_000)
	m.Record("claude-3-5-haiku-latest", 5_000, 1_000)

	snap := m.Snapshot()
	if snap.Calls != 2 {
		t.Errorf("Calls = %d, want 2", snap.Calls)
	}
	if snap.InputTokens != 15_000 {
		t.Errorf("InputTokens = %d, want 15000", snap.InputTokens)
	}
	if snap.OutputTokens != 3_000 {
		t.Errorf("OutputTokens = %d, want 3000", snap.OutputTokens)
	}
	if snap.USD <= 0 {
		t.Errorf("USD = %v, want > 0", snap.USD)
	}
}

func TestMeterConcurrentRecord(t *testing.T) {
	m := NewMeter(nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Record("claude-3-5-haiku-latest", 100, 10)
		}()
	}
	wg.Wait()

	if snap := m.Snapshot(); snap.Calls != 20 {
		t.Errorf("Calls = %d, want 20", snap.Calls)
	}
}
