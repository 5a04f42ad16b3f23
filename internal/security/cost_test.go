package security

import (
	"math"
	"testing"

	"github.com/Boddenberg/pj-assistant-bfa-go/internal/config"
)

func testCostConfig() config.CostConfig {
	return config.CostConfig{
		PromptPricePer1K:     0.00015,
		CompletionPricePer1K: 0.0006,
		MaxDailyCostPerUser:  1.0,
	}
}

func TestEstimateCost(t *testing.T) {
	c := NewCostController(testCostConfig())

	got := c.EstimateCost(1000, 1000)
	want := 0.00015 + 0.0006
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("cost = %v, want %v", got, want)
	}

	if got := c.EstimateCost(0, 0); got != 0 {
		t.Errorf("zero tokens cost = %v", got)
	}
}

func TestRecordAndCheckAccumulates(t *testing.T) {
	c := NewCostController(testCostConfig())

	if !c.RecordAndCheck("c-1", 0.4) {
		t.Error("first record exceeded cap")
	}
	if !c.RecordAndCheck("c-1", 0.5) {
		t.Error("second record exceeded cap")
	}
	if c.RecordAndCheck("c-1", 0.2) {
		t.Error("cap breach not reported")
	}

	if got := c.DailySpend("c-1"); math.Abs(got-1.1) > 1e-9 {
		t.Errorf("daily spend = %v", got)
	}
}

func TestRecordAndCheckPerCustomer(t *testing.T) {
	c := NewCostController(testCostConfig())

	c.RecordAndCheck("c-1", 0.9)
	if !c.RecordAndCheck("c-2", 0.9) {
		t.Error("second customer blocked by first customer's spend")
	}
	if got := c.DailySpend("c-2"); math.Abs(got-0.9) > 1e-9 {
		t.Errorf("daily spend = %v", got)
	}
}
