package security

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/Boddenberg/pj-assistant-bfa-go/internal/config"
)

const costBucketTTL = 24 * time.Hour

// CostController tracks per-customer model spend in rolling 24h buckets. The
// daily cap is advisory: callers log breaches, they do not block requests.
type CostController struct {
	promptPricePer1K     float64
	completionPricePer1K float64
	maxDailyCost         float64
	daily                *gocache.Cache
}

func NewCostController(cfg config.CostConfig) *CostController {
	return &CostController{
		promptPricePer1K:     cfg.PromptPricePer1K,
		completionPricePer1K: cfg.CompletionPricePer1K,
		maxDailyCost:         cfg.MaxDailyCostPerUser,
		daily:                gocache.New(costBucketTTL, costBucketTTL),
	}
}

// EstimateCost converts token counts into USD using the configured prices.
func (c *CostController) EstimateCost(promptTokens, completionTokens int) float64 {
	promptCost := float64(promptTokens) / 1000 * c.promptPricePer1K
	completionCost := float64(completionTokens) / 1000 * c.completionPricePer1K
	return promptCost + completionCost
}

// RecordAndCheck adds cost to the customer's daily bucket and reports whether
// the customer is still within the daily cap.
func (c *CostController) RecordAndCheck(customerID string, cost float64) bool {
	// Add is a no-op when the bucket already exists.
	_ = c.daily.Add(customerID, float64(0), gocache.DefaultExpiration)

	total, err := c.daily.IncrementFloat64(customerID, cost)
	if err != nil {
		// Bucket expired between Add and Increment; start a fresh one.
		c.daily.Set(customerID, cost, gocache.DefaultExpiration)
		total = cost
	}

	return total <= c.maxDailyCost
}

// DailySpend returns the customer's current daily bucket total.
func (c *CostController) DailySpend(customerID string) float64 {
	if v, ok := c.daily.Get(customerID); ok {
		if total, ok := v.(float64); ok {
			return total
		}
	}
	return 0
}
