package entity

// CustomerProfile describes the business customer the recommendation is for.
// Supplied by the BFA caller and immutable for the duration of a request.
type CustomerProfile struct {
	CustomerID       string  `json:"customer_id"`
	Name             string  `json:"name"`
	Document         string  `json:"document"`
	Segment          string  `json:"segment"`
	MonthlyRevenue   float64 `json:"monthly_revenue"`
	AccountAgeMonths int     `json:"account_age_months"`
	CreditScore      int     `json:"credit_score"`
}

// Transaction is a single account movement. Positive amounts are inflows,
// negative amounts are outflows.
type Transaction struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
}

// TokenUsage mirrors the usage block of the generative backend response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Recommendation is the final result produced by the assistant use case.
type Recommendation struct {
	Answer        string
	Reasoning     string
	Sources       []string
	Confidence    float64
	TokensUsed    TokenUsage
	ToolsExecuted []string
}
