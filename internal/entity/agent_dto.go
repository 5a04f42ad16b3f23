package entity

// InvokeRequest is the inbound payload of POST /v1/agent/invoke, sent by the
// BFA on behalf of a customer.
type InvokeRequest struct {
	CustomerID   string           `json:"customer_id"`
	Profile      *CustomerProfile `json:"profile,omitempty"`
	Transactions []Transaction    `json:"transactions,omitempty"`
	Query        string           `json:"query,omitempty"`
}

// InvokeResponse is the outbound payload of POST /v1/agent/invoke.
type InvokeResponse struct {
	Answer        string     `json:"answer"`
	Reasoning     string     `json:"reasoning"`
	Sources       []string   `json:"sources"`
	Confidence    float64    `json:"confidence"`
	TokensUsed    TokenUsage `json:"tokens_used"`
	ToolsExecuted []string   `json:"tools_executed"`
}

// ChatRequest is the simplified conversational contract of POST /v1/chat.
type ChatRequest struct {
	CustomerID     string `json:"customer_id"`
	ConversationID string `json:"conversation_id,omitempty"`
	Query          string `json:"query"`
}

// ChatMessageOut is the assistant message returned by POST /v1/chat.
type ChatMessageOut struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// ChatResponse is the outbound payload of POST /v1/chat.
type ChatResponse struct {
	ConversationID string         `json:"conversation_id"`
	Message        ChatMessageOut `json:"message"`
	Sources        []string       `json:"sources"`
	Confidence     float64        `json:"confidence"`
}
