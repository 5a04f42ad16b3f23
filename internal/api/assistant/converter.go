package assistant

import (
	"time"

	"github.com/google/uuid"

	"github.com/Boddenberg/pj-assistant-bfa-go/internal/entity"
)

func toInvokeResponse(rec *entity.Recommendation) entity.InvokeResponse {
	return entity.InvokeResponse{
		Answer:        rec.Answer,
		Reasoning:     rec.Reasoning,
		Sources:       nonNil(rec.Sources),
		Confidence:    rec.Confidence,
		TokensUsed:    rec.TokensUsed,
		ToolsExecuted: nonNil(rec.ToolsExecuted),
	}
}

func toChatResponse(conversationID string, rec *entity.Recommendation) entity.ChatResponse {
	if conversationID == "" {
		conversationID = uuid.New().String()
	}

	return entity.ChatResponse{
		ConversationID: conversationID,
		Message: entity.ChatMessageOut{
			ID:        uuid.New().String(),
			Role:      "assistant",
			Content:   rec.Answer,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
		Sources:    nonNil(rec.Sources),
		Confidence: rec.Confidence,
	}
}

// nonNil keeps empty lists as [] instead of null in JSON.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
