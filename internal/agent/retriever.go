package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/Boddenberg/pj-assistant-bfa-go/internal/entity"
)

const contextSeparator = "\n\n---\n\n"

// Retriever enriches the state with knowledge base passages relevant to the
// customer. A retrieval failure is recorded on the state and the pipeline
// continues without context.
type Retriever struct {
	provider           KnowledgeProvider
	topK               int
	relevanceThreshold float64
}

func NewRetriever(provider KnowledgeProvider, topK int, relevanceThreshold float64) *Retriever {
	return &Retriever{
		provider:           provider,
		topK:               topK,
		relevanceThreshold: relevanceThreshold,
	}
}

func (r *Retriever) Retrieve(ctx context.Context, state entity.AgentState) entity.RetrievalDelta {
	query := buildSearchQuery(state)

	store := r.provider.Get(ctx)
	results, err := store.Search(ctx, query, r.topK, r.relevanceThreshold)
	if err != nil {
		ctxzap.Error(ctx, "knowledge retrieval failed",
			zap.Error(err),
			zap.String("customer_id", state.CustomerID),
		)
		return entity.RetrievalDelta{
			ToolsExecuted: []string{entity.ToolRAGRetrievalFailed},
			Errors:        []string{fmt.Sprintf("RAG retrieval failed: %v", err)},
		}
	}

	passages := make([]string, len(results))
	sources := make([]string, len(results))
	for i, res := range results {
		passages[i] = res.Chunk.Content
		sources[i] = res.Chunk.Source()
	}

	ctxzap.Info(ctx, "knowledge retrieved",
		zap.String("customer_id", state.CustomerID),
		zap.Int("num_results", len(results)),
		zap.Strings("sources", sources),
	)

	return entity.RetrievalDelta{
		RetrievedContext: strings.Join(passages, contextSeparator),
		Sources:          sources,
		ToolsExecuted:    []string{entity.ToolRAGRetrieval},
	}
}

// buildSearchQuery composes the semantic query from the customer profile and
// the free-text question, so retrieval matches the customer's situation even
// when the question alone is vague.
func buildSearchQuery(state entity.AgentState) string {
	var parts []string

	if p := state.Profile; p != nil {
		parts = append(parts, fmt.Sprintf("Cliente PJ segmento %s", p.Segment))
		if p.MonthlyRevenue > 0 {
			parts = append(parts, fmt.Sprintf("faturamento mensal R$%s", formatAmount(p.MonthlyRevenue)))
		}
		if p.CreditScore > 0 {
			parts = append(parts, fmt.Sprintf("score de crédito %d", p.CreditScore))
		}
	}

	if state.Query != "" {
		parts = append(parts, state.Query)
	} else {
		parts = append(parts, "recomendações financeiras para empresa")
	}

	return strings.Join(parts, ". ")
}
