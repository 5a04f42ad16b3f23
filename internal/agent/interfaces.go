// Package agent implements the recommendation workflow: a fixed pipeline of
// planner, retriever, analyzer and synthesizer stages run by the engine.
// Stages do not mutate the shared state; each returns a delta the engine
// merges, and stage failures degrade the answer instead of aborting the run.
package agent

import (
	"context"

	"github.com/Boddenberg/pj-assistant-bfa-go/internal/entity"
	"github.com/Boddenberg/pj-assistant-bfa-go/internal/knowledge"
)

// GenerativeClient produces a completion for a prompt.
type GenerativeClient interface {
	Generate(ctx context.Context, prompt string) (*entity.Generation, error)
}

// KnowledgeProvider hands out the knowledge store, building it on first use.
type KnowledgeProvider interface {
	Get(ctx context.Context) knowledge.Store
}

// Observer receives pipeline measurements. A nil Observer disables them.
type Observer interface {
	ObserveStageDuration(stage string, seconds float64)
	ObserveRetrievalResults(count int)
	ObserveConfidence(confidence float64)
}
