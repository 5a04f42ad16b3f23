// Package embedding maps text to fixed-dimension vectors for similarity
// search. Two providers exist: a remote OpenAI-compatible client and a
// deterministic local provider used for mocks and as an offline fallback.
package embedding

import "context"

// Provider converts text into numeric vectors. EmbedQuery and EmbedDocuments
// must produce vectors from the same space so scores are comparable.
type Provider interface {
	EmbedQuery(ctx context.Context, text string) ([]float64, error)
	EmbedDocuments(ctx context.Context, texts []string) ([][]float64, error)
	Dimension() int
}
