package agent

import (
	"context"
	"math"

	"github.com/Boddenberg/pj-assistant-bfa-go/internal/entity"
	"github.com/Boddenberg/pj-assistant-bfa-go/internal/knowledge"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

type fakeStore struct {
	results []knowledge.ScoredChunk
	err     error

	lastQuery     string
	lastTopK      int
	lastThreshold float64
}

func (s *fakeStore) Name() string { return "fake" }

func (s *fakeStore) Ingest(context.Context, []knowledge.Chunk) (int, error) { return 0, nil }

func (s *fakeStore) Search(_ context.Context, query string, topK int, threshold float64) ([]knowledge.ScoredChunk, error) {
	s.lastQuery = query
	s.lastTopK = topK
	s.lastThreshold = threshold
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func (s *fakeStore) DocumentCount(context.Context) (int, error) { return len(s.results), nil }

func (s *fakeStore) DeleteAll(context.Context) error { return nil }

func (s *fakeStore) GetMeta(context.Context, string) (string, error) { return "", nil }

func (s *fakeStore) SetMeta(context.Context, string, string) error { return nil }

type fakeProvider struct {
	store knowledge.Store
}

func (p fakeProvider) Get(context.Context) knowledge.Store { return p.store }

type fakeLLM struct {
	content string
	usage   entity.TokenUsage
	err     error

	lastPrompt string
}

func (f *fakeLLM) Generate(_ context.Context, prompt string) (*entity.Generation, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return nil, f.err
	}
	return &entity.Generation{Content: f.content, Usage: f.usage}, nil
}
