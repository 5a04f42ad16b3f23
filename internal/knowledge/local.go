package knowledge

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/Boddenberg/pj-assistant-bfa-go/internal/embedding"
)

// LocalStore is an embedded brute-force cosine index. It is the fallback
// backend when Supabase is not configured and the store of choice for tests.
// Reads are concurrency-safe; ingestion happens before the store is shared.
type LocalStore struct {
	mu       sync.RWMutex
	embedder embedding.Provider
	chunks   []storedChunk
	meta     map[string]string
}

type storedChunk struct {
	chunk  Chunk
	vector []float64
}

func NewLocalStore(embedder embedding.Provider) *LocalStore {
	return &LocalStore{
		embedder: embedder,
		meta:     make(map[string]string),
	}
}

func (s *LocalStore) Name() string { return "local" }

func (s *LocalStore) Ingest(ctx context.Context, chunks []Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range chunks {
		s.chunks = append(s.chunks, storedChunk{chunk: c, vector: vectors[i]})
	}

	return len(chunks), nil
}

func (s *LocalStore) Search(ctx context.Context, query string, topK int, scoreThreshold float64) ([]ScoredChunk, error) {
	queryVector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	scored := make([]ScoredChunk, 0, len(s.chunks))
	for _, sc := range s.chunks {
		scored = append(scored, ScoredChunk{
			Chunk: sc.chunk,
			Score: cosineSimilarity(queryVector, sc.vector),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if len(scored) > topK {
		scored = scored[:topK]
	}

	results := scored[:0]
	for _, sc := range scored {
		if sc.Score >= scoreThreshold {
			results = append(results, sc)
		}
	}

	return results, nil
}

func (s *LocalStore) DocumentCount(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

func (s *LocalStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = nil
	return nil
}

func (s *LocalStore) GetMeta(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta[key], nil
}

func (s *LocalStore) SetMeta(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta[key] = value
	return nil
}

func cosineSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
