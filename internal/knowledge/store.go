// Package knowledge implements the knowledge base the retriever searches:
// ingestion of chunked source documents, idempotent re-seeding driven by a
// corpus content hash, and threshold-filtered similarity search over one of
// two interchangeable backends (embedded local index or Supabase pgvector).
package knowledge

import "context"

// Metadata key every ingested chunk carries, holding the provenance
// identifier reported back to the caller.
const SourceMetadataKey = "source"

// Meta key under which the corpus content hash is persisted in the store.
const MetaKeyContentHash = "kb_content_hash"

// Chunk is a bounded slice of a source document.
type Chunk struct {
	Content  string
	Metadata map[string]string
}

// ScoredChunk is a search hit with its similarity score.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// Source returns the chunk's provenance identifier, or "unknown" when the
// chunk carries none.
func (c Chunk) Source() string {
	if s, ok := c.Metadata[SourceMetadataKey]; ok && s != "" {
		return s
	}
	return "unknown"
}

// Store is the common contract of the two knowledge base backends.
type Store interface {
	Name() string

	// Ingest embeds and stores chunks, returning how many were stored.
	Ingest(ctx context.Context, chunks []Chunk) (int, error)

	// Search returns up to topK chunks ranked by the backend's similarity
	// function, dropping any hit scoring below scoreThreshold. An empty
	// result is not an error.
	Search(ctx context.Context, query string, topK int, scoreThreshold float64) ([]ScoredChunk, error)

	DocumentCount(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error

	// GetMeta returns "" without error when the key is absent.
	GetMeta(ctx context.Context, key string) (string, error)
	SetMeta(ctx context.Context, key, value string) error
}
