package knowledge

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/Boddenberg/pj-assistant-bfa-go/internal/embedding"
	"github.com/Boddenberg/pj-assistant-bfa-go/internal/integration/supabase"
	pkgRetry "github.com/Boddenberg/pj-assistant-bfa-go/internal/pkg/retry"
)

// Rows are upserted in batches of this size during seeding.
const upsertBatchSize = 50

const metaRowPrefix = "_meta_"

// RemoteStore keeps the knowledge base in a Supabase pgvector table. Rows are
// keyed by a hash of their content so re-ingesting the same corpus upserts
// instead of duplicating. Store-level metadata lives in special rows with a
// zero embedding that never clear the relevance threshold.
type RemoteStore struct {
	client   *supabase.Client
	embedder embedding.Provider
}

func NewRemoteStore(client *supabase.Client, embedder embedding.Provider) *RemoteStore {
	return &RemoteStore{
		client:   client,
		embedder: embedder,
	}
}

func (s *RemoteStore) Name() string { return "supabase" }

func (s *RemoteStore) Ingest(ctx context.Context, chunks []Chunk) (int, error) {
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

	rows := make([]supabase.Row, len(chunks))
	for i, c := range chunks {
		metadata, err := json.Marshal(c.Metadata)
		if err != nil {
			return 0, fmt.Errorf("marshal chunk metadata: %w", err)
		}
		rows[i] = supabase.Row{
			ID:        contentHash(c.Content),
			Content:   c.Content,
			Metadata:  string(metadata),
			Embedding: vectors[i],
		}
	}

	retryOpts := append(pkgRetry.DefaultRetryConfig().ToRetryOptions(), retry.Context(ctx))

	inserted := 0
	for start := 0; start < len(rows); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		err := retry.Do(func() error {
			return s.client.UpsertRows(ctx, batch)
		}, retryOpts...)
		if err != nil {
			return inserted, fmt.Errorf("upsert batch at %d: %w", start, err)
		}
		inserted += len(batch)
	}

	ctxzap.Info(ctx, "chunks ingested into supabase", zap.Int("count", inserted))
	return inserted, nil
}

func (s *RemoteStore) Search(ctx context.Context, query string, topK int, scoreThreshold float64) ([]ScoredChunk, error) {
	queryVector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := s.client.MatchDocuments(ctx, queryVector, scoreThreshold, topK)
	if err != nil {
		return nil, err
	}

	results := make([]ScoredChunk, 0, len(rows))
	for _, row := range rows {
		// The server already applies the threshold; keep the floor anyway so
		// a misconfigured RPC cannot push noise into the prompt.
		if row.Similarity < scoreThreshold {
			continue
		}
		results = append(results, ScoredChunk{
			Chunk: Chunk{
				Content:  row.Content,
				Metadata: decodeMetadata(row.Metadata),
			},
			Score: row.Similarity,
		})
	}

	return results, nil
}

func (s *RemoteStore) DocumentCount(ctx context.Context) (int, error) {
	return s.client.CountRows(ctx)
}

func (s *RemoteStore) DeleteAll(ctx context.Context) error {
	return s.client.DeleteAll(ctx)
}

func (s *RemoteStore) GetMeta(ctx context.Context, key string) (string, error) {
	value, _, err := s.client.SelectContent(ctx, metaRowPrefix+key)
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *RemoteStore) SetMeta(ctx context.Context, key, value string) error {
	metadata, err := json.Marshal(map[string]string{"type": "meta", "key": key})
	if err != nil {
		return fmt.Errorf("marshal meta metadata: %w", err)
	}

	row := supabase.Row{
		ID:        metaRowPrefix + key,
		Content:   value,
		Metadata:  string(metadata),
		Embedding: make([]float64, s.embedder.Dimension()),
	}

	return s.client.UpsertRows(ctx, []supabase.Row{row})
}

func contentHash(content string) string {
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}

// decodeMetadata tolerates both a JSON object and a double-encoded JSON
// string, which is what the table holds when metadata was written as text.
func decodeMetadata(raw json.RawMessage) map[string]string {
	if len(raw) == 0 {
		return nil
	}

	var metadata map[string]string
	if err := json.Unmarshal(raw, &metadata); err == nil {
		return metadata
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		if err := json.Unmarshal([]byte(encoded), &metadata); err == nil {
			return metadata
		}
	}

	return nil
}
