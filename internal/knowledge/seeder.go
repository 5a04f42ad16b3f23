package knowledge

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/Boddenberg/pj-assistant-bfa-go/internal/knowledge/chunker"
)

// Provision reconciles the store with the on-disk corpus. The stored corpus
// hash decides what happens: a mismatch wipes the store and re-ingests, a
// match with an empty store re-ingests (an earlier seeding died halfway), and
// a match with documents present is a no-op.
func Provision(ctx context.Context, store Store, docs []SourceDocument, splitter *chunker.Splitter) error {
	currentHash := SnapshotHash(docs)

	storedHash, err := store.GetMeta(ctx, MetaKeyContentHash)
	if err != nil {
		return fmt.Errorf("read corpus hash: %w", err)
	}

	if storedHash == currentHash {
		count, err := store.DocumentCount(ctx)
		if err != nil {
			return fmt.Errorf("count documents: %w", err)
		}
		if count > 0 {
			ctxzap.Info(ctx, "knowledge base up to date",
				zap.String("store", store.Name()),
				zap.String("hash", currentHash),
				zap.Int("documents", count),
			)
			return nil
		}
		// Hash matches but the store is empty; fall through and ingest.
	} else if storedHash != "" {
		ctxzap.Info(ctx, "knowledge base changed, reseeding",
			zap.String("store", store.Name()),
			zap.String("stored_hash", storedHash),
			zap.String("current_hash", currentHash),
		)
		if err := store.DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear store: %w", err)
		}
	}

	chunks := ChunkDocuments(docs, splitter)

	ingested, err := store.Ingest(ctx, chunks)
	if err != nil {
		return fmt.Errorf("ingest corpus: %w", err)
	}

	if err := store.SetMeta(ctx, MetaKeyContentHash, currentHash); err != nil {
		return fmt.Errorf("record corpus hash: %w", err)
	}

	ctxzap.Info(ctx, "knowledge base seeded",
		zap.String("store", store.Name()),
		zap.String("hash", currentHash),
		zap.Int("source_documents", len(docs)),
		zap.Int("chunks", ingested),
	)
	return nil
}

// ChunkDocuments splits each source document and tags every chunk with its
// document of origin.
func ChunkDocuments(docs []SourceDocument, splitter *chunker.Splitter) []Chunk {
	var chunks []Chunk
	for _, doc := range docs {
		for _, piece := range splitter.Split(doc.Content) {
			chunks = append(chunks, Chunk{
				Content:  piece,
				Metadata: map[string]string{SourceMetadataKey: doc.Name},
			})
		}
	}
	return chunks
}
