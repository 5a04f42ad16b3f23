package knowledge

import (
	"context"
	"testing"

	"github.com/Boddenberg/pj-assistant-bfa-go/internal/embedding"
)

func newTestLocalStore() *LocalStore {
	return NewLocalStore(embedding.NewLocalProvider(64))
}

func seedChunks() []Chunk {
	return []Chunk{
		{Content: "Antecipação de recebíveis reduz a necessidade de capital de giro.", Metadata: map[string]string{SourceMetadataKey: "antecipacao.md"}},
		{Content: "Seguro empresarial protege o patrimônio contra sinistros.", Metadata: map[string]string{SourceMetadataKey: "seguros.md"}},
		{Content: "Cartão corporativo centraliza despesas dos funcionários.", Metadata: map[string]string{SourceMetadataKey: "cartao.md"}},
	}
}

func TestLocalStoreSearchRanksExactMatchFirst(t *testing.T) {
	store := newTestLocalStore()
	ctx := context.Background()

	n, err := store.Ingest(ctx, seedChunks())
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("ingested = %d", n)
	}

	query := "Antecipação de recebíveis reduz a necessidade de capital de giro."
	results, err := store.Search(ctx, query, 3, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 {
		t.Fatal("no results")
	}

	if got := results[0].Chunk.Source(); got != "antecipacao.md" {
		t.Errorf("top result source = %q", got)
	}
	if results[0].Score < 0.99 {
		t.Errorf("exact match score = %v", results[0].Score)
	}
}

func TestLocalStoreSearchAppliesThreshold(t *testing.T) {
	store := newTestLocalStore()
	ctx := context.Background()

	if _, err := store.Ingest(ctx, seedChunks()); err != nil {
		t.Fatal(err)
	}

	query := "Antecipação de recebíveis reduz a necessidade de capital de giro."
	results, err := store.Search(ctx, query, 10, 0.95)
	if err != nil {
		t.Fatal(err)
	}

	for _, r := range results {
		if r.Score < 0.95 {
			t.Errorf("result below threshold: %v (%s)", r.Score, r.Chunk.Source())
		}
	}
	if len(results) != 1 {
		t.Errorf("results above threshold = %d, want 1", len(results))
	}
}

func TestLocalStoreSearchHonorsTopK(t *testing.T) {
	store := newTestLocalStore()
	ctx := context.Background()

	if _, err := store.Ingest(ctx, seedChunks()); err != nil {
		t.Fatal(err)
	}

	results, err := store.Search(ctx, "produtos bancários", 2, -1)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) > 2 {
		t.Errorf("results = %d, want at most 2", len(results))
	}
}

func TestLocalStoreDeleteAll(t *testing.T) {
	store := newTestLocalStore()
	ctx := context.Background()

	if _, err := store.Ingest(ctx, seedChunks()); err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteAll(ctx); err != nil {
		t.Fatal(err)
	}

	count, err := store.DocumentCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("count after delete = %d", count)
	}
}

func TestLocalStoreMeta(t *testing.T) {
	store := newTestLocalStore()
	ctx := context.Background()

	if got, _ := store.GetMeta(ctx, MetaKeyContentHash); got != "" {
		t.Errorf("meta before set = %q", got)
	}

	if err := store.SetMeta(ctx, MetaKeyContentHash, "abc123"); err != nil {
		t.Fatal(err)
	}
	if got, _ := store.GetMeta(ctx, MetaKeyContentHash); got != "abc123" {
		t.Errorf("meta = %q", got)
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got := cosineSimilarity([]float64{1, 0}, []float64{1, 0}); got != 1 {
		t.Errorf("identical vectors = %v", got)
	}
	if got := cosineSimilarity([]float64{1, 0}, []float64{0, 1}); got != 0 {
		t.Errorf("orthogonal vectors = %v", got)
	}
	if got := cosineSimilarity([]float64{1, 0}, []float64{0, 0}); got != 0 {
		t.Errorf("zero vector = %v", got)
	}
}
