package embedding

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/Boddenberg/pj-assistant-bfa-go/internal/config"
	"github.com/Boddenberg/pj-assistant-bfa-go/internal/entity"
	"github.com/Boddenberg/pj-assistant-bfa-go/internal/integration/common"
	pkghttp "github.com/Boddenberg/pj-assistant-bfa-go/pkg/http"
)

// OpenAIProvider calls an OpenAI-compatible embeddings endpoint.
type OpenAIProvider struct {
	config    config.EmbeddingConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
	dimension int
}

func NewOpenAIProvider(cfg config.EmbeddingConfig, logger *zap.Logger) *OpenAIProvider {
	return &OpenAIProvider{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
		dimension: cfg.Dimension,
	}
}

func (p *OpenAIProvider) EmbedQuery(ctx context.Context, text string) ([]float64, error) {
	vectors, err := p.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (p *OpenAIProvider) EmbedDocuments(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	req := &entity.EmbeddingRequest{
		Model: p.config.Model,
		Input: texts,
	}

	var resp entity.EmbeddingResponse
	err := retry.Do(func() error {
		return p.connector.DoRequest(ctx, http.MethodPost, p.config.EmbeddingsEndpoint, req, &resp)
	}, append(p.config.Retry.ToRetryOptions(), retry.Context(ctx))...)
	if err != nil {
		return nil, fmt.Errorf("embeddings request failed: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings response has %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	// The API may return entries out of order; the index field is authoritative.
	sort.Slice(resp.Data, func(i, j int) bool { return resp.Data[i].Index < resp.Data[j].Index })

	vectors := make([][]float64, len(resp.Data))
	for i, d := range resp.Data {
		vectors[i] = d.Embedding
	}

	if len(vectors[0]) > 0 {
		p.dimension = len(vectors[0])
	}

	ctxzap.Debug(ctx, "embedded documents",
		zap.Int("count", len(vectors)),
		zap.Int("dimension", p.dimension),
	)

	return vectors, nil
}

func (p *OpenAIProvider) Dimension() int {
	return p.dimension
}
