package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/Boddenberg/pj-assistant-bfa-go/internal/config"
	"github.com/Boddenberg/pj-assistant-bfa-go/internal/entity"
	"github.com/Boddenberg/pj-assistant-bfa-go/internal/integration/common"
	pkghttp "github.com/Boddenberg/pj-assistant-bfa-go/pkg/http"
)

type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Generate runs one chat completion with a bounded output length and a low
// fixed temperature so recommendations stay consistent between calls.
func (c *Connector) Generate(ctx context.Context, prompt string) (*entity.Generation, error) {
	ctxzap.Info(ctx, "generating recommendation via LLM service",
		zap.String("model", c.config.Model),
		zap.Int("prompt_length", len(prompt)),
	)

	req := &entity.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    []entity.ChatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
	}

	var resp entity.ChatCompletionResponse
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.CompletionsEndpoint, req, &resp)
	}, append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, entity.ErrEmptyCompletion
	}

	gen := &entity.Generation{Content: resp.Choices[0].Message.Content}
	if resp.Usage != nil {
		gen.Usage = *resp.Usage
	}

	ctxzap.Info(ctx, "recommendation generated successfully",
		zap.Int("tokens", gen.Usage.TotalTokens),
		zap.Int("result_length", len(gen.Content)),
	)

	return gen, nil
}
