// Package builder wires the application together: configuration, logging,
// metrics, security components, the knowledge store, the workflow engine and
// the HTTP server.
package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Boddenberg/pj-assistant-bfa-go/internal/agent"
	"github.com/Boddenberg/pj-assistant-bfa-go/internal/api"
	assistantapi "github.com/Boddenberg/pj-assistant-bfa-go/internal/api/assistant"
	"github.com/Boddenberg/pj-assistant-bfa-go/internal/config"
	"github.com/Boddenberg/pj-assistant-bfa-go/internal/embedding"
	"github.com/Boddenberg/pj-assistant-bfa-go/internal/integration/llm"
	"github.com/Boddenberg/pj-assistant-bfa-go/internal/integration/supabase"
	"github.com/Boddenberg/pj-assistant-bfa-go/internal/knowledge"
	"github.com/Boddenberg/pj-assistant-bfa-go/internal/knowledge/chunker"
	"github.com/Boddenberg/pj-assistant-bfa-go/internal/observability"
	"github.com/Boddenberg/pj-assistant-bfa-go/internal/security"
	"github.com/Boddenberg/pj-assistant-bfa-go/internal/usecase/assistant"
)

func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	metrics := observability.NewMetrics()

	// Security components
	sanitizer := security.NewSanitizer(cfg.SecurityCfg.MaxInputLength)
	rateLimiter := security.NewRateLimiter(cfg.SecurityCfg.RateLimitRequests, cfg.SecurityCfg.RateLimitWindow)
	costController := security.NewCostController(cfg.CostCfg)
	logger.Info("Security components initialized")

	// Generative connector (with mock support)
	var llmClient agent.GenerativeClient
	if cfg.EnableMocks {
		logger.Info("Using mock connector for the generative backend")
		llmClient = llm.NewMockConnector(logger)
	} else {
		llmClient = llm.NewConnector(cfg.LLMConnectorCfg, logger)
	}

	// Knowledge store, built lazily on first retrieval
	knowledgeProvider := knowledge.NewProvider(buildKnowledgeStore(cfg, logger))

	// Workflow engine
	engine := agent.NewEngine(
		agent.NewPlanner(),
		agent.NewRetriever(knowledgeProvider, cfg.AgentCfg.TopK, cfg.AgentCfg.RelevanceThreshold),
		agent.NewAnalyzer(),
		agent.NewSynthesizer(llmClient),
		metrics,
	)
	logger.Info("Workflow engine initialized")

	assistantUC := assistant.NewUsecase(
		engine,
		sanitizer,
		rateLimiter,
		costController,
		metrics,
		cfg.AgentCfg,
		logger,
	)

	assistantHandler := assistantapi.NewHandler(assistantUC)
	router := api.SetupRouter(assistantHandler, metrics, logger)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		logger: logger,
	}, nil
}

// buildKnowledgeStore returns the store constructor the provider runs on
// first use. Supabase is preferred when configured; any failure preparing it
// falls back to the embedded local store, so retrieval keeps working.
func buildKnowledgeStore(cfg *config.Config, logger *zap.Logger) func(ctx context.Context) knowledge.Store {
	return func(ctx context.Context) knowledge.Store {
		var embedder embedding.Provider
		if cfg.EnableMocks {
			embedder = embedding.NewLocalProvider(cfg.EmbeddingConnectorCfg.Dimension)
		} else {
			embedder = embedding.NewOpenAIProvider(cfg.EmbeddingConnectorCfg, logger)
		}

		splitter := chunker.NewSplitter(cfg.KnowledgeCfg.ChunkSize, cfg.KnowledgeCfg.ChunkOverlap)

		docs, err := knowledge.LoadDir(cfg.KnowledgeCfg.BaseDir)
		if err != nil {
			logger.Error("Failed to load knowledge base directory", zap.Error(err))
			docs = nil
		}

		if cfg.UseSupabase() && !cfg.EnableMocks {
			store := knowledge.NewRemoteStore(supabase.NewClient(cfg.SupabaseCfg, logger), embedder)
			seedErr := knowledge.Provision(ctx, store, docs, splitter)
			if seedErr == nil {
				logger.Info("Knowledge store ready", zap.String("store", store.Name()))
				return store
			}
			logger.Error("Supabase store unavailable, falling back to local store", zap.Error(seedErr))
		}

		store := knowledge.NewLocalStore(embedder)
		if err := knowledge.Provision(ctx, store, docs, splitter); err != nil {
			logger.Error("Failed to seed local knowledge store", zap.Error(err))
		}
		logger.Info("Knowledge store ready", zap.String("store", store.Name()))
		return store
	}
}
