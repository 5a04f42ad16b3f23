// Package assistant implements the recommendation use case: admission checks
// on the incoming request, one workflow run, then output policy (PII
// redaction, low-confidence fallback) on the result.
package assistant

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/Boddenberg/pj-assistant-bfa-go/internal/config"
	"github.com/Boddenberg/pj-assistant-bfa-go/internal/entity"
	"github.com/Boddenberg/pj-assistant-bfa-go/internal/observability"
	"github.com/Boddenberg/pj-assistant-bfa-go/internal/security"
)

const fallbackAnswer = "Não foi possível gerar uma recomendação confiável no momento. " +
	"Por favor, consulte um de nossos especialistas para uma análise personalizada."

// AssistantUsecase orchestrates one recommendation request end to end.
type AssistantUsecase struct {
	engine         WorkflowEngine
	sanitizer      *security.Sanitizer
	rateLimiter    *security.RateLimiter
	costController *security.CostController
	metrics        *observability.Metrics
	agentCfg       config.AgentConfig
	logger         *zap.Logger
}

func NewUsecase(
	engine WorkflowEngine,
	sanitizer *security.Sanitizer,
	rateLimiter *security.RateLimiter,
	costController *security.CostController,
	metrics *observability.Metrics,
	agentCfg config.AgentConfig,
	logger *zap.Logger,
) *AssistantUsecase {
	return &AssistantUsecase{
		engine:         engine,
		sanitizer:      sanitizer,
		rateLimiter:    rateLimiter,
		costController: costController,
		metrics:        metrics,
		agentCfg:       agentCfg,
		logger:         logger,
	}
}

// Recommend validates and admits the request, runs the workflow and applies
// the output policy. Rejections surface as sentinel errors so the transport
// layer can map them to status codes.
func (uc *AssistantUsecase) Recommend(
	ctx context.Context,
	customerID string,
	profile *entity.CustomerProfile,
	transactions []entity.Transaction,
	query string,
) (*entity.Recommendation, error) {
	if customerID == "" {
		return nil, entity.ErrMissingCustomerID
	}

	if !uc.rateLimiter.Allow(customerID) {
		ctxzap.Warn(ctx, "rate limit exceeded", zap.String("customer_id", customerID))
		uc.metrics.IncError("rate_limited")
		return nil, entity.ErrRateLimited
	}

	query = uc.sanitizer.Sanitize(query)
	if security.DetectInjection(ctx, query) {
		uc.metrics.IncError("prompt_injection")
		return nil, entity.ErrInjectionDetected
	}

	uc.metrics.RequestStarted()
	defer uc.metrics.RequestFinished()

	runCtx, cancel := context.WithTimeout(ctx, uc.agentCfg.RequestTimeout)
	defer cancel()

	state := uc.engine.Run(runCtx, entity.NewAgentState(customerID, profile, transactions, query))

	uc.recordUsage(ctx, customerID, state)

	return uc.applyOutputPolicy(ctx, state), nil
}

func (uc *AssistantUsecase) recordUsage(ctx context.Context, customerID string, state entity.AgentState) {
	usage := state.TokenUsage
	uc.metrics.AddTokens(usage.PromptTokens, usage.CompletionTokens)

	cost := uc.costController.EstimateCost(usage.PromptTokens, usage.CompletionTokens)
	uc.metrics.ObserveRequestCost(cost)

	// The daily cap is advisory; a breach is logged, never blocked on.
	if !uc.costController.RecordAndCheck(customerID, cost) {
		ctxzap.Warn(ctx, "daily cost limit exceeded",
			zap.String("customer_id", customerID),
			zap.Float64("daily_spend", uc.costController.DailySpend(customerID)),
		)
		uc.metrics.IncError("cost_limit")
	}

	for _, e := range state.Errors {
		ctxzap.Warn(ctx, "workflow error recorded", zap.String("error", e))
	}
	if len(state.Errors) > 0 {
		uc.metrics.IncError("workflow")
	}
}

// applyOutputPolicy redacts PII from the answer and replaces it with the
// fallback when confidence is below the floor or the answer came back empty.
func (uc *AssistantUsecase) applyOutputPolicy(ctx context.Context, state entity.AgentState) *entity.Recommendation {
	answer := security.RedactPII(ctx, state.Answer)
	confidence := state.Confidence

	if confidence < uc.agentCfg.FallbackConfidence || answer == "" {
		ctxzap.Info(ctx, "fallback answer used",
			zap.String("customer_id", state.CustomerID),
			zap.Float64("confidence", confidence),
		)
		uc.metrics.IncFallback()
		answer = fallbackAnswer
	}

	return &entity.Recommendation{
		Answer:        answer,
		Reasoning:     state.Reasoning,
		Sources:       state.Sources,
		Confidence:    confidence,
		TokensUsed:    state.TokenUsage,
		ToolsExecuted: state.ToolsExecuted,
	}
}
