package agent

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/Boddenberg/pj-assistant-bfa-go/internal/entity"
)

// Planner decides which optional stages the engine runs for a request.
// Retrieval always runs; financial analysis only when there is transaction
// data to analyze. Synthesis is not planned because it always runs.
type Planner struct{}

func NewPlanner() *Planner {
	return &Planner{}
}

func (p *Planner) Plan(ctx context.Context, state entity.AgentState) entity.PlanDelta {
	plan := entity.Plan{
		Retrieve: true,
		Analyze:  len(state.Transactions) > 0,
	}

	ctxzap.Info(ctx, "plan created",
		zap.Strings("plan", plan.Steps()),
		zap.String("customer_id", state.CustomerID),
	)

	return entity.PlanDelta{Plan: plan}
}
