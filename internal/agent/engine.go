package agent

import (
	"context"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/Boddenberg/pj-assistant-bfa-go/internal/entity"
)

// Stage labels used for pipeline measurements.
const (
	stagePlanner     = "planner"
	stageRetriever   = "retriever"
	stageAnalyzer    = "analyzer"
	stageSynthesizer = "synthesizer"
)

// Engine runs the fixed stage order planner, retriever, analyzer,
// synthesizer, skipping the optional middle stages the plan excludes. Stages
// never fail the run; their errors accumulate on the state and lower the
// final confidence.
type Engine struct {
	planner     *Planner
	retriever   *Retriever
	analyzer    *Analyzer
	synthesizer *Synthesizer
	observer    Observer
}

func NewEngine(planner *Planner, retriever *Retriever, analyzer *Analyzer, synthesizer *Synthesizer, observer Observer) *Engine {
	return &Engine{
		planner:     planner,
		retriever:   retriever,
		analyzer:    analyzer,
		synthesizer: synthesizer,
		observer:    observer,
	}
}

func (e *Engine) Run(ctx context.Context, state entity.AgentState) entity.AgentState {
	started := time.Now()

	start := time.Now()
	state.ApplyPlan(e.planner.Plan(ctx, state))
	e.observeStage(stagePlanner, start)

	if state.Plan.Retrieve {
		start = time.Now()
		delta := e.retriever.Retrieve(ctx, state)
		e.observeStage(stageRetriever, start)
		if e.observer != nil {
			e.observer.ObserveRetrievalResults(len(delta.Sources))
		}
		state.ApplyRetrieval(delta)
	}

	if state.Plan.Analyze {
		start = time.Now()
		state.ApplyAnalysis(e.analyzer.Analyze(ctx, state))
		e.observeStage(stageAnalyzer, start)
	}

	start = time.Now()
	state.ApplySynthesis(e.synthesizer.Synthesize(ctx, state))
	e.observeStage(stageSynthesizer, start)
	if e.observer != nil {
		e.observer.ObserveConfidence(state.Confidence)
	}

	ctxzap.Info(ctx, "workflow completed",
		zap.String("customer_id", state.CustomerID),
		zap.Strings("tools_executed", state.ToolsExecuted),
		zap.Float64("confidence", state.Confidence),
		zap.Int("errors", len(state.Errors)),
		zap.Duration("duration", time.Since(started)),
	)

	return state
}

func (e *Engine) observeStage(stage string, start time.Time) {
	if e.observer != nil {
		e.observer.ObserveStageDuration(stage, time.Since(start).Seconds())
	}
}
