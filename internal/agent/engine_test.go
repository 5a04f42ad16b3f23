package agent

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/Boddenberg/pj-assistant-bfa-go/internal/entity"
	"github.com/Boddenberg/pj-assistant-bfa-go/internal/knowledge"
)

type recordingObserver struct {
	stages     []string
	retrievals []int
	confidence []float64
}

func (o *recordingObserver) ObserveStageDuration(stage string, _ float64) {
	o.stages = append(o.stages, stage)
}

func (o *recordingObserver) ObserveRetrievalResults(count int) {
	o.retrievals = append(o.retrievals, count)
}

func (o *recordingObserver) ObserveConfidence(confidence float64) {
	o.confidence = append(o.confidence, confidence)
}

func newTestEngine(store knowledge.Store, client GenerativeClient, observer Observer) *Engine {
	return NewEngine(
		NewPlanner(),
		NewRetriever(fakeProvider{store: store}, 3, 0.3),
		NewAnalyzer(),
		NewSynthesizer(client),
		observer,
	)
}

func TestEngineFullRun(t *testing.T) {
	store := &fakeStore{
		results: []knowledge.ScoredChunk{
			{Chunk: knowledge.Chunk{Content: "Capital de giro para PME", Metadata: map[string]string{"source": "giro.md"}}, Score: 0.8},
		},
	}
	client := &fakeLLM{
		content: "Recomendação final.",
		usage:   entity.TokenUsage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150},
	}
	observer := &recordingObserver{}
	engine := newTestEngine(store, client, observer)

	profile := &entity.CustomerProfile{Segment: "PME", MonthlyRevenue: 30000, CreditScore: 650}
	txs := []entity.Transaction{
		{Amount: 5000, Category: "vendas"},
		{Amount: -2000, Category: "folha"},
		{Amount: -500, Category: "energia"},
	}
	state := engine.Run(context.Background(), entity.NewAgentState("c-1", profile, txs, "como crescer?"))

	wantTools := []string{
		entity.ToolRAGRetrieval,
		entity.ToolFinancialAnalysis,
		entity.ToolLLMSynthesis,
	}
	if !reflect.DeepEqual(state.ToolsExecuted, wantTools) {
		t.Errorf("tools = %v, want %v", state.ToolsExecuted, wantTools)
	}

	if state.Answer != "Recomendação final." {
		t.Errorf("answer = %q", state.Answer)
	}
	if !almostEqual(state.Confidence, 1.0) {
		t.Errorf("confidence = %v", state.Confidence)
	}
	if state.TokenUsage.TotalTokens != 150 {
		t.Errorf("token usage = %+v", state.TokenUsage)
	}
	analysis := state.ToolResults[entity.ToolResultFinancialAnalysis]
	for _, want := range []string{
		"Receita total: R$5,000.00",
		"Despesas totais: R$2,500.00",
		"Fluxo de caixa líquido: R$2,500.00",
		"✅ Fluxo de caixa positivo",
	} {
		if !strings.Contains(analysis, want) {
			t.Errorf("analysis missing %q: %q", want, analysis)
		}
	}

	// The analysis summary must reach the prompt.
	if !strings.Contains(client.lastPrompt, "Receita total: R$5,000.00") {
		t.Error("analysis summary not in prompt")
	}
	if !strings.Contains(client.lastPrompt, "Capital de giro para PME") {
		t.Error("retrieved context not in prompt")
	}

	wantStages := []string{stagePlanner, stageRetriever, stageAnalyzer, stageSynthesizer}
	if !reflect.DeepEqual(observer.stages, wantStages) {
		t.Errorf("stages observed = %v, want %v", observer.stages, wantStages)
	}
	if !reflect.DeepEqual(observer.retrievals, []int{1}) {
		t.Errorf("retrievals observed = %v", observer.retrievals)
	}
	if len(observer.confidence) != 1 || !almostEqual(observer.confidence[0], 1.0) {
		t.Errorf("confidence observed = %v", observer.confidence)
	}
}

func TestEngineSkipsAnalysisWithoutTransactions(t *testing.T) {
	store := &fakeStore{}
	client := &fakeLLM{content: "ok"}
	observer := &recordingObserver{}
	engine := newTestEngine(store, client, observer)

	state := engine.Run(context.Background(), entity.NewAgentState("c-1", nil, nil, "pergunta"))

	for _, tool := range state.ToolsExecuted {
		if tool == entity.ToolFinancialAnalysis {
			t.Error("analysis ran without transactions")
		}
	}
	if _, ok := state.ToolResults[entity.ToolResultFinancialAnalysis]; ok {
		t.Error("analysis result present without transactions")
	}

	wantStages := []string{stagePlanner, stageRetriever, stageSynthesizer}
	if !reflect.DeepEqual(observer.stages, wantStages) {
		t.Errorf("stages observed = %v, want %v", observer.stages, wantStages)
	}
}

func TestEngineRetrievalFailureLowersConfidence(t *testing.T) {
	store := &fakeStore{err: context.DeadlineExceeded}
	client := &fakeLLM{content: "resposta parcial"}
	engine := newTestEngine(store, client, nil)

	state := engine.Run(context.Background(), entity.NewAgentState("c-1", nil, nil, "pergunta"))

	if state.Answer != "resposta parcial" {
		t.Errorf("answer = %q", state.Answer)
	}
	// Base 0.5, no profile/transactions/context, errors present.
	if !almostEqual(state.Confidence, 0.5) {
		t.Errorf("confidence = %v, want 0.5", state.Confidence)
	}
	if len(state.Errors) != 1 {
		t.Errorf("errors = %v", state.Errors)
	}

	wantTools := []string{entity.ToolRAGRetrievalFailed, entity.ToolLLMSynthesis}
	if !reflect.DeepEqual(state.ToolsExecuted, wantTools) {
		t.Errorf("tools = %v, want %v", state.ToolsExecuted, wantTools)
	}
}
