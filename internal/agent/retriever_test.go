package agent

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/Boddenberg/pj-assistant-bfa-go/internal/entity"
	"github.com/Boddenberg/pj-assistant-bfa-go/internal/knowledge"
)

func TestRetrieverSuccess(t *testing.T) {
	store := &fakeStore{
		results: []knowledge.ScoredChunk{
			{Chunk: knowledge.Chunk{Content: "Linhas de crédito PJ", Metadata: map[string]string{"source": "credito.md"}}, Score: 0.9},
			{Chunk: knowledge.Chunk{Content: "Capital de giro"}, Score: 0.6},
		},
	}
	retriever := NewRetriever(fakeProvider{store: store}, 3, 0.3)

	state := entity.NewAgentState("c-1", nil, nil, "preciso de crédito")
	delta := retriever.Retrieve(context.Background(), state)

	wantContext := "Linhas de crédito PJ\n\n---\n\nCapital de giro"
	if delta.RetrievedContext != wantContext {
		t.Errorf("context = %q", delta.RetrievedContext)
	}
	if want := []string{"credito.md", "unknown"}; !reflect.DeepEqual(delta.Sources, want) {
		t.Errorf("sources = %v, want %v", delta.Sources, want)
	}
	if want := []string{entity.ToolRAGRetrieval}; !reflect.DeepEqual(delta.ToolsExecuted, want) {
		t.Errorf("tools = %v, want %v", delta.ToolsExecuted, want)
	}
	if len(delta.Errors) != 0 {
		t.Errorf("unexpected errors: %v", delta.Errors)
	}
	if store.lastTopK != 3 || store.lastThreshold != 0.3 {
		t.Errorf("search params = (%d, %v)", store.lastTopK, store.lastThreshold)
	}
}

func TestRetrieverFailureIsNonFatal(t *testing.T) {
	store := &fakeStore{err: errors.New("backend down")}
	retriever := NewRetriever(fakeProvider{store: store}, 3, 0.3)

	state := entity.NewAgentState("c-1", nil, nil, "")
	delta := retriever.Retrieve(context.Background(), state)

	if delta.RetrievedContext != "" || delta.Sources != nil {
		t.Errorf("expected empty retrieval, got %q / %v", delta.RetrievedContext, delta.Sources)
	}
	if want := []string{entity.ToolRAGRetrievalFailed}; !reflect.DeepEqual(delta.ToolsExecuted, want) {
		t.Errorf("tools = %v, want %v", delta.ToolsExecuted, want)
	}
	if len(delta.Errors) != 1 || !strings.Contains(delta.Errors[0], "RAG retrieval failed") {
		t.Errorf("errors = %v", delta.Errors)
	}
}

func TestBuildSearchQueryWithProfile(t *testing.T) {
	profile := &entity.CustomerProfile{
		Segment:        "MEI",
		MonthlyRevenue: 15000,
		CreditScore:    720,
	}
	state := entity.NewAgentState("c-1", profile, nil, "Como melhorar meu fluxo de caixa?")

	got := buildSearchQuery(state)
	want := "Cliente PJ segmento MEI. faturamento mensal R$15,000.00. score de crédito 720. Como melhorar meu fluxo de caixa?"
	if got != want {
		t.Errorf("query = %q, want %q", got, want)
	}
}

func TestBuildSearchQueryDefaults(t *testing.T) {
	state := entity.NewAgentState("c-1", nil, nil, "")

	if got := buildSearchQuery(state); got != "recomendações financeiras para empresa" {
		t.Errorf("query = %q", got)
	}

	// Zero revenue and score stay out of the query.
	state.Profile = &entity.CustomerProfile{Segment: "PME"}
	if got := buildSearchQuery(state); got != "Cliente PJ segmento PME. recomendações financeiras para empresa" {
		t.Errorf("query = %q", got)
	}
}
