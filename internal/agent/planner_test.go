package agent

import (
	"context"
	"reflect"
	"testing"

	"github.com/Boddenberg/pj-assistant-bfa-go/internal/entity"
)

func TestPlannerAlwaysRetrieves(t *testing.T) {
	planner := NewPlanner()

	state := entity.NewAgentState("c-1", nil, nil, "preciso de crédito")
	delta := planner.Plan(context.Background(), state)

	if !delta.Plan.Retrieve {
		t.Error("expected retrieval to be planned")
	}
	if delta.Plan.Analyze {
		t.Error("analysis planned without transactions")
	}
	if got := delta.Plan.Steps(); !reflect.DeepEqual(got, []string{entity.StepRetrieveKnowledge}) {
		t.Errorf("unexpected steps: %v", got)
	}
}

func TestPlannerAnalyzesWithTransactions(t *testing.T) {
	planner := NewPlanner()

	txs := []entity.Transaction{{ID: "t-1", Amount: 100}}
	state := entity.NewAgentState("c-1", nil, txs, "")
	delta := planner.Plan(context.Background(), state)

	want := []string{entity.StepRetrieveKnowledge, entity.StepAnalyzeFinancials}
	if got := delta.Plan.Steps(); !reflect.DeepEqual(got, want) {
		t.Errorf("steps = %v, want %v", got, want)
	}
}
