package assistant

import (
	"context"

	"github.com/Boddenberg/pj-assistant-bfa-go/internal/entity"
)

// WorkflowEngine runs the full recommendation pipeline over an initial state.
type WorkflowEngine interface {
	Run(ctx context.Context, state entity.AgentState) entity.AgentState
}
