package assistant

import (
	"context"

	"github.com/Boddenberg/pj-assistant-bfa-go/internal/entity"
)

type AssistantUsecase interface {
	Recommend(ctx context.Context, customerID string, profile *entity.CustomerProfile, transactions []entity.Transaction, query string) (*entity.Recommendation, error)
}
