package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/Boddenberg/pj-assistant-bfa-go/internal/entity"
	"github.com/Boddenberg/pj-assistant-bfa-go/internal/pkg/logger"
	"github.com/Boddenberg/pj-assistant-bfa-go/internal/pkg/response"
)

type Handler struct {
	usecase AssistantUsecase
}

func NewHandler(usecase AssistantUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// Invoke handles POST /v1/agent/invoke - Run the recommendation workflow
func (h *Handler) Invoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req entity.InvokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx = logger.WithCustomer(ctx, req.CustomerID)
	ctxzap.Info(ctx, "invoking recommendation workflow",
		zap.Int("transactions", len(req.Transactions)),
		zap.Bool("has_profile", req.Profile != nil),
	)

	rec, err := h.usecase.Recommend(ctx, req.CustomerID, req.Profile, req.Transactions, req.Query)
	if err != nil {
		h.respondUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toInvokeResponse(rec))
}

// Chat handles POST /v1/chat - Conversational wrapper over the workflow
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req entity.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx = logger.WithCustomer(ctx, req.CustomerID)
	ctxzap.Info(ctx, "handling chat message",
		zap.String("conversation_id", req.ConversationID),
	)

	rec, err := h.usecase.Recommend(ctx, req.CustomerID, nil, nil, req.Query)
	if err != nil {
		h.respondUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toChatResponse(req.ConversationID, rec))
}

func (h *Handler) respondUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrMissingCustomerID), errors.Is(err, entity.ErrInvalidRequest):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrInjectionDetected):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrRateLimited):
		response.Error(w, http.StatusTooManyRequests, err.Error())
	default:
		ctxzap.Error(ctx, "recommendation failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "internal error")
	}
}
