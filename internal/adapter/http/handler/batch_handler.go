package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/iho/creditledger/internal/adapter/http/dto"
	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

// CreditService defines the behavior needed by BatchHandler.
type CreditService interface {
	Execute(ctx context.Context, input usecase.ExecuteInput) (*usecase.BatchResult, error)
	ExecuteStep(ctx context.Context, caller string, step domain.Step) (*usecase.BatchResult, error)
}

// BatchHandler submits action batches and privileged callbacks.
type BatchHandler struct {
	creditUC CreditService
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(creditUC CreditService) *BatchHandler {
	return &BatchHandler{creditUC: creditUC}
}

// Execute runs a batch of actions against the account in the path.
func (h *BatchHandler) Execute(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}

	var req dto.ExecuteRequest
	if !decode(w, r, &req) {
		return
	}
	actions, err := req.ToActions()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result, err := h.creditUC.Execute(r.Context(), usecase.ExecuteInput{
		Caller:    caller.ID,
		AccountID: chi.URLParam(r, "id"),
		Actions:   actions,
		Funds:     req.Funds,
		RequestID: chimiddleware.GetReqID(r.Context()),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Callback runs a single privileged step. Only the credit manager itself may
// invoke steps, so every external caller is rejected by the use case.
func (h *BatchHandler) Callback(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}

	var req dto.CallbackRequest
	if !decode(w, r, &req) {
		return
	}
	step, err := req.ToDomain()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result, err := h.creditUC.ExecuteStep(r.Context(), caller.ID, step)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
