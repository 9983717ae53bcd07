package handler

import (
	"context"
	"net/http"

	errorsmod "cosmossdk.io/errors"
	"github.com/go-chi/chi/v5"

	"github.com/iho/creditledger/internal/adapter/http/dto"
	"github.com/iho/creditledger/internal/domain"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, owner string) (string, error)
	TransferAccount(ctx context.Context, accountID, from, to string) error
	OwnerOf(ctx context.Context, accountID string) (string, error)
}

// AccountHandler handles credit account ownership requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create opens a new credit account. Only admins may open accounts for others.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}

	var req dto.CreateAccountRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	owner := req.Owner
	if owner == "" {
		owner = caller.ID
	}
	if owner != caller.ID && caller.Role != domain.RoleAdmin {
		writeDomainError(w, errorsmod.Wrapf(domain.ErrUnauthorized, "%s cannot open accounts for %s", caller.ID, owner))
		return
	}

	accountID, err := h.accountUC.CreateAccount(r.Context(), owner)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountResponse{AccountID: accountID, Owner: owner})
}

// Get returns the owner of an account.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	owner, err := h.accountUC.OwnerOf(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountResponse{AccountID: id, Owner: owner})
}

// Transfer hands the account from the caller to another principal.
func (h *AccountHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var req dto.TransferAccountRequest
	if !decode(w, r, &req) {
		return
	}
	if req.To == "" {
		writeError(w, http.StatusBadRequest, "missing recipient", "")
		return
	}

	if err := h.accountUC.TransferAccount(r.Context(), id, caller.ID, req.To); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountResponse{AccountID: id, Owner: req.To})
}
