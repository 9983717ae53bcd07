package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/creditledger/internal/adapter/http/dto"
	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

// QueryService defines the read-only projections served by QueryHandler.
type QueryService interface {
	CoinBalances(ctx context.Context, input usecase.PageInput) ([]domain.CoinBalance, error)
	DebtShares(ctx context.Context, input usecase.PageInput) ([]domain.DebtShares, error)
	TotalDebtShares(ctx context.Context, input usecase.PageInput) ([]domain.TotalDebtShares, error)
	VaultPositions(ctx context.Context, input usecase.PageInput) ([]*domain.VaultPosition, error)
	TotalVaultCoinBalances(ctx context.Context, input usecase.PageInput) ([]domain.VaultBalance, error)
	AllowedCoins(ctx context.Context, input usecase.PageInput) ([]string, error)
	VaultConfigs(ctx context.Context, input usecase.PageInput) ([]domain.VaultUtilization, error)
	Positions(ctx context.Context, accountID string) (*domain.Positions, error)
}

// QueryHandler serves ledger projections.
type QueryHandler struct {
	queryUC QueryService
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(queryUC QueryService) *QueryHandler {
	return &QueryHandler{queryUC: queryUC}
}

// listPage runs a paginated projection and writes it with its next cursor.
func listPage[T any](
	w http.ResponseWriter,
	r *http.Request,
	list func(context.Context, usecase.PageInput) ([]T, error),
	key func(T) string,
) {
	input := parsePage(r)
	items, err := list(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewPage(items, input.Limit, key))
}

// CoinBalances lists collateral balances.
func (h *QueryHandler) CoinBalances(w http.ResponseWriter, r *http.Request) {
	listPage(w, r, h.queryUC.CoinBalances, func(b domain.CoinBalance) string {
		return domain.PairKey{First: b.AccountID, Second: b.Denom}.String()
	})
}

// DebtShares lists account debt shares.
func (h *QueryHandler) DebtShares(w http.ResponseWriter, r *http.Request) {
	listPage(w, r, h.queryUC.DebtShares, func(d domain.DebtShares) string {
		return domain.PairKey{First: d.AccountID, Second: d.Denom}.String()
	})
}

// TotalDebtShares lists the share supply per denom.
func (h *QueryHandler) TotalDebtShares(w http.ResponseWriter, r *http.Request) {
	listPage(w, r, h.queryUC.TotalDebtShares, func(t domain.TotalDebtShares) string {
		return t.Denom
	})
}

// VaultPositions lists vault positions.
func (h *QueryHandler) VaultPositions(w http.ResponseWriter, r *http.Request) {
	listPage(w, r, h.queryUC.VaultPositions, func(p *domain.VaultPosition) string {
		return domain.PairKey{First: p.AccountID, Second: p.Vault}.String()
	})
}

// TotalVaultCoinBalances lists vault token holdings per vault.
func (h *QueryHandler) TotalVaultCoinBalances(w http.ResponseWriter, r *http.Request) {
	listPage(w, r, h.queryUC.TotalVaultCoinBalances, func(b domain.VaultBalance) string {
		return b.Vault
	})
}

// AllowedCoins lists whitelisted denoms.
func (h *QueryHandler) AllowedCoins(w http.ResponseWriter, r *http.Request) {
	listPage(w, r, h.queryUC.AllowedCoins, func(c string) string { return c })
}

// VaultConfigs lists vault configs with their utilization.
func (h *QueryHandler) VaultConfigs(w http.ResponseWriter, r *http.Request) {
	listPage(w, r, h.queryUC.VaultConfigs, func(v domain.VaultUtilization) string {
		return v.Config.Address
	})
}

// Positions returns the full view of one account.
func (h *QueryHandler) Positions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.queryUC.Positions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, positions)
}
