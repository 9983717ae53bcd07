package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	sdkmath "cosmossdk.io/math"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

type queryServiceStub struct {
	coinBalancesFn func(ctx context.Context, input usecase.PageInput) ([]domain.CoinBalance, error)
	positionsFn    func(ctx context.Context, accountID string) (*domain.Positions, error)
}

func (s *queryServiceStub) CoinBalances(ctx context.Context, input usecase.PageInput) ([]domain.CoinBalance, error) {
	return s.coinBalancesFn(ctx, input)
}

func (s *queryServiceStub) DebtShares(ctx context.Context, input usecase.PageInput) ([]domain.DebtShares, error) {
	return nil, nil
}

func (s *queryServiceStub) TotalDebtShares(ctx context.Context, input usecase.PageInput) ([]domain.TotalDebtShares, error) {
	return []domain.TotalDebtShares{{Denom: "uatom", Shares: sdkmath.NewInt(10)}}, nil
}

func (s *queryServiceStub) VaultPositions(ctx context.Context, input usecase.PageInput) ([]*domain.VaultPosition, error) {
	return nil, nil
}

func (s *queryServiceStub) TotalVaultCoinBalances(ctx context.Context, input usecase.PageInput) ([]domain.VaultBalance, error) {
	return nil, nil
}

func (s *queryServiceStub) AllowedCoins(ctx context.Context, input usecase.PageInput) ([]string, error) {
	return []string{"uatom", "uosmo"}, nil
}

func (s *queryServiceStub) VaultConfigs(ctx context.Context, input usecase.PageInput) ([]domain.VaultUtilization, error) {
	return nil, nil
}

func (s *queryServiceStub) Positions(ctx context.Context, accountID string) (*domain.Positions, error) {
	return s.positionsFn(ctx, accountID)
}

type pageBody struct {
	Items          []json.RawMessage `json:"items"`
	NextStartAfter string            `json:"next_start_after"`
}

func TestQueryHandler_CoinBalancesPaginates(t *testing.T) {
	var captured usecase.PageInput
	handler := NewQueryHandler(&queryServiceStub{
		coinBalancesFn: func(ctx context.Context, input usecase.PageInput) ([]domain.CoinBalance, error) {
			captured = input
			return []domain.CoinBalance{
				{AccountID: "1", Denom: "uatom", Amount: sdkmath.NewInt(5)},
				{AccountID: "1", Denom: "uosmo", Amount: sdkmath.NewInt(7)},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/coins?start_after=0:uosmo&limit=2", nil)
	rec := httptest.NewRecorder()

	handler.CoinBalances(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.StartAfter != "0:uosmo" || captured.Limit != 2 {
		t.Fatalf("unexpected page input: %+v", captured)
	}

	var body pageBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Items) != 2 || body.NextStartAfter != "1:uosmo" {
		t.Fatalf("unexpected page: %+v", body)
	}
}

func TestQueryHandler_CoinBalancesInvalidCursor(t *testing.T) {
	handler := NewQueryHandler(&queryServiceStub{
		coinBalancesFn: func(ctx context.Context, input usecase.PageInput) ([]domain.CoinBalance, error) {
			return nil, domain.ErrInvalidCursor
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/coins?start_after=bogus", nil)
	rec := httptest.NewRecorder()

	handler.CoinBalances(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestQueryHandler_LastPageHasNoCursor(t *testing.T) {
	handler := NewQueryHandler(&queryServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/allowed-coins?limit=5", nil)
	rec := httptest.NewRecorder()

	handler.AllowedCoins(rec, req)

	var body pageBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Items) != 2 || body.NextStartAfter != "" {
		t.Fatalf("unexpected page: %+v", body)
	}
}

func TestQueryHandler_Positions(t *testing.T) {
	handler := NewQueryHandler(&queryServiceStub{
		positionsFn: func(ctx context.Context, accountID string) (*domain.Positions, error) {
			return &domain.Positions{
				AccountID: accountID,
				Coins:     []domain.Coin{domain.NewCoin("uosmo", 100)},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/7/positions", nil)
	req = setChiURLParam(req, "id", "7")
	rec := httptest.NewRecorder()

	handler.Positions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		AccountID string `json:"account_id"`
		Coins     []struct {
			Denom  string `json:"denom"`
			Amount string `json:"amount"`
		} `json:"coins"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.AccountID != "7" || len(resp.Coins) != 1 || resp.Coins[0].Amount != "100" {
		t.Fatalf("unexpected positions: %+v", resp)
	}
}

func TestQueryHandler_PositionsUnknownAccount(t *testing.T) {
	handler := NewQueryHandler(&queryServiceStub{
		positionsFn: func(ctx context.Context, accountID string) (*domain.Positions, error) {
			return nil, domain.ErrAccountNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/9/positions", nil)
	req = setChiURLParam(req, "id", "9")
	rec := httptest.NewRecorder()

	handler.Positions(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}
