package dto

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/iho/creditledger/internal/domain"
)

func TestExecuteRequest_ToActions(t *testing.T) {
	body := `{
		"actions": [
			{"type": "deposit", "coin": {"denom": "uosmo", "amount": "100"}},
			{"type": "borrow", "coin": {"denom": "uatom", "amount": "25"}},
			{"type": "enter_vault", "vault": "vault-a", "denom": "uosmo", "account_balance": true},
			{"type": "exit_vault_unlocked", "vault": "vault-a", "lot_id": 3},
			{"type": "liquidate_vault", "liquidatee": "2", "debt_coin": {"denom": "uatom", "amount": "5"}, "request_vault": "vault-a"},
			{"type": "refund_all_coin_balances"}
		],
		"funds": [{"denom": "uosmo", "amount": "100"}]
	}`

	var req ExecuteRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	actions, err := req.ToActions()
	if err != nil {
		t.Fatalf("ToActions() error = %v", err)
	}
	if len(actions) != 6 {
		t.Fatalf("expected 6 actions, got %d", len(actions))
	}

	deposit, ok := actions[0].(domain.DepositAction)
	if !ok || deposit.Coin.Denom != "uosmo" || deposit.Coin.Amount.Int64() != 100 {
		t.Fatalf("unexpected deposit: %+v", actions[0])
	}
	enter, ok := actions[2].(domain.EnterVaultAction)
	if !ok || !enter.Amount.AccountBalance || enter.Vault != "vault-a" {
		t.Fatalf("unexpected enter vault: %+v", actions[2])
	}
	exit, ok := actions[3].(domain.ExitVaultUnlockedAction)
	if !ok || exit.LotID != 3 {
		t.Fatalf("unexpected exit unlocked: %+v", actions[3])
	}
	liq, ok := actions[4].(domain.LiquidateVaultAction)
	if !ok || liq.Liquidatee != "2" || liq.DebtCoin.Amount.Int64() != 5 {
		t.Fatalf("unexpected liquidation: %+v", actions[4])
	}
	if _, ok := actions[5].(domain.RefundAllCoinBalancesAction); !ok {
		t.Fatalf("unexpected refund: %+v", actions[5])
	}
	if len(req.Funds) != 1 || req.Funds[0].Amount.Int64() != 100 {
		t.Fatalf("unexpected funds: %+v", req.Funds)
	}
}

func TestActionRequest_ToDomainRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name string
		req  ActionRequest
	}{
		{"deposit without coin", ActionRequest{Type: domain.ActionDeposit}},
		{"exit vault without amount", ActionRequest{Type: domain.ActionExitVault, Vault: "v"}},
		{"enter vault without amount", ActionRequest{Type: domain.ActionEnterVault, Vault: "v", Denom: "uosmo"}},
		{"liquidate without debt coin", ActionRequest{Type: domain.ActionLiquidateCoin, Liquidatee: "2"}},
		{"unknown type", ActionRequest{Type: "teleport"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.ToDomain()
			if !errors.Is(err, domain.ErrInvalidAction) {
				t.Fatalf("expected ErrInvalidAction, got %v", err)
			}
		})
	}
}

func TestExecuteRequest_ToActionsReportsIndex(t *testing.T) {
	req := ExecuteRequest{Actions: []ActionRequest{
		{Type: domain.ActionRefundAllCoinBalances},
		{Type: domain.ActionWithdraw},
	}}

	_, err := req.ToActions()

	var stepErr *domain.StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected StepError, got %v", err)
	}
	if stepErr.Index != 1 || stepErr.Kind != string(domain.ActionWithdraw) {
		t.Fatalf("unexpected step error: %+v", stepErr)
	}
}

func TestCallbackRequest_ToDomain(t *testing.T) {
	req := CallbackRequest{
		Kind: domain.StepBorrow,
		Step: json.RawMessage(`{"account_id": "1", "coin": {"denom": "uatom", "amount": "10"}}`),
	}

	step, err := req.ToDomain()
	if err != nil {
		t.Fatalf("ToDomain() error = %v", err)
	}
	borrow, ok := step.(domain.BorrowStep)
	if !ok || borrow.AccountID != "1" || borrow.Coin.Amount.Int64() != 10 {
		t.Fatalf("unexpected step: %+v", step)
	}
}

func TestCallbackRequest_ToDomainErrors(t *testing.T) {
	unknown := CallbackRequest{Kind: "mint_money"}
	if _, err := unknown.ToDomain(); !errors.Is(err, domain.ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction for unknown kind, got %v", err)
	}

	malformed := CallbackRequest{Kind: domain.StepRepay, Step: json.RawMessage(`{"coin": 5}`)}
	if _, err := malformed.ToDomain(); !errors.Is(err, domain.ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction for malformed step, got %v", err)
	}
}
