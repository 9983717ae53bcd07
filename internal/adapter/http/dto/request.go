package dto

import (
	"encoding/json"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"github.com/iho/creditledger/internal/domain"
)

// CreateAccountRequest represents a request to open a credit account. Owner
// defaults to the caller.
type CreateAccountRequest struct {
	Owner string `json:"owner,omitempty"`
}

// TransferAccountRequest hands an account to another principal.
type TransferAccountRequest struct {
	To string `json:"to"`
}

// ExecuteRequest is one user batch against a credit account.
type ExecuteRequest struct {
	Actions []ActionRequest `json:"actions"`
	Funds   []domain.Coin   `json:"funds,omitempty"`
}

// ActionRequest is a tagged action. Type selects which of the other fields apply.
type ActionRequest struct {
	Type domain.ActionKind `json:"type"`

	Coin     *domain.Coin `json:"coin,omitempty"`
	DebtCoin *domain.Coin `json:"debt_coin,omitempty"`

	Vault          string       `json:"vault,omitempty"`
	Denom          string       `json:"denom,omitempty"`
	Amount         *sdkmath.Int `json:"amount,omitempty"`
	AccountBalance bool         `json:"account_balance,omitempty"`
	LotID          uint64       `json:"lot_id,omitempty"`

	Liquidatee   string `json:"liquidatee,omitempty"`
	RequestDenom string `json:"request_denom,omitempty"`
	RequestVault string `json:"request_vault,omitempty"`
}

// ToDomain converts the request into a domain action.
func (r ActionRequest) ToDomain() (domain.Action, error) {
	switch r.Type {
	case domain.ActionDeposit:
		coin, err := r.coin()
		return domain.DepositAction{Coin: coin}, err
	case domain.ActionWithdraw:
		coin, err := r.coin()
		return domain.WithdrawAction{Coin: coin}, err
	case domain.ActionBorrow:
		coin, err := r.coin()
		return domain.BorrowAction{Coin: coin}, err
	case domain.ActionRepay:
		coin, err := r.coin()
		return domain.RepayAction{Coin: coin}, err
	case domain.ActionEnterVault:
		amount := domain.ActionAmount{AccountBalance: r.AccountBalance}
		if !r.AccountBalance {
			exact, err := r.amount()
			if err != nil {
				return nil, err
			}
			amount.Exact = exact
		}
		return domain.EnterVaultAction{Vault: r.Vault, Denom: r.Denom, Amount: amount}, nil
	case domain.ActionExitVault:
		amount, err := r.amount()
		return domain.ExitVaultAction{Vault: r.Vault, Amount: amount}, err
	case domain.ActionRequestVaultUnlock:
		amount, err := r.amount()
		return domain.RequestVaultUnlockAction{Vault: r.Vault, Amount: amount}, err
	case domain.ActionExitVaultUnlocked:
		return domain.ExitVaultUnlockedAction{Vault: r.Vault, LotID: r.LotID}, nil
	case domain.ActionLiquidateCoin:
		if r.DebtCoin == nil {
			return nil, errorsmod.Wrap(domain.ErrInvalidAction, "liquidate_coin requires debt_coin")
		}
		return domain.LiquidateCoinAction{
			Liquidatee:   r.Liquidatee,
			DebtCoin:     *r.DebtCoin,
			RequestDenom: r.RequestDenom,
		}, nil
	case domain.ActionLiquidateVault:
		if r.DebtCoin == nil {
			return nil, errorsmod.Wrap(domain.ErrInvalidAction, "liquidate_vault requires debt_coin")
		}
		return domain.LiquidateVaultAction{
			Liquidatee:   r.Liquidatee,
			DebtCoin:     *r.DebtCoin,
			RequestVault: r.RequestVault,
		}, nil
	case domain.ActionRefundAllCoinBalances:
		return domain.RefundAllCoinBalancesAction{}, nil
	default:
		return nil, errorsmod.Wrapf(domain.ErrInvalidAction, "unknown action type %q", r.Type)
	}
}

func (r ActionRequest) coin() (domain.Coin, error) {
	if r.Coin == nil {
		return domain.Coin{}, errorsmod.Wrapf(domain.ErrInvalidAction, "%s requires coin", r.Type)
	}
	return *r.Coin, nil
}

func (r ActionRequest) amount() (sdkmath.Int, error) {
	if r.Amount == nil {
		return sdkmath.Int{}, errorsmod.Wrapf(domain.ErrInvalidAction, "%s requires amount", r.Type)
	}
	return *r.Amount, nil
}

// ToActions converts every action of the batch, reporting the first bad index.
func (r *ExecuteRequest) ToActions() ([]domain.Action, error) {
	actions := make([]domain.Action, len(r.Actions))
	for i, a := range r.Actions {
		action, err := a.ToDomain()
		if err != nil {
			return nil, &domain.StepError{Index: i, Kind: string(a.Type), Err: err}
		}
		actions[i] = action
	}
	return actions, nil
}

// CallbackRequest carries a privileged step addressed to the credit manager.
type CallbackRequest struct {
	Kind string          `json:"kind"`
	Step json.RawMessage `json:"step"`
}

var stepDecoders = map[string]func(json.RawMessage) (domain.Step, error){
	domain.StepWithdraw:                   decodeStep[domain.WithdrawStep],
	domain.StepBorrow:                     decodeStep[domain.BorrowStep],
	domain.StepRepay:                      decodeStep[domain.RepayStep],
	domain.StepEnterVault:                 decodeStep[domain.EnterVaultStep],
	domain.StepUpdateVaultCoinBalance:     decodeStep[domain.UpdateVaultCoinBalanceStep],
	domain.StepExitVault:                  decodeStep[domain.ExitVaultStep],
	domain.StepRequestVaultUnlock:         decodeStep[domain.RequestVaultUnlockStep],
	domain.StepExitVaultUnlocked:          decodeStep[domain.ExitVaultUnlockedStep],
	domain.StepLiquidateCoin:              decodeStep[domain.LiquidateCoinStep],
	domain.StepLiquidateVault:             decodeStep[domain.LiquidateVaultStep],
	domain.StepUpdateCoinBalances:         decodeStep[domain.UpdateCoinBalancesStep],
	domain.StepRefundAllCoinBalances:      decodeStep[domain.RefundAllCoinBalancesStep],
	domain.StepAssertOneVaultPositionOnly: decodeStep[domain.AssertOneVaultPositionOnlyStep],
	domain.StepAssertHealthNonRegression:  decodeStep[domain.AssertHealthNonRegressionStep],
}

func decodeStep[T domain.Step](raw json.RawMessage) (domain.Step, error) {
	var step T
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &step); err != nil {
			return nil, fmt.Errorf("decode step: %w", err)
		}
	}
	return step, nil
}

// ToDomain decodes the step named by Kind.
func (r *CallbackRequest) ToDomain() (domain.Step, error) {
	decode, ok := stepDecoders[r.Kind]
	if !ok {
		return nil, errorsmod.Wrapf(domain.ErrInvalidAction, "unknown step kind %q", r.Kind)
	}
	step, err := decode(r.Step)
	if err != nil {
		return nil, errorsmod.Wrap(domain.ErrInvalidAction, err.Error())
	}
	return step, nil
}
