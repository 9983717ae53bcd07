package domain

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
)

// ActionKind names a user-requested action.
type ActionKind string

const (
	ActionDeposit               ActionKind = "deposit"
	ActionWithdraw              ActionKind = "withdraw"
	ActionBorrow                ActionKind = "borrow"
	ActionRepay                 ActionKind = "repay"
	ActionEnterVault            ActionKind = "enter_vault"
	ActionExitVault             ActionKind = "exit_vault"
	ActionRequestVaultUnlock    ActionKind = "request_vault_unlock"
	ActionExitVaultUnlocked     ActionKind = "exit_vault_unlocked"
	ActionLiquidateCoin         ActionKind = "liquidate_coin"
	ActionLiquidateVault        ActionKind = "liquidate_vault"
	ActionRefundAllCoinBalances ActionKind = "refund_all_coin_balances"
)

// Action is one entry of a user batch.
type Action interface {
	ActionKind() ActionKind
}

// ActionAmount is either an exact amount or the account's whole balance of a denom.
type ActionAmount struct {
	Exact          sdkmath.Int `json:"exact"`
	AccountBalance bool        `json:"account_balance"`
}

// ExactAmount returns an ActionAmount of a fixed value.
func ExactAmount(amount int64) ActionAmount {
	return ActionAmount{Exact: sdkmath.NewInt(amount)}
}

type DepositAction struct {
	Coin Coin
}

type WithdrawAction struct {
	Coin Coin
}

type BorrowAction struct {
	Coin Coin
}

type RepayAction struct {
	Coin Coin
}

type EnterVaultAction struct {
	Vault  string
	Denom  string
	Amount ActionAmount
}

type ExitVaultAction struct {
	Vault  string
	Amount sdkmath.Int
}

type RequestVaultUnlockAction struct {
	Vault  string
	Amount sdkmath.Int
}

type ExitVaultUnlockedAction struct {
	Vault string
	LotID uint64
}

type LiquidateCoinAction struct {
	Liquidatee   string
	DebtCoin     Coin
	RequestDenom string
}

type LiquidateVaultAction struct {
	Liquidatee   string
	DebtCoin     Coin
	RequestVault string
}

type RefundAllCoinBalancesAction struct{}

func (DepositAction) ActionKind() ActionKind               { return ActionDeposit }
func (WithdrawAction) ActionKind() ActionKind              { return ActionWithdraw }
func (BorrowAction) ActionKind() ActionKind                { return ActionBorrow }
func (RepayAction) ActionKind() ActionKind                 { return ActionRepay }
func (EnterVaultAction) ActionKind() ActionKind            { return ActionEnterVault }
func (ExitVaultAction) ActionKind() ActionKind             { return ActionExitVault }
func (RequestVaultUnlockAction) ActionKind() ActionKind    { return ActionRequestVaultUnlock }
func (ExitVaultUnlockedAction) ActionKind() ActionKind     { return ActionExitVaultUnlocked }
func (LiquidateCoinAction) ActionKind() ActionKind         { return ActionLiquidateCoin }
func (LiquidateVaultAction) ActionKind() ActionKind        { return ActionLiquidateVault }
func (RefundAllCoinBalancesAction) ActionKind() ActionKind { return ActionRefundAllCoinBalances }

// ToSteps translates a non-deposit action of accountID into its deferred steps.
// caller receives withdrawals and refunds.
func ToSteps(accountID, caller string, action Action) ([]Step, error) {
	switch a := action.(type) {
	case WithdrawAction:
		return []Step{WithdrawStep{AccountID: accountID, Coin: a.Coin, Recipient: caller}}, nil
	case BorrowAction:
		return []Step{BorrowStep{AccountID: accountID, Coin: a.Coin}}, nil
	case RepayAction:
		return []Step{RepayStep{AccountID: accountID, Coin: a.Coin}}, nil
	case EnterVaultAction:
		return []Step{EnterVaultStep{AccountID: accountID, Vault: a.Vault, Denom: a.Denom, Amount: a.Amount}}, nil
	case ExitVaultAction:
		return []Step{ExitVaultStep{AccountID: accountID, Vault: a.Vault, Amount: a.Amount}}, nil
	case RequestVaultUnlockAction:
		return []Step{RequestVaultUnlockStep{AccountID: accountID, Vault: a.Vault, Amount: a.Amount}}, nil
	case ExitVaultUnlockedAction:
		return []Step{ExitVaultUnlockedStep{AccountID: accountID, Vault: a.Vault, LotID: a.LotID}}, nil
	case LiquidateCoinAction:
		return []Step{LiquidateCoinStep{
			Liquidator:   accountID,
			Liquidatee:   a.Liquidatee,
			DebtCoin:     a.DebtCoin,
			RequestDenom: a.RequestDenom,
		}}, nil
	case LiquidateVaultAction:
		return []Step{LiquidateVaultStep{
			Liquidator:   accountID,
			Liquidatee:   a.Liquidatee,
			DebtCoin:     a.DebtCoin,
			RequestVault: a.RequestVault,
		}}, nil
	case RefundAllCoinBalancesAction:
		return []Step{RefundAllCoinBalancesStep{AccountID: accountID, Recipient: caller}}, nil
	case nil:
		return nil, errorsmod.Wrap(ErrInvalidAction, "nil action")
	default:
		return nil, errorsmod.Wrapf(ErrInvalidAction, "unsupported action %q", action.ActionKind())
	}
}
