package domain

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// Message is an entry of the deferred execution queue: either a Step run by the
// dispatcher or an Instruction handed to a collaborator.
type Message interface {
	Kind() string
}

// Step is a privileged internal state transition.
type Step interface {
	Message
	isStep()
}

const (
	StepWithdraw                   = "withdraw"
	StepBorrow                     = "borrow"
	StepRepay                      = "repay"
	StepEnterVault                 = "enter_vault"
	StepUpdateVaultCoinBalance     = "update_vault_coin_balance"
	StepExitVault                  = "exit_vault"
	StepRequestVaultUnlock         = "request_vault_unlock"
	StepExitVaultUnlocked          = "exit_vault_unlocked"
	StepLiquidateCoin              = "liquidate_coin"
	StepLiquidateVault             = "liquidate_vault"
	StepUpdateCoinBalances         = "update_coin_balances"
	StepRefundAllCoinBalances      = "refund_all_coin_balances"
	StepAssertOneVaultPositionOnly = "assert_one_vault_position_only"
	StepAssertHealthNonRegression  = "assert_health_non_regression"
)

type WithdrawStep struct {
	AccountID string `json:"account_id"`
	Coin      Coin   `json:"coin"`
	Recipient string `json:"recipient"`
}

type BorrowStep struct {
	AccountID string `json:"account_id"`
	Coin      Coin   `json:"coin"`
}

type RepayStep struct {
	AccountID string `json:"account_id"`
	Coin      Coin   `json:"coin"`
}

type EnterVaultStep struct {
	AccountID string       `json:"account_id"`
	Vault     string       `json:"vault"`
	Denom     string       `json:"denom"`
	Amount    ActionAmount `json:"amount"`
}

// UpdateVaultCoinBalanceStep credits the vault tokens minted since PreviousTotal.
type UpdateVaultCoinBalanceStep struct {
	AccountID     string      `json:"account_id"`
	Vault         string      `json:"vault"`
	PreviousTotal sdkmath.Int `json:"previous_total"`
}

type ExitVaultStep struct {
	AccountID string      `json:"account_id"`
	Vault     string      `json:"vault"`
	Amount    sdkmath.Int `json:"amount"`
}

type RequestVaultUnlockStep struct {
	AccountID string      `json:"account_id"`
	Vault     string      `json:"vault"`
	Amount    sdkmath.Int `json:"amount"`
}

type ExitVaultUnlockedStep struct {
	AccountID string `json:"account_id"`
	Vault     string `json:"vault"`
	LotID     uint64 `json:"lot_id"`
}

type LiquidateCoinStep struct {
	Liquidator   string `json:"liquidator"`
	Liquidatee   string `json:"liquidatee"`
	DebtCoin     Coin   `json:"debt_coin"`
	RequestDenom string `json:"request_denom"`
}

type LiquidateVaultStep struct {
	Liquidator   string `json:"liquidator"`
	Liquidatee   string `json:"liquidatee"`
	DebtCoin     Coin   `json:"debt_coin"`
	RequestVault string `json:"request_vault"`
}

// UpdateCoinBalancesStep credits AccountID with the increase of the protocol's
// bank balances over Previous.
type UpdateCoinBalancesStep struct {
	AccountID string `json:"account_id"`
	Previous  []Coin `json:"previous"`
}

type RefundAllCoinBalancesStep struct {
	AccountID string `json:"account_id"`
	Recipient string `json:"recipient"`
}

type AssertOneVaultPositionOnlyStep struct {
	AccountID string `json:"account_id"`
}

type AssertHealthNonRegressionStep struct {
	AccountID string `json:"account_id"`
	Previous  Health `json:"previous"`
}

func (WithdrawStep) Kind() string                   { return StepWithdraw }
func (BorrowStep) Kind() string                     { return StepBorrow }
func (RepayStep) Kind() string                      { return StepRepay }
func (EnterVaultStep) Kind() string                 { return StepEnterVault }
func (UpdateVaultCoinBalanceStep) Kind() string     { return StepUpdateVaultCoinBalance }
func (ExitVaultStep) Kind() string                  { return StepExitVault }
func (RequestVaultUnlockStep) Kind() string         { return StepRequestVaultUnlock }
func (ExitVaultUnlockedStep) Kind() string          { return StepExitVaultUnlocked }
func (LiquidateCoinStep) Kind() string              { return StepLiquidateCoin }
func (LiquidateVaultStep) Kind() string             { return StepLiquidateVault }
func (UpdateCoinBalancesStep) Kind() string         { return StepUpdateCoinBalances }
func (RefundAllCoinBalancesStep) Kind() string      { return StepRefundAllCoinBalances }
func (AssertOneVaultPositionOnlyStep) Kind() string { return StepAssertOneVaultPositionOnly }
func (AssertHealthNonRegressionStep) Kind() string  { return StepAssertHealthNonRegression }

func (WithdrawStep) isStep()                   {}
func (BorrowStep) isStep()                     {}
func (RepayStep) isStep()                      {}
func (EnterVaultStep) isStep()                 {}
func (UpdateVaultCoinBalanceStep) isStep()     {}
func (ExitVaultStep) isStep()                  {}
func (RequestVaultUnlockStep) isStep()         {}
func (ExitVaultUnlockedStep) isStep()          {}
func (LiquidateCoinStep) isStep()              {}
func (LiquidateVaultStep) isStep()             {}
func (UpdateCoinBalancesStep) isStep()         {}
func (RefundAllCoinBalancesStep) isStep()      {}
func (AssertOneVaultPositionOnlyStep) isStep() {}
func (AssertHealthNonRegressionStep) isStep()  {}

// StepError reports the first failing entry of a batch queue.
type StepError struct {
	Index int
	Kind  string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %s", e.Index, e.Kind, e.Err.Error())
}

func (e *StepError) Unwrap() error {
	return e.Err
}
