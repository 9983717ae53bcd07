package domain

import sdkmath "cosmossdk.io/math"

// CoinBalance is an account's collateral balance of one denom.
type CoinBalance struct {
	AccountID string      `json:"account_id"`
	Denom     string      `json:"denom"`
	Amount    sdkmath.Int `json:"amount"`
}

// DebtShares is an account's claim against the pooled debt of one denom.
type DebtShares struct {
	AccountID string      `json:"account_id"`
	Denom     string      `json:"denom"`
	Shares    sdkmath.Int `json:"shares"`
}

// TotalDebtShares is the protocol-wide share supply of one denom.
type TotalDebtShares struct {
	Denom  string      `json:"denom"`
	Shares sdkmath.Int `json:"shares"`
}

// DebtAmount resolves an account's shares to an owed amount.
type DebtAmount struct {
	Denom  string      `json:"denom"`
	Shares sdkmath.Int `json:"shares"`
	Amount sdkmath.Int `json:"amount"`
}

// VaultBalance is the vault token amount the protocol holds for accounts.
type VaultBalance struct {
	Vault   string      `json:"vault"`
	Balance sdkmath.Int `json:"balance"`
}

// VaultUtilization is a vault config with the value currently deposited.
type VaultUtilization struct {
	Config      VaultConfig `json:"config"`
	Utilization Coin        `json:"utilization"`
}

// Positions is the full view of a credit account.
type Positions struct {
	AccountID string           `json:"account_id"`
	Coins     []Coin           `json:"coins"`
	Debts     []DebtAmount     `json:"debts"`
	Vaults    []*VaultPosition `json:"vaults"`
	Health    Health           `json:"health"`
}
