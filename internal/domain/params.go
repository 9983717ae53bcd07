package domain

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/shopspring/decimal"
)

const (
	DefaultMaxUnlockingPositions = 10
)

var (
	DefaultMaxCloseFactor   = decimal.RequireFromString("0.6")
	DefaultLiquidationBonus = decimal.RequireFromString("0.05")
)

// Params are the protocol parameters read by the core.
type Params struct {
	MaxCloseFactor        decimal.Decimal `json:"max_close_factor"`
	MaxUnlockingPositions int             `json:"max_unlocking_positions"`
	LiquidationBonus      decimal.Decimal `json:"liquidation_bonus"`
}

// DefaultParams returns the testnet defaults.
func DefaultParams() Params {
	return Params{
		MaxCloseFactor:        DefaultMaxCloseFactor,
		MaxUnlockingPositions: DefaultMaxUnlockingPositions,
		LiquidationBonus:      DefaultLiquidationBonus,
	}
}

// Validate checks parameter ranges.
func (p Params) Validate() error {
	if p.MaxCloseFactor.IsNegative() || p.MaxCloseFactor.GreaterThan(decimal.NewFromInt(1)) {
		return errorsmod.Wrapf(ErrInvalidParams, "max close factor %s must be within [0, 1]", p.MaxCloseFactor)
	}
	if p.MaxUnlockingPositions < 1 {
		return errorsmod.Wrapf(ErrInvalidParams, "max unlocking positions %d must be positive", p.MaxUnlockingPositions)
	}
	if p.LiquidationBonus.IsNegative() {
		return errorsmod.Wrapf(ErrInvalidParams, "liquidation bonus %s must not be negative", p.LiquidationBonus)
	}
	return nil
}
