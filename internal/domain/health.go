package domain

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/shopspring/decimal"
)

// Health is the solvency snapshot of a credit account. Ratio weighs
// collateral by max LTV and bounds what a batch may leave behind;
// LiquidationRatio weighs it by liquidation threshold and decides
// Liquidatable. Invalid ratios mean the account has no debt.
type Health struct {
	Ratio            decimal.NullDecimal `json:"ratio"`
	LiquidationRatio decimal.NullDecimal `json:"liquidation_ratio"`
	Liquidatable     bool                `json:"liquidatable"`
}

// NewHealth returns a snapshot whose max LTV and liquidation factors coincide.
func NewHealth(ratio decimal.Decimal) Health {
	return NewHealthFactors(ratio, ratio)
}

// NewHealthFactors returns a snapshot from the max LTV factor and the
// liquidation threshold factor.
func NewHealthFactors(maxLTV, liquidation decimal.Decimal) Health {
	return Health{
		Ratio:            decimal.NewNullDecimal(maxLTV),
		LiquidationRatio: decimal.NewNullDecimal(liquidation),
		Liquidatable:     liquidation.LessThan(decimal.NewFromInt(1)),
	}
}

// Healthy reports whether the ratio is undefined or at least one.
func (h Health) Healthy() bool {
	return !h.Ratio.Valid || h.Ratio.Decimal.GreaterThanOrEqual(decimal.NewFromInt(1))
}

func (h Health) String() string {
	if !h.Ratio.Valid {
		return "none"
	}
	return h.Ratio.Decimal.String()
}

// CheckNonRegression compares the health before and after a batch. A healthy
// account must stay healthy; an unhealthy one may not get worse.
func CheckNonRegression(prev, post Health) error {
	if post.Healthy() {
		return nil
	}
	if prev.Healthy() {
		return errorsmod.Wrapf(ErrHealthRegressed, "ratio %s dropped below 1", post)
	}
	if post.Ratio.Decimal.LessThan(prev.Ratio.Decimal) {
		return errorsmod.Wrapf(ErrHealthRegressed, "ratio %s is below previous %s", post, prev)
	}
	return nil
}
