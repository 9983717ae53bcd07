package domain

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
)

// ShareRatio converts between debt amounts and debt shares of a single denom.
// Both directions round down.
type ShareRatio struct {
	TotalShares sdkmath.Int
	TotalDebt   sdkmath.Int
}

// SharesForAmount returns the shares minted or burned for amount. When no shares
// exist yet shares are issued one to one with the amount.
func (r ShareRatio) SharesForAmount(amount sdkmath.Int) (sdkmath.Int, error) {
	if AmountOrZero(r.TotalShares).IsZero() {
		return AmountOrZero(amount), nil
	}
	return MulDivFloor(amount, r.TotalShares, r.TotalDebt)
}

// AmountForShares returns the debt amount represented by shares.
func (r ShareRatio) AmountForShares(shares sdkmath.Int) (sdkmath.Int, error) {
	if AmountOrZero(shares).IsZero() {
		return sdkmath.ZeroInt(), nil
	}
	return MulDivFloor(shares, r.TotalDebt, r.TotalShares)
}

// MulDivFloor computes floor(a * b / c). A zero c is an arithmetic error.
func MulDivFloor(a, b, c sdkmath.Int) (sdkmath.Int, error) {
	a, b, c = AmountOrZero(a), AmountOrZero(b), AmountOrZero(c)
	if c.IsZero() {
		return sdkmath.ZeroInt(), errorsmod.Wrapf(ErrDivideByZero, "%s * %s / 0", a, b)
	}
	if a.IsNegative() || b.IsNegative() || c.IsNegative() {
		return sdkmath.ZeroInt(), errorsmod.Wrapf(ErrUnderflow, "%s * %s / %s", a, b, c)
	}
	product, err := a.SafeMul(b)
	if err != nil {
		return sdkmath.ZeroInt(), errorsmod.Wrapf(ErrOverflow, "%s * %s", a, b)
	}
	return product.Quo(c), nil
}
