package domain

import (
	"fmt"
	"sort"
	"strings"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"
)

// Coin is an amount of a single denom.
type Coin struct {
	Denom  string      `json:"denom"`
	Amount sdkmath.Int `json:"amount"`
}

// NewCoin builds a coin from an int64 amount.
func NewCoin(denom string, amount int64) Coin {
	return Coin{Denom: denom, Amount: sdkmath.NewInt(amount)}
}

// Validate checks that the coin has a denom and a positive amount.
func (c Coin) Validate() error {
	if strings.TrimSpace(c.Denom) == "" {
		return errorsmod.Wrap(ErrInvalidAction, "empty denom")
	}
	if c.Amount.IsNil() || !c.Amount.IsPositive() {
		return errorsmod.Wrapf(ErrNoAmount, "%s", c.Denom)
	}
	return nil
}

func (c Coin) String() string {
	return fmt.Sprintf("%s%s", AmountOrZero(c.Amount), c.Denom)
}

// Coins is a multiset of coins keyed by denom. The zero value is empty.
type Coins struct {
	amounts map[string]sdkmath.Int
}

// NewCoins builds a multiset. Duplicate denoms and non-positive amounts are rejected.
func NewCoins(list ...Coin) (Coins, error) {
	c := Coins{amounts: make(map[string]sdkmath.Int, len(list))}
	for _, coin := range list {
		if err := coin.Validate(); err != nil {
			return Coins{}, err
		}
		if _, ok := c.amounts[coin.Denom]; ok {
			return Coins{}, errorsmod.Wrapf(ErrDuplicateDenom, "%s", coin.Denom)
		}
		c.amounts[coin.Denom] = coin.Amount
	}
	return c, nil
}

// AmountOf returns the amount of denom, zero when absent.
func (c Coins) AmountOf(denom string) sdkmath.Int {
	if amount, ok := c.amounts[denom]; ok {
		return amount
	}
	return sdkmath.ZeroInt()
}

// Sub removes coin from the multiset. Missing or insufficient funds yield ErrFundsMismatch.
func (c *Coins) Sub(coin Coin) error {
	have := c.AmountOf(coin.Denom)
	if have.LT(coin.Amount) {
		return errorsmod.Wrapf(ErrFundsMismatch, "expected %s, received %s%s", coin, have, coin.Denom)
	}
	left := have.Sub(coin.Amount)
	if left.IsZero() {
		delete(c.amounts, coin.Denom)
		return nil
	}
	c.amounts[coin.Denom] = left
	return nil
}

// IsEmpty reports whether every coin was consumed.
func (c Coins) IsEmpty() bool {
	return len(c.amounts) == 0
}

// List returns the coins sorted by denom.
func (c Coins) List() []Coin {
	out := make([]Coin, 0, len(c.amounts))
	for denom, amount := range c.amounts {
		out = append(out, Coin{Denom: denom, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Denom < out[j].Denom })
	return out
}

func (c Coins) String() string {
	parts := make([]string, 0, len(c.amounts))
	for _, coin := range c.List() {
		parts = append(parts, coin.String())
	}
	return strings.Join(parts, ",")
}

// maxAmountBits is the width limit of sdkmath.Int.
const maxAmountBits = 256

// AmountOrZero replaces an uninitialized Int with zero.
func AmountOrZero(i sdkmath.Int) sdkmath.Int {
	if i.IsNil() {
		return sdkmath.ZeroInt()
	}
	return i
}

// SafeAdd adds two amounts and reports overflow as an arithmetic error.
func SafeAdd(a, b sdkmath.Int) (sdkmath.Int, error) {
	sum, err := AmountOrZero(a).SafeAdd(AmountOrZero(b))
	if err != nil {
		return sdkmath.ZeroInt(), errorsmod.Wrapf(ErrOverflow, "%s + %s", a, b)
	}
	return sum, nil
}

// SafeSub subtracts b from a. A negative result is an underflow.
func SafeSub(a, b sdkmath.Int) (sdkmath.Int, error) {
	a, b = AmountOrZero(a), AmountOrZero(b)
	if a.LT(b) {
		return sdkmath.ZeroInt(), errorsmod.Wrapf(ErrUnderflow, "%s - %s", a, b)
	}
	diff, err := a.SafeSub(b)
	if err != nil {
		return sdkmath.ZeroInt(), errorsmod.Wrapf(ErrUnderflow, "%s - %s", a, b)
	}
	return diff, nil
}

// MinInt returns the smallest of the given amounts.
func MinInt(first sdkmath.Int, rest ...sdkmath.Int) sdkmath.Int {
	out := first
	for _, v := range rest {
		out = sdkmath.MinInt(out, v)
	}
	return out
}

// IntToDecimal converts an amount to a decimal.
func IntToDecimal(i sdkmath.Int) decimal.Decimal {
	return decimal.NewFromBigInt(AmountOrZero(i).BigInt(), 0)
}

// DecimalToIntFloor truncates a non-negative decimal to an amount.
func DecimalToIntFloor(d decimal.Decimal) (sdkmath.Int, error) {
	if d.IsNegative() {
		return sdkmath.ZeroInt(), errorsmod.Wrapf(ErrUnderflow, "negative amount %s", d)
	}
	floored := d.Floor().BigInt()
	if floored.BitLen() > maxAmountBits {
		return sdkmath.ZeroInt(), errorsmod.Wrapf(ErrOverflow, "amount %s", d)
	}
	return sdkmath.NewIntFromBigInt(floored), nil
}
