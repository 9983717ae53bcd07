package domain

import (
	"errors"
	"math/big"
	"testing"

	sdkmath "cosmossdk.io/math"
)

func TestNewCoins(t *testing.T) {
	tests := []struct {
		name    string
		coins   []Coin
		wantErr error
	}{
		{
			name:  "distinct denoms",
			coins: []Coin{NewCoin("uosmo", 10), NewCoin("uatom", 5)},
		},
		{
			name:    "duplicate denom",
			coins:   []Coin{NewCoin("uosmo", 10), NewCoin("uosmo", 5)},
			wantErr: ErrDuplicateDenom,
		},
		{
			name:    "zero amount",
			coins:   []Coin{NewCoin("uosmo", 0)},
			wantErr: ErrNoAmount,
		},
		{
			name:    "empty denom",
			coins:   []Coin{NewCoin("", 3)},
			wantErr: ErrInvalidAction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCoins(tt.coins...)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCoins_Sub(t *testing.T) {
	coins, err := NewCoins(NewCoin("uosmo", 10), NewCoin("uatom", 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := coins.Sub(NewCoin("uosmo", 4)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := coins.AmountOf("uosmo"); !got.Equal(sdkmath.NewInt(6)) {
		t.Fatalf("expected 6 uosmo left, got %s", got)
	}

	if err := coins.Sub(NewCoin("uatom", 6)); !errors.Is(err, ErrFundsMismatch) {
		t.Fatalf("expected ErrFundsMismatch, got %v", err)
	}
	if err := coins.Sub(NewCoin("ujuno", 1)); !errors.Is(err, ErrFundsMismatch) {
		t.Fatalf("expected ErrFundsMismatch, got %v", err)
	}

	if err := coins.Sub(NewCoin("uosmo", 6)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := coins.Sub(NewCoin("uatom", 5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !coins.IsEmpty() {
		t.Fatalf("expected empty multiset, got %s", coins)
	}
}

func TestSafeSub_Underflow(t *testing.T) {
	_, err := SafeSub(sdkmath.NewInt(1), sdkmath.NewInt(2))
	if !errors.Is(err, ErrUnderflow) {
		t.Fatalf("expected ErrUnderflow, got %v", err)
	}
	if ClassOf(err) != ClassArithmetic {
		t.Fatalf("expected arithmetic class, got %s", ClassOf(err))
	}
}

func TestSafeAdd_Overflow(t *testing.T) {
	limit := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	huge := sdkmath.NewIntFromBigInt(limit)
	_, err := SafeAdd(huge, huge)
	if !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
}
