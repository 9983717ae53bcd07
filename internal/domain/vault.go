package domain

import (
	"time"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"
)

// VaultConfig is the protocol configuration for one external vault.
type VaultConfig struct {
	Address              string          `json:"address"`
	Whitelisted          bool            `json:"whitelisted"`
	DepositCap           Coin            `json:"deposit_cap"`
	MaxLTV               decimal.Decimal `json:"max_ltv"`
	LiquidationThreshold decimal.Decimal `json:"liquidation_threshold"`
}

// VaultInfo describes the tokens of a vault.
type VaultInfo struct {
	BaseTokenDenom  string `json:"base_token_denom"`
	VaultTokenDenom string `json:"vault_token_denom"`
}

// VaultLockup is the optional lockup of a vault. A zero Duration means none.
type VaultLockup struct {
	Duration time.Duration
}

// HasLockup reports whether deposits are locked.
func (l VaultLockup) HasLockup() bool {
	return l.Duration > 0
}

// UnlockRef identifies an unlocking lot on the vault side.
type UnlockRef struct {
	AccountID string `json:"account_id"`
	LotID     uint64 `json:"lot_id"`
}

// UnlockingLot is an amount of vault tokens pending withdrawal.
type UnlockingLot struct {
	ID     uint64      `json:"id"`
	Amount sdkmath.Int `json:"amount"`
}

// VaultPosition holds an account's vault tokens in a single vault.
type VaultPosition struct {
	AccountID string         `json:"account_id"`
	Vault     string         `json:"vault"`
	Unlocked  sdkmath.Int    `json:"unlocked"`
	Locked    sdkmath.Int    `json:"locked"`
	Unlocking []UnlockingLot `json:"unlocking"`
	NextLotID uint64         `json:"next_lot_id"`
}

// NewVaultPosition returns an empty position.
func NewVaultPosition(accountID, vault string) *VaultPosition {
	return &VaultPosition{
		AccountID: accountID,
		Vault:     vault,
		Unlocked:  sdkmath.ZeroInt(),
		Locked:    sdkmath.ZeroInt(),
		NextLotID: 1,
	}
}

// Total returns the sum of every bucket.
func (p *VaultPosition) Total() (sdkmath.Int, error) {
	total, err := SafeAdd(p.Unlocked, p.Locked)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	for _, lot := range p.Unlocking {
		if total, err = SafeAdd(total, lot.Amount); err != nil {
			return sdkmath.ZeroInt(), err
		}
	}
	return total, nil
}

// IsEmpty reports whether every bucket is empty.
func (p *VaultPosition) IsEmpty() bool {
	return AmountOrZero(p.Unlocked).IsZero() && AmountOrZero(p.Locked).IsZero() && len(p.Unlocking) == 0
}

func (p *VaultPosition) AddUnlocked(amount sdkmath.Int) (err error) {
	p.Unlocked, err = SafeAdd(p.Unlocked, amount)
	return err
}

func (p *VaultPosition) AddLocked(amount sdkmath.Int) (err error) {
	p.Locked, err = SafeAdd(p.Locked, amount)
	return err
}

func (p *VaultPosition) SubUnlocked(amount sdkmath.Int) (err error) {
	p.Unlocked, err = SafeSub(p.Unlocked, amount)
	return err
}

func (p *VaultPosition) SubLocked(amount sdkmath.Int) (err error) {
	p.Locked, err = SafeSub(p.Locked, amount)
	return err
}

// RequestUnlock moves amount from Locked into a new unlocking lot. The lot
// count may not exceed maxLots.
func (p *VaultPosition) RequestUnlock(amount sdkmath.Int, maxLots int) (UnlockingLot, error) {
	if len(p.Unlocking)+1 > maxLots {
		return UnlockingLot{}, errorsmod.Wrapf(ErrExceedsMaxUnlockingPositions,
			"new amount %d, maximum %d", len(p.Unlocking)+1, maxLots)
	}
	if err := p.SubLocked(amount); err != nil {
		return UnlockingLot{}, err
	}
	if p.NextLotID == 0 {
		p.NextLotID = 1
	}
	lot := UnlockingLot{ID: p.NextLotID, Amount: amount}
	p.NextLotID++
	p.Unlocking = append(p.Unlocking, lot)
	return lot, nil
}

// Lot returns the unlocking lot with the given id.
func (p *VaultPosition) Lot(id uint64) (UnlockingLot, bool) {
	for _, lot := range p.Unlocking {
		if lot.ID == id {
			return lot, true
		}
	}
	return UnlockingLot{}, false
}

// RemoveLot deletes the unlocking lot with the given id.
func (p *VaultPosition) RemoveLot(id uint64) (UnlockingLot, error) {
	for i, lot := range p.Unlocking {
		if lot.ID == id {
			p.Unlocking = append(p.Unlocking[:i:i], p.Unlocking[i+1:]...)
			return lot, nil
		}
	}
	return UnlockingLot{}, errorsmod.Wrapf(ErrUnlockingLotNotFound, "vault %s, id %d", p.Vault, id)
}

// LockupDrain describes how a seized amount is taken from a lockup position.
type LockupDrain struct {
	Lots   []UnlockingLot
	Locked sdkmath.Int
}

// DrainLockup takes amount from the unlocking lots in storage order and then
// from the Locked bucket. Lots reduced to zero are removed.
func (p *VaultPosition) DrainLockup(amount sdkmath.Int) (LockupDrain, error) {
	remaining := AmountOrZero(amount)
	drain := LockupDrain{Locked: sdkmath.ZeroInt()}

	kept := p.Unlocking[:0:0]
	for _, lot := range p.Unlocking {
		if remaining.IsZero() {
			kept = append(kept, lot)
			continue
		}
		take := sdkmath.MinInt(lot.Amount, remaining)
		remaining = remaining.Sub(take)
		drain.Lots = append(drain.Lots, UnlockingLot{ID: lot.ID, Amount: take})
		if left := lot.Amount.Sub(take); left.IsPositive() {
			kept = append(kept, UnlockingLot{ID: lot.ID, Amount: left})
		}
	}

	if remaining.IsPositive() {
		if err := p.SubLocked(remaining); err != nil {
			return LockupDrain{}, err
		}
		drain.Locked = remaining
	}
	p.Unlocking = kept
	return drain, nil
}
