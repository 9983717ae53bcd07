// Package sandbox simulates the contracts the credit manager talks to: a
// bank, a lending pool, a price oracle, yield vaults and the account token
// registry. It backs the development server and the end-to-end tests.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnknownVault      = errors.New("unknown vault")
	ErrNoPrice           = errors.New("no price for denom")
	ErrUnknownUnlock     = errors.New("unknown unlock request")
	ErrLocked            = errors.New("vault tokens are locked")
	ErrUnknownAccount    = errors.New("unknown credit account")
	ErrNotOwner          = errors.New("sender does not own the credit account")
)

// World is the shared state of every simulated contract.
type World struct {
	mu sync.Mutex

	identity string
	now      time.Time
	bank     map[string]map[string]sdkmath.Int
	prices   map[string]decimal.Decimal
	pool     *poolState
	vaults   map[string]*vaultState

	owners      map[string]string
	nextAccount uint64
}

type poolState struct {
	address string
	debt    map[string]sdkmath.Int
}

type unlock struct {
	amount    sdkmath.Int
	maturesAt time.Time
}

type vaultState struct {
	address string
	info    domain.VaultInfo
	lockup  time.Duration
	supply  sdkmath.Int
	holders map[string]sdkmath.Int
	unlocks map[domain.UnlockRef]unlock
}

// NewWorld creates an empty world. identity is the address of the credit
// manager and poolAddress the address of the lending pool.
func NewWorld(identity, poolAddress string, now time.Time) *World {
	return &World{
		identity: identity,
		now:      now,
		bank:     make(map[string]map[string]sdkmath.Int),
		prices:   make(map[string]decimal.Decimal),
		pool:     &poolState{address: poolAddress, debt: make(map[string]sdkmath.Int)},
		vaults:   make(map[string]*vaultState),
		owners:   make(map[string]string),
	}
}

// Fund credits coins to holder's bank balance.
func (w *World) Fund(holder string, coins ...domain.Coin) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, c := range coins {
		w.credit(holder, c)
	}
}

// SetPrice sets the oracle price of denom.
func (w *World) SetPrice(denom string, price decimal.Decimal) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.prices[denom] = price
}

// AddVault registers a vault. A zero lockup makes deposits immediately redeemable.
func (w *World) AddVault(address string, info domain.VaultInfo, lockup time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.vaults[address] = &vaultState{
		address: address,
		info:    info,
		lockup:  lockup,
		supply:  sdkmath.ZeroInt(),
		holders: make(map[string]sdkmath.Int),
		unlocks: make(map[domain.UnlockRef]unlock),
	}
}

// Advance moves the clock forward.
func (w *World) Advance(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.now = w.now.Add(d)
}

// AccrueInterest grows the protocol's pool debt of denom by amount.
func (w *World) AccrueInterest(denom string, amount sdkmath.Int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pool.debt[denom] = domain.AmountOrZero(w.pool.debt[denom]).Add(amount)
}

// Yield adds base coins to a vault's assets, raising the redemption value of its tokens.
func (w *World) Yield(vault string, amount sdkmath.Int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	v, ok := w.vaults[vault]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownVault, vault)
	}
	w.credit(v.address, domain.Coin{Denom: v.info.BaseTokenDenom, Amount: amount})
	return nil
}

func (w *World) balance(holder, denom string) sdkmath.Int {
	return domain.AmountOrZero(w.bank[holder][denom])
}

func (w *World) credit(holder string, c domain.Coin) {
	if w.bank[holder] == nil {
		w.bank[holder] = make(map[string]sdkmath.Int)
	}
	w.bank[holder][c.Denom] = w.balance(holder, c.Denom).Add(c.Amount)
}

func (w *World) send(from, to string, c domain.Coin) error {
	have := w.balance(from, c.Denom)
	if have.LT(c.Amount) {
		return fmt.Errorf("%w: %s holds %s%s, needs %s", ErrInsufficientFunds, from, have, c.Denom, c)
	}
	w.bank[from][c.Denom] = have.Sub(c.Amount)
	w.credit(to, c)
	return nil
}

// Checkpoint implements usecase.Participant.
func (w *World) Checkpoint() func() {
	w.mu.Lock()
	defer w.mu.Unlock()

	bank := make(map[string]map[string]sdkmath.Int, len(w.bank))
	for holder, coins := range w.bank {
		cp := make(map[string]sdkmath.Int, len(coins))
		for denom, amount := range coins {
			cp[denom] = amount
		}
		bank[holder] = cp
	}
	debt := make(map[string]sdkmath.Int, len(w.pool.debt))
	for denom, amount := range w.pool.debt {
		debt[denom] = amount
	}
	vaults := make(map[string]*vaultState, len(w.vaults))
	for addr, v := range w.vaults {
		cp := *v
		cp.holders = make(map[string]sdkmath.Int, len(v.holders))
		for h, amount := range v.holders {
			cp.holders[h] = amount
		}
		cp.unlocks = make(map[domain.UnlockRef]unlock, len(v.unlocks))
		for ref, u := range v.unlocks {
			cp.unlocks[ref] = u
		}
		vaults[addr] = &cp
	}
	owners := make(map[string]string, len(w.owners))
	for id, owner := range w.owners {
		owners[id] = owner
	}
	next := w.nextAccount

	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.bank = bank
		w.pool.debt = debt
		w.vaults = vaults
		w.owners = owners
		w.nextAccount = next
	}
}

// Balance implements usecase.BankQuerier.
func (w *World) Balance(ctx context.Context, holder, denom string) (sdkmath.Int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balance(holder, denom), nil
}

// Price implements usecase.Oracle.
func (w *World) Price(ctx context.Context, denom string) (decimal.Decimal, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.price(denom)
}

// price must be called with the lock held. Vault tokens without a quoted
// price are valued at what they redeem for.
func (w *World) price(denom string) (decimal.Decimal, error) {
	if p, ok := w.prices[denom]; ok {
		return p, nil
	}
	for _, v := range w.vaults {
		if v.info.VaultTokenDenom != denom {
			continue
		}
		base, err := w.price(v.info.BaseTokenDenom)
		if err != nil {
			return decimal.Zero, err
		}
		if v.supply.IsZero() {
			return base, nil
		}
		ratio := domain.IntToDecimal(w.assets(v)).Div(domain.IntToDecimal(v.supply))
		return base.Mul(ratio), nil
	}
	return decimal.Zero, fmt.Errorf("%w: %s", ErrNoPrice, denom)
}

// TotalValue implements usecase.Oracle.
func (w *World) TotalValue(ctx context.Context, coins []domain.Coin) (decimal.Decimal, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	total := decimal.Zero
	for _, c := range coins {
		if domain.AmountOrZero(c.Amount).IsZero() {
			continue
		}
		p, err := w.price(c.Denom)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(p.Mul(domain.IntToDecimal(c.Amount)))
	}
	return total, nil
}

// OwnerOf implements usecase.OwnershipRegistry.
func (w *World) OwnerOf(ctx context.Context, accountID string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	owner, ok := w.owners[accountID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownAccount, accountID)
	}
	return owner, nil
}

// Mint implements usecase.AccountMinter. Account ids are sequential.
func (w *World) Mint(ctx context.Context, owner string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextAccount++
	id := strconv.FormatUint(w.nextAccount, 10)
	w.owners[id] = owner
	return id, nil
}

// Transfer implements usecase.AccountMinter.
func (w *World) Transfer(ctx context.Context, accountID, from, to string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	owner, ok := w.owners[accountID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAccount, accountID)
	}
	if owner != from {
		return fmt.Errorf("%w: %s", ErrNotOwner, accountID)
	}
	w.owners[accountID] = to
	return nil
}

// Pool returns the lending pool of the world.
func (w *World) Pool() *Pool {
	return &Pool{world: w}
}

// Vault implements usecase.VaultRegistry.
func (w *World) Vault(ctx context.Context, address string) (usecase.Vault, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.vaults[address]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVault, address)
	}
	return &Vault{world: w, address: address}, nil
}

// Executor returns the instruction executor of the world.
func (w *World) Executor() *Executor {
	return &Executor{world: w}
}

var (
	_ usecase.BankQuerier       = (*World)(nil)
	_ usecase.Oracle            = (*World)(nil)
	_ usecase.OwnershipRegistry = (*World)(nil)
	_ usecase.AccountMinter     = (*World)(nil)
	_ usecase.VaultRegistry     = (*World)(nil)
	_ usecase.Participant       = (*World)(nil)
)
