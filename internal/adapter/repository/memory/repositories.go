package memory

import (
	"context"
	"sort"
	"time"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

// CoinBalanceRepository implements usecase.CoinBalanceRepository.
type CoinBalanceRepository struct {
	store *Store
}

func (r *CoinBalanceRepository) Get(ctx context.Context, tx usecase.Transaction, accountID, denom string) (sdkmath.Int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if amount, ok := r.store.balances[key{accountID, denom}]; ok {
		return amount, nil
	}
	return sdkmath.ZeroInt(), nil
}

func (r *CoinBalanceRepository) Set(ctx context.Context, tx usecase.Transaction, accountID, denom string, amount sdkmath.Int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if amount.IsNil() || amount.IsZero() {
		delete(r.store.balances, key{accountID, denom})
		return nil
	}
	r.store.balances[key{accountID, denom}] = amount
	return nil
}

func (r *CoinBalanceRepository) ListByAccount(ctx context.Context, tx usecase.Transaction, accountID string) ([]domain.Coin, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	coins := make([]domain.Coin, 0)
	for k, amount := range r.store.balances {
		if k.first == accountID {
			coins = append(coins, domain.Coin{Denom: k.second, Amount: amount})
		}
	}
	sort.Slice(coins, func(i, j int) bool { return coins[i].Denom < coins[j].Denom })
	return coins, nil
}

func (r *CoinBalanceRepository) List(ctx context.Context, startAfter *domain.PairKey, limit int) ([]domain.CoinBalance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	keys := sortedKeys(r.store.balances, startAfter)
	out := make([]domain.CoinBalance, 0, min(limit, len(keys)))
	for _, k := range keys {
		if len(out) == limit {
			break
		}
		out = append(out, domain.CoinBalance{AccountID: k.first, Denom: k.second, Amount: r.store.balances[k]})
	}
	return out, nil
}

// DebtShareRepository implements usecase.DebtShareRepository.
type DebtShareRepository struct {
	store *Store
}

func (r *DebtShareRepository) GetShares(ctx context.Context, tx usecase.Transaction, accountID, denom string) (sdkmath.Int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if shares, ok := r.store.shares[key{accountID, denom}]; ok {
		return shares, nil
	}
	return sdkmath.ZeroInt(), nil
}

func (r *DebtShareRepository) SetShares(ctx context.Context, tx usecase.Transaction, accountID, denom string, shares sdkmath.Int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if shares.IsNil() || shares.IsZero() {
		delete(r.store.shares, key{accountID, denom})
		return nil
	}
	r.store.shares[key{accountID, denom}] = shares
	return nil
}

func (r *DebtShareRepository) GetTotal(ctx context.Context, tx usecase.Transaction, denom string) (sdkmath.Int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if total, ok := r.store.totals[denom]; ok {
		return total, nil
	}
	return sdkmath.ZeroInt(), nil
}

func (r *DebtShareRepository) SetTotal(ctx context.Context, tx usecase.Transaction, denom string, shares sdkmath.Int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if shares.IsNil() || shares.IsZero() {
		delete(r.store.totals, denom)
		return nil
	}
	r.store.totals[denom] = shares
	return nil
}

func (r *DebtShareRepository) ListByAccount(ctx context.Context, tx usecase.Transaction, accountID string) ([]domain.DebtShares, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]domain.DebtShares, 0)
	for k, shares := range r.store.shares {
		if k.first == accountID {
			out = append(out, domain.DebtShares{AccountID: k.first, Denom: k.second, Shares: shares})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Denom < out[j].Denom })
	return out, nil
}

func (r *DebtShareRepository) List(ctx context.Context, startAfter *domain.PairKey, limit int) ([]domain.DebtShares, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	keys := sortedKeys(r.store.shares, startAfter)
	out := make([]domain.DebtShares, 0, min(limit, len(keys)))
	for _, k := range keys {
		if len(out) == limit {
			break
		}
		out = append(out, domain.DebtShares{AccountID: k.first, Denom: k.second, Shares: r.store.shares[k]})
	}
	return out, nil
}

func (r *DebtShareRepository) ListTotals(ctx context.Context, startAfter string, limit int) ([]domain.TotalDebtShares, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	denoms := make([]string, 0, len(r.store.totals))
	for denom := range r.store.totals {
		if denom > startAfter {
			denoms = append(denoms, denom)
		}
	}
	sort.Strings(denoms)
	if len(denoms) > limit {
		denoms = denoms[:limit]
	}
	out := make([]domain.TotalDebtShares, 0, len(denoms))
	for _, denom := range denoms {
		out = append(out, domain.TotalDebtShares{Denom: denom, Shares: r.store.totals[denom]})
	}
	return out, nil
}

func (r *DebtShareRepository) SumByDenom(ctx context.Context) (map[string]sdkmath.Int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	sums := make(map[string]sdkmath.Int)
	for k, shares := range r.store.shares {
		if current, ok := sums[k.second]; ok {
			sums[k.second] = current.Add(shares)
			continue
		}
		sums[k.second] = shares
	}
	return sums, nil
}

// VaultPositionRepository implements usecase.VaultPositionRepository.
type VaultPositionRepository struct {
	store *Store
}

func (r *VaultPositionRepository) Get(ctx context.Context, tx usecase.Transaction, accountID, vault string) (*domain.VaultPosition, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	pos, ok := r.store.positions[key{accountID, vault}]
	if !ok {
		return nil, errorsmod.Wrapf(domain.ErrVaultPositionNotFound, "account %s, vault %s", accountID, vault)
	}
	return copyPosition(pos), nil
}

func (r *VaultPositionRepository) Save(ctx context.Context, tx usecase.Transaction, position *domain.VaultPosition) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	k := key{position.AccountID, position.Vault}
	if position.IsEmpty() {
		delete(r.store.positions, k)
		return nil
	}
	r.store.positions[k] = copyPosition(position)
	return nil
}

func (r *VaultPositionRepository) ListByAccount(ctx context.Context, tx usecase.Transaction, accountID string) ([]*domain.VaultPosition, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*domain.VaultPosition, 0)
	for k, pos := range r.store.positions {
		if k.first == accountID {
			out = append(out, copyPosition(pos))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Vault < out[j].Vault })
	return out, nil
}

func (r *VaultPositionRepository) List(ctx context.Context, startAfter *domain.PairKey, limit int) ([]*domain.VaultPosition, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	keys := sortedKeys(r.store.positions, startAfter)
	out := make([]*domain.VaultPosition, 0, min(limit, len(keys)))
	for _, k := range keys {
		if len(out) == limit {
			break
		}
		out = append(out, copyPosition(r.store.positions[k]))
	}
	return out, nil
}

func (r *VaultPositionRepository) TotalsByVault(ctx context.Context, startAfter string, limit int) ([]domain.VaultBalance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	sums := make(map[string]sdkmath.Int)
	for k, pos := range r.store.positions {
		if k.second <= startAfter {
			continue
		}
		total, err := pos.Total()
		if err != nil {
			return nil, err
		}
		if current, ok := sums[k.second]; ok {
			total = current.Add(total)
		}
		sums[k.second] = total
	}

	vaults := make([]string, 0, len(sums))
	for v := range sums {
		vaults = append(vaults, v)
	}
	sort.Strings(vaults)
	if len(vaults) > limit {
		vaults = vaults[:limit]
	}
	out := make([]domain.VaultBalance, 0, len(vaults))
	for _, v := range vaults {
		out = append(out, domain.VaultBalance{Vault: v, Balance: sums[v]})
	}
	return out, nil
}

// OutboxRepository implements usecase.OutboxRepository.
type OutboxRepository struct {
	store *Store
}

func (r *OutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.outbox = append(r.store.outbox, event)
	return nil
}

func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range r.store.outbox {
		if len(out) == limit {
			break
		}
		if !e.Published {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, e := range r.store.outbox {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
			return nil
		}
	}
	return nil
}

// DeletePublished drops published events older than before. It waits for
// the running transaction, whose rollback truncates the outbox.
func (r *OutboxRepository) DeletePublished(ctx context.Context, before time.Time) (int64, error) {
	r.store.txLock.Lock()
	defer r.store.txLock.Unlock()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	kept := r.store.outbox[:0]
	var removed int64
	for _, e := range r.store.outbox {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.store.outbox = kept
	return removed, nil
}

// AuditRepository implements usecase.AuditRepository. Audit logs survive rollbacks.
type AuditRepository struct {
	store *Store
}

func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.audit = append(r.store.audit, log)
	return nil
}

func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []*domain.AuditLog
	for i := len(r.store.audit) - 1; i >= 0; i-- {
		log := r.store.audit[i]
		if filter.Principal != "" && log.Principal != filter.Principal {
			continue
		}
		if filter.Action != "" && log.Action != filter.Action {
			continue
		}
		if filter.ResourceID != "" && log.ResourceID != filter.ResourceID {
			continue
		}
		if filter.StartDate != nil && log.CreatedAt.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && log.CreatedAt.After(*filter.EndDate) {
			continue
		}
		matched = append(matched, log)
	}

	if filter.Offset >= len(matched) {
		return []*domain.AuditLog{}, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func sortedKeys[V any](m map[key]V, startAfter *domain.PairKey) []key {
	keys := make([]key, 0, len(m))
	for k := range m {
		if afterKey(k, startAfter) {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].pair().Less(keys[j].pair()) })
	return keys
}

var (
	_ usecase.CoinBalanceRepository   = (*CoinBalanceRepository)(nil)
	_ usecase.DebtShareRepository     = (*DebtShareRepository)(nil)
	_ usecase.VaultPositionRepository = (*VaultPositionRepository)(nil)
	_ usecase.OutboxRepository        = (*OutboxRepository)(nil)
	_ usecase.AuditRepository         = (*AuditRepository)(nil)
)
