package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

type pair struct{ first, second string }

// MockCoinBalanceRepository is a mock implementation of CoinBalanceRepository.
type MockCoinBalanceRepository struct {
	mu       sync.RWMutex
	balances map[pair]sdkmath.Int

	GetFunc func(ctx context.Context, tx usecase.Transaction, accountID, denom string) (sdkmath.Int, error)
	SetFunc func(ctx context.Context, tx usecase.Transaction, accountID, denom string, amount sdkmath.Int) error
}

func NewMockCoinBalanceRepository() *MockCoinBalanceRepository {
	return &MockCoinBalanceRepository{
		balances: make(map[pair]sdkmath.Int),
	}
}

func (m *MockCoinBalanceRepository) Get(ctx context.Context, tx usecase.Transaction, accountID, denom string) (sdkmath.Int, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, tx, accountID, denom)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if amount, ok := m.balances[pair{accountID, denom}]; ok {
		return amount, nil
	}
	return sdkmath.ZeroInt(), nil
}

func (m *MockCoinBalanceRepository) Set(ctx context.Context, tx usecase.Transaction, accountID, denom string, amount sdkmath.Int) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, tx, accountID, denom, amount)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if amount.IsZero() {
		delete(m.balances, pair{accountID, denom})
		return nil
	}
	m.balances[pair{accountID, denom}] = amount
	return nil
}

func (m *MockCoinBalanceRepository) ListByAccount(ctx context.Context, tx usecase.Transaction, accountID string) ([]domain.Coin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var coins []domain.Coin
	for k, amount := range m.balances {
		if k.first == accountID {
			coins = append(coins, domain.Coin{Denom: k.second, Amount: amount})
		}
	}
	sort.Slice(coins, func(i, j int) bool { return coins[i].Denom < coins[j].Denom })
	return coins, nil
}

func (m *MockCoinBalanceRepository) List(ctx context.Context, startAfter *domain.PairKey, limit int) ([]domain.CoinBalance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.CoinBalance
	for k, amount := range m.balances {
		out = append(out, domain.CoinBalance{AccountID: k.first, Denom: k.second, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		return domain.PairKey{First: out[i].AccountID, Second: out[i].Denom}.Less(
			domain.PairKey{First: out[j].AccountID, Second: out[j].Denom})
	})
	if startAfter != nil {
		start := 0
		for start < len(out) && !startAfter.Less(domain.PairKey{First: out[start].AccountID, Second: out[start].Denom}) {
			start++
		}
		out = out[start:]
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MockDebtShareRepository is a mock implementation of DebtShareRepository.
type MockDebtShareRepository struct {
	mu     sync.RWMutex
	shares map[pair]sdkmath.Int
	totals map[string]sdkmath.Int

	GetTotalFunc   func(ctx context.Context, tx usecase.Transaction, denom string) (sdkmath.Int, error)
	SumByDenomFunc func(ctx context.Context) (map[string]sdkmath.Int, error)
}

func NewMockDebtShareRepository() *MockDebtShareRepository {
	return &MockDebtShareRepository{
		shares: make(map[pair]sdkmath.Int),
		totals: make(map[string]sdkmath.Int),
	}
}

func (m *MockDebtShareRepository) GetShares(ctx context.Context, tx usecase.Transaction, accountID, denom string) (sdkmath.Int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if shares, ok := m.shares[pair{accountID, denom}]; ok {
		return shares, nil
	}
	return sdkmath.ZeroInt(), nil
}

func (m *MockDebtShareRepository) SetShares(ctx context.Context, tx usecase.Transaction, accountID, denom string, shares sdkmath.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if shares.IsZero() {
		delete(m.shares, pair{accountID, denom})
		return nil
	}
	m.shares[pair{accountID, denom}] = shares
	return nil
}

func (m *MockDebtShareRepository) GetTotal(ctx context.Context, tx usecase.Transaction, denom string) (sdkmath.Int, error) {
	if m.GetTotalFunc != nil {
		return m.GetTotalFunc(ctx, tx, denom)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if total, ok := m.totals[denom]; ok {
		return total, nil
	}
	return sdkmath.ZeroInt(), nil
}

func (m *MockDebtShareRepository) SetTotal(ctx context.Context, tx usecase.Transaction, denom string, shares sdkmath.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totals[denom] = shares
	return nil
}

func (m *MockDebtShareRepository) ListByAccount(ctx context.Context, tx usecase.Transaction, accountID string) ([]domain.DebtShares, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.DebtShares
	for k, shares := range m.shares {
		if k.first == accountID {
			out = append(out, domain.DebtShares{AccountID: k.first, Denom: k.second, Shares: shares})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Denom < out[j].Denom })
	return out, nil
}

func (m *MockDebtShareRepository) List(ctx context.Context, startAfter *domain.PairKey, limit int) ([]domain.DebtShares, error) {
	return nil, fmt.Errorf("mock: List not implemented")
}

func (m *MockDebtShareRepository) ListTotals(ctx context.Context, startAfter string, limit int) ([]domain.TotalDebtShares, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.TotalDebtShares
	for denom, shares := range m.totals {
		if denom > startAfter {
			out = append(out, domain.TotalDebtShares{Denom: denom, Shares: shares})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Denom < out[j].Denom })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockDebtShareRepository) SumByDenom(ctx context.Context) (map[string]sdkmath.Int, error) {
	if m.SumByDenomFunc != nil {
		return m.SumByDenomFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sums := make(map[string]sdkmath.Int)
	for k, shares := range m.shares {
		if current, ok := sums[k.second]; ok {
			sums[k.second] = current.Add(shares)
		} else {
			sums[k.second] = shares
		}
	}
	return sums, nil
}

// MockVaultPositionRepository is a mock implementation of VaultPositionRepository.
type MockVaultPositionRepository struct {
	mu        sync.RWMutex
	positions map[pair]*domain.VaultPosition

	TotalsByVaultFunc func(ctx context.Context, startAfter string, limit int) ([]domain.VaultBalance, error)
}

func NewMockVaultPositionRepository() *MockVaultPositionRepository {
	return &MockVaultPositionRepository{
		positions: make(map[pair]*domain.VaultPosition),
	}
}

func (m *MockVaultPositionRepository) Get(ctx context.Context, tx usecase.Transaction, accountID, vault string) (*domain.VaultPosition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pos, ok := m.positions[pair{accountID, vault}]
	if !ok {
		return nil, domain.ErrVaultPositionNotFound
	}
	cp := *pos
	cp.Unlocking = append([]domain.UnlockingLot(nil), pos.Unlocking...)
	return &cp, nil
}

func (m *MockVaultPositionRepository) Save(ctx context.Context, tx usecase.Transaction, position *domain.VaultPosition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pair{position.AccountID, position.Vault}
	if position.IsEmpty() {
		delete(m.positions, key)
		return nil
	}
	cp := *position
	cp.Unlocking = append([]domain.UnlockingLot(nil), position.Unlocking...)
	m.positions[key] = &cp
	return nil
}

func (m *MockVaultPositionRepository) ListByAccount(ctx context.Context, tx usecase.Transaction, accountID string) ([]*domain.VaultPosition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.VaultPosition
	for k, pos := range m.positions {
		if k.first == accountID {
			cp := *pos
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Vault < out[j].Vault })
	return out, nil
}

func (m *MockVaultPositionRepository) List(ctx context.Context, startAfter *domain.PairKey, limit int) ([]*domain.VaultPosition, error) {
	return nil, fmt.Errorf("mock: List not implemented")
}

func (m *MockVaultPositionRepository) TotalsByVault(ctx context.Context, startAfter string, limit int) ([]domain.VaultBalance, error) {
	if m.TotalsByVaultFunc != nil {
		return m.TotalsByVaultFunc(ctx, startAfter, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sums := make(map[string]sdkmath.Int)
	for k, pos := range m.positions {
		total, err := pos.Total()
		if err != nil {
			return nil, err
		}
		if current, ok := sums[k.second]; ok {
			total = current.Add(total)
		}
		sums[k.second] = total
	}
	var out []domain.VaultBalance
	for vault, total := range sums {
		if vault > startAfter {
			out = append(out, domain.VaultBalance{Vault: vault, Balance: total})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Vault < out[j].Vault })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	Events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.Events {
		if !e.Published && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	Logs []*domain.AuditLog
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, log)
	return nil
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.AuditLog
	for _, l := range m.Logs {
		if filter.Principal != "" && l.Principal != filter.Principal {
			continue
		}
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.ResourceID != "" && l.ResourceID != filter.ResourceID {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

var (
	_ usecase.CoinBalanceRepository   = (*MockCoinBalanceRepository)(nil)
	_ usecase.DebtShareRepository     = (*MockDebtShareRepository)(nil)
	_ usecase.VaultPositionRepository = (*MockVaultPositionRepository)(nil)
	_ usecase.OutboxRepository        = (*MockOutboxRepository)(nil)
	_ usecase.AuditRepository         = (*MockAuditRepository)(nil)
	_ usecase.TransactionManager      = (*MockTransactionManager)(nil)
	_ usecase.IDGenerator             = (*MockIDGenerator)(nil)
	_ usecase.IdempotencyStore        = (*MockIdempotencyStore)(nil)
)
