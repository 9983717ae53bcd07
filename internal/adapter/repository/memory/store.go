// Package memory keeps the credit ledgers in process memory. It backs the
// development server and the end-to-end tests.
package memory

import (
	"context"
	"sync"

	sdkmath "cosmossdk.io/math"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

type key struct {
	first  string
	second string
}

func (k key) pair() domain.PairKey {
	return domain.PairKey{First: k.first, Second: k.second}
}

// Store holds every ledger table. One transaction runs at a time: Begin
// takes the writer lock and Commit or Rollback releases it.
type Store struct {
	txLock sync.Mutex

	mu        sync.RWMutex
	balances  map[key]sdkmath.Int
	shares    map[key]sdkmath.Int
	totals    map[string]sdkmath.Int
	positions map[key]*domain.VaultPosition
	outbox    []*domain.OutboxEvent
	audit     []*domain.AuditLog

	participants []usecase.Participant
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		balances:  make(map[key]sdkmath.Int),
		shares:    make(map[key]sdkmath.Int),
		totals:    make(map[string]sdkmath.Int),
		positions: make(map[key]*domain.VaultPosition),
	}
}

// Join registers external state that rolls back together with the store.
func (s *Store) Join(p usecase.Participant) {
	s.txLock.Lock()
	defer s.txLock.Unlock()
	s.participants = append(s.participants, p)
}

func (s *Store) CoinBalances() *CoinBalanceRepository {
	return &CoinBalanceRepository{store: s}
}

func (s *Store) DebtShares() *DebtShareRepository {
	return &DebtShareRepository{store: s}
}

func (s *Store) VaultPositions() *VaultPositionRepository {
	return &VaultPositionRepository{store: s}
}

func (s *Store) Outbox() *OutboxRepository {
	return &OutboxRepository{store: s}
}

func (s *Store) Audit() *AuditRepository {
	return &AuditRepository{store: s}
}

// TxManager returns the transaction manager of the store.
func (s *Store) TxManager() *TxManager {
	return &TxManager{store: s}
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// Begin waits for the writer lock and records the state to restore on rollback.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	locked := make(chan struct{})
	go func() {
		m.store.txLock.Lock()
		close(locked)
	}()

	select {
	case <-locked:
	case <-ctx.Done():
		// Release the lock once the pending acquisition completes.
		go func() {
			<-locked
			m.store.txLock.Unlock()
		}()
		return nil, ctx.Err()
	}

	tx := &Tx{store: m.store, snapshot: m.store.snapshot()}
	for _, p := range m.store.participants {
		tx.restore = append(tx.restore, p.Checkpoint())
	}
	return tx, nil
}

// Tx is an in-memory transaction. Writes apply directly and are undone on rollback.
type Tx struct {
	store    *Store
	snapshot *snapshot
	restore  []func()
	done     bool
	mu       sync.Mutex
}

// Commit keeps the writes and releases the writer lock.
func (t *Tx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return nil
	}
	t.done = true
	t.store.txLock.Unlock()
	return nil
}

// Rollback restores the state captured by Begin. Rolling back a finished
// transaction does nothing.
func (t *Tx) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return nil
	}
	t.done = true
	t.store.restore(t.snapshot)
	for i := len(t.restore) - 1; i >= 0; i-- {
		t.restore[i]()
	}
	t.store.txLock.Unlock()
	return nil
}

type snapshot struct {
	balances  map[key]sdkmath.Int
	shares    map[key]sdkmath.Int
	totals    map[string]sdkmath.Int
	positions map[key]*domain.VaultPosition
	outboxLen int
}

func (s *Store) snapshot() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &snapshot{
		balances:  make(map[key]sdkmath.Int, len(s.balances)),
		shares:    make(map[key]sdkmath.Int, len(s.shares)),
		totals:    make(map[string]sdkmath.Int, len(s.totals)),
		positions: make(map[key]*domain.VaultPosition, len(s.positions)),
		outboxLen: len(s.outbox),
	}
	for k, v := range s.balances {
		snap.balances[k] = v
	}
	for k, v := range s.shares {
		snap.shares[k] = v
	}
	for k, v := range s.totals {
		snap.totals[k] = v
	}
	for k, v := range s.positions {
		snap.positions[k] = copyPosition(v)
	}
	return snap
}

func (s *Store) restore(snap *snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances = snap.balances
	s.shares = snap.shares
	s.totals = snap.totals
	s.positions = snap.positions
	// Only transactions append to the outbox, so truncating drops exactly
	// the rolled back events.
	s.outbox = s.outbox[:snap.outboxLen]
}

func copyPosition(p *domain.VaultPosition) *domain.VaultPosition {
	cp := *p
	cp.Unlocking = append([]domain.UnlockingLot(nil), p.Unlocking...)
	return &cp
}

// afterKey reports whether k sorts after the exclusive cursor.
func afterKey(k key, cursor *domain.PairKey) bool {
	return cursor == nil || cursor.Less(k.pair())
}

var _ usecase.TransactionManager = (*TxManager)(nil)
