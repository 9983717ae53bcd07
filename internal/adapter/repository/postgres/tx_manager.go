package postgres

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/creditledger/internal/usecase"
)

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgxPool interface {
	querier
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// serializable makes concurrent batches on the same rows fail with 40001
// instead of interleaving; the Retrier re-runs them.
var serializable = pgx.TxOptions{IsoLevel: pgx.Serializable}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	pool         pgxPool
	participants []usecase.Participant
	// gate admits one transaction at a time once a participant has joined.
	gate chan struct{}
}

// NewTxManager creates a new TxManager.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return newTxManagerWithPool(pool)
}

func newTxManagerWithPool(pool pgxPool) *TxManager {
	return &TxManager{pool: pool}
}

// Join registers external state restored whenever a transaction rolls back.
func (m *TxManager) Join(p usecase.Participant) {
	if m.gate == nil {
		m.gate = make(chan struct{}, 1)
	}
	m.participants = append(m.participants, p)
}

// Begin starts a new serializable transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.gate != nil {
		select {
		case m.gate <- struct{}{}:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	tx, err := m.pool.BeginTx(ctx, serializable)
	if err != nil {
		m.release()
		return nil, err
	}

	t := &Tx{tx: tx, release: m.release}
	for _, p := range m.participants {
		t.restore = append(t.restore, p.Checkpoint())
	}
	return t, nil
}

func (m *TxManager) release() {
	if m.gate != nil {
		<-m.gate
	}
}

// Tx wraps a pgx transaction.
type Tx struct {
	tx      pgx.Tx
	restore []func()
	release func()
	mu      sync.Mutex
	done    bool
}

// Commit commits the transaction.
func (t *Tx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return pgx.ErrTxClosed
	}
	defer t.finish()
	if err := t.tx.Commit(ctx); err != nil {
		t.undo()
		return err
	}
	return nil
}

// Rollback rolls back the transaction. Rolling back a finished transaction
// does nothing.
func (t *Tx) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return nil
	}
	defer t.finish()
	t.undo()
	return t.tx.Rollback(ctx)
}

func (t *Tx) finish() {
	t.done = true
	if t.release != nil {
		t.release()
	}
}

func (t *Tx) undo() {
	for i := len(t.restore) - 1; i >= 0; i-- {
		t.restore[i]()
	}
}

// PgxTx returns the underlying pgx.Tx.
func (t *Tx) PgxTx() pgx.Tx {
	return t.tx
}

// conn picks the transaction when one is given and the pool otherwise.
func conn(pool querier, tx usecase.Transaction) querier {
	if t, ok := tx.(*Tx); ok && t != nil {
		return t.tx
	}
	return pool
}
