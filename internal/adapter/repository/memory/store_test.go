package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/creditledger/internal/domain"
)

type counterParticipant struct {
	value int
}

func (p *counterParticipant) Checkpoint() func() {
	saved := p.value
	return func() { p.value = saved }
}

func TestRollbackRestoresStoreAndParticipants(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	world := &counterParticipant{value: 1}
	store.Join(world)
	balances := store.CoinBalances()
	outbox := store.Outbox()

	tx, err := store.TxManager().Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, balances.Set(ctx, tx, "1", "uusdc", sdkmath.NewInt(100)))
	require.NoError(t, outbox.Create(ctx, tx, &domain.OutboxEvent{ID: "e1"}))
	require.NoError(t, tx.Commit(ctx))

	tx, err = store.TxManager().Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, balances.Set(ctx, tx, "1", "uusdc", sdkmath.NewInt(40)))
	require.NoError(t, balances.Set(ctx, tx, "2", "uatom", sdkmath.NewInt(7)))
	require.NoError(t, outbox.Create(ctx, tx, &domain.OutboxEvent{ID: "e2"}))
	world.value = 99
	require.NoError(t, tx.Rollback(ctx))

	got, err := balances.Get(ctx, nil, "1", "uusdc")
	require.NoError(t, err)
	assert.Equal(t, "100", got.String())

	got, err = balances.Get(ctx, nil, "2", "uatom")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	events, err := outbox.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "e1", events[0].ID)

	assert.Equal(t, 1, world.value)
}

func TestRollbackAfterCommitIsNoop(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	balances := store.CoinBalances()

	tx, err := store.TxManager().Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, balances.Set(ctx, tx, "1", "uusdc", sdkmath.NewInt(5)))
	require.NoError(t, tx.Commit(ctx))
	require.NoError(t, tx.Rollback(ctx))

	got, err := balances.Get(ctx, nil, "1", "uusdc")
	require.NoError(t, err)
	assert.Equal(t, "5", got.String())

	// The lock was released exactly once, so a new transaction can start.
	tx, err = store.TxManager().Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))
}

func TestBeginHonorsContextWhileLocked(t *testing.T) {
	store := NewStore()
	tx, err := store.TxManager().Begin(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = store.TxManager().Begin(ctx)
	require.True(t, errors.Is(err, context.DeadlineExceeded))

	require.NoError(t, tx.Commit(context.Background()))

	next, err := store.TxManager().Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, next.Commit(context.Background()))
}

func TestCoinBalancesPagination(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().CoinBalances()
	for _, b := range []domain.CoinBalance{
		{AccountID: "1", Denom: "uatom", Amount: sdkmath.NewInt(1)},
		{AccountID: "1", Denom: "uusdc", Amount: sdkmath.NewInt(2)},
		{AccountID: "2", Denom: "uatom", Amount: sdkmath.NewInt(3)},
		{AccountID: "3", Denom: "uosmo", Amount: sdkmath.NewInt(4)},
	} {
		require.NoError(t, repo.Set(ctx, nil, b.AccountID, b.Denom, b.Amount))
	}

	first, err := repo.List(ctx, nil, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "uatom", first[0].Denom)
	assert.Equal(t, "uusdc", first[1].Denom)

	cursor := &domain.PairKey{First: first[1].AccountID, Second: first[1].Denom}
	second, err := repo.List(ctx, cursor, 2)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, "2", second[0].AccountID)
	assert.Equal(t, "3", second[1].AccountID)
}

func TestSetZeroDeletesEntries(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	balances := store.CoinBalances()
	shares := store.DebtShares()

	require.NoError(t, balances.Set(ctx, nil, "1", "uusdc", sdkmath.NewInt(5)))
	require.NoError(t, balances.Set(ctx, nil, "1", "uusdc", sdkmath.ZeroInt()))
	coins, err := balances.ListByAccount(ctx, nil, "1")
	require.NoError(t, err)
	assert.Empty(t, coins)

	require.NoError(t, shares.SetShares(ctx, nil, "1", "uusdc", sdkmath.NewInt(5)))
	require.NoError(t, shares.SetShares(ctx, nil, "1", "uusdc", sdkmath.ZeroInt()))
	debts, err := shares.ListByAccount(ctx, nil, "1")
	require.NoError(t, err)
	assert.Empty(t, debts)
}

func TestSumByDenomAndTotals(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().DebtShares()
	require.NoError(t, repo.SetShares(ctx, nil, "1", "uusdc", sdkmath.NewInt(30)))
	require.NoError(t, repo.SetShares(ctx, nil, "2", "uusdc", sdkmath.NewInt(12)))
	require.NoError(t, repo.SetShares(ctx, nil, "2", "uatom", sdkmath.NewInt(1)))
	require.NoError(t, repo.SetTotal(ctx, nil, "uusdc", sdkmath.NewInt(42)))
	require.NoError(t, repo.SetTotal(ctx, nil, "uatom", sdkmath.NewInt(1)))

	sums, err := repo.SumByDenom(ctx)
	require.NoError(t, err)
	assert.Equal(t, "42", sums["uusdc"].String())
	assert.Equal(t, "1", sums["uatom"].String())

	totals, err := repo.ListTotals(ctx, "uatom", 10)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, "uusdc", totals[0].Denom)
}

func TestVaultPositionsAreCopied(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().VaultPositions()

	_, err := repo.Get(ctx, nil, "1", "vault-a")
	require.True(t, errors.Is(err, domain.ErrVaultPositionNotFound))

	pos := domain.NewVaultPosition("1", "vault-a")
	require.NoError(t, pos.AddLocked(sdkmath.NewInt(10)))
	_, err = pos.RequestUnlock(sdkmath.NewInt(4), 3)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, nil, pos))

	pos.Unlocking[0].Amount = sdkmath.NewInt(1000)

	stored, err := repo.Get(ctx, nil, "1", "vault-a")
	require.NoError(t, err)
	require.Len(t, stored.Unlocking, 1)
	assert.Equal(t, "4", stored.Unlocking[0].Amount.String())

	other := domain.NewVaultPosition("2", "vault-a")
	require.NoError(t, other.AddUnlocked(sdkmath.NewInt(5)))
	require.NoError(t, repo.Save(ctx, nil, other))

	totals, err := repo.TotalsByVault(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, "15", totals[0].Balance.String())

	empty := domain.NewVaultPosition("2", "vault-a")
	require.NoError(t, repo.Save(ctx, nil, empty))
	_, err = repo.Get(ctx, nil, "2", "vault-a")
	require.True(t, errors.Is(err, domain.ErrVaultPositionNotFound))
}

func TestAuditListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Audit()
	require.NoError(t, repo.Create(ctx, &domain.AuditLog{ID: "a1", Principal: "alice", Action: "x"}))
	require.NoError(t, repo.Create(ctx, &domain.AuditLog{ID: "a2", Principal: "bob", Action: "x"}))
	require.NoError(t, repo.Create(ctx, &domain.AuditLog{ID: "a3", Principal: "alice", Action: "y"}))

	logs, err := repo.List(ctx, domain.AuditFilter{Principal: "alice"})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "a3", logs[0].ID)

	logs, err = repo.List(ctx, domain.AuditFilter{Action: "x", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "a1", logs[0].ID)
}

func TestOutboxDeletePublished(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	outbox := store.Outbox()

	tx, err := store.TxManager().Begin(ctx)
	require.NoError(t, err)
	for _, id := range []string{"old", "recent", "pending"} {
		require.NoError(t, outbox.Create(ctx, tx, &domain.OutboxEvent{ID: id}))
	}
	require.NoError(t, tx.Commit(ctx))

	now := time.Now()
	require.NoError(t, outbox.MarkPublished(ctx, "old", now.Add(-48*time.Hour)))
	require.NoError(t, outbox.MarkPublished(ctx, "recent", now))

	removed, err := outbox.DeletePublished(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	pending, err := outbox.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "pending", pending[0].ID)
}
