package sandbox

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/creditledger/internal/domain"
)

const manager = "credit-manager"

func newTestWorld() *World {
	w := NewWorld(manager, "red-bank", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	w.Fund("red-bank", domain.NewCoin("uusdc", 1_000_000))
	w.SetPrice("uusdc", decimal.NewFromInt(1))
	w.SetPrice("uatom", decimal.RequireFromString("10.5"))
	w.AddVault("vault-a", domain.VaultInfo{BaseTokenDenom: "uusdc", VaultTokenDenom: "vusdc"}, 0)
	w.AddVault("vault-l", domain.VaultInfo{BaseTokenDenom: "uusdc", VaultTokenDenom: "lusdc"}, 24*time.Hour)
	return w
}

func balance(t *testing.T, w *World, holder, denom string) string {
	t.Helper()
	b, err := w.Balance(context.Background(), holder, denom)
	require.NoError(t, err)
	return b.String()
}

func TestPoolBorrowAndRepay(t *testing.T) {
	ctx := context.Background()
	w := newTestWorld()
	pool := w.Pool()
	exec := w.Executor()

	ins, err := pool.Borrow(ctx, domain.NewCoin("uusdc", 300))
	require.NoError(t, err)
	require.NoError(t, exec.Execute(ctx, ins))

	assert.Equal(t, "300", balance(t, w, manager, "uusdc"))
	debt, err := pool.TotalDebt(ctx, "uusdc")
	require.NoError(t, err)
	assert.Equal(t, "300", debt.String())

	ins, err = pool.Repay(ctx, domain.NewCoin("uusdc", 100))
	require.NoError(t, err)
	require.NoError(t, exec.Execute(ctx, ins))

	debt, err = pool.TotalDebt(ctx, "uusdc")
	require.NoError(t, err)
	assert.Equal(t, "200", debt.String())
	assert.Equal(t, "999800", balance(t, w, "red-bank", "uusdc"))
}

func TestBorrowBeyondLiquidityFails(t *testing.T) {
	ctx := context.Background()
	w := newTestWorld()
	ins, err := w.Pool().Borrow(ctx, domain.NewCoin("uusdc", 2_000_000))
	require.NoError(t, err)
	err = w.Executor().Execute(ctx, ins)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))
}

func TestVaultDepositAndWithdraw(t *testing.T) {
	ctx := context.Background()
	w := newTestWorld()
	w.Fund(manager, domain.NewCoin("uusdc", 1000))
	v, err := w.Vault(ctx, "vault-a")
	require.NoError(t, err)

	ins, err := v.Deposit(ctx, domain.NewCoin("uusdc", 400))
	require.NoError(t, err)
	require.NoError(t, w.Executor().Execute(ctx, ins))

	held, err := v.BalanceOf(ctx, manager)
	require.NoError(t, err)
	assert.Equal(t, "400", held.String())

	// Yield doubles the redemption value of each token.
	require.NoError(t, w.Yield("vault-a", sdkmath.NewInt(400)))
	preview, err := v.PreviewRedeem(ctx, sdkmath.NewInt(100))
	require.NoError(t, err)
	require.Len(t, preview, 1)
	assert.Equal(t, "200", preview[0].Amount.String())

	ins, err = v.Withdraw(ctx, sdkmath.NewInt(100), false)
	require.NoError(t, err)
	require.NoError(t, w.Executor().Execute(ctx, ins))
	assert.Equal(t, "800", balance(t, w, manager, "uusdc"))
}

func TestLockupVaultRequiresUnlock(t *testing.T) {
	ctx := context.Background()
	w := newTestWorld()
	w.Fund(manager, domain.NewCoin("uusdc", 1000))
	v, err := w.Vault(ctx, "vault-l")
	require.NoError(t, err)
	exec := w.Executor()

	ins, _ := v.Deposit(ctx, domain.NewCoin("uusdc", 500))
	require.NoError(t, exec.Execute(ctx, ins))

	ins, _ = v.Withdraw(ctx, sdkmath.NewInt(100), false)
	require.True(t, errors.Is(exec.Execute(ctx, ins), ErrLocked))

	ref := domain.UnlockRef{AccountID: "1", LotID: 1}
	ins, _ = v.RequestUnlock(ctx, ref, sdkmath.NewInt(200))
	require.NoError(t, exec.Execute(ctx, ins))

	matured, err := v.IsMatured(ctx, ref)
	require.NoError(t, err)
	assert.False(t, matured)

	ins, _ = v.WithdrawUnlocked(ctx, ref)
	require.Error(t, exec.Execute(ctx, ins))

	w.Advance(24 * time.Hour)
	matured, err = v.IsMatured(ctx, ref)
	require.NoError(t, err)
	assert.True(t, matured)
	require.NoError(t, exec.Execute(ctx, ins))
	assert.Equal(t, "700", balance(t, w, manager, "uusdc"))

	_, err = v.IsMatured(ctx, ref)
	assert.True(t, errors.Is(err, ErrUnknownUnlock))
}

func TestForceWithdrawUnlockingReducesRequest(t *testing.T) {
	ctx := context.Background()
	w := newTestWorld()
	w.Fund(manager, domain.NewCoin("uusdc", 1000))
	v, _ := w.Vault(ctx, "vault-l")
	exec := w.Executor()

	ins, _ := v.Deposit(ctx, domain.NewCoin("uusdc", 1000))
	require.NoError(t, exec.Execute(ctx, ins))
	ref := domain.UnlockRef{AccountID: "1", LotID: 1}
	ins, _ = v.RequestUnlock(ctx, ref, sdkmath.NewInt(300))
	require.NoError(t, exec.Execute(ctx, ins))

	ins, _ = v.ForceWithdrawUnlocking(ctx, ref, sdkmath.NewInt(100))
	require.NoError(t, exec.Execute(ctx, ins))
	assert.Equal(t, "100", balance(t, w, manager, "uusdc"))

	ins, _ = v.ForceWithdrawUnlocking(ctx, ref, sdkmath.NewInt(200))
	require.NoError(t, exec.Execute(ctx, ins))
	_, err := v.IsMatured(ctx, ref)
	assert.True(t, errors.Is(err, ErrUnknownUnlock))

	ins, _ = v.Withdraw(ctx, sdkmath.NewInt(700), true)
	require.NoError(t, exec.Execute(ctx, ins))
	assert.Equal(t, "1000", balance(t, w, manager, "uusdc"))
}

func TestCheckpointRestoresWorld(t *testing.T) {
	ctx := context.Background()
	w := newTestWorld()
	restore := w.Checkpoint()

	id, err := w.Mint(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "1", id)
	ins, _ := w.Pool().Borrow(ctx, domain.NewCoin("uusdc", 10))
	require.NoError(t, w.Executor().Execute(ctx, ins))

	restore()

	_, err = w.OwnerOf(ctx, "1")
	assert.True(t, errors.Is(err, ErrUnknownAccount))
	assert.Equal(t, "0", balance(t, w, manager, "uusdc"))
	debt, _ := w.Pool().TotalDebt(ctx, "uusdc")
	assert.True(t, debt.IsZero())

	id, err = w.Mint(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "1", id)
}

func TestAccountTransfer(t *testing.T) {
	ctx := context.Background()
	w := newTestWorld()
	id, _ := w.Mint(ctx, "alice")

	assert.True(t, errors.Is(w.Transfer(ctx, id, "bob", "carol"), ErrNotOwner))
	require.NoError(t, w.Transfer(ctx, id, "alice", "bob"))
	owner, err := w.OwnerOf(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "bob", owner)
}

func TestTotalValue(t *testing.T) {
	w := newTestWorld()
	value, err := w.TotalValue(context.Background(), []domain.Coin{
		domain.NewCoin("uusdc", 5),
		domain.NewCoin("uatom", 2),
	})
	require.NoError(t, err)
	assert.True(t, value.Equal(decimal.NewFromInt(26)), value.String())

	_, err = w.TotalValue(context.Background(), []domain.Coin{domain.NewCoin("uosmo", 1)})
	assert.True(t, errors.Is(err, ErrNoPrice))
}
