package usecase_test

import (
	"context"
	"errors"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
	"github.com/iho/creditledger/internal/usecase/mocks"
)

type ledgerFixture struct {
	coinRepo *mocks.MockCoinBalanceRepository
	debtRepo *mocks.MockDebtShareRepository
	pool     *mocks.MockLendingPool
	config   *mocks.MockConfigReader
	coins    *usecase.CoinLedger
	debts    *usecase.DebtLedger
}

func newLedgerFixture(t *testing.T, poolDebt int64) *ledgerFixture {
	ctrl := gomock.NewController(t)
	f := &ledgerFixture{
		coinRepo: mocks.NewMockCoinBalanceRepository(),
		debtRepo: mocks.NewMockDebtShareRepository(),
		pool:     mocks.NewMockLendingPool(ctrl),
		config:   mocks.NewMockConfigReader(ctrl),
	}
	f.pool.EXPECT().TotalDebt(gomock.Any(), "uusdc").Return(sdkmath.NewInt(poolDebt), nil).AnyTimes()
	f.config.EXPECT().IsCoinAllowed(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, denom string) (bool, error) {
			return denom == "uusdc" || denom == "uatom", nil
		}).AnyTimes()
	f.coins = usecase.NewCoinLedger(identity, f.coinRepo, nil)
	f.debts = usecase.NewDebtLedger(f.debtRepo, f.coins, f.pool, f.config, nil)
	return f
}

func (f *ledgerFixture) seedDebt(t *testing.T, accountID string, shares, total int64) {
	ctx := context.Background()
	require.NoError(t, f.debtRepo.SetShares(ctx, nil, accountID, "uusdc", sdkmath.NewInt(shares)))
	require.NoError(t, f.debtRepo.SetTotal(ctx, nil, "uusdc", sdkmath.NewInt(total)))
}

func (f *ledgerFixture) seedCoin(t *testing.T, accountID string, coin domain.Coin) {
	require.NoError(t, f.coinRepo.Set(context.Background(), nil, accountID, coin.Denom, coin.Amount))
}

func (f *ledgerFixture) balance(t *testing.T, accountID, denom string) int64 {
	amount, err := f.coinRepo.Get(context.Background(), nil, accountID, denom)
	require.NoError(t, err)
	return amount.Int64()
}

func (f *ledgerFixture) shares(t *testing.T, accountID string) (int64, int64) {
	ctx := context.Background()
	shares, err := f.debtRepo.GetShares(ctx, nil, accountID, "uusdc")
	require.NoError(t, err)
	total, err := f.debtRepo.GetTotal(ctx, nil, "uusdc")
	require.NoError(t, err)
	return shares.Int64(), total.Int64()
}

func TestDebtLedger_Borrow(t *testing.T) {
	tests := []struct {
		name        string
		poolDebt    int64
		totalShares int64
		borrow      int64
		wantShares  int64
	}{
		{name: "first borrow mints one to one", poolDebt: 0, totalShares: 0, borrow: 100, wantShares: 100},
		{name: "accrued interest mints fewer shares", poolDebt: 150, totalShares: 100, borrow: 30, wantShares: 20},
		{name: "shares round down", poolDebt: 300, totalShares: 100, borrow: 5, wantShares: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLedgerFixture(t, tt.poolDebt)
			if tt.totalShares > 0 {
				f.seedDebt(t, "other", tt.totalShares, tt.totalShares)
			}
			coin := usdc(tt.borrow)
			f.pool.EXPECT().Borrow(gomock.Any(), coin).Return(domain.PoolBorrow{Pool: "red-bank", Coin: coin}, nil)

			res, err := f.debts.Borrow(context.Background(), nil, domain.BorrowStep{AccountID: "1", Coin: coin})
			require.NoError(t, err)

			shares, total := f.shares(t, "1")
			assert.Equal(t, tt.wantShares, shares)
			assert.Equal(t, tt.totalShares+tt.wantShares, total)
			assert.Equal(t, tt.borrow, f.balance(t, "1", "uusdc"))
			require.Len(t, res.Messages, 1)
			assert.Equal(t, domain.PoolBorrow{Pool: "red-bank", Coin: coin}, res.Messages[0])
		})
	}
}

func TestDebtLedger_BorrowRejectsZeroShares(t *testing.T) {
	f := newLedgerFixture(t, 1000)
	f.seedDebt(t, "other", 1, 1)

	_, err := f.debts.Borrow(context.Background(), nil, domain.BorrowStep{AccountID: "1", Coin: usdc(1)})
	assert.True(t, errors.Is(err, domain.ErrNoAmount))
}

func TestDebtLedger_BorrowRejectsUnlistedCoin(t *testing.T) {
	f := newLedgerFixture(t, 0)

	_, err := f.debts.Borrow(context.Background(), nil, domain.BorrowStep{AccountID: "1", Coin: domain.NewCoin("ujuno", 1)})
	assert.True(t, errors.Is(err, domain.ErrNotWhitelisted))
}

func TestDebtLedger_Repay(t *testing.T) {
	tests := []struct {
		name          string
		repay         int64
		wantPaid      int64
		wantShares    int64
		wantRemaining int64
	}{
		{name: "partial repayment burns shares pro rata", repay: 30, wantPaid: 30, wantShares: 80, wantRemaining: 470},
		{name: "over repayment is capped at the debt", repay: 500, wantPaid: 150, wantShares: 0, wantRemaining: 350},
		{name: "exact repayment clears the position", repay: 150, wantPaid: 150, wantShares: 0, wantRemaining: 350},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLedgerFixture(t, 150)
			f.seedDebt(t, "1", 100, 100)
			f.seedCoin(t, "1", usdc(500))

			paid := usdc(tt.wantPaid)
			f.pool.EXPECT().Repay(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, c domain.Coin) (domain.Instruction, error) {
					assert.Equal(t, paid.String(), c.String())
					return domain.PoolRepay{Pool: "red-bank", Coin: c}, nil
				})

			res, err := f.debts.Repay(context.Background(), nil, domain.RepayStep{AccountID: "1", Coin: usdc(tt.repay)})
			require.NoError(t, err)

			shares, total := f.shares(t, "1")
			assert.Equal(t, tt.wantShares, shares)
			assert.Equal(t, tt.wantShares, total)
			assert.Equal(t, tt.wantRemaining, f.balance(t, "1", "uusdc"))
			require.Len(t, res.Messages, 1)
			require.Len(t, res.Events, 1)
			assert.Equal(t, paid.String(), res.Events[0].Attributes["coin"])
		})
	}
}

func TestDebtLedger_RepayWithoutDebt(t *testing.T) {
	f := newLedgerFixture(t, 0)

	_, err := f.debts.Repay(context.Background(), nil, domain.RepayStep{AccountID: "1", Coin: usdc(10)})
	assert.True(t, errors.Is(err, domain.ErrNoDebt))
	assert.Equal(t, domain.ClassState, domain.ClassOf(err))
}

func TestDebtLedger_RepayNeedsCoinBalance(t *testing.T) {
	f := newLedgerFixture(t, 150)
	f.seedDebt(t, "1", 100, 100)

	_, err := f.debts.Repay(context.Background(), nil, domain.RepayStep{AccountID: "1", Coin: usdc(10)})
	assert.True(t, errors.Is(err, domain.ErrUnderflow))
}

func TestDebtLedger_Debts(t *testing.T) {
	f := newLedgerFixture(t, 150)
	f.seedDebt(t, "1", 40, 100)

	debts, err := f.debts.Debts(context.Background(), nil, "1")
	require.NoError(t, err)
	require.Len(t, debts, 1)
	assert.Equal(t, "60", debts[0].Amount.String())
	assert.Equal(t, "40", debts[0].Shares.String())
}

func TestDispatcher_RejectsExternalCallers(t *testing.T) {
	d := usecase.NewDispatcher(identity, nil, nil, nil, nil, nil, nil)

	_, err := d.Dispatch(context.Background(), nil, "alice", domain.BorrowStep{AccountID: "1", Coin: usdc(1)})
	assert.True(t, errors.Is(err, domain.ErrExternalInvocation))
	assert.Equal(t, domain.ClassAuthorization, domain.ClassOf(err))

	_, err = d.Dispatch(context.Background(), nil, identity, nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidAction))
}

func TestLiquidationEngine_LiquidateCoin(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	f := newLedgerFixture(t, 1000)
	f.seedDebt(t, "victim", 100, 100)
	f.seedCoin(t, "victim", atom(100))
	f.seedCoin(t, "hunter", usdc(600))

	health := mocks.NewMockHealthEvaluator(ctrl)
	oracle := mocks.NewMockOracle(ctrl)
	f.config.EXPECT().Params(gomock.Any()).Return(domain.Params{
		MaxCloseFactor:        decimal.RequireFromString("0.5"),
		MaxUnlockingPositions: 10,
		LiquidationBonus:      decimal.RequireFromString("0.1"),
	}, nil).AnyTimes()
	oracle.EXPECT().Price(gomock.Any(), "uusdc").Return(decimal.NewFromInt(1), nil).AnyTimes()
	oracle.EXPECT().Price(gomock.Any(), "uatom").Return(decimal.NewFromInt(10), nil).AnyTimes()

	engine := usecase.NewLiquidationEngine(f.coins, f.debts, nil, health, oracle, f.config, nil)
	step := domain.LiquidateCoinStep{Liquidator: "hunter", Liquidatee: "victim", DebtCoin: usdc(600), RequestDenom: "uatom"}

	health.EXPECT().Health(gomock.Any(), gomock.Any(), "victim").
		Return(domain.NewHealth(decimal.RequireFromString("1.2")), nil)
	_, err := engine.LiquidateCoin(ctx, nil, step)
	assert.True(t, errors.Is(err, domain.ErrNotLiquidatable))

	health.EXPECT().Health(gomock.Any(), gomock.Any(), "victim").
		Return(domain.NewHealth(decimal.RequireFromString("0.8")), nil)
	res, err := engine.LiquidateCoin(ctx, nil, step)
	require.NoError(t, err)

	// Close factor 0.5 of a 1000 debt caps the repayment at 500.
	assert.Equal(t, int64(100), f.balance(t, "hunter", "uusdc"))
	assert.Equal(t, int64(55), f.balance(t, "hunter", "uatom"))
	assert.Equal(t, int64(500), f.balance(t, "victim", "uusdc"))
	assert.Equal(t, int64(45), f.balance(t, "victim", "uatom"))
	require.Len(t, res.Messages, 1)
	repay, ok := res.Messages[0].(domain.RepayStep)
	require.True(t, ok)
	assert.Equal(t, "victim", repay.AccountID)
	assert.Equal(t, "500uusdc", repay.Coin.String())

	selfStep := step
	selfStep.Liquidator = "victim"
	_, err = engine.LiquidateCoin(ctx, nil, selfStep)
	assert.True(t, errors.Is(err, domain.ErrSelfLiquidation))
}
