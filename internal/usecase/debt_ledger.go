package usecase

import (
	"context"
	"math/big"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/infrastructure/metrics"
)

// DebtLedger owns account debt shares and the per-denom share totals.
type DebtLedger struct {
	repo    DebtShareRepository
	coins   *CoinLedger
	pool    LendingPool
	config  ConfigReader
	metrics *metrics.Metrics
}

func NewDebtLedger(
	repo DebtShareRepository,
	coins *CoinLedger,
	pool LendingPool,
	config ConfigReader,
	metrics *metrics.Metrics,
) *DebtLedger {
	return &DebtLedger{
		repo:    repo,
		coins:   coins,
		pool:    pool,
		config:  config,
		metrics: metrics,
	}
}

func (l *DebtLedger) ratio(ctx context.Context, tx Transaction, denom string) (domain.ShareRatio, error) {
	totalShares, err := l.repo.GetTotal(ctx, tx, denom)
	if err != nil {
		return domain.ShareRatio{}, err
	}
	totalDebt, err := l.pool.TotalDebt(ctx, denom)
	if err != nil {
		return domain.ShareRatio{}, domain.ExternalError(err, "pool total debt")
	}
	return domain.ShareRatio{TotalShares: totalShares, TotalDebt: totalDebt}, nil
}

// CurrentDebt returns the account's shares of denom and the amount they represent.
func (l *DebtLedger) CurrentDebt(ctx context.Context, tx Transaction, accountID, denom string) (shares, amount sdkmath.Int, err error) {
	shares, err = l.repo.GetShares(ctx, tx, accountID, denom)
	if err != nil {
		return sdkmath.ZeroInt(), sdkmath.ZeroInt(), err
	}
	if shares.IsZero() {
		return sdkmath.ZeroInt(), sdkmath.ZeroInt(), errorsmod.Wrapf(domain.ErrNoDebt, "account %s has no %s debt", accountID, denom)
	}
	ratio, err := l.ratio(ctx, tx, denom)
	if err != nil {
		return sdkmath.ZeroInt(), sdkmath.ZeroInt(), err
	}
	amount, err = ratio.AmountForShares(shares)
	if err != nil {
		return sdkmath.ZeroInt(), sdkmath.ZeroInt(), err
	}
	return shares, amount, nil
}

// Debts resolves every debt position of the account.
func (l *DebtLedger) Debts(ctx context.Context, tx Transaction, accountID string) ([]domain.DebtAmount, error) {
	positions, err := l.repo.ListByAccount(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.DebtAmount, 0, len(positions))
	for _, p := range positions {
		ratio, err := l.ratio(ctx, tx, p.Denom)
		if err != nil {
			return nil, err
		}
		amount, err := ratio.AmountForShares(p.Shares)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.DebtAmount{Denom: p.Denom, Shares: p.Shares, Amount: amount})
	}
	return out, nil
}

// Borrow mints debt shares for coin and credits the borrowed coin.
func (l *DebtLedger) Borrow(ctx context.Context, tx Transaction, s domain.BorrowStep) (*StepResult, error) {
	if err := s.Coin.Validate(); err != nil {
		return nil, err
	}
	if err := assertCoinAllowed(ctx, l.config, s.Coin.Denom); err != nil {
		return nil, err
	}

	ratio, err := l.ratio(ctx, tx, s.Coin.Denom)
	if err != nil {
		return nil, err
	}
	minted, err := ratio.SharesForAmount(s.Coin.Amount)
	if err != nil {
		return nil, err
	}
	if minted.IsZero() {
		return nil, errorsmod.Wrapf(domain.ErrNoAmount, "borrow of %s mints no debt shares", s.Coin)
	}

	if err := l.addShares(ctx, tx, s.AccountID, s.Coin.Denom, minted); err != nil {
		return nil, err
	}
	if err := l.coins.Increment(ctx, tx, s.AccountID, s.Coin); err != nil {
		return nil, err
	}

	ins, err := l.pool.Borrow(ctx, s.Coin)
	if err != nil {
		return nil, domain.ExternalError(err, "pool borrow")
	}

	if l.metrics != nil {
		l.metrics.DebtSharesMinted.WithLabelValues(s.Coin.Denom).Add(amountToFloat(minted))
	}

	res := &StepResult{}
	res.add(ins)
	res.emit("borrow", "account_id", s.AccountID, "coin", s.Coin.String(), "shares", minted.String())
	return res, nil
}

// Repay burns debt shares for at most the account's current debt and debits
// the repaid amount. Requests above the debt are capped.
func (l *DebtLedger) Repay(ctx context.Context, tx Transaction, s domain.RepayStep) (*StepResult, error) {
	if err := s.Coin.Validate(); err != nil {
		return nil, err
	}
	if err := assertCoinAllowed(ctx, l.config, s.Coin.Denom); err != nil {
		return nil, err
	}

	shares, err := l.repo.GetShares(ctx, tx, s.AccountID, s.Coin.Denom)
	if err != nil {
		return nil, err
	}
	if shares.IsZero() {
		return nil, errorsmod.Wrapf(domain.ErrNoDebt, "account %s has no %s debt", s.AccountID, s.Coin.Denom)
	}

	ratio, err := l.ratio(ctx, tx, s.Coin.Denom)
	if err != nil {
		return nil, err
	}
	debt, err := ratio.AmountForShares(shares)
	if err != nil {
		return nil, err
	}

	pay := sdkmath.MinInt(s.Coin.Amount, debt)
	burned := shares
	if pay.LT(debt) {
		if burned, err = ratio.SharesForAmount(pay); err != nil {
			return nil, err
		}
		burned = sdkmath.MinInt(burned, shares)
	}

	remaining, err := domain.SafeSub(shares, burned)
	if err != nil {
		return nil, err
	}
	if err := l.repo.SetShares(ctx, tx, s.AccountID, s.Coin.Denom, remaining); err != nil {
		return nil, err
	}
	total, err := domain.SafeSub(ratio.TotalShares, burned)
	if err != nil {
		return nil, errorsmod.Wrapf(err, "total %s debt shares", s.Coin.Denom)
	}
	if err := l.repo.SetTotal(ctx, tx, s.Coin.Denom, total); err != nil {
		return nil, err
	}

	if l.metrics != nil {
		l.metrics.DebtSharesBurned.WithLabelValues(s.Coin.Denom).Add(amountToFloat(burned))
	}

	res := &StepResult{}
	repaid := domain.Coin{Denom: s.Coin.Denom, Amount: pay}
	res.emit("repay", "account_id", s.AccountID, "coin", repaid.String(), "shares", burned.String())
	if pay.IsZero() {
		return res, nil
	}

	if err := l.coins.Decrement(ctx, tx, s.AccountID, repaid); err != nil {
		return nil, err
	}
	ins, err := l.pool.Repay(ctx, repaid)
	if err != nil {
		return nil, domain.ExternalError(err, "pool repay")
	}
	res.add(ins)
	return res, nil
}

func (l *DebtLedger) addShares(ctx context.Context, tx Transaction, accountID, denom string, minted sdkmath.Int) error {
	current, err := l.repo.GetShares(ctx, tx, accountID, denom)
	if err != nil {
		return err
	}
	next, err := domain.SafeAdd(current, minted)
	if err != nil {
		return err
	}
	if err := l.repo.SetShares(ctx, tx, accountID, denom, next); err != nil {
		return err
	}

	total, err := l.repo.GetTotal(ctx, tx, denom)
	if err != nil {
		return err
	}
	if total, err = domain.SafeAdd(total, minted); err != nil {
		return err
	}
	return l.repo.SetTotal(ctx, tx, denom, total)
}

func assertCoinAllowed(ctx context.Context, config ConfigReader, denom string) error {
	ok, err := config.IsCoinAllowed(ctx, denom)
	if err != nil {
		return err
	}
	if !ok {
		return errorsmod.Wrapf(domain.ErrNotWhitelisted, "coin %s", denom)
	}
	return nil
}

func amountToFloat(amount sdkmath.Int) float64 {
	f, _ := new(big.Float).SetInt(domain.AmountOrZero(amount).BigInt()).Float64()
	return f
}
