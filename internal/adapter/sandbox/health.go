package sandbox

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

// Thresholds returns the collateral weights of a whitelisted coin.
type Thresholds interface {
	MaxLTV(denom string) decimal.Decimal
	LiquidationThreshold(denom string) decimal.Decimal
}

// HealthEvaluator computes two health factors of an account: collateral
// value weighted by max LTV over debt value, and the same weighted by
// liquidation threshold.
type HealthEvaluator struct {
	coins      usecase.CoinBalanceRepository
	debts      usecase.DebtShareRepository
	positions  usecase.VaultPositionRepository
	pool       usecase.LendingPool
	oracle     usecase.Oracle
	vaults     usecase.VaultRegistry
	config     usecase.ConfigReader
	thresholds Thresholds
}

func NewHealthEvaluator(
	coins usecase.CoinBalanceRepository,
	debts usecase.DebtShareRepository,
	positions usecase.VaultPositionRepository,
	pool usecase.LendingPool,
	oracle usecase.Oracle,
	vaults usecase.VaultRegistry,
	config usecase.ConfigReader,
	thresholds Thresholds,
) *HealthEvaluator {
	return &HealthEvaluator{
		coins:      coins,
		debts:      debts,
		positions:  positions,
		pool:       pool,
		oracle:     oracle,
		vaults:     vaults,
		config:     config,
		thresholds: thresholds,
	}
}

func (h *HealthEvaluator) Health(ctx context.Context, tx usecase.Transaction, accountID string) (domain.Health, error) {
	debt, err := h.debtValue(ctx, tx, accountID)
	if err != nil {
		return domain.Health{}, err
	}
	if debt.IsZero() {
		return domain.Health{}, nil
	}
	collateral, err := h.collateralValue(ctx, tx, accountID)
	if err != nil {
		return domain.Health{}, err
	}
	return domain.NewHealthFactors(collateral.maxLTV.Div(debt), collateral.liquidation.Div(debt)), nil
}

// weightedCollateral is collateral value under both weightings.
type weightedCollateral struct {
	maxLTV      decimal.Decimal
	liquidation decimal.Decimal
}

func (w *weightedCollateral) add(value, maxLTV, threshold decimal.Decimal) {
	w.maxLTV = w.maxLTV.Add(value.Mul(maxLTV))
	w.liquidation = w.liquidation.Add(value.Mul(threshold))
}

func (h *HealthEvaluator) debtValue(ctx context.Context, tx usecase.Transaction, accountID string) (decimal.Decimal, error) {
	shares, err := h.debts.ListByAccount(ctx, tx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	owed := make([]domain.Coin, 0, len(shares))
	for _, s := range shares {
		total, err := h.debts.GetTotal(ctx, tx, s.Denom)
		if err != nil {
			return decimal.Zero, err
		}
		pooled, err := h.pool.TotalDebt(ctx, s.Denom)
		if err != nil {
			return decimal.Zero, err
		}
		amount, err := domain.ShareRatio{TotalShares: total, TotalDebt: pooled}.AmountForShares(s.Shares)
		if err != nil {
			return decimal.Zero, err
		}
		owed = append(owed, domain.Coin{Denom: s.Denom, Amount: amount})
	}
	return h.oracle.TotalValue(ctx, owed)
}

func (h *HealthEvaluator) collateralValue(ctx context.Context, tx usecase.Transaction, accountID string) (weightedCollateral, error) {
	var total weightedCollateral

	coins, err := h.coins.ListByAccount(ctx, tx, accountID)
	if err != nil {
		return total, err
	}
	for _, c := range coins {
		value, err := h.oracle.TotalValue(ctx, []domain.Coin{c})
		if err != nil {
			return total, err
		}
		total.add(value, h.thresholds.MaxLTV(c.Denom), h.thresholds.LiquidationThreshold(c.Denom))
	}

	positions, err := h.positions.ListByAccount(ctx, tx, accountID)
	if err != nil {
		return total, err
	}
	for _, p := range positions {
		amount, err := p.Total()
		if err != nil {
			return total, err
		}
		v, err := h.vaults.Vault(ctx, p.Vault)
		if err != nil {
			return total, err
		}
		redeemable, err := v.PreviewRedeem(ctx, amount)
		if err != nil {
			return total, err
		}
		value, err := h.oracle.TotalValue(ctx, redeemable)
		if err != nil {
			return total, err
		}
		cfg, err := h.config.VaultConfig(ctx, p.Vault)
		if err != nil {
			return total, err
		}
		total.add(value, cfg.MaxLTV, cfg.LiquidationThreshold)
	}
	return total, nil
}

var _ usecase.HealthEvaluator = (*HealthEvaluator)(nil)
