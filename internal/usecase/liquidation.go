package usecase

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/infrastructure/metrics"
)

// Event types emitted by liquidations.
const (
	EventLiquidateCoin  = "liquidate_coin"
	EventLiquidateVault = "liquidate_vault"
)

// LiquidationEngine seizes collateral from liquidatable accounts in exchange
// for repaying part of their debt.
type LiquidationEngine struct {
	coins   *CoinLedger
	debts   *DebtLedger
	vaults  *VaultLedger
	health  HealthEvaluator
	oracle  Oracle
	config  ConfigReader
	metrics *metrics.Metrics
}

func NewLiquidationEngine(
	coins *CoinLedger,
	debts *DebtLedger,
	vaults *VaultLedger,
	health HealthEvaluator,
	oracle Oracle,
	config ConfigReader,
	metrics *metrics.Metrics,
) *LiquidationEngine {
	return &LiquidationEngine{
		coins:   coins,
		debts:   debts,
		vaults:  vaults,
		health:  health,
		oracle:  oracle,
		config:  config,
		metrics: metrics,
	}
}

// liquidationAmounts is the debt repaid on behalf of the liquidatee and the
// collateral handed to the liquidator.
type liquidationAmounts struct {
	Repay sdkmath.Int
	Seize sdkmath.Int
}

func (e *LiquidationEngine) assertLiquidatable(ctx context.Context, tx Transaction, liquidator, liquidatee string, debtCoin domain.Coin) error {
	if liquidator == liquidatee {
		return errorsmod.Wrapf(domain.ErrSelfLiquidation, "account %s", liquidator)
	}
	if err := debtCoin.Validate(); err != nil {
		return err
	}
	health, err := e.health.Health(ctx, tx, liquidatee)
	if err != nil {
		return domain.ExternalError(err, "health")
	}
	if !health.Liquidatable {
		return errorsmod.Wrapf(domain.ErrNotLiquidatable, "account %s health %s", liquidatee, health)
	}
	return nil
}

// calculate bounds the repayment by the close factor and the outstanding
// debt, then prices the seized collateral with the liquidation bonus. When the
// liquidatee holds less collateral than that, the repayment shrinks to match.
func (e *LiquidationEngine) calculate(
	ctx context.Context,
	tx Transaction,
	liquidatee string,
	debtCoin domain.Coin,
	requestDenom string,
	available sdkmath.Int,
) (liquidationAmounts, error) {
	_, debt, err := e.debts.CurrentDebt(ctx, tx, liquidatee, debtCoin.Denom)
	if err != nil {
		return liquidationAmounts{}, err
	}
	params, err := e.config.Params(ctx)
	if err != nil {
		return liquidationAmounts{}, err
	}

	ceiling, err := domain.DecimalToIntFloor(domain.IntToDecimal(debt).Mul(params.MaxCloseFactor))
	if err != nil {
		return liquidationAmounts{}, err
	}
	repay := domain.MinInt(debtCoin.Amount, ceiling, debt)

	debtPrice, err := e.oracle.Price(ctx, debtCoin.Denom)
	if err != nil {
		return liquidationAmounts{}, domain.ExternalError(err, "oracle price")
	}
	requestPrice, err := e.oracle.Price(ctx, requestDenom)
	if err != nil {
		return liquidationAmounts{}, domain.ExternalError(err, "oracle price")
	}
	if requestPrice.IsZero() || debtPrice.IsZero() {
		return liquidationAmounts{}, errorsmod.Wrapf(domain.ErrDivideByZero,
			"price of %s is %s, price of %s is %s", debtCoin.Denom, debtPrice, requestDenom, requestPrice)
	}

	bonus := decimal.NewFromInt(1).Add(params.LiquidationBonus)
	seize, err := domain.DecimalToIntFloor(
		domain.IntToDecimal(repay).Mul(debtPrice).Mul(bonus).Div(requestPrice))
	if err != nil {
		return liquidationAmounts{}, err
	}

	if seize.GT(available) {
		seize = available
		repay, err = domain.DecimalToIntFloor(
			domain.IntToDecimal(available).Mul(requestPrice).Div(debtPrice.Mul(bonus)))
		if err != nil {
			return liquidationAmounts{}, err
		}
	}

	if repay.IsZero() || seize.IsZero() {
		return liquidationAmounts{}, errorsmod.Wrapf(domain.ErrNoAmount,
			"liquidation of %s repays %s and seizes %s%s", liquidatee, repay, seize, requestDenom)
	}
	return liquidationAmounts{Repay: repay, Seize: seize}, nil
}

// LiquidateCoin repays debt of the liquidatee with the liquidator's coins and
// moves collateral of requestDenom to the liquidator.
func (e *LiquidationEngine) LiquidateCoin(ctx context.Context, tx Transaction, s domain.LiquidateCoinStep) (*StepResult, error) {
	if err := e.assertLiquidatable(ctx, tx, s.Liquidator, s.Liquidatee, s.DebtCoin); err != nil {
		return nil, err
	}

	available, err := e.coins.Balance(ctx, tx, s.Liquidatee, s.RequestDenom)
	if err != nil {
		return nil, err
	}
	if available.IsZero() {
		return nil, errorsmod.Wrapf(domain.ErrCoinBalanceNotFound, "account %s holds no %s", s.Liquidatee, s.RequestDenom)
	}

	amounts, err := e.calculate(ctx, tx, s.Liquidatee, s.DebtCoin, s.RequestDenom, available)
	if err != nil {
		return nil, err
	}

	repay := domain.Coin{Denom: s.DebtCoin.Denom, Amount: amounts.Repay}
	seized := domain.Coin{Denom: s.RequestDenom, Amount: amounts.Seize}
	if err := e.coins.Transfer(ctx, tx, s.Liquidator, s.Liquidatee, repay); err != nil {
		return nil, err
	}
	if err := e.coins.Transfer(ctx, tx, s.Liquidatee, s.Liquidator, seized); err != nil {
		return nil, err
	}

	if e.metrics != nil {
		e.metrics.Liquidations.WithLabelValues(EventLiquidateCoin).Inc()
	}

	res := &StepResult{}
	res.add(domain.RepayStep{AccountID: s.Liquidatee, Coin: repay})
	res.emit(EventLiquidateCoin,
		"liquidator", s.Liquidator,
		"liquidatee", s.Liquidatee,
		"debt_repaid", repay.String(),
		"seized", seized.String())
	return res, nil
}

// LiquidateVault repays debt of the liquidatee and force-withdraws vault
// tokens from its position. The redeemed coins reach the liquidator through
// UpdateCoinBalances; the debt is repaid last so its payment does not count
// as redeemed coins.
func (e *LiquidationEngine) LiquidateVault(ctx context.Context, tx Transaction, s domain.LiquidateVaultStep) (*StepResult, error) {
	if err := e.assertLiquidatable(ctx, tx, s.Liquidator, s.Liquidatee, s.DebtCoin); err != nil {
		return nil, err
	}

	pos, err := e.vaults.OpenPosition(ctx, tx, s.Liquidatee, s.RequestVault)
	if err != nil {
		return nil, err
	}
	available, err := pos.Total()
	if err != nil {
		return nil, err
	}

	v, err := e.vaults.vault(ctx, s.RequestVault)
	if err != nil {
		return nil, err
	}
	info, err := v.Info(ctx)
	if err != nil {
		return nil, domain.ExternalError(err, "vault info")
	}

	amounts, err := e.calculate(ctx, tx, s.Liquidatee, s.DebtCoin, info.VaultTokenDenom, available)
	if err != nil {
		return nil, err
	}

	repay := domain.Coin{Denom: s.DebtCoin.Denom, Amount: amounts.Repay}
	if err := e.coins.Transfer(ctx, tx, s.Liquidator, s.Liquidatee, repay); err != nil {
		return nil, err
	}

	previous, err := e.vaults.previousBalances(ctx, v, amounts.Seize)
	if err != nil {
		return nil, err
	}
	withdrawals, err := e.vaults.Seize(ctx, tx, s.Liquidatee, v, amounts.Seize)
	if err != nil {
		return nil, err
	}

	if e.metrics != nil {
		e.metrics.Liquidations.WithLabelValues(EventLiquidateVault).Inc()
	}

	res := &StepResult{}
	res.add(withdrawals...)
	res.add(
		domain.UpdateCoinBalancesStep{AccountID: s.Liquidator, Previous: previous},
		domain.RepayStep{AccountID: s.Liquidatee, Coin: repay},
	)
	res.emit(EventLiquidateVault,
		"liquidator", s.Liquidator,
		"liquidatee", s.Liquidatee,
		"vault", s.RequestVault,
		"debt_repaid", repay.String(),
		"seized", amounts.Seize.String()+info.VaultTokenDenom)
	return res, nil
}
