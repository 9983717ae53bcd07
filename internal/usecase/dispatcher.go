package usecase

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/infrastructure/metrics"
)

// Dispatcher runs privileged steps. Only the protocol itself may invoke it;
// every step reaches it through the batch queue.
type Dispatcher struct {
	identity    string
	coins       *CoinLedger
	debts       *DebtLedger
	vaults      *VaultLedger
	liquidation *LiquidationEngine
	health      HealthEvaluator
	metrics     *metrics.Metrics
}

func NewDispatcher(
	identity string,
	coins *CoinLedger,
	debts *DebtLedger,
	vaults *VaultLedger,
	liquidation *LiquidationEngine,
	health HealthEvaluator,
	metrics *metrics.Metrics,
) *Dispatcher {
	return &Dispatcher{
		identity:    identity,
		coins:       coins,
		debts:       debts,
		vaults:      vaults,
		liquidation: liquidation,
		health:      health,
		metrics:     metrics,
	}
}

// Identity is the protocol's own principal.
func (d *Dispatcher) Identity() string {
	return d.identity
}

// Dispatch runs step on behalf of caller. Callers other than the protocol are
// rejected with domain.ErrExternalInvocation.
func (d *Dispatcher) Dispatch(ctx context.Context, tx Transaction, caller string, step domain.Step) (*StepResult, error) {
	if caller != d.identity {
		return nil, errorsmod.Wrapf(domain.ErrExternalInvocation, "caller %s", caller)
	}

	res, err := d.dispatch(ctx, tx, step)
	if err != nil {
		return nil, err
	}
	if d.metrics != nil {
		d.metrics.StepsExecuted.WithLabelValues(step.Kind()).Inc()
	}
	return res, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, tx Transaction, step domain.Step) (*StepResult, error) {
	switch s := step.(type) {
	case domain.WithdrawStep:
		return d.coins.Withdraw(ctx, tx, s)
	case domain.BorrowStep:
		return d.debts.Borrow(ctx, tx, s)
	case domain.RepayStep:
		return d.debts.Repay(ctx, tx, s)
	case domain.EnterVaultStep:
		return d.vaults.Enter(ctx, tx, s)
	case domain.UpdateVaultCoinBalanceStep:
		return d.vaults.UpdateVaultCoinBalance(ctx, tx, s)
	case domain.ExitVaultStep:
		return d.vaults.Exit(ctx, tx, s)
	case domain.RequestVaultUnlockStep:
		return d.vaults.RequestUnlock(ctx, tx, s)
	case domain.ExitVaultUnlockedStep:
		return d.vaults.ExitUnlocked(ctx, tx, s)
	case domain.LiquidateCoinStep:
		return d.liquidation.LiquidateCoin(ctx, tx, s)
	case domain.LiquidateVaultStep:
		return d.liquidation.LiquidateVault(ctx, tx, s)
	case domain.UpdateCoinBalancesStep:
		return d.coins.UpdateCoinBalances(ctx, tx, s)
	case domain.RefundAllCoinBalancesStep:
		return d.coins.RefundAll(ctx, tx, s)
	case domain.AssertOneVaultPositionOnlyStep:
		return d.vaults.AssertOneVaultPositionOnly(ctx, tx, s)
	case domain.AssertHealthNonRegressionStep:
		return d.assertHealthNonRegression(ctx, tx, s)
	case nil:
		return nil, errorsmod.Wrap(domain.ErrInvalidAction, "nil step")
	default:
		return nil, errorsmod.Wrapf(domain.ErrInvalidAction, "unsupported step %q", step.Kind())
	}
}

func (d *Dispatcher) assertHealthNonRegression(ctx context.Context, tx Transaction, s domain.AssertHealthNonRegressionStep) (*StepResult, error) {
	post, err := d.health.Health(ctx, tx, s.AccountID)
	if err != nil {
		return nil, domain.ExternalError(err, "health")
	}
	if err := domain.CheckNonRegression(s.Previous, post); err != nil {
		return nil, errorsmod.Wrapf(err, "account %s", s.AccountID)
	}
	return &StepResult{}, nil
}
