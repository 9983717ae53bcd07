package usecase

import (
	"context"
	"sort"
	"time"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/infrastructure/metrics"
)

// ReconciliationUseCase verifies the ledger totals against the account records
// and the vault balances.
type ReconciliationUseCase struct {
	identity  string
	debtRepo  DebtShareRepository
	vaultRepo VaultPositionRepository
	vaults    VaultRegistry
	metrics   *metrics.Metrics
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	identity string,
	debtRepo DebtShareRepository,
	vaultRepo VaultPositionRepository,
	vaults VaultRegistry,
	metrics *metrics.Metrics,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		identity:  identity,
		debtRepo:  debtRepo,
		vaultRepo: vaultRepo,
		vaults:    vaults,
		metrics:   metrics,
	}
}

// ShareDiscrepancy is a denom whose recorded share total differs from the sum
// of account shares.
type ShareDiscrepancy struct {
	Denom      string      `json:"denom"`
	Recorded   sdkmath.Int `json:"recorded"`
	Calculated sdkmath.Int `json:"calculated"`
}

// VaultDiscrepancy is a vault whose account positions exceed what the protocol holds.
type VaultDiscrepancy struct {
	Vault    string      `json:"vault"`
	Accounts sdkmath.Int `json:"accounts"`
	Held     sdkmath.Int `json:"held"`
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	DenomsChecked      int                `json:"denoms_checked"`
	VaultsChecked      int                `json:"vaults_checked"`
	ShareDiscrepancies []ShareDiscrepancy `json:"share_discrepancies"`
	VaultDiscrepancies []VaultDiscrepancy `json:"vault_discrepancies"`
	LedgerConsistent   bool               `json:"ledger_consistent"`
	CheckedAt          time.Time          `json:"checked_at"`
}

// CheckDebtShares compares every recorded share total with the sum of account shares.
func (uc *ReconciliationUseCase) CheckDebtShares(ctx context.Context) (int, []ShareDiscrepancy, error) {
	sums, err := uc.debtRepo.SumByDenom(ctx)
	if err != nil {
		return 0, nil, err
	}

	recorded := make(map[string]sdkmath.Int)
	cursor := ""
	for {
		totals, err := uc.debtRepo.ListTotals(ctx, cursor, domain.MaxPageLimit)
		if err != nil {
			return 0, nil, err
		}
		for _, t := range totals {
			recorded[t.Denom] = t.Shares
		}
		if len(totals) < domain.MaxPageLimit {
			break
		}
		cursor = totals[len(totals)-1].Denom
	}

	denoms := make(map[string]struct{}, len(sums)+len(recorded))
	for d := range sums {
		denoms[d] = struct{}{}
	}
	for d := range recorded {
		denoms[d] = struct{}{}
	}

	var out []ShareDiscrepancy
	for d := range denoms {
		want := domain.AmountOrZero(sums[d])
		got := domain.AmountOrZero(recorded[d])
		if !want.Equal(got) {
			out = append(out, ShareDiscrepancy{Denom: d, Recorded: got, Calculated: want})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Denom < out[j].Denom })
	return len(denoms), out, nil
}

// CheckVaultHoldings requires the protocol to hold at least the vault tokens
// credited to accounts in every vault.
func (uc *ReconciliationUseCase) CheckVaultHoldings(ctx context.Context) (int, []VaultDiscrepancy, error) {
	var out []VaultDiscrepancy
	checked := 0
	cursor := ""
	for {
		totals, err := uc.vaultRepo.TotalsByVault(ctx, cursor, domain.MaxPageLimit)
		if err != nil {
			return 0, nil, err
		}
		for _, t := range totals {
			v, err := uc.vaults.Vault(ctx, t.Vault)
			if err != nil {
				return 0, nil, domain.ExternalError(err, "resolve vault")
			}
			held, err := v.BalanceOf(ctx, uc.identity)
			if err != nil {
				return 0, nil, domain.ExternalError(err, "vault balance")
			}
			checked++
			if held.LT(t.Balance) {
				out = append(out, VaultDiscrepancy{Vault: t.Vault, Accounts: t.Balance, Held: held})
			}
		}
		if len(totals) < domain.MaxPageLimit {
			break
		}
		cursor = totals[len(totals)-1].Vault
	}
	return checked, out, nil
}

// CheckLedgerConsistency returns domain.ErrLedgerInconsistent when any check fails.
func (uc *ReconciliationUseCase) CheckLedgerConsistency(ctx context.Context) error {
	report, err := uc.GenerateReconciliationReport(ctx)
	if err != nil {
		return err
	}
	if !report.LedgerConsistent {
		return errorsmod.Wrapf(domain.ErrLedgerInconsistent,
			"%d share totals and %d vault holdings disagree",
			len(report.ShareDiscrepancies), len(report.VaultDiscrepancies))
	}
	return nil
}

// GenerateReconciliationReport generates a comprehensive reconciliation report
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	denoms, shares, err := uc.CheckDebtShares(ctx)
	if err != nil {
		uc.record("error")
		return nil, err
	}
	vaults, holdings, err := uc.CheckVaultHoldings(ctx)
	if err != nil {
		uc.record("error")
		return nil, err
	}

	report := &ReconciliationReport{
		DenomsChecked:      denoms,
		VaultsChecked:      vaults,
		ShareDiscrepancies: shares,
		VaultDiscrepancies: holdings,
		LedgerConsistent:   len(shares) == 0 && len(holdings) == 0,
		CheckedAt:          time.Now().UTC(),
	}

	if report.LedgerConsistent {
		uc.record("consistent")
	} else {
		uc.record("inconsistent")
		if uc.metrics != nil {
			uc.metrics.ReconciliationFailures.Inc()
		}
	}
	return report, nil
}

func (uc *ReconciliationUseCase) record(result string) {
	if uc.metrics != nil {
		uc.metrics.ReconciliationRuns.WithLabelValues(result).Inc()
	}
}
