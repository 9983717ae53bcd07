package usecase_test

import (
	"context"
	"errors"
	"testing"

	sdkmath "cosmossdk.io/math"
	"go.uber.org/mock/gomock"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
	"github.com/iho/creditledger/internal/usecase/mocks"
)

func seedShares(t *testing.T, repo *mocks.MockDebtShareRepository, denom string, total int64, shares map[string]int64) {
	t.Helper()
	ctx := context.Background()
	for account, n := range shares {
		if err := repo.SetShares(ctx, nil, account, denom, sdkmath.NewInt(n)); err != nil {
			t.Fatalf("seed shares: %v", err)
		}
	}
	if err := repo.SetTotal(ctx, nil, denom, sdkmath.NewInt(total)); err != nil {
		t.Fatalf("seed total: %v", err)
	}
}

func TestCheckDebtShares(t *testing.T) {
	t.Parallel()

	debts := mocks.NewMockDebtShareRepository()
	seedShares(t, debts, "uusdc", 150, map[string]int64{"1": 100, "2": 50})
	seedShares(t, debts, "uatom", 40, map[string]int64{"1": 30})

	uc := usecase.NewReconciliationUseCase(identity, debts, mocks.NewMockVaultPositionRepository(), nil, nil)

	checked, discrepancies, err := uc.CheckDebtShares(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if checked != 2 {
		t.Fatalf("expected 2 denoms checked, got %d", checked)
	}
	if len(discrepancies) != 1 {
		t.Fatalf("expected 1 discrepancy, got %d", len(discrepancies))
	}
	d := discrepancies[0]
	if d.Denom != "uatom" || d.Recorded.Int64() != 40 || d.Calculated.Int64() != 30 {
		t.Fatalf("unexpected discrepancy %+v", d)
	}
}

func TestCheckDebtShares_PropagatesError(t *testing.T) {
	t.Parallel()

	debts := mocks.NewMockDebtShareRepository()
	debts.SumByDenomFunc = func(context.Context) (map[string]sdkmath.Int, error) {
		return nil, errors.New("boom")
	}
	uc := usecase.NewReconciliationUseCase(identity, debts, mocks.NewMockVaultPositionRepository(), nil, nil)

	if _, _, err := uc.CheckDebtShares(context.Background()); err == nil || err.Error() != "boom" {
		t.Fatalf("expected propagated error, got %v", err)
	}
}

func TestCheckVaultHoldings(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	ctx := context.Background()

	positions := mocks.NewMockVaultPositionRepository()
	for _, p := range []*domain.VaultPosition{
		{AccountID: "1", Vault: "vault-a", Unlocked: sdkmath.NewInt(70), Locked: sdkmath.ZeroInt()},
		{AccountID: "2", Vault: "vault-a", Unlocked: sdkmath.NewInt(30), Locked: sdkmath.ZeroInt()},
		{
			AccountID: "1",
			Vault:     "vault-l",
			Unlocked:  sdkmath.ZeroInt(),
			Locked:    sdkmath.NewInt(10),
			Unlocking: []domain.UnlockingLot{{ID: 1, Amount: sdkmath.NewInt(5)}},
		},
	} {
		if err := positions.Save(ctx, nil, p); err != nil {
			t.Fatalf("seed position: %v", err)
		}
	}

	vaultA := mocks.NewMockVault(ctrl)
	vaultA.EXPECT().BalanceOf(gomock.Any(), identity).Return(sdkmath.NewInt(100), nil)
	vaultL := mocks.NewMockVault(ctrl)
	vaultL.EXPECT().BalanceOf(gomock.Any(), identity).Return(sdkmath.NewInt(12), nil)

	registry := mocks.NewMockVaultRegistry(ctrl)
	registry.EXPECT().Vault(gomock.Any(), "vault-a").Return(vaultA, nil)
	registry.EXPECT().Vault(gomock.Any(), "vault-l").Return(vaultL, nil)

	uc := usecase.NewReconciliationUseCase(identity, mocks.NewMockDebtShareRepository(), positions, registry, nil)

	checked, discrepancies, err := uc.CheckVaultHoldings(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if checked != 2 {
		t.Fatalf("expected 2 vaults checked, got %d", checked)
	}
	if len(discrepancies) != 1 {
		t.Fatalf("expected 1 discrepancy, got %d", len(discrepancies))
	}
	d := discrepancies[0]
	if d.Vault != "vault-l" || d.Accounts.Int64() != 15 || d.Held.Int64() != 12 {
		t.Fatalf("unexpected discrepancy %+v", d)
	}
}

func TestCheckVaultHoldings_WrapsCollaboratorError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	positions := mocks.NewMockVaultPositionRepository()
	positions.TotalsByVaultFunc = func(context.Context, string, int) ([]domain.VaultBalance, error) {
		return []domain.VaultBalance{{Vault: "vault-a", Balance: sdkmath.NewInt(1)}}, nil
	}
	registry := mocks.NewMockVaultRegistry(ctrl)
	registry.EXPECT().Vault(gomock.Any(), "vault-a").Return(nil, errors.New("unreachable"))

	uc := usecase.NewReconciliationUseCase(identity, mocks.NewMockDebtShareRepository(), positions, registry, nil)

	_, _, err := uc.CheckVaultHoldings(context.Background())
	if !errors.Is(err, domain.ErrCollaborator) {
		t.Fatalf("expected collaborator error, got %v", err)
	}
	if domain.ClassOf(err) != domain.ClassExternalCall {
		t.Fatalf("expected external call class, got %s", domain.ClassOf(err))
	}
}

func TestCheckLedgerConsistency(t *testing.T) {
	t.Parallel()

	ok := mocks.NewMockDebtShareRepository()
	seedShares(t, ok, "uusdc", 10, map[string]int64{"1": 10})
	uc := usecase.NewReconciliationUseCase(identity, ok, mocks.NewMockVaultPositionRepository(), nil, nil)
	if err := uc.CheckLedgerConsistency(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := mocks.NewMockDebtShareRepository()
	seedShares(t, bad, "uusdc", 11, map[string]int64{"1": 10})
	uc = usecase.NewReconciliationUseCase(identity, bad, mocks.NewMockVaultPositionRepository(), nil, nil)
	err := uc.CheckLedgerConsistency(context.Background())
	if !errors.Is(err, domain.ErrLedgerInconsistent) {
		t.Fatalf("expected inconsistent ledger, got %v", err)
	}
}

func TestGenerateReconciliationReport(t *testing.T) {
	t.Parallel()

	debts := mocks.NewMockDebtShareRepository()
	seedShares(t, debts, "uusdc", 30, map[string]int64{"1": 10, "2": 20})

	uc := usecase.NewReconciliationUseCase(identity, debts, mocks.NewMockVaultPositionRepository(), nil, nil)

	report, err := uc.GenerateReconciliationReport(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.DenomsChecked != 1 {
		t.Fatalf("expected 1 denom checked, got %d", report.DenomsChecked)
	}
	if report.VaultsChecked != 0 {
		t.Fatalf("expected no vaults checked, got %d", report.VaultsChecked)
	}
	if !report.LedgerConsistent {
		t.Fatal("expected ledger to be marked consistent")
	}
	if report.CheckedAt.IsZero() {
		t.Fatal("expected CheckedAt timestamp")
	}
}
