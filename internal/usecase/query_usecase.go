package usecase

import (
	"context"
	"sort"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"github.com/iho/creditledger/internal/domain"
)

// QueryUseCase serves the read-only projections of the ledgers. Cursors are
// exclusive: a page starts after the given key.
type QueryUseCase struct {
	identity  string
	coinRepo  CoinBalanceRepository
	debtRepo  DebtShareRepository
	vaultRepo VaultPositionRepository
	debts     *DebtLedger
	vaults    VaultRegistry
	oracle    Oracle
	config    ConfigReader
	health    HealthEvaluator
}

// NewQueryUseCase creates a new QueryUseCase.
func NewQueryUseCase(
	identity string,
	coinRepo CoinBalanceRepository,
	debtRepo DebtShareRepository,
	vaultRepo VaultPositionRepository,
	debts *DebtLedger,
	vaults VaultRegistry,
	oracle Oracle,
	config ConfigReader,
	health HealthEvaluator,
) *QueryUseCase {
	return &QueryUseCase{
		identity:  identity,
		coinRepo:  coinRepo,
		debtRepo:  debtRepo,
		vaultRepo: vaultRepo,
		debts:     debts,
		vaults:    vaults,
		oracle:    oracle,
		config:    config,
		health:    health,
	}
}

// PageInput selects one page of a projection.
type PageInput struct {
	StartAfter string
	Limit      int
}

// CoinBalances lists collateral balances ordered by (account, denom).
func (uc *QueryUseCase) CoinBalances(ctx context.Context, input PageInput) ([]domain.CoinBalance, error) {
	cursor, err := domain.ParsePairKey(input.StartAfter)
	if err != nil {
		return nil, err
	}
	return uc.coinRepo.List(ctx, cursor, domain.ValidatePagination(input.Limit))
}

// DebtShares lists account debt shares ordered by (account, denom).
func (uc *QueryUseCase) DebtShares(ctx context.Context, input PageInput) ([]domain.DebtShares, error) {
	cursor, err := domain.ParsePairKey(input.StartAfter)
	if err != nil {
		return nil, err
	}
	return uc.debtRepo.List(ctx, cursor, domain.ValidatePagination(input.Limit))
}

// TotalDebtShares lists the share supply of every denom.
func (uc *QueryUseCase) TotalDebtShares(ctx context.Context, input PageInput) ([]domain.TotalDebtShares, error) {
	return uc.debtRepo.ListTotals(ctx, input.StartAfter, domain.ValidatePagination(input.Limit))
}

// VaultPositions lists vault positions ordered by (account, vault).
func (uc *QueryUseCase) VaultPositions(ctx context.Context, input PageInput) ([]*domain.VaultPosition, error) {
	cursor, err := domain.ParsePairKey(input.StartAfter)
	if err != nil {
		return nil, err
	}
	return uc.vaultRepo.List(ctx, cursor, domain.ValidatePagination(input.Limit))
}

// TotalVaultCoinBalances lists the vault tokens held for accounts per vault.
func (uc *QueryUseCase) TotalVaultCoinBalances(ctx context.Context, input PageInput) ([]domain.VaultBalance, error) {
	return uc.vaultRepo.TotalsByVault(ctx, input.StartAfter, domain.ValidatePagination(input.Limit))
}

// AllowedCoins lists whitelisted denoms in order.
func (uc *QueryUseCase) AllowedCoins(ctx context.Context, input PageInput) ([]string, error) {
	coins, err := uc.config.AllowedCoins(ctx)
	if err != nil {
		return nil, err
	}
	sorted := append([]string(nil), coins...)
	sort.Strings(sorted)
	return page(sorted, func(c string) string { return c }, input), nil
}

// VaultConfigs lists vault configs by address along with the value of the
// protocol's deposits expressed in the deposit cap denom.
func (uc *QueryUseCase) VaultConfigs(ctx context.Context, input PageInput) ([]domain.VaultUtilization, error) {
	configs, err := uc.config.VaultConfigs(ctx)
	if err != nil {
		return nil, err
	}
	sorted := append([]domain.VaultConfig(nil), configs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Address < sorted[j].Address })

	selected := page(sorted, func(c domain.VaultConfig) string { return c.Address }, input)
	out := make([]domain.VaultUtilization, 0, len(selected))
	for _, cfg := range selected {
		utilization, err := uc.utilization(ctx, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.VaultUtilization{Config: cfg, Utilization: utilization})
	}
	return out, nil
}

func (uc *QueryUseCase) utilization(ctx context.Context, cfg domain.VaultConfig) (domain.Coin, error) {
	v, err := uc.vaults.Vault(ctx, cfg.Address)
	if err != nil {
		return domain.Coin{}, domain.ExternalError(err, "resolve vault")
	}
	held, err := v.BalanceOf(ctx, uc.identity)
	if err != nil {
		return domain.Coin{}, domain.ExternalError(err, "vault balance")
	}
	if held.IsZero() {
		return domain.Coin{Denom: cfg.DepositCap.Denom, Amount: sdkmath.ZeroInt()}, nil
	}

	holdings, err := v.PreviewRedeem(ctx, held)
	if err != nil {
		return domain.Coin{}, domain.ExternalError(err, "vault preview redeem")
	}
	value, err := uc.oracle.TotalValue(ctx, holdings)
	if err != nil {
		return domain.Coin{}, domain.ExternalError(err, "oracle total value")
	}
	price, err := uc.oracle.Price(ctx, cfg.DepositCap.Denom)
	if err != nil {
		return domain.Coin{}, domain.ExternalError(err, "oracle price")
	}
	if price.IsZero() {
		return domain.Coin{}, errorsmod.Wrapf(domain.ErrDivideByZero, "price of %s", cfg.DepositCap.Denom)
	}
	amount, err := domain.DecimalToIntFloor(value.Div(price))
	if err != nil {
		return domain.Coin{}, err
	}
	return domain.Coin{Denom: cfg.DepositCap.Denom, Amount: amount}, nil
}

// Positions returns everything the account holds and owes and its health.
func (uc *QueryUseCase) Positions(ctx context.Context, accountID string) (*domain.Positions, error) {
	coins, err := uc.coinRepo.ListByAccount(ctx, nil, accountID)
	if err != nil {
		return nil, err
	}
	debts, err := uc.debts.Debts(ctx, nil, accountID)
	if err != nil {
		return nil, err
	}
	vaults, err := uc.vaultRepo.ListByAccount(ctx, nil, accountID)
	if err != nil {
		return nil, err
	}
	health, err := uc.health.Health(ctx, nil, accountID)
	if err != nil {
		return nil, domain.ExternalError(err, "health")
	}
	return &domain.Positions{
		AccountID: accountID,
		Coins:     coins,
		Debts:     debts,
		Vaults:    vaults,
		Health:    health,
	}, nil
}

// page returns up to limit items whose key sorts after input.StartAfter.
// items must already be sorted by key.
func page[T any](items []T, key func(T) string, input PageInput) []T {
	limit := domain.ValidatePagination(input.Limit)
	start := 0
	if input.StartAfter != "" {
		start = sort.Search(len(items), func(i int) bool { return key(items[i]) > input.StartAfter })
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
