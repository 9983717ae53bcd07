package usecase

import (
	"context"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"

	"github.com/iho/creditledger/internal/domain"
)

// CoinBalanceRepository defines data access for collateral balances.
// Reads and writes inside a batch pass its Transaction; projections pass nil.
type CoinBalanceRepository interface {
	Get(ctx context.Context, tx Transaction, accountID, denom string) (sdkmath.Int, error)
	// Set stores amount; a zero amount deletes the entry.
	Set(ctx context.Context, tx Transaction, accountID, denom string, amount sdkmath.Int) error
	ListByAccount(ctx context.Context, tx Transaction, accountID string) ([]domain.Coin, error)
	List(ctx context.Context, startAfter *domain.PairKey, limit int) ([]domain.CoinBalance, error)
}

// DebtShareRepository defines data access for account and total debt shares.
type DebtShareRepository interface {
	GetShares(ctx context.Context, tx Transaction, accountID, denom string) (sdkmath.Int, error)
	// SetShares stores shares; zero shares delete the position.
	SetShares(ctx context.Context, tx Transaction, accountID, denom string, shares sdkmath.Int) error
	GetTotal(ctx context.Context, tx Transaction, denom string) (sdkmath.Int, error)
	SetTotal(ctx context.Context, tx Transaction, denom string, shares sdkmath.Int) error
	ListByAccount(ctx context.Context, tx Transaction, accountID string) ([]domain.DebtShares, error)
	List(ctx context.Context, startAfter *domain.PairKey, limit int) ([]domain.DebtShares, error)
	ListTotals(ctx context.Context, startAfter string, limit int) ([]domain.TotalDebtShares, error)
	// SumByDenom adds up account shares per denom.
	SumByDenom(ctx context.Context) (map[string]sdkmath.Int, error)
}

// VaultPositionRepository defines data access for vault positions.
type VaultPositionRepository interface {
	// Get returns domain.ErrVaultPositionNotFound when no position exists.
	Get(ctx context.Context, tx Transaction, accountID, vault string) (*domain.VaultPosition, error)
	// Save stores the position; an empty position is deleted.
	Save(ctx context.Context, tx Transaction, position *domain.VaultPosition) error
	ListByAccount(ctx context.Context, tx Transaction, accountID string) ([]*domain.VaultPosition, error)
	List(ctx context.Context, startAfter *domain.PairKey, limit int) ([]*domain.VaultPosition, error)
	// TotalsByVault sums every bucket of every position per vault.
	TotalsByVault(ctx context.Context, startAfter string, limit int) ([]domain.VaultBalance, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Transaction represents a storage transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Participant is external state that is restored when a transaction rolls back.
type Participant interface {
	// Checkpoint captures the current state and returns a function restoring it.
	Checkpoint() (restore func())
}

// Retrier re-runs operations that failed on transient storage conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// LendingPool is the money market the protocol borrows from.
type LendingPool interface {
	Address() string
	// TotalDebt is the protocol's outstanding debt of denom.
	TotalDebt(ctx context.Context, denom string) (sdkmath.Int, error)
	Borrow(ctx context.Context, coin domain.Coin) (domain.Instruction, error)
	Repay(ctx context.Context, coin domain.Coin) (domain.Instruction, error)
}

// Oracle prices coins in a common quote.
type Oracle interface {
	Price(ctx context.Context, denom string) (decimal.Decimal, error)
	TotalValue(ctx context.Context, coins []domain.Coin) (decimal.Decimal, error)
}

// Vault is an external yield vault.
type Vault interface {
	Address() string
	Info(ctx context.Context) (domain.VaultInfo, error)
	LockupDuration(ctx context.Context) (domain.VaultLockup, error)
	BalanceOf(ctx context.Context, holder string) (sdkmath.Int, error)
	PreviewRedeem(ctx context.Context, amount sdkmath.Int) ([]domain.Coin, error)
	IsMatured(ctx context.Context, ref domain.UnlockRef) (bool, error)
	Deposit(ctx context.Context, coin domain.Coin) (domain.Instruction, error)
	Withdraw(ctx context.Context, amount sdkmath.Int, forced bool) (domain.Instruction, error)
	ForceWithdrawUnlocking(ctx context.Context, ref domain.UnlockRef, amount sdkmath.Int) (domain.Instruction, error)
	RequestUnlock(ctx context.Context, ref domain.UnlockRef, amount sdkmath.Int) (domain.Instruction, error)
	WithdrawUnlocked(ctx context.Context, ref domain.UnlockRef) (domain.Instruction, error)
}

// VaultRegistry resolves vault addresses.
type VaultRegistry interface {
	Vault(ctx context.Context, address string) (Vault, error)
}

// HealthEvaluator computes account solvency. It reads ledger state through tx.
type HealthEvaluator interface {
	Health(ctx context.Context, tx Transaction, accountID string) (domain.Health, error)
}

// OwnershipRegistry resolves the owner of a credit account token.
type OwnershipRegistry interface {
	OwnerOf(ctx context.Context, accountID string) (string, error)
}

// AccountMinter opens new credit accounts.
type AccountMinter interface {
	Mint(ctx context.Context, owner string) (string, error)
	Transfer(ctx context.Context, accountID, from, to string) error
}

// BankQuerier reads balances held by an address.
type BankQuerier interface {
	Balance(ctx context.Context, holder, denom string) (sdkmath.Int, error)
}

// ConfigReader exposes the protocol configuration.
type ConfigReader interface {
	Params(ctx context.Context) (domain.Params, error)
	IsCoinAllowed(ctx context.Context, denom string) (bool, error)
	AllowedCoins(ctx context.Context) ([]string, error)
	// VaultConfig returns domain.ErrVaultNotFound for unknown vaults.
	VaultConfig(ctx context.Context, address string) (domain.VaultConfig, error)
	VaultConfigs(ctx context.Context) ([]domain.VaultConfig, error)
	// IsProtocolPrincipal reports whether principal is a contract the protocol talks to.
	IsProtocolPrincipal(ctx context.Context, principal string) (bool, error)
}

// InstructionExecutor applies collaborator instructions.
type InstructionExecutor interface {
	Execute(ctx context.Context, instruction domain.Instruction) error
}
