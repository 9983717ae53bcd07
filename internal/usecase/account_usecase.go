package usecase

import (
	"context"
	"time"

	errorsmod "cosmossdk.io/errors"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/infrastructure/metrics"
)

// AccountUseCase opens credit accounts and moves their ownership.
type AccountUseCase struct {
	identity   string
	txManager  TransactionManager
	minter     AccountMinter
	registry   OwnershipRegistry
	config     ConfigReader
	outboxRepo OutboxRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	identity string,
	txManager TransactionManager,
	minter AccountMinter,
	registry OwnershipRegistry,
	config ConfigReader,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *AccountUseCase {
	return &AccountUseCase{
		identity:   identity,
		txManager:  txManager,
		minter:     minter,
		registry:   registry,
		config:     config,
		outboxRepo: outboxRepo,
		auditRepo:  auditRepo,
		idGen:      idGen,
		metrics:    metrics,
	}
}

// CreateAccount mints a new credit account owned by owner.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, owner string) (string, error) {
	if err := uc.assertAllowedOwner(ctx, owner); err != nil {
		uc.audit(ctx, owner, domain.AuditActionCreate, "", err)
		return "", err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	accountID, err := uc.minter.Mint(txCtx, owner)
	if err != nil {
		err = domain.ExternalError(err, "mint account")
		uc.audit(ctx, owner, domain.AuditActionCreate, "", err)
		return "", err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   accountID,
		AggregateType: domain.AggregateTypeCreditAccount,
		EventType:     domain.EventTypeAccountCreated,
		Payload: map[string]any{
			"account_id": accountID,
			"owner":      owner,
		},
		CreatedAt: time.Now().UTC(),
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return "", err
	}

	if err := tx.Commit(txCtx); err != nil {
		return "", err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}
	uc.audit(ctx, owner, domain.AuditActionCreate, accountID, nil)
	return accountID, nil
}

// TransferAccount hands the account from its owner to another principal.
func (uc *AccountUseCase) TransferAccount(ctx context.Context, accountID, from, to string) error {
	err := uc.transfer(ctx, accountID, from, to)
	uc.audit(ctx, from, domain.AuditActionTransfer, accountID, err)
	return err
}

func (uc *AccountUseCase) transfer(ctx context.Context, accountID, from, to string) error {
	owner, err := uc.registry.OwnerOf(ctx, accountID)
	if err != nil {
		return domain.ExternalError(err, "owner of")
	}
	if owner != from {
		return errorsmod.Wrapf(domain.ErrNotTokenOwner, "account %s, caller %s", accountID, from)
	}
	if err := uc.assertAllowedOwner(ctx, to); err != nil {
		return err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.minter.Transfer(txCtx, accountID, from, to); err != nil {
		return domain.ExternalError(err, "transfer account")
	}
	return tx.Commit(txCtx)
}

// OwnerOf returns the owner of the account.
func (uc *AccountUseCase) OwnerOf(ctx context.Context, accountID string) (string, error) {
	owner, err := uc.registry.OwnerOf(ctx, accountID)
	if err != nil {
		return "", domain.ExternalError(err, "owner of")
	}
	return owner, nil
}

func (uc *AccountUseCase) assertAllowedOwner(ctx context.Context, principal string) error {
	if principal == "" {
		return errorsmod.Wrap(domain.ErrUnauthorized, "missing principal")
	}
	if principal == uc.identity {
		return errorsmod.Wrapf(domain.ErrDisallowedPrincipal, "principal %s", principal)
	}
	protocol, err := uc.config.IsProtocolPrincipal(ctx, principal)
	if err != nil {
		return err
	}
	if protocol {
		return errorsmod.Wrapf(domain.ErrDisallowedPrincipal, "principal %s", principal)
	}
	return nil
}

func (uc *AccountUseCase) audit(ctx context.Context, principal string, action domain.AuditAction, accountID string, err error) {
	if uc.auditRepo == nil {
		return
	}
	status := domain.AuditStatusSuccess
	log := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		Principal:    principal,
		Action:       string(action),
		ResourceType: domain.AggregateTypeCreditAccount,
		ResourceID:   accountID,
		CreatedAt:    time.Now().UTC(),
	}
	if err != nil {
		status = domain.AuditStatusFailure
		log.ErrorClass = string(domain.ClassOf(err))
		log.ErrorMessage = err.Error()
	}
	log.Status = string(status)
	_ = uc.auditRepo.Create(ctx, log)
	if uc.metrics != nil {
		uc.metrics.AuditLogsCreated.WithLabelValues(string(action), string(status)).Inc()
	}
}
