package usecase

import (
	"context"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/rs/zerolog"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/infrastructure/metrics"
)

// CreditManager executes user action batches against credit accounts.
type CreditManager struct {
	txManager  TransactionManager
	dispatcher *Dispatcher
	coins      *CoinLedger
	health     HealthEvaluator
	registry   OwnershipRegistry
	config     ConfigReader
	executor   InstructionExecutor
	outboxRepo OutboxRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	retrier    Retrier
}

// NewCreditManager creates a new CreditManager. auditRepo and metrics may be nil.
func NewCreditManager(
	txManager TransactionManager,
	dispatcher *Dispatcher,
	coins *CoinLedger,
	health HealthEvaluator,
	registry OwnershipRegistry,
	config ConfigReader,
	executor InstructionExecutor,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *CreditManager {
	return &CreditManager{
		txManager:  txManager,
		dispatcher: dispatcher,
		coins:      coins,
		health:     health,
		registry:   registry,
		config:     config,
		executor:   executor,
		outboxRepo: outboxRepo,
		auditRepo:  auditRepo,
		idGen:      idGen,
		metrics:    metrics,
		logger:     logger,
	}
}

// WithRetrier makes batches re-run from scratch when storage reports a
// transient conflict.
func (m *CreditManager) WithRetrier(r Retrier) *CreditManager {
	m.retrier = r
	return m
}

func (m *CreditManager) attempt(ctx context.Context, fn func() (*BatchResult, error)) (*BatchResult, error) {
	if m.retrier == nil {
		return fn()
	}
	var result *BatchResult
	err := m.retrier.Retry(ctx, func() error {
		var err error
		result, err = fn()
		return err
	})
	return result, err
}

// ExecuteInput represents one user batch.
type ExecuteInput struct {
	Caller    string
	AccountID string
	Actions   []domain.Action
	// Funds are the coins attached to the batch; deposits must consume all of them.
	Funds     []domain.Coin
	RequestID string
}

// BatchResult is the outcome of a committed batch.
type BatchResult struct {
	BatchID      string               `json:"batch_id"`
	AccountID    string               `json:"account_id"`
	Steps        int                  `json:"steps"`
	Instructions []domain.Instruction `json:"instructions"`
	Events       []domain.Event       `json:"events"`
}

// Execute runs a batch atomically. Deposits apply as the actions are read;
// every other action is queued and run after the batch is read. Any failure
// rolls back the whole batch.
func (m *CreditManager) Execute(ctx context.Context, input ExecuteInput) (*BatchResult, error) {
	start := time.Now()
	batchID := m.idGen.Generate()

	result, err := m.attempt(ctx, func() (*BatchResult, error) {
		return m.execute(ctx, batchID, input)
	})
	m.finish(ctx, batchID, domain.AuditActionExecute, input.Caller, input.AccountID, input.RequestID,
		domain.JSON{"actions": input.Actions, "funds": input.Funds}, result, err, start)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (m *CreditManager) execute(ctx context.Context, batchID string, input ExecuteInput) (*BatchResult, error) {
	funds, err := domain.NewCoins(input.Funds...)
	if err != nil {
		return nil, err
	}
	if len(input.Actions) > MaxActionsPerBatch {
		return nil, errorsmod.Wrapf(domain.ErrInvalidAction,
			"batch of %d actions, maximum %d", len(input.Actions), MaxActionsPerBatch)
	}
	if err := m.assertCanOperate(ctx, input.Caller, input.AccountID); err != nil {
		return nil, err
	}

	// Add transaction timeout
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := m.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if !funds.IsEmpty() {
		receive := domain.BankReceive{Sender: input.Caller, Coins: funds.List()}
		if err := m.executor.Execute(txCtx, receive); err != nil {
			return nil, domain.ExternalError(err, receive.Kind())
		}
	}

	prev, err := m.health.Health(txCtx, tx, input.AccountID)
	if err != nil {
		return nil, domain.ExternalError(err, "health")
	}

	queue := make([]domain.Message, 0, len(input.Actions)+2)
	for i, action := range input.Actions {
		if deposit, ok := action.(domain.DepositAction); ok {
			if err := m.deposit(txCtx, tx, input.AccountID, &funds, deposit.Coin); err != nil {
				return nil, &domain.StepError{Index: i, Kind: string(domain.ActionDeposit), Err: err}
			}
			continue
		}
		steps, err := domain.ToSteps(input.AccountID, input.Caller, action)
		if err != nil {
			return nil, &domain.StepError{Index: i, Kind: actionKind(action), Err: err}
		}
		for _, s := range steps {
			queue = append(queue, s)
		}
	}
	if !funds.IsEmpty() {
		return nil, errorsmod.Wrapf(domain.ErrExtraFundsReceived, "unused %s", funds)
	}

	queue = append(queue,
		domain.AssertOneVaultPositionOnlyStep{AccountID: input.AccountID},
		domain.AssertHealthNonRegressionStep{AccountID: input.AccountID, Previous: prev},
	)

	result, err := m.run(txCtx, tx, m.dispatcher.Identity(), queue)
	if err != nil {
		return nil, err
	}
	result.BatchID = batchID
	result.AccountID = input.AccountID

	if err := m.writeEvents(txCtx, tx, input.Caller, result); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}
	return result, nil
}

// ExecuteStep runs a single privileged step and its children in their own
// transaction. Only the dispatcher identity may call it.
func (m *CreditManager) ExecuteStep(ctx context.Context, caller string, step domain.Step) (*BatchResult, error) {
	start := time.Now()
	batchID := m.idGen.Generate()

	result, err := m.attempt(ctx, func() (*BatchResult, error) {
		return m.executeStep(ctx, batchID, caller, step)
	})
	m.finish(ctx, batchID, domain.AuditActionExecuteStep, caller, "", "",
		domain.JSON{"step": step}, result, err, start)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (m *CreditManager) executeStep(ctx context.Context, batchID, caller string, step domain.Step) (*BatchResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := m.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	result, err := m.run(txCtx, tx, caller, []domain.Message{step})
	if err != nil {
		return nil, err
	}
	result.BatchID = batchID

	if err := m.writeEvents(txCtx, tx, caller, result); err != nil {
		return nil, err
	}
	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}
	return result, nil
}

// assertCanOperate requires caller to own the account and to be an ordinary
// principal.
func (m *CreditManager) assertCanOperate(ctx context.Context, caller, accountID string) error {
	if caller == m.dispatcher.Identity() {
		return errorsmod.Wrapf(domain.ErrDisallowedPrincipal, "caller %s", caller)
	}
	protocol, err := m.config.IsProtocolPrincipal(ctx, caller)
	if err != nil {
		return err
	}
	if protocol {
		return errorsmod.Wrapf(domain.ErrDisallowedPrincipal, "caller %s", caller)
	}

	owner, err := m.registry.OwnerOf(ctx, accountID)
	if err != nil {
		return domain.ExternalError(err, "owner of")
	}
	if owner != caller {
		return errorsmod.Wrapf(domain.ErrNotTokenOwner, "account %s, caller %s", accountID, caller)
	}
	return nil
}

func (m *CreditManager) deposit(ctx context.Context, tx Transaction, accountID string, funds *domain.Coins, coin domain.Coin) error {
	if err := coin.Validate(); err != nil {
		return err
	}
	if err := assertCoinAllowed(ctx, m.config, coin.Denom); err != nil {
		return err
	}
	if err := funds.Sub(coin); err != nil {
		return err
	}
	return m.coins.Increment(ctx, tx, accountID, coin)
}

// run drains the queue in order. Children of a step run before the rest of
// the queue.
func (m *CreditManager) run(ctx context.Context, tx Transaction, caller string, queue []domain.Message) (*BatchResult, error) {
	result := &BatchResult{}
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]

		index := result.Steps
		if index >= MaxQueuedMessages {
			return nil, &domain.StepError{
				Index: index,
				Kind:  msg.Kind(),
				Err:   errorsmod.Wrapf(domain.ErrStepLimitExceeded, "maximum %d", MaxQueuedMessages),
			}
		}
		result.Steps++

		switch msg := msg.(type) {
		case domain.Step:
			res, err := m.dispatcher.Dispatch(ctx, tx, caller, msg)
			if err != nil {
				return nil, &domain.StepError{Index: index, Kind: msg.Kind(), Err: err}
			}
			result.Events = append(result.Events, res.Events...)
			if len(res.Messages) > 0 {
				next := make([]domain.Message, 0, len(res.Messages)+len(queue))
				next = append(next, res.Messages...)
				queue = append(next, queue...)
			}
		case domain.Instruction:
			if err := m.executor.Execute(ctx, msg); err != nil {
				return nil, &domain.StepError{Index: index, Kind: msg.Kind(), Err: domain.ExternalError(err, msg.Kind())}
			}
			result.Instructions = append(result.Instructions, msg)
		default:
			return nil, &domain.StepError{
				Index: index,
				Kind:  msg.Kind(),
				Err:   errorsmod.Wrapf(domain.ErrInvalidAction, "unsupported message %q", msg.Kind()),
			}
		}
	}
	return result, nil
}

func (m *CreditManager) writeEvents(ctx context.Context, tx Transaction, caller string, result *BatchResult) error {
	now := time.Now().UTC()

	// Emit batch executed event
	event := &domain.OutboxEvent{
		ID:            m.idGen.Generate(),
		AggregateID:   result.AccountID,
		AggregateType: domain.AggregateTypeCreditAccount,
		EventType:     domain.EventTypeBatchExecuted,
		Payload: domain.MarshalState(domain.BatchExecutedEvent{
			BatchID:   result.BatchID,
			AccountID: result.AccountID,
			Caller:    caller,
			Steps:     result.Steps,
			Events:    result.Events,
		}),
		CreatedAt: now,
		Published: false,
	}
	if err := m.outboxRepo.Create(ctx, tx, event); err != nil {
		return err
	}

	for _, e := range result.Events {
		if e.Type != EventLiquidateCoin && e.Type != EventLiquidateVault {
			continue
		}
		liquidated := &domain.OutboxEvent{
			ID:            m.idGen.Generate(),
			AggregateID:   e.Attributes["liquidatee"],
			AggregateType: domain.AggregateTypeCreditAccount,
			EventType:     domain.EventTypeAccountLiquidated,
			Payload: domain.MarshalState(domain.AccountLiquidatedEvent{
				BatchID:    result.BatchID,
				Liquidator: e.Attributes["liquidator"],
				Liquidatee: e.Attributes["liquidatee"],
				DebtRepaid: e.Attributes["debt_repaid"],
				Seized:     e.Attributes["seized"],
			}),
			CreatedAt: now,
		}
		if err := m.outboxRepo.Create(ctx, tx, liquidated); err != nil {
			return err
		}
	}
	return nil
}

// finish records metrics, logs and the audit trail of a batch, whether it
// committed or not.
func (m *CreditManager) finish(
	ctx context.Context,
	batchID string,
	action domain.AuditAction,
	caller, accountID, requestID string,
	request domain.JSON,
	result *BatchResult,
	err error,
	start time.Time,
) {
	status := domain.AuditStatusSuccess
	class := ""
	if err != nil {
		status = domain.AuditStatusFailure
		class = string(domain.ClassOf(err))
	}

	if m.metrics != nil {
		if err != nil {
			m.metrics.BatchErrors.WithLabelValues(class).Inc()
		} else {
			m.metrics.BatchesExecuted.Inc()
			m.metrics.BatchSteps.Observe(float64(result.Steps))
		}
		m.metrics.BatchDuration.Observe(time.Since(start).Seconds())
	}

	if err != nil {
		m.logger.Info().
			Str("batch_id", batchID).
			Str("account_id", accountID).
			Str("caller", caller).
			Str("class", class).
			Err(err).
			Msg("batch rejected")
	} else {
		m.logger.Debug().
			Str("batch_id", batchID).
			Str("account_id", accountID).
			Str("caller", caller).
			Int("steps", result.Steps).
			Int("instructions", len(result.Instructions)).
			Dur("duration", time.Since(start)).
			Msg("batch executed")
	}

	// Audit logging
	if m.auditRepo != nil {
		auditLog := &domain.AuditLog{
			ID:           m.idGen.Generate(),
			Principal:    caller,
			Action:       string(action),
			ResourceType: domain.AggregateTypeCreditAccount,
			ResourceID:   accountID,
			RequestID:    requestID,
			Request:      request,
			Status:       string(status),
			ErrorClass:   class,
			CreatedAt:    time.Now().UTC(),
		}
		if err != nil {
			auditLog.ErrorMessage = err.Error()
		}
		_ = m.auditRepo.Create(ctx, auditLog)
		if m.metrics != nil {
			m.metrics.AuditLogsCreated.WithLabelValues(string(action), string(status)).Inc()
		}
	}
}

func actionKind(action domain.Action) string {
	if action == nil {
		return "nil"
	}
	return string(action.ActionKind())
}
