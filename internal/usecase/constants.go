package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration of one batch transaction
	DefaultTransactionTimeout = 10 * time.Second

	// MaxActionsPerBatch bounds the number of actions in a single batch
	MaxActionsPerBatch = 32

	// MaxQueuedMessages bounds the steps and instructions one batch may run
	MaxQueuedMessages = 512

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)
