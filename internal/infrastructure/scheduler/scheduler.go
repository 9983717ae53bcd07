// Package scheduler runs the periodic ledger maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/iho/creditledger/internal/usecase"
)

// Reconciler audits the ledger invariants.
type Reconciler interface {
	GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// OutboxPruner drops events that have already been relayed.
type OutboxPruner interface {
	DeletePublished(ctx context.Context, before time.Time) (int64, error)
}

// Config holds the job schedules. Specs use the six-field cron format with
// seconds. An empty spec disables the job.
type Config struct {
	ReconciliationSpec string
	OutboxPruneSpec    string
	OutboxRetention    time.Duration
	JobTimeout         time.Duration
}

// Scheduler manages the cron jobs.
type Scheduler struct {
	cron       *cron.Cron
	reconciler Reconciler
	pruner     OutboxPruner
	logger     zerolog.Logger
	cfg        Config
}

// New creates a scheduler. pruner may be nil.
func New(cfg Config, reconciler Reconciler, pruner OutboxPruner, logger zerolog.Logger) *Scheduler {
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = time.Minute
	}
	logger = logger.With().Str("component", "scheduler").Logger()
	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		reconciler: reconciler,
		pruner:     pruner,
		logger:     logger,
		cfg:        cfg,
	}
}

// Register adds the configured jobs.
func (s *Scheduler) Register() error {
	if s.cfg.ReconciliationSpec != "" && s.reconciler != nil {
		if _, err := s.cron.AddFunc(s.cfg.ReconciliationSpec, s.withTimeout(s.Reconcile)); err != nil {
			return fmt.Errorf("register reconciliation job: %w", err)
		}
	}
	if s.cfg.OutboxPruneSpec != "" && s.pruner != nil && s.cfg.OutboxRetention > 0 {
		if _, err := s.cron.AddFunc(s.cfg.OutboxPruneSpec, s.withTimeout(s.PruneOutbox)); err != nil {
			return fmt.Errorf("register outbox prune job: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler started")
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
	s.logger.Info().Msg("scheduler stopped")
}

func (s *Scheduler) withTimeout(job func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.JobTimeout)
		defer cancel()
		_ = job(ctx)
	}
}

// Reconcile runs one ledger reconciliation and logs every mismatch.
func (s *Scheduler) Reconcile(ctx context.Context) error {
	report, err := s.reconciler.GenerateReconciliationReport(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("reconciliation failed")
		return err
	}

	if report.LedgerConsistent {
		s.logger.Info().
			Int("denoms", report.DenomsChecked).
			Int("vaults", report.VaultsChecked).
			Msg("ledger reconciled")
		return nil
	}

	for _, d := range report.ShareDiscrepancies {
		s.logger.Error().
			Str("denom", d.Denom).
			Str("recorded", d.Recorded.String()).
			Str("calculated", d.Calculated.String()).
			Msg("debt share total mismatch")
	}
	for _, d := range report.VaultDiscrepancies {
		s.logger.Error().
			Str("vault", d.Vault).
			Str("accounts", d.Accounts.String()).
			Str("held", d.Held.String()).
			Msg("vault holdings below account positions")
	}
	return nil
}

// PruneOutbox deletes published events older than the retention.
func (s *Scheduler) PruneOutbox(ctx context.Context) error {
	removed, err := s.pruner.DeletePublished(ctx, time.Now().UTC().Add(-s.cfg.OutboxRetention))
	if err != nil {
		s.logger.Error().Err(err).Msg("outbox prune failed")
		return err
	}
	if removed > 0 {
		s.logger.Info().Int64("removed", removed).Msg("outbox pruned")
	}
	return nil
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
