package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Batch metrics
	BatchesExecuted prometheus.Counter
	BatchDuration   prometheus.Histogram
	BatchSteps      prometheus.Histogram
	BatchErrors     *prometheus.CounterVec
	StepsExecuted   *prometheus.CounterVec

	// Ledger metrics
	DebtSharesMinted *prometheus.CounterVec
	DebtSharesBurned *prometheus.CounterVec
	UnlockRequests   prometheus.Counter
	Liquidations     *prometheus.CounterVec

	// Account metrics
	AccountsCreated prometheus.Counter

	// Reconciliation metrics
	ReconciliationRuns     *prometheus.CounterVec
	ReconciliationFailures prometheus.Counter

	// Outbox metrics
	EventsPublished prometheus.Counter
	PublishErrors   prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates all metrics on the default Prometheus registry
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates all metrics on reg
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Batch metrics
		BatchesExecuted: factory.NewCounter(prometheus.CounterOpts{
			Name: "creditledger_batches_executed_total",
			Help: "Total number of action batches committed",
		}),
		BatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "creditledger_batch_duration_seconds",
			Help:    "Duration of action batch execution",
			Buckets: prometheus.DefBuckets,
		}),
		BatchSteps: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "creditledger_batch_steps",
			Help:    "Number of queued messages executed per batch",
			Buckets: []float64{2, 4, 8, 16, 32, 64},
		}),
		BatchErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditledger_batch_errors_total",
				Help: "Total number of rejected batches by error class",
			},
			[]string{"class"},
		),
		StepsExecuted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditledger_steps_executed_total",
				Help: "Total number of deferred steps executed by kind",
			},
			[]string{"kind"},
		),

		// Ledger metrics
		DebtSharesMinted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditledger_debt_shares_minted_total",
				Help: "Debt shares minted by denom",
			},
			[]string{"denom"},
		),
		DebtSharesBurned: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditledger_debt_shares_burned_total",
				Help: "Debt shares burned by denom",
			},
			[]string{"denom"},
		),
		UnlockRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "creditledger_vault_unlock_requests_total",
			Help: "Total number of vault unlocking lots created",
		}),
		Liquidations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditledger_liquidations_total",
				Help: "Total number of liquidations by kind",
			},
			[]string{"kind"},
		),

		// Account metrics
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "creditledger_accounts_created_total",
			Help: "Total number of credit accounts opened",
		}),

		// Reconciliation metrics
		ReconciliationRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditledger_reconciliation_runs_total",
				Help: "Total number of ledger reconciliation runs by result",
			},
			[]string{"result"},
		),
		ReconciliationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "creditledger_reconciliation_mismatches_total",
			Help: "Total number of ledger mismatches found",
		}),

		// Outbox metrics
		EventsPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "creditledger_events_published_total",
			Help: "Total number of outbox events published",
		}),
		PublishErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "creditledger_event_publish_errors_total",
			Help: "Total number of outbox publish failures",
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "creditledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Audit metrics
		AuditLogsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditledger_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
