package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/creditledger/internal/adapter/http/handler"
	"github.com/iho/creditledger/internal/adapter/http/middleware"
	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/infrastructure/metrics"
	"github.com/iho/creditledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler *handler.AccountHandler
	BatchHandler   *handler.BatchHandler
	QueryHandler   *handler.QueryHandler
	AdminHandler   *handler.AdminHandler
	HealthHandler  *handler.HealthHandler
	// AuthHandler is only mounted when Verifier is set.
	AuthHandler *handler.AuthHandler

	// Verifier enables bearer token auth. When nil, the dev principal headers
	// are trusted.
	Verifier middleware.TokenVerifier
	// ReservedPrincipals may never authenticate, such as the dispatcher identity.
	ReservedPrincipals []string

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      middleware.Limiter
	Metrics          *metrics.Metrics
	// MetricsHandler serves /metrics. Defaults to the global Prometheus registry.
	MetricsHandler http.Handler
	Logger         zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Handle("/metrics", metricsHandler)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Verifier != nil {
			r.Use(middleware.AuthMiddleware(cfg.Verifier, cfg.ReservedPrincipals...))
		} else {
			r.Use(middleware.HeaderAuth(cfg.ReservedPrincipals...))
		}
		if cfg.RateLimiter != nil {
			r.Use(middleware.RateLimit(cfg.RateLimiter))
		}
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Post("/{id}/transfer", cfg.AccountHandler.Transfer)
			r.Post("/{id}/actions", cfg.BatchHandler.Execute)
			r.Get("/{id}/positions", cfg.QueryHandler.Positions)
		})

		r.Post("/callbacks", cfg.BatchHandler.Callback)

		// Projections
		r.Get("/coins", cfg.QueryHandler.CoinBalances)
		r.Get("/debts", cfg.QueryHandler.DebtShares)
		r.Get("/debts/totals", cfg.QueryHandler.TotalDebtShares)
		r.Get("/vault-positions", cfg.QueryHandler.VaultPositions)
		r.Get("/vault-positions/totals", cfg.QueryHandler.TotalVaultCoinBalances)
		r.Get("/allowed-coins", cfg.QueryHandler.AllowedCoins)
		r.Get("/vaults", cfg.QueryHandler.VaultConfigs)

		if cfg.AuthHandler != nil && cfg.Verifier != nil {
			r.Get("/auth/me", cfg.AuthHandler.Me)
		}

		// Operator endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleAdmin))
			if cfg.AdminHandler != nil {
				r.Get("/admin/reconciliation", cfg.AdminHandler.Reconcile)
				r.Get("/admin/audit", cfg.AdminHandler.AuditLogs)
			}
			if cfg.AuthHandler != nil && cfg.Verifier != nil {
				r.Post("/auth/token", cfg.AuthHandler.IssueToken)
			}
		})
	})

	return r
}
