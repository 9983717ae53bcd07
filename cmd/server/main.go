package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/creditledger/internal/adapter/http"
	"github.com/iho/creditledger/internal/adapter/http/handler"
	"github.com/iho/creditledger/internal/adapter/http/middleware"
	"github.com/iho/creditledger/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/creditledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/creditledger/internal/adapter/repository/redis"
	"github.com/iho/creditledger/internal/adapter/sandbox"
	"github.com/iho/creditledger/internal/infrastructure/auth"
	"github.com/iho/creditledger/internal/infrastructure/config"
	"github.com/iho/creditledger/internal/infrastructure/eventpublisher"
	"github.com/iho/creditledger/internal/infrastructure/logger"
	"github.com/iho/creditledger/internal/infrastructure/metrics"
	"github.com/iho/creditledger/internal/infrastructure/postgres"
	"github.com/iho/creditledger/internal/infrastructure/redis"
	"github.com/iho/creditledger/internal/infrastructure/scheduler"
	"github.com/iho/creditledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := run(cfg, log.Logger); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load protocol parameters and seed the external world
	file, err := config.LoadProtocolFile(cfg.ProtocolFile)
	if err != nil {
		return fmt.Errorf("load protocol file: %w", err)
	}
	protocol, err := config.NewProtocol(file)
	if err != nil {
		return fmt.Errorf("build protocol: %w", err)
	}
	world, err := sandbox.FromProtocolFile(cfg.DispatcherIdentity, file, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("seed world: %w", err)
	}
	pool := world.Pool()

	m := metrics.New()

	store, err := openStorage(ctx, cfg, world, logger)
	if err != nil {
		return err
	}
	defer store.close()

	// Initialize use cases
	coins := usecase.NewCoinLedger(cfg.DispatcherIdentity, store.coins, world)
	debts := usecase.NewDebtLedger(store.debts, coins, pool, protocol, m)
	vaults := usecase.NewVaultLedger(cfg.DispatcherIdentity, store.positions, coins, world, world, protocol, m)
	health := sandbox.NewHealthEvaluator(store.coins, store.debts, store.positions, pool, world, world, protocol, protocol)
	liquidation := usecase.NewLiquidationEngine(coins, debts, vaults, health, world, protocol, m)
	dispatcher := usecase.NewDispatcher(cfg.DispatcherIdentity, coins, debts, vaults, liquidation, health, m)

	creditUC := usecase.NewCreditManager(store.txManager, dispatcher, coins, health, world, protocol,
		world.Executor(), store.outbox, store.audit, store.idGen, m, logger)
	if store.retrier != nil {
		creditUC = creditUC.WithRetrier(store.retrier)
	}
	accountUC := usecase.NewAccountUseCase(cfg.DispatcherIdentity, store.txManager, world, world, protocol,
		store.outbox, store.audit, store.idGen, m)
	queryUC := usecase.NewQueryUseCase(cfg.DispatcherIdentity, store.coins, store.debts, store.positions,
		debts, world, world, protocol, health)
	reconUC := usecase.NewReconciliationUseCase(cfg.DispatcherIdentity, store.debts, store.positions, world, m)

	checks := store.checks

	// Redis backs idempotency keys and a shared rate limit when configured
	var (
		idempotencyStore usecase.IdempotencyStore
		limiter          middleware.Limiter
	)
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL, PoolSize: cfg.RedisPoolSize})
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
		logger.Info().Msg("connected to redis")

		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		limiter = redisRepo.NewRateLimitStore(redisClient, rateLimitQuota(cfg.RateLimitRPS, cfg.RateLimitWindow), cfg.RateLimitWindow)
		checks = append(checks, handler.Check{Name: "redis", Probe: redis.Probe(redisClient)})
	} else {
		local := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		go cleanupLimiters(ctx, local, cfg.RateLimitWindow)
		limiter = local
	}

	// Outbox relay
	publisher, closePublisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	relay := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: store.outbox,
		Publisher:  publisher,
		Metrics:    m,
		Logger:     logger,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
	})
	go func() {
		if err := relay.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("outbox publisher stopped")
		}
	}()

	// Background jobs
	jobs := scheduler.New(scheduler.Config{
		ReconciliationSpec: cfg.ReconciliationCron,
		OutboxPruneSpec:    cfg.OutboxPruneCron,
		OutboxRetention:    cfg.OutboxRetention,
	}, reconUC, store.outbox, logger)
	if err := jobs.Register(); err != nil {
		return fmt.Errorf("register jobs: %w", err)
	}
	jobs.Start()

	// Initialize handlers
	routerCfg := httpAdapter.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC),
		BatchHandler:       handler.NewBatchHandler(creditUC),
		QueryHandler:       handler.NewQueryHandler(queryUC),
		AdminHandler:       handler.NewAdminHandler(reconUC, store.audit),
		HealthHandler:      handler.NewHealthHandler(checks...),
		ReservedPrincipals: reservedPrincipals(cfg.DispatcherIdentity, pool.Address()),
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		RateLimiter:        limiter,
		Metrics:            m,
		Logger:             logger,
	}
	if cfg.AuthEnabled {
		if cfg.JWTSecret == "" {
			return errors.New("AUTH_ENABLED requires JWT_SECRET")
		}
		jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		routerCfg.Verifier = jwtManager
		routerCfg.AuthHandler = handler.NewAuthHandler(jwtManager)
	} else {
		logger.Warn().Msg("authentication disabled, trusting principal headers")
	}

	// Create server
	server := &http.Server{
		Addr:         listenAddr(cfg.HTTPPort),
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.StorageDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			return err
		}
	}

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	jobs.Stop(shutdownCtx)
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// outboxStore is an outbox that can also drop old published events.
type outboxStore interface {
	usecase.OutboxRepository
	scheduler.OutboxPruner
}

// auditStore records and lists audit logs.
type auditStore interface {
	usecase.AuditRepository
	handler.AuditLister
}

type storage struct {
	txManager usecase.TransactionManager
	coins     usecase.CoinBalanceRepository
	debts     usecase.DebtShareRepository
	positions usecase.VaultPositionRepository
	outbox    outboxStore
	audit     auditStore
	idGen     usecase.IDGenerator
	retrier   usecase.Retrier
	checks    []handler.Check
	close     func()
}

// openStorage builds the repositories for the configured driver. The world
// joins every transaction so a failed batch also rolls back its external
// effects.
func openStorage(ctx context.Context, cfg *config.Config, world *sandbox.World, logger zerolog.Logger) (*storage, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		store := memory.NewStore()
		store.Join(world)
		logger.Warn().Msg("using in-memory storage, state is lost on restart")
		return &storage{
			txManager: store.TxManager(),
			coins:     store.CoinBalances(),
			debts:     store.DebtShares(),
			positions: store.VaultPositions(),
			outbox:    store.Outbox(),
			audit:     store.Audit(),
			idGen:     postgresRepo.NewULIDGenerator(),
			close:     func() {},
		}, nil

	case config.DriverPostgres:
		if cfg.MigrateOnStart {
			if err := postgres.RunMigrations(cfg.DatabaseURL, logger); err != nil {
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}

		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		logger.Info().Msg("connected to postgres")

		txManager := postgresRepo.NewTxManager(pool)
		txManager.Join(world)
		return &storage{
			txManager: txManager,
			coins:     postgresRepo.NewCoinBalanceRepository(pool),
			debts:     postgresRepo.NewDebtShareRepository(pool),
			positions: postgresRepo.NewVaultPositionRepository(pool),
			outbox:    postgresRepo.NewOutboxRepository(pool),
			audit:     postgresRepo.NewAuditRepository(pool),
			idGen:     postgresRepo.NewULIDGenerator(),
			retrier:   postgresRepo.NewRetrier(logger),
			checks:    []handler.Check{{Name: "postgres", Probe: pool.Ping}},
			close:     pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// newPublisher relays events to NATS when configured and to the log otherwise.
func newPublisher(cfg *config.Config, logger zerolog.Logger) (eventpublisher.Publisher, func(), error) {
	if cfg.NATSURL == "" {
		return eventpublisher.NewLogPublisher(logger), func() {}, nil
	}
	conn, err := eventpublisher.Connect(cfg.NATSURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to nats: %w", err)
	}
	logger.Info().Str("subject", cfg.NATSSubject).Msg("connected to nats")
	return eventpublisher.NewNATSPublisher(conn, cfg.NATSSubject), func() { _ = conn.Drain() }, nil
}

func cleanupLimiters(ctx context.Context, limiter *middleware.RateLimiter, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.CleanupLimiters()
		}
	}
}

// rateLimitQuota converts a per-second rate into a request count per window.
func rateLimitQuota(rps float64, window time.Duration) int {
	quota := int(rps * window.Seconds())
	if quota < 1 {
		return 1
	}
	return quota
}

// reservedPrincipals lists identities no external caller may act as.
func reservedPrincipals(identities ...string) []string {
	reserved := make([]string, 0, len(identities))
	seen := make(map[string]bool, len(identities))
	for _, id := range identities {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		reserved = append(reserved, id)
	}
	return reserved
}

func listenAddr(port string) string {
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = "8080"
	}
	return ":" + port
}
