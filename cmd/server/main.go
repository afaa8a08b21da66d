package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpAdapter "github.com/fiscalhq/ledger/internal/adapter/http"
	"github.com/fiscalhq/ledger/internal/adapter/http/handler"
	"github.com/fiscalhq/ledger/internal/adapter/http/middleware"
	postgresRepo "github.com/fiscalhq/ledger/internal/adapter/repository/postgres"
	redisRepo "github.com/fiscalhq/ledger/internal/adapter/repository/redis"
	"github.com/fiscalhq/ledger/internal/infrastructure/config"
	"github.com/fiscalhq/ledger/internal/infrastructure/logger"
	"github.com/fiscalhq/ledger/internal/infrastructure/metrics"
	"github.com/fiscalhq/ledger/internal/infrastructure/postgres"
	"github.com/fiscalhq/ledger/internal/infrastructure/redis"
	"github.com/fiscalhq/ledger/internal/infrastructure/scheduler"
	"github.com/fiscalhq/ledger/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(log, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Metrics registry
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	collectiveRepo := postgresRepo.NewCollectiveRepository(pool)
	txRepo := postgresRepo.NewTransactionRepository(pool)
	categoryRepo := postgresRepo.NewCategoryRepository(pool)
	ruleRepo := postgresRepo.NewRuleRepository(pool)
	orderRepo := postgresRepo.NewOrderRepository(pool)
	fxRepo := postgresRepo.NewFxRateRepository(pool)
	retrier := postgresRepo.NewRetrier(log)
	idGen := postgresRepo.NewULIDGenerator()

	fxCache := redisRepo.NewFxRateCache(redisClient, cfg.FxRateCacheTTL)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Use cases
	fxService := usecase.NewFxService(fxRepo, fxCache, log)
	reporter := logger.NewReporter(log)

	carryforwardUC := usecase.NewCarryforwardUseCase(txManager, collectiveRepo, txRepo, fxService, idGen, retrier, log)
	categorizationUC := usecase.NewCategorizationUseCase(collectiveRepo, orderRepo, ruleRepo, categoryRepo, collectiveRepo, reporter, idGen)
	balanceUC := usecase.NewBalanceUseCase(txRepo)
	ledgerUC := usecase.NewLedgerUseCase(txRepo)

	// Handlers
	carryforwardHandler := handler.NewCarryforwardHandler(carryforwardUC, m)
	balanceHandler := handler.NewBalanceHandler(balanceUC)
	categoryHandler := handler.NewCategoryHandler(categorizationUC, m)
	orderHandler := handler.NewOrderHandler(categorizationUC, m)
	ledgerHandler := handler.NewLedgerHandler(ledgerUC, txRepo)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		CarryforwardHandler: carryforwardHandler,
		BalanceHandler:      balanceHandler,
		CategoryHandler:     categoryHandler,
		OrderHandler:        orderHandler,
		LedgerHandler:       ledgerHandler,
		HealthHandler:       healthHandler,
		Logging:             middleware.NewLoggingMiddleware(log),
		Recovery:            middleware.NewRecoveryMiddleware(log),
		Metrics:             middleware.NewMetricsMiddleware(m),
		MetricsHandler:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Idempotency:         middleware.NewIdempotencyMiddleware(idempotencyStore, cfg.IdempotencyTTL),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	schedulerCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()
	if cfg.CarryforwardScheduleEnabled {
		sched := scheduler.New(scheduler.Config{
			Runner:   carryforwardUC,
			Logger:   log,
			Interval: cfg.CarryforwardScheduleInterval,
		})
		go func() {
			if err := sched.Start(schedulerCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("scheduler stopped")
			}
		}()
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
