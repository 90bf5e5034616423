package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/voyago/tripledger/internal/adapter/http"
	"github.com/voyago/tripledger/internal/adapter/http/handler"
	"github.com/voyago/tripledger/internal/adapter/http/middleware"
	postgresRepo "github.com/voyago/tripledger/internal/adapter/repository/postgres"
	redisRepo "github.com/voyago/tripledger/internal/adapter/repository/redis"
	"github.com/voyago/tripledger/internal/infrastructure/auth"
	"github.com/voyago/tripledger/internal/infrastructure/config"
	"github.com/voyago/tripledger/internal/infrastructure/eventpublisher"
	"github.com/voyago/tripledger/internal/infrastructure/logger"
	"github.com/voyago/tripledger/internal/infrastructure/metrics"
	"github.com/voyago/tripledger/internal/infrastructure/postgres"
	"github.com/voyago/tripledger/internal/infrastructure/redis"
	"github.com/voyago/tripledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	ctx := context.Background()

	// Run migrations before serving traffic
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	tripRepo := postgresRepo.NewTripRepository(pool)
	memberRepo := postgresRepo.NewMemberRepository(pool)
	expenseRepo := postgresRepo.NewExpenseRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	roleCache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	// Initialize use cases
	authorizer := usecase.NewMemberAuthorizer(memberRepo, roleCache, cfg.RoleCacheTTL)
	expenseUC := usecase.NewExpenseUseCase(txManager, tripRepo, memberRepo, expenseRepo, outboxRepo, auditRepo, authorizer, idGen, retrier)
	settlementUC := usecase.NewSettlementUseCase(txManager, tripRepo, memberRepo, expenseRepo, outboxRepo, auditRepo, authorizer, idGen, retrier)
	balanceUC := usecase.NewBalanceUseCase(tripRepo, expenseRepo, authorizer)
	reportUC := usecase.NewReportUseCase(tripRepo, expenseRepo, authorizer)
	ledgerUC := usecase.NewLedgerUseCase(tripRepo, ledgerRepo, authorizer)
	memberUC := usecase.NewMemberUseCase(memberRepo, authorizer)
	auditUC := usecase.NewAuditUseCase(auditRepo, authorizer)

	// Initialize handlers
	expenseHandler := handler.NewExpenseHandler(expenseUC, m)
	balanceHandler := handler.NewBalanceHandler(balanceUC, m)
	settlementHandler := handler.NewSettlementHandler(settlementUC, m)
	reportHandler := handler.NewReportHandler(reportUC)
	memberHandler := handler.NewMemberHandler(memberUC)
	ledgerHandler := handler.NewLedgerHandler(ledgerUC)
	auditHandler := handler.NewAuditHandler(auditUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	var jwtManager *auth.JWTManager
	var authHandler *handler.AuthHandler
	if cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		authHandler = handler.NewAuthHandler(jwtManager)
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimitEnabled {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		ExpenseHandler:    expenseHandler,
		BalanceHandler:    balanceHandler,
		SettlementHandler: settlementHandler,
		ReportHandler:     reportHandler,
		MemberHandler:     memberHandler,
		LedgerHandler:     ledgerHandler,
		AuditHandler:      auditHandler,
		AuthHandler:       authHandler,
		HealthHandler:     healthHandler,
		IdempotencyStore:  idempotencyStore,
		JWTManager:        jwtManager,
		AuthEnabled:       cfg.AuthEnabled && jwtManager != nil,
		RateLimiter:       rateLimiter,
		Logger:            log.Logger,
	})

	// Start the outbox publisher
	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(nil),
		Metrics:    m,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
	})
	go func() {
		if err := publisher.Start(publisherCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	stopPublisher()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
