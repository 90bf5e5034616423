package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/voyago/tripledger/internal/adapter/http/handler"
	"github.com/voyago/tripledger/internal/adapter/http/middleware"
	"github.com/voyago/tripledger/internal/infrastructure/auth"
	"github.com/voyago/tripledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	ExpenseHandler    *handler.ExpenseHandler
	BalanceHandler    *handler.BalanceHandler
	SettlementHandler *handler.SettlementHandler
	ReportHandler     *handler.ReportHandler
	MemberHandler     *handler.MemberHandler
	LedgerHandler     *handler.LedgerHandler
	AuditHandler      *handler.AuditHandler
	AuthHandler       *handler.AuthHandler
	HealthHandler     *handler.HealthHandler
	IdempotencyStore  usecase.IdempotencyStore
	JWTManager        *auth.JWTManager
	AuthEnabled       bool
	RateLimiter       *middleware.RateLimiter
	Logger            zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and observability endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.AuthHandler != nil {
			r.Post("/auth/token", cfg.AuthHandler.Token)
		}

		r.Group(func(r chi.Router) {
			// Actor resolution: bearer tokens when auth is enabled,
			// the gateway-asserted member header otherwise.
			if cfg.AuthEnabled {
				r.Use(middleware.AuthMiddleware(cfg.JWTManager))
			} else {
				r.Use(middleware.HeaderActor)
			}

			if cfg.IdempotencyStore != nil {
				idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
				r.Use(idempotencyMiddleware.Wrap)
			}

			if cfg.AuthHandler != nil {
				r.Get("/auth/whoami", cfg.AuthHandler.Whoami)
			}

			r.Route("/trips/{tripID}", func(r chi.Router) {
				r.Get("/members", cfg.MemberHandler.List)

				r.Route("/expenses", func(r chi.Router) {
					r.Post("/", cfg.ExpenseHandler.Create)
					r.Get("/", cfg.ExpenseHandler.List)
					r.Get("/{expenseID}", cfg.ExpenseHandler.Get)
					r.Delete("/{expenseID}", cfg.ExpenseHandler.Delete)
					r.Put("/{expenseID}/splits", cfg.ExpenseHandler.ReplaceSplits)
				})

				r.Get("/balances", cfg.BalanceHandler.Balances)
				r.Get("/debts", cfg.BalanceHandler.Debts)

				r.Route("/settlements", func(r chi.Router) {
					r.Post("/", cfg.SettlementHandler.Record)
					r.Get("/", cfg.SettlementHandler.List)
				})

				r.Get("/breakdown", cfg.ReportHandler.Breakdown)
				r.Get("/consistency", cfg.LedgerHandler.Consistency)
				r.Get("/audit", cfg.AuditHandler.List)
			})
		})
	})

	return r
}
