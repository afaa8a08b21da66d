package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/fiscalhq/ledger/internal/adapter/http/handler"
	"github.com/fiscalhq/ledger/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	CarryforwardHandler *handler.CarryforwardHandler
	BalanceHandler      *handler.BalanceHandler
	CategoryHandler     *handler.CategoryHandler
	OrderHandler        *handler.OrderHandler
	LedgerHandler       *handler.LedgerHandler
	HealthHandler       *handler.HealthHandler
	Logging             *middleware.LoggingMiddleware
	Recovery            *middleware.RecoveryMiddleware
	Metrics             *middleware.MetricsMiddleware
	MetricsHandler      http.Handler
	Idempotency         *middleware.IdempotencyMiddleware
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.Recovery != nil {
		r.Use(cfg.Recovery.Wrap)
	}
	if cfg.Logging != nil {
		r.Use(cfg.Logging.Wrap)
	}
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Wrap)
	}

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.Idempotency != nil {
			r.Use(cfg.Idempotency.Wrap)
		}

		// Collectives
		r.Route("/collectives/{collectiveID}", func(r chi.Router) {
			r.Post("/carryforward", cfg.CarryforwardHandler.Create)
			r.Get("/balances", cfg.BalanceHandler.ListByHost)
			r.Get("/balance", cfg.BalanceHandler.Get)
			r.Get("/transactions", cfg.LedgerHandler.ListTransactions)
		})

		// Hosts: accounting categories and rules
		r.Route("/hosts/{hostID}", func(r chi.Router) {
			r.Post("/accounting-categories", cfg.CategoryHandler.CreateCategory)
			r.Get("/accounting-categories", cfg.CategoryHandler.ListCategories)
			r.Post("/category-rules", cfg.CategoryHandler.CreateRule)
			r.Get("/category-rules", cfg.CategoryHandler.ListRules)
			r.Delete("/category-rules/{ruleID}", cfg.CategoryHandler.DeleteRule)
		})

		// Batch carryforward over all hosted collectives
		r.Post("/carryforward/run-all", cfg.CarryforwardHandler.RunAll)

		// Orders
		r.Post("/orders/{orderID}/categorize", cfg.OrderHandler.Categorize)

		// Ledger
		r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
	})

	return r
}
