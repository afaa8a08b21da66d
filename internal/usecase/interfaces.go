package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fiscalhq/ledger/internal/domain"
)

// CollectiveRepository defines data access for collectives.
type CollectiveRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Collective, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Collective, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Collective, error)
	ListHosted(ctx context.Context, limit, offset int) ([]*domain.Collective, error)
}

// TransactionRepository defines data access for ledger rows. Methods that
// take a Transaction run inside it; passing nil runs against the pool.
type TransactionRepository interface {
	CreatePair(ctx context.Context, tx Transaction, pair *domain.TransactionPair) error
	GetLastWithHost(ctx context.Context, tx Transaction, collectiveID string, at time.Time) (*domain.Transaction, error)
	FindCarryforwardOpening(ctx context.Context, tx Transaction, collectiveID string, openingDate time.Time) (*domain.Transaction, error)
	BalancesByHostAndCurrency(ctx context.Context, tx Transaction, collectiveID string, endDate *time.Time) ([]domain.BalanceSnapshot, error)
	SumNetAmount(ctx context.Context, tx Transaction, collectiveID string, endDate *time.Time) (int64, error)
	ListByCollective(ctx context.Context, collectiveID string, limit, offset int) ([]*domain.Transaction, error)
	CheckConsistency(ctx context.Context) (ConsistencyTotals, error)
}

// ConsistencyTotals is the raw output of the ledger-wide consistency query.
type ConsistencyTotals struct {
	UnbalancedGroups int64
	TotalAmount      int64
	TotalHostAmount  int64
}

// CategoryRepository defines data access for accounting categories.
type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *domain.AccountingCategory) error
	GetCategoryByID(ctx context.Context, id string) (*domain.AccountingCategory, error)
	ListCategoriesByHost(ctx context.Context, hostCollectiveID string) ([]*domain.AccountingCategory, error)
}

// RuleRepository defines data access for category rules. ListByHost
// returns rules in priority order with their category populated.
type RuleRepository interface {
	CreateRule(ctx context.Context, rule *domain.CategoryRule) error
	ListByHost(ctx context.Context, hostCollectiveID string) ([]*domain.CategoryRule, error)
	DeleteRule(ctx context.Context, hostCollectiveID, ruleID string) error
}

// OrderRepository defines data access for contribution orders.
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	SetAccountingCategory(ctx context.Context, orderID, categoryID string, data domain.OrderData, updatedAt time.Time) error
	GetTier(ctx context.Context, tierID string) (*domain.Tier, error)
}

// FxRateService resolves historical exchange rates.
type FxRateService interface {
	GetFxRate(ctx context.Context, fromCurrency, toCurrency string, asOf time.Time) (decimal.Decimal, error)
}

// FeatureService gates optional behavior per collective.
type FeatureService interface {
	HasFeature(ctx context.Context, collectiveID, feature string) (bool, error)
}

// ErrorReporter is a fire-and-forget error sink. Implementations must
// never panic or block.
type ErrorReporter interface {
	Report(ctx context.Context, err error, tags map[string]string)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient database failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
