package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fiscalhq/ledger/internal/domain"
)

// OrderRepository implements usecase.OrderRepository. Order data is a
// jsonb column carrying the role-scoped category values.
type OrderRepository struct {
	db querier
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: pool}
}

// GetByID retrieves an order by its ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, description, total_amount, currency, interval,
		       collective_id, from_collective_id, tier_id,
		       payment_method_service, accounting_category_id, data,
		       created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var (
		o        domain.Order
		interval string
		data     []byte
	)

	err := r.db.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.Description, &o.TotalAmount, &o.Currency, &interval,
		&o.CollectiveID, &o.FromCollectiveID, &o.TierID,
		&o.PaymentMethodService, &o.AccountingCategoryID, &data,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}

	o.Interval = domain.OrderInterval(interval)

	if len(data) > 0 {
		if err := json.Unmarshal(data, &o.Data); err != nil {
			return nil, fmt.Errorf("failed to decode order data: %w", err)
		}
	}

	return &o, nil
}

// SetAccountingCategory writes the resolved category and the updated
// role-scoped data in one statement.
func (r *OrderRepository) SetAccountingCategory(ctx context.Context, orderID, categoryID string, data domain.OrderData, updatedAt time.Time) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode order data: %w", err)
	}

	query := `
		UPDATE orders
		SET accounting_category_id = $2, data = $3, updated_at = $4
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, orderID, categoryID, encoded, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update order category: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

// GetTier retrieves a contribution tier by its ID.
func (r *OrderRepository) GetTier(ctx context.Context, tierID string) (*domain.Tier, error) {
	query := `
		SELECT id, collective_id, name, type, interval
		FROM tiers
		WHERE id = $1
	`

	var (
		t        domain.Tier
		typ      string
		interval string
	)

	err := r.db.QueryRow(ctx, query, tierID).Scan(&t.ID, &t.CollectiveID, &t.Name, &typ, &interval)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("tier %s not found", tierID)
		}
		return nil, err
	}

	t.Type = domain.TierType(typ)
	t.Interval = domain.OrderInterval(interval)

	return &t, nil
}
