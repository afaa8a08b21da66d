package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fiscalhq/ledger/internal/domain"
)

// CategoryRepository implements usecase.CategoryRepository.
type CategoryRepository struct {
	db querier
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: pool}
}

// CreateCategory inserts an accounting category.
func (r *CategoryRepository) CreateCategory(ctx context.Context, c *domain.AccountingCategory) error {
	query := `
		INSERT INTO accounting_categories (id, host_collective_id, code, name, kind, applies_to, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		c.ID, c.HostCollectiveID, c.Code, c.Name,
		string(c.Kind), string(c.AppliesTo), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert accounting category: %w", err)
	}

	return nil
}

// GetCategoryByID retrieves an accounting category by its ID.
func (r *CategoryRepository) GetCategoryByID(ctx context.Context, id string) (*domain.AccountingCategory, error) {
	query := `
		SELECT id, host_collective_id, code, name, kind, applies_to, created_at, updated_at
		FROM accounting_categories
		WHERE id = $1
	`

	c, err := scanCategory(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}

	return c, nil
}

// ListCategoriesByHost returns the host's categories ordered by code.
func (r *CategoryRepository) ListCategoriesByHost(ctx context.Context, hostCollectiveID string) ([]*domain.AccountingCategory, error) {
	query := `
		SELECT id, host_collective_id, code, name, kind, applies_to, created_at, updated_at
		FROM accounting_categories
		WHERE host_collective_id = $1
		ORDER BY code
	`

	rows, err := r.db.Query(ctx, query, hostCollectiveID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounting categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.AccountingCategory
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func scanCategory(row pgx.Row) (*domain.AccountingCategory, error) {
	var (
		c         domain.AccountingCategory
		kind      string
		appliesTo string
	)

	err := row.Scan(&c.ID, &c.HostCollectiveID, &c.Code, &c.Name, &kind, &appliesTo, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	c.Kind = domain.CategoryKind(kind)
	c.AppliesTo = domain.CategoryAppliesTo(appliesTo)

	return &c, nil
}
