package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fiscalhq/ledger/internal/domain"
	"github.com/fiscalhq/ledger/internal/usecase"
)

const collectiveColumns = `id, slug, name, type, currency, host_collective_id, settings, created_at, updated_at`

// CollectiveRepository implements usecase.CollectiveRepository and
// usecase.FeatureService on top of Postgres.
type CollectiveRepository struct {
	db querier
}

// NewCollectiveRepository creates a new CollectiveRepository.
func NewCollectiveRepository(pool *pgxpool.Pool) *CollectiveRepository {
	return &CollectiveRepository{db: pool}
}

// GetByID retrieves a collective by its ID.
func (r *CollectiveRepository) GetByID(ctx context.Context, id string) (*domain.Collective, error) {
	query := `SELECT ` + collectiveColumns + ` FROM collectives WHERE id = $1`

	return r.getOne(ctx, r.db, query, id)
}

// GetBySlug retrieves a collective by its slug.
func (r *CollectiveRepository) GetBySlug(ctx context.Context, slug string) (*domain.Collective, error) {
	query := `SELECT ` + collectiveColumns + ` FROM collectives WHERE slug = $1`

	return r.getOne(ctx, r.db, query, slug)
}

// GetByIDForUpdate retrieves a collective inside tx with a row lock,
// serializing concurrent writers on the same collective.
func (r *CollectiveRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Collective, error) {
	query := `SELECT ` + collectiveColumns + ` FROM collectives WHERE id = $1 FOR UPDATE`

	return r.getOne(ctx, inTx(tx, r.db), query, id)
}

// ListHosted returns every collective with a fiscal host, hosts
// themselves excluded, ordered by ID for stable pagination.
func (r *CollectiveRepository) ListHosted(ctx context.Context, limit, offset int) ([]*domain.Collective, error) {
	query := `
		SELECT ` + collectiveColumns + `
		FROM collectives
		WHERE host_collective_id IS NOT NULL AND host_collective_id <> id
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list hosted collectives: %w", err)
	}
	defer rows.Close()

	var collectives []*domain.Collective
	for rows.Next() {
		c, err := scanCollective(rows)
		if err != nil {
			return nil, err
		}
		collectives = append(collectives, c)
	}

	return collectives, rows.Err()
}

// HasFeature reports whether a feature flag is enabled in the
// collective's settings.
func (r *CollectiveRepository) HasFeature(ctx context.Context, collectiveID, feature string) (bool, error) {
	c, err := r.GetByID(ctx, collectiveID)
	if err != nil {
		return false, err
	}

	return c.Settings.Features[feature], nil
}

func (r *CollectiveRepository) getOne(ctx context.Context, q querier, query string, arg any) (*domain.Collective, error) {
	c, err := scanCollective(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCollectiveNotFound
		}
		return nil, err
	}

	return c, nil
}

func scanCollective(row pgx.Row) (*domain.Collective, error) {
	var (
		c        domain.Collective
		typ      string
		settings []byte
	)

	err := row.Scan(&c.ID, &c.Slug, &c.Name, &typ, &c.Currency, &c.HostCollectiveID, &settings, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	c.Type = domain.CollectiveType(typ)

	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &c.Settings); err != nil {
			return nil, fmt.Errorf("failed to decode collective settings: %w", err)
		}
	}

	return &c, nil
}
