package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fiscalhq/ledger/internal/domain"
)

// FxRateRepository reads historical exchange rates. Rates are stored one
// direction; the inverse is derived when only the reverse pair exists.
type FxRateRepository struct {
	db querier
}

// NewFxRateRepository creates a new FxRateRepository.
func NewFxRateRepository(pool *pgxpool.Pool) *FxRateRepository {
	return &FxRateRepository{db: pool}
}

// GetRate returns the most recent rate from one currency to another at or
// before asOf.
func (r *FxRateRepository) GetRate(ctx context.Context, fromCurrency, toCurrency string, asOf time.Time) (decimal.Decimal, error) {
	if fromCurrency == toCurrency {
		return decimal.NewFromInt(1), nil
	}

	rate, err := r.lookup(ctx, fromCurrency, toCurrency, asOf)
	if err == nil {
		return rate, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, err
	}

	// No direct quote; derive from the reverse pair.
	rate, err = r.lookup(ctx, toCurrency, fromCurrency, asOf)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("%w: %s to %s as of %s",
				domain.ErrFxRateUnavailable, fromCurrency, toCurrency, asOf.Format("2006-01-02"))
		}
		return decimal.Zero, err
	}
	if rate.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: zero reverse rate %s to %s",
			domain.ErrFxRateUnavailable, toCurrency, fromCurrency)
	}

	return decimal.NewFromInt(1).Div(rate), nil
}

func (r *FxRateRepository) lookup(ctx context.Context, fromCurrency, toCurrency string, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT rate
		FROM fx_rates
		WHERE from_currency = $1 AND to_currency = $2 AND as_of <= $3
		ORDER BY as_of DESC
		LIMIT 1
	`

	var rate pgtype.Numeric
	err := r.db.QueryRow(ctx, query, fromCurrency, toCurrency, timeToPgTimestamptz(asOf)).Scan(&rate)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(rate), nil
}
