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
	"github.com/fiscalhq/ledger/internal/usecase"
)

const transactionColumns = `id, type, kind, description, amount, currency,
		amount_in_host_currency, host_currency, host_currency_fx_rate,
		platform_fee_in_host_currency, host_fee_in_host_currency,
		payment_processor_fee_in_host_currency, tax_amount,
		collective_id, from_collective_id, host_collective_id,
		transaction_group, is_internal, created_at, cleared_at, deleted_at`

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	db querier
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: pool}
}

// CreatePair inserts both sides of a validated pair. Always runs inside
// the caller's transaction.
func (r *TransactionRepository) CreatePair(ctx context.Context, tx usecase.Transaction, pair *domain.TransactionPair) error {
	if err := pair.Validate(); err != nil {
		return err
	}

	q := inTx(tx, r.db)
	for _, t := range []*domain.Transaction{pair.Debit, pair.Credit} {
		if err := r.insert(ctx, q, t); err != nil {
			return err
		}
	}

	return nil
}

func (r *TransactionRepository) insert(ctx context.Context, q querier, t *domain.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	_, err := q.Exec(ctx, query,
		t.ID,
		string(t.Type),
		string(t.Kind),
		t.Description,
		t.Amount,
		t.Currency,
		t.AmountInHostCurrency,
		t.HostCurrency,
		decimalToNumeric(t.HostCurrencyFxRate),
		t.PlatformFeeInHostCurrency,
		t.HostFeeInHostCurrency,
		t.PaymentProcessorFeeInHostCurrency,
		t.TaxAmount,
		t.CollectiveID,
		t.FromCollectiveID,
		t.HostCollectiveID,
		t.TransactionGroup,
		t.IsInternal,
		timeToPgTimestamptz(t.CreatedAt),
		timeToPgTimestamptz(t.ClearedAt),
		t.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", t.ID, err)
	}

	return nil
}

// GetLastWithHost returns the most recent non-deleted ledger row for the
// collective with a host set, at or before the given time.
func (r *TransactionRepository) GetLastWithHost(ctx context.Context, tx usecase.Transaction, collectiveID string, at time.Time) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE collective_id = $1
		  AND host_collective_id IS NOT NULL
		  AND deleted_at IS NULL
		  AND created_at <= $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	row := inTx(tx, r.db).QueryRow(ctx, query, collectiveID, timeToPgTimestamptz(at))

	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: collective %s as of %s", domain.ErrNoHostFound, collectiveID, at.Format("2006-01-02"))
		}
		return nil, err
	}

	return t, nil
}

// FindCarryforwardOpening returns the carryforward opening entry at
// exactly openingDate, or nil when none exists.
func (r *TransactionRepository) FindCarryforwardOpening(ctx context.Context, tx usecase.Transaction, collectiveID string, openingDate time.Time) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE collective_id = $1
		  AND kind = $2
		  AND type = $3
		  AND created_at = $4
		  AND deleted_at IS NULL
		LIMIT 1
	`

	row := inTx(tx, r.db).QueryRow(ctx, query,
		collectiveID,
		string(domain.KindBalanceCarryforward),
		string(domain.Credit),
		timeToPgTimestamptz(openingDate),
	)

	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return t, nil
}

// BalancesByHostAndCurrency sums net host-currency amounts grouped by
// (host, host currency). Net-zero groups are included.
func (r *TransactionRepository) BalancesByHostAndCurrency(ctx context.Context, tx usecase.Transaction, collectiveID string, endDate *time.Time) ([]domain.BalanceSnapshot, error) {
	query := `
		SELECT host_collective_id, host_currency,
		       COALESCE(SUM(
		           amount_in_host_currency
		           + platform_fee_in_host_currency
		           + host_fee_in_host_currency
		           + payment_processor_fee_in_host_currency
		           + ROUND(tax_amount * host_currency_fx_rate)
		       ), 0)::bigint AS balance
		FROM transactions
		WHERE collective_id = $1
		  AND host_collective_id IS NOT NULL
		  AND deleted_at IS NULL
		  AND ($2::timestamptz IS NULL OR created_at <= $2)
		GROUP BY host_collective_id, host_currency
		ORDER BY host_collective_id, host_currency
	`

	rows, err := inTx(tx, r.db).Query(ctx, query, collectiveID, endDateArg(endDate))
	if err != nil {
		return nil, fmt.Errorf("failed to query balances: %w", err)
	}
	defer rows.Close()

	var snapshots []domain.BalanceSnapshot
	for rows.Next() {
		var s domain.BalanceSnapshot
		if err := rows.Scan(&s.HostCollectiveID, &s.HostCurrency, &s.Balance); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}

	return snapshots, rows.Err()
}

// SumNetAmount is the canonical balance: one ungrouped sum over the same
// rows BalancesByHostAndCurrency aggregates. A deliberately independent
// query path so the two can be cross-checked.
func (r *TransactionRepository) SumNetAmount(ctx context.Context, tx usecase.Transaction, collectiveID string, endDate *time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount_in_host_currency), 0)::bigint
		     + COALESCE(SUM(platform_fee_in_host_currency), 0)::bigint
		     + COALESCE(SUM(host_fee_in_host_currency), 0)::bigint
		     + COALESCE(SUM(payment_processor_fee_in_host_currency), 0)::bigint
		     + COALESCE(SUM(ROUND(tax_amount * host_currency_fx_rate)), 0)::bigint
		FROM transactions
		WHERE collective_id = $1
		  AND host_collective_id IS NOT NULL
		  AND deleted_at IS NULL
		  AND ($2::timestamptz IS NULL OR created_at <= $2)
	`

	var balance int64
	err := inTx(tx, r.db).QueryRow(ctx, query, collectiveID, endDateArg(endDate)).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("failed to sum net amount: %w", err)
	}

	return balance, nil
}

// ListByCollective returns non-deleted ledger rows for a collective,
// newest first.
func (r *TransactionRepository) ListByCollective(ctx context.Context, collectiveID string, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE collective_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, collectiveID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}

// CheckConsistency returns the ledger-wide double-entry totals.
func (r *TransactionRepository) CheckConsistency(ctx context.Context) (usecase.ConsistencyTotals, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM (
				SELECT transaction_group
				FROM transactions
				WHERE deleted_at IS NULL
				GROUP BY transaction_group
				HAVING SUM(amount) <> 0 OR SUM(amount_in_host_currency) <> 0
			) unbalanced)::bigint,
			(SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE deleted_at IS NULL)::bigint,
			(SELECT COALESCE(SUM(amount_in_host_currency), 0) FROM transactions WHERE deleted_at IS NULL)::bigint
	`

	var totals usecase.ConsistencyTotals
	err := r.db.QueryRow(ctx, query).Scan(&totals.UnbalancedGroups, &totals.TotalAmount, &totals.TotalHostAmount)
	if err != nil {
		return usecase.ConsistencyTotals{}, fmt.Errorf("failed to check consistency: %w", err)
	}

	return totals, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t      domain.Transaction
		typ    string
		kind   string
		fxRate pgtype.Numeric
	)

	err := row.Scan(
		&t.ID,
		&typ,
		&kind,
		&t.Description,
		&t.Amount,
		&t.Currency,
		&t.AmountInHostCurrency,
		&t.HostCurrency,
		&fxRate,
		&t.PlatformFeeInHostCurrency,
		&t.HostFeeInHostCurrency,
		&t.PaymentProcessorFeeInHostCurrency,
		&t.TaxAmount,
		&t.CollectiveID,
		&t.FromCollectiveID,
		&t.HostCollectiveID,
		&t.TransactionGroup,
		&t.IsInternal,
		&t.CreatedAt,
		&t.ClearedAt,
		&t.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Type = domain.TransactionType(typ)
	t.Kind = domain.TransactionKind(kind)
	t.HostCurrencyFxRate = numericToDecimal(fxRate)

	return &t, nil
}

func endDateArg(endDate *time.Time) any {
	if endDate == nil {
		return nil
	}
	return timeToPgTimestamptz(*endDate)
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
