package usecase

import (
	"context"
	"time"

	"github.com/fiscalhq/ledger/internal/domain"
)

// BalanceUseCase computes point-in-time balances from ledger rows.
type BalanceUseCase struct {
	txRepo TransactionRepository
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(txRepo TransactionRepository) *BalanceUseCase {
	return &BalanceUseCase{txRepo: txRepo}
}

// GetBalancesByHostAndCurrency sums ledger rows for the collective grouped
// by (host, host currency), over non-deleted rows with a host, up to
// endDate inclusive when given. Groups with a net-zero sum are returned;
// filtering is the caller's concern.
func (uc *BalanceUseCase) GetBalancesByHostAndCurrency(ctx context.Context, collectiveID string, endDate *time.Time) ([]domain.BalanceSnapshot, error) {
	return uc.txRepo.BalancesByHostAndCurrency(ctx, nil, collectiveID, endDate)
}

// GetBalance is the canonical single-number balance for a collective. It
// runs an independent query path from GetBalancesByHostAndCurrency, so
// the two can be cross-checked against each other.
func (uc *BalanceUseCase) GetBalance(ctx context.Context, collectiveID string, endDate *time.Time) (int64, error) {
	return uc.txRepo.SumNetAmount(ctx, nil, collectiveID, endDate)
}
