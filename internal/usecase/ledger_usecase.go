package usecase

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInconsistentLedger is returned when the ledger is not balanced.
	ErrInconsistentLedger = errors.New("ledger is inconsistent")
)

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	txRepo TransactionRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(txRepo TransactionRepository) *LedgerUseCase {
	return &LedgerUseCase{txRepo: txRepo}
}

// CheckConsistency verifies the double-entry invariants over the whole
// ledger: every transaction group sums to zero and so does the ledger as
// a whole, in both entry and host currency.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (bool, error) {
	totals, err := uc.txRepo.CheckConsistency(ctx)
	if err != nil {
		return false, err
	}

	if totals.UnbalancedGroups != 0 {
		return false, fmt.Errorf("%w: %d transaction groups do not sum to zero", ErrInconsistentLedger, totals.UnbalancedGroups)
	}

	if totals.TotalAmount != 0 || totals.TotalHostAmount != 0 {
		return false, fmt.Errorf("%w: ledger sums to %d (entry currency) / %d (host currency)",
			ErrInconsistentLedger, totals.TotalAmount, totals.TotalHostAmount)
	}

	return true, nil
}
