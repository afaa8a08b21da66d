package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fiscalhq/ledger/internal/domain"
	"github.com/fiscalhq/ledger/internal/usecase"
	"github.com/fiscalhq/ledger/internal/usecase/mocks"
)

func TestCheckConsistency(t *testing.T) {
	tests := []struct {
		name       string
		totals     usecase.ConsistencyTotals
		consistent bool
	}{
		{"balanced ledger", usecase.ConsistencyTotals{}, true},
		{"unbalanced groups", usecase.ConsistencyTotals{UnbalancedGroups: 3}, false},
		{"entry currency drift", usecase.ConsistencyTotals{TotalAmount: 1}, false},
		{"host currency drift", usecase.ConsistencyTotals{TotalHostAmount: -50}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txRepo := mocks.NewMockTransactionRepository()
			txRepo.CheckConsistencyFunc = func(ctx context.Context) (usecase.ConsistencyTotals, error) {
				return tt.totals, nil
			}

			uc := usecase.NewLedgerUseCase(txRepo)

			consistent, err := uc.CheckConsistency(context.Background())
			if consistent != tt.consistent {
				t.Fatalf("expected consistent=%v, got %v", tt.consistent, consistent)
			}
			if tt.consistent && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.consistent && !errors.Is(err, usecase.ErrInconsistentLedger) {
				t.Fatalf("expected ErrInconsistentLedger, got %v", err)
			}
		})
	}
}

func TestCheckConsistency_QueryError(t *testing.T) {
	txRepo := mocks.NewMockTransactionRepository()
	queryErr := errors.New("query failed")
	txRepo.CheckConsistencyFunc = func(ctx context.Context) (usecase.ConsistencyTotals, error) {
		return usecase.ConsistencyTotals{}, queryErr
	}

	uc := usecase.NewLedgerUseCase(txRepo)

	_, err := uc.CheckConsistency(context.Background())
	if !errors.Is(err, queryErr) {
		t.Fatalf("expected query error, got %v", err)
	}
	if errors.Is(err, usecase.ErrInconsistentLedger) {
		t.Fatal("a query failure is not an inconsistency verdict")
	}
}

func TestGetBalance_RunsAgainstPool(t *testing.T) {
	txRepo := mocks.NewMockTransactionRepository()
	txRepo.SumNetAmountFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, endDate *time.Time) (int64, error) {
		if tx != nil {
			t.Fatal("balance reads must not open a transaction")
		}
		if collectiveID != "coll-1" {
			t.Fatalf("unexpected collective: %s", collectiveID)
		}
		return 4200, nil
	}

	uc := usecase.NewBalanceUseCase(txRepo)

	balance, err := uc.GetBalance(context.Background(), "coll-1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 4200 {
		t.Fatalf("expected 4200, got %d", balance)
	}
}

func TestGetBalancesByHostAndCurrency_PassesEndDate(t *testing.T) {
	txRepo := mocks.NewMockTransactionRepository()
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	txRepo.BalancesFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, endDate *time.Time) ([]domain.BalanceSnapshot, error) {
		if endDate == nil || !endDate.Equal(end) {
			t.Fatalf("expected end date %v, got %v", end, endDate)
		}
		return []domain.BalanceSnapshot{
			{HostCollectiveID: "host-1", HostCurrency: "USD", Balance: 100},
		}, nil
	}

	uc := usecase.NewBalanceUseCase(txRepo)

	balances, err := uc.GetBalancesByHostAndCurrency(context.Background(), "coll-1", &end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(balances) != 1 || balances[0].Balance != 100 {
		t.Fatalf("unexpected balances: %+v", balances)
	}
}
