package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fiscalhq/ledger/internal/domain"
	"github.com/fiscalhq/ledger/internal/usecase"
	"github.com/fiscalhq/ledger/internal/usecase/mocks"
)

type fixedFx struct {
	rate decimal.Decimal
	err  error
}

func (f fixedFx) GetFxRate(ctx context.Context, fromCurrency, toCurrency string, asOf time.Time) (decimal.Decimal, error) {
	if f.err != nil {
		return decimal.Zero, f.err
	}
	if fromCurrency == toCurrency {
		return decimal.NewFromInt(1), nil
	}
	return f.rate, nil
}

func hostedCollective(id, host, currency string) *domain.Collective {
	h := host
	return &domain.Collective{
		ID:               id,
		Slug:             id,
		Type:             domain.TypeCollective,
		Currency:         currency,
		HostCollectiveID: &h,
	}
}

func lastLedgerRow(host, hostCurrency string) *domain.Transaction {
	h := host
	return &domain.Transaction{
		ID:               "tx-last",
		Type:             domain.Credit,
		HostCollectiveID: &h,
		HostCurrency:     hostCurrency,
	}
}

func newCarryforwardFixture() (*usecase.CarryforwardUseCase, *mocks.MockCollectiveRepository, *mocks.MockTransactionRepository, *mocks.MockTransactionManager) {
	collectiveRepo := mocks.NewMockCollectiveRepository()
	txRepo := mocks.NewMockTransactionRepository()
	txManager := mocks.NewMockTransactionManager()

	uc := usecase.NewCarryforwardUseCase(
		txManager,
		collectiveRepo,
		txRepo,
		fixedFx{rate: decimal.NewFromInt(1)},
		mocks.NewMockIDGenerator(),
		mocks.PassthroughRetrier{},
		zerolog.Nop(),
	)

	return uc, collectiveRepo, txRepo, txManager
}

func TestCreateBalanceCarryforward_Success(t *testing.T) {
	uc, collectiveRepo, txRepo, txManager := newCarryforwardFixture()

	collectiveRepo.Add(hostedCollective("coll-1", "host-1", "USD"))

	date := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	txRepo.GetLastWithHostFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, at time.Time) (*domain.Transaction, error) {
		if !at.Equal(date) {
			t.Fatalf("expected lookup at %v, got %v", date, at)
		}
		return lastLedgerRow("host-1", "USD"), nil
	}
	txRepo.BalancesFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, endDate *time.Time) ([]domain.BalanceSnapshot, error) {
		return []domain.BalanceSnapshot{
			{HostCollectiveID: "host-1", HostCurrency: "USD", Balance: 15000},
		}, nil
	}
	txRepo.SumNetAmountFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, endDate *time.Time) (int64, error) {
		return 15000, nil
	}

	result, err := uc.CreateBalanceCarryforward(context.Background(), "coll-1", date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected a result")
	}
	if result.Balance != 15000 || result.HostCurrency != "USD" {
		t.Fatalf("unexpected result: %+v", result)
	}

	if !txManager.Tx.Committed {
		t.Fatal("expected transaction to be committed")
	}

	if len(txRepo.CreatedPairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(txRepo.CreatedPairs))
	}
	pair := txRepo.CreatedPairs[0]

	if pair.Debit.Amount != -15000 || pair.Credit.Amount != 15000 {
		t.Fatalf("unexpected amounts: debit %d, credit %d", pair.Debit.Amount, pair.Credit.Amount)
	}
	if pair.Debit.Amount+pair.Credit.Amount != 0 {
		t.Fatal("pair must sum to zero")
	}
	if pair.Debit.TransactionGroup != pair.Credit.TransactionGroup {
		t.Fatal("pair must share a transaction group")
	}
	if pair.Debit.Kind != domain.KindBalanceCarryforward || pair.Credit.Kind != domain.KindBalanceCarryforward {
		t.Fatalf("unexpected kinds: %s / %s", pair.Debit.Kind, pair.Credit.Kind)
	}
	if !pair.Debit.IsInternal || !pair.Credit.IsInternal {
		t.Fatal("carryforward rows must be internal")
	}

	wantClosing := domain.EndOfDayUTC(date)
	wantOpening := domain.StartOfNextDayUTC(date)
	if !pair.Debit.CreatedAt.Equal(wantClosing) {
		t.Fatalf("closing at %v, want %v", pair.Debit.CreatedAt, wantClosing)
	}
	if !pair.Credit.CreatedAt.Equal(wantOpening) {
		t.Fatalf("opening at %v, want %v", pair.Credit.CreatedAt, wantOpening)
	}
	if !pair.Credit.CreatedAt.After(pair.Debit.CreatedAt) {
		t.Fatal("opening must be after closing")
	}
}

func TestCreateBalanceCarryforward_FutureDate(t *testing.T) {
	uc, _, _, _ := newCarryforwardFixture()

	future := time.Now().UTC().AddDate(0, 0, 1)
	_, err := uc.CreateBalanceCarryforward(context.Background(), "coll-1", future)
	if !errors.Is(err, domain.ErrCarryforwardDateInFuture) {
		t.Fatalf("expected ErrCarryforwardDateInFuture, got %v", err)
	}
}

func TestCreateBalanceCarryforward_NoHost(t *testing.T) {
	uc, collectiveRepo, _, txManager := newCarryforwardFixture()

	collectiveRepo.Add(hostedCollective("coll-1", "host-1", "USD"))
	// Default mock returns ErrNoHostFound for GetLastWithHost.

	_, err := uc.CreateBalanceCarryforward(context.Background(), "coll-1", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, domain.ErrNoHostFound) {
		t.Fatalf("expected ErrNoHostFound, got %v", err)
	}
	if txManager.Tx.Committed {
		t.Fatal("transaction must not be committed")
	}
	if !txManager.Tx.RolledBack {
		t.Fatal("transaction must be rolled back")
	}
}

func TestCreateBalanceCarryforward_AlreadyExists(t *testing.T) {
	uc, collectiveRepo, txRepo, _ := newCarryforwardFixture()

	collectiveRepo.Add(hostedCollective("coll-1", "host-1", "USD"))

	date := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	txRepo.GetLastWithHostFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, at time.Time) (*domain.Transaction, error) {
		return lastLedgerRow("host-1", "USD"), nil
	}
	txRepo.FindCarryforwardOpeningFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, openingDate time.Time) (*domain.Transaction, error) {
		want := domain.StartOfNextDayUTC(date)
		if !openingDate.Equal(want) {
			t.Fatalf("expected opening lookup at %v, got %v", want, openingDate)
		}
		return &domain.Transaction{ID: "existing"}, nil
	}

	_, err := uc.CreateBalanceCarryforward(context.Background(), "coll-1", date)
	if !errors.Is(err, domain.ErrCarryforwardExists) {
		t.Fatalf("expected ErrCarryforwardExists, got %v", err)
	}
	if len(txRepo.CreatedPairs) != 0 {
		t.Fatal("no pair must be written")
	}
}

func TestCreateBalanceCarryforward_ZeroBalance(t *testing.T) {
	uc, collectiveRepo, txRepo, txManager := newCarryforwardFixture()

	collectiveRepo.Add(hostedCollective("coll-1", "host-1", "USD"))

	txRepo.GetLastWithHostFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, at time.Time) (*domain.Transaction, error) {
		return lastLedgerRow("host-1", "USD"), nil
	}
	txRepo.BalancesFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, endDate *time.Time) ([]domain.BalanceSnapshot, error) {
		return []domain.BalanceSnapshot{
			{HostCollectiveID: "host-1", HostCurrency: "USD", Balance: 0},
		}, nil
	}

	result, err := uc.CreateBalanceCarryforward(context.Background(), "coll-1", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result for zero balance, got %+v", result)
	}
	if len(txRepo.CreatedPairs) != 0 {
		t.Fatal("no pair must be written for a zero balance")
	}
	if txManager.Tx.Committed {
		t.Fatal("nothing to commit for a zero balance")
	}
}

func TestCreateBalanceCarryforward_MultipleNonZeroBalances(t *testing.T) {
	uc, collectiveRepo, txRepo, _ := newCarryforwardFixture()

	collectiveRepo.Add(hostedCollective("coll-1", "host-1", "USD"))

	txRepo.GetLastWithHostFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, at time.Time) (*domain.Transaction, error) {
		return lastLedgerRow("host-1", "USD"), nil
	}
	txRepo.BalancesFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, endDate *time.Time) ([]domain.BalanceSnapshot, error) {
		return []domain.BalanceSnapshot{
			{HostCollectiveID: "host-1", HostCurrency: "USD", Balance: 10000},
			{HostCollectiveID: "host-2", HostCurrency: "EUR", Balance: 500},
		}, nil
	}

	_, err := uc.CreateBalanceCarryforward(context.Background(), "coll-1", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, domain.ErrMultipleNonZeroBalances) {
		t.Fatalf("expected ErrMultipleNonZeroBalances, got %v", err)
	}
}

func TestCreateBalanceCarryforward_ZeroBalancesIgnoredAcrossHosts(t *testing.T) {
	uc, collectiveRepo, txRepo, _ := newCarryforwardFixture()

	collectiveRepo.Add(hostedCollective("coll-1", "host-2", "USD"))

	// The collective moved from host-1 to host-2; the old host's balance
	// is settled at zero and must not block the carryforward.
	txRepo.GetLastWithHostFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, at time.Time) (*domain.Transaction, error) {
		return lastLedgerRow("host-2", "USD"), nil
	}
	txRepo.BalancesFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, endDate *time.Time) ([]domain.BalanceSnapshot, error) {
		return []domain.BalanceSnapshot{
			{HostCollectiveID: "host-1", HostCurrency: "EUR", Balance: 0},
			{HostCollectiveID: "host-2", HostCurrency: "USD", Balance: 7000},
		}, nil
	}
	txRepo.SumNetAmountFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, endDate *time.Time) (int64, error) {
		return 7000, nil
	}

	result, err := uc.CreateBalanceCarryforward(context.Background(), "coll-1", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Balance != 7000 {
		t.Fatalf("expected balance 7000, got %d", result.Balance)
	}
}

func TestCreateBalanceCarryforward_HistoricalHostMismatch(t *testing.T) {
	uc, collectiveRepo, txRepo, _ := newCarryforwardFixture()

	collectiveRepo.Add(hostedCollective("coll-1", "host-2", "USD"))

	txRepo.GetLastWithHostFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, at time.Time) (*domain.Transaction, error) {
		return lastLedgerRow("host-2", "USD"), nil
	}
	txRepo.BalancesFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, endDate *time.Time) ([]domain.BalanceSnapshot, error) {
		return []domain.BalanceSnapshot{
			{HostCollectiveID: "host-1", HostCurrency: "USD", Balance: 5000},
		}, nil
	}

	_, err := uc.CreateBalanceCarryforward(context.Background(), "coll-1", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, domain.ErrHistoricalHostMismatch) {
		t.Fatalf("expected ErrHistoricalHostMismatch, got %v", err)
	}
}

func TestCreateBalanceCarryforward_CurrencyMismatch(t *testing.T) {
	uc, collectiveRepo, txRepo, _ := newCarryforwardFixture()

	collectiveRepo.Add(hostedCollective("coll-1", "host-1", "USD"))

	txRepo.GetLastWithHostFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, at time.Time) (*domain.Transaction, error) {
		return lastLedgerRow("host-1", "EUR"), nil
	}
	txRepo.BalancesFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, endDate *time.Time) ([]domain.BalanceSnapshot, error) {
		return []domain.BalanceSnapshot{
			{HostCollectiveID: "host-1", HostCurrency: "USD", Balance: 5000},
		}, nil
	}

	_, err := uc.CreateBalanceCarryforward(context.Background(), "coll-1", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, domain.ErrHistoricalHostMismatch) {
		t.Fatalf("expected ErrHistoricalHostMismatch, got %v", err)
	}
}

func TestCreateBalanceCarryforward_BalanceMismatch(t *testing.T) {
	uc, collectiveRepo, txRepo, _ := newCarryforwardFixture()

	collectiveRepo.Add(hostedCollective("coll-1", "host-1", "USD"))

	txRepo.GetLastWithHostFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, at time.Time) (*domain.Transaction, error) {
		return lastLedgerRow("host-1", "USD"), nil
	}
	txRepo.BalancesFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, endDate *time.Time) ([]domain.BalanceSnapshot, error) {
		return []domain.BalanceSnapshot{
			{HostCollectiveID: "host-1", HostCurrency: "USD", Balance: 15000},
		}, nil
	}
	txRepo.SumNetAmountFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, endDate *time.Time) (int64, error) {
		return 14999, nil
	}

	_, err := uc.CreateBalanceCarryforward(context.Background(), "coll-1", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, domain.ErrBalanceMismatch) {
		t.Fatalf("expected ErrBalanceMismatch, got %v", err)
	}
	if len(txRepo.CreatedPairs) != 0 {
		t.Fatal("no pair must be written on balance mismatch")
	}
}

func TestCreateBalanceCarryforward_CrossCurrencyConversion(t *testing.T) {
	collectiveRepo := mocks.NewMockCollectiveRepository()
	txRepo := mocks.NewMockTransactionRepository()
	txManager := mocks.NewMockTransactionManager()

	// Collective operates in EUR, the host balance is held in USD.
	// 1 USD = 0.85 EUR.
	uc := usecase.NewCarryforwardUseCase(
		txManager,
		collectiveRepo,
		txRepo,
		fixedFx{rate: decimal.RequireFromString("0.85")},
		mocks.NewMockIDGenerator(),
		mocks.PassthroughRetrier{},
		zerolog.Nop(),
	)

	collectiveRepo.Add(hostedCollective("coll-1", "host-1", "EUR"))

	txRepo.GetLastWithHostFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, at time.Time) (*domain.Transaction, error) {
		return lastLedgerRow("host-1", "USD"), nil
	}
	txRepo.BalancesFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, endDate *time.Time) ([]domain.BalanceSnapshot, error) {
		return []domain.BalanceSnapshot{
			{HostCollectiveID: "host-1", HostCurrency: "USD", Balance: 10000},
		}, nil
	}
	txRepo.SumNetAmountFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, endDate *time.Time) (int64, error) {
		return 10000, nil
	}

	result, err := uc.CreateBalanceCarryforward(context.Background(), "coll-1", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pair := txRepo.CreatedPairs[0]

	// 10000 USD cents at 0.85 = 8500 EUR cents in the collective currency.
	if pair.Credit.Amount != 8500 {
		t.Fatalf("expected converted amount 8500, got %d", pair.Credit.Amount)
	}
	if pair.Credit.AmountInHostCurrency != 10000 {
		t.Fatalf("expected host amount 10000, got %d", pair.Credit.AmountInHostCurrency)
	}
	if pair.Credit.Currency != "EUR" || pair.Credit.HostCurrency != "USD" {
		t.Fatalf("unexpected currencies: %s / %s", pair.Credit.Currency, pair.Credit.HostCurrency)
	}

	// The stored rate runs collective -> host: 1 / 0.85.
	wantRate := decimal.NewFromInt(1).Div(decimal.RequireFromString("0.85"))
	if !pair.Credit.HostCurrencyFxRate.Equal(wantRate) {
		t.Fatalf("expected fx rate %s, got %s", wantRate, pair.Credit.HostCurrencyFxRate)
	}

	if result.Balance != 10000 || result.HostCurrency != "USD" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestCreateBalanceCarryforward_FxError(t *testing.T) {
	collectiveRepo := mocks.NewMockCollectiveRepository()
	txRepo := mocks.NewMockTransactionRepository()

	fxErr := errors.New("fx provider down")
	uc := usecase.NewCarryforwardUseCase(
		mocks.NewMockTransactionManager(),
		collectiveRepo,
		txRepo,
		fixedFx{err: fxErr},
		mocks.NewMockIDGenerator(),
		mocks.PassthroughRetrier{},
		zerolog.Nop(),
	)

	collectiveRepo.Add(hostedCollective("coll-1", "host-1", "EUR"))

	txRepo.GetLastWithHostFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, at time.Time) (*domain.Transaction, error) {
		return lastLedgerRow("host-1", "USD"), nil
	}
	txRepo.BalancesFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, endDate *time.Time) ([]domain.BalanceSnapshot, error) {
		return []domain.BalanceSnapshot{
			{HostCollectiveID: "host-1", HostCurrency: "USD", Balance: 10000},
		}, nil
	}
	txRepo.SumNetAmountFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, endDate *time.Time) (int64, error) {
		return 10000, nil
	}

	_, err := uc.CreateBalanceCarryforward(context.Background(), "coll-1", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, fxErr) {
		t.Fatalf("expected fx error, got %v", err)
	}
	if len(txRepo.CreatedPairs) != 0 {
		t.Fatal("no pair must be written when the rate is unavailable")
	}
}

func TestRunForAll(t *testing.T) {
	uc, collectiveRepo, txRepo, _ := newCarryforwardFixture()

	// ok: creates a pair. zero: skipped. nohost: skipped. broken: failed.
	collectiveRepo.Add(hostedCollective("ok", "host-1", "USD"))
	collectiveRepo.Add(hostedCollective("zero", "host-1", "USD"))
	collectiveRepo.Add(hostedCollective("nohost", "host-1", "USD"))
	collectiveRepo.Add(hostedCollective("broken", "host-1", "USD"))

	collectiveRepo.ListHostedFunc = func(ctx context.Context, limit, offset int) ([]*domain.Collective, error) {
		if offset > 0 {
			return nil, nil
		}
		return []*domain.Collective{
			hostedCollective("ok", "host-1", "USD"),
			hostedCollective("zero", "host-1", "USD"),
			hostedCollective("nohost", "host-1", "USD"),
			hostedCollective("broken", "host-1", "USD"),
		}, nil
	}

	txRepo.GetLastWithHostFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, at time.Time) (*domain.Transaction, error) {
		if collectiveID == "nohost" {
			return nil, domain.ErrNoHostFound
		}
		return lastLedgerRow("host-1", "USD"), nil
	}
	txRepo.BalancesFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, endDate *time.Time) ([]domain.BalanceSnapshot, error) {
		switch collectiveID {
		case "zero":
			return []domain.BalanceSnapshot{{HostCollectiveID: "host-1", HostCurrency: "USD", Balance: 0}}, nil
		case "broken":
			return nil, errors.New("query failed")
		default:
			return []domain.BalanceSnapshot{{HostCollectiveID: "host-1", HostCurrency: "USD", Balance: 1000}}, nil
		}
	}
	txRepo.SumNetAmountFunc = func(ctx context.Context, tx usecase.Transaction, collectiveID string, endDate *time.Time) (int64, error) {
		return 1000, nil
	}

	res, err := uc.RunForAll(context.Background(), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Processed != 4 {
		t.Fatalf("expected 4 processed, got %d", res.Processed)
	}
	if res.Created != 1 {
		t.Fatalf("expected 1 created, got %d", res.Created)
	}
	if res.Skipped != 2 {
		t.Fatalf("expected 2 skipped, got %d", res.Skipped)
	}
	if res.Failed != 1 {
		t.Fatalf("expected 1 failed, got %d", res.Failed)
	}
}
