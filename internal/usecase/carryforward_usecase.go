package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fiscalhq/ledger/internal/domain"
)

// CarryforwardUseCase creates balance carryforwards: closing/opening
// transaction pairs that compress a collective's ledger history into a
// single opening balance for a new period.
//
// Carryforward rewrites what the ledger says about a period, so every
// assumption is cross-checked and any violation aborts the whole
// operation. The only silent outcome is a zero balance, which is a valid
// terminal state.
type CarryforwardUseCase struct {
	txManager      TransactionManager
	collectiveRepo CollectiveRepository
	txRepo         TransactionRepository
	fx             FxRateService
	idGen          IDGenerator
	retrier        Retrier
	logger         zerolog.Logger
}

// NewCarryforwardUseCase creates a new CarryforwardUseCase.
func NewCarryforwardUseCase(
	txManager TransactionManager,
	collectiveRepo CollectiveRepository,
	txRepo TransactionRepository,
	fx FxRateService,
	idGen IDGenerator,
	retrier Retrier,
	logger zerolog.Logger,
) *CarryforwardUseCase {
	return &CarryforwardUseCase{
		txManager:      txManager,
		collectiveRepo: collectiveRepo,
		txRepo:         txRepo,
		fx:             fx,
		idGen:          idGen,
		retrier:        retrier,
		logger:         logger,
	}
}

// CarryforwardResult is the outcome of a successful carryforward.
type CarryforwardResult struct {
	Closing        *domain.Transaction
	Opening        *domain.Transaction
	Balance        int64
	HostCurrency   string
	BalancesByHost []domain.BalanceSnapshot
}

// CreateBalanceCarryforward creates the closing/opening pair for the
// collective as of carryforwardDate. Returns nil when the balance is zero
// (nothing to do). Every precondition or cross-check violation rolls the
// transaction back and surfaces as an error; there are no partial writes.
func (uc *CarryforwardUseCase) CreateBalanceCarryforward(ctx context.Context, collectiveID string, carryforwardDate time.Time) (*CarryforwardResult, error) {
	if carryforwardDate.After(time.Now().UTC()) {
		return nil, fmt.Errorf("%w: %s", domain.ErrCarryforwardDateInFuture, carryforwardDate.Format(time.RFC3339))
	}

	var result *CarryforwardResult

	err := uc.retrier.Retry(ctx, func() error {
		var err error
		result, err = uc.createCarryforward(ctx, collectiveID, carryforwardDate)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (uc *CarryforwardUseCase) createCarryforward(ctx context.Context, collectiveID string, carryforwardDate time.Time) (*CarryforwardResult, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock the collective row. Serializes concurrent carryforward and
	// balance-mutating operations against the same collective.
	collective, err := uc.collectiveRepo.GetByIDForUpdate(ctx, tx, collectiveID)
	if err != nil {
		return nil, err
	}

	// The historical host is whichever host the most recent ledger row at
	// or before the carryforward date points at. The collective may have
	// switched hosts since.
	last, err := uc.txRepo.GetLastWithHost(ctx, tx, collective.ID, carryforwardDate)
	if err != nil {
		return nil, err
	}

	closingDate := domain.EndOfDayUTC(carryforwardDate)
	openingDate := domain.StartOfNextDayUTC(carryforwardDate)

	// Idempotency guard, evaluated under the row lock so a concurrent
	// second invocation observes the first one's committed write.
	existing, err := uc.txRepo.FindCarryforwardOpening(ctx, tx, collective.ID, openingDate)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: collective %s, opening date %s",
			domain.ErrCarryforwardExists, collective.Slug, openingDate.Format("2006-01-02"))
	}

	endDate := carryforwardDate
	balances, err := uc.txRepo.BalancesByHostAndCurrency(ctx, tx, collective.ID, &endDate)
	if err != nil {
		return nil, err
	}

	nonZero := domain.NonZeroBalances(balances)
	if len(nonZero) == 0 {
		// Nothing to carry forward.
		return nil, nil
	}
	if len(nonZero) > 1 {
		// No netting policy exists across hosts or currencies; this needs
		// a human.
		return nil, fmt.Errorf("%w: collective %s has %d non-zero balances (%s)",
			domain.ErrMultipleNonZeroBalances, collective.Slug, len(nonZero), formatBalances(nonZero))
	}

	balance := nonZero[0]
	if last.HostCollectiveID == nil || balance.HostCollectiveID != *last.HostCollectiveID || balance.HostCurrency != last.HostCurrency {
		return nil, fmt.Errorf("%w: balance held at host %s in %s, last ledger row points at host %v in %s",
			domain.ErrHistoricalHostMismatch, balance.HostCollectiveID, balance.HostCurrency,
			last.HostCollectiveID, last.HostCurrency)
	}

	// Cross-check against the canonical balance. A mismatch means an
	// upstream data-integrity bug; refuse to trust either value.
	official, err := uc.txRepo.SumNetAmount(ctx, tx, collective.ID, &endDate)
	if err != nil {
		return nil, err
	}
	if official != balance.Balance {
		return nil, fmt.Errorf("%w: collective %s, grouped balance %d, official balance %d, breakdown by host: %s",
			domain.ErrBalanceMismatch, collective.Slug, balance.Balance, official, formatBalances(balances))
	}

	// Convert the host-currency balance into the collective's currency.
	one := decimal.NewFromInt(1)
	rateToCollective := one
	if balance.HostCurrency != collective.Currency {
		rateToCollective, err = uc.fx.GetFxRate(ctx, balance.HostCurrency, collective.Currency, carryforwardDate)
		if err != nil {
			return nil, err
		}
	}
	converted := domain.ConvertAmount(balance.Balance, rateToCollective)

	// The stored FX rate runs collective currency -> host currency.
	fxRate := one
	if !rateToCollective.Equal(one) {
		fxRate = one.Div(rateToCollective)
	}

	group := uuid.New()
	hostID := balance.HostCollectiveID

	closing := &domain.Transaction{
		ID:                   uc.idGen.Generate(),
		Type:                 domain.Debit,
		Kind:                 domain.KindBalanceCarryforward,
		Description:          "Balance carryforward (closing)",
		Amount:               -converted,
		Currency:             collective.Currency,
		AmountInHostCurrency: -balance.Balance,
		HostCurrency:         balance.HostCurrency,
		HostCurrencyFxRate:   fxRate,
		CollectiveID:         collective.ID,
		FromCollectiveID:     collective.ID,
		HostCollectiveID:     &hostID,
		TransactionGroup:     group,
		IsInternal:           true,
		CreatedAt:            closingDate,
		ClearedAt:            closingDate,
	}

	opening := &domain.Transaction{
		ID:                   uc.idGen.Generate(),
		Type:                 domain.Credit,
		Kind:                 domain.KindBalanceCarryforward,
		Description:          "Balance carryforward (opening)",
		Amount:               converted,
		Currency:             collective.Currency,
		AmountInHostCurrency: balance.Balance,
		HostCurrency:         balance.HostCurrency,
		HostCurrencyFxRate:   fxRate,
		CollectiveID:         collective.ID,
		FromCollectiveID:     collective.ID,
		HostCollectiveID:     &hostID,
		TransactionGroup:     group,
		IsInternal:           true,
		CreatedAt:            openingDate,
		ClearedAt:            openingDate,
	}

	pair := &domain.TransactionPair{Credit: opening, Debit: closing}
	if err := pair.Validate(); err != nil {
		return nil, err
	}

	if err := uc.txRepo.CreatePair(ctx, tx, pair); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &CarryforwardResult{
		Closing:        closing,
		Opening:        opening,
		Balance:        balance.Balance,
		HostCurrency:   balance.HostCurrency,
		BalancesByHost: balances,
	}, nil
}

// BatchResult summarizes a batch carryforward run.
type BatchResult struct {
	Processed int
	Created   int
	Skipped   int
	Failed    int
}

// RunForAll runs the carryforward for every hosted collective. Individual
// failures are logged and counted without aborting the batch; collectives
// with no ledger history or an already-existing carryforward at the date
// count as skipped so a batch can be re-run after partial failure.
func (uc *CarryforwardUseCase) RunForAll(ctx context.Context, carryforwardDate time.Time) (BatchResult, error) {
	const pageSize = 200

	var res BatchResult

	for offset := 0; ; offset += pageSize {
		collectives, err := uc.collectiveRepo.ListHosted(ctx, pageSize, offset)
		if err != nil {
			return res, err
		}
		if len(collectives) == 0 {
			break
		}

		for _, c := range collectives {
			res.Processed++

			result, err := uc.CreateBalanceCarryforward(ctx, c.ID, carryforwardDate)
			switch {
			case errors.Is(err, domain.ErrNoHostFound), errors.Is(err, domain.ErrCarryforwardExists):
				res.Skipped++
				uc.logger.Debug().Err(err).Str("collective", c.Slug).Msg("carryforward skipped")
			case err != nil:
				res.Failed++
				uc.logger.Error().Err(err).Str("collective", c.Slug).Msg("carryforward failed")
			case result == nil:
				res.Skipped++
			default:
				res.Created++
				uc.logger.Info().
					Str("collective", c.Slug).
					Int64("balance", result.Balance).
					Str("host_currency", result.HostCurrency).
					Msg("carryforward created")
			}
		}

		if len(collectives) < pageSize {
			break
		}
	}

	return res, nil
}

func formatBalances(balances []domain.BalanceSnapshot) string {
	parts := make([]string, len(balances))
	for i, b := range balances {
		parts[i] = fmt.Sprintf("host %s: %d %s", b.HostCollectiveID, b.Balance, b.HostCurrency)
	}
	return strings.Join(parts, "; ")
}
