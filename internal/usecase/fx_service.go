package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// FxRateSource resolves a historical rate from persistent storage.
type FxRateSource interface {
	GetRate(ctx context.Context, fromCurrency, toCurrency string, asOf time.Time) (decimal.Decimal, error)
}

// FxRateCache is a day-granular rate cache. Get returns an error on miss.
type FxRateCache interface {
	Get(ctx context.Context, fromCurrency, toCurrency string, asOf time.Time) (decimal.Decimal, error)
	Set(ctx context.Context, fromCurrency, toCurrency string, asOf time.Time, rate decimal.Decimal) error
}

// FxService implements FxRateService with a read-through cache in front
// of the rate source. Cache failures are logged and ignored; the source
// stays authoritative.
type FxService struct {
	source FxRateSource
	cache  FxRateCache
	logger zerolog.Logger
}

// NewFxService creates a new FxService. cache may be nil to disable
// caching.
func NewFxService(source FxRateSource, cache FxRateCache, logger zerolog.Logger) *FxService {
	return &FxService{
		source: source,
		cache:  cache,
		logger: logger,
	}
}

// GetFxRate returns the rate from fromCurrency to toCurrency at asOf.
func (s *FxService) GetFxRate(ctx context.Context, fromCurrency, toCurrency string, asOf time.Time) (decimal.Decimal, error) {
	if fromCurrency == toCurrency {
		return decimal.NewFromInt(1), nil
	}

	if s.cache != nil {
		rate, err := s.cache.Get(ctx, fromCurrency, toCurrency, asOf)
		if err == nil {
			return rate, nil
		}
	}

	rate, err := s.source.GetRate(ctx, fromCurrency, toCurrency, asOf)
	if err != nil {
		return decimal.Zero, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, fromCurrency, toCurrency, asOf, rate); err != nil {
			s.logger.Warn().
				Err(err).
				Str("from", fromCurrency).
				Str("to", toCurrency).
				Msg("failed to cache fx rate")
		}
	}

	return rate, nil
}
