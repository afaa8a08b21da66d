package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type stubFxSource struct {
	rate  decimal.Decimal
	err   error
	calls int
}

func (s *stubFxSource) GetRate(ctx context.Context, from, to string, asOf time.Time) (decimal.Decimal, error) {
	s.calls++
	return s.rate, s.err
}

type mapFxCache struct {
	rates map[string]decimal.Decimal
}

func newMapFxCache() *mapFxCache {
	return &mapFxCache{rates: make(map[string]decimal.Decimal)}
}

func (c *mapFxCache) key(from, to string, asOf time.Time) string {
	return from + ":" + to + ":" + asOf.UTC().Format("2006-01-02")
}

func (c *mapFxCache) Get(ctx context.Context, from, to string, asOf time.Time) (decimal.Decimal, error) {
	rate, ok := c.rates[c.key(from, to, asOf)]
	if !ok {
		return decimal.Zero, errors.New("miss")
	}
	return rate, nil
}

func (c *mapFxCache) Set(ctx context.Context, from, to string, asOf time.Time, rate decimal.Decimal) error {
	c.rates[c.key(from, to, asOf)] = rate
	return nil
}

func TestFxServiceSameCurrency(t *testing.T) {
	source := &stubFxSource{}
	svc := NewFxService(source, nil, zerolog.Nop())

	rate, err := svc.GetFxRate(context.Background(), "USD", "USD", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rate.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected rate 1, got %s", rate)
	}
	if source.calls != 0 {
		t.Fatalf("expected no source lookup for same currency")
	}
}

func TestFxServiceReadThroughCache(t *testing.T) {
	source := &stubFxSource{rate: decimal.RequireFromString("0.85")}
	cache := newMapFxCache()
	svc := NewFxService(source, cache, zerolog.Nop())

	asOf := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		rate, err := svc.GetFxRate(context.Background(), "USD", "EUR", asOf)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !rate.Equal(source.rate) {
			t.Fatalf("expected %s, got %s", source.rate, rate)
		}
	}

	if source.calls != 1 {
		t.Fatalf("expected 1 source lookup, got %d", source.calls)
	}
}

func TestFxServicePropagatesSourceError(t *testing.T) {
	sourceErr := errors.New("no rate")
	source := &stubFxSource{err: sourceErr}
	svc := NewFxService(source, nil, zerolog.Nop())

	_, err := svc.GetFxRate(context.Background(), "USD", "EUR", time.Now())
	if !errors.Is(err, sourceErr) {
		t.Fatalf("expected source error, got %v", err)
	}
}
