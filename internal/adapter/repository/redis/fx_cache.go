package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// ErrRateNotCached is returned on a cache miss.
var ErrRateNotCached = errors.New("fx rate not cached")

// FxRateCache caches historical exchange rates in Redis. Historical rates
// never change once the day is over, so a long TTL is safe.
type FxRateCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewFxRateCache creates a new FxRateCache.
func NewFxRateCache(client *redis.Client, ttl time.Duration) *FxRateCache {
	return &FxRateCache{
		client: client,
		prefix: "fxrate:",
		ttl:    ttl,
	}
}

func (c *FxRateCache) key(fromCurrency, toCurrency string, asOf time.Time) string {
	return fmt.Sprintf("%s%s:%s:%s", c.prefix, fromCurrency, toCurrency, asOf.UTC().Format("2006-01-02"))
}

// Get retrieves a cached rate, keyed by currency pair and day.
func (c *FxRateCache) Get(ctx context.Context, fromCurrency, toCurrency string, asOf time.Time) (decimal.Decimal, error) {
	val, err := c.client.Get(ctx, c.key(fromCurrency, toCurrency, asOf)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return decimal.Zero, ErrRateNotCached
		}
		return decimal.Zero, err
	}

	rate, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, fmt.Errorf("corrupt cached fx rate %q: %w", val, err)
	}

	return rate, nil
}

// Set stores a rate for a currency pair and day.
func (c *FxRateCache) Set(ctx context.Context, fromCurrency, toCurrency string, asOf time.Time, rate decimal.Decimal) error {
	return c.client.Set(ctx, c.key(fromCurrency, toCurrency, asOf), rate.String(), c.ttl).Err()
}
