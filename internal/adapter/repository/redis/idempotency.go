package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// placeholder marks a key claimed by an in-flight request that has not
// produced its response yet.
const placeholder = "processing"

// IdempotencyStore implements usecase.IdempotencyStore using Redis.
// Carryforward requests carry an idempotency key so a client retry after
// a network failure replays the stored response instead of re-running.
type IdempotencyStore struct {
	client *redis.Client
	prefix string
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		prefix: "idempotency:",
	}
}

// CheckAndSet claims the key if it is free. It returns (true, stored
// response) when the key was already claimed; the response is nil while
// the first request is still in flight.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	fullKey := s.prefix + key

	value := placeholder
	if response != nil {
		value = string(response)
	}

	claimed, err := s.client.SetNX(ctx, fullKey, value, ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if claimed {
		return false, nil, nil
	}

	existing, err := s.client.Get(ctx, fullKey).Result()
	if err != nil && err != redis.Nil {
		return false, nil, err
	}
	if existing == placeholder || existing == "" {
		return true, nil, nil
	}

	return true, []byte(existing), nil
}

// Update replaces the claimed key's value with the final response.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, response, ttl).Err()
}
