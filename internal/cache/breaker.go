package cache

import (
	"context"
	"time"

	"menu-service/internal/circuitbreaker"
)

// BreakerStore runs every call to the wrapped Store through a circuit
// breaker. Once the backend has failed often enough, calls return
// backend_unavailable immediately instead of waiting on a dead connection.
type BreakerStore struct {
	next    Store
	breaker *circuitbreaker.Breaker
}

// NewBreakerStore wraps next with breaker
func NewBreakerStore(next Store, breaker *circuitbreaker.Breaker) *BreakerStore {
	return &BreakerStore{next: next, breaker: breaker}
}

func (b *BreakerStore) Get(ctx context.Context, key string) (data []byte, found bool, err error) {
	err = b.breaker.Execute(func() error {
		data, found, err = b.next.Get(ctx, key)
		return err
	})
	return data, found, err
}

func (b *BreakerStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return b.breaker.Execute(func() error {
		return b.next.Set(ctx, key, value, ttl)
	})
}

func (b *BreakerStore) DeleteMany(ctx context.Context, keys []string) (deleted int64, err error) {
	err = b.breaker.Execute(func() error {
		deleted, err = b.next.DeleteMany(ctx, keys)
		return err
	})
	return deleted, err
}

func (b *BreakerStore) KeysMatching(ctx context.Context, pattern string) (keys []string, err error) {
	err = b.breaker.Execute(func() error {
		keys, err = b.next.KeysMatching(ctx, pattern)
		return err
	})
	return keys, err
}

func (b *BreakerStore) FlushAll(ctx context.Context) error {
	return b.breaker.Execute(func() error {
		return b.next.FlushAll(ctx)
	})
}

// Ping bypasses the breaker so health checks see the real backend state
func (b *BreakerStore) Ping(ctx context.Context) error {
	return b.next.Ping(ctx)
}

func (b *BreakerStore) Close() error {
	return b.next.Close()
}

// State reports the breaker state for health output
func (b *BreakerStore) State() circuitbreaker.State {
	return b.breaker.State()
}
