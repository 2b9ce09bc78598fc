package cache

import (
	"context"
	"time"
)

// Store is a key/value backend with per-key expiry. Errors from a Store are
// backend_unavailable AppErrors; a missing key is (nil, false, nil).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set overwrites any existing value and resets its TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// DeleteMany removes keys and returns how many existed
	DeleteMany(ctx context.Context, keys []string) (int64, error)
	// KeysMatching returns keys matching a glob pattern. Admin use only.
	KeysMatching(ctx context.Context, pattern string) ([]string, error)
	// FlushAll removes every key. Admin use only.
	FlushAll(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
