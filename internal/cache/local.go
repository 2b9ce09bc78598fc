package cache

import (
	"context"
	"path"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"menu-service/internal/common/errors"
)

// LocalStore is an in-process Store backed by patrickmn/go-cache. It serves
// single-instance runs and tests; entries are not shared between processes.
type LocalStore struct {
	cache *gocache.Cache
}

// NewLocalStore creates a local store that sweeps expired entries every cleanupInterval
func NewLocalStore(cleanupInterval time.Duration) *LocalStore {
	return &LocalStore{
		cache: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

func (l *LocalStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, errors.BackendUnavailableError("local cache", err)
	}
	v, found := l.cache.Get(key)
	if !found {
		return nil, false, nil
	}
	data := v.([]byte)
	return append([]byte(nil), data...), true, nil
}

func (l *LocalStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return errors.BackendUnavailableError("local cache", err)
	}
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	l.cache.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

func (l *LocalStore) DeleteMany(ctx context.Context, keys []string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, errors.BackendUnavailableError("local cache", err)
	}
	var deleted int64
	for _, key := range keys {
		if _, found := l.cache.Get(key); found {
			deleted++
		}
		l.cache.Delete(key)
	}
	return deleted, nil
}

// KeysMatching applies path.Match globbing, which agrees with Redis MATCH for
// the key alphabet used here.
func (l *LocalStore) KeysMatching(ctx context.Context, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.BackendUnavailableError("local cache", err)
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, errors.ValidationError("invalid key pattern").WithContext("pattern", pattern)
	}

	var keys []string
	for key := range l.cache.Items() {
		if ok, _ := path.Match(pattern, key); ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (l *LocalStore) FlushAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.BackendUnavailableError("local cache", err)
	}
	l.cache.Flush()
	return nil
}

func (l *LocalStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.BackendUnavailableError("local cache", err)
	}
	return nil
}

func (l *LocalStore) Close() error {
	return nil
}
