package cache

import (
	"context"
	"sync/atomic"
	"time"

	"menu-service/internal/common/errors"
)

// flakyStore wraps a LocalStore and fails every call while down is set
type flakyStore struct {
	*LocalStore
	down  atomic.Bool
	calls atomic.Int64
}

func newFlakyStore() *flakyStore {
	return &flakyStore{LocalStore: NewLocalStore(time.Minute)}
}

func (f *flakyStore) fail() error {
	f.calls.Add(1)
	if f.down.Load() {
		return errors.BackendUnavailableError("test cache", nil)
	}
	return nil
}

func (f *flakyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := f.fail(); err != nil {
		return nil, false, err
	}
	return f.LocalStore.Get(ctx, key)
}

func (f *flakyStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := f.fail(); err != nil {
		return err
	}
	return f.LocalStore.Set(ctx, key, value, ttl)
}

func (f *flakyStore) DeleteMany(ctx context.Context, keys []string) (int64, error) {
	if err := f.fail(); err != nil {
		return 0, err
	}
	return f.LocalStore.DeleteMany(ctx, keys)
}

func (f *flakyStore) KeysMatching(ctx context.Context, pattern string) ([]string, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.LocalStore.KeysMatching(ctx, pattern)
}

func (f *flakyStore) FlushAll(ctx context.Context) error {
	if err := f.fail(); err != nil {
		return err
	}
	return f.LocalStore.FlushAll(ctx)
}
