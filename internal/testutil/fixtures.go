// Package testutil provides databases, cache stores and seed data for tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"menu-service/internal/cache"
	"menu-service/internal/redis"
	"menu-service/internal/storage"
)

// NewSQLiteDB returns a migrated, private in-memory database
func NewSQLiteDB(t *testing.T) *storage.DB {
	t.Helper()
	ctx := context.Background()

	db, err := storage.Open(ctx, storage.Config{
		Dialect: storage.SQLite,
		DSN:     storage.SQLiteMemoryDSN("test_" + uuid.NewString()),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Migrate(ctx)
	require.NoError(t, err)
	return db
}

// NewRedis starts a miniredis server and returns a store connected to it
func NewRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := redis.NewClient(&redis.Config{Address: mr.Addr(), MaxRetries: -1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

// NewCoordinator returns a coordinator over store with the default TTL. A nil
// store gets a fresh in-process one.
func NewCoordinator(t *testing.T, store cache.Store) *cache.Coordinator {
	t.Helper()
	if store == nil {
		store = cache.NewLocalStore(time.Minute)
	}
	codec, err := cache.NewCBORCodec()
	require.NoError(t, err)
	return cache.NewCoordinator(store, codec, cache.DefaultConfig(), nil, nil)
}
