package cache

import (
	"context"
	"fmt"
	"time"

	"menu-service/internal/common/errors"
	"menu-service/internal/common/logging"
	"menu-service/internal/metrics"
)

const purgeBatchSize = 500

// Config holds coordinator settings
type Config struct {
	// TTL is applied to every entry written by a read-through
	TTL time.Duration
	// OpTimeout bounds each individual store call
	OpTimeout time.Duration
}

// DefaultConfig returns a 60 second TTL and a 2 second operation timeout
func DefaultConfig() Config {
	return Config{
		TTL:       60 * time.Second,
		OpTimeout: 2 * time.Second,
	}
}

// Coordinator applies the read-through and invalidation policy on top of a
// Store. It holds no per-key state and is safe for concurrent use.
type Coordinator struct {
	store   Store
	codec   Codec
	config  Config
	metrics *metrics.Collector
	logger  logging.Logger
}

// NewCoordinator creates a coordinator. collector may be nil.
func NewCoordinator(store Store, codec Codec, config Config, collector *metrics.Collector, logger logging.Logger) *Coordinator {
	if config.TTL <= 0 {
		config.TTL = DefaultConfig().TTL
	}
	if logger == nil {
		logger = logging.Component("cache")
	}
	return &Coordinator{
		store:   store,
		codec:   codec,
		config:  config,
		metrics: collector,
		logger:  logger,
	}
}

// Loader fetches a value from the source of truth. found=false means the
// record does not exist; such results are never cached.
type Loader[T any] func(ctx context.Context) (value T, found bool, err error)

// ListLoader fetches a list from the source of truth. An empty list is a
// valid result and is cached.
type ListLoader[T any] func(ctx context.Context) ([]T, error)

// ReadThrough returns the record of kind with id, from cache when possible.
// Cache failures never surface: they are logged and the loader is used.
// Loader errors are returned unchanged.
func ReadThrough[T any](ctx context.Context, c *Coordinator, kind Kind, id string, load Loader[T]) (T, bool, error) {
	return readThrough(ctx, c, kind, EntityKey(kind, id), load)
}

// ReadListThrough returns the children of kind under parentID, from cache when possible.
func ReadListThrough[T any](ctx context.Context, c *Coordinator, kind Kind, parentID string, load ListLoader[T]) ([]T, error) {
	items, _, err := readThrough[[]T](ctx, c, kind, ListKey(kind, parentID), func(ctx context.Context) ([]T, bool, error) {
		items, err := load(ctx)
		if items == nil {
			items = []T{}
		}
		return items, err == nil, err
	})
	return items, err
}

func readThrough[T any](ctx context.Context, c *Coordinator, kind Kind, key string, load Loader[T]) (T, bool, error) {
	var cached T
	if c.lookup(ctx, kind, key, &cached) {
		return cached, true, nil
	}

	value, found, err := load(ctx)
	if err != nil || !found {
		return value, found, err
	}

	c.fill(ctx, key, value)
	return value, true, nil
}

// lookup reports whether key held a decodable value and decodes it into dst
func (c *Coordinator) lookup(ctx context.Context, kind Kind, key string, dst interface{}) bool {
	opCtx, cancel := c.opContext(ctx)
	defer cancel()

	start := time.Now()
	data, found, err := c.store.Get(opCtx, key)
	c.observe("get", start)

	if err != nil {
		c.readFallback(ctx, kind, key, "cache read failed", err)
		return false
	}
	if !found {
		c.recordRead(kind, metrics.ResultMiss)
		return false
	}
	if err := c.codec.Decode(data, dst); err != nil {
		c.readFallback(ctx, kind, key, "cached entry could not be decoded", err)
		return false
	}

	c.recordRead(kind, metrics.ResultHit)
	return true
}

// readFallback is the fail-open branch: the read is served by the loader
func (c *Coordinator) readFallback(ctx context.Context, kind Kind, key, reason string, err error) {
	c.recordRead(kind, metrics.ResultFallback)
	c.logger.WithContext(ctx).Warn(reason+", reading from database",
		logging.String("key", key),
		logging.Err(err),
	)
}

// fill stores value under key. Failures are logged and otherwise ignored.
func (c *Coordinator) fill(ctx context.Context, key string, value interface{}) {
	data, err := c.codec.Encode(value)
	if err != nil {
		c.logger.WithContext(ctx).Error("Failed to encode cache entry", err, logging.String("key", key))
		return
	}

	opCtx, cancel := c.opContext(ctx)
	defer cancel()

	start := time.Now()
	err = c.store.Set(opCtx, key, data, c.config.TTL)
	c.observe("set", start)
	if err != nil {
		c.logger.WithContext(ctx).Warn("Failed to populate cache entry",
			logging.String("key", key),
			logging.Err(err),
		)
	}
}

// Invalidate deletes every key in the scope of m. It must be called after the
// write has committed. The deletion is detached from ctx cancellation so a
// client that disconnects after commit does not skip it; it is still bounded
// by the operation timeout. Invalidating the same mutation twice is harmless.
func (c *Coordinator) Invalidate(ctx context.Context, m Mutation) error {
	keys, err := Scope(m)
	if err != nil {
		return err
	}

	opCtx, cancel := c.opContext(context.WithoutCancel(ctx))
	defer cancel()

	start := time.Now()
	deleted, err := c.store.DeleteMany(opCtx, keys)
	c.observe("delete", start)
	if c.metrics != nil {
		c.metrics.RecordInvalidation(string(m.Node.Kind), deleted, err)
	}

	logger := c.logger.WithContext(ctx).WithFields(
		logging.String("op", string(m.Op)),
		logging.String("kind", string(m.Node.Kind)),
		logging.String("id", m.Node.ID),
	)
	if err != nil {
		logger.Error("Cache invalidation failed", err, logging.Strings("keys", keys))
		return fmt.Errorf("invalidate %s %s: %w", m.Node.Kind, m.Node.ID, err)
	}

	logger.Debug("Cache invalidated",
		logging.Int("scope", len(keys)),
		logging.Int64("deleted", deleted),
	)
	return nil
}

// Flush removes every cache entry. Administrative use only.
func (c *Coordinator) Flush(ctx context.Context) error {
	opCtx, cancel := c.opContext(ctx)
	defer cancel()

	start := time.Now()
	err := c.store.FlushAll(opCtx)
	c.observe("flush", start)
	if err != nil {
		return fmt.Errorf("flush cache: %w", err)
	}

	c.logger.WithContext(ctx).Info("Cache flushed")
	return nil
}

// Purge deletes every key matching a glob pattern and returns how many were
// removed. It scans the keyspace and is meant for administrative use only.
func (c *Coordinator) Purge(ctx context.Context, pattern string) (int64, error) {
	if pattern == "" {
		return 0, errors.ValidationError("pattern is required")
	}

	opCtx, cancel := c.opContext(ctx)
	start := time.Now()
	keys, err := c.store.KeysMatching(opCtx, pattern)
	c.observe("scan", start)
	cancel()
	if err != nil {
		return 0, fmt.Errorf("purge %q: %w", pattern, err)
	}

	var total int64
	for i := 0; i < len(keys); i += purgeBatchSize {
		end := i + purgeBatchSize
		if end > len(keys) {
			end = len(keys)
		}

		opCtx, cancel := c.opContext(ctx)
		deleted, err := c.store.DeleteMany(opCtx, keys[i:end])
		cancel()
		total += deleted
		if err != nil {
			return total, fmt.Errorf("purge %q: %w", pattern, err)
		}
	}

	if c.metrics != nil && total > 0 {
		c.metrics.CacheKeysDeleted.Add(float64(total))
	}
	c.logger.WithContext(ctx).Info("Cache purged",
		logging.String("pattern", pattern),
		logging.Int64("deleted", total),
	)
	return total, nil
}

// Ping checks that the store is reachable
func (c *Coordinator) Ping(ctx context.Context) error {
	opCtx, cancel := c.opContext(ctx)
	defer cancel()
	return c.store.Ping(opCtx)
}

// TTL returns the lifetime given to cache entries
func (c *Coordinator) TTL() time.Duration {
	return c.config.TTL
}

func (c *Coordinator) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.config.OpTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.config.OpTimeout)
}

func (c *Coordinator) observe(op string, start time.Time) {
	if c.metrics != nil {
		c.metrics.ObserveCacheOp(op, start)
	}
}

func (c *Coordinator) recordRead(kind Kind, result string) {
	if c.metrics != nil {
		c.metrics.RecordCacheRead(string(kind), result)
	}
}
