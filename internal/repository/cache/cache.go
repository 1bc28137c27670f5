package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/simglobe/simglobe/internal/db"
	"github.com/simglobe/simglobe/internal/domain"
)

// store is the consumer interface for the response cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Cache memoizes values of type T as JSON in a key-value store.
// Store failures degrade to a miss and are logged, never returned.
type Cache[T any] struct {
	store      store
	prefix     string
	name       string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a cache for one namespace.
// cacheTotal is a counter vec with labels "cache" and "result" ("hit"/"miss"), passed explicitly.
func New[T any](
	s store,
	name string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Cache[T] {
	return &Cache[T]{
		store:      s,
		prefix:     domain.KeyPrefix + name + ":",
		name:       name,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// GetOrLoad returns the cached value for key or calls load and caches its result.
// Load errors are returned as is and nothing is cached.
func (c *Cache[T]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(ctx, key); ok {
		return v, nil
	}

	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.Set(ctx, key, v)
	return v, nil
}

// Get returns the cached value and whether it was present.
func (c *Cache[T]) Get(ctx context.Context, key string) (T, bool) {
	var v T
	fullKey := c.prefix + key

	data, err := c.store.Get(ctx, fullKey)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to read cache", zap.String("key", fullKey), zap.Error(err))
		}
		c.inc("miss")
		return v, false
	}

	if err := json.Unmarshal(data, &v); err != nil {
		c.logger.Warn("Failed to parse cached value", zap.String("key", fullKey), zap.Error(err))
		c.inc("miss")
		return v, false
	}

	c.inc("hit")
	return v, true
}

// Set stores v under key with the cache TTL.
func (c *Cache[T]) Set(ctx context.Context, key string, v T) {
	fullKey := c.prefix + key
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Failed to encode cache value", zap.String("key", fullKey), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, fullKey, data, c.ttl); err != nil {
		c.logger.Warn("Failed to write cache", zap.String("key", fullKey), zap.Error(err))
	}
}

// Invalidate drops the cached value for key.
func (c *Cache[T]) Invalidate(ctx context.Context, key string) error {
	if err := c.store.Del(ctx, c.prefix+key); err != nil {
		return fmt.Errorf("invalidate %s: %w", c.name, err)
	}
	return nil
}

func (c *Cache[T]) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(c.name, result).Inc()
	}
}
