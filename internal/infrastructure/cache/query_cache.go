package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const defaultCleanupInterval = time.Minute

// entry wraps a cached value with its expiration time. Expired entries are
// retained until cleanup so they can be served as stale fallbacks.
type entry struct {
	value     any
	expiresAt time.Time
}

func (e *entry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// QueryCache is an in-memory read-through cache for query results. Values
// are stored with a per-call TTL, and a stale value is served when a reload
// fails, so transient database errors do not blank out the point of sale.
type QueryCache struct {
	entries         sync.Map // map[string]*entry
	logger          *zap.Logger
	stopCh          chan struct{}
	stopped         int32
	cleanupInterval time.Duration

	hits   int64
	misses int64
	stale  int64
}

// QueryCacheOption is a functional option for configuring the cache
type QueryCacheOption func(*QueryCache)

// WithLogger sets the logger for the cache
func WithLogger(logger *zap.Logger) QueryCacheOption {
	return func(c *QueryCache) {
		c.logger = logger
	}
}

// WithCleanupInterval overrides how often expired entries are purged
func WithCleanupInterval(interval time.Duration) QueryCacheOption {
	return func(c *QueryCache) {
		c.cleanupInterval = interval
	}
}

// NewQueryCache creates a query cache and starts its cleanup goroutine
func NewQueryCache(opts ...QueryCacheOption) *QueryCache {
	cache := &QueryCache{
		logger:          zap.NewNop(),
		stopCh:          make(chan struct{}),
		cleanupInterval: defaultCleanupInterval,
	}

	for _, opt := range opts {
		opt(cache)
	}

	go cache.cleanupExpired()

	return cache
}

// GetOrLoad returns the cached value for key when fresh, otherwise invokes
// the loader and caches the result for ttl. When the loader fails and an
// expired entry is still present, the stale value is returned instead of
// the error.
func (c *QueryCache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader func(ctx context.Context) (any, error)) (any, error) {
	if value, ok := c.entries.Load(key); ok {
		e := value.(*entry)
		if !e.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			return e.value, nil
		}
	}

	atomic.AddInt64(&c.misses, 1)

	result, err := loader(ctx)
	if err != nil {
		if value, ok := c.entries.Load(key); ok {
			e := value.(*entry)
			atomic.AddInt64(&c.stale, 1)
			c.logger.Warn("cache reload failed, serving stale value",
				zap.String("key", key),
				zap.Error(err))
			return e.value, nil
		}
		return nil, err
	}

	c.entries.Store(key, &entry{
		value:     result,
		expiresAt: time.Now().Add(ttl),
	})

	return result, nil
}

// Set stores a value directly with the given TTL
func (c *QueryCache) Set(key string, value any, ttl time.Duration) {
	c.entries.Store(key, &entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	})
}

// Delete removes a single key
func (c *QueryCache) Delete(key string) {
	c.entries.Delete(key)
}

// InvalidatePrefix removes every entry whose key starts with prefix
func (c *QueryCache) InvalidatePrefix(prefix string) int {
	removed := 0
	c.entries.Range(func(key, _ any) bool {
		if strings.HasPrefix(key.(string), prefix) {
			c.entries.Delete(key)
			removed++
		}
		return true
	})

	if removed > 0 {
		c.logger.Debug("invalidated cache entries",
			zap.String("prefix", prefix),
			zap.Int("count", removed))
	}

	return removed
}

// Stats returns hit, miss, and stale-serve counters
func (c *QueryCache) Stats() (hits, misses, stale int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses), atomic.LoadInt64(&c.stale)
}

// Stop terminates the cleanup goroutine
func (c *QueryCache) Stop() {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
}

// cleanupExpired periodically drops entries that expired long enough ago
// that they are no longer useful as stale fallbacks
func (c *QueryCache) cleanupExpired() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-c.cleanupInterval)
			c.entries.Range(func(key, value any) bool {
				e := value.(*entry)
				if e.expiresAt.Before(cutoff) {
					c.entries.Delete(key)
				}
				return true
			})
		}
	}
}
