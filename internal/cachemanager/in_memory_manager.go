package cachemanager

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"intake/internal/log"
)

const (
	DefaultExpiration      = 2 * time.Minute
	DefaultCleanupInterval = 10 * time.Minute
)

// InMemoryCacheManager backs CacheManager with patrickmn/go-cache.
type InMemoryCacheManager[K ~string, V any] struct {
	useCase string
	cache   *gocache.Cache
}

// NewInMemoryCacheManager creates an in-memory cache. useCase names the
// cache in log output.
func NewInMemoryCacheManager[K ~string, V any](useCase string, defaultExpiration, cleanupInterval time.Duration) *InMemoryCacheManager[K, V] {
	return &InMemoryCacheManager[K, V]{
		useCase: useCase,
		cache:   gocache.New(defaultExpiration, cleanupInterval),
	}
}

// Get retrieves an item from the cache by its key.
func (c *InMemoryCacheManager[K, V]) Get(key K) (V, bool) {
	var zero V

	value, found := c.cache.Get(string(key))
	if !found {
		return zero, false
	}

	v, ok := value.(V)
	if !ok {
		log.Error(log.CatCache, "Wrong type stored under key", "use_case", c.useCase, "key", key)
		return zero, false
	}

	log.Debug(log.CatCache, "Cache hit", "use_case", c.useCase)
	return v, true
}

// Set stores a value under key for the given TTL. A non-positive TTL uses
// the cache's default expiration.
func (c *InMemoryCacheManager[K, V]) Set(key K, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	c.cache.Set(string(key), value, ttl)
}

// Delete removes the given keys.
func (c *InMemoryCacheManager[K, V]) Delete(keys ...K) {
	for _, key := range keys {
		c.cache.Delete(string(key))
	}
}

// Flush drops every cached entry.
func (c *InMemoryCacheManager[K, V]) Flush() {
	c.cache.Flush()
}
