package cachemanager

import "time"

// ReadThroughCache wraps a loader function with a cache: hits skip the
// loader, misses populate the cache. Errors are never cached.
type ReadThroughCache[K ~string, V any, I any] struct {
	cache           CacheManager[K, V]
	fn              func(input I) (V, error)
	shouldSkipCache bool
}

// NewReadThroughCache creates a read-through wrapper. shouldSkipCache
// bypasses the cache entirely (wired to a feature flag).
func NewReadThroughCache[K ~string, V any, I any](
	cache CacheManager[K, V],
	fn func(input I) (V, error),
	shouldSkipCache bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{
		cache:           cache,
		fn:              fn,
		shouldSkipCache: shouldSkipCache,
	}
}

// Get returns the cached value for key, or loads, caches, and returns it.
func (r *ReadThroughCache[K, V, I]) Get(key K, input I, ttl time.Duration) (V, error) {
	if r.shouldSkipCache {
		return r.fn(input)
	}

	if value, ok := r.cache.Get(key); ok {
		return value, nil
	}

	value, err := r.fn(input)
	if err != nil {
		return value, err
	}

	r.cache.Set(key, value, ttl)
	return value, nil
}
