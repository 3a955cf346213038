// Package cachemanager provides a generic TTL cache and a read-through
// wrapper, used to cache registry lookups by criteria signature.
package cachemanager

import "time"

// CacheManager is a generic TTL key/value cache.
type CacheManager[K ~string, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V, ttl time.Duration)
	Delete(keys ...K)
	Flush()
}
