package common

import "time"

// CacheInterface is the contract both cache backends satisfy. Callers key
// their entries per residential complex (see internal/constants cache keys)
// so one complex's invalidation never evicts another's.
type CacheInterface interface {
	// Set stores a value under key for the given TTL.
	Set(key string, value interface{}, duration time.Duration)

	// Get returns the cached value and true, or nil and false on a miss
	// or an expired entry.
	Get(key string) (interface{}, bool)

	// Delete drops a key. Deleting an absent key is a no-op.
	Delete(key string)

	// GetOrSet returns the cached value, or runs loader and caches its
	// result for the given TTL. A loader error is returned uncached.
	GetOrSet(key string, duration time.Duration, loader func() (any, error)) (interface{}, error)

	// Close releases any underlying connections (Redis).
	Close() error
}
