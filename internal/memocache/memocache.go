// Package memocache provides a small typed in-memory TTL cache used by the
// byte reader to memoize metadata lookups (existence checks and directory
// listings). Values expire so that on-disk changes are eventually observed.
package memocache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/justengel/resman/internal/log"
)

const DefaultExpiration = 10 * time.Minute
const DefaultCleanupInterval = 30 * time.Minute

// New initializes the in-memory cache with the given expiration and cleanup interval.
func New[V any](useCase string, defaultExpiration, cleanupInterval time.Duration) *Cache[V] {
	return &Cache[V]{
		useCase: useCase,
		cache:   gocache.New(defaultExpiration, cleanupInterval),
	}
}

// Cache is a typed wrapper around a go-cache instance.
type Cache[V any] struct {
	useCase string
	cache   *gocache.Cache
}

// Get retrieves an item from the cache by its key.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zeroValue V

	value, found := c.cache.Get(key)
	if !found {
		return zeroValue, false
	}

	// Type assertion check to ensure the type is correct
	v, ok := value.(V)
	if !ok {
		log.Error(log.CatReader, "wrong type assertion when getting value", "use_case", c.useCase, "key", key)
		return zeroValue, false
	}

	return v, true
}

// Set stores a value in the cache with a key and TTL.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.cache.Set(key, value, ttl)
}

// Delete removes values from the cache by their keys.
func (c *Cache[V]) Delete(keys ...string) {
	for _, key := range keys {
		c.cache.Delete(key)
	}
}

// Flush empties the cache.
func (c *Cache[V]) Flush() {
	c.cache.Flush()
}

// GetOrFill returns the cached value for key, computing and caching it via
// fn on a miss. Errors from fn are returned without caching.
func (c *Cache[V]) GetOrFill(key string, ttl time.Duration, fn func() (V, error)) (V, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	value, err := fn()
	if err != nil {
		return value, err
	}

	c.cache.Set(key, value, ttl)

	return value, nil
}
