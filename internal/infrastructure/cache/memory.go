package cache

import (
	"time"

	"glowcart-backend/pkg/cache"

	gocache "github.com/patrickmn/go-cache"
)

// memoryCache adapts go-cache to CacheService. A single process-local
// cache is enough here: the only cached payloads are enum catalogs that
// change with a deploy, so cross-instance invalidation is a non-problem.
type memoryCache struct {
	store *gocache.Cache
}

func NewMemoryCache(defaultExpiration, cleanupInterval time.Duration) cache.CacheService {
	return &memoryCache{
		store: gocache.New(defaultExpiration, cleanupInterval),
	}
}

func (c *memoryCache) Get(key string) (interface{}, bool) {
	return c.store.Get(key)
}

func (c *memoryCache) Set(key string, value interface{}, duration time.Duration) {
	c.store.Set(key, value, duration)
}

func (c *memoryCache) Delete(key string) {
	c.store.Delete(key)
}

func (c *memoryCache) Flush() {
	c.store.Flush()
}
