package cache

import "time"

// CacheService is the TTL cache behind read-mostly responses such as the
// enum catalog the consoles load on boot. Injected, never global, so
// handlers stay testable with a stub.
type CacheService interface {
	// Get retrieves a value; the second return reports a hit.
	Get(key string) (interface{}, bool)

	// Set stores a value for the given duration.
	Set(key string, value interface{}, duration time.Duration)

	// Delete removes a single key.
	Delete(key string)

	// Flush drops everything, e.g. after a config reload.
	Flush()
}
