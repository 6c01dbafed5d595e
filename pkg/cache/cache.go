// Package cache stores exported grids so that identical requests are not
// rebuilt.
//
// Three backends implement [Cache]:
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, for tests or when caching is disabled
//
// Keys are produced by a [Keyer] from a calendar hash and the grid options, so
// that any change to either yields a different key.
//
//	c, err := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().GridKey(calendarHash, cache.GridKeyOpts{Unit: "day", Width: 1200})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long exported grids stay cached.
const DefaultTTL = 24 * time.Hour

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the stored data and true, or false on a miss. Expired
	// entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
