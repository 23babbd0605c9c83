// Package cache provides the byte cache behind rendered pages.
//
// Backends:
//   - [NullCache]: caching disabled
//   - [MemoryCache]: in-process, for a single instance
//   - [RedisCache]: shared across instances
//
// Keys are built with [PageKey] so that a new build never reads entries
// written by the previous one.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with an optional TTL.
type Cache interface {
	// Get returns the value for key. hit is false on a miss or an expired entry.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
