// Package cache stores fetched source documents so that repeated renders of
// the same remote tree skip the network.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: JSON entries under a hashed directory layout, for the CLI
//   - [RedisCache]: shared entries in Redis, for servers behind a load balancer
//   - [NullCache]: stores nothing, for --no-cache
//
// Keys come from a [Keyer], so every backend sees the same key space.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiration.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}
