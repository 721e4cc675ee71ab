// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"
)

// Cache defines a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value stored under key. The bool is false when the key is
	// absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores value under key. A zero ttl keeps the value until it is deleted.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the values stored under the given keys.
	Delete(ctx context.Context, keys ...string) error
}
