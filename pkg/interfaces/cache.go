package interfaces

import (
	"context"
	"time"
)

// Cache stores derived records, like per-account sync status, that are cheap
// to recompute but read often. Implementations are safe for concurrent use
// and signal absent keys with an implementation-defined miss error.
type Cache interface {
	// Get returns the value stored under key.
	Get(ctx context.Context, key string) (interface{}, error)

	// Set stores value under key for the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
