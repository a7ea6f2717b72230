// Package utils holds small shared helpers, currently the in-memory cache
// used when no Redis deployment is configured.
package utils

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/JulianiusM/InventoryManagement-sub000/pkg/interfaces"
)

// ErrCacheMiss is returned when a key is absent or its TTL has passed.
var ErrCacheMiss = errors.New("cache miss")

const sweepInterval = 5 * time.Minute

type memoryEntry struct {
	value     interface{}
	expiresAt time.Time
}

// InMemoryCache is a TTL cache backed by a plain map. Expired entries are
// treated as misses immediately and swept in the background.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewInMemoryCache creates an empty cache and starts its sweeper.
func NewInMemoryCache() *InMemoryCache {
	c := &InMemoryCache{entries: make(map[string]memoryEntry)}
	go c.sweep()
	return c
}

// Get returns the value stored under key, or ErrCacheMiss.
func (c *InMemoryCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, ErrCacheMiss
	}
	return entry.value, nil
}

// Set stores value under key for the given TTL.
func (c *InMemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (c *InMemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

var _ interfaces.Cache = (*InMemoryCache)(nil)

func (c *InMemoryCache) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		c.mu.Lock()
		for key, entry := range c.entries {
			if now.After(entry.expiresAt) {
				delete(c.entries, key)
			}
		}
		c.mu.Unlock()
	}
}
