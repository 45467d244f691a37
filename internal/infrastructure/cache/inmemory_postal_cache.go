package cache

import (
	"context"
	"sync"
	"time"

	"github.com/mydfacylita/backend/internal/domain/shipping"
)

// InMemoryPostalCache implements PostalCache with a process-local map.
// Suitable for single-instance deployments and testing; entries are evicted
// lazily on read.
type InMemoryPostalCache struct {
	mu      sync.RWMutex
	entries map[string]inMemoryEntry
}

type inMemoryEntry struct {
	address   shipping.Address
	expiresAt time.Time
}

// NewInMemoryPostalCache creates a new in-memory postal cache
func NewInMemoryPostalCache() *InMemoryPostalCache {
	return &InMemoryPostalCache{
		entries: make(map[string]inMemoryEntry),
	}
}

// Get returns the cached address for a CEP
func (c *InMemoryPostalCache) Get(ctx context.Context, cep shipping.CEP) (*shipping.Address, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[cep.String()]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, cep.String())
		c.mu.Unlock()
		return nil, false, nil
	}

	address := entry.address
	return &address, true, nil
}

// Set stores an address with the given TTL
func (c *InMemoryPostalCache) Set(ctx context.Context, cep shipping.CEP, address *shipping.Address, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cep.String()] = inMemoryEntry{
		address:   *address,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Close is a no-op for the in-memory cache
func (c *InMemoryPostalCache) Close() error {
	return nil
}

// Len returns the number of live entries (for testing)
func (c *InMemoryPostalCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ensure InMemoryPostalCache implements PostalCache
var _ PostalCache = (*InMemoryPostalCache)(nil)
