package cache

import (
	"context"
	"time"

	"github.com/mydfacylita/backend/internal/domain/shipping"
)

// PostalCache stores resolved CEP addresses. Postal data changes rarely, so
// entries are safe to keep for hours; a miss just costs one upstream lookup.
type PostalCache interface {
	// Get returns the cached address and whether the entry was present
	Get(ctx context.Context, cep shipping.CEP) (*shipping.Address, bool, error)
	// Set stores an address with the given TTL
	Set(ctx context.Context, cep shipping.CEP, address *shipping.Address, ttl time.Duration) error
	// Close releases any underlying connections
	Close() error
}
