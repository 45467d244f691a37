package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mydfacylita/backend/internal/domain/shipping"
)

// CachedPostalLookup decorates a PostalLookup with a PostalCache. Cache
// failures are logged and treated as misses so a broken cache never blocks
// a quote.
type CachedPostalLookup struct {
	inner  shipping.PostalLookup
	cache  PostalCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedPostalLookup creates a caching decorator around a postal lookup
func NewCachedPostalLookup(inner shipping.PostalLookup, cache PostalCache, ttl time.Duration, logger *zap.Logger) *CachedPostalLookup {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedPostalLookup{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: logger.Named("postal_cache"),
	}
}

// Lookup resolves a CEP, serving from cache when possible
func (l *CachedPostalLookup) Lookup(ctx context.Context, cep shipping.CEP) (*shipping.Address, error) {
	address, hit, err := l.cache.Get(ctx, cep)
	if err != nil {
		l.logger.Warn("postal cache read failed", zap.String("cep", cep.String()), zap.Error(err))
	} else if hit {
		return address, nil
	}

	address, err = l.inner.Lookup(ctx, cep)
	if err != nil {
		return nil, err
	}

	if err := l.cache.Set(ctx, cep, address, l.ttl); err != nil {
		l.logger.Warn("postal cache write failed", zap.String("cep", cep.String()), zap.Error(err))
	}
	return address, nil
}

// Ensure CachedPostalLookup implements PostalLookup
var _ shipping.PostalLookup = (*CachedPostalLookup)(nil)
