package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mydfacylita/backend/internal/infrastructure/config"
)

// PostalCacheFactory creates postal caches based on configuration
type PostalCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// PostalCacheFactoryOption is a functional option for configuring the factory
type PostalCacheFactoryOption func(*PostalCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) PostalCacheFactoryOption {
	return func(f *PostalCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) PostalCacheFactoryOption {
	return func(f *PostalCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewPostalCacheFactory creates a new factory
func NewPostalCacheFactory(cfg config.RedisConfig, opts ...PostalCacheFactoryOption) *PostalCacheFactory {
	f := &PostalCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisCache creates a Redis-backed postal cache
func (f *PostalCacheFactory) CreateRedisCache() (PostalCache, error) {
	cache, err := NewRedisPostalCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis postal cache: %w", err)
	}
	return cache, nil
}

// CreateInMemoryCache creates an in-memory postal cache
func (f *PostalCacheFactory) CreateInMemoryCache() PostalCache {
	return NewInMemoryPostalCache()
}

// CreateCache tries Redis first and falls back to in-memory when Redis is
// unavailable and fallback is allowed
func (f *PostalCacheFactory) CreateCache() (PostalCache, error) {
	cache, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("using Redis postal cache")
		return cache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for postal cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory postal cache",
		zap.Error(err),
	)
	return f.CreateInMemoryCache(), nil
}
