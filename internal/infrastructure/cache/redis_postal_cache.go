package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mydfacylita/backend/internal/domain/shipping"
)

// RedisPostalCache implements PostalCache using Redis, suitable for
// deployments where multiple instances share the postal lookup budget
type RedisPostalCache struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisPostalCache creates a new Redis-backed postal cache
func NewRedisPostalCache(cfg RedisConfig) (*RedisPostalCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisPostalCache{
		client:    client,
		keyPrefix: "shipping:cep:",
	}, nil
}

// NewRedisPostalCacheWithClient creates a cache with an existing Redis client
func NewRedisPostalCacheWithClient(client *redis.Client, keyPrefix string) *RedisPostalCache {
	if keyPrefix == "" {
		keyPrefix = "shipping:cep:"
	}
	return &RedisPostalCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get returns the cached address for a CEP
func (c *RedisPostalCache) Get(ctx context.Context, cep shipping.CEP) (*shipping.Address, bool, error) {
	raw, err := c.client.Get(ctx, c.keyPrefix+cep.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read postal cache: %w", err)
	}

	var address shipping.Address
	if err := json.Unmarshal(raw, &address); err != nil {
		// A corrupt entry is treated as a miss; it will be overwritten
		return nil, false, nil
	}
	return &address, true, nil
}

// Set stores an address with the given TTL
func (c *RedisPostalCache) Set(ctx context.Context, cep shipping.CEP, address *shipping.Address, ttl time.Duration) error {
	raw, err := json.Marshal(address)
	if err != nil {
		return fmt.Errorf("failed to encode address: %w", err)
	}
	if err := c.client.Set(ctx, c.keyPrefix+cep.String(), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write postal cache: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisPostalCache) Close() error {
	return c.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisPostalCache) GetClient() *redis.Client {
	return c.client
}

// Ensure RedisPostalCache implements PostalCache
var _ PostalCache = (*RedisPostalCache)(nil)
