package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	appstock "github.com/pos/backend/internal/application/stock"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// RedisAvailabilityCache implements the display-level availability cache on
// Redis. Cached values are advisory; finalization always reads the database.
type RedisAvailabilityCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisAvailabilityCache connects to Redis and returns the cache
func NewRedisAvailabilityCache(cfg config.RedisConfig, ttl time.Duration) (*RedisAvailabilityCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisAvailabilityCache{
		client:    client,
		keyPrefix: "stock:available:",
		ttl:       ttl,
	}, nil
}

// NewRedisAvailabilityCacheWithClient creates a cache with an existing client
func NewRedisAvailabilityCacheWithClient(client *redis.Client, ttl time.Duration) *RedisAvailabilityCache {
	return &RedisAvailabilityCache{
		client:    client,
		keyPrefix: "stock:available:",
		ttl:       ttl,
	}
}

func (c *RedisAvailabilityCache) key(productID, locationID uuid.UUID) string {
	return c.keyPrefix + productID.String() + ":" + locationID.String()
}

// Get returns the cached on-hand and reserved quantities, with found=false
// on a miss. A malformed value is treated as a miss.
func (c *RedisAvailabilityCache) Get(ctx context.Context, productID, locationID uuid.UUID) (int64, int64, bool, error) {
	val, err := c.client.Get(ctx, c.key(productID, locationID)).Result()
	if err == redis.Nil {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, fmt.Errorf("failed to read availability cache: %w", err)
	}
	qtyPart, reservedPart, ok := strings.Cut(val, ":")
	if !ok {
		return 0, 0, false, nil
	}
	quantity, err := strconv.ParseInt(qtyPart, 10, 64)
	if err != nil {
		return 0, 0, false, nil
	}
	reserved, err := strconv.ParseInt(reservedPart, 10, 64)
	if err != nil {
		return 0, 0, false, nil
	}
	return quantity, reserved, true, nil
}

// Set stores the on-hand and reserved quantities with the configured TTL
func (c *RedisAvailabilityCache) Set(ctx context.Context, productID, locationID uuid.UUID, quantity, reserved int64) error {
	val := strconv.FormatInt(quantity, 10) + ":" + strconv.FormatInt(reserved, 10)
	if err := c.client.Set(ctx, c.key(productID, locationID), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write availability cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached value after a stock write
func (c *RedisAvailabilityCache) Invalidate(ctx context.Context, productID, locationID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(productID, locationID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate availability cache: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisAvailabilityCache) Close() error {
	return c.client.Close()
}

var _ appstock.AvailabilityCache = (*RedisAvailabilityCache)(nil)
