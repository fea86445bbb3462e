package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores result payloads under a key prefix with a server-side TTL
// ⭐ SSOT: Redis 缓存读写只在这里
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

func (c *Cache) fullKey(key string) string {
	return fmt.Sprintf("%s:cache:%s", c.prefix, key)
}

// GetBytes retrieves a cached payload. A missing key is a miss, not an error.
func (c *Cache) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	if !c.client.Enabled() {
		return nil, false, nil
	}

	data, err := c.client.rdb.Get(ctx, c.fullKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get failed: %w", err)
	}

	return data, true, nil
}

// SetBytes stores a payload with TTL
func (c *Cache) SetBytes(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	if err := c.client.rdb.Set(ctx, c.fullKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

// Delete removes a cached value
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.client.Enabled() {
		return nil
	}

	return c.client.rdb.Del(ctx, c.fullKey(key)).Err()
}
