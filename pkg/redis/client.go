package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wonny/dragonboard/pkg/config"
)

// Client is the optional Redis connection behind the shared result cache and
// the cross-instance rate limiter. A disabled client holds no connection;
// the cache then always misses and the limiter always allows.
// ⭐ SSOT: Redis 连接只在这里建立
type Client struct {
	rdb  *redis.Client
	addr string
}

// New connects when REDIS_ENABLED is set and fails fast if the server does
// not answer a ping.
func New(cfg *config.Config) (*Client, error) {
	if !cfg.Redis.Enabled {
		return &Client{}, nil
	}

	addr := net.JoinHostPort(cfg.Redis.Host, cfg.Redis.Port)
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	return &Client{rdb: rdb, addr: addr}, nil
}

// Enabled reports whether a connection is held
func (c *Client) Enabled() bool {
	return c.rdb != nil
}

// Addr is host:port of the server, empty when disabled
func (c *Client) Addr() string {
	return c.addr
}

func (c *Client) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
