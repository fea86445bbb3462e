// Package cache memoizes computed views keyed by (function, arguments) with
// a fixed time-to-live. Concurrent recomputation of one key is allowed; the
// last writer wins.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/dragonboard/pkg/logger"
)

// Observer receives hit/miss notifications per namespace
type Observer interface {
	CacheResult(namespace, result string)
}

// Key identifies one memoized call
type Key struct {
	Namespace string
	Args      []string
}

// NewKey builds a key from a function identity and its arguments
func NewKey(namespace string, args ...any) Key {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, fmt.Sprint(a))
	}
	return Key{Namespace: namespace, Args: parts}
}

// String renders the storage key: "namespace|arg1|arg2"
func (k Key) String() string {
	if len(k.Args) == 0 {
		return k.Namespace
	}
	return k.Namespace + "|" + strings.Join(k.Args, "|")
}

// Cache is the injectable result cache
// ⭐ SSOT: 结果缓存只在这里
type Cache struct {
	store    Store
	observer Observer
	logger   *logger.Logger
}

// New creates a cache over store
func New(store Store, log *logger.Logger) *Cache {
	if log == nil {
		log = logger.Nop()
	}
	return &Cache{store: store, logger: log}
}

// WithObserver attaches a hit/miss observer (metrics)
func (c *Cache) WithObserver(o Observer) *Cache {
	c.observer = o
	return c
}

func (c *Cache) observe(ns, result string) {
	if c.observer != nil {
		c.observer.CacheResult(ns, result)
	}
}

// GetOrCompute returns the cached value for key or computes it. compute returns
// the value and the TTL to keep it for; a zero TTL means "do not cache".
// Store failures degrade to recomputation and are only logged.
func GetOrCompute[T any](ctx context.Context, c *Cache, key Key, compute func(context.Context) (T, time.Duration)) T {
	k := key.String()
	log := c.logger.WithField("cache_key", k)

	data, found, err := c.store.Get(ctx, k)
	if err != nil {
		log.WithError(err).Warn("Cache read failed")
	}
	if found {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			c.observe(key.Namespace, "hit")
			return v
		}
		log.Warn("Cache entry undecodable, recomputing")
	}

	c.observe(key.Namespace, "miss")
	v, ttl := compute(ctx)
	if ttl <= 0 {
		return v
	}

	encoded, err := json.Marshal(v)
	if err != nil {
		log.WithError(err).Warn("Cache encode failed")
		return v
	}
	if err := c.store.Set(ctx, k, encoded, ttl); err != nil {
		log.WithError(err).Warn("Cache write failed")
	}

	return v
}
