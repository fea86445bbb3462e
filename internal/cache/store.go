package cache

import (
	"context"
	"sync"
	"time"

	"github.com/wonny/dragonboard/pkg/redis"
)

// Store holds encoded results with a time-to-live
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type memoryEntry struct {
	value    []byte
	storedAt time.Time
	ttl      time.Duration
}

// MemoryStore is a process-local Store. Entries stay until a Set after
// their expiry overwrites them; nothing is evicted early.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	clock   Clock
}

// NewMemoryStore creates a MemoryStore driven by clock
func NewMemoryStore(clock Clock) *MemoryStore {
	if clock == nil {
		clock = SystemClock{}
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		clock:   clock,
	}
}

// Get returns a live entry; an entry aged ttl or more is a miss
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || s.clock.Now().Sub(e.storedAt) >= e.ttl {
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores or overwrites an entry stamped with the current clock time
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	s.entries[key] = memoryEntry{value: value, storedAt: s.clock.Now(), ttl: ttl}
	s.mu.Unlock()
	return nil
}

// StoredAt returns when a key was last written
func (s *MemoryStore) StoredAt(key string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e.storedAt, ok
}

// Len returns the number of entries, expired ones included
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// RedisStore shares results across instances; expiry is enforced by Redis
type RedisStore struct {
	cache *redis.Cache
}

// NewRedisStore wraps a pkg/redis cache
func NewRedisStore(c *redis.Cache) *RedisStore {
	return &RedisStore{cache: c}
}

// Get reads a payload from Redis
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.cache.GetBytes(ctx, key)
}

// Set writes a payload with a Redis TTL
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.cache.SetBytes(ctx, key, value, ttl)
}
