package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheService stores JSON-encoded values with a TTL. A miss is not an
// error: Get leaves the destination at its zero value, and callers detect
// absence through a sentinel field.
type CacheService struct {
	store store
}

type store interface {
	get(ctx context.Context, key string) ([]byte, bool, error)
	set(ctx context.Context, key string, raw []byte, ttl time.Duration) error
	del(ctx context.Context, key string) error
}

// NewRedis wraps an existing go-redis client.
func NewRedis(rdb *redis.Client) *CacheService {
	return &CacheService{store: &redisStore{rdb: rdb}}
}

// NewMemory returns a process-local cache for development and tests.
func NewMemory() *CacheService {
	return &CacheService{store: &memoryStore{items: make(map[string]memoryItem)}}
}

func (c *CacheService) Get(ctx context.Context, key string, dest any) error {
	raw, ok, err := c.store.get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode cached value %s: %w", key, err)
	}
	return nil
}

func (c *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value %s: %w", key, err)
	}
	return c.store.set(ctx, key, raw, ttl)
}

func (c *CacheService) Del(ctx context.Context, key string) error {
	return c.store.del(ctx, key)
}

type redisStore struct{ rdb *redis.Client }

func (s *redisStore) get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (s *redisStore) set(ctx context.Context, key string, raw []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, raw, ttl).Err()
}

func (s *redisStore) del(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

type memoryItem struct {
	raw       []byte
	expiresAt time.Time
}

type memoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryItem
}

func (s *memoryStore) get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	item, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
		s.mu.Lock()
		delete(s.items, key)
		s.mu.Unlock()
		return nil, false, nil
	}
	return item.raw, true, nil
}

func (s *memoryStore) set(_ context.Context, key string, raw []byte, ttl time.Duration) error {
	item := memoryItem{raw: raw}
	if ttl > 0 {
		item.expiresAt = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.items[key] = item
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) del(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}
