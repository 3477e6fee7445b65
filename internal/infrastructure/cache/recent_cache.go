package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cuadre/backend/internal/domain/forms"
	"github.com/redis/go-redis/v9"
)

const recentKeyPrefix = "cuadre:recent:"

// InMemoryRecentEntryCache caches recent entry lists in process memory
type InMemoryRecentEntryCache struct {
	store *memoryStore
}

// NewInMemoryRecentEntryCache creates a new in-memory recent entries cache
func NewInMemoryRecentEntryCache() *InMemoryRecentEntryCache {
	return &InMemoryRecentEntryCache{store: newMemoryStore(time.Minute)}
}

func (c *InMemoryRecentEntryCache) Get(_ context.Context, scope string) ([]forms.RecentEntry, bool, error) {
	v, ok := c.store.get(scope)
	if !ok {
		return nil, false, nil
	}
	entries := v.([]forms.RecentEntry)
	out := make([]forms.RecentEntry, len(entries))
	copy(out, entries)
	return out, true, nil
}

func (c *InMemoryRecentEntryCache) Set(_ context.Context, scope string, entries []forms.RecentEntry, ttl time.Duration) error {
	stored := make([]forms.RecentEntry, len(entries))
	copy(stored, entries)
	c.store.set(scope, stored, ttl)
	return nil
}

func (c *InMemoryRecentEntryCache) Invalidate(_ context.Context, scope string) error {
	c.store.del(scope)
	return nil
}

func (c *InMemoryRecentEntryCache) Close() error {
	return c.store.Close()
}

var _ forms.RecentEntryCache = (*InMemoryRecentEntryCache)(nil)

// RedisRecentEntryCache stores recent entry lists as JSON in Redis
type RedisRecentEntryCache struct {
	client redis.UniversalClient
}

// NewRedisRecentEntryCache wraps an existing Redis client
func NewRedisRecentEntryCache(client redis.UniversalClient) *RedisRecentEntryCache {
	return &RedisRecentEntryCache{client: client}
}

func (c *RedisRecentEntryCache) Get(ctx context.Context, scope string) ([]forms.RecentEntry, bool, error) {
	raw, err := c.client.Get(ctx, recentKeyPrefix+scope).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read recent entries cache: %w", err)
	}
	var entries []forms.RecentEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, fmt.Errorf("failed to decode recent entries cache: %w", err)
	}
	return entries, true, nil
}

func (c *RedisRecentEntryCache) Set(ctx context.Context, scope string, entries []forms.RecentEntry, ttl time.Duration) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode recent entries: %w", err)
	}
	if err := c.client.Set(ctx, recentKeyPrefix+scope, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write recent entries cache: %w", err)
	}
	return nil
}

func (c *RedisRecentEntryCache) Invalidate(ctx context.Context, scope string) error {
	if err := c.client.Del(ctx, recentKeyPrefix+scope).Err(); err != nil {
		return fmt.Errorf("failed to invalidate recent entries cache: %w", err)
	}
	return nil
}

var _ forms.RecentEntryCache = (*RedisRecentEntryCache)(nil)
