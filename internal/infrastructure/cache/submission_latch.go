package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/cuadre/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const latchKeyPrefix = "cuadre:latch:"

// releaseScript deletes the latch only while it still carries the caller's token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// InMemorySubmissionLatch serializes submissions within one process
type InMemorySubmissionLatch struct {
	store *memoryStore
}

// NewInMemorySubmissionLatch creates a new in-memory latch
func NewInMemorySubmissionLatch() *InMemorySubmissionLatch {
	return &InMemorySubmissionLatch{store: newMemoryStore(time.Minute)}
}

func (l *InMemorySubmissionLatch) TryAcquire(_ context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	if !l.store.setNX(key, token, ttl) {
		return "", false, nil
	}
	return token, true, nil
}

func (l *InMemorySubmissionLatch) Release(_ context.Context, key, token string) error {
	l.store.delIf(key, token)
	return nil
}

func (l *InMemorySubmissionLatch) Close() error {
	return l.store.Close()
}

var _ shared.SubmissionLatch = (*InMemorySubmissionLatch)(nil)

// RedisSubmissionLatch shares the latch across instances with SET NX PX.
// Each acquisition stores a random token and Release compares it before
// deleting.
type RedisSubmissionLatch struct {
	client redis.UniversalClient
}

// NewRedisSubmissionLatch wraps an existing Redis client. The client is
// owned by the caller and is not closed by Close.
func NewRedisSubmissionLatch(client redis.UniversalClient) *RedisSubmissionLatch {
	return &RedisSubmissionLatch{client: client}
}

func (l *RedisSubmissionLatch) TryAcquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, latchKeyPrefix+key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire submission latch: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (l *RedisSubmissionLatch) Release(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{latchKeyPrefix + key}, token).Err(); err != nil {
		return fmt.Errorf("failed to release submission latch: %w", err)
	}
	return nil
}

func (l *RedisSubmissionLatch) Close() error {
	return nil
}

var _ shared.SubmissionLatch = (*RedisSubmissionLatch)(nil)
