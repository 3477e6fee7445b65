package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cuadre/backend/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const resetKeyPrefix = "cuadre:reset:"

// InMemoryResetTokenStore keeps reset tokens in process memory
type InMemoryResetTokenStore struct {
	store *memoryStore
}

// NewInMemoryResetTokenStore creates a new in-memory reset token store
func NewInMemoryResetTokenStore() *InMemoryResetTokenStore {
	return &InMemoryResetTokenStore{store: newMemoryStore(5 * time.Minute)}
}

func (s *InMemoryResetTokenStore) Save(_ context.Context, tokenHash string, userID uuid.UUID, ttl time.Duration) error {
	s.store.set(tokenHash, userID, ttl)
	return nil
}

func (s *InMemoryResetTokenStore) Consume(_ context.Context, tokenHash string) (uuid.UUID, error) {
	v, ok := s.store.getDel(tokenHash)
	if !ok {
		return uuid.Nil, identity.ErrResetTokenInvalid
	}
	return v.(uuid.UUID), nil
}

func (s *InMemoryResetTokenStore) Close() error {
	return s.store.Close()
}

var _ identity.ResetTokenStore = (*InMemoryResetTokenStore)(nil)

// RedisResetTokenStore keeps reset tokens in Redis
type RedisResetTokenStore struct {
	client redis.UniversalClient
}

// NewRedisResetTokenStore wraps an existing Redis client
func NewRedisResetTokenStore(client redis.UniversalClient) *RedisResetTokenStore {
	return &RedisResetTokenStore{client: client}
}

func (s *RedisResetTokenStore) Save(ctx context.Context, tokenHash string, userID uuid.UUID, ttl time.Duration) error {
	if err := s.client.Set(ctx, resetKeyPrefix+tokenHash, userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	return nil
}

func (s *RedisResetTokenStore) Consume(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	raw, err := s.client.GetDel(ctx, resetKeyPrefix+tokenHash).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, identity.ErrResetTokenInvalid
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to read reset token: %w", err)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, identity.ErrResetTokenInvalid
	}
	return id, nil
}

var _ identity.ResetTokenStore = (*RedisResetTokenStore)(nil)
