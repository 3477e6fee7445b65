package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cuadre/backend/internal/domain/forms"
	"github.com/cuadre/backend/internal/domain/identity"
	"github.com/cuadre/backend/internal/domain/shared"
	"github.com/cuadre/backend/internal/infrastructure/auth"
	"github.com/cuadre/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Factory builds the Redis-backed stores when Redis is enabled and reachable,
// and their in-memory counterparts otherwise.
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	client                *redis.Client
	closers               []io.Closer
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// in-memory stores. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// WithClient uses an existing Redis client instead of dialing one
func WithClient(client *redis.Client) FactoryOption {
	return func(f *Factory) {
		f.client = client
	}
}

// NewFactory creates a factory and connects to Redis when it is enabled
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) (*Factory, error) {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client != nil || !cfg.Enabled {
		if f.client == nil {
			f.logger.Info("Redis disabled, using in-memory stores")
		}
		return f, nil
	}

	client, err := NewRedisClient(cfg)
	if err == nil {
		f.logger.Info("Using Redis stores", zap.String("addr", cfg.Addr()))
		f.client = client
		return f, nil
	}
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required but unavailable: %w", err)
	}
	f.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
		"Submission latches are not shared across instances.",
		zap.Error(err),
	)
	return f, nil
}

// NewRedisClient dials Redis and verifies the connection
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// UsingRedis reports whether the stores are Redis-backed
func (f *Factory) UsingRedis() bool {
	return f.client != nil
}

// Client returns the Redis client, or nil when running in memory
func (f *Factory) Client() *redis.Client {
	return f.client
}

// SubmissionLatch returns the latch guarding concurrent form submissions
func (f *Factory) SubmissionLatch() shared.SubmissionLatch {
	if f.client != nil {
		return NewRedisSubmissionLatch(f.client)
	}
	l := NewInMemorySubmissionLatch()
	f.closers = append(f.closers, l)
	return l
}

// ResetTokenStore returns the password reset token store
func (f *Factory) ResetTokenStore() identity.ResetTokenStore {
	if f.client != nil {
		return NewRedisResetTokenStore(f.client)
	}
	s := NewInMemoryResetTokenStore()
	f.closers = append(f.closers, s)
	return s
}

// RecentEntryCache returns the recent entries cache
func (f *Factory) RecentEntryCache() forms.RecentEntryCache {
	if f.client != nil {
		return NewRedisRecentEntryCache(f.client)
	}
	c := NewInMemoryRecentEntryCache()
	f.closers = append(f.closers, c)
	return c
}

// TokenBlacklist returns the JWT revocation list
func (f *Factory) TokenBlacklist() auth.TokenBlacklist {
	if f.client != nil {
		return auth.NewRedisTokenBlacklist(f.client)
	}
	return auth.NewInMemoryTokenBlacklist()
}

// Close stops in-memory sweepers and closes the Redis client
func (f *Factory) Close() error {
	var errs []error
	for _, c := range f.closers {
		errs = append(errs, c.Close())
	}
	if f.client != nil {
		errs = append(errs, f.client.Close())
	}
	return errors.Join(errs...)
}
