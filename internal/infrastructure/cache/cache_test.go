package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cuadre/backend/internal/domain/forms"
	"github.com/cuadre/backend/internal/domain/identity"
	"github.com/cuadre/backend/internal/infrastructure/auth"
	"github.com/cuadre/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	s := newMemoryStore(time.Hour)
	defer s.Close()

	now := time.Now()
	s.now = func() time.Time { return now }

	t.Run("setNX only on absent keys", func(t *testing.T) {
		assert.True(t, s.setNX("a", 1, time.Minute))
		assert.False(t, s.setNX("a", 2, time.Minute))
		v, ok := s.get("a")
		require.True(t, ok)
		assert.Equal(t, 1, v)
	})

	t.Run("expired keys can be taken again", func(t *testing.T) {
		assert.True(t, s.setNX("b", 1, time.Second))
		now = now.Add(2 * time.Second)
		assert.True(t, s.setNX("b", 2, time.Second))
	})

	t.Run("getDel removes the key", func(t *testing.T) {
		s.set("c", "x", time.Minute)
		v, ok := s.getDel("c")
		require.True(t, ok)
		assert.Equal(t, "x", v)
		_, ok = s.get("c")
		assert.False(t, ok)
	})

	t.Run("cleanup drops expired entries", func(t *testing.T) {
		s.set("short", 1, time.Second)
		s.set("long", 1, time.Hour)
		now = now.Add(time.Minute)
		s.cleanup()
		_, ok := s.get("long")
		assert.True(t, ok)
		_, ok = s.get("short")
		assert.False(t, ok)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		other := newMemoryStore(time.Hour)
		assert.NoError(t, other.Close())
		assert.NoError(t, other.Close())
	})
}

func TestInMemorySubmissionLatch(t *testing.T) {
	ctx := context.Background()
	latch := NewInMemorySubmissionLatch()
	defer latch.Close()

	token, ok, err := latch.TryAcquire(ctx, "form-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, token)

	_, ok, _ = latch.TryAcquire(ctx, "form-1", time.Minute)
	assert.False(t, ok, "second submission is dropped")

	_, ok, _ = latch.TryAcquire(ctx, "form-2", time.Minute)
	assert.True(t, ok, "latches are per instance")

	require.NoError(t, latch.Release(ctx, "form-1", "not-the-holder"))
	_, ok, _ = latch.TryAcquire(ctx, "form-1", time.Minute)
	assert.False(t, ok, "a foreign token does not free the latch")

	require.NoError(t, latch.Release(ctx, "form-1", token))
	require.NoError(t, latch.Release(ctx, "never-held", "x"))

	_, ok, _ = latch.TryAcquire(ctx, "form-1", time.Minute)
	assert.True(t, ok)
}

func TestInMemorySubmissionLatch_ExpiredHolderCannotRelease(t *testing.T) {
	ctx := context.Background()
	latch := NewInMemorySubmissionLatch()
	defer latch.Close()

	now := time.Now()
	latch.store.now = func() time.Time { return now }

	stale, ok, _ := latch.TryAcquire(ctx, "form-1", time.Second)
	require.True(t, ok)

	now = now.Add(2 * time.Second)
	fresh, ok, _ := latch.TryAcquire(ctx, "form-1", time.Minute)
	require.True(t, ok, "expired latch can be retaken")

	require.NoError(t, latch.Release(ctx, "form-1", stale))
	_, ok, _ = latch.TryAcquire(ctx, "form-1", time.Minute)
	assert.False(t, ok, "the slow first holder must not free the second holder's latch")

	require.NoError(t, latch.Release(ctx, "form-1", fresh))
	_, ok, _ = latch.TryAcquire(ctx, "form-1", time.Minute)
	assert.True(t, ok)
}

func TestInMemorySubmissionLatch_Concurrent(t *testing.T) {
	ctx := context.Background()
	latch := NewInMemorySubmissionLatch()
	defer latch.Close()

	const n = 50
	var wg sync.WaitGroup
	results := make(chan bool, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, _ := latch.TryAcquire(ctx, "same", time.Minute)
			results <- ok
		}()
	}
	wg.Wait()
	close(results)

	acquired := 0
	for ok := range results {
		if ok {
			acquired++
		}
	}
	assert.Equal(t, 1, acquired)
}

func TestInMemoryResetTokenStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryResetTokenStore()
	defer store.Close()

	userID := uuid.New()
	require.NoError(t, store.Save(ctx, "hash", userID, time.Minute))

	got, err := store.Consume(ctx, "hash")
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	_, err = store.Consume(ctx, "hash")
	assert.ErrorIs(t, err, identity.ErrResetTokenInvalid, "tokens are single use")

	_, err = store.Consume(ctx, "unknown")
	assert.ErrorIs(t, err, identity.ErrResetTokenInvalid)
}

func TestInMemoryRecentEntryCache(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryRecentEntryCache()
	defer c.Close()

	_, hit, err := c.Get(ctx, "org:1")
	require.NoError(t, err)
	assert.False(t, hit)

	entries := []forms.RecentEntry{{ID: uuid.New(), Type: forms.RecentEntryTypeSafe, EmployeeName: "Ana"}}
	require.NoError(t, c.Set(ctx, "org:1", entries, time.Minute))

	entries[0].EmployeeName = "mutated"
	got, hit, err := c.Get(ctx, "org:1")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, "Ana", got[0].EmployeeName)

	require.NoError(t, c.Invalidate(ctx, "org:1"))
	_, hit, _ = c.Get(ctx, "org:1")
	assert.False(t, hit)
}

func TestFactory_RedisDisabled(t *testing.T) {
	f, err := NewFactory(config.RedisConfig{Enabled: false})
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, f.UsingRedis())
	assert.Nil(t, f.Client())
	assert.IsType(t, &InMemorySubmissionLatch{}, f.SubmissionLatch())
	assert.IsType(t, &InMemoryResetTokenStore{}, f.ResetTokenStore())
	assert.IsType(t, &InMemoryRecentEntryCache{}, f.RecentEntryCache())
	assert.IsType(t, &auth.InMemoryTokenBlacklist{}, f.TokenBlacklist())
}

func TestFactory_RedisUnreachable(t *testing.T) {
	cfg := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}

	t.Run("falls back to memory", func(t *testing.T) {
		f, err := NewFactory(cfg)
		require.NoError(t, err)
		defer f.Close()
		assert.False(t, f.UsingRedis())
	})

	t.Run("fails without fallback", func(t *testing.T) {
		_, err := NewFactory(cfg, WithInMemoryFallback(false))
		assert.Error(t, err)
	})
}
