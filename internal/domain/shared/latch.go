package shared

import (
	"context"
	"time"
)

// SubmissionLatch guards a form instance against concurrent submissions.
// It is a mutex keyed by instance ID, not a queue: a caller that fails to
// acquire the latch must drop its request.
type SubmissionLatch interface {
	// TryAcquire takes the latch for key and returns the holder's token.
	// It returns false when another submission holds it. ttl bounds how
	// long a crashed holder can block the key.
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error)

	// Release frees the latch for key if token still holds it. Releasing a
	// free key, or one that expired and was taken by someone else, is a
	// no-op.
	Release(ctx context.Context, key, token string) error

	// Close releases any resources held by the latch
	Close() error
}
