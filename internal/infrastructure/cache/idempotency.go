package cache

import (
	"context"
	"time"
)

// IdempotencyStore deduplicates requests carrying an Idempotency-Key
// header. A key is first reserved, then the response payload is stored
// so replays return the original result instead of re-executing.
type IdempotencyStore interface {
	// Reserve atomically claims a key. Returns false when the key is
	// already claimed by an earlier request.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// SaveResult stores the response payload for a claimed key
	SaveResult(ctx context.Context, key, payload string, ttl time.Duration) error

	// GetResult returns the stored payload for a key, if any
	GetResult(ctx context.Context, key string) (string, bool, error)

	// Release frees a claimed key so the request can be retried, used
	// when the guarded operation failed
	Release(ctx context.Context, key string) error
}
