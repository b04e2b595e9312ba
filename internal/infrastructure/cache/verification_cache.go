package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// VerificationCache caches rendered receipt verification payloads keyed
// by verification code. The public verify endpoint is unauthenticated
// and may be hit repeatedly for the same QR code, so successful lookups
// are cached for a short TTL.
// Set's maxTTL caps how long the entry may live; a payload must not
// outlast the receipt state it describes. Non-positive means no cap.
type VerificationCache interface {
	Get(ctx context.Context, code string) (string, bool, error)
	Set(ctx context.Context, code, payload string, maxTTL time.Duration) error
	Invalidate(ctx context.Context, code string) error
}

// RedisVerificationCache implements VerificationCache using Redis.
type RedisVerificationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisVerificationCache(client *redis.Client, ttl time.Duration) *RedisVerificationCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisVerificationCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisVerificationCache) key(code string) string {
	return "receipt:verify:" + code
}

func (c *RedisVerificationCache) Get(ctx context.Context, code string) (string, bool, error) {
	payload, err := c.client.Get(ctx, c.key(code)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read verification cache: %w", err)
	}
	return payload, true, nil
}

func (c *RedisVerificationCache) Set(ctx context.Context, code, payload string, maxTTL time.Duration) error {
	ttl := c.ttl
	if maxTTL > 0 && maxTTL < ttl {
		ttl = maxTTL
	}
	if err := c.client.Set(ctx, c.key(code), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write verification cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached payload for a code. Called when the
// underlying receipt changes status so stale verification results are
// not served.
func (c *RedisVerificationCache) Invalidate(ctx context.Context, code string) error {
	if err := c.client.Del(ctx, c.key(code)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate verification cache: %w", err)
	}
	return nil
}

var _ VerificationCache = (*RedisVerificationCache)(nil)

// NoopVerificationCache is used when Redis is unavailable or caching is
// disabled. Every lookup misses.
type NoopVerificationCache struct{}

func (NoopVerificationCache) Get(context.Context, string) (string, bool, error) {
	return "", false, nil
}

func (NoopVerificationCache) Set(context.Context, string, string, time.Duration) error { return nil }

func (NoopVerificationCache) Invalidate(context.Context, string) error { return nil }

var _ VerificationCache = NoopVerificationCache{}
