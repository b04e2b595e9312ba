package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_Reserve(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	ok, err := store.Reserve(ctx, "key-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Reserve(ctx, "key-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.Reserve(ctx, "key-2", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInMemoryIdempotencyStore_ReserveExpired(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	ok, err := store.Reserve(ctx, "key-1", time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ok)

	time.Sleep(5 * time.Millisecond)

	ok, err = store.Reserve(ctx, "key-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "expired reservation should be reclaimable")
}

func TestInMemoryIdempotencyStore_SaveAndGetResult(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	_, found, err := store.GetResult(ctx, "key-1")
	require.NoError(t, err)
	assert.False(t, found)

	ok, err := store.Reserve(ctx, "key-1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	payload, found, err := store.GetResult(ctx, "key-1")
	require.NoError(t, err)
	assert.True(t, found, "reserved key should read as present")
	assert.Empty(t, payload)

	err = store.SaveResult(ctx, "key-1", `{"payment_id":"abc"}`, time.Minute)
	require.NoError(t, err)

	payload, found, err = store.GetResult(ctx, "key-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"payment_id":"abc"}`, payload)
}

func TestInMemoryIdempotencyStore_GetResultExpired(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	err := store.SaveResult(ctx, "key-1", "payload", time.Millisecond)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, found, err := store.GetResult(ctx, "key-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInMemoryIdempotencyStore_Release(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	ok, err := store.Reserve(ctx, "key-1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	err = store.Release(ctx, "key-1")
	require.NoError(t, err)

	ok, err = store.Reserve(ctx, "key-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "released key should be claimable again")
}

func TestInMemoryIdempotencyStore_EvictExpired(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.SaveResult(ctx, "stale", "x", time.Millisecond))
	require.NoError(t, store.SaveResult(ctx, "fresh", "y", time.Minute))

	time.Sleep(5 * time.Millisecond)
	store.evictExpired()

	store.mu.RLock()
	defer store.mu.RUnlock()
	assert.NotContains(t, store.entries, "stale")
	assert.Contains(t, store.entries, "fresh")
}
