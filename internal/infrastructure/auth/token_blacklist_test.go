package auth_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradewiser/backend/internal/infrastructure/auth"
)

func TestInMemoryTokenBlacklist_RevokeSingleToken(t *testing.T) {
	bl := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, bl.AddToBlacklist(ctx, "jti-logout", time.Hour))

	revoked, err := bl.IsBlacklisted(ctx, "jti-logout")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = bl.IsBlacklisted(ctx, "jti-other")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_EntryExpires(t *testing.T) {
	bl := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, bl.AddToBlacklist(ctx, "jti-short", time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	revoked, err := bl.IsBlacklisted(ctx, "jti-short")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_UserCutoff(t *testing.T) {
	bl := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	oldToken := time.Now().Add(-time.Hour)

	invalid, err := bl.IsUserTokenInvalidated(ctx, "user-1", oldToken)
	require.NoError(t, err)
	assert.False(t, invalid, "no cutoff recorded yet")

	require.NoError(t, bl.AddUserTokensToBlacklist(ctx, "user-1", time.Hour))

	invalid, err = bl.IsUserTokenInvalidated(ctx, "user-1", oldToken)
	require.NoError(t, err)
	assert.True(t, invalid, "token minted before the cutoff is dead")

	invalid, err = bl.IsUserTokenInvalidated(ctx, "user-1", time.Now().Add(time.Second))
	require.NoError(t, err)
	assert.False(t, invalid, "token minted after the cutoff stays valid")

	invalid, err = bl.IsUserTokenInvalidated(ctx, "user-2", oldToken)
	require.NoError(t, err)
	assert.False(t, invalid, "other users are unaffected")
}

func TestInMemoryTokenBlacklist_IndependentEntries(t *testing.T) {
	bl := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, bl.AddToBlacklist(ctx, fmt.Sprintf("jti-%d", i), time.Hour))
	}

	for i := 0; i < 5; i++ {
		revoked, err := bl.IsBlacklisted(ctx, fmt.Sprintf("jti-%d", i))
		require.NoError(t, err)
		assert.True(t, revoked)
	}

	revoked, err := bl.IsBlacklisted(ctx, "jti-never-added")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenBlacklist_Implementations(t *testing.T) {
	var _ auth.TokenBlacklist = (*auth.InMemoryTokenBlacklist)(nil)
	var _ auth.TokenBlacklist = (*auth.RedisTokenBlacklist)(nil)
}
