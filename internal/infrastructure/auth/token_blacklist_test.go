package auth_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopmall/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ auth.TokenBlacklist = (*auth.InMemoryTokenBlacklist)(nil)
	_ auth.TokenBlacklist = (*auth.RedisTokenBlacklist)(nil)
)

func TestInMemoryTokenBlacklist_LogoutRevokesOnlyThatToken(t *testing.T) {
	bl := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, bl.AddToBlacklist(ctx, "access-jti", time.Hour))

	tests := []struct {
		jti     string
		revoked bool
	}{
		{"access-jti", true},
		{"refresh-jti", false},
		{"", false},
	}
	for _, tt := range tests {
		got, err := bl.IsBlacklisted(ctx, tt.jti)
		require.NoError(t, err)
		assert.Equal(t, tt.revoked, got, "jti %q", tt.jti)
	}
}

func TestInMemoryTokenBlacklist_EntriesExpireWithTheToken(t *testing.T) {
	bl := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, bl.AddToBlacklist(ctx, "short-lived", time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	revoked, err := bl.IsBlacklisted(ctx, "short-lived")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_RoleChangeEndsEarlierSessions(t *testing.T) {
	bl := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()
	issuedEarlier := time.Now().Add(-30 * time.Minute)

	invalidated, err := bl.IsUserTokenInvalidated(ctx, "brand-admin", issuedEarlier)
	require.NoError(t, err)
	assert.False(t, invalidated, "nothing revoked yet")

	require.NoError(t, bl.AddUserTokensToBlacklist(ctx, "brand-admin", time.Hour))

	invalidated, err = bl.IsUserTokenInvalidated(ctx, "brand-admin", issuedEarlier)
	require.NoError(t, err)
	assert.True(t, invalidated)

	time.Sleep(2 * time.Millisecond)
	invalidated, err = bl.IsUserTokenInvalidated(ctx, "brand-admin", time.Now().Add(time.Second))
	require.NoError(t, err)
	assert.False(t, invalidated, "a login after the change is valid")

	invalidated, err = bl.IsUserTokenInvalidated(ctx, "customer", issuedEarlier)
	require.NoError(t, err)
	assert.False(t, invalidated, "other users keep their sessions")
}

func TestInMemoryTokenBlacklist_RoleChangeIsForgottenAfterTTL(t *testing.T) {
	bl := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()
	issuedEarlier := time.Now().Add(-time.Minute)

	require.NoError(t, bl.AddUserTokensToBlacklist(ctx, "brand-admin", time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	invalidated, err := bl.IsUserTokenInvalidated(ctx, "brand-admin", issuedEarlier)
	require.NoError(t, err)
	assert.False(t, invalidated, "no token outlives the ttl")
}

func TestInMemoryTokenBlacklist_ConcurrentLogouts(t *testing.T) {
	bl := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	const n = 20
	done := make(chan struct{})
	for i := 0; i < n; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			assert.NoError(t, bl.AddToBlacklist(ctx, fmt.Sprintf("jti-%d", i), time.Hour))
		}(i)
	}
	for i := 0; i < n; i++ {
		<-done
	}

	for i := 0; i < n; i++ {
		revoked, err := bl.IsBlacklisted(ctx, fmt.Sprintf("jti-%d", i))
		require.NoError(t, err)
		assert.True(t, revoked)
	}
}
