package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_UsesConfiguredTTL(t *testing.T) {
	ttl := 2 * time.Hour
	tm := NewTokenManager("test-secret", ttl)

	start := time.Now()

	token, err := tm.GenerateToken()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)

	expectedExpiry := start.Add(ttl)
	assert.WithinDuration(t, expectedExpiry, claims.ExpiresAt.Time, 2*time.Second)
}

func TestTokenManager_ValidateToken(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	t.Run("valid token round-trips", func(t *testing.T) {
		token, err := tm.GenerateToken()
		require.NoError(t, err)

		claims, err := tm.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, ScopeDashboard, claims.Scope)
		assert.Equal(t, ScopeDashboard, claims.Subject)
	})

	t.Run("rejects token signed with a different secret", func(t *testing.T) {
		other := NewTokenManager("other-secret", time.Hour)
		token, err := other.GenerateToken()
		require.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expired := NewTokenManager("test-secret", -time.Minute)
		token, err := expired.GenerateToken()
		require.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := tm.ValidateToken("not-a-token")
		assert.Error(t, err)
	})
}
