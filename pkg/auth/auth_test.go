package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m, err := NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	token, err := m.Generate("session-123", "alice")
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "session-123", claims.SessionID)
	assert.Equal(t, "alice", claims.Username)
}

func TestTokenExpired(t *testing.T) {
	m, err := NewTokenManager("test-secret", -time.Minute)
	require.NoError(t, err)
	// expiry <= 0 falls back to the default, so force a short-lived manager
	m.expiry = -time.Minute

	token, err := m.Generate("session-123", "alice")
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenWrongSecret(t *testing.T) {
	m1, err := NewTokenManager("secret-one", time.Hour)
	require.NoError(t, err)
	m2, err := NewTokenManager("secret-two", time.Hour)
	require.NoError(t, err)

	token, err := m1.Generate("session-123", "alice")
	require.NoError(t, err)

	_, err = m2.Validate(token)
	assert.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	m, err := NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	_, err = m.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	_, err := NewTokenManager("", time.Hour)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3"))
	assert.False(t, CheckPassword("", "hunter2"))
}

func TestUserContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	_, err := GetUserFromContext(ctx)
	assert.Error(t, err)

	user := &UserContext{SessionID: "s", UserID: 7, Username: "alice"}
	got, err := GetUserFromContext(SetUserInContext(ctx, user))
	require.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestRateLimiter(t *testing.T) {
	limiter := NewTokenBucketLimiter(2, time.Hour)
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, "1.2.3.4"))
	assert.True(t, limiter.Allow(ctx, "1.2.3.4"))
	assert.False(t, limiter.Allow(ctx, "1.2.3.4"))

	// Other keys have their own bucket.
	assert.True(t, limiter.Allow(ctx, "5.6.7.8"))
}
