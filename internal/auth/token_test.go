package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 7, 30)

	token, exp, err := tm.GenerateToken("user-1", "a@b.com", false)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), exp, time.Minute)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
}

func TestRememberExtendsExpiry(t *testing.T) {
	tm := NewTokenManager("test-secret", 7, 30)

	_, short, err := tm.GenerateToken("user-1", "a@b.com", false)
	require.NoError(t, err)
	_, long, err := tm.GenerateToken("user-1", "a@b.com", true)
	require.NoError(t, err)

	assert.True(t, long.After(short.Add(20*24*time.Hour)))
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", 7, 30)
	verifier := NewTokenManager("secret-b", 7, 30)

	token, _, err := issuer.GenerateToken("user-1", "a@b.com", false)
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", 7, 30)
	_, err := tm.ParseToken("not.a.token")
	assert.Error(t, err)
}
