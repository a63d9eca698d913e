package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWT() *JWTManager {
	return NewJWTManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestJWT()

	tok, exp, err := m.GenerateAccessToken("user-1", "sess-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 5*time.Second)

	claims, err := m.ParseAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "sess-1", claims.SessionID)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := newTestJWT()

	tok, _, err := m.GenerateRefreshToken("user-1", "sess-1")
	require.NoError(t, err)

	claims, err := m.ParseRefreshToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	m := newTestJWT()

	access, _, err := m.GenerateAccessToken("user-1", "sess-1")
	require.NoError(t, err)

	// A refresh-secret parse of an access token must fail.
	_, err = m.ParseRefreshToken(access)
	assert.Error(t, err)
}

func TestWrongSecretRejected(t *testing.T) {
	m := newTestJWT()
	other := NewJWTManager("different-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)

	tok, _, err := m.GenerateAccessToken("user-1", "sess-1")
	require.NoError(t, err)

	_, err = other.ParseAccessToken(tok)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewJWTManager("access-secret", "refresh-secret", -time.Minute, 24*time.Hour)

	tok, _, err := m.GenerateAccessToken("user-1", "sess-1")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(tok)
	assert.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	m := newTestJWT()

	_, err := m.ParseAccessToken("not.a.jwt")
	assert.Error(t, err)
}
