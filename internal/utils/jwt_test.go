package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testManager() JWTManager {
	return JWTManager{
		Secret:          []byte("test-secret"),
		Issuer:          "cvstudio-test",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := testManager()

	token, ttl, err := m.IssueAccessToken("user-1", "alice@example.com", "user")
	require.NoError(t, err)
	require.Equal(t, 15*time.Minute, ttl)

	claims, err := m.ParseAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "alice@example.com", claims.Email)
	require.Equal(t, "user", claims.Role)
	require.Equal(t, "cvstudio-test", claims.Issuer)
}

func TestTokenTypeConfusionRejected(t *testing.T) {
	m := testManager()

	access, _, err := m.IssueAccessToken("user-1", "alice@example.com", "user")
	require.NoError(t, err)
	refresh, _, err := m.IssueRefreshToken("user-1", "alice@example.com", "user")
	require.NoError(t, err)

	// A refresh token must not pass as an access token, and vice versa.
	_, err = m.ParseAccessToken(refresh)
	require.ErrorIs(t, err, ErrInvalidToken)
	_, err = m.ParseRefreshToken(access)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ParseRefreshToken(refresh)
	require.NoError(t, err)
}

func TestParseRejectsWrongKey(t *testing.T) {
	m := testManager()
	token, _, err := m.IssueAccessToken("user-1", "alice@example.com", "user")
	require.NoError(t, err)

	other := testManager()
	other.Secret = []byte("different-secret")
	_, err = other.ParseAccessToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m := testManager()
	m.AccessTokenTTL = -time.Minute

	token, _, err := m.IssueAccessToken("user-1", "alice@example.com", "user")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	m := testManager()
	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := m.ParseAccessToken(token)
		require.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}
