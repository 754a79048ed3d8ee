package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletly/config"
	"walletly/internal/auth"
)

func jwtConfig() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
		Issuer:        "walletly-test",
	}
}

func TestAccessToken_RoundTrip(t *testing.T) {
	cfg := jwtConfig()

	token, err := auth.GenerateAccessToken(cfg, "user-1", "ada@example.com")
	require.NoError(t, err)

	claims, err := auth.ParseAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestAccessToken_WrongSecret(t *testing.T) {
	cfg := jwtConfig()
	token, err := auth.GenerateAccessToken(cfg, "user-1", "ada@example.com")
	require.NoError(t, err)

	other := jwtConfig()
	other.AccessSecret = "different"
	_, err = auth.ParseAccessToken(other, token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	cfg := jwtConfig()

	token, err := auth.GenerateRefreshToken(cfg, "user-1")
	require.NoError(t, err)

	uid, err := auth.ParseRefreshToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", uid)
}

func TestRefreshToken_NotValidAsAccess(t *testing.T) {
	cfg := jwtConfig()
	token, err := auth.GenerateRefreshToken(cfg, "user-1")
	require.NoError(t, err)

	_, err = auth.ParseAccessToken(cfg, token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestExpiredAccessToken_Rejected(t *testing.T) {
	cfg := jwtConfig()
	cfg.AccessExpiry = -time.Minute

	token, err := auth.GenerateAccessToken(cfg, "user-1", "ada@example.com")
	require.NoError(t, err)

	_, err = auth.ParseAccessToken(cfg, token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
