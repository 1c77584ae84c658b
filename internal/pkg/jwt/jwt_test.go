package jwt

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenClaims(t *testing.T) {
	svc := NewJWTService("test-secret", "1h", "24h")

	token, expiresAt, err := svc.GenerateAccessToken("u1", "eli@example.com", user.RoleManager, true)
	require.NoError(t, err)
	assert.NotZero(t, expiresAt)

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := parsed.AsMap(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "u1", claims[ClaimUserID])
	assert.Equal(t, "manager", claims[ClaimRole])
	assert.Equal(t, TokenTypeAccess, claims[ClaimType])
	assert.Equal(t, true, claims[ClaimMustResetPassword])
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "1h", "24h")

	first, _, err := svc.GenerateRefreshToken("u1")
	require.NoError(t, err)
	second, _, err := svc.GenerateRefreshToken("u1")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	userID, err := svc.ParseRefreshToken(first)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestParseRefreshTokenRejectsAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", "1h", "24h")
	access, _, err := svc.GenerateAccessToken("u1", "eli@example.com", user.RoleEmployee, false)
	require.NoError(t, err)

	_, err = svc.ParseRefreshToken(access)
	assert.Error(t, err)
}

func TestParseRefreshTokenRejectsForeignSignature(t *testing.T) {
	other := NewJWTService("other-secret", "1h", "24h")
	token, _, err := other.GenerateRefreshToken("u1")
	require.NoError(t, err)

	_, err = NewJWTService("test-secret", "1h", "24h").ParseRefreshToken(token)
	assert.Error(t, err)
}

func TestInvalidDuration(t *testing.T) {
	svc := NewJWTService("test-secret", "soon", "later")
	_, _, err := svc.GenerateAccessToken("u1", "e@example.com", user.RoleAdmin, false)
	assert.Error(t, err)
	_, _, err = svc.GenerateRefreshToken("u1")
	assert.Error(t, err)
}

func TestCookies(t *testing.T) {
	svc := NewJWTService("test-secret", "1h", "24h")
	c := svc.RefreshTokenCookie("tok", 1700000000)
	assert.Equal(t, "refresh_token", c.Name)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, "/api/v1/auth", c.Path)

	cleared := svc.ClearRefreshTokenCookie()
	assert.Empty(t, cleared.Value)
	assert.Equal(t, -1, cleared.MaxAge)
}
