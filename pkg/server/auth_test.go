package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminAuthRoundTrip(t *testing.T) {
	auth := NewAdminAuth("secret")
	token, err := auth.GenerateToken("deploy-bot", time.Minute)
	require.NoError(t, err)

	claims, err := auth.ValidateToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "deploy-bot", claims.Subject)
	assert.Equal(t, ScopeReload, claims.Scope)
}

func TestAdminAuthRejects(t *testing.T) {
	auth := NewAdminAuth("secret")

	_, err := auth.GenerateToken("", time.Minute)
	assert.Error(t, err)

	expired, err := auth.GenerateToken("bot", -time.Minute)
	require.NoError(t, err)
	_, err = auth.ValidateToken(expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	wrongScope, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AdminClaims{
		Scope: "routes:read",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = auth.ValidateToken(wrongScope)
	assert.ErrorContains(t, err, "does not allow reloads")

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AdminClaims{Scope: ScopeReload}).
		SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = auth.ValidateToken(noExpiry)
	assert.Error(t, err)

	_, err = auth.ValidateToken("")
	assert.Error(t, err)
	_, err = auth.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}
