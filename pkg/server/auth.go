package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	cerrors "github.com/vango-dev/docroutes/internal/errors"
)

// AdminClaims are the claims carried by an admin bearer token.
type AdminClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// ScopeReload allows POST /_routes/reload.
const ScopeReload = "routes:reload"

// AdminAuth issues and checks HS256 admin tokens.
type AdminAuth struct {
	secretKey []byte
}

// NewAdminAuth creates an authenticator for secret.
func NewAdminAuth(secret string) *AdminAuth {
	return &AdminAuth{secretKey: []byte(secret)}
}

// GenerateToken creates a token for subject with the reload scope, valid for ttl.
func (a *AdminAuth) GenerateToken(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("subject cannot be empty")
	}

	now := time.Now()
	claims := AdminClaims{
		Scope: ScopeReload,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// ValidateToken checks a token, with or without its "Bearer " prefix, and
// returns its claims.
func (a *AdminAuth) ValidateToken(tokenString string) (*AdminClaims, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	if tokenString == "" {
		return nil, errors.New("token cannot be empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secretKey, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, errors.New("token is not valid")
	}
	if claims.Scope != ScopeReload {
		return nil, fmt.Errorf("token scope %q does not allow reloads", claims.Scope)
	}
	return claims, nil
}

// Middleware rejects requests without a valid admin bearer token.
func (a *AdminAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, cerrors.New("E131"))
			return
		}
		if _, err := a.ValidateToken(header); err != nil {
			writeError(w, http.StatusUnauthorized, cerrors.New("E131").Wrap(err))
			return
		}
		next.ServeHTTP(w, r)
	})
}
