// Package auth implements the stateless pieces of the identity subsystem:
// signed session tokens and one-way password credentials.
package auth

import (
	"errors"
	"time"

	"github.com/fashionguide/chat-backend/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the session token claims: subject is the user id, Email is
// carried for the boundary layer's convenience.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// TokenManager mints and validates HS256 session tokens. The signing secret
// is process-wide configuration injected once at construction; rotating it
// invalidates all outstanding tokens, which is acceptable given the short
// validity window. Tokens are never stored server-side.
type TokenManager struct {
	secret   []byte
	validity time.Duration
}

func NewTokenManager(secret []byte, validity time.Duration) *TokenManager {
	return &TokenManager{secret: secret, validity: validity}
}

// Issue mints a signed token for the user with issued-at now and expiry
// now + the configured validity.
func (m *TokenManager) Issue(userID, email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.validity)),
		},
		Email: email,
	})
	return token.SignedString(m.secret)
}

// Validate checks the signature first, then expiry. Malformed or forged
// tokens yield ErrInvalidToken; a correctly signed but stale token yields
// ErrTokenExpired.
func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}
