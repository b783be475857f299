// Package common defines shared constants and sentinel errors used across
// the service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Account errors.
	ErrDuplicateEmail   = errors.New("email already registered")
	ErrIdentityConflict = errors.New("email linked to a different federated identity")

	// Credential errors. Unknown email and wrong password are deliberately
	// indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotVerified        = errors.New("email not verified")

	// Verification code errors. Consume never reveals whether the code was
	// wrong, expired, or already used.
	ErrInvalidOrExpiredCode = errors.New("invalid or expired verification code")
	ErrAlreadyVerified      = errors.New("email already verified")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Federation errors.
	ErrInvalidFederatedToken = errors.New("invalid federated token")
)
