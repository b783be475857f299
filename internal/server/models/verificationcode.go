package models

import "time"

// VerificationCode is a single-use, time-boxed email verification secret.
// The code is string-typed to preserve leading zeros. Rows are never deleted;
// consumed or superseded codes remain for audit.
type VerificationCode struct {
	ID        string
	UserID    string
	Code      string
	ExpiresAt time.Time
	IsUsed    bool
	CreatedAt time.Time
}

// Expired reports whether the code is past its expiry at the given instant.
func (c *VerificationCode) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
