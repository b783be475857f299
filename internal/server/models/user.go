// Package models contains the persistent domain entities of the identity
// subsystem.
package models

import "time"

// User is a chat account. Email is globally unique (case-insensitive) and
// GoogleID, when present, is globally unique. PasswordHash is nil for
// OAuth-only accounts; GoogleID is nil for local-only accounts. An account
// always carries at least one of the two.
type User struct {
	ID           string
	Email        string
	PasswordHash *string
	DisplayName  *string
	GoogleID     *string
	IsActive     bool
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account can authenticate locally.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
