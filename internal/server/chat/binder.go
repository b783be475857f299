// Package chat carries the realtime channel: identity binding at connection
// time, the websocket message loop, and the thin history/responder
// collaborators around it.
package chat

import (
	"github.com/fashionguide/chat-backend/internal/server/auth"
)

// Identity is the resolved identity of a realtime connection. The zero value
// is the anonymous binding.
type Identity struct {
	UserID string
	Email  string
}

// Anonymous reports whether the connection carries no resolved user.
func (i Identity) Anonymous() bool { return i.UserID == "" }

// Binder resolves an optional session token into a connection identity.
// Policy, fixed here rather than left ambiguous: an absent token binds the
// connection anonymously; a present but invalid or expired token is an
// error, and the caller must reject the connection before the upgrade.
type Binder struct {
	tokens *auth.TokenManager
}

func NewBinder(tokens *auth.TokenManager) *Binder {
	return &Binder{tokens: tokens}
}

// Bind validates the token (when present) and returns the identity the
// connection is bound to for its whole lifetime.
func (b *Binder) Bind(token string) (Identity, error) {
	if token == "" {
		return Identity{}, nil
	}
	claims, err := b.tokens.Validate(token)
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: claims.Subject, Email: claims.Email}, nil
}
