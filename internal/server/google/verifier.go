// Package google consumes Google's identity assertions: ID token
// verification for the direct sign-in endpoint and the authorization-code
// flow for browser redirects.
package google

import "context"

// Identity is the subset of a verified provider assertion the identity
// subsystem cares about.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// TokenVerifier checks the authenticity and audience of a raw provider token
// and extracts the asserted identity. Implementations must reject tokens
// minted for a different client id.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}
