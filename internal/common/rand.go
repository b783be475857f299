package common

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"
)

// MakeRandDigits generates a uniformly random numeric string of exactly n
// digits, zero-padded on the left. With n=6 the result covers 000000–999999.
func MakeRandDigits(n int) (string, error) {
	bound := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
	v, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", n, v), nil
}

// MakeStateToken generates an opaque URL-safe token for OAuth state
// round-trips.
func MakeStateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NormalizeEmail brings an email address to its canonical form. Every path
// that stores or looks up an email must go through this to keep the
// case-insensitive uniqueness invariant intact.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
