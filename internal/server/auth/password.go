package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a one-way salted hash of the password. bcrypt embeds a
// per-call random salt in the output, so verification needs no separate salt
// storage. Plaintext passwords are never logged or returned anywhere in this
// package.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword verifies the password against a stored hash. bcrypt's
// comparison is constant-time over the derived digest.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
