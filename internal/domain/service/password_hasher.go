// Package service declares the ports the use cases call out through:
// identity, tokens, storage, cache, events and QR codes.
package service

// PasswordHasher hashes local credentials and enforces the password policy.
type PasswordHasher interface {
	Hash(password string) (string, error)

	// Check reports whether password matches hash.
	Check(password, hash string) bool

	// ValidatePasswordStrength returns ErrPasswordStrength naming the failed rule.
	ValidatePasswordStrength(password string) error
}
