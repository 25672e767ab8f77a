// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"boutique/config"
	domainerrors "boutique/internal/domain/errors"
	"boutique/internal/domain/service"
	"boutique/internal/errors"
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost      int
	minLength int
	maxLength int
}

// NewBcryptHasher is the constructor for bcryptHasher.
// Cost falls back to bcrypt.DefaultCost when the configured value is out of range.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	h := &bcryptHasher{cost: bcrypt.DefaultCost}
	if cfg.Auth != nil && cfg.Auth.BcryptCost >= bcrypt.MinCost && cfg.Auth.BcryptCost <= bcrypt.MaxCost {
		h.cost = cfg.Auth.BcryptCost
	}
	if cfg.PasswordStrength != nil {
		h.minLength = cfg.PasswordStrength.MinLength
		h.maxLength = cfg.PasswordStrength.MaxLength
	}

	return h
}

// Hash generates a salted hash from a plaintext password using bcrypt.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash password")
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePasswordStrength checks the length bounds, counted in characters.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	n := utf8.RuneCountInString(password)
	if n < h.minLength {
		return domainerrors.ErrPasswordStrength.WithDetails(fmt.Sprintf("must be at least %d characters long", h.minLength))
	}
	if h.maxLength > 0 && n > h.maxLength {
		return domainerrors.ErrPasswordStrength.WithDetails(fmt.Sprintf("must be at most %d characters long", h.maxLength))
	}
	// bcrypt ignores everything past 72 bytes
	if len(password) > 72 {
		return domainerrors.ErrPasswordStrength.WithDetails("must be at most 72 bytes long")
	}

	return nil
}
