package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProviderType names the way an identity signs in.
type ProviderType string

const (
	// ProviderTypeEmail is the email + password credential.
	ProviderTypeEmail ProviderType = "email"
	// ProviderTypeFirebase is a Firebase Authentication ID token.
	ProviderTypeFirebase ProviderType = "firebase"
	// ProviderTypeGoogle is a Google Sign-In ID token.
	ProviderTypeGoogle ProviderType = "google"
)

// Authentication represents a single method of logging in (a credential).
// An email/password pair is one record, a linked Google account is another.
type Authentication struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Provider       ProviderType
	ProviderUserID string // Email for ProviderTypeEmail, the provider's subject otherwise.
	PasswordHash   string // Only set for ProviderTypeEmail.
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RefreshToken represents a long-lived, authorised session.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string // SHA-256 of the raw token.
	ExpiresAt time.Time
	CreatedAt time.Time
}
