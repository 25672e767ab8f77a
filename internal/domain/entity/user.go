// Package entity contains the core business objects of the storefront,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Identity is the identity-service record of an account: who can sign in.
// Everything shop-specific lives in the Profile document keyed by the same ID.
type Identity struct {
	ID          uuid.UUID // Global identifier, shared with the profile document.
	Email       string    // Primary login identifier.
	DisplayName string    // "First Last" for credential accounts, provider name for federated ones.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Profile is the per-identity document holding storefront data.
type Profile struct {
	UserID      uuid.UUID
	FirstName   string
	LastName    string
	Phone       string
	UserSlug    string // Computed once at registration, never recomputed.
	Role        Role
	Newsletter  bool
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FullName joins first and last name.
func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// CurrentUser is the merged view of an identity and its profile document.
type CurrentUser struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"displayName,omitempty"`
	FirstName   string     `json:"firstName,omitempty"`
	LastName    string     `json:"lastName,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	UserSlug    string     `json:"userSlug,omitempty"`
	Role        Role       `json:"role,omitempty"`
	RoleLabel   string     `json:"roleLabel,omitempty"`
	Newsletter  bool       `json:"newsletter"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// IsAdmin reports whether the merged record carries the admin role.
func (u *CurrentUser) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// MergeIdentity builds the current user from an identity and an optional profile.
// Profile fields win over identity fields; a nil profile leaves role and slug empty.
func MergeIdentity(identity *Identity, profile *Profile) *CurrentUser {
	if identity == nil {
		return nil
	}

	user := &CurrentUser{
		ID:          identity.ID,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
	}

	if profile == nil {
		return user
	}

	createdAt := profile.CreatedAt
	user.FirstName = profile.FirstName
	user.LastName = profile.LastName
	user.Phone = profile.Phone
	user.UserSlug = profile.UserSlug
	user.Role = profile.Role
	user.RoleLabel = profile.Role.Label()
	user.Newsletter = profile.Newsletter
	user.CreatedAt = &createdAt

	return user
}

// SplitDisplayName splits a provider display name into first and last name.
// The first word is the first name, the rest is the last name.
func SplitDisplayName(displayName string) (firstName, lastName string) {
	parts := strings.Fields(displayName)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
