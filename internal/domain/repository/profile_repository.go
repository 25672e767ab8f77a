package repository

import (
	"context"

	"boutique/internal/domain/entity"
	"boutique/internal/errors"

	"github.com/google/uuid"
)

// ErrProfileNotFound is returned when an identity has no profile document.
var ErrProfileNotFound = errors.New("profile not found")

// UserFilter narrows the admin user listing.
type UserFilter struct {
	Search string      // Matches first name, last name or email, case-insensitive.
	Role   entity.Role // Empty means any role.
	Limit  int
	Offset int
}

// ProfileRepository persists the per-identity profile documents.
type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.Profile) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)

	// SlugExists reports whether a profile already uses the slug.
	SlugExists(ctx context.Context, slug string) (bool, error)

	// Update writes names, phone, role, newsletter and last login.
	Update(ctx context.Context, profile *entity.Profile) error

	// ListUsers returns merged users (profile joined with identity), newest first.
	ListUsers(ctx context.Context, filter UserFilter) ([]*entity.CurrentUser, error)
}
