// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"boutique/internal/domain/entity"
	"boutique/internal/errors"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when an identity is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken is returned when an identity with the same email already exists.
var ErrEmailTaken = errors.New("email already registered")

// UserRepository persists identity records.
type UserRepository interface {
	// FindByID retrieves a single identity by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Identity, error)

	// FindByEmail retrieves a single identity by its email address (case-insensitive).
	FindByEmail(ctx context.Context, email string) (*entity.Identity, error)

	// Create persists a new identity. Returns ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, identity *entity.Identity) error

	// Update modifies the display name of an existing identity.
	Update(ctx context.Context, identity *entity.Identity) error

	// Count returns the number of identities.
	Count(ctx context.Context) (int64, error)
}
