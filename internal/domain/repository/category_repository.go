package repository

import (
	"context"

	"boutique/internal/domain/entity"
	"boutique/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for category persistence.
var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategorySlugTaken = errors.New("category slug already used")
)

// CategoryRepository persists the flat category collection.
type CategoryRepository interface {
	// Create persists a category. Returns ErrCategorySlugTaken on a duplicate slug.
	Create(ctx context.Context, category *entity.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Category, error)

	// FindAll returns every category, in no particular order.
	FindAll(ctx context.Context) ([]*entity.Category, error)

	// Update writes name, slug and parent. Returns ErrCategorySlugTaken on a duplicate slug.
	Update(ctx context.Context, category *entity.Category) error

	// DetachChildren turns the direct children of a category into roots.
	DetachChildren(ctx context.Context, parentID uuid.UUID) error

	Delete(ctx context.Context, id uuid.UUID) error
}
