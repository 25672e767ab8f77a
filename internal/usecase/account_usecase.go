package usecase

import (
	"context"

	"github.com/google/uuid"

	"boutique/internal/domain/entity"
)

// UpdateProfileInput defines the editable identity fields. The slug is never recomputed.
type UpdateProfileInput struct {
	FirstName string `json:"firstName" validate:"notblank,max=100"`
	LastName  string `json:"lastName" validate:"notblank,max=100"`
	Phone     string `json:"phone" validate:"omitempty,max=30"`
}

// ChangePasswordInput defines the data required to change a password.
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// AddressInput defines an address book entry.
type AddressInput struct {
	Name    string             `json:"name" validate:"notblank,max=100"`
	Line1   string             `json:"line1" validate:"notblank,max=200"`
	Zip     string             `json:"zip" validate:"notblank,max=20"`
	City    string             `json:"city" validate:"notblank,max=100"`
	Country string             `json:"country" validate:"notblank,max=100"`
	Type    entity.AddressType `json:"type" validate:"required,oneof=shipping billing"`
}

// AccountUsecase covers the security page of the account area.
type AccountUsecase interface {
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *UpdateProfileInput) (*entity.CurrentUser, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, input *ChangePasswordInput) error
}

// AddressUsecase covers the address book. Every mutation returns the re-fetched list.
type AddressUsecase interface {
	List(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error)
	Create(ctx context.Context, userID uuid.UUID, input *AddressInput) ([]*entity.Address, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, input *AddressInput) ([]*entity.Address, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) ([]*entity.Address, error)

	// SetDefault makes addressID the only default of its (user, type) group.
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) ([]*entity.Address, error)
}
