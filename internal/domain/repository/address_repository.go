package repository

import (
	"context"

	"boutique/internal/domain/entity"
	"boutique/internal/errors"

	"github.com/google/uuid"
)

var (
	// ErrAddressNotFound is returned when an address is not found.
	ErrAddressNotFound = errors.New("address not found")

	// ErrDefaultAddressTaken is returned when another address of the (user, type) group already holds the default flag.
	ErrDefaultAddressTaken = errors.New("default address already set")
)

// AddressRepository defines the address-book operations.
type AddressRepository interface {
	// LockAddressBook serialises the address-book writes of one user until the transaction ends.
	// It must run inside a transaction.
	LockAddressBook(ctx context.Context, userID uuid.UUID) error

	// CreateAddress persists a new address.
	CreateAddress(ctx context.Context, address *entity.Address) error

	// FindAddressByID retrieves an address by its unique ID.
	FindAddressByID(ctx context.Context, id uuid.UUID) (*entity.Address, error)

	// FindAddressesByUser returns every address of a user, defaults first then oldest first.
	FindAddressesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error)

	// CountAddressesByType counts a user's addresses of one type.
	CountAddressesByType(ctx context.Context, userID uuid.UUID, addressType entity.AddressType) (int64, error)

	// FindOldestAddressByType returns the oldest address of the (user, type) group.
	// Returns ErrAddressNotFound if the group is empty.
	FindOldestAddressByType(ctx context.Context, userID uuid.UUID, addressType entity.AddressType) (*entity.Address, error)

	// ClearDefault unsets the default flag on every address of the (user, type) group.
	ClearDefault(ctx context.Context, userID uuid.UUID, addressType entity.AddressType) error

	// MarkDefault sets the default flag on one address.
	// Returns ErrDefaultAddressTaken if its group still has a default.
	MarkDefault(ctx context.Context, id uuid.UUID) error

	// UpdateAddress updates the editable fields of an address.
	UpdateAddress(ctx context.Context, address *entity.Address) error

	// DeleteAddress removes an address by its ID.
	DeleteAddress(ctx context.Context, id uuid.UUID) error
}
