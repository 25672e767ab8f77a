package impl

import (
	"context"
	"log/slog"
	"strings"

	"boutique/internal/domain/entity"
	domainerrors "boutique/internal/domain/errors"
	"boutique/internal/domain/repository"
	"boutique/internal/errors"
	"boutique/internal/usecase"
	"boutique/internal/usecase/validation"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// addressService implements the AddressUsecase interface.
type addressService struct {
	txManager   repository.TransactionManager
	addressRepo repository.AddressRepository
	logger      *slog.Logger
}

// AddressServiceParams holds dependencies for AddressService, injected by Fx.
type AddressServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AddressRepo repository.AddressRepository
	Logger      *slog.Logger
}

// NewAddressService is the constructor for addressService.
func NewAddressService(params AddressServiceParams) usecase.AddressUsecase {
	return &addressService{
		txManager:   params.TxManager,
		addressRepo: params.AddressRepo,
		logger:      params.Logger,
	}
}

func (srv *addressService) log(ctx context.Context) *slog.Logger {
	return loggerFrom(ctx, srv.logger)
}

func (srv *addressService) List(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error) {
	addresses, err := srv.addressRepo.FindAddressesByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list addresses")
	}

	return addresses, nil
}

// Create adds an address; the first one of its type becomes the default.
func (srv *addressService) Create(ctx context.Context, userID uuid.UUID, input *usecase.AddressInput) ([]*entity.Address, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	err := srv.writeAddressBook(ctx, userID, func(addresses repository.AddressRepository) error {
		count, err := addresses.CountAddressesByType(ctx, userID, input.Type)
		if err != nil {
			return errors.Wrap(err, "failed to count addresses")
		}

		address := &entity.Address{UserID: userID, IsDefault: count == 0}
		applyAddressInput(address, input)

		return errors.Wrap(addresses.CreateAddress(ctx, address), "failed to create address")
	})
	if err != nil {
		return nil, err
	}

	return srv.List(ctx, userID)
}

// Update edits an address. Changing its type moves it to the other group as a non-default entry,
// and the group it left gets a new default if needed.
func (srv *addressService) Update(ctx context.Context, userID, addressID uuid.UUID, input *usecase.AddressInput) ([]*entity.Address, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	err := srv.writeAddressBook(ctx, userID, func(addresses repository.AddressRepository) error {
		address, err := findOwnedAddress(ctx, addresses, userID, addressID)
		if err != nil {
			return err
		}

		previousType := address.Type
		applyAddressInput(address, input)
		if previousType == address.Type {
			return errors.Wrap(addresses.UpdateAddress(ctx, address), "failed to update address")
		}

		targetCount, err := addresses.CountAddressesByType(ctx, userID, address.Type)
		if err != nil {
			return errors.Wrap(err, "failed to count addresses")
		}
		if address.IsDefault {
			// Only this address holds the flag in its old group.
			if err := addresses.ClearDefault(ctx, userID, previousType); err != nil {
				return errors.Wrap(err, "failed to clear default address")
			}
		}
		if err := addresses.UpdateAddress(ctx, address); err != nil {
			return errors.Wrap(err, "failed to update address")
		}
		if targetCount == 0 {
			if err := addresses.MarkDefault(ctx, address.ID); err != nil {
				return errors.Wrap(err, "failed to mark default address")
			}
		}
		if address.IsDefault {
			return promoteOldest(ctx, addresses, userID, previousType)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return srv.List(ctx, userID)
}

// Delete removes an address; if it was the default, the oldest remaining one of its type takes over.
func (srv *addressService) Delete(ctx context.Context, userID, addressID uuid.UUID) ([]*entity.Address, error) {
	err := srv.writeAddressBook(ctx, userID, func(addresses repository.AddressRepository) error {
		address, err := findOwnedAddress(ctx, addresses, userID, addressID)
		if err != nil {
			return err
		}

		if err := addresses.DeleteAddress(ctx, address.ID); err != nil {
			return errors.Wrap(err, "failed to delete address")
		}

		if address.IsDefault {
			return promoteOldest(ctx, addresses, userID, address.Type)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Address deleted", slog.Any("userID", userID), slog.Any("addressID", addressID))

	return srv.List(ctx, userID)
}

// SetDefault clears the flag on every sibling of the (user, type) group and sets it on the target,
// in one transaction.
func (srv *addressService) SetDefault(ctx context.Context, userID, addressID uuid.UUID) ([]*entity.Address, error) {
	err := srv.writeAddressBook(ctx, userID, func(addresses repository.AddressRepository) error {
		address, err := findOwnedAddress(ctx, addresses, userID, addressID)
		if err != nil {
			return err
		}

		if err := addresses.ClearDefault(ctx, userID, address.Type); err != nil {
			return errors.Wrap(err, "failed to clear default address")
		}

		return errors.Wrap(addresses.MarkDefault(ctx, address.ID), "failed to mark default address")
	})
	if err != nil {
		srv.log(ctx).Warn("Set default address failed", slog.Any("addressID", addressID), slog.Any("error", err))

		return nil, err
	}

	return srv.List(ctx, userID)
}

// writeAddressBook runs fn in a transaction holding the address-book lock of userID.
func (srv *addressService) writeAddressBook(ctx context.Context, userID uuid.UUID, fn func(addresses repository.AddressRepository) error) error {
	err := srv.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		addresses := f.NewAddressRepository()
		if err := addresses.LockAddressBook(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to lock address book")
		}

		return fn(addresses)
	})
	if errors.Is(err, repository.ErrDefaultAddressTaken) {
		return domainerrors.ErrAddressDefaultConflict
	}

	return err
}

func findOwnedAddress(ctx context.Context, addresses repository.AddressRepository, userID, addressID uuid.UUID) (*entity.Address, error) {
	address, err := addresses.FindAddressByID(ctx, addressID)
	if errors.Is(err, repository.ErrAddressNotFound) {
		return nil, domainerrors.ErrAddressNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find address")
	}
	if address.UserID != userID {
		return nil, domainerrors.ErrAddressOwnershipViolation
	}

	return address, nil
}

func promoteOldest(ctx context.Context, addresses repository.AddressRepository, userID uuid.UUID, addressType entity.AddressType) error {
	oldest, err := addresses.FindOldestAddressByType(ctx, userID, addressType)
	if errors.Is(err, repository.ErrAddressNotFound) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to find oldest address")
	}

	return errors.Wrap(addresses.MarkDefault(ctx, oldest.ID), "failed to promote address")
}

func applyAddressInput(address *entity.Address, input *usecase.AddressInput) {
	address.Name = strings.TrimSpace(input.Name)
	address.Line1 = strings.TrimSpace(input.Line1)
	address.Zip = strings.TrimSpace(input.Zip)
	address.City = strings.TrimSpace(input.City)
	address.Country = strings.TrimSpace(input.Country)
	address.Type = input.Type
}
