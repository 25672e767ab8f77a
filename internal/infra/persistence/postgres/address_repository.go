package postgres

import (
	"context"

	"boutique/internal/domain/entity"
	domainerrors "boutique/internal/domain/errors"
	"boutique/internal/domain/repository"
	"boutique/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// addressRepository implements repository.AddressRepository.
type addressRepository struct {
	db *gorm.DB
}

// NewAddressRepository is the constructor for addressRepository.
func NewAddressRepository(db *gorm.DB) repository.AddressRepository {
	return &addressRepository{db: db}
}

// LockAddressBook locks the owner's user row. A missing owner has nothing to lock.
func (repo *addressRepository) LockAddressBook(ctx context.Context, userID uuid.UUID) error {
	var owners []model.UserModel
	err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Select("id").
		Where("id = ?", userID).
		Find(&owners).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to lock address book")
	}

	return nil
}

// CreateAddress persists a new address.
func (repo *addressRepository) CreateAddress(ctx context.Context, address *entity.Address) error {
	addressM := fromAddressDomain(address)

	if err := repo.db.WithContext(ctx).Create(addressM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDefaultAddressTaken
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create address")
	}

	address.ID = addressM.ID
	address.CreatedAt = addressM.CreatedAt
	address.UpdatedAt = addressM.UpdatedAt

	return nil
}

// FindAddressByID retrieves an address by its unique ID.
func (repo *addressRepository) FindAddressByID(ctx context.Context, id uuid.UUID) (*entity.Address, error) {
	var addressM model.AddressModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&addressM).Error; err != nil {
		if isNotFound(err) {
			return nil, repository.ErrAddressNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find address by ID")
	}

	return toAddressDomain(&addressM), nil
}

// FindAddressesByUser lists a user's addresses, defaults first.
func (repo *addressRepository) FindAddressesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error) {
	var addressModels []model.AddressModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").
		Order("created_at ASC").
		Order("id ASC").
		Find(&addressModels).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find addresses by user")
	}

	addresses := make([]*entity.Address, 0, len(addressModels))
	for i := range addressModels {
		addresses = append(addresses, toAddressDomain(&addressModels[i]))
	}

	return addresses, nil
}

// CountAddressesByType counts the (user, type) group.
func (repo *addressRepository) CountAddressesByType(ctx context.Context, userID uuid.UUID, addressType entity.AddressType) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.AddressModel{}).
		Where("user_id = ? AND type = ?", userID, string(addressType)).
		Count(&count).Error
	if err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to count addresses")
	}

	return count, nil
}

// FindOldestAddressByType returns the first-created address of the (user, type) group.
func (repo *addressRepository) FindOldestAddressByType(ctx context.Context, userID uuid.UUID, addressType entity.AddressType) (*entity.Address, error) {
	var addressM model.AddressModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND type = ?", userID, string(addressType)).
		Order("created_at ASC").
		Order("id ASC").
		First(&addressM).Error
	if err != nil {
		if isNotFound(err) {
			return nil, repository.ErrAddressNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find oldest address")
	}

	return toAddressDomain(&addressM), nil
}

// ClearDefault unsets the default flag on the whole (user, type) group.
func (repo *addressRepository) ClearDefault(ctx context.Context, userID uuid.UUID, addressType entity.AddressType) error {
	err := repo.db.WithContext(ctx).
		Model(&model.AddressModel{}).
		Where("user_id = ? AND type = ? AND is_default = ?", userID, string(addressType), true).
		Update("is_default", false).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to clear default address")
	}

	return nil
}

// MarkDefault sets the default flag on one address.
func (repo *addressRepository) MarkDefault(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Model(&model.AddressModel{}).
		Where("id = ?", id).
		Update("is_default", true)
	if isUniqueConstraintViolation(result.Error) {
		return repository.ErrDefaultAddressTaken
	}
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to mark default address")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAddressNotFound
	}

	return nil
}

// UpdateAddress writes the editable fields. The default flag is handled by ClearDefault/MarkDefault.
func (repo *addressRepository) UpdateAddress(ctx context.Context, address *entity.Address) error {
	result := repo.db.WithContext(ctx).
		Model(&model.AddressModel{}).
		Where("id = ?", address.ID).
		Updates(map[string]any{
			"name":    address.Name,
			"line1":   address.Line1,
			"zip":     address.Zip,
			"city":    address.City,
			"country": address.Country,
			"type":    string(address.Type),
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update address")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAddressNotFound
	}

	return nil
}

// DeleteAddress removes an address by its ID.
func (repo *addressRepository) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.AddressModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete address")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAddressNotFound
	}

	return nil
}

func toAddressDomain(data *model.AddressModel) *entity.Address {
	return &entity.Address{
		ID:        data.ID,
		UserID:    data.UserID,
		Name:      data.Name,
		Line1:     data.Line1,
		Zip:       data.Zip,
		City:      data.City,
		Country:   data.Country,
		Type:      entity.AddressType(data.Type),
		IsDefault: data.IsDefault,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func fromAddressDomain(data *entity.Address) *model.AddressModel {
	return &model.AddressModel{
		ID:        data.ID,
		UserID:    data.UserID,
		Name:      data.Name,
		Line1:     data.Line1,
		Zip:       data.Zip,
		City:      data.City,
		Country:   data.Country,
		Type:      string(data.Type),
		IsDefault: data.IsDefault,
	}
}
