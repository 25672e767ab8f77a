// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"strings"

	"boutique/internal/domain/entity"
	domainerrors "boutique/internal/domain/errors"
	"boutique/internal/domain/repository"
	"boutique/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// userRepository implements repository.UserRepository using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single identity by its unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Identity, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&userM).Error; err != nil {
		if isNotFound(err) {
			return nil, repository.ErrUserNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find user by id")
	}

	return toIdentityDomain(&userM), nil
}

// FindByEmail retrieves a single identity by its email address.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Where("email = ?", normalizeEmail(email)).
		First(&userM).Error
	if err != nil {
		if isNotFound(err) {
			return nil, repository.ErrUserNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find user by email")
	}

	return toIdentityDomain(&userM), nil
}

// Create persists a new identity.
func (repo *userRepository) Create(ctx context.Context, identity *entity.Identity) error {
	userM := fromIdentityDomain(identity)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrEmailTaken
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	identity.ID = userM.ID
	identity.Email = userM.Email
	identity.CreatedAt = userM.CreatedAt
	identity.UpdatedAt = userM.UpdatedAt

	return nil
}

// Update modifies the display name of an identity.
func (repo *userRepository) Update(ctx context.Context, identity *entity.Identity) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", identity.ID).
		Update("display_name", identity.DisplayName)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// Count returns the number of identities.
func (repo *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.UserModel{}).Count(&count).Error; err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to count users")
	}

	return count, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// --- Mapper Functions ---

func toIdentityDomain(data *model.UserModel) *entity.Identity {
	if data == nil {
		return nil
	}

	return &entity.Identity{
		ID:          data.ID,
		Email:       data.Email,
		DisplayName: data.DisplayName,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromIdentityDomain(data *entity.Identity) *model.UserModel {
	return &model.UserModel{
		ID:          data.ID,
		Email:       normalizeEmail(data.Email),
		DisplayName: data.DisplayName,
	}
}
