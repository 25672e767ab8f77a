package postgres

import (
	"context"
	"time"

	"boutique/internal/domain/entity"
	domainerrors "boutique/internal/domain/errors"
	"boutique/internal/domain/repository"
	"boutique/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const likeEscape = ` ESCAPE '\'`

// profileRepository implements repository.ProfileRepository.
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository is the constructor for profileRepository.
func NewProfileRepository(db *gorm.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

// Create persists a profile document.
func (repo *profileRepository) Create(ctx context.Context, profile *entity.Profile) error {
	profileM := fromProfileDomain(profile)
	if err := repo.db.WithContext(ctx).Create(profileM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("profile or slug already exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create profile")
	}

	profile.CreatedAt = profileM.CreatedAt
	profile.UpdatedAt = profileM.UpdatedAt

	return nil
}

// FindByUserID retrieves the profile of an identity.
func (repo *profileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	var profileM model.ProfileModel
	if err := repo.db.WithContext(ctx).Where("user_id = ?", userID).First(&profileM).Error; err != nil {
		if isNotFound(err) {
			return nil, repository.ErrProfileNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find profile")
	}

	return toProfileDomain(&profileM), nil
}

// SlugExists reports whether a profile uses slug.
func (repo *profileRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.ProfileModel{}).Where("user_slug = ?", slug).Count(&count).Error; err != nil {
		return false, domainerrors.NewDatabaseExecuteError(err, "failed to check slug")
	}

	return count > 0, nil
}

// Update writes the mutable profile fields. The slug is never rewritten.
func (repo *profileRepository) Update(ctx context.Context, profile *entity.Profile) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProfileModel{}).
		Where("user_id = ?", profile.UserID).
		Updates(map[string]any{
			"first_name":    profile.FirstName,
			"last_name":     profile.LastName,
			"phone":         profile.Phone,
			"role":          string(profile.Role),
			"newsletter":    profile.Newsletter,
			"last_login_at": profile.LastLoginAt,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update profile")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProfileNotFound
	}

	return nil
}

type userRow struct {
	model.ProfileModel `gorm:"embedded"`
	Email              string
	DisplayName        string
}

// ListUsers joins profiles with identities for the admin listing.
func (repo *profileRepository) ListUsers(ctx context.Context, filter repository.UserFilter) ([]*entity.CurrentUser, error) {
	query := repo.db.WithContext(ctx).
		Table("profiles").
		Select("profiles.*, users.email AS email, users.display_name AS display_name").
		Joins("JOIN users ON users.id = profiles.user_id")

	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			"LOWER(profiles.first_name) LIKE ?"+likeEscape+
				" OR LOWER(profiles.last_name) LIKE ?"+likeEscape+
				" OR LOWER(users.email) LIKE ?"+likeEscape,
			pattern, pattern, pattern,
		)
	}
	if filter.Role != "" {
		query = query.Where("profiles.role = ?", string(filter.Role))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var rows []userRow
	if err := query.Order("profiles.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list users")
	}

	users := make([]*entity.CurrentUser, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		users = append(users, entity.MergeIdentity(
			&entity.Identity{ID: row.UserID, Email: row.Email, DisplayName: row.DisplayName},
			toProfileDomain(&row.ProfileModel),
		))
	}

	return users, nil
}

func toProfileDomain(data *model.ProfileModel) *entity.Profile {
	return &entity.Profile{
		UserID:      data.UserID,
		FirstName:   data.FirstName,
		LastName:    data.LastName,
		Phone:       data.Phone,
		UserSlug:    data.UserSlug,
		Role:        entity.Role(data.Role),
		Newsletter:  data.Newsletter,
		LastLoginAt: data.LastLoginAt,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromProfileDomain(data *entity.Profile) *model.ProfileModel {
	return &model.ProfileModel{
		UserID:      data.UserID,
		FirstName:   data.FirstName,
		LastName:    data.LastName,
		Phone:       data.Phone,
		UserSlug:    data.UserSlug,
		Role:        string(data.Role),
		Newsletter:  data.Newsletter,
		LastLoginAt: data.LastLoginAt,
	}
}
