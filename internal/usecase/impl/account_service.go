package impl

import (
	"context"
	"log/slog"
	"strings"

	"boutique/internal/domain/entity"
	domainerrors "boutique/internal/domain/errors"
	"boutique/internal/domain/repository"
	"boutique/internal/domain/service"
	"boutique/internal/errors"
	"boutique/internal/usecase"
	"boutique/internal/usecase/validation"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager repository.TransactionManager
	authRepo  repository.AuthRepository
	hasher    service.PasswordHasher
	hub       service.IdentityStateHub
	logger    *slog.Logger
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	AuthRepo  repository.AuthRepository
	Hasher    service.PasswordHasher
	Hub       service.IdentityStateHub
	Logger    *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		txManager: params.TxManager,
		authRepo:  params.AuthRepo,
		hasher:    params.Hasher,
		hub:       params.Hub,
		logger:    params.Logger,
	}
}

func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return loggerFrom(ctx, srv.logger)
}

// UpdateProfile writes names and phone on the profile and the display name on the identity.
// The user slug is left untouched.
func (srv *accountService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.CurrentUser, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	var (
		identity *entity.Identity
		profile  *entity.Profile
	)
	err := srv.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		users := f.NewUserRepository()
		profiles := f.NewProfileRepository()

		var err error
		identity, err = users.FindByID(ctx, userID)
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}
		if err != nil {
			return errors.Wrap(err, "failed to find identity")
		}

		profile, err = profiles.FindByUserID(ctx, userID)
		if errors.Is(err, repository.ErrProfileNotFound) {
			return domainerrors.ErrUserNotFound.WithDetails("profile document missing")
		}
		if err != nil {
			return errors.Wrap(err, "failed to find profile")
		}

		profile.FirstName = strings.TrimSpace(input.FirstName)
		profile.LastName = strings.TrimSpace(input.LastName)
		profile.Phone = strings.TrimSpace(input.Phone)
		if err := profiles.Update(ctx, profile); err != nil {
			return errors.Wrap(err, "failed to update profile")
		}

		identity.DisplayName = profile.FullName()
		if err := users.Update(ctx, identity); err != nil {
			return errors.Wrap(err, "failed to update identity")
		}

		// Re-fetch what is returned.
		if identity, err = users.FindByID(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to reload identity")
		}
		if profile, err = profiles.FindByUserID(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to reload profile")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.hub.Publish(userID, service.IdentityState{Transition: service.TransitionProfileUpdated, Identity: identity})
	srv.log(ctx).Info("Profile updated", slog.Any("userID", userID))

	return entity.MergeIdentity(identity, profile), nil
}

// ChangePassword re-verifies the current password before storing the new hash.
func (srv *accountService) ChangePassword(ctx context.Context, userID uuid.UUID, input *usecase.ChangePasswordInput) error {
	if err := validation.Struct(input); err != nil {
		return err
	}
	if input.NewPassword != input.ConfirmPassword {
		return domainerrors.ErrPasswordMismatch
	}
	if err := srv.hasher.ValidatePasswordStrength(input.NewPassword); err != nil {
		return err
	}

	authRecord, err := srv.authRepo.FindAuthenticationByUser(ctx, userID, entity.ProviderTypeEmail)
	if errors.Is(err, repository.ErrAuthNotFound) {
		return domainerrors.ErrPasswordNotSet
	}
	if err != nil {
		return errors.Wrap(err, "failed to find authentication")
	}

	if !srv.hasher.Check(input.CurrentPassword, authRecord.PasswordHash) {
		return domainerrors.ErrWrongPassword
	}

	hash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	if err := srv.authRepo.UpdatePasswordHash(ctx, authRecord.ID, hash); err != nil {
		return errors.Wrap(err, "failed to update password")
	}

	srv.log(ctx).Info("Password changed", slog.Any("userID", userID))

	return nil
}
