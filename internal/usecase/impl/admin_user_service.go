package impl

import (
	"context"
	"log/slog"
	"strings"

	"boutique/config"
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

// adminUserService implements the AdminUserUsecase interface.
type adminUserService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	hub         service.IdentityStateHub
	catalog     *config.CatalogConfig
	logger      *slog.Logger
}

// AdminUserServiceParams holds dependencies for AdminUserService, injected by Fx.
type AdminUserServiceParams struct {
	fx.In

	UserRepo    repository.UserRepository
	ProfileRepo repository.ProfileRepository
	Hub         service.IdentityStateHub
	Config      *config.Config
	Logger      *slog.Logger
}

// NewAdminUserService is the constructor for adminUserService.
func NewAdminUserService(params AdminUserServiceParams) usecase.AdminUserUsecase {
	return &adminUserService{
		userRepo:    params.UserRepo,
		profileRepo: params.ProfileRepo,
		hub:         params.Hub,
		catalog:     params.Config.Catalog,
		logger:      params.Logger,
	}
}

func (srv *adminUserService) List(ctx context.Context, filter *usecase.AdminUserFilter) ([]*entity.CurrentUser, error) {
	if filter == nil {
		filter = &usecase.AdminUserFilter{}
	}
	if err := validation.Struct(filter); err != nil {
		return nil, err
	}

	limit, offset, _, _ := pageBounds(srv.catalog, filter.Page, filter.PageSize)
	users, err := srv.profileRepo.ListUsers(ctx, repository.UserFilter{
		Search: strings.TrimSpace(filter.Search),
		Role:   filter.Role,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return users, nil
}

// ChangeRole sets the role on the profile document and notifies the user's open sessions.
func (srv *adminUserService) ChangeRole(ctx context.Context, actorID, userID uuid.UUID, input *usecase.ChangeRoleInput) (*entity.CurrentUser, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if actorID == userID && input.Role != entity.RoleAdmin {
		return nil, domainerrors.ErrForbidden.WithDetails("an administrator cannot demote themselves")
	}

	profile, err := srv.profileRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return nil, domainerrors.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find profile")
	}

	profile.Role = input.Role
	if err := srv.profileRepo.Update(ctx, profile); err != nil {
		return nil, errors.Wrap(err, "failed to update role")
	}

	user, _, err := loadCurrentUser(ctx, srv.userRepo, srv.profileRepo, userID)
	if err != nil {
		return nil, err
	}

	srv.hub.Publish(userID, service.IdentityState{
		Transition: service.TransitionProfileUpdated,
		Identity:   &entity.Identity{ID: user.ID, Email: user.Email, DisplayName: user.DisplayName},
	})
	loggerFrom(ctx, srv.logger).Info("Role changed",
		slog.Any("actorID", actorID),
		slog.Any("userID", userID),
		slog.String("role", input.Role.String()),
	)

	return user, nil
}
