package impl

import (
	"context"
	"log/slog"
	"strings"

	"boutique/internal/domain/constants"
	"boutique/internal/domain/repository"
	"boutique/internal/domain/service"
	"boutique/internal/errors"
	"boutique/internal/usecase"

	"go.uber.org/fx"
)

// maintenanceService implements the MaintenanceUsecase interface.
type maintenanceService struct {
	storage          service.ObjectStorage
	refreshTokenRepo repository.RefreshTokenRepository
	logger           *slog.Logger
}

// MaintenanceServiceParams holds dependencies for MaintenanceService, injected by Fx.
type MaintenanceServiceParams struct {
	fx.In

	Storage          service.ObjectStorage
	RefreshTokenRepo repository.RefreshTokenRepository
	Logger           *slog.Logger
}

// NewMaintenanceService is the constructor for maintenanceService.
func NewMaintenanceService(params MaintenanceServiceParams) usecase.MaintenanceUsecase {
	return &maintenanceService{
		storage:          params.Storage,
		refreshTokenRepo: params.RefreshTokenRepo,
		logger:           params.Logger,
	}
}

func (srv *maintenanceService) HandleEvent(ctx context.Context, event *service.DomainEvent) error {
	logger := loggerFrom(ctx, srv.logger)

	switch event.Type {
	case service.EventProductDeleted, service.EventProductImageOrphan:
		return srv.removeImage(ctx, event.Attributes[service.ImagePathAttribute])

	case service.EventOrderStatusChanged:
		logger.Info("Order status changed",
			slog.String("reference", event.Attributes["reference"]),
			slog.String("user_id", event.Attributes["user_id"]),
			slog.String("from", event.Attributes["from"]),
			slog.String("to", event.Attributes["to"]),
		)

		return nil

	default:
		return errors.Wrapf(usecase.ErrUnhandledEvent, "event type %q", event.Type)
	}
}

// removeImage deletes a product image. Keys outside the product prefix are refused.
func (srv *maintenanceService) removeImage(ctx context.Context, key string) error {
	if key == "" || !strings.HasPrefix(key, constants.ProductImagePrefix+"/") {
		return errors.Wrapf(usecase.ErrUnhandledEvent, "image path %q", key)
	}

	if err := srv.storage.Delete(ctx, key); err != nil {
		return errors.Wrap(err, "failed to delete image")
	}

	loggerFrom(ctx, srv.logger).Info("Product image removed", slog.String("key", key))

	return nil
}

func (srv *maintenanceService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	count, err := srv.refreshTokenRepo.DeleteExpiredRefreshTokens(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete expired refresh tokens")
	}

	return count, nil
}
