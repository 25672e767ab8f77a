package main

import (
	"context"
	"log/slog"
	"os"

	"boutique/config"
	"boutique/internal/delivery"
	"boutique/internal/delivery/api"
	"boutique/internal/delivery/api/middleware"
	"boutique/internal/delivery/api/router/handler"
	domainnavigation "boutique/internal/domain/navigation"
	"boutique/internal/domain/service"
	"boutique/internal/infra/auth"
	"boutique/internal/infra/cache"
	"boutique/internal/infra/identity"
	logs "boutique/internal/infra/log"
	"boutique/internal/infra/navigation"
	"boutique/internal/infra/persistence/postgres"
	"boutique/internal/infra/pubsub"
	"boutique/internal/infra/qrcode"
	"boutique/internal/infra/storage"
	"boutique/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			// Expose the QR code section for the QR code service
			func(cfg *config.Config) *config.QRCodeConfig {
				return cfg.QRCode
			},
			logs.New,
			context.Background,
			postgres.New,
			storage.NewObjectStorage,
			cache.NewCategoryCache,
		),
		pubsub.Module,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewAuthRepository,
			postgres.NewProfileRepository,
			postgres.NewAddressRepository,
			postgres.NewRefreshTokenRepository,
			postgres.NewCategoryRepository,
			postgres.NewProductRepository,
			postgres.NewOrderRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			identity.NewFederatedIdentityVerifier,
			fx.Annotate(
				identity.NewStateHub,
				fx.As(new(service.IdentityStateHub)),
			),
			fx.Annotate(
				navigation.NewRouteTable,
				fx.As(new(domainnavigation.RouteTable)),
			),
			qrcode.NewQRCodeService,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewSessionService,
			impl.NewAccountService,
			impl.NewAddressService,
			impl.NewShellService,
			impl.NewCatalogService,
			impl.NewOrderService,
			impl.NewAdminProductService,
			impl.NewAdminCategoryService,
			impl.NewAdminUserService,
			impl.NewAdminOrderService,
			impl.NewDashboardService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewSessionHandler,
			handler.NewShellHandler,
			handler.NewCatalogHandler,
			handler.NewAccountHandler,
			handler.NewAdminHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
