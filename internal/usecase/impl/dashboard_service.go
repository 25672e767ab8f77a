package impl

import (
	"context"
	"log/slog"
	"sync"

	"boutique/internal/domain/entity"
	"boutique/internal/domain/repository"
	"boutique/internal/usecase"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// dashboardService implements the DashboardUsecase interface.
type dashboardService struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	orderRepo   repository.OrderRepository
	logger      *slog.Logger
}

// DashboardServiceParams holds dependencies for DashboardService, injected by Fx.
type DashboardServiceParams struct {
	fx.In

	ProductRepo repository.ProductRepository
	UserRepo    repository.UserRepository
	OrderRepo   repository.OrderRepository
	Logger      *slog.Logger
}

// NewDashboardService is the constructor for dashboardService.
func NewDashboardService(params DashboardServiceParams) usecase.DashboardUsecase {
	return &dashboardService{
		productRepo: params.ProductRepo,
		userRepo:    params.UserRepo,
		orderRepo:   params.OrderRepo,
		logger:      params.Logger,
	}
}

// Dashboard loads every section concurrently. A failing section is reported as a
// Failure state without affecting the others.
func (srv *dashboardService) Dashboard(ctx context.Context) *usecase.DashboardOutput {
	out := &usecase.DashboardOutput{}
	logger := loggerFrom(ctx, srv.logger)

	var wg sync.WaitGroup
	wg.Go(func() {
		count, err := srv.productRepo.Count(ctx, repository.ProductFilter{})
		logSectionError(logger, "products", err)
		out.Products = entity.StateFrom(count, err, "Impossible de compter les produits.")
	})
	wg.Go(func() {
		count, err := srv.productRepo.Count(ctx, repository.ProductFilter{LowStockOnly: true})
		logSectionError(logger, "lowStock", err)
		out.LowStock = entity.StateFrom(count, err, "Impossible de compter les produits en rupture.")
	})
	wg.Go(func() {
		count, err := srv.userRepo.Count(ctx)
		logSectionError(logger, "users", err)
		out.Users = entity.StateFrom(count, err, "Impossible de compter les utilisateurs.")
	})
	wg.Go(func() {
		counts, err := srv.orderRepo.CountByStatus(ctx)
		if err == nil {
			for _, status := range entity.AllOrderStatuses() {
				if _, ok := counts[status]; !ok {
					counts[status] = 0
				}
			}
		}
		logSectionError(logger, "ordersByStatus", err)
		out.OrdersByState = entity.StateFrom(counts, err, "Impossible de charger les commandes.")
	})
	wg.Go(func() {
		revenue, err := srv.orderRepo.Revenue(ctx)
		logSectionError(logger, "revenue", err)
		out.Revenue = entity.StateFrom[decimal.Decimal](revenue, err, "Impossible de calculer le chiffre d'affaires.")
	})
	wg.Wait()

	return out
}

func logSectionError(logger *slog.Logger, section string, err error) {
	if err != nil {
		logger.Warn("Dashboard section failed", slog.String("section", section), slog.Any("error", err))
	}
}
