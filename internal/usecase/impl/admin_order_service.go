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

// adminOrderService implements the AdminOrderUsecase interface.
type adminOrderService struct {
	txManager repository.TransactionManager
	orderRepo repository.OrderRepository
	publisher service.EventPublisher
	qrService service.QRCodeService
	catalog   *config.CatalogConfig
	logger    *slog.Logger
}

// AdminOrderServiceParams holds dependencies for AdminOrderService, injected by Fx.
type AdminOrderServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	OrderRepo repository.OrderRepository
	Publisher service.EventPublisher
	QRService service.QRCodeService
	Config    *config.Config
	Logger    *slog.Logger
}

// NewAdminOrderService is the constructor for adminOrderService.
func NewAdminOrderService(params AdminOrderServiceParams) usecase.AdminOrderUsecase {
	return &adminOrderService{
		txManager: params.TxManager,
		orderRepo: params.OrderRepo,
		publisher: params.Publisher,
		qrService: params.QRService,
		catalog:   params.Config.Catalog,
		logger:    params.Logger,
	}
}

func (srv *adminOrderService) log(ctx context.Context) *slog.Logger {
	return loggerFrom(ctx, srv.logger)
}

func (srv *adminOrderService) List(ctx context.Context, filter *usecase.AdminOrderFilter) ([]*entity.Order, error) {
	if filter == nil {
		filter = &usecase.AdminOrderFilter{}
	}
	if err := validation.Struct(filter); err != nil {
		return nil, err
	}

	limit, offset, _, _ := pageBounds(srv.catalog, filter.Page, filter.PageSize)
	orders, err := srv.orderRepo.List(ctx, repository.OrderFilter{
		Search: strings.TrimSpace(filter.Search),
		Status: filter.Status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

// Scan finds the order printed on a slip from the content of its QR code.
func (srv *adminOrderService) Scan(ctx context.Context, input *usecase.ScanOrderInput) (*entity.Order, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	id, err := srv.qrService.ParseOrderQR(input.Data)
	if err != nil {
		srv.log(ctx).Info("Unreadable order QR code", slog.Any("error", err))

		return nil, validation.Field("data", "qrcode")
	}

	order, err := srv.orderRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return nil, domainerrors.ErrOrderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find order")
	}

	return order, nil
}

// UpdateStatus moves an order along its transitions. Cancelling puts the items back in stock.
func (srv *adminOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, input *usecase.UpdateOrderStatusInput) (*entity.Order, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	var (
		order    *entity.Order
		previous entity.OrderStatus
	)
	err := srv.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		orders := f.NewOrderRepository()

		current, err := orders.FindByID(ctx, id)
		if errors.Is(err, repository.ErrOrderNotFound) {
			return domainerrors.ErrOrderNotFound
		}
		if err != nil {
			return errors.Wrap(err, "failed to find order")
		}

		previous = current.Status
		if !previous.CanTransitionTo(input.Status) {
			return domainerrors.ErrInvalidStatusTransition.WithDetails(string(previous) + " -> " + string(input.Status))
		}

		// Only the request that wins the compare-and-set restocks.
		err = orders.UpdateStatus(ctx, id, previous, input.Status)
		if errors.Is(err, repository.ErrOrderStatusChanged) {
			return domainerrors.ErrOrderStatusConflict
		}
		if err != nil {
			return errors.Wrap(err, "failed to update order status")
		}

		if input.Status == entity.OrderStatusCancelled {
			if err := restock(ctx, f.NewProductRepository(), current.Items); err != nil {
				return err
			}
		}

		order, err = orders.FindByID(ctx, id)

		return errors.Wrap(err, "failed to reload order")
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Order status changed",
		slog.String("reference", order.Reference),
		slog.String("from", string(previous)),
		slog.String("to", string(order.Status)),
	)

	event := newDomainEvent(ctx, service.EventOrderStatusChanged, map[string]string{
		"order_id":  order.ID.String(),
		"reference": order.Reference,
		"user_id":   order.UserID.String(),
		"from":      string(previous),
		"to":        string(order.Status),
	})
	if err := srv.publisher.Publish(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish order status change", slog.Any("error", err))
	}

	return order, nil
}

// restock returns the quantities of items to their products; deleted products are skipped.
func restock(ctx context.Context, products repository.ProductRepository, items []*entity.OrderItem) error {
	for _, item := range items {
		err := products.AdjustStock(ctx, item.ProductID, item.Quantity)
		if errors.Is(err, repository.ErrProductNotFound) {
			continue
		}
		if err != nil {
			return errors.Wrap(err, "failed to restock product")
		}
	}

	return nil
}
