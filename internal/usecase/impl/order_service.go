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

const maxOrderListSize = 200

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager repository.TransactionManager
	orderRepo repository.OrderRepository
	qrService service.QRCodeService
	logger    *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	OrderRepo repository.OrderRepository
	QRService service.QRCodeService
	Logger    *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager: params.TxManager,
		orderRepo: params.OrderRepo,
		qrService: params.QRService,
		logger:    params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return loggerFrom(ctx, srv.logger)
}

func (srv *orderService) ListMine(ctx context.Context, userID uuid.UUID, search string) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.List(ctx, repository.OrderFilter{
		UserID: &userID,
		Search: strings.TrimSpace(search),
		Limit:  maxOrderListSize,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

// GetMine returns an order of userID; other users' orders are reported as missing.
func (srv *orderService) GetMine(ctx context.Context, userID, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return nil, domainerrors.ErrOrderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find order")
	}
	if order.UserID != userID {
		return nil, domainerrors.ErrOrderNotFound
	}

	return order, nil
}

// PlaceOrder checks and decrements stock, snapshots prices and the shipping address,
// and stores the order, all in one transaction.
func (srv *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID, input *usecase.PlaceOrderInput) (*entity.Order, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	quantities, productIDs := mergeOrderLines(input.Items)

	order := &entity.Order{
		ID:     uuid.New(),
		UserID: userID,
		Status: entity.OrderStatusPending,
	}
	order.Reference = entity.OrderReference(order.ID)

	err := srv.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		address, err := findOwnedAddress(ctx, f.NewAddressRepository(), userID, input.ShippingAddressID)
		if err != nil {
			return err
		}
		order.ShippingAddress = address.SingleLine()

		clientName, err := orderClientName(ctx, f, userID)
		if err != nil {
			return err
		}
		order.ClientName = clientName

		products := f.NewProductRepository()
		for _, productID := range productIDs {
			quantity := quantities[productID]

			product, err := products.FindByID(ctx, productID)
			if errors.Is(err, repository.ErrProductNotFound) {
				return domainerrors.ErrProductNotFound.WithDetails(productID.String())
			}
			if err != nil {
				return errors.Wrap(err, "failed to find product")
			}
			if !product.IsAvailable {
				return domainerrors.ErrOutOfStock.WithDetails(product.Name)
			}

			if err := products.AdjustStock(ctx, productID, -quantity); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					return domainerrors.ErrOutOfStock.WithDetails(product.Name)
				}

				return errors.Wrap(err, "failed to decrement stock")
			}

			order.Items = append(order.Items, &entity.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				SKU:         product.SKU,
				UnitPrice:   product.Prix,
				Quantity:    quantity,
			})
		}
		order.Total = order.ComputeTotal()

		orders := f.NewOrderRepository()
		if err := orders.Create(ctx, order); err != nil {
			return errors.Wrap(err, "failed to create order")
		}

		stored, err := orders.FindByID(ctx, order.ID)
		if err != nil {
			return errors.Wrap(err, "failed to reload order")
		}
		order = stored

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Order placement failed", slog.Any("userID", userID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Order placed",
		slog.Any("userID", userID),
		slog.String("reference", order.Reference),
		slog.String("total", order.Total.StringFixed(2)),
	)

	return order, nil
}

// QRCode renders the order slip QR code.
func (srv *orderService) QRCode(ctx context.Context, userID, orderID uuid.UUID) ([]byte, error) {
	order, err := srv.GetMine(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	png, err := srv.qrService.GenerateOrderQR(order.ID, order.Reference)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate order QR code")
	}

	return png, nil
}

// mergeOrderLines sums quantities per product, keeping the first-seen order.
func mergeOrderLines(lines []usecase.OrderLineInput) (map[uuid.UUID]int, []uuid.UUID) {
	quantities := make(map[uuid.UUID]int, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if _, seen := quantities[line.ProductID]; !seen {
			ids = append(ids, line.ProductID)
		}
		quantities[line.ProductID] += line.Quantity
	}

	return quantities, ids
}

func orderClientName(ctx context.Context, f repository.RepositoryFactory, userID uuid.UUID) (string, error) {
	profile, err := f.NewProfileRepository().FindByUserID(ctx, userID)
	if err == nil && profile.FullName() != "" {
		return profile.FullName(), nil
	}
	if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		return "", errors.Wrap(err, "failed to find profile")
	}

	identity, err := f.NewUserRepository().FindByID(ctx, userID)
	if err != nil {
		return "", errors.Wrap(err, "failed to find identity")
	}
	if identity.DisplayName != "" {
		return identity.DisplayName, nil
	}

	return identity.Email, nil
}
