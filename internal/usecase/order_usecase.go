package usecase

import (
	"context"

	"github.com/google/uuid"

	"boutique/internal/domain/entity"
)

// OrderLineInput is one product of a new order.
type OrderLineInput struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"min=1,max=100"`
}

// PlaceOrderInput defines a new order.
type PlaceOrderInput struct {
	Items             []OrderLineInput `json:"items" validate:"required,min=1,dive"`
	ShippingAddressID uuid.UUID        `json:"shippingAddressId" validate:"required"`
}

// OrderUsecase covers the orders page of the account area.
type OrderUsecase interface {
	// ListMine returns the caller's orders, optionally filtered by reference.
	ListMine(ctx context.Context, userID uuid.UUID, search string) ([]*entity.Order, error)
	GetMine(ctx context.Context, userID, orderID uuid.UUID) (*entity.Order, error)
	PlaceOrder(ctx context.Context, userID uuid.UUID, input *PlaceOrderInput) (*entity.Order, error)

	// QRCode renders the PNG QR code of one of the caller's orders.
	QRCode(ctx context.Context, userID, orderID uuid.UUID) ([]byte, error)
}
