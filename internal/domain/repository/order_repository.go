package repository

import (
	"context"

	"boutique/internal/domain/entity"
	"boutique/internal/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrOrderNotFound is returned when an order is not found.
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderStatusChanged is returned when the order no longer has the expected status.
	ErrOrderStatusChanged = errors.New("order status changed concurrently")
)

// OrderFilter narrows order listings.
type OrderFilter struct {
	UserID *uuid.UUID
	Search string // Reference or client name, case-insensitive.
	Status entity.OrderStatus
	Limit  int
	Offset int
}

// OrderRepository persists orders with their items.
type OrderRepository interface {
	// Create persists the order and its items.
	Create(ctx context.Context, order *entity.Order) error

	// FindByID loads the order with its items.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// List returns matching orders, newest first, items included.
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)

	// UpdateStatus moves the order from one status to another, only if it still has from.
	// Returns ErrOrderStatusChanged otherwise.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.OrderStatus) error

	// CountByStatus returns the number of orders per status.
	CountByStatus(ctx context.Context) (map[entity.OrderStatus]int64, error)

	// Revenue sums the totals of non-cancelled orders.
	Revenue(ctx context.Context) (decimal.Decimal, error)
}
