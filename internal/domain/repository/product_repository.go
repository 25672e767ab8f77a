package repository

import (
	"context"

	"boutique/internal/domain/entity"
	"boutique/internal/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Domain-specific errors for product persistence.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductSort orders product listings.
type ProductSort string

const (
	ProductSortNewest    ProductSort = "newest"
	ProductSortPriceAsc  ProductSort = "price_asc"
	ProductSortPriceDesc ProductSort = "price_desc"
	ProductSortName      ProductSort = "name"
)

// ProductFilter narrows product listings. Zero values mean "no constraint".
type ProductFilter struct {
	Search        string // Name or SKU, case-insensitive.
	CategoryIDs   []uuid.UUID
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	AvailableOnly bool
	LowStockOnly  bool
	Sort          ProductSort
	Limit         int
	Offset        int
}

// ProductRepository persists catalog products.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// List returns the products matching the filter with their category name filled in.
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)

	// Count returns the number of products matching the filter, ignoring Limit and Offset.
	Count(ctx context.Context, filter ProductFilter) (int64, error)

	// CountByCategory counts the products referencing a category.
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)

	Update(ctx context.Context, product *entity.Product) error

	// AdjustStock adds delta to the stock. Returns ErrInsufficientStock when the result would be negative.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error

	Delete(ctx context.Context, id uuid.UUID) error
}
