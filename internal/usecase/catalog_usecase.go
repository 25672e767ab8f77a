package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"boutique/internal/domain/entity"
	"boutique/internal/domain/repository"
)

// ProductListInput narrows a category listing.
type ProductListInput struct {
	MinPrice *decimal.Decimal       `json:"minPrice,omitempty"`
	MaxPrice *decimal.Decimal       `json:"maxPrice,omitempty"`
	Sort     repository.ProductSort `json:"sort,omitempty" validate:"omitempty,oneof=newest price_asc price_desc name"`
	Page     int                    `json:"page,omitempty" validate:"omitempty,min=1"`
	PageSize int                    `json:"pageSize,omitempty" validate:"omitempty,min=1"`
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Items    []*entity.Product `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// CategoryProductsOutput is a category page.
type CategoryProductsOutput struct {
	Category *entity.Category `json:"category"`
	Products *ProductPage     `json:"products"`
}

// HomeOutput is the storefront landing page.
type HomeOutput struct {
	Featured   []*entity.Product  `json:"featured"`
	Categories []*entity.Category `json:"categories"`
}

// CatalogUsecase covers the public storefront pages.
type CatalogUsecase interface {
	Home(ctx context.Context) (*HomeOutput, error)
	CategoryTree(ctx context.Context) ([]*entity.CategoryNode, error)
	CategoryProducts(ctx context.Context, slug string, input *ProductListInput) (*CategoryProductsOutput, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)
}
