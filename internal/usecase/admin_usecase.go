package usecase

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"boutique/internal/domain/entity"
)

// ProductInput defines the product form. IsAvailable is only read on update.
type ProductInput struct {
	Name        string          `json:"name" validate:"notblank,max=200"`
	Description string          `json:"description" validate:"max=5000"`
	Prix        decimal.Decimal `json:"prix"`
	Stock       int             `json:"stock" validate:"min=0"`
	CategoryID  uuid.UUID       `json:"categoryId" validate:"required"`
	IsAvailable *bool           `json:"isAvailable,omitempty"`
}

// ImageUpload is an uploaded product image.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// AdminProductFilter narrows the admin product list.
type AdminProductFilter struct {
	Search     string     `json:"search,omitempty"`
	CategoryID *uuid.UUID `json:"categoryId,omitempty"`
	LowStock   bool       `json:"lowStock,omitempty"`
	Page       int        `json:"page,omitempty" validate:"omitempty,min=1"`
	PageSize   int        `json:"pageSize,omitempty" validate:"omitempty,min=1"`
}

// CategoryInput defines the category form.
type CategoryInput struct {
	Name     string     `json:"name" validate:"notblank,max=100"`
	ParentID *uuid.UUID `json:"parentId,omitempty"`
}

// CategoryListOutput is the admin category page: the flat list and the tree built from it.
type CategoryListOutput struct {
	Categories []*entity.Category     `json:"categories"`
	Tree       []*entity.CategoryNode `json:"tree"`
}

// AdminUserFilter narrows the admin user list.
type AdminUserFilter struct {
	Search   string      `json:"search,omitempty"`
	Role     entity.Role `json:"role,omitempty" validate:"omitempty,oneof=customer admin"`
	Page     int         `json:"page,omitempty" validate:"omitempty,min=1"`
	PageSize int         `json:"pageSize,omitempty" validate:"omitempty,min=1"`
}

// ChangeRoleInput defines a role change.
type ChangeRoleInput struct {
	Role entity.Role `json:"role" validate:"required,oneof=customer admin"`
}

// AdminOrderFilter narrows the admin order list.
type AdminOrderFilter struct {
	Search   string             `json:"search,omitempty"`
	Status   entity.OrderStatus `json:"status,omitempty" validate:"omitempty,oneof=pending processing shipped delivered cancelled"`
	Page     int                `json:"page,omitempty" validate:"omitempty,min=1"`
	PageSize int                `json:"pageSize,omitempty" validate:"omitempty,min=1"`
}

// ScanOrderInput carries the decoded content of an order slip QR code.
type ScanOrderInput struct {
	Data string `json:"data" validate:"required"`
}

// UpdateOrderStatusInput defines a status change.
type UpdateOrderStatusInput struct {
	Status entity.OrderStatus `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

// DashboardOutput holds one independently loaded state per section.
type DashboardOutput struct {
	Products      entity.State[int64]                        `json:"products"`
	LowStock      entity.State[int64]                        `json:"lowStock"`
	Users         entity.State[int64]                        `json:"users"`
	OrdersByState entity.State[map[entity.OrderStatus]int64] `json:"ordersByStatus"`
	Revenue       entity.State[decimal.Decimal]              `json:"revenue"`
}

// AdminProductUsecase covers product management.
type AdminProductUsecase interface {
	List(ctx context.Context, filter *AdminProductFilter) (*ProductPage, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// Create uploads the image then writes the product; the upload is removed if the write fails.
	Create(ctx context.Context, input *ProductInput, image *ImageUpload) (*entity.Product, error)

	// Update writes the product; a new image replaces the old one, which is removed after the write.
	Update(ctx context.Context, id uuid.UUID, input *ProductInput, image *ImageUpload) (*entity.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdminCategoryUsecase covers category management. Every mutation returns the re-fetched list.
type AdminCategoryUsecase interface {
	List(ctx context.Context) (*CategoryListOutput, error)
	Create(ctx context.Context, input *CategoryInput) (*CategoryListOutput, error)
	Update(ctx context.Context, id uuid.UUID, input *CategoryInput) (*CategoryListOutput, error)
	Delete(ctx context.Context, id uuid.UUID) (*CategoryListOutput, error)
}

// AdminUserUsecase covers user management.
type AdminUserUsecase interface {
	List(ctx context.Context, filter *AdminUserFilter) ([]*entity.CurrentUser, error)

	// ChangeRole sets the role of userID. An admin cannot demote themselves.
	ChangeRole(ctx context.Context, actorID, userID uuid.UUID, input *ChangeRoleInput) (*entity.CurrentUser, error)
}

// AdminOrderUsecase covers order management.
type AdminOrderUsecase interface {
	List(ctx context.Context, filter *AdminOrderFilter) ([]*entity.Order, error)

	// UpdateStatus follows the order status transitions; cancelling restocks the items.
	UpdateStatus(ctx context.Context, id uuid.UUID, input *UpdateOrderStatusInput) (*entity.Order, error)

	// Scan resolves the order of a scanned slip.
	Scan(ctx context.Context, input *ScanOrderInput) (*entity.Order, error)
}

// DashboardUsecase covers the admin landing page.
type DashboardUsecase interface {
	Dashboard(ctx context.Context) *DashboardOutput
}
