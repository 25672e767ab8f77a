package postgres

import (
	"context"
	"time"

	"boutique/internal/domain/entity"
	domainerrors "boutique/internal/domain/errors"
	"boutique/internal/domain/repository"
	"boutique/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// orderRepository implements repository.OrderRepository.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// Create persists the order together with its items.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)
	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt
	for i, item := range orderM.Items {
		order.Items[i].ID = item.ID
		order.Items[i].OrderID = orderM.ID
	}

	return nil
}

// FindByID loads an order with its items.
func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel
	err := repo.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&orderM).Error
	if err != nil {
		if isNotFound(err) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find order")
	}

	return toOrderDomain(&orderM), nil
}

// List returns matching orders, newest first.
func (repo *orderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]*entity.Order, error) {
	query := repo.db.WithContext(ctx).Preload("Items")

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			"LOWER(reference) LIKE ?"+likeEscape+" OR LOWER(client_name) LIKE ?"+likeEscape,
			pattern, pattern,
		)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var orderModels []model.OrderModel
	if err := query.Order("created_at DESC").Order("id ASC").Find(&orderModels).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list orders")
	}

	orders := make([]*entity.Order, 0, len(orderModels))
	for i := range orderModels {
		orders = append(orders, toOrderDomain(&orderModels[i]))
	}

	return orders, nil
}

// UpdateStatus is a compare-and-set on the status column.
func (repo *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.OrderStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{"status": string(to), "updated_at": time.Now()})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update order status")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderStatusChanged
	}

	return nil
}

// CountByStatus groups orders by status.
func (repo *orderRepository) CountByStatus(ctx context.Context) (map[entity.OrderStatus]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to count orders by status")
	}

	counts := make(map[entity.OrderStatus]int64, len(entity.AllOrderStatuses()))
	for _, status := range entity.AllOrderStatuses() {
		counts[status] = 0
	}
	for _, row := range rows {
		counts[entity.OrderStatus(row.Status)] = row.Total
	}

	return counts, nil
}

// Revenue sums the totals of every order that was not cancelled.
func (repo *orderRepository) Revenue(ctx context.Context) (decimal.Decimal, error) {
	var revenue decimal.NullDecimal
	row := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Select("SUM(total)").
		Where("status <> ?", string(entity.OrderStatusCancelled)).
		Row()
	if err := row.Scan(&revenue); err != nil {
		return decimal.Zero, domainerrors.NewDatabaseExecuteError(err, "failed to compute revenue")
	}
	if !revenue.Valid {
		return decimal.Zero, nil
	}

	return revenue.Decimal, nil
}

func toOrderDomain(data *model.OrderModel) *entity.Order {
	items := make([]*entity.OrderItem, 0, len(data.Items))
	for _, item := range data.Items {
		items = append(items, &entity.OrderItem{
			ID:          item.ID,
			OrderID:     item.OrderID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			SKU:         item.SKU,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}

	return &entity.Order{
		ID:              data.ID,
		Reference:       data.Reference,
		UserID:          data.UserID,
		ClientName:      data.ClientName,
		ShippingAddress: data.ShippingAddress,
		Items:           items,
		Total:           data.Total,
		Status:          entity.OrderStatus(data.Status),
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

func fromOrderDomain(data *entity.Order) *model.OrderModel {
	items := make([]model.OrderItemModel, 0, len(data.Items))
	for _, item := range data.Items {
		items = append(items, model.OrderItemModel{
			ID:          item.ID,
			OrderID:     data.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			SKU:         item.SKU,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}

	return &model.OrderModel{
		ID:              data.ID,
		Reference:       data.Reference,
		UserID:          data.UserID,
		ClientName:      data.ClientName,
		ShippingAddress: data.ShippingAddress,
		Items:           items,
		Total:           data.Total,
		Status:          string(data.Status),
	}
}
