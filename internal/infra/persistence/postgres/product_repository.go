package postgres

import (
	"context"
	"time"

	"boutique/internal/domain/entity"
	domainerrors "boutique/internal/domain/errors"
	"boutique/internal/domain/repository"
	"boutique/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// productRepository implements repository.ProductRepository.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

// Create persists a product.
func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)
	if err := repo.db.WithContext(ctx).Create(productM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create product")
	}

	product.ID = productM.ID
	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// FindByID retrieves a product with its category name.
func (repo *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var rows []model.ProductRow
	if err := repo.joined(ctx).Where("products.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find product")
	}
	if len(rows) == 0 {
		return nil, repository.ErrProductNotFound
	}

	return toProductDomain(&rows[0]), nil
}

// List returns the products matching filter.
func (repo *productRepository) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	query := applyProductFilter(repo.joined(ctx), filter)

	switch filter.Sort {
	case repository.ProductSortPriceAsc:
		query = query.Order("products.prix ASC")
	case repository.ProductSortPriceDesc:
		query = query.Order("products.prix DESC")
	case repository.ProductSortName:
		query = query.Order("LOWER(products.name) ASC")
	default:
		query = query.Order("products.created_at DESC")
	}
	query = query.Order("products.id ASC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var rows []model.ProductRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list products")
	}

	products := make([]*entity.Product, 0, len(rows))
	for i := range rows {
		products = append(products, toProductDomain(&rows[i]))
	}

	return products, nil
}

// Count returns the number of products matching filter.
func (repo *productRepository) Count(ctx context.Context, filter repository.ProductFilter) (int64, error) {
	var count int64
	query := applyProductFilter(repo.db.WithContext(ctx).Model(&model.ProductModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to count products")
	}

	return count, nil
}

// CountByCategory counts the products referencing categoryID.
func (repo *productRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	if err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to count products by category")
	}

	return count, nil
}

// Update writes every editable product field.
func (repo *productRepository) Update(ctx context.Context, product *entity.Product) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":         product.Name,
			"description":  product.Description,
			"prix":         product.Prix,
			"stock":        product.Stock,
			"category_id":  product.CategoryID,
			"image_url":    product.ImageURL,
			"image_path":   product.ImagePath,
			"is_available": product.IsAvailable,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// AdjustStock adds delta to the stock in a single guarded statement.
func (repo *productRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock + ?", delta),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to adjust stock")
	}
	if result.RowsAffected == 0 {
		if _, err := repo.FindByID(ctx, id); err != nil {
			return err
		}

		return repository.ErrInsufficientStock
	}

	return nil
}

// Delete removes a product.
func (repo *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ProductModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

func (repo *productRepository) joined(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).
		Table("products").
		Select("products.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = products.category_id")
}

func applyProductFilter(query *gorm.DB, filter repository.ProductFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			"LOWER(products.name) LIKE ?"+likeEscape+" OR LOWER(products.sku) LIKE ?"+likeEscape,
			pattern, pattern,
		)
	}
	if len(filter.CategoryIDs) > 0 {
		query = query.Where("products.category_id IN ?", filter.CategoryIDs)
	}
	if filter.MinPrice != nil {
		query = query.Where("products.prix >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.prix <= ?", *filter.MaxPrice)
	}
	if filter.AvailableOnly {
		query = query.Where("products.is_available = ?", true)
	}
	if filter.LowStockOnly {
		query = query.Where("products.stock <= ?", entity.LowStockThreshold)
	}

	return query
}

func toProductDomain(data *model.ProductRow) *entity.Product {
	return &entity.Product{
		ID:           data.ID,
		Name:         data.Name,
		Description:  data.Description,
		Prix:         data.Prix,
		Stock:        data.Stock,
		SKU:          data.SKU,
		CategoryID:   data.CategoryID,
		CategoryName: data.CategoryName,
		ImageURL:     data.ImageURL,
		ImagePath:    data.ImagePath,
		IsAvailable:  data.IsAvailable,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func fromProductDomain(data *entity.Product) *model.ProductModel {
	return &model.ProductModel{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		Prix:        data.Prix,
		Stock:       data.Stock,
		SKU:         data.SKU,
		CategoryID:  data.CategoryID,
		ImageURL:    data.ImageURL,
		ImagePath:   data.ImagePath,
		IsAvailable: data.IsAvailable,
	}
}
