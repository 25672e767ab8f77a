package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"boutique/config"
	"boutique/internal/domain/constants"
	"boutique/internal/domain/entity"
	domainerrors "boutique/internal/domain/errors"
	"boutique/internal/domain/repository"
	"boutique/internal/domain/service"
	"boutique/internal/errors"
	"boutique/internal/usecase"
	"boutique/internal/usecase/validation"
	"boutique/internal/util"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// adminProductService implements the AdminProductUsecase interface.
type adminProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	storage      service.ObjectStorage
	publisher    service.EventPublisher
	catalog      *config.CatalogConfig
	maxImageSize int64
	now          func() time.Time
	logger       *slog.Logger
}

// AdminProductServiceParams holds dependencies for AdminProductService, injected by Fx.
type AdminProductServiceParams struct {
	fx.In

	ProductRepo  repository.ProductRepository
	CategoryRepo repository.CategoryRepository
	Storage      service.ObjectStorage
	Publisher    service.EventPublisher
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAdminProductService is the constructor for adminProductService.
func NewAdminProductService(params AdminProductServiceParams) usecase.AdminProductUsecase {
	return &adminProductService{
		productRepo:  params.ProductRepo,
		categoryRepo: params.CategoryRepo,
		storage:      params.Storage,
		publisher:    params.Publisher,
		catalog:      params.Config.Catalog,
		maxImageSize: params.Config.Storage.MaxImageSize,
		now:          time.Now,
		logger:       params.Logger,
	}
}

func (srv *adminProductService) log(ctx context.Context) *slog.Logger {
	return loggerFrom(ctx, srv.logger)
}

// List returns every product matching filter, available or not.
func (srv *adminProductService) List(ctx context.Context, filter *usecase.AdminProductFilter) (*usecase.ProductPage, error) {
	if filter == nil {
		filter = &usecase.AdminProductFilter{}
	}
	if err := validation.Struct(filter); err != nil {
		return nil, err
	}

	limit, offset, page, pageSize := pageBounds(srv.catalog, filter.Page, filter.PageSize)
	query := repository.ProductFilter{
		Search:       strings.TrimSpace(filter.Search),
		LowStockOnly: filter.LowStock,
		Sort:         repository.ProductSortNewest,
		Limit:        limit,
		Offset:       offset,
	}
	if filter.CategoryID != nil {
		query.CategoryIDs = []uuid.UUID{*filter.CategoryID}
	}

	total, err := srv.productRepo.Count(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count products")
	}

	products, err := srv.productRepo.List(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return &usecase.ProductPage{Items: products, Total: total, Page: page, PageSize: pageSize}, nil
}

func (srv *adminProductService) Get(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, domainerrors.ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find product")
	}

	return product, nil
}

// Create uploads the image, then writes the product. When the write fails the uploaded
// object is deleted and a single generic failure is reported.
func (srv *adminProductService) Create(ctx context.Context, input *usecase.ProductInput, image *usecase.ImageUpload) (*entity.Product, error) {
	if err := srv.validateForm(input, image, true); err != nil {
		return nil, err
	}
	if err := srv.ensureCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	id := uuid.New()
	product := &entity.Product{
		ID:          id,
		SKU:         entity.ProductSKU(id),
		IsAvailable: true,
	}
	applyProductInput(product, input)

	key, url, err := srv.upload(ctx, product.SKU, image)
	if err != nil {
		return nil, err
	}
	product.ImagePath = key
	product.ImageURL = url

	if err := srv.productRepo.Create(ctx, product); err != nil {
		srv.log(ctx).Error("Product write failed, removing uploaded image", slog.String("key", key), slog.Any("error", err))
		srv.removeImage(ctx, key)

		return nil, domainerrors.ErrProductSaveFailed
	}

	srv.log(ctx).Info("Product created", slog.Any("productID", product.ID), slog.String("sku", product.SKU))

	return srv.Get(ctx, product.ID)
}

// Update writes the product. A new image is uploaded first; the old one is removed only
// after a successful write, the new one if the write fails.
func (srv *adminProductService) Update(ctx context.Context, id uuid.UUID, input *usecase.ProductInput, image *usecase.ImageUpload) (*entity.Product, error) {
	if err := srv.validateForm(input, image, false); err != nil {
		return nil, err
	}

	product, err := srv.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := srv.ensureCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	applyProductInput(product, input)
	if input.IsAvailable != nil {
		product.IsAvailable = *input.IsAvailable
	}

	oldKey := product.ImagePath
	newKey := ""
	if image != nil {
		key, url, err := srv.upload(ctx, product.SKU, image)
		if err != nil {
			return nil, err
		}
		newKey = key
		product.ImagePath = key
		product.ImageURL = url
	}

	if err := srv.productRepo.Update(ctx, product); err != nil {
		srv.log(ctx).Error("Product update failed", slog.Any("productID", id), slog.Any("error", err))
		if newKey != "" {
			srv.removeImage(ctx, newKey)
		}
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, domainerrors.ErrProductSaveFailed
	}

	if newKey != "" && oldKey != "" && oldKey != newKey {
		srv.removeImage(ctx, oldKey)
	}

	return srv.Get(ctx, id)
}

// Delete removes the product and hands its image over to the worker.
func (srv *adminProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := srv.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := srv.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return domainerrors.ErrProductNotFound
		}

		return errors.Wrap(err, "failed to delete product")
	}

	srv.log(ctx).Info("Product deleted", slog.Any("productID", id), slog.String("sku", product.SKU))

	if product.ImagePath == "" {
		return nil
	}

	event := newDomainEvent(ctx, service.EventProductDeleted, map[string]string{
		"product_id":               id.String(),
		service.ImagePathAttribute: product.ImagePath,
	})
	if err := srv.publisher.Publish(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish product deletion, removing image inline", slog.Any("error", err))
		srv.removeImage(ctx, product.ImagePath)
	}

	return nil
}

// validateForm collects every field failure of the form before any backend call.
func (srv *adminProductService) validateForm(input *usecase.ProductInput, image *usecase.ImageUpload, imageRequired bool) error {
	fields := map[string]string{}

	if input == nil {
		input = &usecase.ProductInput{}
	}
	if err := validation.Struct(input); err != nil {
		var verr *domainerrors.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		for name, rule := range verr.Fields {
			fields[name] = rule
		}
	}
	if input.Prix.IsNegative() {
		fields["prix"] = "gte"
	}

	switch {
	case image == nil || image.Body == nil:
		if imageRequired {
			fields["image"] = "required"
		}
	case !strings.HasPrefix(image.ContentType, "image/"):
		fields["image"] = "image"
	case srv.maxImageSize > 0 && image.Size > srv.maxImageSize:
		fields["image"] = fmt.Sprintf("max=%s", util.FormatBytes(srv.maxImageSize))
	}

	if len(fields) > 0 {
		return domainerrors.NewValidationError(fields)
	}

	return nil
}

func (srv *adminProductService) ensureCategory(ctx context.Context, categoryID uuid.UUID) error {
	_, err := srv.categoryRepo.FindByID(ctx, categoryID)
	if errors.Is(err, repository.ErrCategoryNotFound) {
		return domainerrors.ErrCategoryNotFound
	}
	if err != nil {
		return errors.Wrap(err, "failed to find category")
	}

	return nil
}

// upload stores the image under products/<sku>-<unixMillis><ext> and returns its key and URL.
func (srv *adminProductService) upload(ctx context.Context, sku string, image *usecase.ImageUpload) (string, string, error) {
	key := fmt.Sprintf("%s/%s-%d%s",
		constants.ProductImagePrefix, sku, srv.now().UnixMilli(), util.FileExtension(image.Filename, image.ContentType))

	if err := srv.storage.Upload(ctx, key, image.Body, image.ContentType); err != nil {
		srv.log(ctx).Error("Image upload failed", slog.String("key", key), slog.Any("error", err))

		return "", "", domainerrors.ErrImageUploadFailed
	}

	url, err := srv.storage.URL(ctx, key)
	if err != nil {
		srv.log(ctx).Error("Image URL resolution failed", slog.String("key", key), slog.Any("error", err))
		srv.removeImage(ctx, key)

		return "", "", domainerrors.ErrImageUploadFailed
	}

	return key, url, nil
}

// removeImage deletes an object; on failure the key is published as orphaned for the worker.
func (srv *adminProductService) removeImage(ctx context.Context, key string) {
	err := srv.storage.Delete(ctx, key)
	if err == nil {
		return
	}

	srv.log(ctx).Warn("Image removal failed, handing over to worker", slog.String("key", key), slog.Any("error", err))

	event := newDomainEvent(ctx, service.EventProductImageOrphan, map[string]string{service.ImagePathAttribute: key})
	if err := srv.publisher.Publish(ctx, event); err != nil {
		srv.log(ctx).Error("Orphaned image left in storage", slog.String("key", key), slog.Any("error", err))
	}
}

func applyProductInput(product *entity.Product, input *usecase.ProductInput) {
	product.Name = strings.TrimSpace(input.Name)
	product.Description = strings.TrimSpace(input.Description)
	product.Prix = input.Prix
	product.Stock = input.Stock
	product.CategoryID = input.CategoryID
}
