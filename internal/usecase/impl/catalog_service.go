package impl

import (
	"context"
	"log/slog"

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

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	productRepo repository.ProductRepository
	categories  *categoryLoader
	catalog     *config.CatalogConfig
	logger      *slog.Logger
}

// CatalogServiceParams holds dependencies for CatalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	ProductRepo   repository.ProductRepository
	CategoryRepo  repository.CategoryRepository
	CategoryCache service.CategoryCache
	Config        *config.Config
	Logger        *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		productRepo: params.ProductRepo,
		categories: &categoryLoader{
			repo:   params.CategoryRepo,
			cache:  params.CategoryCache,
			logger: params.Logger,
		},
		catalog: params.Config.Catalog,
		logger:  params.Logger,
	}
}

// Home returns the latest available products and the root categories.
func (srv *catalogService) Home(ctx context.Context) (*usecase.HomeOutput, error) {
	featured, err := srv.productRepo.List(ctx, repository.ProductFilter{
		AvailableOnly: true,
		Sort:          repository.ProductSortNewest,
		Limit:         srv.catalog.FeaturedLimit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list featured products")
	}

	_, tree, err := srv.categories.tree(ctx)
	if err != nil {
		return nil, err
	}

	roots := make([]*entity.Category, 0, len(tree))
	for _, node := range tree {
		root := node.Category
		roots = append(roots, &root)
	}

	return &usecase.HomeOutput{Featured: featured, Categories: roots}, nil
}

func (srv *catalogService) CategoryTree(ctx context.Context) ([]*entity.CategoryNode, error) {
	_, tree, err := srv.categories.tree(ctx)

	return tree, err
}

// CategoryProducts lists the available products of a category and of every category below it.
func (srv *catalogService) CategoryProducts(ctx context.Context, slug string, input *usecase.ProductListInput) (*usecase.CategoryProductsOutput, error) {
	if input == nil {
		input = &usecase.ProductListInput{}
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if input.MinPrice != nil && input.MaxPrice != nil && input.MaxPrice.LessThan(*input.MinPrice) {
		return nil, validation.Field("maxPrice", "gtefield")
	}

	categories, err := srv.categories.load(ctx)
	if err != nil {
		return nil, err
	}

	category := findCategoryBySlug(categories, slug)
	if category == nil {
		return nil, domainerrors.ErrCategoryNotFound
	}

	limit, offset, page, pageSize := pageBounds(srv.catalog, input.Page, input.PageSize)
	filter := repository.ProductFilter{
		CategoryIDs:   entity.DescendantIDs(categories, category.ID),
		MinPrice:      input.MinPrice,
		MaxPrice:      input.MaxPrice,
		AvailableOnly: true,
		Sort:          input.Sort,
		Limit:         limit,
		Offset:        offset,
	}

	total, err := srv.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count products")
	}

	products, err := srv.productRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return &usecase.CategoryProductsOutput{
		Category: category,
		Products: &usecase.ProductPage{
			Items:    products,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		},
	}, nil
}

// GetProduct returns an available product.
func (srv *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, domainerrors.ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find product")
	}
	if !product.IsAvailable {
		return nil, domainerrors.ErrProductNotFound
	}

	return product, nil
}
