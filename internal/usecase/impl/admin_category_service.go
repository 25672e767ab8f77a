package impl

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

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

// adminCategoryService implements the AdminCategoryUsecase interface.
type adminCategoryService struct {
	txManager    repository.TransactionManager
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	categories   *categoryLoader
	logger       *slog.Logger
}

// AdminCategoryServiceParams holds dependencies for AdminCategoryService, injected by Fx.
type AdminCategoryServiceParams struct {
	fx.In

	TxManager     repository.TransactionManager
	CategoryRepo  repository.CategoryRepository
	ProductRepo   repository.ProductRepository
	CategoryCache service.CategoryCache
	Logger        *slog.Logger
}

// NewAdminCategoryService is the constructor for adminCategoryService.
func NewAdminCategoryService(params AdminCategoryServiceParams) usecase.AdminCategoryUsecase {
	return &adminCategoryService{
		txManager:    params.TxManager,
		categoryRepo: params.CategoryRepo,
		productRepo:  params.ProductRepo,
		categories: &categoryLoader{
			repo:   params.CategoryRepo,
			cache:  params.CategoryCache,
			logger: params.Logger,
		},
		logger: params.Logger,
	}
}

func (srv *adminCategoryService) log(ctx context.Context) *slog.Logger {
	return loggerFrom(ctx, srv.logger)
}

func (srv *adminCategoryService) List(ctx context.Context) (*usecase.CategoryListOutput, error) {
	categories, tree, err := srv.categories.tree(ctx)
	if err != nil {
		return nil, err
	}

	return &usecase.CategoryListOutput{Categories: categories, Tree: tree}, nil
}

// Create adds a category whose slug is derived from its name.
func (srv *adminCategoryService) Create(ctx context.Context, input *usecase.CategoryInput) (*usecase.CategoryListOutput, error) {
	category, err := newCategoryFromInput(input)
	if err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		if _, err := srv.find(ctx, *input.ParentID); err != nil {
			return nil, err
		}
	}

	if err := srv.categoryRepo.Create(ctx, category); err != nil {
		return nil, categoryWriteError(err)
	}

	srv.log(ctx).Info("Category created", slog.Any("categoryID", category.ID), slog.String("slug", category.Slug))

	return srv.refresh(ctx)
}

// Update renames or moves a category. The new parent must exist and must not be the
// category itself or one of its descendants.
func (srv *adminCategoryService) Update(ctx context.Context, id uuid.UUID, input *usecase.CategoryInput) (*usecase.CategoryListOutput, error) {
	changes, err := newCategoryFromInput(input)
	if err != nil {
		return nil, err
	}

	category, err := srv.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		if *input.ParentID == id {
			return nil, domainerrors.ErrCategoryCycle
		}
		if _, err := srv.find(ctx, *input.ParentID); err != nil {
			return nil, err
		}

		all, err := srv.categoryRepo.FindAll(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load categories")
		}
		if slices.Contains(entity.DescendantIDs(all, id), *input.ParentID) {
			return nil, domainerrors.ErrCategoryCycle.WithDetails("the new parent is a descendant of this category")
		}
	}

	category.Name = changes.Name
	category.Slug = changes.Slug
	category.ParentID = changes.ParentID
	if err := srv.categoryRepo.Update(ctx, category); err != nil {
		return nil, categoryWriteError(err)
	}

	return srv.refresh(ctx)
}

// Delete removes a category no product uses; its children become roots.
func (srv *adminCategoryService) Delete(ctx context.Context, id uuid.UUID) (*usecase.CategoryListOutput, error) {
	if _, err := srv.find(ctx, id); err != nil {
		return nil, err
	}

	err := srv.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		inUse, err := f.NewProductRepository().CountByCategory(ctx, id)
		if err != nil {
			return errors.Wrap(err, "failed to count products")
		}
		if inUse > 0 {
			return domainerrors.ErrCategoryInUse.WithDetails(fmt.Sprintf("%d produit(s)", inUse))
		}

		categories := f.NewCategoryRepository()
		if err := categories.DetachChildren(ctx, id); err != nil {
			return errors.Wrap(err, "failed to detach children")
		}

		return categoryWriteError(categories.Delete(ctx, id))
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Category deleted", slog.Any("categoryID", id))

	return srv.refresh(ctx)
}

// refresh invalidates the cache and re-fetches the collection.
func (srv *adminCategoryService) refresh(ctx context.Context) (*usecase.CategoryListOutput, error) {
	srv.categories.invalidate(ctx)

	return srv.List(ctx)
}

func (srv *adminCategoryService) find(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	category, err := srv.categoryRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrCategoryNotFound) {
		return nil, domainerrors.ErrCategoryNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find category")
	}

	return category, nil
}

func newCategoryFromInput(input *usecase.CategoryInput) (*entity.Category, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	slug := util.Slugify(name)
	if slug == "" {
		return nil, validation.Field("name", "slug")
	}

	return &entity.Category{Name: name, Slug: slug, ParentID: input.ParentID}, nil
}

func categoryWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrCategorySlugTaken):
		return domainerrors.ErrCategorySlugTaken
	case errors.Is(err, repository.ErrCategoryNotFound):
		return domainerrors.ErrCategoryNotFound
	default:
		return errors.Wrap(err, "failed to write category")
	}
}
