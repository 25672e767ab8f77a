package impl

import (
	"context"
	"log/slog"

	"boutique/internal/domain/entity"
	"boutique/internal/domain/repository"
	"boutique/internal/domain/service"
	"boutique/internal/errors"
)

// categoryLoader reads the flat category collection through the cache.
type categoryLoader struct {
	repo   repository.CategoryRepository
	cache  service.CategoryCache
	logger *slog.Logger
}

// load serves the cached collection, falling back to the repository on a miss or a cache failure.
func (l *categoryLoader) load(ctx context.Context) ([]*entity.Category, error) {
	categories, err := l.cache.Get(ctx)
	if err == nil {
		return categories, nil
	}
	if !errors.Is(err, service.ErrCacheMiss) {
		loggerFrom(ctx, l.logger).Warn("Category cache read failed", slog.Any("error", err))
	}

	// The generation is read before the source so that an invalidation in between wins.
	generation, genErr := l.cache.Generation(ctx)

	categories, err = l.repo.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load categories")
	}

	if genErr != nil {
		loggerFrom(ctx, l.logger).Warn("Category cache generation read failed", slog.Any("error", genErr))

		return categories, nil
	}
	if err := l.cache.Set(ctx, generation, categories); err != nil {
		loggerFrom(ctx, l.logger).Warn("Category cache write failed", slog.Any("error", err))
	}

	return categories, nil
}

// tree builds the category forest from the loaded collection.
func (l *categoryLoader) tree(ctx context.Context) ([]*entity.Category, []*entity.CategoryNode, error) {
	categories, err := l.load(ctx)
	if err != nil {
		return nil, nil, err
	}

	tree, err := entity.BuildCategoryTree(categories)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to build category tree")
	}

	return categories, tree, nil
}

func (l *categoryLoader) invalidate(ctx context.Context) {
	if err := l.cache.Invalidate(ctx); err != nil {
		loggerFrom(ctx, l.logger).Warn("Category cache invalidation failed", slog.Any("error", err))
	}
}

func findCategoryBySlug(categories []*entity.Category, slug string) *entity.Category {
	for _, category := range categories {
		if category.Slug == slug {
			return category
		}
	}

	return nil
}
