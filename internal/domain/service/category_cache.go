package service

import (
	"context"

	"boutique/internal/domain/entity"
	"boutique/internal/errors"
)

// ErrCacheMiss is returned by a cache lookup that found nothing.
var ErrCacheMiss = errors.New("cache miss")

// CategoryCache caches the flat category collection.
// Each Invalidate starts a new generation, and a Set made for an older generation is dropped:
// a load that raced a write cannot put back the list it read before that write.
type CategoryCache interface {
	Get(ctx context.Context) ([]*entity.Category, error)

	// Generation returns the current generation. Read it before loading from the source.
	Generation(ctx context.Context) (uint64, error)

	// Set stores categories when generation is still the current one, and is a no-op otherwise.
	Set(ctx context.Context, generation uint64, categories []*entity.Category) error

	Invalidate(ctx context.Context) error
}
