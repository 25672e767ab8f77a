// Package cache holds the category collection cache used by the catalog.
package cache

import (
	"context"
	"sync"
	"time"

	"boutique/internal/domain/entity"
	"boutique/internal/domain/service"
)

// MemoryCategoryCache keeps the category list in process memory.
type MemoryCategoryCache struct {
	mu         sync.RWMutex
	ttl        time.Duration
	now        func() time.Time
	items      []*entity.Category
	expiresAt  time.Time
	generation uint64
}

// NewMemoryCategoryCache creates an empty cache whose entries live for ttl.
func NewMemoryCategoryCache(ttl time.Duration) *MemoryCategoryCache {
	return &MemoryCategoryCache{ttl: ttl, now: time.Now}
}

var _ service.CategoryCache = (*MemoryCategoryCache)(nil)

func (c *MemoryCategoryCache) Get(_ context.Context) ([]*entity.Category, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.items == nil || !c.now().Before(c.expiresAt) {
		return nil, service.ErrCacheMiss
	}

	return cloneCategories(c.items), nil
}

func (c *MemoryCategoryCache) Generation(_ context.Context) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.generation, nil
}

func (c *MemoryCategoryCache) Set(_ context.Context, generation uint64, categories []*entity.Category) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		return nil
	}
	c.items = cloneCategories(categories)
	c.expiresAt = c.now().Add(c.ttl)

	return nil
}

func (c *MemoryCategoryCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	c.generation++

	return nil
}

// cloneCategories copies the records so callers cannot mutate the cached ones.
func cloneCategories(in []*entity.Category) []*entity.Category {
	out := make([]*entity.Category, 0, len(in))
	for _, c := range in {
		if c == nil {
			continue
		}
		cp := *c
		if c.ParentID != nil {
			parent := *c.ParentID
			cp.ParentID = &parent
		}
		out = append(out, &cp)
	}

	return out
}
