package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boutique/internal/domain/entity"
	"boutique/internal/domain/service"
	"boutique/internal/errors"
)

func sampleCategories() []*entity.Category {
	parent := uuid.New()

	return []*entity.Category{
		{ID: parent, Name: "Vêtements", Slug: "vetements"},
		{ID: uuid.New(), Name: "Robes", Slug: "robes", ParentID: &parent},
	}
}

func TestMemoryCategoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCategoryCache(time.Minute)

	_, err := c.Get(ctx)
	assert.True(t, errors.Is(err, service.ErrCacheMiss))

	in := sampleCategories()
	require.NoError(t, c.Set(ctx, 0, in))

	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, got)

	// cached records are copies
	got[0].Name = "changed"
	again, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Vêtements", again[0].Name)

	require.NoError(t, c.Invalidate(ctx))
	_, err = c.Get(ctx)
	assert.True(t, errors.Is(err, service.ErrCacheMiss))
}

func TestMemoryCategoryCache_StaleGenerationIsDropped(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCategoryCache(time.Minute)

	before, err := c.Generation(ctx)
	require.NoError(t, err)

	// A write commits and invalidates while a load is still reading the old list.
	require.NoError(t, c.Invalidate(ctx))

	require.NoError(t, c.Set(ctx, before, sampleCategories()))
	_, err = c.Get(ctx)
	assert.True(t, errors.Is(err, service.ErrCacheMiss))

	current, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, current)

	require.NoError(t, c.Set(ctx, current, sampleCategories()))
	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestMemoryCategoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCategoryCache(time.Minute)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, 0, sampleCategories()))
	now = now.Add(59 * time.Second)
	_, err := c.Get(ctx)
	assert.NoError(t, err)

	now = now.Add(time.Second)
	_, err = c.Get(ctx)
	assert.True(t, errors.Is(err, service.ErrCacheMiss))
}

func TestMemoryCategoryCache_EmptyListIsAHit(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCategoryCache(time.Minute)

	require.NoError(t, c.Set(ctx, 0, nil))
	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

// Runs against a real server when REDIS_ADDR is set.
func TestRedisCategoryCache(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisCategoryCache(client, "test:"+uuid.NewString()+":", time.Minute)
	t.Cleanup(func() { _ = c.Invalidate(ctx) })

	_, err := c.Get(ctx)
	assert.True(t, errors.Is(err, service.ErrCacheMiss))

	in := sampleCategories()
	require.NoError(t, c.Set(ctx, 0, in))
	got, err := c.Get(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, in[1].ParentID, got[1].ParentID)

	require.NoError(t, c.Invalidate(ctx))
	_, err = c.Get(ctx)
	assert.True(t, errors.Is(err, service.ErrCacheMiss))

	generation, err := c.Generation(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, generation-1, in))
	_, err = c.Get(ctx)
	assert.True(t, errors.Is(err, service.ErrCacheMiss), "stale generation")
}
