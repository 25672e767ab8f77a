package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"boutique/internal/domain/entity"
	"boutique/internal/domain/service"
	"boutique/internal/errors"
)

const (
	categoriesKey = "categories:all"
	generationKey = "categories:generation"
)

// RedisCategoryCache stores the category list as one JSON value.
type RedisCategoryCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisCategoryCache uses an existing client; the caller owns it.
func NewRedisCategoryCache(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisCategoryCache {
	return &RedisCategoryCache{client: client, prefix: prefix, ttl: ttl}
}

var _ service.CategoryCache = (*RedisCategoryCache)(nil)

func (c *RedisCategoryCache) key() string {
	return c.prefix + categoriesKey
}

func (c *RedisCategoryCache) generationKey() string {
	return c.prefix + generationKey
}

func (c *RedisCategoryCache) Generation(ctx context.Context) (uint64, error) {
	return readGeneration(ctx, c.client, c.generationKey())
}

// getter is satisfied by both the client and a WATCH transaction.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, cmd getter, key string) (uint64, error) {
	generation, err := cmd.Get(ctx, key).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "failed to read category cache generation")
	}

	return generation, nil
}

func (c *RedisCategoryCache) Get(ctx context.Context) ([]*entity.Category, error) {
	data, err := c.client.Get(ctx, c.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, service.ErrCacheMiss
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get categories from cache")
	}

	var categories []*entity.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, errors.Wrap(err, "failed to decode cached categories")
	}

	return categories, nil
}

// Set writes under WATCH on the generation key, so an Invalidate landing in between aborts it.
func (c *RedisCategoryCache) Set(ctx context.Context, generation uint64, categories []*entity.Category) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return errors.WithStack(err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx, c.generationKey())
		if err != nil {
			return err
		}
		if current != generation {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key(), data, c.ttl)

			return nil
		})

		return err
	}, c.generationKey())
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to cache categories")
	}

	return nil
}

func (c *RedisCategoryCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.generationKey())
		pipe.Del(ctx, c.key())

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to invalidate category cache")
	}

	return nil
}
