package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"boutique/config"
	"boutique/internal/domain/constants"
	"boutique/internal/domain/service"
	"boutique/internal/errors"
)

// CacheParams holds dependencies for the category cache, injected by Fx
type CacheParams struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewCategoryCache builds the cache selected by cache.driver.
func NewCategoryCache(params CacheParams) (service.CategoryCache, error) {
	cfg := params.Config.Cache

	switch cfg.Driver {
	case "", constants.CacheDriverMemory:
		params.Logger.Info("Using in-memory category cache", slog.Duration("ttl", cfg.TTL))

		return NewMemoryCategoryCache(cfg.TTL), nil

	case constants.CacheDriverRedis:
		redisCfg := params.Config.Redis
		if redisCfg == nil || redisCfg.Addr == "" {
			return nil, errors.New("redis.addr is required for the redis cache driver")
		}

		client := redis.NewClient(&redis.Options{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		})

		params.Lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
				defer cancel()
				if err := client.Ping(ctx).Err(); err != nil {
					return errors.Wrap(err, "failed to connect to Redis")
				}
				params.Logger.Info("Using redis category cache", slog.String("addr", redisCfg.Addr))

				return nil
			},
			OnStop: func(context.Context) error {
				return errors.WithStack(client.Close())
			},
		})

		return NewRedisCategoryCache(client, redisCfg.Prefix, cfg.TTL), nil

	default:
		return nil, errors.Errorf("unknown cache driver: %s", cfg.Driver)
	}
}
