package worker

import (
	"context"
	"log/slog"
	"time"

	"boutique/internal/delivery"
	"boutique/internal/usecase"
	"boutique/internal/util"

	"go.uber.org/fx"
)

// DefaultSweepInterval is how often expired refresh tokens are purged.
const DefaultSweepInterval = time.Hour

type tokenSweeper struct {
	interval    time.Duration
	maintenance usecase.MaintenanceUsecase
	logger      *slog.Logger
	stop        chan struct{}
}

// SweeperParams holds dependencies for the token sweeper
type SweeperParams struct {
	fx.In

	Lc          fx.Lifecycle
	Maintenance usecase.MaintenanceUsecase
	Logger      *slog.Logger
}

// NewTokenSweeper purges expired refresh tokens on a fixed interval until the app stops.
func NewTokenSweeper(params SweeperParams) delivery.Delivery {
	sweeper := &tokenSweeper{
		interval:    DefaultSweepInterval,
		maintenance: params.Maintenance,
		logger:      params.Logger,
		stop:        make(chan struct{}),
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			close(sweeper.stop)

			return nil
		},
	})

	return sweeper
}

// Serve sweeps once at start, then on every tick.
func (s *tokenSweeper) Serve(ctx context.Context) error {
	s.logger.Info("Starting refresh token sweeper", slog.String("interval", util.FormatDuration(s.interval)))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.sweep(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-s.stop:
			return nil
		case <-ticker.C:
		}
	}
}

func (s *tokenSweeper) sweep(ctx context.Context) {
	started := time.Now()
	count, err := s.maintenance.PurgeExpiredTokens(ctx)
	if err != nil {
		s.logger.Error("Refresh token sweep failed", slog.Any("error", err))

		return
	}

	s.logger.Info("Refresh token sweep done",
		slog.Int64("deleted", count),
		slog.String("took", util.FormatDuration(time.Since(started))),
	)
}
