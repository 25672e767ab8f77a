package worker

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"boutique/config"
	"boutique/internal/delivery"
	"boutique/internal/delivery/api/response"
	"boutique/internal/delivery/middleware"
	"boutique/internal/delivery/worker/handler"
	"boutique/internal/domain/lifecycle"
	"boutique/internal/errors"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
)

type workerServer struct {
	cfg    *config.Config
	logger *slog.Logger
	server *echo.Echo
}

// ServerParams holds dependencies for the worker server.
type ServerParams struct {
	fx.In

	Lc          fx.Lifecycle
	Cfg         *config.Config
	Logger      *slog.Logger
	PushHandler *handler.PushHandler
}

// PushPath is where the broker (or the local publisher) delivers domain events.
const PushPath = "/pubsub/push"

// NewServer builds the worker HTTP server: health plus the event push endpoint.
func NewServer(params ServerParams) (delivery.Delivery, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = params.Cfg.Worker.Timeouts.ReadTimeout
	e.Server.ReadHeaderTimeout = params.Cfg.Worker.Timeouts.ReadHeaderTimeout
	e.Server.WriteTimeout = params.Cfg.Worker.Timeouts.WriteTimeout
	e.Server.IdleTimeout = params.Cfg.Worker.Timeouts.IdleTimeout

	e.Use(echomiddleware.Recover())
	e.Use(middleware.NewRequestIDMiddleware(params.Logger).Process)
	e.Use(middleware.NewLoggerMiddleware(params.Logger, params.Cfg, "/health").Handle)
	e.Use(echomiddleware.BodyLimit(params.Cfg.Worker.MaxRequestBodySize))

	e.GET("/health", func(c echo.Context) error {
		return response.Success(c, http.StatusOK, map[string]string{"status": "ok", "role": "worker"})
	})
	e.POST(PushPath, params.PushHandler.HandlePush)

	srv := &workerServer{
		cfg:    params.Cfg,
		logger: params.Logger,
		server: e,
	}

	params.Lc.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

func (s *workerServer) Serve(_ context.Context) error {
	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.Worker.Port))
	s.logger.Info("Starting worker HTTP server", slog.String("host_port", hostPort), slog.String("push_path", PushPath))
	if err := s.server.Start(hostPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithStack(err)
	}

	return nil
}

func (s *workerServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Shutting down worker HTTP server")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}
