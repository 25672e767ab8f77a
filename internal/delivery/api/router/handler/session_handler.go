package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"boutique/config"
	"boutique/internal/delivery/api/middleware"
	"boutique/internal/delivery/api/response"
	deliverycontext "boutique/internal/delivery/context"
	"boutique/internal/domain/entity"
	"boutique/internal/errors"
	"boutique/internal/usecase"

	"github.com/labstack/echo/v4"
)

const sessionEvent = "session"

// SessionHandler exposes the session context of the caller.
type SessionHandler struct {
	uc        usecase.SessionUsecase
	auth      usecase.AuthUsecase
	heartbeat time.Duration
	logger    *slog.Logger
}

// NewSessionHandler is the constructor for SessionHandler, injected by Fx.
func NewSessionHandler(uc usecase.SessionUsecase, auth usecase.AuthUsecase, cfg *config.Config, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{uc: uc, auth: auth, heartbeat: cfg.Session.HeartbeatInterval, logger: logger}
}

// Current returns the resolved session of the caller.
func (h *SessionHandler) Current(c echo.Context) error {
	return response.Success(c, http.StatusOK, currentSnapshot(c))
}

// Stream sends every session snapshot of the caller as a server-sent event until
// the client goes away.
func (h *SessionHandler) Stream(c echo.Context) error {
	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	ac := h.uc.Open(ctx, callerIdentity(c))

	rc := http.NewResponseController(c.Response())
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return errors.Wrap(err, "failed to clear write deadline")
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	// The hub seeds the subscription, so the first update may repeat the snapshot already written.
	first := ac.Snapshot()
	if err := writeSnapshot(c, first); err != nil {
		return nil
	}
	written := first.Version

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	logger := deliverycontext.GetLoggerOrDefault(ctx, h.logger)
	for {
		select {
		case <-ctx.Done():
			return nil
		case snapshot, ok := <-ac.Updates():
			if !ok {
				return nil
			}
			if snapshot.Version <= written {
				continue
			}
			written = snapshot.Version
			if err := writeSnapshot(c, snapshot); err != nil {
				logger.Debug("Session stream closed", slog.Any("error", err))

				return nil
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(res, ": ping\n\n"); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}

// Logout signs the caller out everywhere. Anonymous callers get the same answer.
func (h *SessionHandler) Logout(c echo.Context) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}

	if err := h.auth.SignOut(c.Request().Context(), user.ID); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// Navigate resolves ?path= against the route table and the caller's session.
func (h *SessionHandler) Navigate(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" {
		path = "/"
	}

	return response.Success(c, http.StatusOK, h.uc.Resolve(path, currentSnapshot(c)))
}

func currentSnapshot(c echo.Context) entity.SessionSnapshot {
	user, _ := middleware.GetCurrentUser(c)

	return entity.SessionSnapshot{CurrentUser: user}
}

func callerIdentity(c echo.Context) *entity.Identity {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return nil
	}

	return &entity.Identity{ID: user.ID, Email: user.Email, DisplayName: user.DisplayName}
}

func writeSnapshot(c echo.Context, snapshot entity.SessionSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(err, "failed to encode session snapshot")
	}

	res := c.Response()
	if _, err := fmt.Fprintf(res, "id: %d\nevent: %s\ndata: %s\n\n", snapshot.Version, sessionEvent, payload); err != nil {
		return errors.WithStack(err)
	}
	res.Flush()

	return nil
}
