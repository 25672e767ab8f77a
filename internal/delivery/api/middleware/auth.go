package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "boutique/internal/delivery/context"
	"boutique/internal/domain/constants"
	"boutique/internal/domain/entity"
	domainerrors "boutique/internal/domain/errors"
	"boutique/internal/domain/navigation"
	"boutique/internal/domain/service"
	"boutique/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	keyUserID      = "userID"
	keyCurrentUser = "currentUser"
)

// AuthMiddleware resolves the caller from the bearer token and guards the protected areas.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	sessions usecase.SessionUsecase
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, sessions usecase.SessionUsecase, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, sessions: sessions, logger: logger}
}

// Identify resolves the merged current user when a valid access token is present.
// Requests without a usable token continue anonymously.
func (m *AuthMiddleware) Identify(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c)
		if !ok {
			return next(c)
		}

		claims, err := m.tokenSvc.ValidateToken(token)
		if err != nil || claims.Type != service.TokenTypeAccess {
			return next(c)
		}

		ctx := c.Request().Context()
		user, err := m.sessions.CurrentUser(ctx, claims.UserID)
		if err != nil {
			deliverycontext.GetLoggerOrDefault(ctx, m.logger).Info("Token holder could not be resolved", slog.Any("userID", claims.UserID), slog.Any("error", err))

			return next(c)
		}

		SetCurrentUser(c, user)
		c.SetRequest(c.Request().WithContext(deliverycontext.WithCaller(ctx, user.ID)))

		return next(c)
	}
}

// Guard applies the route guard of area to the resolved caller. It must run after Identify.
// A login redirect becomes 401, a root redirect 403, both carrying the target.
func (m *AuthMiddleware) Guard(area navigation.Area) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := GetCurrentUser(c)
			decision := navigation.Decide(entity.SessionSnapshot{CurrentUser: user}, area)

			switch {
			case decision.Outcome != navigation.OutcomeRedirect:
				return next(c)
			case decision.RedirectTo == constants.PathLogin:
				return domainerrors.NewLoginRequired(decision.RedirectTo)
			default:
				return domainerrors.NewAccessDenied(decision.RedirectTo)
			}
		}
	}
}

// SetCurrentUser records the resolved caller on c.
func SetCurrentUser(c echo.Context, user *entity.CurrentUser) {
	c.Set(keyUserID, user.ID)
	c.Set(keyCurrentUser, user)
}

// GetUserID returns the caller's ID set by Identify.
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(keyUserID).(uuid.UUID)

	return id, ok
}

// GetCurrentUser returns the merged user set by Identify.
func GetCurrentUser(c echo.Context) (*entity.CurrentUser, bool) {
	user, ok := c.Get(keyCurrentUser).(*entity.CurrentUser)

	return user, ok && user != nil
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		return "", false
	}

	return strings.TrimSpace(token), true
}
