package middleware

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"boutique/config"
	"boutique/internal/domain/entity"
	domainerrors "boutique/internal/domain/errors"
	"boutique/internal/domain/navigation"
	"boutique/internal/infra/auth"
	"boutique/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSessions resolves callers from a fixed set of users.
type stubSessions struct {
	usecase.SessionUsecase
	users map[uuid.UUID]*entity.CurrentUser
}

func (s *stubSessions) CurrentUser(_ context.Context, userID uuid.UUID) (*entity.CurrentUser, error) {
	user, ok := s.users[userID]
	if !ok {
		return nil, domainerrors.ErrUnauthenticated
	}

	return user, nil
}

type errorBody struct {
	Error struct {
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type authFixture struct {
	echo     *echo.Echo
	customer *entity.CurrentUser
	admin    *entity.CurrentUser
	tokens   func(userID uuid.UUID) (string, string)
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	cfg := &config.Config{Auth: &config.AuthConfig{AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour}}
	cfg.SecretKey.Access = "access-secret"
	cfg.SecretKey.Refresh = "refresh-secret"
	tokenService, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	customer := &entity.CurrentUser{ID: uuid.New(), UserSlug: "jean-dupont", Role: entity.RoleCustomer}
	admin := &entity.CurrentUser{ID: uuid.New(), UserSlug: "alice", Role: entity.RoleAdmin}
	m := NewAuthMiddleware(tokenService, &stubSessions{users: map[uuid.UUID]*entity.CurrentUser{
		customer.ID: customer,
		admin.ID:    admin,
	}}, logger)

	e := echo.New()
	e.HTTPErrorHandler = NewErrorMiddleware(logger).HandleHTTPError

	whoami := func(c echo.Context) error {
		id, _ := GetUserID(c)

		return c.String(http.StatusOK, id.String())
	}

	api := e.Group("/api", m.Identify)
	api.GET("/public", whoami)
	api.GET("/account", whoami, m.Guard(navigation.AreaAccount))
	api.GET("/admin", whoami, m.Guard(navigation.AreaAdmin))
	api.DELETE("/admin/thing", whoami, m.Guard(navigation.AreaAdmin), RequireConfirmation)

	return &authFixture{
		echo:     e,
		customer: customer,
		admin:    admin,
		tokens: func(userID uuid.UUID) (string, string) {
			access, refresh, err := tokenService.GenerateTokens(userID, nil)
			require.NoError(t, err)

			return access, refresh
		},
	}
}

func (fx *authFixture) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	fx.echo.ServeHTTP(rec, req)

	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestAuthMiddleware_Identify(t *testing.T) {
	fx := newAuthFixture(t)
	access, refresh := fx.tokens(fx.customer.ID)

	rec := fx.do(http.MethodGet, "/api/public", access)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, fx.customer.ID.String(), rec.Body.String())

	// Refresh tokens, garbage and unknown holders are anonymous.
	strangerToken, _ := fx.tokens(uuid.New())
	for _, token := range []string{refresh, "garbage", strangerToken, ""} {
		rec := fx.do(http.MethodGet, "/api/public", token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, uuid.Nil.String(), rec.Body.String())
	}
}

func TestAuthMiddleware_Guard(t *testing.T) {
	fx := newAuthFixture(t)
	customerToken, _ := fx.tokens(fx.customer.ID)
	adminToken, _ := fx.tokens(fx.admin.ID)

	rec := fx.do(http.MethodGet, "/api/account", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "UNAUTHENTICATED", body.Error.Code)
	assert.Equal(t, "/compte/connexion", body.Error.Details["redirectTo"])

	rec = fx.do(http.MethodGet, "/api/account", customerToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = fx.do(http.MethodGet, "/api/admin", customerToken)
	require.Equal(t, http.StatusForbidden, rec.Code)
	body = decodeError(t, rec)
	assert.Equal(t, "FORBIDDEN", body.Error.Code)
	assert.Equal(t, "/", body.Error.Details["redirectTo"])

	rec = fx.do(http.MethodGet, "/api/admin", adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, fx.admin.ID.String(), rec.Body.String())
}

func TestRequireConfirmation(t *testing.T) {
	fx := newAuthFixture(t)
	adminToken, _ := fx.tokens(fx.admin.ID)

	for _, path := range []string{"/api/admin/thing", "/api/admin/thing?confirm=false", "/api/admin/thing?confirm=oui"} {
		rec := fx.do(http.MethodDelete, path, adminToken)
		require.Equal(t, http.StatusPreconditionRequired, rec.Code, path)
		assert.Equal(t, "CONFIRMATION_REQUIRED", decodeError(t, rec).Error.Code)
	}

	rec := fx.do(http.MethodDelete, "/api/admin/thing?confirm=true", adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The guard runs before the confirmation check.
	rec = fx.do(http.MethodDelete, "/api/admin/thing?confirm=true", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
