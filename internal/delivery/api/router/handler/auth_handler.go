package handler

import (
	"net/http"

	"boutique/internal/delivery/api/response"
	"boutique/internal/errors"
	"boutique/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AuthHandler serves the login, register and token endpoints.
type AuthHandler struct {
	uc usecase.AuthUsecase
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register creates an account and signs it in.
func (h *AuthHandler) Register(c echo.Context) error {
	var input usecase.RegisterInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Données d'inscription invalides.")
	}

	output, err := h.uc.Register(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output)
}

// Login signs in with email and password.
func (h *AuthHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Données de connexion invalides.")
	}

	output, err := h.uc.Login(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output)
}

// FederatedSignIn signs in with an ID token of the configured identity provider.
func (h *AuthHandler) FederatedSignIn(c echo.Context) error {
	var input usecase.FederatedSignInInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Jeton invalide.")
	}

	output, err := h.uc.FederatedSignIn(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output)
}

// RefreshToken issues a new access token.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var input usecase.RefreshTokenInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Jeton invalide.")
	}

	output, err := h.uc.RefreshToken(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output)
}

// Logout revokes the given refresh token of the caller.
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var input usecase.LogoutInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Jeton invalide.")
	}

	if err := h.uc.Logout(c.Request().Context(), userID, &input); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
