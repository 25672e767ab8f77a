package handler

import (
	"net/http"

	"boutique/internal/delivery/api/middleware"
	"boutique/internal/delivery/api/response"
	"boutique/internal/errors"
	"boutique/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ShellHandler serves the navigation frame shared by every page.
type ShellHandler struct {
	uc usecase.ShellUsecase
}

// NewShellHandler is the constructor for ShellHandler, injected by Fx.
func NewShellHandler(uc usecase.ShellUsecase) *ShellHandler {
	return &ShellHandler{uc: uc}
}

func (h *ShellHandler) Shell(c echo.Context) error {
	user, _ := middleware.GetCurrentUser(c)

	shell, err := h.uc.Shell(c.Request().Context(), user)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, shell)
}
