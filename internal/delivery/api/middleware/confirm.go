package middleware

import (
	"strconv"

	domainerrors "boutique/internal/domain/errors"

	"github.com/labstack/echo/v4"
)

// ConfirmParam is the query parameter destructive endpoints require.
const ConfirmParam = "confirm"

// RequireConfirmation rejects the request with CONFIRMATION_REQUIRED unless ?confirm=true is set.
func RequireConfirmation(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		confirmed, err := strconv.ParseBool(c.QueryParam(ConfirmParam))
		if err != nil || !confirmed {
			return domainerrors.ErrConfirmationRequired
		}

		return next(c)
	}
}
