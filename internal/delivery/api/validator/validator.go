// Package validator plugs the shared input validator into echo.
package validator

import (
	"boutique/internal/usecase/validation"

	"github.com/labstack/echo/v4"
)

// Validator implements echo.Validator.
type Validator struct{}

var _ echo.Validator = (*Validator)(nil)

// New returns the echo validator.
func New() *Validator {
	return &Validator{}
}

// Validate returns a VALIDATION_FAILED error listing the failed fields.
func (v *Validator) Validate(i any) error {
	return validation.Struct(i)
}
