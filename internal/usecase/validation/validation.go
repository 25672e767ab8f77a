// Package validation checks use-case inputs before any backend is touched.
package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	domainerrors "boutique/internal/domain/errors"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator. Field names are reported by their json tag.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}

			return name
		})
		// notblank rejects whitespace-only strings, which required lets through
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		instance = v
	})

	return instance
}

// Struct validates input and returns a *domainerrors.ValidationError listing every failed field.
func Struct(input any) error {
	err := Validator().Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !asValidationErrors(err, &fieldErrs) {
		return domainerrors.NewValidationError(map[string]string{"_": err.Error()})
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fieldPath(fe)] = fe.Tag()
	}

	return domainerrors.NewValidationError(fields)
}

// Field adds a single field failure, for rules that compare several fields.
func Field(name, rule string) error {
	return domainerrors.NewValidationError(map[string]string{name: rule})
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	ve, ok := err.(validator.ValidationErrors) //nolint:errorlint // validator returns the value type directly
	if ok {
		*target = ve
	}

	return ok
}

// fieldPath drops the top-level struct name: "RegisterInput.email" → "email".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}

	return fe.Field()
}
