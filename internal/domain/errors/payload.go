package errors

import (
	"net/http"
	"sort"
	"strings"
)

// ValidationError reports the fields that failed validation.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a VALIDATION_FAILED error for the given field → rule map.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	return ErrValidationFailed.Message() + " (" + strings.Join(names, ", ") + ")"
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidationFailed }

func (e *ValidationError) HTTPCode() int     { return ErrValidationFailed.HTTPCode() }
func (e *ValidationError) ErrorCode() string { return ErrValidationFailed.ErrorCode() }
func (e *ValidationError) Message() string   { return ErrValidationFailed.Message() }
func (e *ValidationError) Details() string   { return "" }

// Payload returns the field map.
func (e *ValidationError) Payload() any { return e.Fields }

// RedirectError is returned by the route guard: the caller should navigate to RedirectTo.
type RedirectError struct {
	httpCode   int
	errorCode  string
	message    string
	RedirectTo string
}

// NewLoginRequired is the guard outcome for an anonymous caller.
func NewLoginRequired(redirectTo string) *RedirectError {
	return &RedirectError{
		httpCode:   http.StatusUnauthorized,
		errorCode:  ErrUnauthenticated.ErrorCode(),
		message:    ErrUnauthenticated.Message(),
		RedirectTo: redirectTo,
	}
}

// NewAccessDenied is the guard outcome for a signed-in caller lacking the role.
func NewAccessDenied(redirectTo string) *RedirectError {
	return &RedirectError{
		httpCode:   http.StatusForbidden,
		errorCode:  ErrForbidden.ErrorCode(),
		message:    ErrForbidden.Message(),
		RedirectTo: redirectTo,
	}
}

func (e *RedirectError) Error() string     { return e.message + " -> " + e.RedirectTo }
func (e *RedirectError) HTTPCode() int     { return e.httpCode }
func (e *RedirectError) ErrorCode() string { return e.errorCode }
func (e *RedirectError) Message() string   { return e.message }
func (e *RedirectError) Details() string   { return "" }

// Payload returns the redirect target.
func (e *RedirectError) Payload() any {
	return map[string]string{"redirectTo": e.RedirectTo}
}
