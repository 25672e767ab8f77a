package handler

import (
	"strconv"
	"strings"

	"boutique/internal/delivery/api/middleware"
	domainerrors "boutique/internal/domain/errors"
	"boutique/internal/usecase/validation"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// pathUUID parses a UUID path parameter.
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, validation.Field(name, "uuid")
	}

	return id, nil
}

// callerID returns the authenticated caller.
func callerID(c echo.Context) (uuid.UUID, error) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		return uuid.Nil, domainerrors.ErrUnauthenticated
	}

	return id, nil
}

// queryParser collects the failures of optional query parameters.
type queryParser struct {
	c      echo.Context
	fields map[string]string
}

func newQueryParser(c echo.Context) *queryParser {
	return &queryParser{c: c, fields: map[string]string{}}
}

func (p *queryParser) int(name string) int {
	raw := strings.TrimSpace(p.c.QueryParam(name))
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fields[name] = "number"
	}

	return v
}

func (p *queryParser) bool(name string) bool {
	raw := strings.TrimSpace(p.c.QueryParam(name))
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fields[name] = "boolean"
	}

	return v
}

func (p *queryParser) decimal(name string) *decimal.Decimal {
	raw := strings.TrimSpace(p.c.QueryParam(name))
	if raw == "" {
		return nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		p.fields[name] = "decimal"

		return nil
	}

	return &v
}

func (p *queryParser) uuid(name string) *uuid.UUID {
	raw := strings.TrimSpace(p.c.QueryParam(name))
	if raw == "" {
		return nil
	}
	v, err := uuid.Parse(raw)
	if err != nil {
		p.fields[name] = "uuid"

		return nil
	}

	return &v
}

func (p *queryParser) string(name string) string {
	return strings.TrimSpace(p.c.QueryParam(name))
}

func (p *queryParser) err() error {
	if len(p.fields) == 0 {
		return nil
	}

	return domainerrors.NewValidationError(p.fields)
}
