package context

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	generated := GetRequestID(c)
	assert.NoError(t, uuid.Validate(generated))

	SetRequestID(c, "req-1")
	assert.Equal(t, "req-1", GetRequestID(c))

	assert.Empty(t, GetRequestIDFromContext(context.Background()))
	assert.Equal(t, "req-1", GetRequestIDFromContext(WithRequestID(context.Background(), "req-1")))
}

func TestWithCaller(t *testing.T) {
	var buf bytes.Buffer
	fallback := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	_, ok := GetCaller(ctx)
	assert.False(t, ok)

	userID := uuid.New()
	ctx = WithCaller(ctx, userID)

	got, ok := GetCaller(ctx)
	assert.True(t, ok)
	assert.Equal(t, userID, got)

	GetLoggerOrDefault(ctx, fallback).Info("order placed")
	assert.Contains(t, buf.String(), "user_id="+userID.String())

	assert.Same(t, fallback, GetLoggerOrDefault(context.Background(), fallback))
}
