package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"boutique/config"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newLimitedServer() *echo.Echo {
	cfg := &config.Config{Storage: &config.StorageConfig{MaxImageSize: 2 << 20}}
	cfg.HTTP.MaxRequestBodySize = "100KB"

	drain := func(c echo.Context) error {
		if _, err := io.Copy(io.Discard, c.Request().Body); err != nil {
			return err
		}

		return c.NoContent(http.StatusOK)
	}

	e := echo.New()
	e.Use(bodyLimit(cfg))
	e.POST("/api/v1/auth/register", drain)
	e.POST("/api/v1/account/addresses", drain)
	e.POST("/api/v1/admin/products", drain, uploadBodyLimit(cfg))
	e.PUT("/api/v1/admin/products/:id", drain, uploadBodyLimit(cfg))

	return e
}

func TestBodyLimit(t *testing.T) {
	const (
		multipartType = echo.MIMEMultipartForm + "; boundary=limite"
		jsonType      = echo.MIMEApplicationJSON
	)

	tests := []struct {
		name        string
		method      string
		path        string
		contentType string
		size        int
		expected    int
	}{
		{name: "small json", method: http.MethodPost, path: "/api/v1/auth/register", contentType: jsonType, size: 512, expected: http.StatusOK},
		{name: "large json", method: http.MethodPost, path: "/api/v1/auth/register", contentType: jsonType, size: 1 << 20, expected: http.StatusRequestEntityTooLarge},
		{name: "large multipart on register", method: http.MethodPost, path: "/api/v1/auth/register", contentType: multipartType, size: 1 << 20, expected: http.StatusRequestEntityTooLarge},
		{name: "large multipart on addresses", method: http.MethodPost, path: "/api/v1/account/addresses", contentType: multipartType, size: 1 << 20, expected: http.StatusRequestEntityTooLarge},
		{name: "product create upload", method: http.MethodPost, path: "/api/v1/admin/products", contentType: multipartType, size: 1 << 20, expected: http.StatusOK},
		{name: "product update upload", method: http.MethodPut, path: "/api/v1/admin/products/42", contentType: multipartType, size: 1 << 20, expected: http.StatusOK},
		{name: "upload above image limit", method: http.MethodPost, path: "/api/v1/admin/products", contentType: multipartType, size: 4 << 20, expected: http.StatusRequestEntityTooLarge},
	}

	e := newLimitedServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewReader(make([]byte, tt.size)))
			req.Header.Set(echo.HeaderContentType, tt.contentType)
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}
