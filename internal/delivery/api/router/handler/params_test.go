package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "boutique/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()

	return echo.New().NewContext(req, rec), rec
}

func TestHealthCheck(t *testing.T) {
	c, rec := newContext(httptest.NewRequest(http.MethodGet, "/health", nil))

	require.NoError(t, HealthCheck(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Data["status"])
}

func TestQueryParser(t *testing.T) {
	c, _ := newContext(httptest.NewRequest(http.MethodGet,
		"/api/catalog/products?page=2&inStock=true&minPrice=10.50&q=+robe+", nil))
	p := newQueryParser(c)

	assert.Equal(t, 2, p.int("page"))
	assert.Equal(t, 0, p.int("pageSize"))
	assert.True(t, p.bool("inStock"))
	require.NotNil(t, p.decimal("minPrice"))
	assert.Equal(t, "10.5", p.decimal("minPrice").String())
	assert.Nil(t, p.decimal("maxPrice"))
	assert.Nil(t, p.uuid("categoryId"))
	assert.Equal(t, "robe", p.string("q"))
	assert.NoError(t, p.err())
}

func TestQueryParser_CollectsFailures(t *testing.T) {
	c, _ := newContext(httptest.NewRequest(http.MethodGet,
		"/api/catalog/products?page=deux&inStock=oui&minPrice=abc&categoryId=42", nil))
	p := newQueryParser(c)

	p.int("page")
	p.bool("inStock")
	p.decimal("minPrice")
	p.uuid("categoryId")

	var verr *domainerrors.ValidationError
	require.ErrorAs(t, p.err(), &verr)
	assert.Equal(t, map[string]string{
		"page":       "number",
		"inStock":    "boolean",
		"minPrice":   "decimal",
		"categoryId": "uuid",
	}, verr.Fields)
}

func TestPathUUID(t *testing.T) {
	c, _ := newContext(httptest.NewRequest(http.MethodGet, "/", nil))
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	_, err := pathUUID(c, "id")
	var verr *domainerrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "uuid", verr.Fields["id"])
}

func multipartRequest(t *testing.T, values map[string]string, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range values {
		require.NoError(t, w.WriteField(key, value))
	}
	if filename != "" {
		part, err := w.CreateFormFile(imageField, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/products", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())

	return req
}

func TestReadProductForm(t *testing.T) {
	req := multipartRequest(t, map[string]string{
		"name":        "Robe d'été",
		"description": "Lin lavé",
		"prix":        "49.90",
		"stock":       "12",
		"isAvailable": "false",
	}, "robe.jpg", []byte("jpeg-bytes"))
	c, _ := newContext(req)

	input, image, closeImage, err := readProductForm(c)
	require.NoError(t, err)
	defer closeImage()

	assert.Equal(t, "Robe d'été", input.Name)
	assert.Equal(t, "49.9", input.Prix.String())
	assert.Equal(t, 12, input.Stock)
	require.NotNil(t, input.IsAvailable)
	assert.False(t, *input.IsAvailable)

	require.NotNil(t, image)
	assert.Equal(t, "robe.jpg", image.Filename)
	assert.Equal(t, int64(len("jpeg-bytes")), image.Size)
	data, err := io.ReadAll(image.Body)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
}

func TestReadProductForm_WithoutImage(t *testing.T) {
	c, _ := newContext(multipartRequest(t, map[string]string{"name": "Veste", "prix": "120"}, "", nil))

	input, image, closeImage, err := readProductForm(c)
	require.NoError(t, err)
	closeImage()

	assert.Equal(t, "Veste", input.Name)
	assert.Nil(t, image)
	assert.Nil(t, input.IsAvailable)
}

func TestReadProductForm_InvalidFields(t *testing.T) {
	c, _ := newContext(multipartRequest(t, map[string]string{
		"stock":      "beaucoup",
		"categoryId": "femmes",
	}, "robe.jpg", []byte("jpeg-bytes")))

	_, _, _, err := readProductForm(c)
	var verr *domainerrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{
		"prix":       "required",
		"stock":      "number",
		"categoryId": "uuid",
	}, verr.Fields)
}
