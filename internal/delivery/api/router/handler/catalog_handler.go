package handler

import (
	"net/http"

	"boutique/internal/delivery/api/response"
	"boutique/internal/domain/repository"
	"boutique/internal/errors"
	"boutique/internal/usecase"

	"github.com/labstack/echo/v4"
)

// CatalogHandler serves the public storefront.
type CatalogHandler struct {
	uc usecase.CatalogUsecase
}

// NewCatalogHandler is the constructor for CatalogHandler, injected by Fx.
func NewCatalogHandler(uc usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

func (h *CatalogHandler) Home(c echo.Context) error {
	home, err := h.uc.Home(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, home)
}

func (h *CatalogHandler) Categories(c echo.Context) error {
	tree, err := h.uc.CategoryTree(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, tree)
}

// CategoryProducts lists a category with optional minPrice, maxPrice, sort, page and pageSize.
func (h *CatalogHandler) CategoryProducts(c echo.Context) error {
	q := newQueryParser(c)
	input := &usecase.ProductListInput{
		MinPrice: q.decimal("minPrice"),
		MaxPrice: q.decimal("maxPrice"),
		Sort:     repository.ProductSort(q.string("sort")),
		Page:     q.int("page"),
		PageSize: q.int("pageSize"),
	}
	if err := q.err(); err != nil {
		return err
	}

	output, err := h.uc.CategoryProducts(c.Request().Context(), c.Param("slug"), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output)
}

func (h *CatalogHandler) Product(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.uc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product)
}
