package handler

import (
	"net/http"
	"strconv"
	"strings"

	"boutique/internal/delivery/api/response"
	"boutique/internal/domain/entity"
	domainerrors "boutique/internal/domain/errors"
	"boutique/internal/errors"
	"boutique/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

const imageField = "image"

// AdminHandler serves the back office. Every route sits behind the admin guard.
type AdminHandler struct {
	dashboard  usecase.DashboardUsecase
	products   usecase.AdminProductUsecase
	categories usecase.AdminCategoryUsecase
	users      usecase.AdminUserUsecase
	orders     usecase.AdminOrderUsecase
}

// AdminHandlerParams holds the usecases of AdminHandler, injected by Fx.
type AdminHandlerParams struct {
	fx.In

	Dashboard  usecase.DashboardUsecase
	Products   usecase.AdminProductUsecase
	Categories usecase.AdminCategoryUsecase
	Users      usecase.AdminUserUsecase
	Orders     usecase.AdminOrderUsecase
}

// NewAdminHandler is the constructor for AdminHandler, injected by Fx.
func NewAdminHandler(params AdminHandlerParams) *AdminHandler {
	return &AdminHandler{
		dashboard:  params.Dashboard,
		products:   params.Products,
		categories: params.Categories,
		users:      params.Users,
		orders:     params.Orders,
	}
}

func (h *AdminHandler) Dashboard(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.dashboard.Dashboard(c.Request().Context()))
}

// ListProducts accepts search, categoryId, lowStock, page and pageSize.
func (h *AdminHandler) ListProducts(c echo.Context) error {
	q := newQueryParser(c)
	filter := &usecase.AdminProductFilter{
		Search:     q.string("search"),
		CategoryID: q.uuid("categoryId"),
		LowStock:   q.bool("lowStock"),
		Page:       q.int("page"),
		PageSize:   q.int("pageSize"),
	}
	if err := q.err(); err != nil {
		return err
	}

	page, err := h.products.List(c.Request().Context(), filter)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, page)
}

func (h *AdminHandler) GetProduct(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.products.Get(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product)
}

// CreateProduct reads a multipart form with the product fields and an image file.
func (h *AdminHandler) CreateProduct(c echo.Context) error {
	input, image, closeImage, err := readProductForm(c)
	if err != nil {
		return err
	}
	defer closeImage()

	product, err := h.products.Create(c.Request().Context(), input, image)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, product)
}

// UpdateProduct reads the same form as CreateProduct; the image is optional.
func (h *AdminHandler) UpdateProduct(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	input, image, closeImage, err := readProductForm(c)
	if err != nil {
		return err
	}
	defer closeImage()

	product, err := h.products.Update(c.Request().Context(), id, input, image)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product)
}

func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.products.Delete(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) ListCategories(c echo.Context) error {
	output, err := h.categories.List(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output)
}

func (h *AdminHandler) CreateCategory(c echo.Context) error {
	var input usecase.CategoryInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Catégorie invalide.")
	}

	output, err := h.categories.Create(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output)
}

func (h *AdminHandler) UpdateCategory(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var input usecase.CategoryInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Catégorie invalide.")
	}

	output, err := h.categories.Update(c.Request().Context(), id, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output)
}

func (h *AdminHandler) DeleteCategory(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	output, err := h.categories.Delete(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output)
}

// ListUsers accepts search, role, page and pageSize.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	q := newQueryParser(c)
	role, _ := entity.ParseRole(q.string("role"))
	filter := &usecase.AdminUserFilter{
		Search:   q.string("search"),
		Role:     role,
		Page:     q.int("page"),
		PageSize: q.int("pageSize"),
	}
	if err := q.err(); err != nil {
		return err
	}

	users, err := h.users.List(c.Request().Context(), filter)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, users)
}

func (h *AdminHandler) ChangeRole(c echo.Context) error {
	actorID, err := callerID(c)
	if err != nil {
		return err
	}
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var input usecase.ChangeRoleInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Rôle invalide.")
	}

	user, err := h.users.ChangeRole(c.Request().Context(), actorID, userID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user)
}

// ListOrders accepts search, status, page and pageSize.
func (h *AdminHandler) ListOrders(c echo.Context) error {
	q := newQueryParser(c)
	filter := &usecase.AdminOrderFilter{
		Search:   q.string("search"),
		Status:   entity.OrderStatus(q.string("status")),
		Page:     q.int("page"),
		PageSize: q.int("pageSize"),
	}
	if err := q.err(); err != nil {
		return err
	}

	orders, err := h.orders.List(c.Request().Context(), filter)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, orders)
}

func (h *AdminHandler) UpdateOrderStatus(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var input usecase.UpdateOrderStatusInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Statut invalide.")
	}

	order, err := h.orders.UpdateStatus(c.Request().Context(), id, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order)
}

// ScanOrder resolves the order of a scanned slip QR code.
func (h *AdminHandler) ScanOrder(c echo.Context) error {
	var input usecase.ScanOrderInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "QR code invalide.")
	}

	order, err := h.orders.Scan(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order)
}

// readProductForm parses the product form. Malformed numbers and IDs are reported
// together as field failures; the returned func closes the uploaded file.
func readProductForm(c echo.Context) (*usecase.ProductInput, *usecase.ImageUpload, func(), error) {
	fields := map[string]string{}
	input := &usecase.ProductInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
	}

	if raw := strings.TrimSpace(c.FormValue("prix")); raw == "" {
		fields["prix"] = "required"
	} else if prix, err := decimal.NewFromString(raw); err != nil {
		fields["prix"] = "decimal"
	} else {
		input.Prix = prix
	}

	if raw := strings.TrimSpace(c.FormValue("stock")); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil {
			fields["stock"] = "number"
		}
		input.Stock = stock
	}

	if raw := strings.TrimSpace(c.FormValue("categoryId")); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			fields["categoryId"] = "uuid"
		}
		input.CategoryID = categoryID
	}

	if raw := strings.TrimSpace(c.FormValue("isAvailable")); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			fields["isAvailable"] = "boolean"
		}
		input.IsAvailable = &available
	}

	if len(fields) > 0 {
		return nil, nil, nil, domainerrors.NewValidationError(fields)
	}

	header, err := c.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) {
		return input, nil, func() {}, nil
	}
	if err != nil {
		return nil, nil, nil, domainerrors.NewValidationError(map[string]string{imageField: "file"})
	}

	file, err := header.Open()
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "failed to open uploaded image")
	}

	image := &usecase.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Size:        header.Size,
		Body:        file,
	}

	return input, image, func() { _ = file.Close() }, nil
}
