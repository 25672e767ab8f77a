package handler

import (
	"net/http"

	"boutique/internal/delivery/api/middleware"
	"boutique/internal/delivery/api/response"
	"boutique/internal/errors"
	"boutique/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AccountHandler serves the signed-in customer's own resources.
type AccountHandler struct {
	account   usecase.AccountUsecase
	addresses usecase.AddressUsecase
	orders    usecase.OrderUsecase
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(account usecase.AccountUsecase, addresses usecase.AddressUsecase, orders usecase.OrderUsecase) *AccountHandler {
	return &AccountHandler{account: account, addresses: addresses, orders: orders}
}

func (h *AccountHandler) Profile(c echo.Context) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		_, err := callerID(c)

		return err
	}

	return response.Success(c, http.StatusOK, user)
}

func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var input usecase.UpdateProfileInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Données de profil invalides.")
	}

	user, err := h.account.UpdateProfile(c.Request().Context(), userID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user)
}

func (h *AccountHandler) ChangePassword(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var input usecase.ChangePasswordInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Données de mot de passe invalides.")
	}

	if err := h.account.ChangePassword(c.Request().Context(), userID, &input); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AccountHandler) ListAddresses(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	addresses, err := h.addresses.List(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, addresses)
}

func (h *AccountHandler) CreateAddress(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var input usecase.AddressInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Adresse invalide.")
	}

	addresses, err := h.addresses.Create(c.Request().Context(), userID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, addresses)
}

func (h *AccountHandler) UpdateAddress(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	addressID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var input usecase.AddressInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Adresse invalide.")
	}

	addresses, err := h.addresses.Update(c.Request().Context(), userID, addressID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, addresses)
}

func (h *AccountHandler) DeleteAddress(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	addressID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	addresses, err := h.addresses.Delete(c.Request().Context(), userID, addressID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, addresses)
}

func (h *AccountHandler) SetDefaultAddress(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	addressID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	addresses, err := h.addresses.SetDefault(c.Request().Context(), userID, addressID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, addresses)
}

func (h *AccountHandler) ListOrders(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	orders, err := h.orders.ListMine(c.Request().Context(), userID, c.QueryParam("search"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, orders)
}

func (h *AccountHandler) GetOrder(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orders.GetMine(c.Request().Context(), userID, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order)
}

func (h *AccountHandler) PlaceOrder(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var input usecase.PlaceOrderInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Commande invalide.")
	}

	order, err := h.orders.PlaceOrder(c.Request().Context(), userID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, order)
}

// OrderQRCode returns the PNG QR code of an order slip.
func (h *AccountHandler) OrderQRCode(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	png, err := h.orders.QRCode(c.Request().Context(), userID, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}
