package impl

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"sync"
	"testing"

	"boutique/internal/domain/entity"
	domainerrors "boutique/internal/domain/errors"
	"boutique/internal/domain/service"
	"boutique/internal/errors"
	"boutique/internal/infra/qrcode"
	mockSvc "boutique/internal/mocks/service"
	"boutique/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	env      *testEnv
	customer *entity.CurrentUser
	address  *entity.Address
	robe     *entity.Product
	veste    *entity.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	env := newTestEnv(t)
	customer := env.registerCustomer(t, "Jean", "Dupont", "jean@example.com").User
	addresses := env.seedAddress(t, customer.ID, "Maison", entity.AddressTypeShipping)
	category := env.seedCategory(t, "Mode", "mode", nil)

	return &orderFixture{
		env:      env,
		customer: customer,
		address:  addresses[0],
		robe:     env.seedProduct(t, "Robe", category.ID, "49.90", 5),
		veste:    env.seedProduct(t, "Veste", category.ID, "120.00", 1),
	}
}

func (fx *orderFixture) place(t *testing.T, lines ...usecase.OrderLineInput) *entity.Order {
	t.Helper()

	order, err := fx.env.orderService().PlaceOrder(context.Background(), fx.customer.ID, &usecase.PlaceOrderInput{
		Items:             lines,
		ShippingAddressID: fx.address.ID,
	})
	require.NoError(t, err)

	return order
}

func (fx *orderFixture) stockOf(t *testing.T, id uuid.UUID) int {
	t.Helper()

	product, err := fx.env.products.FindByID(context.Background(), id)
	require.NoError(t, err)

	return product.Stock
}

func TestOrderService_PlaceOrder(t *testing.T) {
	fx := newOrderFixture(t)

	order := fx.place(t,
		usecase.OrderLineInput{ProductID: fx.robe.ID, Quantity: 1},
		usecase.OrderLineInput{ProductID: fx.veste.ID, Quantity: 1},
		usecase.OrderLineInput{ProductID: fx.robe.ID, Quantity: 1},
	)

	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.Equal(t, entity.OrderReference(order.ID), order.Reference)
	assert.Equal(t, "Jean Dupont", order.ClientName)
	assert.Contains(t, order.ShippingAddress, "75002 Paris")
	require.Len(t, order.Items, 2)
	assert.True(t, decimal.RequireFromString("219.80").Equal(order.Total), "total was %s", order.Total)

	assert.Equal(t, 3, fx.stockOf(t, fx.robe.ID))
	assert.Equal(t, 0, fx.stockOf(t, fx.veste.ID))
}

func TestOrderService_PlaceOrder_OutOfStockRollsBack(t *testing.T) {
	fx := newOrderFixture(t)

	_, err := fx.env.orderService().PlaceOrder(context.Background(), fx.customer.ID, &usecase.PlaceOrderInput{
		Items: []usecase.OrderLineInput{
			{ProductID: fx.robe.ID, Quantity: 2},
			{ProductID: fx.veste.ID, Quantity: 2},
		},
		ShippingAddressID: fx.address.ID,
	})
	assert.ErrorIs(t, err, domainerrors.ErrOutOfStock)

	assert.Equal(t, 5, fx.stockOf(t, fx.robe.ID), "the first decrement is rolled back")
	assert.Equal(t, 1, fx.stockOf(t, fx.veste.ID))

	orders, err := fx.env.orderService().ListMine(context.Background(), fx.customer.ID, "")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_PlaceOrder_Rejections(t *testing.T) {
	fx := newOrderFixture(t)
	srv := fx.env.orderService()
	ctx := context.Background()
	other := fx.env.registerCustomer(t, "Marie", "Curie", "marie@example.com").User

	_, err := srv.PlaceOrder(ctx, other.ID, &usecase.PlaceOrderInput{
		Items:             []usecase.OrderLineInput{{ProductID: fx.robe.ID, Quantity: 1}},
		ShippingAddressID: fx.address.ID,
	})
	assert.ErrorIs(t, err, domainerrors.ErrAddressOwnershipViolation)

	_, err = srv.PlaceOrder(ctx, fx.customer.ID, &usecase.PlaceOrderInput{
		Items:             []usecase.OrderLineInput{{ProductID: uuid.New(), Quantity: 1}},
		ShippingAddressID: fx.address.ID,
	})
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)

	_, err = srv.PlaceOrder(ctx, fx.customer.ID, &usecase.PlaceOrderInput{ShippingAddressID: fx.address.ID})
	var verr *domainerrors.ValidationError
	assert.ErrorAs(t, err, &verr)

	fx.robe.IsAvailable = false
	require.NoError(t, fx.env.products.Update(ctx, fx.robe))
	_, err = srv.PlaceOrder(ctx, fx.customer.ID, &usecase.PlaceOrderInput{
		Items:             []usecase.OrderLineInput{{ProductID: fx.robe.ID, Quantity: 1}},
		ShippingAddressID: fx.address.ID,
	})
	assert.ErrorIs(t, err, domainerrors.ErrOutOfStock)
}

func TestOrderService_GetMine(t *testing.T) {
	fx := newOrderFixture(t)
	order := fx.place(t, usecase.OrderLineInput{ProductID: fx.robe.ID, Quantity: 1})
	other := fx.env.registerCustomer(t, "Marie", "Curie", "marie@example.com").User
	srv := fx.env.orderService()

	found, err := srv.GetMine(context.Background(), fx.customer.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Reference, found.Reference)

	_, err = srv.GetMine(context.Background(), other.ID, order.ID)
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)

	orders, err := srv.ListMine(context.Background(), fx.customer.ID, order.Reference[4:])
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestOrderService_QRCode(t *testing.T) {
	fx := newOrderFixture(t)
	order := fx.place(t, usecase.OrderLineInput{ProductID: fx.robe.ID, Quantity: 1})

	data, err := fx.env.orderService().QRCode(context.Background(), fx.customer.ID, order.ID)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, fx.env.cfg.QRCode.Size, img.Bounds().Dx())
}

func TestAdminOrderService_UpdateStatus_CancelRestocks(t *testing.T) {
	fx := newOrderFixture(t)
	order := fx.place(t,
		usecase.OrderLineInput{ProductID: fx.robe.ID, Quantity: 2},
		usecase.OrderLineInput{ProductID: fx.veste.ID, Quantity: 1},
	)
	require.Equal(t, 3, fx.stockOf(t, fx.robe.ID))

	publisher := mockSvc.NewMockEventPublisher(t)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(event *service.DomainEvent) bool {
		return event.Type == service.EventOrderStatusChanged && event.Attributes["to"] == string(entity.OrderStatusCancelled)
	})).Return(nil).Once()

	// The veste was removed from the catalog after the order.
	require.NoError(t, fx.env.products.Delete(context.Background(), fx.veste.ID))

	updated, err := fx.env.adminOrderService(publisher).UpdateStatus(context.Background(), order.ID, &usecase.UpdateOrderStatusInput{
		Status: entity.OrderStatusCancelled,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, updated.Status)
	assert.Equal(t, 5, fx.stockOf(t, fx.robe.ID))
}

func TestAdminOrderService_UpdateStatus_ConcurrentCancelRestocksOnce(t *testing.T) {
	fx := newOrderFixture(t)
	order := fx.place(t, usecase.OrderLineInput{ProductID: fx.robe.ID, Quantity: 2})
	require.Equal(t, 3, fx.stockOf(t, fx.robe.ID))

	publisher := mockSvc.NewMockEventPublisher(t)
	publisher.On("Publish", mock.Anything, eventOfType(service.EventOrderStatusChanged)).Return(nil).Once()
	srv := fx.env.adminOrderService(publisher)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := srv.UpdateStatus(context.Background(), order.ID, &usecase.UpdateOrderStatusInput{Status: entity.OrderStatusCancelled})
			if err != nil {
				assert.True(t,
					errors.Is(err, domainerrors.ErrInvalidStatusTransition) || errors.Is(err, domainerrors.ErrOrderStatusConflict),
					"unexpected error: %v", err)

				return
			}
			mu.Lock()
			succeeded++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 5, fx.stockOf(t, fx.robe.ID))
}

func TestAdminOrderService_UpdateStatus_Transitions(t *testing.T) {
	fx := newOrderFixture(t)
	order := fx.place(t, usecase.OrderLineInput{ProductID: fx.robe.ID, Quantity: 1})

	publisher := mockSvc.NewMockEventPublisher(t)
	publisher.On("Publish", mock.Anything, eventOfType(service.EventOrderStatusChanged)).Return(errors.New("offline"))
	srv := fx.env.adminOrderService(publisher)
	ctx := context.Background()

	_, err := srv.UpdateStatus(ctx, order.ID, &usecase.UpdateOrderStatusInput{Status: entity.OrderStatusDelivered})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidStatusTransition)

	for _, status := range []entity.OrderStatus{entity.OrderStatusProcessing, entity.OrderStatusShipped, entity.OrderStatusDelivered} {
		updated, err := srv.UpdateStatus(ctx, order.ID, &usecase.UpdateOrderStatusInput{Status: status})
		require.NoError(t, err, "a publish failure does not fail the change")
		assert.Equal(t, status, updated.Status)
	}

	_, err = srv.UpdateStatus(ctx, order.ID, &usecase.UpdateOrderStatusInput{Status: entity.OrderStatusCancelled})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidStatusTransition)

	_, err = srv.UpdateStatus(ctx, uuid.New(), &usecase.UpdateOrderStatusInput{Status: entity.OrderStatusProcessing})
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)
}

func TestAdminOrderService_Scan(t *testing.T) {
	fx := newOrderFixture(t)
	order := fx.place(t, usecase.OrderLineInput{ProductID: fx.robe.ID, Quantity: 1})
	srv := fx.env.adminOrderService(mockSvc.NewMockEventPublisher(t))

	payload, err := json.Marshal(qrcode.OrderQRData{OrderID: order.ID.String(), Reference: order.Reference, Type: "order"})
	require.NoError(t, err)

	scanned, err := srv.Scan(context.Background(), &usecase.ScanOrderInput{Data: string(payload)})
	require.NoError(t, err)
	assert.Equal(t, order.ID, scanned.ID)

	_, err = srv.Scan(context.Background(), &usecase.ScanOrderInput{Data: "not a slip"})
	var verr *domainerrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "qrcode", verr.Fields["data"])

	payload, err = json.Marshal(qrcode.OrderQRData{OrderID: uuid.NewString(), Type: "order"})
	require.NoError(t, err)
	_, err = srv.Scan(context.Background(), &usecase.ScanOrderInput{Data: string(payload)})
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)
}

func TestAdminOrderService_List(t *testing.T) {
	fx := newOrderFixture(t)
	first := fx.place(t, usecase.OrderLineInput{ProductID: fx.robe.ID, Quantity: 1})
	fx.place(t, usecase.OrderLineInput{ProductID: fx.robe.ID, Quantity: 1})

	publisher := mockSvc.NewMockEventPublisher(t)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	srv := fx.env.adminOrderService(publisher)

	_, err := srv.UpdateStatus(context.Background(), first.ID, &usecase.UpdateOrderStatusInput{Status: entity.OrderStatusProcessing})
	require.NoError(t, err)

	orders, err := srv.List(context.Background(), &usecase.AdminOrderFilter{Status: entity.OrderStatusProcessing})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, first.ID, orders[0].ID)

	orders, err = srv.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}
