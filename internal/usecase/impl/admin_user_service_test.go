package impl

import (
	"context"
	"testing"
	"time"

	"boutique/internal/domain/entity"
	domainerrors "boutique/internal/domain/errors"
	"boutique/internal/domain/service"
	"boutique/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (env *testEnv) adminUserService() usecase.AdminUserUsecase {
	return NewAdminUserService(AdminUserServiceParams{
		UserRepo:    env.users,
		ProfileRepo: env.profiles,
		Hub:         env.hub,
		Config:      env.cfg,
		Logger:      env.logger,
	})
}

func (env *testEnv) dashboardService() usecase.DashboardUsecase {
	return NewDashboardService(DashboardServiceParams{
		ProductRepo: env.products,
		UserRepo:    env.users,
		OrderRepo:   env.orders,
		Logger:      env.logger,
	})
}

func TestAdminUserService_ChangeRole(t *testing.T) {
	env := newTestEnv(t)
	admin := env.registerCustomer(t, "Alice", "Admin", testAdminEmail).User
	customer := env.registerCustomer(t, "Jean", "Dupont", "jean@example.com").User
	srv := env.adminUserService()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := env.hub.Subscribe(ctx, customer.ID, service.IdentityState{Transition: service.TransitionSignedIn})
	<-events

	promoted, err := srv.ChangeRole(context.Background(), admin.ID, customer.ID, &usecase.ChangeRoleInput{Role: entity.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, promoted.Role)

	select {
	case state := <-events:
		assert.Equal(t, service.TransitionProfileUpdated, state.Transition)
		assert.Equal(t, customer.ID, state.Identity.ID)
	case <-time.After(time.Second):
		t.Fatal("no profile update published")
	}

	_, err = srv.ChangeRole(context.Background(), admin.ID, admin.ID, &usecase.ChangeRoleInput{Role: entity.RoleCustomer})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = srv.ChangeRole(context.Background(), admin.ID, uuid.New(), &usecase.ChangeRoleInput{Role: entity.RoleCustomer})
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)

	_, err = srv.ChangeRole(context.Background(), admin.ID, customer.ID, &usecase.ChangeRoleInput{Role: "root"})
	var verr *domainerrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestAdminUserService_List(t *testing.T) {
	env := newTestEnv(t)
	env.registerCustomer(t, "Alice", "Admin", testAdminEmail)
	env.registerCustomer(t, "Jean", "Dupont", "jean@example.com")
	env.registerCustomer(t, "Marie", "Curie", "marie@example.com")
	srv := env.adminUserService()

	all, err := srv.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	admins, err := srv.List(context.Background(), &usecase.AdminUserFilter{Role: entity.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, testAdminEmail, admins[0].Email)

	found, err := srv.List(context.Background(), &usecase.AdminUserFilter{Search: "CURIE"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "marie-curie", found[0].UserSlug)
}

func TestDashboardService_Dashboard(t *testing.T) {
	fx := newOrderFixture(t)
	fx.place(t, usecase.OrderLineInput{ProductID: fx.robe.ID, Quantity: 2})

	out := fx.env.dashboardService().Dashboard(context.Background())

	require.Equal(t, entity.StateSuccess, out.Products.Status())
	assert.Equal(t, int64(2), out.Products.(entity.Success[int64]).Data)
	// Robe is down to 3, Veste has 1.
	assert.Equal(t, int64(2), out.LowStock.(entity.Success[int64]).Data)
	assert.Equal(t, int64(1), out.Users.(entity.Success[int64]).Data)

	byStatus := out.OrdersByState.(entity.Success[map[entity.OrderStatus]int64]).Data
	assert.Equal(t, int64(1), byStatus[entity.OrderStatusPending])
	assert.Contains(t, byStatus, entity.OrderStatusDelivered)

	revenue := out.Revenue.(entity.Success[decimal.Decimal]).Data
	assert.True(t, decimal.RequireFromString("99.80").Equal(revenue), "revenue was %s", revenue)
}

func TestDashboardService_Dashboard_SectionFailure(t *testing.T) {
	env := newTestEnv(t)
	sqlDB, err := env.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	out := env.dashboardService().Dashboard(context.Background())

	assert.Equal(t, entity.StateFailure, out.Products.Status())
	assert.Equal(t, entity.StateFailure, out.Revenue.Status())
	assert.Equal(t, "Impossible de compter les utilisateurs.", out.Users.(entity.Failure[int64]).Reason)
}
