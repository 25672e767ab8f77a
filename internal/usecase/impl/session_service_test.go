package impl

import (
	"context"
	"testing"
	"time"

	"boutique/internal/domain/entity"
	domainerrors "boutique/internal/domain/errors"
	"boutique/internal/domain/navigation"
	"boutique/internal/errors"
	infranavigation "boutique/internal/infra/navigation"
	mockRepo "boutique/internal/mocks/repository"
	"boutique/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func nextSnapshot(t *testing.T, ac usecase.AuthContext) entity.SessionSnapshot {
	t.Helper()

	select {
	case snapshot, ok := <-ac.Updates():
		require.True(t, ok, "updates closed")

		return snapshot
	case <-time.After(2 * time.Second):
		require.FailNow(t, "no snapshot received")
	}

	return entity.SessionSnapshot{}
}

func TestSessionService_Open_FollowsIdentity(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerCustomer(t, "Jean", "Dupont", "jean@example.com").User
	identity, err := env.users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ac := env.sessionService().Open(ctx, identity)

	first := nextSnapshot(t, ac)
	assert.Equal(t, uint64(1), first.Version)
	assert.False(t, first.Loading)
	require.NotNil(t, first.CurrentUser)
	assert.Equal(t, "jean-dupont", first.CurrentUser.UserSlug)
	assert.Equal(t, "Jean", first.CurrentUser.FirstName)

	_, err = env.accountService().UpdateProfile(context.Background(), user.ID, &usecase.UpdateProfileInput{
		FirstName: "Jean-Pierre",
		LastName:  "Dupont",
	})
	require.NoError(t, err)

	second := nextSnapshot(t, ac)
	assert.Equal(t, uint64(2), second.Version)
	require.NotNil(t, second.CurrentUser)
	assert.Equal(t, "Jean-Pierre", second.CurrentUser.FirstName)
	assert.Equal(t, "jean-dupont", second.CurrentUser.UserSlug, "the slug is never recomputed")

	require.NoError(t, ac.Logout(context.Background()))

	third := nextSnapshot(t, ac)
	assert.Equal(t, uint64(3), third.Version)
	assert.Nil(t, third.CurrentUser)
	assert.Equal(t, third, ac.Snapshot())

	cancel()
	select {
	case <-ac.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("auth context not torn down")
	}
	assert.Zero(t, env.hub.SubscriberCount(user.ID))
}

func TestSessionService_Open_ProfileFetchFails(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerCustomer(t, "Jean", "Dupont", "jean@example.com").User
	identity, err := env.users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)

	release := make(chan struct{})
	profiles := mockRepo.NewMockProfileRepository(t)
	profiles.On("FindByUserID", mock.Anything, user.ID).
		Run(func(mock.Arguments) { <-release }).
		Return(nil, errors.New("profile store unavailable")).
		Once()

	srv := NewSessionService(SessionServiceParams{
		UserRepo:    env.users,
		ProfileRepo: profiles,
		Hub:         env.hub,
		Auth:        env.authService(nil),
		Routes:      infranavigation.NewRouteTable(),
		Logger:      env.logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ac := srv.Open(ctx, identity)

	// Nothing is resolved until the first identity callback has merged its profile.
	loading := ac.Snapshot()
	assert.True(t, loading.Loading)
	assert.Zero(t, loading.Version)
	assert.Nil(t, loading.CurrentUser)

	close(release)

	snapshot := nextSnapshot(t, ac)
	assert.False(t, snapshot.Loading)
	require.True(t, snapshot.SignedIn(), "a failed profile fetch does not sign out")
	assert.Equal(t, user.ID, snapshot.CurrentUser.ID)
	assert.Equal(t, "jean@example.com", snapshot.CurrentUser.Email)
	assert.Empty(t, snapshot.CurrentUser.Role)
	assert.Empty(t, snapshot.CurrentUser.UserSlug)
}

func TestSessionService_Open_OtherDeviceLogout(t *testing.T) {
	env := newTestEnv(t)
	auth := env.authService(nil)
	ctx := context.Background()

	deviceA := env.registerCustomer(t, "Jean", "Dupont", "jean@example.com")
	deviceB, err := auth.Login(ctx, &usecase.LoginInput{Email: "jean@example.com", Password: "motdepasse-solide"})
	require.NoError(t, err)

	identity, err := env.users.FindByID(ctx, deviceB.User.ID)
	require.NoError(t, err)

	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ac := env.sessionService().Open(streamCtx, identity)
	require.True(t, nextSnapshot(t, ac).SignedIn())

	require.NoError(t, auth.Logout(ctx, deviceA.User.ID, &usecase.LogoutInput{RefreshToken: deviceA.RefreshToken}))

	select {
	case snapshot := <-ac.Updates():
		t.Fatalf("device B received %+v after device A logged out", snapshot)
	case <-time.After(100 * time.Millisecond):
	}
	assert.True(t, ac.Snapshot().SignedIn())

	_, err = auth.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: deviceB.RefreshToken})
	require.NoError(t, err)
	assert.True(t, nextSnapshot(t, ac).SignedIn())

	require.NoError(t, auth.SignOut(ctx, deviceB.User.ID))
	assert.False(t, nextSnapshot(t, ac).SignedIn())
}

func TestSessionService_Open_Anonymous(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ac := env.sessionService().Open(ctx, nil)

	snapshot := nextSnapshot(t, ac)
	assert.Equal(t, uint64(1), snapshot.Version)
	assert.False(t, snapshot.SignedIn())
	assert.NoError(t, ac.Logout(context.Background()))
}

func TestSessionService_CurrentUser(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerCustomer(t, "Jean", "Dupont", "jean@example.com").User
	srv := env.sessionService()

	current, err := srv.CurrentUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "jean@example.com", current.Email)
	assert.Equal(t, entity.RoleCustomer, current.Role)

	_, err = srv.CurrentUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
}

func TestSessionService_Resolve(t *testing.T) {
	env := newTestEnv(t)
	srv := env.sessionService()

	customer := entity.SessionSnapshot{Version: 1, CurrentUser: &entity.CurrentUser{UserSlug: "jean-dupont", Role: entity.RoleCustomer}}
	admin := entity.SessionSnapshot{Version: 1, CurrentUser: &entity.CurrentUser{UserSlug: "alice", Role: entity.RoleAdmin}}

	result := srv.Resolve("/compte/jean-dupont/commandes", customer)
	assert.Equal(t, navigation.PageAccountOrders, result.Page)
	assert.Equal(t, navigation.OutcomeRender, result.Outcome)

	result = srv.Resolve("/compte/jean-dupont", entity.SessionSnapshot{Version: 1})
	assert.Equal(t, navigation.OutcomeRedirect, result.Outcome)
	assert.Equal(t, "/compte/connexion", result.RedirectTo)

	result = srv.Resolve("/compte/admin/jean-dupont", customer)
	assert.Equal(t, navigation.OutcomeRedirect, result.Outcome)
	assert.Equal(t, "/", result.RedirectTo)

	result = srv.Resolve("/compte/admin/alice/produits", admin)
	assert.Equal(t, navigation.PageAdminProducts, result.Page)
	assert.Equal(t, navigation.OutcomeRender, result.Outcome)

	result = srv.Resolve("/compte/jean-dupont", entity.SessionSnapshot{Loading: true})
	assert.Equal(t, navigation.OutcomeWaiting, result.Outcome)
}
