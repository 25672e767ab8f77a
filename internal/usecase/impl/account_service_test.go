package impl

import (
	"context"
	"testing"

	"boutique/internal/domain/entity"
	domainerrors "boutique/internal/domain/errors"
	"boutique/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountService_UpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerCustomer(t, "Jean", "Dupont", "jean@example.com").User

	updated, err := env.accountService().UpdateProfile(context.Background(), user.ID, &usecase.UpdateProfileInput{
		FirstName: " Jean-Paul ",
		LastName:  "Sartre",
		Phone:     "0601020304",
	})
	require.NoError(t, err)
	assert.Equal(t, "Jean-Paul", updated.FirstName)
	assert.Equal(t, "Jean-Paul Sartre", updated.DisplayName)
	assert.Equal(t, "0601020304", updated.Phone)
	assert.Equal(t, "jean-dupont", updated.UserSlug)

	_, err = env.accountService().UpdateProfile(context.Background(), uuid.New(), &usecase.UpdateProfileInput{
		FirstName: "Personne",
		LastName:  "Inconnue",
	})
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestAccountService_ChangePassword(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerCustomer(t, "Jean", "Dupont", "jean@example.com").User
	srv := env.accountService()
	ctx := context.Background()

	err := srv.ChangePassword(ctx, user.ID, &usecase.ChangePasswordInput{
		CurrentPassword: "motdepasse-solide",
		NewPassword:     "nouveau-secret",
		ConfirmPassword: "autre-secret",
	})
	assert.ErrorIs(t, err, domainerrors.ErrPasswordMismatch)

	err = srv.ChangePassword(ctx, user.ID, &usecase.ChangePasswordInput{
		CurrentPassword: "faux-mot-de-passe",
		NewPassword:     "nouveau-secret",
		ConfirmPassword: "nouveau-secret",
	})
	assert.ErrorIs(t, err, domainerrors.ErrWrongPassword)

	err = srv.ChangePassword(ctx, user.ID, &usecase.ChangePasswordInput{
		CurrentPassword: "motdepasse-solide",
		NewPassword:     "court",
		ConfirmPassword: "court",
	})
	assert.ErrorIs(t, err, domainerrors.ErrPasswordStrength)

	require.NoError(t, srv.ChangePassword(ctx, user.ID, &usecase.ChangePasswordInput{
		CurrentPassword: "motdepasse-solide",
		NewPassword:     "nouveau-secret",
		ConfirmPassword: "nouveau-secret",
	}))

	_, err = env.authService(nil).Login(ctx, &usecase.LoginInput{Email: "jean@example.com", Password: "motdepasse-solide"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	output, err := env.authService(nil).Login(ctx, &usecase.LoginInput{Email: "jean@example.com", Password: "nouveau-secret"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, output.User.ID)
}

func TestAccountService_ChangePassword_FederatedOnly(t *testing.T) {
	env := newTestEnv(t)
	identity := &entity.Identity{Email: "fed@example.com", DisplayName: "Fed User"}
	require.NoError(t, env.users.Create(context.Background(), identity))

	err := env.accountService().ChangePassword(context.Background(), identity.ID, &usecase.ChangePasswordInput{
		CurrentPassword: "anything",
		NewPassword:     "nouveau-secret",
		ConfirmPassword: "nouveau-secret",
	})
	assert.ErrorIs(t, err, domainerrors.ErrPasswordNotSet)
}
