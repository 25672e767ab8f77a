package impl

import (
	"context"
	"testing"

	"boutique/internal/domain/entity"
	domainerrors "boutique/internal/domain/errors"
	"boutique/internal/domain/service"
	mockSvc "boutique/internal/mocks/service"
	"boutique/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.registerCustomer(t, "Jean", "Dupont", "jean@example.com")
	assert.NotEmpty(t, first.AccessToken)
	assert.NotEmpty(t, first.RefreshToken)
	assert.Equal(t, "jean-dupont", first.User.UserSlug)
	assert.Equal(t, entity.RoleCustomer, first.User.Role)
	assert.Equal(t, "Jean Dupont", first.User.DisplayName)

	second := env.registerCustomer(t, "Jean", "Dupont", "jean.dupont@example.com")
	assert.Equal(t, "jean-dupont-2", second.User.UserSlug)

	profile, err := env.profiles.FindByUserID(ctx, first.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jean", profile.FirstName)
	assert.Equal(t, "jean-dupont", profile.UserSlug)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.registerCustomer(t, "Jean", "Dupont", "jean@example.com")

	_, err := env.authService(nil).Register(context.Background(), &usecase.RegisterInput{
		FirstName:       "Jeanne",
		LastName:        "Martin",
		Email:           "Jean@Example.com",
		Password:        "motdepasse-solide",
		ConfirmPassword: "motdepasse-solide",
	})
	assert.ErrorIs(t, err, domainerrors.ErrEmailAlreadyInUse)

	count, err := env.users.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAuthService_Register_WeakPasswordWritesNothing(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.authService(nil).Register(context.Background(), &usecase.RegisterInput{
		FirstName:       "Jean",
		LastName:        "Dupont",
		Email:           "jean@example.com",
		Password:        "court",
		ConfirmPassword: "court",
	})
	assert.ErrorIs(t, err, domainerrors.ErrPasswordStrength)

	count, err := env.users.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAuthService_Register_InvalidInput(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.authService(nil).Register(context.Background(), &usecase.RegisterInput{
		FirstName:       "  ",
		LastName:        "Dupont",
		Email:           "not-an-email",
		Password:        "motdepasse-solide",
		ConfirmPassword: "motdepasse-solide",
	})

	var verr *domainerrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "firstName")
	assert.Contains(t, verr.Fields, "email")
}

func TestAuthService_Register_PasswordMismatch(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.authService(nil).Register(context.Background(), &usecase.RegisterInput{
		FirstName:       "Jean",
		LastName:        "Dupont",
		Email:           "jean@example.com",
		Password:        "motdepasse-solide",
		ConfirmPassword: "motdepasse-solida",
	})

	var verr *domainerrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"confirmPassword": "eqfield"}, verr.Fields)

	count, err := env.users.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAuthService_Register_AdminEmail(t *testing.T) {
	env := newTestEnv(t)

	output := env.registerCustomer(t, "Alice", "Admin", testAdminEmail)
	assert.Equal(t, entity.RoleAdmin, output.User.Role)

	claims, err := env.tokenService.ValidateToken(output.AccessToken)
	require.NoError(t, err)
	assert.Contains(t, claims.Roles, string(entity.RoleAdmin))
}

func TestAuthService_Login(t *testing.T) {
	env := newTestEnv(t)
	registered := env.registerCustomer(t, "Jean", "Dupont", "jean@example.com")
	srv := env.authService(nil)

	output, err := srv.Login(context.Background(), &usecase.LoginInput{Email: "Jean@Example.com", Password: "motdepasse-solide"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, output.User.ID)
	assert.Equal(t, "jean-dupont", output.User.UserSlug)

	profile, err := env.profiles.FindByUserID(context.Background(), registered.User.ID)
	require.NoError(t, err)
	assert.NotNil(t, profile.LastLoginAt)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.registerCustomer(t, "Jean", "Dupont", "jean@example.com")
	srv := env.authService(nil)

	_, err := srv.Login(context.Background(), &usecase.LoginInput{Email: "jean@example.com", Password: "mauvais-mot-de-passe"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = srv.Login(context.Background(), &usecase.LoginInput{Email: "inconnu@example.com", Password: "motdepasse-solide"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_RefreshToken(t *testing.T) {
	env := newTestEnv(t)
	registered := env.registerCustomer(t, "Jean", "Dupont", "jean@example.com")
	srv := env.authService(nil)

	output, err := srv.RefreshToken(context.Background(), &usecase.RefreshTokenInput{RefreshToken: registered.RefreshToken})
	require.NoError(t, err)

	claims, err := env.tokenService.ValidateToken(output.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)
	assert.Equal(t, service.TokenTypeAccess, claims.Type)
}

func TestAuthService_RefreshToken_Invalid(t *testing.T) {
	env := newTestEnv(t)
	registered := env.registerCustomer(t, "Jean", "Dupont", "jean@example.com")
	srv := env.authService(nil)

	_, err := srv.RefreshToken(context.Background(), &usecase.RefreshTokenInput{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)

	_, err = srv.RefreshToken(context.Background(), &usecase.RefreshTokenInput{RefreshToken: registered.AccessToken})
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestAuthService_Logout(t *testing.T) {
	env := newTestEnv(t)
	registered := env.registerCustomer(t, "Jean", "Dupont", "jean@example.com")
	other := env.registerCustomer(t, "Marie", "Curie", "marie@example.com")
	srv := env.authService(nil)
	ctx := context.Background()

	err := srv.Logout(ctx, other.User.ID, &usecase.LogoutInput{RefreshToken: registered.RefreshToken})
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)

	require.NoError(t, srv.Logout(ctx, registered.User.ID, &usecase.LogoutInput{RefreshToken: registered.RefreshToken}))

	_, err = srv.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: registered.RefreshToken})
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)

	// A second logout with the revoked token is a no-op.
	assert.NoError(t, srv.Logout(ctx, registered.User.ID, &usecase.LogoutInput{RefreshToken: registered.RefreshToken}))
}

func TestAuthService_SignOut(t *testing.T) {
	env := newTestEnv(t)
	registered := env.registerCustomer(t, "Jean", "Dupont", "jean@example.com")
	srv := env.authService(nil)
	ctx := context.Background()

	again, err := srv.Login(ctx, &usecase.LoginInput{Email: "jean@example.com", Password: "motdepasse-solide"})
	require.NoError(t, err)

	require.NoError(t, srv.SignOut(ctx, registered.User.ID))

	for _, token := range []string{registered.RefreshToken, again.RefreshToken} {
		_, err := srv.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: token})
		assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
	}
}

func TestAuthService_FederatedSignIn_CreatesIdentity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	verifier := mockSvc.NewMockFederatedIdentityVerifier(t)
	verifier.On("Provider").Return(entity.ProviderTypeGoogle)
	verifier.On("VerifyIDToken", mock.Anything, "id-token").Return(&service.FederatedUser{
		Subject:       "google-123",
		Email:         "Marie@Example.com",
		EmailVerified: true,
		DisplayName:   "Marie Curie",
		Provider:      entity.ProviderTypeGoogle,
	}, nil)
	srv := env.authService(verifier)

	first, err := srv.FederatedSignIn(ctx, &usecase.FederatedSignInInput{IDToken: "id-token"})
	require.NoError(t, err)
	assert.Equal(t, "marie@example.com", first.User.Email)
	assert.Equal(t, "Marie", first.User.FirstName)
	assert.Equal(t, "Curie", first.User.LastName)
	assert.Equal(t, "marie-curie", first.User.UserSlug)
	assert.Equal(t, entity.RoleCustomer, first.User.Role)

	second, err := srv.FederatedSignIn(ctx, &usecase.FederatedSignInInput{IDToken: "id-token"})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)

	count, err := env.users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAuthService_FederatedSignIn_LinksVerifiedEmail(t *testing.T) {
	env := newTestEnv(t)
	registered := env.registerCustomer(t, "Jean", "Dupont", "jean@example.com")

	verifier := mockSvc.NewMockFederatedIdentityVerifier(t)
	verifier.On("Provider").Return(entity.ProviderTypeFirebase)
	verifier.On("VerifyIDToken", mock.Anything, "id-token").Return(&service.FederatedUser{
		Subject:       "firebase-uid",
		Email:         "jean@example.com",
		EmailVerified: true,
		DisplayName:   "Jean D.",
	}, nil)

	output, err := env.authService(verifier).FederatedSignIn(context.Background(), &usecase.FederatedSignInInput{IDToken: "id-token"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, output.User.ID)
	assert.Equal(t, "jean-dupont", output.User.UserSlug)

	linked, err := env.auths.FindAuthentication(context.Background(), entity.ProviderTypeFirebase, "firebase-uid")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, linked.UserID)
}

func TestAuthService_FederatedSignIn_UnverifiedEmailCollision(t *testing.T) {
	env := newTestEnv(t)
	env.registerCustomer(t, "Jean", "Dupont", "jean@example.com")

	verifier := mockSvc.NewMockFederatedIdentityVerifier(t)
	verifier.On("Provider").Return(entity.ProviderTypeGoogle)
	verifier.On("VerifyIDToken", mock.Anything, "id-token").Return(&service.FederatedUser{
		Subject: "google-999",
		Email:   "jean@example.com",
	}, nil)

	_, err := env.authService(verifier).FederatedSignIn(context.Background(), &usecase.FederatedSignInInput{IDToken: "id-token"})
	assert.ErrorIs(t, err, domainerrors.ErrEmailAlreadyInUse)
}

func TestAuthService_FederatedSignIn_Rejected(t *testing.T) {
	env := newTestEnv(t)

	verifier := mockSvc.NewMockFederatedIdentityVerifier(t)
	verifier.On("VerifyIDToken", mock.Anything, "expired").Return(nil, domainerrors.ErrFederatedTokenInvalid)
	verifier.On("VerifyIDToken", mock.Anything, "no-email").Return(&service.FederatedUser{Subject: "sub"}, nil)
	srv := env.authService(verifier)

	_, err := srv.FederatedSignIn(context.Background(), &usecase.FederatedSignInInput{IDToken: "expired"})
	assert.ErrorIs(t, err, domainerrors.ErrFederatedTokenInvalid)

	_, err = srv.FederatedSignIn(context.Background(), &usecase.FederatedSignInInput{IDToken: "no-email"})
	assert.ErrorIs(t, err, domainerrors.ErrFederatedTokenInvalid)
}
