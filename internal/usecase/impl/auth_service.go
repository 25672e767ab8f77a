package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"boutique/config"
	"boutique/internal/domain/entity"
	domainerrors "boutique/internal/domain/errors"
	"boutique/internal/domain/repository"
	"boutique/internal/domain/service"
	"boutique/internal/errors"
	"boutique/internal/usecase"
	"boutique/internal/usecase/validation"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager        repository.TransactionManager
	userRepo         repository.UserRepository
	authRepo         repository.AuthRepository
	refreshTokenRepo repository.RefreshTokenRepository
	profileRepo      repository.ProfileRepository
	hasher           service.PasswordHasher
	tokenService     service.TokenService
	verifier         service.FederatedIdentityVerifier
	hub              service.IdentityStateHub
	config           *config.Config
	logger           *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	UserRepo         repository.UserRepository
	AuthRepo         repository.AuthRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	ProfileRepo      repository.ProfileRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	Verifier         service.FederatedIdentityVerifier
	Hub              service.IdentityStateHub
	Config           *config.Config
	Logger           *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:        params.TxManager,
		userRepo:         params.UserRepo,
		authRepo:         params.AuthRepo,
		refreshTokenRepo: params.RefreshTokenRepo,
		profileRepo:      params.ProfileRepo,
		hasher:           params.Hasher,
		tokenService:     params.TokenService,
		verifier:         params.Verifier,
		hub:              params.Hub,
		config:           params.Config,
		logger:           params.Logger,
	}
}

func (srv *authService) log(ctx context.Context) *slog.Logger {
	return loggerFrom(ctx, srv.logger)
}

// Register creates the identity, its email credential and its profile document in one transaction.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		return nil, err
	}

	email := normalizeEmail(input.Email)
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	role := entity.RoleCustomer
	if isAdminEmail(srv.config, email) {
		role = entity.RoleAdmin
	}

	var (
		identity *entity.Identity
		profile  *entity.Profile
	)
	err = srv.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		identity = &entity.Identity{
			Email:       email,
			DisplayName: strings.TrimSpace(firstName + " " + lastName),
		}
		if err := f.NewUserRepository().Create(ctx, identity); err != nil {
			if errors.Is(err, repository.ErrEmailTaken) {
				return domainerrors.ErrEmailAlreadyInUse
			}

			return errors.Wrap(err, "failed to create identity")
		}

		authRecord := &entity.Authentication{
			UserID:         identity.ID,
			Provider:       entity.ProviderTypeEmail,
			ProviderUserID: email,
			PasswordHash:   passwordHash,
		}
		if err := f.NewAuthRepository().CreateAuthentication(ctx, authRecord); err != nil {
			return errors.Wrap(err, "failed to create authentication")
		}

		profiles := f.NewProfileRepository()
		slug, err := uniqueProfileSlug(ctx, profiles, firstName+" "+lastName)
		if err != nil {
			return err
		}

		profile = &entity.Profile{
			UserID:    identity.ID,
			FirstName: firstName,
			LastName:  lastName,
			Phone:     strings.TrimSpace(input.Phone),
			UserSlug:  slug,
			Role:      role,
		}
		if err := profiles.Create(ctx, profile); err != nil {
			return errors.Wrap(err, "failed to create profile")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Account registered", slog.Any("userID", identity.ID), slog.String("userSlug", profile.UserSlug))

	return srv.signIn(ctx, identity, profile)
}

// Login verifies an email/password pair.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	email := normalizeEmail(input.Email)
	authRecord, err := srv.authRepo.FindAuthentication(ctx, entity.ProviderTypeEmail, email)
	if errors.Is(err, repository.ErrAuthNotFound) {
		srv.log(ctx).Info("Login for unknown email", slog.String("email", email))

		return nil, domainerrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find authentication")
	}

	if !srv.hasher.Check(input.Password, authRecord.PasswordHash) {
		srv.log(ctx).Info("Login with wrong password", slog.Any("userID", authRecord.UserID))

		return nil, domainerrors.ErrInvalidCredentials
	}

	identity, err := srv.userRepo.FindByID(ctx, authRecord.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find identity")
	}

	profile, err := srv.ensureProfile(ctx, identity)
	if err != nil {
		return nil, err
	}

	return srv.signIn(ctx, identity, profile)
}

// FederatedSignIn verifies an external ID token, then finds or creates the matching identity.
func (srv *authService) FederatedSignIn(ctx context.Context, input *usecase.FederatedSignInInput) (*usecase.AuthOutput, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	federated, err := srv.verifier.VerifyIDToken(ctx, input.IDToken)
	if err != nil {
		srv.log(ctx).Info("Federated token rejected", slog.Any("error", err))

		return nil, err
	}
	if federated.Email == "" {
		return nil, domainerrors.ErrFederatedTokenInvalid.WithDetails("token carries no email")
	}

	identity, err := srv.findOrLinkFederated(ctx, federated)
	if err != nil {
		return nil, err
	}

	profile, err := srv.ensureProfile(ctx, identity)
	if err != nil {
		return nil, err
	}

	return srv.signIn(ctx, identity, profile)
}

func (srv *authService) findOrLinkFederated(ctx context.Context, federated *service.FederatedUser) (*entity.Identity, error) {
	provider := srv.verifier.Provider()

	authRecord, err := srv.authRepo.FindAuthentication(ctx, provider, federated.Subject)
	if err == nil {
		identity, err := srv.userRepo.FindByID(ctx, authRecord.UserID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to find identity")
		}

		return identity, nil
	}
	if !errors.Is(err, repository.ErrAuthNotFound) {
		return nil, errors.Wrap(err, "failed to find authentication")
	}

	email := normalizeEmail(federated.Email)

	var identity *entity.Identity
	err = srv.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		users := f.NewUserRepository()

		existing, err := users.FindByEmail(ctx, email)
		switch {
		case err == nil:
			if !federated.EmailVerified {
				return domainerrors.ErrEmailAlreadyInUse.WithDetails("the provider did not verify this email")
			}
			identity = existing
		case errors.Is(err, repository.ErrUserNotFound):
			identity = &entity.Identity{Email: email, DisplayName: strings.TrimSpace(federated.DisplayName)}
			if err := users.Create(ctx, identity); err != nil {
				return errors.Wrap(err, "failed to create identity")
			}
		default:
			return errors.Wrap(err, "failed to find identity by email")
		}

		return f.NewAuthRepository().CreateAuthentication(ctx, &entity.Authentication{
			UserID:         identity.ID,
			Provider:       provider,
			ProviderUserID: federated.Subject,
		})
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Federated identity linked", slog.Any("userID", identity.ID), slog.String("provider", string(provider)))

	return identity, nil
}

// ensureProfile loads the profile of identity, creating it from the display name when missing,
// and promotes configured admin emails.
func (srv *authService) ensureProfile(ctx context.Context, identity *entity.Identity) (*entity.Profile, error) {
	profile, err := srv.profileRepo.FindByUserID(ctx, identity.ID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return srv.createProfileFromIdentity(ctx, identity)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find profile")
	}

	if isAdminEmail(srv.config, identity.Email) && profile.Role != entity.RoleAdmin {
		profile.Role = entity.RoleAdmin
		srv.log(ctx).Info("Promoting configured admin", slog.Any("userID", identity.ID))
	}

	now := time.Now()
	profile.LastLoginAt = &now
	if err := srv.profileRepo.Update(ctx, profile); err != nil {
		return nil, errors.Wrap(err, "failed to update profile")
	}

	return profile, nil
}

func (srv *authService) createProfileFromIdentity(ctx context.Context, identity *entity.Identity) (*entity.Profile, error) {
	firstName, lastName := entity.SplitDisplayName(identity.DisplayName)
	if firstName == "" {
		firstName, _, _ = strings.Cut(identity.Email, "@")
	}

	role := entity.RoleCustomer
	if isAdminEmail(srv.config, identity.Email) {
		role = entity.RoleAdmin
	}

	now := time.Now()
	profile := &entity.Profile{
		UserID:      identity.ID,
		FirstName:   firstName,
		LastName:    lastName,
		Role:        role,
		LastLoginAt: &now,
	}

	err := srv.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		profiles := f.NewProfileRepository()

		slug, err := uniqueProfileSlug(ctx, profiles, firstName+" "+lastName)
		if err != nil {
			return err
		}
		profile.UserSlug = slug

		return errors.Wrap(profiles.Create(ctx, profile), "failed to create profile")
	})
	if err != nil {
		return nil, err
	}

	return profile, nil
}

// signIn issues the token pair, stores the refresh token and publishes the transition.
func (srv *authService) signIn(ctx context.Context, identity *entity.Identity, profile *entity.Profile) (*usecase.AuthOutput, error) {
	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(identity.ID, rolesOf(profile))
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	record := &entity.RefreshToken{
		UserID:    identity.ID,
		TokenHash: srv.tokenService.HashToken(refreshToken),
		ExpiresAt: time.Now().Add(srv.tokenService.GetRefreshTokenDuration()),
	}
	if err := srv.refreshTokenRepo.CreateRefreshToken(ctx, record); err != nil {
		return nil, errors.Wrap(err, "failed to store refresh token")
	}

	srv.hub.Publish(identity.ID, service.IdentityState{Transition: service.TransitionSignedIn, Identity: identity})

	return &usecase.AuthOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         entity.MergeIdentity(identity, profile),
	}, nil
}

// RefreshToken exchanges a stored refresh token for a new access token.
func (srv *authService) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	claims, err := srv.tokenService.ValidateToken(input.RefreshToken)
	if err != nil || claims.Type != service.TokenTypeRefresh {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	record, err := srv.refreshTokenRepo.FindRefreshTokenByHash(ctx, srv.tokenService.HashToken(input.RefreshToken))
	if errors.Is(err, repository.ErrRefreshTokenNotFound) {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find refresh token")
	}
	if record.UserID != claims.UserID || time.Now().After(record.ExpiresAt) {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	identity, err := srv.userRepo.FindByID(ctx, record.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find identity")
	}

	// Roles come from the profile, not the old token.
	var roles []string
	if profile, err := srv.profileRepo.FindByUserID(ctx, identity.ID); err == nil {
		roles = rolesOf(profile)
	}

	accessToken, _, err := srv.tokenService.GenerateTokens(identity.ID, roles)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	srv.hub.Publish(identity.ID, service.IdentityState{Transition: service.TransitionTokenRefreshed, Identity: identity})

	return &usecase.RefreshTokenOutput{AccessToken: accessToken}, nil
}

// Logout revokes one refresh token of userID. Nothing is published on the identity
// stream: the other sessions of userID keep valid credentials and stay signed in.
func (srv *authService) Logout(ctx context.Context, userID uuid.UUID, input *usecase.LogoutInput) error {
	if err := validation.Struct(input); err != nil {
		return err
	}

	hash := srv.tokenService.HashToken(input.RefreshToken)
	record, err := srv.refreshTokenRepo.FindRefreshTokenByHash(ctx, hash)
	if errors.Is(err, repository.ErrRefreshTokenNotFound) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to find refresh token")
	}
	if record.UserID != userID {
		return domainerrors.ErrRefreshTokenInvalid
	}

	if err := srv.refreshTokenRepo.DeleteRefreshTokenByHash(ctx, hash); err != nil {
		return errors.Wrap(err, "failed to revoke refresh token")
	}

	srv.log(ctx).Info("Session closed", slog.Any("userID", userID))

	return nil
}

// SignOut revokes every refresh token of userID and signs all its sessions out.
func (srv *authService) SignOut(ctx context.Context, userID uuid.UUID) error {
	if err := srv.refreshTokenRepo.DeleteRefreshTokensByUserID(ctx, userID); err != nil {
		return errors.Wrap(err, "failed to revoke refresh tokens")
	}

	srv.hub.Publish(userID, service.IdentityState{Transition: service.TransitionSignedOut})
	srv.log(ctx).Info("Signed out everywhere", slog.Any("userID", userID))

	return nil
}
