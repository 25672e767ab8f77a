// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"boutique/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to create an account.
type RegisterInput struct {
	FirstName       string `json:"firstName" validate:"notblank,max=100"`
	LastName        string `json:"lastName" validate:"notblank,max=100"`
	Email           string `json:"email" validate:"required,email,max=254"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Phone           string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// FederatedSignInInput carries an ID token issued by the configured identity provider.
type FederatedSignInInput struct {
	IDToken string `json:"idToken" validate:"required"`
}

// RefreshTokenInput defines the data required to refresh an access token.
type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LogoutInput defines the data required to log out one session.
type LogoutInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// --- Output DTOs ---

// AuthOutput is returned by every successful sign-in.
type AuthOutput struct {
	AccessToken  string              `json:"accessToken"`
	RefreshToken string              `json:"refreshToken"`
	User         *entity.CurrentUser `json:"user"`
}

// RefreshTokenOutput carries the new access token.
type RefreshTokenOutput struct {
	AccessToken string `json:"accessToken"`
}

// AuthUsecase defines the identity operations.
type AuthUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)
	FederatedSignIn(ctx context.Context, input *FederatedSignInInput) (*AuthOutput, error)
	RefreshToken(ctx context.Context, input *RefreshTokenInput) (*RefreshTokenOutput, error)

	// Logout revokes one refresh token. The identity's other sessions are untouched.
	Logout(ctx context.Context, userID uuid.UUID, input *LogoutInput) error

	// SignOut revokes every session of the identity and publishes the signed-out transition.
	SignOut(ctx context.Context, userID uuid.UUID) error
}
