package identity

import (
	"context"

	"google.golang.org/api/idtoken"

	domainerrors "boutique/internal/domain/errors"
	"boutique/internal/domain/entity"
	"boutique/internal/domain/service"
	"boutique/internal/errors"
)

type validateFunc func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

type googleVerifier struct {
	audience string
	validate validateFunc
}

// NewGoogleVerifier verifies Google Sign-In ID tokens issued for audience (the OAuth client ID).
func NewGoogleVerifier(audience string) (service.FederatedIdentityVerifier, error) {
	if audience == "" {
		return nil, errors.New("identity.audience is required for the google provider")
	}

	return &googleVerifier{audience: audience, validate: idtoken.Validate}, nil
}

func (v *googleVerifier) VerifyIDToken(ctx context.Context, idToken string) (*service.FederatedUser, error) {
	payload, err := v.validate(ctx, idToken, v.audience)
	if err != nil {
		return nil, domainerrors.ErrFederatedTokenInvalid.WithDetails(err.Error())
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return nil, domainerrors.ErrFederatedTokenInvalid.WithDetails("invalid issuer: " + payload.Issuer)
	}

	return &service.FederatedUser{
		Subject:       payload.Subject,
		Email:         claimString(payload.Claims, "email"),
		EmailVerified: claimBool(payload.Claims, "email_verified"),
		DisplayName:   claimString(payload.Claims, "name"),
		Provider:      entity.ProviderTypeGoogle,
	}, nil
}

func (v *googleVerifier) Provider() entity.ProviderType {
	return entity.ProviderTypeGoogle
}
