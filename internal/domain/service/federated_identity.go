package service

import (
	"context"

	"boutique/internal/domain/entity"
)

// FederatedUser is what a verified external ID token tells us about its holder.
type FederatedUser struct {
	Subject       string
	Email         string
	EmailVerified bool
	DisplayName   string
	Provider      entity.ProviderType
}

// FederatedIdentityVerifier verifies ID tokens issued by an external identity provider.
type FederatedIdentityVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*FederatedUser, error)

	// Provider returns the provider type recorded on the authentication.
	Provider() entity.ProviderType
}
