// Package identity verifies federated ID tokens and carries identity state changes
// to the session contexts that follow them.
package identity

import (
	"context"
	"strings"

	"boutique/config"
	"boutique/internal/domain/constants"
	domainerrors "boutique/internal/domain/errors"
	"boutique/internal/domain/entity"
	"boutique/internal/domain/service"
	"boutique/internal/errors"
)

// NewFederatedIdentityVerifier returns the verifier selected by identity.provider.
func NewFederatedIdentityVerifier(cfg *config.Config) (service.FederatedIdentityVerifier, error) {
	provider := constants.IdentityProviderNone
	if cfg.Identity != nil && cfg.Identity.Provider != "" {
		provider = strings.ToLower(cfg.Identity.Provider)
	}

	switch provider {
	case constants.IdentityProviderNone:
		return noneVerifier{}, nil
	case constants.IdentityProviderGoogle:
		return NewGoogleVerifier(cfg.Identity.Audience)
	case constants.IdentityProviderFirebase:
		if cfg.Firebase == nil {
			return nil, errors.New("firebase config is required when identity.provider is firebase")
		}

		return NewFirebaseVerifier(context.Background(), cfg.Firebase)
	default:
		return nil, errors.Errorf("unknown identity provider %q", provider)
	}
}

// noneVerifier rejects every federated sign-in.
type noneVerifier struct{}

func (noneVerifier) VerifyIDToken(context.Context, string) (*service.FederatedUser, error) {
	return nil, domainerrors.ErrFederatedDisabled
}

func (noneVerifier) Provider() entity.ProviderType {
	return ""
}

func claimString(claims map[string]any, key string) string {
	v, _ := claims[key].(string)

	return v
}

func claimBool(claims map[string]any, key string) bool {
	v, _ := claims[key].(bool)

	return v
}
