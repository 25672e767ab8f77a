package identity

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"boutique/config"
	domainerrors "boutique/internal/domain/errors"
	"boutique/internal/domain/entity"
	"boutique/internal/domain/service"
	"boutique/internal/errors"
)

// idTokenVerifier is the part of *auth.Client we use.
type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type firebaseVerifier struct {
	client idTokenVerifier
}

// NewFirebaseVerifier verifies Firebase Authentication ID tokens.
// Without a credentials file the application default credentials are used.
func NewFirebaseVerifier(ctx context.Context, cfg *config.FirebaseConfig) (service.FederatedIdentityVerifier, error) {
	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Firebase app")
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get auth client")
	}

	return &firebaseVerifier{client: client}, nil
}

func (v *firebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (*service.FederatedUser, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, domainerrors.ErrFederatedTokenInvalid.WithDetails(err.Error())
	}

	return &service.FederatedUser{
		Subject:       token.UID,
		Email:         claimString(token.Claims, "email"),
		EmailVerified: claimBool(token.Claims, "email_verified"),
		DisplayName:   claimString(token.Claims, "name"),
		Provider:      entity.ProviderTypeFirebase,
	}, nil
}

func (v *firebaseVerifier) Provider() entity.ProviderType {
	return entity.ProviderTypeFirebase
}
