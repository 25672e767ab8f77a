package service

import (
	"context"

	"boutique/internal/domain/entity"

	"github.com/google/uuid"
)

// IdentityTransition names what happened to an identity.
type IdentityTransition string

const (
	TransitionSignedIn       IdentityTransition = "signed-in"
	TransitionTokenRefreshed IdentityTransition = "token-refreshed"
	TransitionProfileUpdated IdentityTransition = "profile-updated"
	TransitionSignedOut      IdentityTransition = "signed-out"
)

// IdentityState is one value of the identity state-change stream.
// Identity is nil when the identity is signed out.
type IdentityState struct {
	Transition IdentityTransition
	Identity   *entity.Identity
}

// IdentityStateHub fans identity transitions out to the subscribed session contexts.
type IdentityStateHub interface {
	// Publish records the new state of userID and notifies subscribers.
	Publish(userID uuid.UUID, state IdentityState)

	// Subscribe emits seed first, then every state published for userID
	// until ctx ends, at which point the channel is closed.
	Subscribe(ctx context.Context, userID uuid.UUID, seed IdentityState) <-chan IdentityState
}
