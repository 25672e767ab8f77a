package usecase

import (
	"context"

	"github.com/google/uuid"

	"boutique/internal/domain/entity"
	"boutique/internal/domain/navigation"
)

// AuthContext follows one identity and exposes who is signed in.
// A single goroutine writes; Snapshot and Updates are safe for concurrent readers.
type AuthContext interface {
	// Snapshot returns the latest immutable view.
	Snapshot() entity.SessionSnapshot

	// Updates streams every new snapshot, in version order. It is closed when the context ends.
	Updates() <-chan entity.SessionSnapshot

	// Logout signs the identity out and returns any failure.
	Logout(ctx context.Context) error

	// Done is closed once the subscription has been torn down.
	Done() <-chan struct{}
}

// NavigationResult is a resolved path with the guard decision for the caller.
type NavigationResult struct {
	navigation.Route
	navigation.Decision
}

// SessionUsecase defines the session-level operations.
type SessionUsecase interface {
	// Open starts an auth context for identity that lives until ctx ends.
	Open(ctx context.Context, identity *entity.Identity) AuthContext

	// CurrentUser resolves the merged user for one request. A missing or failing
	// profile fetch yields the identity alone.
	CurrentUser(ctx context.Context, userID uuid.UUID) (*entity.CurrentUser, error)

	// Resolve maps a client path to its page and guards it against the snapshot.
	Resolve(path string, snapshot entity.SessionSnapshot) *NavigationResult
}
