package impl

import (
	"context"
	"log/slog"
	"sync"

	"boutique/internal/domain/entity"
	domainerrors "boutique/internal/domain/errors"
	"boutique/internal/domain/navigation"
	"boutique/internal/domain/repository"
	"boutique/internal/domain/service"
	"boutique/internal/errors"
	"boutique/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const snapshotBuffer = 8

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	hub         service.IdentityStateHub
	auth        usecase.AuthUsecase
	routes      navigation.RouteTable
	logger      *slog.Logger
}

// SessionServiceParams holds dependencies for SessionService, injected by Fx.
type SessionServiceParams struct {
	fx.In

	UserRepo    repository.UserRepository
	ProfileRepo repository.ProfileRepository
	Hub         service.IdentityStateHub
	Auth        usecase.AuthUsecase
	Routes      navigation.RouteTable
	Logger      *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	return &sessionService{
		userRepo:    params.UserRepo,
		profileRepo: params.ProfileRepo,
		hub:         params.Hub,
		auth:        params.Auth,
		routes:      params.Routes,
		logger:      params.Logger,
	}
}

func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return loggerFrom(ctx, srv.logger)
}

// Open subscribes to the identity stream of identity and keeps a merged snapshot until ctx ends.
// A nil identity yields a context that resolves to signed out.
func (srv *sessionService) Open(ctx context.Context, identity *entity.Identity) usecase.AuthContext {
	userID := uuid.Nil
	seed := service.IdentityState{Transition: service.TransitionSignedOut}
	if identity != nil {
		userID = identity.ID
		seed = service.IdentityState{Transition: service.TransitionSignedIn, Identity: identity}
	}

	ac := &authContext{
		userID:   userID,
		snapshot: entity.SessionSnapshot{Loading: true},
		updates:  make(chan entity.SessionSnapshot, snapshotBuffer),
		done:     make(chan struct{}),
		logout:   srv.auth.SignOut,
	}

	events := srv.hub.Subscribe(ctx, userID, seed)
	go ac.run(ctx, events, srv.mergeProfile(ctx))

	return ac
}

// mergeProfile returns the merge step of the writer goroutine.
// A failing profile fetch exposes the identity alone.
func (srv *sessionService) mergeProfile(ctx context.Context) func(*entity.Identity) *entity.CurrentUser {
	return func(identity *entity.Identity) *entity.CurrentUser {
		profile, err := srv.profileRepo.FindByUserID(ctx, identity.ID)
		if err != nil {
			srv.log(ctx).Warn("Profile fetch failed, exposing identity only", slog.Any("userID", identity.ID), slog.Any("error", err))

			return entity.MergeIdentity(identity, nil)
		}

		return entity.MergeIdentity(identity, profile)
	}
}

// CurrentUser resolves the merged user for one request.
func (srv *sessionService) CurrentUser(ctx context.Context, userID uuid.UUID) (*entity.CurrentUser, error) {
	identity, err := srv.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domainerrors.ErrUnauthenticated
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find identity")
	}

	return srv.mergeProfile(ctx)(identity), nil
}

// Resolve maps path to its page and guards it.
func (srv *sessionService) Resolve(path string, snapshot entity.SessionSnapshot) *usecase.NavigationResult {
	route := srv.routes.Resolve(path)

	return &usecase.NavigationResult{
		Route:    route,
		Decision: navigation.Decide(snapshot, route.Area),
	}
}

// authContext is written only by its run goroutine.
type authContext struct {
	userID uuid.UUID
	logout func(ctx context.Context, userID uuid.UUID) error

	mu       sync.RWMutex
	snapshot entity.SessionSnapshot

	updates chan entity.SessionSnapshot
	done    chan struct{}
}

var _ usecase.AuthContext = (*authContext)(nil)

func (ac *authContext) run(ctx context.Context, events <-chan service.IdentityState, merge func(*entity.Identity) *entity.CurrentUser) {
	defer close(ac.done)
	defer close(ac.updates)

	var version uint64
	for state := range events {
		if ctx.Err() != nil {
			continue // drain until the hub closes the channel
		}

		var user *entity.CurrentUser
		if state.Identity != nil {
			user = merge(state.Identity)
		}

		version++
		next := entity.SessionSnapshot{Version: version, CurrentUser: user}

		ac.mu.Lock()
		ac.snapshot = next
		ac.mu.Unlock()

		ac.emit(next)
	}
}

// emit drops the oldest pending snapshot when the reader lags.
func (ac *authContext) emit(snapshot entity.SessionSnapshot) {
	for {
		select {
		case ac.updates <- snapshot:
			return
		default:
		}
		select {
		case <-ac.updates:
		default:
		}
	}
}

func (ac *authContext) Snapshot() entity.SessionSnapshot {
	ac.mu.RLock()
	defer ac.mu.RUnlock()

	return ac.snapshot
}

func (ac *authContext) Updates() <-chan entity.SessionSnapshot {
	return ac.updates
}

func (ac *authContext) Done() <-chan struct{} {
	return ac.done
}

// Logout signs the identity out; the resulting signed-out state arrives through the stream.
func (ac *authContext) Logout(ctx context.Context) error {
	if ac.userID == uuid.Nil {
		return nil
	}

	return ac.logout(ctx, ac.userID)
}
