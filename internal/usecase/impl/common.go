// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"boutique/config"
	deliverycontext "boutique/internal/delivery/context"
	"boutique/internal/domain/entity"
	domainerrors "boutique/internal/domain/errors"
	"boutique/internal/domain/navigation"
	"boutique/internal/domain/repository"
	"boutique/internal/domain/service"
	"boutique/internal/errors"
	"boutique/internal/util"

	"github.com/google/uuid"
)

// loggerFrom returns the request-scoped logger if available, otherwise the fallback.
func loggerFrom(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, fallback)
}

// pageBounds turns a 1-based page into limit/offset, clamping the size to the catalog bounds.
func pageBounds(cfg *config.CatalogConfig, page, pageSize int) (limit, offset, normalizedPage, normalizedSize int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = cfg.DefaultPageSize
	}
	if pageSize > cfg.MaxPageSize {
		pageSize = cfg.MaxPageSize
	}

	return pageSize, (page - 1) * pageSize, page, pageSize
}

// uniqueProfileSlug returns slugify(name), suffixed with -2, -3... until no profile uses it.
// Route segments such as "admin" are skipped like taken slugs.
func uniqueProfileSlug(ctx context.Context, profiles repository.ProfileRepository, name string) (string, error) {
	base := util.Slugify(name)
	if base == "" {
		base = "client"
	}

	for n := 1; ; n++ {
		candidate := util.SuffixSlug(base, n)
		if navigation.IsReservedSlug(candidate) {
			continue
		}
		exists, err := profiles.SlugExists(ctx, candidate)
		if err != nil {
			return "", errors.Wrap(err, "failed to check slug")
		}
		if !exists {
			return candidate, nil
		}
	}
}

// isAdminEmail reports whether email is listed in auth.adminEmails.
func isAdminEmail(cfg *config.Config, email string) bool {
	if cfg == nil || cfg.Auth == nil {
		return false
	}
	for _, admin := range cfg.Auth.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(admin), email) {
			return true
		}
	}

	return false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// loadCurrentUser merges the identity with its profile; a missing profile yields the identity alone.
func loadCurrentUser(ctx context.Context, users repository.UserRepository, profiles repository.ProfileRepository, userID uuid.UUID) (*entity.CurrentUser, *entity.Profile, error) {
	identity, err := users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, nil, domainerrors.ErrUserNotFound
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to find identity")
	}

	profile, err := profiles.FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return entity.MergeIdentity(identity, nil), nil, nil
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to find profile")
	}

	return entity.MergeIdentity(identity, profile), profile, nil
}

func rolesOf(profile *entity.Profile) []string {
	if profile == nil {
		return nil
	}

	return profile.Role.Claims()
}

// newDomainEvent stamps an event with a fresh ID, the request ID and the caller of ctx.
func newDomainEvent(ctx context.Context, eventType string, attributes map[string]string) *service.DomainEvent {
	event := &service.DomainEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		OccurredAt: time.Now().UTC(),
		Attributes: attributes,
	}
	if actor, ok := deliverycontext.GetCaller(ctx); ok {
		event.ActorID = actor.String()
	}

	return event
}
