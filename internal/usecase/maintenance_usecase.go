package usecase

import (
	"context"

	"boutique/internal/domain/service"
	"boutique/internal/errors"
)

// ErrUnhandledEvent marks an event the worker cannot act on; redelivery would not help.
var ErrUnhandledEvent = errors.New("unhandled event")

// MaintenanceUsecase runs the background work handed off by the API.
type MaintenanceUsecase interface {
	// HandleEvent acts on one domain event. Errors other than ErrUnhandledEvent are worth a retry.
	HandleEvent(ctx context.Context, event *service.DomainEvent) error

	// PurgeExpiredTokens removes expired refresh tokens and reports how many.
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}
