package service

import (
	"context"
	"time"
)

// Event types carried on the domain topic.
const (
	EventProductDeleted     = "product.deleted"
	EventProductImageOrphan = "product.image_orphaned"
	EventOrderStatusChanged = "order.status_changed"
)

// DomainEvent is published for work the API hands off to the worker.
type DomainEvent struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	RequestID  string            `json:"request_id,omitempty"` // For distributed tracing
	ActorID    string            `json:"actor_id,omitempty"`   // Caller that triggered the event
	OccurredAt time.Time         `json:"occurred_at"`
	Attributes map[string]string `json:"attributes"`
}

// ImagePathAttribute is the attribute key holding an object-storage key.
const ImagePathAttribute = "image_path"

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// Publish publishes a domain event for async processing
	Publish(ctx context.Context, event *DomainEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
