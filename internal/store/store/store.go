// Package store defines the data access interface for the small amount of
// server-side state this service keeps: processed webhook deliveries (for
// exactly-once fulfillment) and fulfilled order records (for audit).
// Everything else — token validity in particular — is stateless by design.
package store

import (
	"context"
	"errors"

	"github.com/fixthevuln/backend/internal/store/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite)
// implement this.
type Store interface {
	WebhookEvents() WebhookEvents
	Orders() Orders

	ApplyMigrations() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}

type WebhookEvents interface {
	// MarkProcessed records an event delivery. It returns false (and no
	// error) if the event id was already recorded, which is how redelivered
	// events become no-ops.
	MarkProcessed(ctx context.Context, ev domain.WebhookEvent) (bool, error)

	// GetByID returns a processed event record.
	GetByID(ctx context.Context, eventID string) (domain.WebhookEvent, error)

	// DeleteOlderThan removes dedupe records past their useful life; the
	// provider's retry window is days, not months.
	DeleteOlderThan(ctx context.Context, cutoffUnix int64) (int64, error)
}

type Orders interface {
	// CreateOrder inserts a fulfilled order record (id is app-provided ULID).
	CreateOrder(ctx context.Context, o domain.Order) error

	// GetOrderBySessionID returns the order recorded for a payment session.
	GetOrderBySessionID(ctx context.Context, sessionID string) (domain.Order, error)
}
