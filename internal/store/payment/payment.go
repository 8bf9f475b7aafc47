// Package payment wraps the payment provider's checkout-session API behind
// domain-level types so services and tests never touch provider structs.
package payment

import (
	"context"
	"time"
)

// LineItem is one server-priced entry in a checkout session. Price and name
// are always derived from the catalog, never from the client.
type LineItem struct {
	Name       string
	UnitAmount int64 // minor currency units
	Quantity   int64
}

// SessionRequest describes a checkout session to create.
type SessionRequest struct {
	LineItems  []LineItem
	Metadata   map[string]string
	SuccessURL string
	CancelURL  string
}

// Session is the provider-owned checkout session, reduced to the fields this
// service reads back.
type Session struct {
	ID            string
	URL           string
	Created       time.Time
	Paid          bool
	Metadata      map[string]string
	CustomerEmail string
	AmountTotal   int64
}

// Provider is the outbound payment API surface.
type Provider interface {
	CreateSession(ctx context.Context, req SessionRequest) (Session, error)
	GetSession(ctx context.Context, id string) (Session, error)
}
