package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fixthevuln/backend/internal/store/domain"
	"github.com/fixthevuln/backend/internal/store/payment"
	"github.com/fixthevuln/backend/pkg/slogx"
)

var (
	ErrEmptyCart    = errors.New("empty_cart")
	ErrTooManyItems = errors.New("too_many_items")
)

// CheckoutService builds payment sessions from validated carts.
type CheckoutService struct {
	Catalog  *CatalogService
	Provider payment.Provider

	SuccessURL string
	CancelURL  string
}

// CreateSession validates every cart item through the catalog, then creates a
// provider checkout session with server-derived prices. Any validation
// failure aborts the whole request; there is no partial checkout. The
// session's metadata carries the compact encoding of the raw (pre-expansion)
// cart, which verify and fulfillment decode later.
func (s *CheckoutService) CreateSession(ctx context.Context, items []domain.CartItem) (payment.Session, error) {
	if len(items) == 0 {
		return payment.Session{}, ErrEmptyCart
	}
	if len(items) > domain.MaxCartItems {
		return payment.Session{}, ErrTooManyItems
	}

	lineItems := make([]payment.LineItem, 0, len(items))
	for _, it := range items {
		priced, err := s.Catalog.PriceLineItem(it.ProductID, it.Variant)
		if err != nil {
			return payment.Session{}, fmt.Errorf("item %q: %w", it.ProductID, err)
		}
		lineItems = append(lineItems, payment.LineItem{
			Name:       priced.Name,
			UnitAmount: priced.UnitAmount,
			Quantity:   1,
		})
	}

	sess, err := s.Provider.CreateSession(ctx, payment.SessionRequest{
		LineItems:  lineItems,
		Metadata:   map[string]string{"items": domain.EncodeItems(items)},
		SuccessURL: s.SuccessURL,
		CancelURL:  s.CancelURL,
	})
	if err != nil {
		return payment.Session{}, err
	}

	slogx.FromContext(ctx).Info("checkout session created",
		"session_id", sess.ID, "items", len(items))
	return sess, nil
}
