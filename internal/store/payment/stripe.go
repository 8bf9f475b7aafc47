package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

// StripeConfig holds the configuration for creating a StripeProvider.
type StripeConfig struct {
	SecretKey string
	// BaseURL overrides the Stripe API host; tests point it at httptest.
	BaseURL string
	// Currency for all line items, e.g. "usd".
	Currency string
}

// StripeProvider implements Provider against the Stripe checkout sessions API.
type StripeProvider struct {
	sessions *session.Client
	currency string
}

func NewStripeProvider(cfg StripeConfig) *StripeProvider {
	var backend stripe.Backend
	if cfg.BaseURL != "" {
		backend = stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			URL: stripe.String(cfg.BaseURL),
		})
	} else {
		backend = stripe.GetBackend(stripe.APIBackend)
	}

	currency := cfg.Currency
	if currency == "" {
		currency = "usd"
	}

	return &StripeProvider{
		sessions: &session.Client{B: backend, Key: cfg.SecretKey},
		currency: currency,
	}
}

func (p *StripeProvider) CreateSession(ctx context.Context, req SessionRequest) (Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx

	for _, li := range req.LineItems {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(li.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(p.currency),
				UnitAmount: stripe.Int64(li.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(li.Name),
				},
			},
		})
	}

	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	s, err := p.sessions.New(params)
	if err != nil {
		return Session{}, fmt.Errorf("stripe: create session: %w", err)
	}
	return fromStripeSession(s), nil
}

func (p *StripeProvider) GetSession(ctx context.Context, id string) (Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := p.sessions.Get(id, params)
	if err != nil {
		return Session{}, fmt.Errorf("stripe: get session: %w", err)
	}
	return fromStripeSession(s), nil
}

func fromStripeSession(s *stripe.CheckoutSession) Session {
	out := Session{
		ID:          s.ID,
		URL:         s.URL,
		Created:     time.Unix(s.Created, 0).UTC(),
		Paid:        s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Metadata:    s.Metadata,
		AmountTotal: s.AmountTotal,
	}
	if s.CustomerDetails != nil {
		out.CustomerEmail = s.CustomerDetails.Email
	}
	return out
}
