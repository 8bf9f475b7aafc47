package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fixthevuln/backend/internal/store/domain"
	"github.com/fixthevuln/backend/internal/store/payment"
	"github.com/stretchr/testify/require"
)

// fakeProvider records the session request and plays back canned sessions.
type fakeProvider struct {
	lastCreate payment.SessionRequest
	created    payment.Session
	createErr  error

	sessions map[string]payment.Session
	getErr   error
}

func (f *fakeProvider) CreateSession(_ context.Context, req payment.SessionRequest) (payment.Session, error) {
	f.lastCreate = req
	if f.createErr != nil {
		return payment.Session{}, f.createErr
	}
	return f.created, nil
}

func (f *fakeProvider) GetSession(_ context.Context, id string) (payment.Session, error) {
	if f.getErr != nil {
		return payment.Session{}, f.getErr
	}
	sess, ok := f.sessions[id]
	if !ok {
		return payment.Session{}, errors.New("no such session")
	}
	return sess, nil
}

func newCheckoutService(p *fakeProvider) *CheckoutService {
	return &CheckoutService{
		Catalog:    &CatalogService{},
		Provider:   p,
		SuccessURL: "https://fixthevuln.com/store/success",
		CancelURL:  "https://fixthevuln.com/store",
	}
}

func TestCreateSession_ServerDerivedPrices(t *testing.T) {
	p := &fakeProvider{created: payment.Session{ID: "cs_test_1", URL: "https://checkout.test/cs_test_1"}}
	s := newCheckoutService(p)

	sess, err := s.CreateSession(context.Background(), []domain.CartItem{
		{ProductID: "comptia-security-plus", Variant: domain.VariantStandard},
		{ProductID: "cp:comptia-a-plus", Variant: domain.VariantBundle},
	})
	require.NoError(t, err)
	require.Equal(t, "cs_test_1", sess.ID)

	require.Len(t, p.lastCreate.LineItems, 2)
	require.Equal(t, domain.PlannerPrices[domain.VariantStandard], p.lastCreate.LineItems[0].UnitAmount)
	require.Equal(t, domain.CareerPathBundlePrices[2], p.lastCreate.LineItems[1].UnitAmount)

	// Total is the sum of server-derived prices, whatever the client sent
	var total int64
	for _, li := range p.lastCreate.LineItems {
		total += li.UnitAmount * li.Quantity
	}
	require.Equal(t, domain.PlannerPrices[domain.VariantStandard]+domain.CareerPathBundlePrices[2], total)

	// Metadata carries the raw, pre-expansion cart
	require.Equal(t, "comptia-security-plus:standard,cp:comptia-a-plus:bundle", p.lastCreate.Metadata["items"])
}

func TestCreateSession_NoPartialCheckout(t *testing.T) {
	p := &fakeProvider{created: payment.Session{ID: "cs_test_1"}}
	s := newCheckoutService(p)

	_, err := s.CreateSession(context.Background(), []domain.CartItem{
		{ProductID: "comptia-security-plus", Variant: domain.VariantStandard},
		{ProductID: "not-a-product", Variant: domain.VariantStandard},
	})
	require.ErrorIs(t, err, ErrUnknownProduct)
	require.Empty(t, p.lastCreate.LineItems, "provider must not be called for an invalid cart")
}

func TestCreateSession_Caps(t *testing.T) {
	s := newCheckoutService(&fakeProvider{})

	t.Run("empty cart", func(t *testing.T) {
		_, err := s.CreateSession(context.Background(), nil)
		require.ErrorIs(t, err, ErrEmptyCart)
	})

	t.Run("over the item cap", func(t *testing.T) {
		items := make([]domain.CartItem, domain.MaxCartItems+1)
		for i := range items {
			items[i] = domain.CartItem{ProductID: "comptia-security-plus", Variant: domain.VariantStandard}
		}
		_, err := s.CreateSession(context.Background(), items)
		require.ErrorIs(t, err, ErrTooManyItems)
	})

	t.Run("at the item cap", func(t *testing.T) {
		p := &fakeProvider{created: payment.Session{ID: "cs_cap"}}
		s := newCheckoutService(p)
		items := make([]domain.CartItem, domain.MaxCartItems)
		for i := range items {
			items[i] = domain.CartItem{ProductID: "comptia-security-plus", Variant: domain.VariantStandard}
		}
		_, err := s.CreateSession(context.Background(), items)
		require.NoError(t, err)
	})
}

func TestCreateSession_ProviderErrorPassesThrough(t *testing.T) {
	p := &fakeProvider{createErr: errors.New("stripe: rate limited")}
	s := newCheckoutService(p)

	_, err := s.CreateSession(context.Background(), []domain.CartItem{
		{ProductID: "isc2-cc", Variant: domain.VariantDark},
	})
	require.ErrorContains(t, err, "rate limited")
}

// paidSession is a test helper for a paid session with the given cart.
func paidSession(id string, items string, created time.Time) payment.Session {
	return payment.Session{
		ID:            id,
		Created:       created,
		Paid:          true,
		Metadata:      map[string]string{"items": items},
		CustomerEmail: "buyer@example.com",
		AmountTotal:   999,
	}
}
