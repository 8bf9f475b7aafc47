package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/fixthevuln/backend/internal/store/assets"
	"github.com/fixthevuln/backend/internal/store/domain"
	"github.com/fixthevuln/backend/internal/store/email"
	"github.com/fixthevuln/backend/internal/store/payment"
	"github.com/fixthevuln/backend/internal/store/service"
	"github.com/fixthevuln/backend/internal/store/store"
	"github.com/fixthevuln/backend/pkg/signx"
	"github.com/stretchr/testify/require"
)

var (
	tokenSecret   = []byte("handler-test-token-secret")
	webhookSecret = []byte("handler-test-webhook-secret")
)

type fakeProvider struct {
	created  payment.Session
	sessions map[string]payment.Session
}

func (f *fakeProvider) CreateSession(context.Context, payment.SessionRequest) (payment.Session, error) {
	return f.created, nil
}

func (f *fakeProvider) GetSession(_ context.Context, id string) (payment.Session, error) {
	sess, ok := f.sessions[id]
	if !ok {
		return payment.Session{}, errors.New("no such session")
	}
	return sess, nil
}

type fakeAssets struct {
	files map[string]string
}

func (f *fakeAssets) Open(_ context.Context, filename string) (io.ReadCloser, error) {
	content, ok := f.files[filename]
	if !ok {
		return nil, assets.ErrNotFound
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

type fakeStore struct {
	pingErr error
	events  fakeEvents
	orders  fakeOrders
}

func (f *fakeStore) WebhookEvents() store.WebhookEvents { return &f.events }
func (f *fakeStore) Orders() store.Orders               { return &f.orders }
func (f *fakeStore) ApplyMigrations() error             { return nil }
func (f *fakeStore) Ping(context.Context) error         { return f.pingErr }
func (f *fakeStore) Close() error                       { return nil }

type fakeEvents struct {
	seen map[string]bool
}

func (f *fakeEvents) MarkProcessed(_ context.Context, ev domain.WebhookEvent) (bool, error) {
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[ev.EventID] {
		return false, nil
	}
	f.seen[ev.EventID] = true
	return true, nil
}

func (f *fakeEvents) GetByID(context.Context, string) (domain.WebhookEvent, error) {
	return domain.WebhookEvent{}, store.ErrNotFound
}

func (f *fakeEvents) DeleteOlderThan(context.Context, int64) (int64, error) { return 0, nil }

type fakeOrders struct {
	orders []domain.Order
}

func (f *fakeOrders) CreateOrder(_ context.Context, o domain.Order) error {
	f.orders = append(f.orders, o)
	return nil
}

func (f *fakeOrders) GetOrderBySessionID(context.Context, string) (domain.Order, error) {
	return domain.Order{}, store.ErrNotFound
}

type fakeSender struct{}

func (fakeSender) Send(context.Context, email.Message) error { return nil }

type routerFixture struct {
	router   *Router
	provider *fakeProvider
	assets   *fakeAssets
	store    *fakeStore
	now      time.Time
}

func newFixture(t *testing.T) *routerFixture {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	provider := &fakeProvider{sessions: map[string]payment.Session{}}
	as := &fakeAssets{files: map[string]string{}}
	st := &fakeStore{}

	fulfillment := &service.FulfillmentService{
		Provider:        provider,
		Secret:          tokenSecret,
		DownloadBaseURL: "https://store.fixthevuln.com",
		Now:             func() time.Time { return now },
	}

	r := NewRouter(
		"test",
		[]string{"https://fixthevuln.com", "http://localhost:8788"},
		st,
		as,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	r.CheckoutService = &service.CheckoutService{
		Catalog:    &service.CatalogService{},
		Provider:   provider,
		SuccessURL: "https://fixthevuln.com/store/success",
		CancelURL:  "https://fixthevuln.com/store",
	}
	r.FulfillmentService = fulfillment
	r.WebhookService = &service.WebhookService{
		Signing:       webhookSecret,
		Fulfillment:   fulfillment,
		Events:        &st.events,
		Orders:        &st.orders,
		Sender:        fakeSender{},
		NotifyAddress: "sales@fixthevuln.com",
		Now:           func() time.Time { return now },
	}
	r.QuizService = &service.QuizService{
		Pool: &domain.QuizPool{
			Domains: []domain.QuizDomain{{Key: "1", Name: "General", Weight: 100}},
			Questions: []domain.Question{
				{ID: "q1", Domain: "1", Difficulty: "easy", Prompt: "?", Options: []string{"a", "b"}, Answer: 0},
				{ID: "q2", Domain: "1", Difficulty: "hard", Prompt: "?", Options: []string{"a", "b"}, Answer: 1},
				{ID: "q3", Domain: "1", Difficulty: "easy", Prompt: "?", Options: []string{"a", "b"}, Answer: 0},
			},
		},
		Rand: rand.New(rand.NewSource(1)),
	}
	r.ApplyRoutes()

	return &routerFixture{router: r, provider: provider, assets: as, store: st, now: now}
}

func (f *routerFixture) do(method, target string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	req.RemoteAddr = "203.0.113.7:1234"
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestCheckoutEndpoint(t *testing.T) {
	f := newFixture(t)
	f.provider.created = payment.Session{ID: "cs_1", URL: "https://checkout.test/cs_1"}

	t.Run("valid cart", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/v1/checkout",
			`{"items": [{"productId": "comptia-security-plus", "variant": "standard"}]}`)
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"sessionId": "cs_1", "url": "https://checkout.test/cs_1"}`, rec.Body.String())
	})

	t.Run("unknown product", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/v1/checkout",
			`{"items": [{"productId": "nope", "variant": "standard"}]}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotContains(t, rec.Body.String(), "nope", "error must not echo client input")
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/v1/checkout", `{"items": `)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty cart", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/v1/checkout", `{"items": []}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestVerifyEndpoint(t *testing.T) {
	f := newFixture(t)
	f.provider.sessions["cs_paid"] = payment.Session{
		ID:       "cs_paid",
		Created:  f.now.Add(-time.Hour),
		Paid:     true,
		Metadata: map[string]string{"items": "comptia-security-plus:standard"},
	}
	unpaid := f.provider.sessions["cs_paid"]
	unpaid.ID = "cs_unpaid"
	unpaid.Paid = false
	f.provider.sessions["cs_unpaid"] = unpaid

	t.Run("paid session", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/v1/checkout/verify", `{"sessionId": "cs_paid"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"verified":true`)
		require.Contains(t, rec.Body.String(), "comptia-security-plus_study_planner.pdf")
	})

	t.Run("unpaid session", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/v1/checkout/verify", `{"sessionId": "cs_unpaid"}`)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing session id", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/v1/checkout/verify", `{}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDownloadEndpoint(t *testing.T) {
	f := newFixture(t)
	f.assets.files["comptia-security-plus_study_planner.pdf"] = "%PDF-1.7 planner"

	created := f.now.Add(-time.Hour)
	downloads, err := f.router.FulfillmentService.BuildDownloads("cs_dl",
		[]domain.CartItem{{ProductID: "comptia-security-plus", Variant: domain.VariantStandard}}, created)
	require.NoError(t, err)
	dlURL, err := url.Parse(downloads[0].URL)
	require.NoError(t, err)
	token := dlURL.Query().Get("token")

	t.Run("owned file streams", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/v1/download?token="+url.QueryEscape(token)+
			"&file=comptia-security-plus_study_planner.pdf", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		require.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
		require.Equal(t, "%PDF-1.7 planner", rec.Body.String())
	})

	t.Run("file outside the purchase", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/v1/download?token="+url.QueryEscape(token)+
			"&file=comptia-network-plus_study_planner.pdf", "")
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/v1/download?token=bogus&file=comptia-security-plus_study_planner.pdf", "")
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing parameters", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/v1/download", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("file absent from storage", func(t *testing.T) {
		gone, err := f.router.FulfillmentService.BuildDownloads("cs_gone",
			[]domain.CartItem{{ProductID: "isc2-cc", Variant: domain.VariantStandard}}, created)
		require.NoError(t, err)
		goneURL, err := url.Parse(gone[0].URL)
		require.NoError(t, err)

		rec := f.do(http.MethodGet, "/v1/download?token="+url.QueryEscape(goneURL.Query().Get("token"))+
			"&file=isc2-cc_study_planner.pdf", "")
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "support@fixthevuln.com")
	})
}

func TestWebhookEndpoint(t *testing.T) {
	f := newFixture(t)

	body := `{"id": "evt_1", "type": "checkout.session.completed", "data": {"object": {` +
		`"id": "cs_wh", "created": ` + "1772366400" + `, "amount_total": 999, ` +
		`"customer_details": {"email": "buyer@example.com"}, ` +
		`"metadata": {"items": "comptia-security-plus:standard"}}}}`

	t.Run("valid signature", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/webhook/stripe", strings.NewReader(body))
		req.Header.Set("Stripe-Signature", signx.SignWebhook([]byte(body), webhookSecret, f.now))
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"received": true}`, rec.Body.String())
		require.Len(t, f.store.orders.orders, 1)
	})

	t.Run("invalid signature", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/webhook/stripe", strings.NewReader(body))
		req.Header.Set("Stripe-Signature", signx.SignWebhook([]byte(body), []byte("wrong"), f.now))
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing signature header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/webhook/stripe", strings.NewReader(body))
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestQuizEndpoint(t *testing.T) {
	f := newFixture(t)

	t.Run("defaults", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/v1/quiz/sample", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"questions"`)
	})

	t.Run("count applied", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/v1/quiz/sample?domain=1&difficulty=easy&count=1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 1, strings.Count(rec.Body.String(), `"id"`))
	})

	t.Run("bad count", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/v1/quiz/sample?count=zero", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCORSHeaders(t *testing.T) {
	f := newFixture(t)

	t.Run("allowed origin echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/livez", nil)
		req.Header.Set("Origin", "http://localhost:8788")
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		require.Equal(t, "http://localhost:8788", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin gets fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/livez", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		require.Equal(t, "https://fixthevuln.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight answered", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/v1/checkout", nil)
		req.Header.Set("Origin", "https://fixthevuln.com")
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestHealthEndpoints(t *testing.T) {
	f := newFixture(t)

	t.Run("livez", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/livez", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"status":"ok"`)
	})

	t.Run("readyz ok", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/readyz", "")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("readyz degraded", func(t *testing.T) {
		f.store.pingErr = errors.New("database is locked")
		defer func() { f.store.pingErr = nil }()

		rec := f.do(http.MethodGet, "/readyz", "")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.Contains(t, rec.Body.String(), "degraded")
	})
}
