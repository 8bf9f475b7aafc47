package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/fixthevuln/backend/internal/store/assets"
	"github.com/fixthevuln/backend/internal/store/service"
	"github.com/fixthevuln/backend/internal/store/store"
	"github.com/fixthevuln/backend/pkg/httpx"
	"github.com/fixthevuln/backend/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store  store.Store
	assets assets.Store

	CheckoutService    *service.CheckoutService
	FulfillmentService *service.FulfillmentService
	WebhookService     *service.WebhookService
	QuizService        *service.QuizService
}

func NewRouter(
	buildVersion string,
	allowedOrigins []string,
	st store.Store,
	as assets.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		assets:       as,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORS(allowedOrigins),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerCheckout()
	r.registerDownloads()
	r.registerWebhook()
	r.registerQuiz()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerCheckout() {
	// POST /checkout - strict rate limit (creates provider-side resources)
	checkoutHandler := &CheckoutHandler{CheckoutService: r.CheckoutService}
	r.Mux.Handle("POST /v1/checkout",
		httpx.Chain(checkoutHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /checkout/verify - strict rate limit (one provider API call each)
	verifyHandler := &VerifyHandler{FulfillmentService: r.FulfillmentService}
	r.Mux.Handle("POST /v1/checkout/verify",
		httpx.Chain(verifyHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerDownloads() {
	// GET /download - moderate rate limit (token-gated binary streaming)
	h := &DownloadHandler{
		FulfillmentService: r.FulfillmentService,
		Assets:             r.assets,
	}
	r.Mux.Handle("GET /v1/download",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerWebhook() {
	// POST /webhook/stripe - no IP rate limit: deliveries come from the
	// provider's infrastructure and are gated by the signature check instead.
	h := &WebhookHandler{WebhookService: r.WebhookService}
	r.Mux.Handle("POST /v1/webhook/stripe", h)
}

func (r *Router) registerQuiz() {
	// GET /quiz/sample - lenient rate limit (public read-only)
	h := &QuizHandler{QuizService: r.QuizService}
	r.Mux.Handle("GET /v1/quiz/sample",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
