package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/fixthevuln/backend/internal/store/service"
	"github.com/fixthevuln/backend/pkg/httpx"
	"github.com/fixthevuln/backend/pkg/slogx"
)

// maxWebhookBytes caps webhook bodies; provider events are small JSON.
const maxWebhookBytes = 1 << 20

// WebhookHandler receives payment-provider event deliveries.
//
// Responds 200 {"received": true} for every authenticated delivery, even when
// fulfillment failed internally, so the provider never retries successfully
// signed events. Only a bad signature gets 401.
type WebhookHandler struct {
	WebhookService *service.WebhookService
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		log.Warn("webhook body read failed", "error", err)
		httpx.WriteError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	err = h.WebhookService.HandleEvent(ctx, body, r.Header.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidSignature) {
			httpx.WriteError(w, http.StatusUnauthorized, "invalid signature")
			return
		}
		// HandleEvent only surfaces the signature failure; anything else is a
		// programming error, but acknowledging is still the safe default.
		log.Error("webhook handling failed", "error", err)
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"received": true})
}
