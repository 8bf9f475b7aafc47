package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fixthevuln/backend/internal/store/domain"
	"github.com/fixthevuln/backend/internal/store/service"
	"github.com/fixthevuln/backend/pkg/httpx"
	"github.com/fixthevuln/backend/pkg/slogx"
)

// maxBodyBytes caps JSON request bodies; carts and session ids are tiny.
const maxBodyBytes = 64 << 10

// CheckoutHandler creates a payment session for a validated cart.
//
// POST /v1/checkout with {"items": [{"productId": ..., "variant": ...}]}
// responds {"sessionId": ..., "url": ...}.
type CheckoutHandler struct {
	CheckoutService *service.CheckoutService
}

type checkoutRequest struct {
	Items []domain.CartItem `json:"items"`
}

type checkoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req checkoutRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.CheckoutService.CreateSession(ctx, req.Items)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart),
			errors.Is(err, service.ErrTooManyItems),
			errors.Is(err, service.ErrUnknownProduct),
			errors.Is(err, service.ErrUnknownVariant):
			// Generic message: never echo cart contents back into the error.
			httpx.WriteError(w, http.StatusBadRequest, "invalid cart")
		default:
			log.Error("checkout session creation failed", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, checkoutResponse{SessionID: sess.ID, URL: sess.URL})
}
