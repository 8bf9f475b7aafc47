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

// VerifyHandler re-checks a session's payment status with the provider and
// returns signed download links.
//
// POST /v1/checkout/verify with {"sessionId": ...} responds
// {"verified": true, "downloads": [...]}.
type VerifyHandler struct {
	FulfillmentService *service.FulfillmentService
}

type verifyRequest struct {
	SessionID string `json:"sessionId"`
}

type verifyResponse struct {
	Verified  bool              `json:"verified"`
	Downloads []domain.Download `json:"downloads"`
}

func (h *VerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req verifyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	downloads, err := h.FulfillmentService.VerifySession(ctx, req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotPaid):
			httpx.WriteError(w, http.StatusForbidden, "payment not confirmed")
		case errors.Is(err, domain.ErrBadItemEncoding):
			log.Error("session metadata undecodable", "session_id", req.SessionID, "error", err)
			httpx.WriteError(w, http.StatusBadRequest, "invalid session")
		default:
			log.Error("session verification failed", "session_id", req.SessionID, "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, verifyResponse{Verified: true, Downloads: downloads})
}
