package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/fixthevuln/backend/internal/store/assets"
	"github.com/fixthevuln/backend/internal/store/service"
	"github.com/fixthevuln/backend/pkg/httpx"
	"github.com/fixthevuln/backend/pkg/slogx"
)

// DownloadHandler streams a purchased file to a valid token holder.
//
// GET /v1/download?token=...&file=... responds with the binary content as an
// attachment. Errors are plain text: this endpoint is opened directly in the
// browser, not consumed by the cart script.
type DownloadHandler struct {
	FulfillmentService *service.FulfillmentService
	Assets             assets.Store
}

func (h *DownloadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := r.URL.Query().Get("token")
	file := r.URL.Query().Get("file")
	if token == "" || file == "" {
		writePlainError(w, http.StatusBadRequest, "Missing token or file parameter.")
		return
	}

	claims, err := h.FulfillmentService.VerifyToken(token)
	if err != nil {
		if errors.Is(err, service.ErrTokenExpired) {
			writePlainError(w, http.StatusForbidden, "This download link has expired. Links are valid for 24 hours from purchase.")
			return
		}
		writePlainError(w, http.StatusForbidden, "Invalid download link.")
		return
	}

	if err := h.FulfillmentService.AuthorizeFile(claims, file); err != nil {
		log.Warn("download refused", "session_id", claims.SessionID, "file", file, "error", err)
		writePlainError(w, http.StatusForbidden, "This file is not part of your purchase.")
		return
	}

	content, err := h.Assets.Open(ctx, file)
	if err != nil {
		if errors.Is(err, assets.ErrNotFound) {
			log.Error("purchased file missing from storage", "file", file)
			writePlainError(w, http.StatusNotFound, "File not found. Please contact support@fixthevuln.com with your order details.")
			return
		}
		log.Error("asset store failed", "file", file, "error", err)
		writePlainError(w, http.StatusInternalServerError, "Download failed. Please try again later.")
		return
	}
	defer content.Close()

	httpx.NoCache(w)
	w.Header().Set("Content-Type", contentTypeFor(file))
	w.Header().Set("Content-Disposition", `attachment; filename="`+file+`"`)
	if _, err := io.Copy(w, content); err != nil {
		// Headers already sent; nothing to do but log the broken stream.
		log.Warn("download stream interrupted", "file", file, "error", err)
	}
}

func contentTypeFor(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(filename, ".zip"):
		return "application/zip"
	default:
		return "application/octet-stream"
	}
}

func writePlainError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(msg))
}
