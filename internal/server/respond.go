package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/at-ishikawa/dictionary-api/internal/apperr"
	"github.com/at-ishikawa/dictionary-api/internal/cache"
)

const internalServerError = "Internal server error"

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeDecoration(w http.ResponseWriter, d cache.Decoration) {
	w.Header().Set("X-Cache", string(d.Status))
	w.Header().Set("X-Response-Time", d.ResponseTime())
}

// writeError maps an error kind to its HTTP status. Errors without a kind are
// logged and reported as a generic 500.
func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, apperr.ErrInvalidArgument), errors.Is(err, apperr.ErrConflict):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrUpstreamUnavailable):
		h.logger.WarnContext(r.Context(), "word data provider failed", slog.Any("error", err))
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": apperr.Message(err, internalServerError)})
		return
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": internalServerError})
		return
	}
	writeJSON(w, status, map[string]string{"error": apperr.Message(err, http.StatusText(status))})
}
