package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/at-ishikawa/dictionary-api/internal/auth"
	"github.com/at-ishikawa/dictionary-api/internal/dictionary"
	"github.com/at-ishikawa/dictionary-api/internal/recorder"
)

const (
	defaultPageSize = 50
	defaultPage     = 1
)

func (h *handler) root(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "Dictionary API")
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "health check failed", slog.Any("error", err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) me(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, user)
}

func (h *handler) favorites(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	entries, err := h.recorder.Favorites(r.Context(), user.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(entries))
}

func (h *handler) history(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	entries, err := h.recorder.History(r.Context(), user.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(entries))
}

type listingResponse struct {
	dictionary.ListingResult
	Cache        string `json:"x-cache"`
	ResponseTime string `json:"x-response-time"`
}

func (h *handler) listEntries(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	if !h.listings.Supports(lang) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid language"})
		return
	}

	query := r.URL.Query()
	pageSize, okSize := intParam(query.Get("limit"), defaultPageSize)
	page, okPage := intParam(query.Get("page"), defaultPage)
	if !okSize || !okPage {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid limit or page number"})
		return
	}

	result, decoration, err := h.listings.List(r.Context(), dictionary.ListingQuery{
		Language: lang,
		Search:   query.Get("search"),
		PageSize: pageSize,
		Page:     page,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeDecoration(w, decoration)
	writeJSON(w, http.StatusOK, listingResponse{
		ListingResult: result,
		Cache:         string(decoration.Status),
		ResponseTime:  decoration.ResponseTime(),
	})
}

// wordDetail records the lookup in the user's history before fetching, so a
// provider failure still leaves a history entry.
func (h *handler) wordDetail(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	word := strings.ToLower(chi.URLParam(r, "word"))

	if err := h.recorder.RecordLookup(r.Context(), user.ID, word); err != nil {
		h.writeError(w, r, err)
		return
	}

	doc, decoration, err := h.lookups.Lookup(r.Context(), word)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeDecoration(w, decoration)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (h *handler) favorite(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	if err := h.recorder.Favorite(r.Context(), user.ID, chi.URLParam(r, "lang"), chi.URLParam(r, "word")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Word favorited successfully")
}

func (h *handler) unfavorite(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	if err := h.recorder.Unfavorite(r.Context(), user.ID, chi.URLParam(r, "lang"), chi.URLParam(r, "word")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Word unfavorited successfully")
}

// intParam parses value, falling back to def when the parameter is absent.
func intParam(value string, def int) (int, bool) {
	if value == "" {
		return def, true
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}

func nonNil(entries []recorder.Entry) []recorder.Entry {
	if entries == nil {
		return []recorder.Entry{}
	}
	return entries
}
