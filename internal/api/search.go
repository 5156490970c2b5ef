package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/erazemk/binventory/internal/config"
	"github.com/erazemk/binventory/internal/db"
	"github.com/erazemk/binventory/internal/store"
)

// SearchHandler serves search helpers for the search box.
type SearchHandler struct {
	DB     *db.DB
	Search config.SearchConfig
	Logger *zap.Logger
}

// Autocomplete handles GET /api/search/autocomplete?q=&limit=.
func (h *SearchHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", h.Search.AutocompleteLimit)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	_, limit = h.Search.Page(0, limit)

	result, err := store.Autocomplete(r.Context(), h.DB, r.URL.Query().Get("q"), limit)
	if err != nil {
		storeError(w, h.Logger, err, "failed to autocomplete")
		return
	}
	jsonResponse(w, http.StatusOK, result)
}

// Suggestions handles GET /api/search/suggestions?q=&limit=. Without a
// limit the whole pool is returned.
func (h *SearchHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	suggestions, err := store.Suggestions(r.Context(), h.DB, r.URL.Query().Get("q"), limit)
	if err != nil {
		storeError(w, h.Logger, err, "failed to load suggestions")
		return
	}
	jsonResponse(w, http.StatusOK, suggestions)
}
