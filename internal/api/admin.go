package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/erazemk/binventory/internal/db"
	"github.com/erazemk/binventory/internal/store"
)

// AdminHandler exposes index maintenance.
type AdminHandler struct {
	DB     *db.DB
	Logger *zap.Logger
}

type indexResponse struct {
	store.IndexStatus
	InSync bool `json:"in_sync"`
}

// IndexStatus handles GET /api/admin/index.
func (h *AdminHandler) IndexStatus(w http.ResponseWriter, r *http.Request) {
	status, err := store.VerifyIndex(r.Context(), h.DB)
	if err != nil {
		storeError(w, h.Logger, err, "failed to verify index")
		return
	}
	jsonResponse(w, http.StatusOK, indexResponse{IndexStatus: status, InSync: status.InSync()})
}

// Reindex handles POST /api/admin/reindex.
func (h *AdminHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	status, err := store.RebuildIndex(r.Context(), h.DB)
	if err != nil {
		storeError(w, h.Logger, err, "failed to rebuild index")
		return
	}

	h.Logger.Info("search index rebuilt",
		zap.Int("items", status.IndexedItems),
		zap.Int("tags", status.IndexedTags),
		zap.String("user", GetClaims(r.Context()).Username),
	)
	jsonResponse(w, http.StatusOK, indexResponse{IndexStatus: status, InSync: status.InSync()})
}
