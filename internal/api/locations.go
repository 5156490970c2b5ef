package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/erazemk/binventory/internal/config"
	"github.com/erazemk/binventory/internal/db"
	"github.com/erazemk/binventory/internal/store"
)

// LocationsHandler serves the area, container, bin and tag browse views.
type LocationsHandler struct {
	DB     *db.DB
	Search config.SearchConfig
	Logger *zap.Logger
}

// ListAreas handles GET /api/areas.
func (h *LocationsHandler) ListAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := store.ListAreas(r.Context(), h.DB)
	if err != nil {
		storeError(w, h.Logger, err, "failed to list areas")
		return
	}
	jsonResponse(w, http.StatusOK, areas)
}

// GetArea handles GET /api/areas/{area}.
func (h *LocationsHandler) GetArea(w http.ResponseWriter, r *http.Request) {
	area, err := store.GetArea(r.Context(), h.DB, pathParam(r, "area"), h.Search.PreviewSize)
	if err != nil {
		storeError(w, h.Logger, err, "failed to get area")
		return
	}
	jsonResponse(w, http.StatusOK, area)
}

// ListContainers handles GET /api/containers?area=.
func (h *LocationsHandler) ListContainers(w http.ResponseWriter, r *http.Request) {
	containers, err := store.ListContainers(r.Context(), h.DB, r.URL.Query().Get("area"))
	if err != nil {
		storeError(w, h.Logger, err, "failed to list containers")
		return
	}
	jsonResponse(w, http.StatusOK, containers)
}

// GetContainer handles GET /api/containers/{container}?area=.
func (h *LocationsHandler) GetContainer(w http.ResponseWriter, r *http.Request) {
	container, err := store.GetContainer(r.Context(), h.DB,
		r.URL.Query().Get("area"), pathParam(r, "container"), h.Search.PreviewSize,
	)
	if err != nil {
		storeError(w, h.Logger, err, "failed to get container")
		return
	}
	jsonResponse(w, http.StatusOK, container)
}

// ListBins handles GET /api/bins?area=&container=.
func (h *LocationsHandler) ListBins(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bins, err := store.ListBins(r.Context(), h.DB, q.Get("area"), q.Get("container"))
	if err != nil {
		storeError(w, h.Logger, err, "failed to list bins")
		return
	}
	jsonResponse(w, http.StatusOK, bins)
}

// GetBin handles GET /api/bins/{bin}?area=&container=.
func (h *LocationsHandler) GetBin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bin, err := store.GetBin(r.Context(), h.DB, q.Get("area"), q.Get("container"), pathParam(r, "bin"))
	if err != nil {
		storeError(w, h.Logger, err, "failed to get bin")
		return
	}
	jsonResponse(w, http.StatusOK, bin)
}

// ListTags handles GET /api/tags.
func (h *LocationsHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := store.ListTags(r.Context(), h.DB)
	if err != nil {
		storeError(w, h.Logger, err, "failed to list tags")
		return
	}
	jsonResponse(w, http.StatusOK, tags)
}

// GetTag handles GET /api/tags/{tag}.
func (h *LocationsHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	tag, err := store.GetTag(r.Context(), h.DB, pathParam(r, "tag"), h.Search.TagPreviewSize)
	if err != nil {
		storeError(w, h.Logger, err, "failed to get tag")
		return
	}
	jsonResponse(w, http.StatusOK, tag)
}
