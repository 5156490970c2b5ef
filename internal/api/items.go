package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/erazemk/binventory/internal/config"
	"github.com/erazemk/binventory/internal/db"
	"github.com/erazemk/binventory/internal/imaging"
	"github.com/erazemk/binventory/internal/model"
	"github.com/erazemk/binventory/internal/store"
)

// maxUploadSize bounds an image upload request.
const maxUploadSize = 5 << 20

// ItemsHandler handles item CRUD and search endpoints.
type ItemsHandler struct {
	DB     *db.DB
	Search config.SearchConfig
	Images imaging.Processor
	Logger *zap.Logger
}

// List handles GET /api/items. With a search term or any filter it runs a
// search; the page is bounded by skip and limit.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid skip")
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	skip, limit = h.Search.Page(skip, limit)

	params := model.SearchParams{
		Term:        q.Get("search"),
		Area:        q.Get("area"),
		Container:   q.Get("container"),
		Bin:         q.Get("bin"),
		Tag:         q.Get("tag"),
		Skip:        skip,
		Limit:       limit,
		MaxLimit:    h.Search.MaxLimit,
		WithMatches: q.Get("matches") == "1" || q.Get("matches") == "true",
	}

	result, err := store.Search(r.Context(), h.DB, params)
	if err != nil {
		storeError(w, h.Logger, err, "failed to search items")
		return
	}
	if result.Fallback {
		h.Logger.Warn("search term is not a valid full-text query, used substring match",
			zap.String("term", params.Term))
	}
	jsonResponse(w, http.StatusOK, result)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ItemInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, req)
	if err != nil {
		storeError(w, h.Logger, err, "failed to create item")
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, h.Logger, err, "failed to get item")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{id}. Omitted fields keep their values.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req model.ItemPatch
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := store.UpdateItem(r.Context(), h.DB, id, req)
	if err != nil {
		storeError(w, h.Logger, err, "failed to update item")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := store.DeleteItem(r.Context(), h.DB, id); err != nil {
		storeError(w, h.Logger, err, "failed to delete item")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// UploadImage handles PUT /api/items/{id}/image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	photo, err := h.Images.Process(file)
	if errors.Is(err, imaging.ErrUnsupported) {
		jsonError(w, http.StatusBadRequest, "image must be JPEG, PNG, or WebP")
		return
	}
	if err != nil {
		h.Logger.Warn("processing image", zap.Int64("item", id), zap.Error(err))
		jsonError(w, http.StatusBadRequest, "invalid image")
		return
	}

	if err := store.SetItemImage(r.Context(), h.DB, id, photo.Data, photo.MIME); err != nil {
		storeError(w, h.Logger, err, "failed to save image")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	data, mime, err := store.GetItemImage(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, h.Logger, err, "failed to get image")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}
