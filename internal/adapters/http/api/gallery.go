// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/agrofair/portal/internal/adapters/repository"
	"github.com/agrofair/portal/internal/domain/model"
)

// GalleryDependencies defines the interface for photo gallery operations.
type GalleryDependencies interface {
	ListPhotos(ctx context.Context) ([]model.GalleryPhoto, error)
	AddPhoto(ctx context.Context, photo model.GalleryPhoto) (model.GalleryPhoto, error)
	DeletePhoto(ctx context.Context, id string) error
}

// GalleryHandler handles photo gallery requests.
type GalleryHandler struct {
	deps GalleryDependencies
}

// NewGalleryHandler creates a new gallery handler.
func NewGalleryHandler(deps GalleryDependencies) *GalleryHandler {
	return &GalleryHandler{deps: deps}
}

// HandlePhotos handles GET and POST /photos requests.
func (h *GalleryHandler) HandlePhotos(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleAdd(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *GalleryHandler) handleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_photos"
	photos, err := h.deps.ListPhotos(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	out := make([]photoResponse, 0, len(photos))
	for _, p := range photos {
		out = append(out, toPhotoResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *GalleryHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_photo"
	var req photoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	created, err := h.deps.AddPhoto(r.Context(), model.GalleryPhoto{
		URL:      strings.TrimSpace(req.URL),
		Title:    req.Title,
		Category: req.Category,
		Date:     req.Date,
	})
	if err != nil {
		if errors.Is(err, repository.ErrInvalidRecord) {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, toPhotoResponse(created))
}

// HandlePhotoByID handles DELETE /photos/{id} requests.
func (h *GalleryHandler) HandlePhotoByID(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_photo"
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/photos/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if err := h.deps.DeletePhoto(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
