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

// ExhibitorDependencies defines the interface for exhibitor record operations.
type ExhibitorDependencies interface {
	ListExhibitors(ctx context.Context) ([]model.Exhibitor, error)
	CreateExhibitor(ctx context.Context, ex model.Exhibitor) (model.Exhibitor, error)
	UpdateExhibitor(ctx context.Context, ex model.Exhibitor) (model.Exhibitor, error)
	DeleteExhibitor(ctx context.Context, id string) error
}

// ExhibitorsHandler handles exhibitor record requests.
type ExhibitorsHandler struct {
	deps ExhibitorDependencies
}

// NewExhibitorsHandler creates a new exhibitors handler.
func NewExhibitorsHandler(deps ExhibitorDependencies) *ExhibitorsHandler {
	return &ExhibitorsHandler{deps: deps}
}

// HandleExhibitors handles GET and POST /exhibitors requests.
func (h *ExhibitorsHandler) HandleExhibitors(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *ExhibitorsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_exhibitors"
	records, err := h.deps.ListExhibitors(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	out := make([]exhibitorResponse, 0, len(records))
	for _, ex := range records {
		out = append(out, toExhibitorResponse(ex))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ExhibitorsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_exhibitor"
	var req exhibitorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	created, err := h.deps.CreateExhibitor(r.Context(), req.toModel(""))
	if err != nil {
		if errors.Is(err, repository.ErrInvalidRecord) {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, toExhibitorResponse(created))
}

// HandleExhibitorByID handles PUT and DELETE /exhibitors/{id} requests.
func (h *ExhibitorsHandler) HandleExhibitorByID(w http.ResponseWriter, r *http.Request) {
	const op = "api.exhibitor_by_id"
	id := strings.TrimPrefix(r.URL.Path, "/exhibitors/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	switch r.Method {
	case http.MethodPut:
		h.handleUpdate(w, r, id)
	case http.MethodDelete:
		h.handleDelete(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (h *ExhibitorsHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.update_exhibitor"
	var req exhibitorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	updated, err := h.deps.UpdateExhibitor(r.Context(), req.toModel(id))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
		case errors.Is(err, repository.ErrInvalidRecord):
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		}
		return
	}
	writeJSON(w, http.StatusOK, toExhibitorResponse(updated))
}

func (h *ExhibitorsHandler) handleDelete(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.delete_exhibitor"
	if err := h.deps.DeleteExhibitor(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
