// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/agrofair/portal/internal/adapters/narrative"
	"github.com/agrofair/portal/internal/adapters/render"
	"github.com/agrofair/portal/internal/export"
)

// ExportDependencies defines the interface for report export operations.
type ExportDependencies interface {
	TriggerExport(ctx context.Context) error
	ExportState() export.State
	LastExportResult() *export.Result
	LastNarrative() *narrative.Report
	ViewMode() render.ViewMode
}

// ExportHandler handles report export requests.
type ExportHandler struct {
	deps ExportDependencies
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps ExportDependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

type exportAckResponse struct {
	Status string       `json:"status"`
	State  export.State `json:"state"`
}

type exportStatusResponse struct {
	State      export.State      `json:"state"`
	ViewMode   string            `json:"view_mode"`
	LastResult *export.Result    `json:"last_result,omitempty"`
	Narrative  *narrative.Report `json:"narrative,omitempty"`
}

// HandleExport handles POST /export and GET /export requests.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleTrigger(w, r)
	case http.MethodGet:
		h.handleStatus(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *ExportHandler) handleTrigger(w http.ResponseWriter, r *http.Request) {
	const op = "api.trigger_export"
	if err := h.deps.TriggerExport(r.Context()); err != nil {
		if errors.Is(err, export.ErrInFlight) {
			writeError(w, http.StatusConflict, "export_in_flight", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, exportAckResponse{
		Status: "accepted",
		State:  h.deps.ExportState(),
	})
}

func (h *ExportHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, exportStatusResponse{
		State:      h.deps.ExportState(),
		ViewMode:   string(h.deps.ViewMode()),
		LastResult: h.deps.LastExportResult(),
		Narrative:  h.deps.LastNarrative(),
	})
}
