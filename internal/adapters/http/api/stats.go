// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/agrofair/portal/internal/domain/aggregate"
	"github.com/agrofair/portal/internal/domain/projection"
)

// StatsDependencies defines the interface for dashboard read operations.
type StatsDependencies interface {
	Stats(ctx context.Context) (aggregate.Stats, error)
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	deps StatsDependencies
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(deps StatsDependencies) *StatsHandler {
	return &StatsHandler{deps: deps}
}

// HandleStats handles GET /stats requests. The aggregate is derived
// from the live records on every call; there is no cache to go stale.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_stats"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	stats, err := h.deps.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ProjectionDependencies defines the interface for forecast reads.
type ProjectionDependencies interface {
	Projection(ctx context.Context) (projection.Projection, error)
}

// ProjectionHandler handles next-edition forecast requests.
type ProjectionHandler struct {
	deps ProjectionDependencies
}

// NewProjectionHandler creates a new projection handler.
func NewProjectionHandler(deps ProjectionDependencies) *ProjectionHandler {
	return &ProjectionHandler{deps: deps}
}

// HandleProjection handles GET /projection requests.
func (h *ProjectionHandler) HandleProjection(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_projection"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	proj, err := h.deps.Projection(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, proj)
}
