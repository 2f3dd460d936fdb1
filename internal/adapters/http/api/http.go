// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/agrofair/portal/internal/adapters/narrative"
	"github.com/agrofair/portal/internal/adapters/render"
	"github.com/agrofair/portal/internal/domain/aggregate"
	"github.com/agrofair/portal/internal/domain/model"
	"github.com/agrofair/portal/internal/domain/projection"
	"github.com/agrofair/portal/internal/export"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Record operations expose the exhibitor registry.
	ListExhibitors(ctx context.Context) ([]model.Exhibitor, error)
	CreateExhibitor(ctx context.Context, ex model.Exhibitor) (model.Exhibitor, error)
	UpdateExhibitor(ctx context.Context, ex model.Exhibitor) (model.Exhibitor, error)
	DeleteExhibitor(ctx context.Context, id string) error

	// Gallery operations expose the photo wall.
	ListPhotos(ctx context.Context) ([]model.GalleryPhoto, error)
	AddPhoto(ctx context.Context, photo model.GalleryPhoto) (model.GalleryPhoto, error)
	DeletePhoto(ctx context.Context, id string) error

	// Read operations derive dashboard data.
	Stats(ctx context.Context) (aggregate.Stats, error)
	Projection(ctx context.Context) (projection.Projection, error)

	// Export operations drive the report pipeline.
	TriggerExport(ctx context.Context) error
	ExportState() export.State
	LastExportResult() *export.Result
	LastNarrative() *narrative.Report
	ViewMode() render.ViewMode
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	projectionHandler *ProjectionHandler
	exhibitorsHandler *ExhibitorsHandler
	galleryHandler    *GalleryHandler
	exportHandler     *ExportHandler
	dashboardHandler  *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(deps),
		projectionHandler: NewProjectionHandler(deps),
		exhibitorsHandler: NewExhibitorsHandler(deps),
		galleryHandler:    NewGalleryHandler(deps),
		exportHandler:     NewExportHandler(deps),
		dashboardHandler:  newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/projection", MetricsMiddleware(s.projectionHandler.HandleProjection, "projection"))
	mux.HandleFunc("/exhibitors", MetricsMiddleware(s.exhibitorsHandler.HandleExhibitors, "exhibitors"))
	mux.HandleFunc("/exhibitors/", MetricsMiddleware(s.exhibitorsHandler.HandleExhibitorByID, "exhibitors"))
	mux.HandleFunc("/photos", MetricsMiddleware(s.galleryHandler.HandlePhotos, "photos"))
	mux.HandleFunc("/photos/", MetricsMiddleware(s.galleryHandler.HandlePhotoByID, "photos"))
	mux.HandleFunc("/export", MetricsMiddleware(s.exportHandler.HandleExport, "export"))
}

// exhibitorRequest mirrors the JSON body for POST and PUT /exhibitors.
type exhibitorRequest struct {
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Products       string  `json:"products"`
	City           string  `json:"city"`
	BusinessVolume float64 `json:"business_volume"`
	Visitors       int     `json:"visitors"`
}

func (e exhibitorRequest) validate() error {
	switch {
	case strings.TrimSpace(e.Name) == "":
		return errors.New("missing name")
	case strings.TrimSpace(e.City) == "":
		return errors.New("missing city")
	case e.BusinessVolume < 0:
		return errors.New("business_volume must be non-negative")
	case e.Visitors < 0:
		return errors.New("visitors must be non-negative")
	}
	if !model.Category(e.Category).Valid() {
		return errors.New("unknown category")
	}
	return nil
}

func (e exhibitorRequest) toModel(id string) model.Exhibitor {
	return model.Exhibitor{
		ID:             id,
		Name:           strings.TrimSpace(e.Name),
		Category:       model.Category(e.Category),
		Products:       e.Products,
		City:           strings.TrimSpace(e.City),
		BusinessVolume: e.BusinessVolume,
		Visitors:       e.Visitors,
	}
}

// exhibitorResponse is the read shape for exhibitor records.
type exhibitorResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Products       string  `json:"products"`
	City           string  `json:"city"`
	BusinessVolume float64 `json:"business_volume"`
	Visitors       int     `json:"visitors"`
}

func toExhibitorResponse(ex model.Exhibitor) exhibitorResponse {
	return exhibitorResponse{
		ID:             ex.ID,
		Name:           ex.Name,
		Category:       string(ex.Category),
		Products:       ex.Products,
		City:           ex.City,
		BusinessVolume: ex.BusinessVolume,
		Visitors:       ex.Visitors,
	}
}

// photoRequest mirrors the JSON body for POST /photos.
type photoRequest struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Date     string `json:"date"`
}

func (p photoRequest) validate() error {
	if strings.TrimSpace(p.URL) == "" {
		return errors.New("missing url")
	}
	return nil
}

// photoResponse is the read shape for gallery photos.
type photoResponse struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Date     string `json:"date"`
}

func toPhotoResponse(p model.GalleryPhoto) photoResponse {
	return photoResponse{
		ID:       p.ID,
		URL:      p.URL,
		Title:    p.Title,
		Category: p.Category,
		Date:     p.Date,
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
