// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/agrofair/portal/internal/adapters/narrative"
	"github.com/agrofair/portal/internal/adapters/render"
	"github.com/agrofair/portal/internal/adapters/repository"
	"github.com/agrofair/portal/internal/domain/aggregate"
	"github.com/agrofair/portal/internal/domain/model"
	"github.com/agrofair/portal/internal/domain/projection"
	"github.com/agrofair/portal/internal/export"
	"github.com/agrofair/portal/pkg/logger"
	"github.com/agrofair/portal/pkg/metrics"
)

// defaultPollInterval matches the original UI's refresh cadence.
const defaultPollInterval = 5 * time.Second

// Service implements the API dependencies for the fair portal.
type Service struct {
	mu sync.RWMutex

	// Core components
	store        repository.Store
	provider     narrative.Provider
	view         render.View
	rasterizer   render.Rasterizer
	sink         render.Sink
	orchestrator *export.Orchestrator

	// Configuration
	pollInterval      time.Duration
	exportStepTimeout time.Duration

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the record store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithNarrativeProvider sets the report narrative provider.
func WithNarrativeProvider(provider narrative.Provider) Option {
	return func(s *Service) {
		if provider != nil {
			s.provider = provider
		}
	}
}

// WithView sets the report view.
func WithView(view render.View) Option {
	return func(s *Service) {
		if view != nil {
			s.view = view
		}
	}
}

// WithRasterizer sets the document rasterizer.
func WithRasterizer(rasterizer render.Rasterizer) Option {
	return func(s *Service) {
		if rasterizer != nil {
			s.rasterizer = rasterizer
		}
	}
}

// WithSink sets the artifact sink.
func WithSink(sink render.Sink) Option {
	return func(s *Service) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithPollInterval sets the stats poller cadence.
func WithPollInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.pollInterval = interval
		}
	}
}

// WithExportStepTimeout bounds each external export call.
func WithExportStepTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.exportStepTimeout = timeout
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		pollInterval: defaultPollInterval,
		stopCh:       make(chan struct{}),
		logger:       nil, // resolved in Start
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting portal service...")

	if s.store == nil {
		s.store = repository.NewMemoryStore()
		s.logger.Info(ctx, "using in-memory record store")
	}
	if s.provider == nil {
		s.provider = narrative.NewStaticProvider()
	}
	if s.view == nil {
		view, err := render.NewHTMLView()
		if err != nil {
			return err
		}
		s.view = view
	}
	if s.rasterizer == nil {
		s.rasterizer = render.NewUnavailableRasterizer()
		s.logger.Warn(ctx, "no rasterizer configured; report export will fail until one is wired")
	}
	if s.sink == nil {
		s.sink = render.NewDirSink("exports")
	}

	s.orchestrator = export.New(s.store, s.provider, s.view, s.rasterizer, s.sink,
		export.WithStepTimeout(s.exportStepTimeout),
		export.WithLogger(s.logger.Named("export")),
	)

	go s.pollStats()

	s.started = true
	s.logger.Info(ctx, "portal service started",
		logger.Int("pollIntervalMs", int(s.pollInterval.Milliseconds())),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping portal service...")

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	if s.store != nil {
		_ = s.store.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "portal service stopped")
}

// pollStats periodically refreshes the business gauges. This polling
// loop is the system's only "real-time" mechanism.
func (s *Service) pollStats() {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.pollInterval)
			s.refreshGauges(ctx)
			cancel()
		}
	}
}

func (s *Service) refreshGauges(ctx context.Context) {
	records, err := s.store.ListExhibitors(ctx)
	if err != nil {
		s.logger.Warn(ctx, "stats poll failed", logger.Error(err))
		return
	}
	stats := aggregate.Compute(records)
	metrics.UpdateTotalVolume(stats.TotalVolume)
	metrics.UpdateTotalVisitors(stats.TotalVisitors)
	metrics.UpdateTotalExhibitors(stats.ExhibitorCount)

	photos, err := s.store.ListPhotos(ctx)
	if err != nil {
		s.logger.Warn(ctx, "photo poll failed", logger.Error(err))
		return
	}
	metrics.UpdateGalleryPhotos(len(photos))
}

// ListExhibitors returns all exhibitor records.
func (s *Service) ListExhibitors(ctx context.Context) ([]model.Exhibitor, error) {
	return s.store.ListExhibitors(ctx)
}

// CreateExhibitor inserts a record; the store assigns the identifier.
func (s *Service) CreateExhibitor(ctx context.Context, ex model.Exhibitor) (model.Exhibitor, error) {
	return s.store.CreateExhibitor(ctx, ex)
}

// UpdateExhibitor replaces the record with ex.ID.
func (s *Service) UpdateExhibitor(ctx context.Context, ex model.Exhibitor) (model.Exhibitor, error) {
	return s.store.UpdateExhibitor(ctx, ex)
}

// DeleteExhibitor removes the record with id.
func (s *Service) DeleteExhibitor(ctx context.Context, id string) error {
	return s.store.DeleteExhibitor(ctx, id)
}

// ListPhotos returns gallery photos newest first.
func (s *Service) ListPhotos(ctx context.Context) ([]model.GalleryPhoto, error) {
	return s.store.ListPhotos(ctx)
}

// AddPhoto inserts a gallery photo.
func (s *Service) AddPhoto(ctx context.Context, photo model.GalleryPhoto) (model.GalleryPhoto, error) {
	return s.store.AddPhoto(ctx, photo)
}

// DeletePhoto removes the photo with id.
func (s *Service) DeletePhoto(ctx context.Context, id string) error {
	return s.store.DeletePhoto(ctx, id)
}

// Stats recomputes the aggregate from the current records. There is no
// cache: every read derives from scratch, so staleness cannot occur.
func (s *Service) Stats(ctx context.Context) (aggregate.Stats, error) {
	records, err := s.store.ListExhibitors(ctx)
	if err != nil {
		return aggregate.Stats{}, err
	}
	return aggregate.Compute(records), nil
}

// Projection derives the next-edition forecast from current stats.
func (s *Service) Projection(ctx context.Context) (projection.Projection, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return projection.Projection{}, err
	}
	return projection.Project(stats), nil
}

// TriggerExport starts an export cycle. Returns export.ErrInFlight
// while a cycle is already running.
func (s *Service) TriggerExport(ctx context.Context) error {
	return s.orchestrator.Trigger(ctx)
}

// ExportState returns the current export machine state.
func (s *Service) ExportState() export.State {
	return s.orchestrator.State()
}

// LastExportResult returns the outcome of the most recent cycle, or nil.
func (s *Service) LastExportResult() *export.Result {
	return s.orchestrator.LastResult()
}

// LastNarrative returns the retained narrative report, or nil.
func (s *Service) LastNarrative() *narrative.Report {
	return s.orchestrator.Narrative()
}

// ViewMode reports which presentation the report view is showing.
func (s *Service) ViewMode() render.ViewMode {
	return s.view.Mode()
}
