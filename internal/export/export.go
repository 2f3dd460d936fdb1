// Package export sequences one report export cycle: generate the
// narrative, flip the view to the fixed document layout, wait for it
// to settle, rasterize, save the artifact, and restore the interactive
// view no matter how the cycle ends.
package export

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/agrofair/portal/internal/adapters/narrative"
	"github.com/agrofair/portal/internal/adapters/render"
	"github.com/agrofair/portal/internal/domain/aggregate"
	"github.com/agrofair/portal/internal/domain/model"
	"github.com/agrofair/portal/internal/domain/projection"
	"github.com/agrofair/portal/pkg/logger"
	"github.com/agrofair/portal/pkg/metrics"
)

// State names one phase of the export state machine.
type State string

// Export states. Failed is a transient exit taken on a fatal error;
// the machine always lands back on Idle so the user can retry.
const (
	StateIdle                State = "idle"
	StateGeneratingNarrative State = "generating_narrative"
	StateAwaitingLayout      State = "awaiting_layout"
	StateRendering           State = "rendering"
	StateFailed              State = "failed"
)

// Source supplies the records an export aggregates. The orchestrator
// only ever reads.
type Source interface {
	ListExhibitors(ctx context.Context) ([]model.Exhibitor, error)
}

// Result describes how the last export cycle ended.
type Result struct {
	CompletedAt       time.Time `json:"completed_at"`
	ArtifactPath      string    `json:"artifact_path,omitempty"`
	NarrativeIncluded bool      `json:"narrative_included"`
	Error             string    `json:"error,omitempty"`
}

// Orchestrator owns the export state machine. At most one cycle runs
// at a time; a second trigger while not Idle is rejected, never
// interleaved.
type Orchestrator struct {
	source     Source
	provider   narrative.Provider
	view       render.View
	rasterizer render.Rasterizer
	sink       render.Sink

	// stepTimeout bounds each external call when positive. Zero keeps
	// the historical unbounded behavior.
	stepTimeout time.Duration

	now    func() time.Time
	logger logger.Logger

	mu            sync.Mutex
	state         State
	lastResult    *Result
	lastNarrative *narrative.Report
}

// New constructs an Orchestrator. Source, provider, view, rasterizer,
// and sink are required collaborators.
func New(source Source, provider narrative.Provider, view render.View, rasterizer render.Rasterizer, sink render.Sink, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		source:     source,
		provider:   provider,
		view:       view,
		rasterizer: rasterizer,
		sink:       sink,
		now:        time.Now,
		logger:     nil, // resolved lazily so construction stays valid before logger.Init
		state:      StateIdle,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// State returns the current machine state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// LastResult returns the outcome of the most recent cycle, or nil.
func (o *Orchestrator) LastResult() *Result {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.lastResult == nil {
		return nil
	}
	res := *o.lastResult
	return &res
}

// Narrative returns the narrative retained from the most recent cycle
// that produced one, for redisplay outside the exported document.
func (o *Orchestrator) Narrative() *narrative.Report {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.lastNarrative == nil {
		return nil
	}
	rep := *o.lastNarrative
	return &rep
}

// Trigger starts an export cycle in the background. It returns
// ErrInFlight without side effects when a cycle is already running.
func (o *Orchestrator) Trigger(ctx context.Context) error {
	if err := o.acquire(); err != nil {
		return err
	}
	go o.run(context.WithoutCancel(ctx))
	return nil
}

// Export runs one cycle synchronously and returns its result. Like
// Trigger, it is rejected with ErrInFlight while a cycle is running.
func (o *Orchestrator) Export(ctx context.Context) (Result, error) {
	if err := o.acquire(); err != nil {
		return Result{}, err
	}
	return o.run(ctx), nil
}

// acquire performs the Idle -> GeneratingNarrative transition, the only
// entry into the machine.
func (o *Orchestrator) acquire() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateIdle {
		return ErrInFlight
	}
	o.state = StateGeneratingNarrative
	return nil
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

func (o *Orchestrator) log() logger.Logger {
	if o.logger == nil {
		o.logger = logger.Get().Named("export")
	}
	return o.logger
}

// run executes the cycle. The caller must have acquired the machine.
func (o *Orchestrator) run(ctx context.Context) Result {
	metrics.RecordExportStarted()
	metrics.SetExportInFlight(true)
	defer metrics.SetExportInFlight(false)

	records, err := o.source.ListExhibitors(ctx)
	if err != nil {
		return o.fail(ctx, fmt.Errorf("list records: %w", err))
	}

	stats := aggregate.Compute(records)
	data := render.ReportData{
		Stats:       stats,
		Projection:  projection.Project(stats),
		Records:     records,
		GeneratedAt: o.now(),
	}

	// Narrative generation is best-effort: a failure degrades the
	// report to numbers-only and never blocks the export.
	data.Narrative = o.generateNarrative(ctx, records, stats)

	o.setState(StateAwaitingLayout)

	// The interactive view is restored on every exit path, success or
	// failure, before the cycle reports its outcome.
	defer o.view.ExitDocumentMode()

	// EnterDocumentMode returns only once the document tree has fully
	// settled; nothing stale can reach the rasterizer.
	doc, err := o.view.EnterDocumentMode(ctx, data)
	if err != nil {
		return o.fail(ctx, err)
	}

	o.setState(StateRendering)

	if !o.rasterizer.Available(ctx) {
		return o.fail(ctx, render.ErrRasterizerUnavailable)
	}

	filename := fmt.Sprintf("Relatorio_AGROFAIR_%s.pdf", o.now().Format("2006-01-02"))
	stepCtx, cancel := o.stepContext(ctx)
	rasterStart := time.Now()
	artifact, err := o.rasterizer.Render(stepCtx, doc, render.DefaultOptions(filename))
	cancel()
	metrics.RecordRasterizationLatency(float64(time.Since(rasterStart).Milliseconds()))
	if err != nil {
		return o.fail(ctx, err)
	}

	path, err := o.sink.Save(ctx, filename, artifact)
	if err != nil {
		return o.fail(ctx, fmt.Errorf("save artifact: %w", err))
	}

	result := Result{
		CompletedAt:       o.now(),
		ArtifactPath:      path,
		NarrativeIncluded: data.Narrative != nil,
	}

	o.mu.Lock()
	o.lastResult = &result
	o.state = StateIdle
	o.mu.Unlock()

	metrics.RecordExportCompleted()
	o.log().Info(ctx, "export completed",
		logger.String("artifact", path),
		logger.Int("records", len(records)),
	)
	return result
}

// generateNarrative invokes the provider and retains the report for
// redisplay. It returns nil on failure.
func (o *Orchestrator) generateNarrative(ctx context.Context, records []model.Exhibitor, stats aggregate.Stats) *narrative.Report {
	stepCtx, cancel := o.stepContext(ctx)
	defer cancel()

	start := time.Now()
	report, err := o.provider.Generate(stepCtx, records, narrative.Totals{
		TotalVolume:   stats.TotalVolume,
		TotalVisitors: stats.TotalVisitors,
	})
	metrics.RecordNarrativeLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordNarrativeFailure()
		o.log().Warn(ctx, "narrative generation failed, exporting without narrative", logger.Error(err))
		return nil
	}

	o.mu.Lock()
	o.lastNarrative = &report
	o.mu.Unlock()
	return &report
}

// fail records a fatal cycle outcome and returns the machine to Idle.
func (o *Orchestrator) fail(ctx context.Context, err error) Result {
	result := Result{
		CompletedAt: o.now(),
		Error:       err.Error(),
	}

	o.setState(StateFailed)
	metrics.RecordExportFailed()
	o.log().Error(ctx, "export failed", logger.Error(err))

	o.mu.Lock()
	o.lastResult = &result
	o.state = StateIdle
	o.mu.Unlock()
	return result
}

// stepContext bounds one external call when a step timeout is set.
func (o *Orchestrator) stepContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.stepTimeout > 0 {
		return context.WithTimeout(ctx, o.stepTimeout)
	}
	return context.WithCancel(ctx)
}
