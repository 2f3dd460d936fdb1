// Package render owns the two presentations of the aggregated data:
// the interactive view served to the UI and the fixed-layout document
// tree used for export. Both derive from the same ReportData, which is
// what keeps them numerically consistent.
package render

import (
	"context"
	"time"

	"github.com/agrofair/portal/internal/adapters/narrative"
	"github.com/agrofair/portal/internal/domain/aggregate"
	"github.com/agrofair/portal/internal/domain/model"
	"github.com/agrofair/portal/internal/domain/projection"
)

// ViewMode is the rendering state of the report view.
type ViewMode string

// View modes.
const (
	ModeInteractive ViewMode = "interactive"
	ModeDocument    ViewMode = "document"
)

// ReportData is everything one report rendering consumes. It is
// assembled once per export cycle so the document cannot mix data from
// two aggregation passes.
type ReportData struct {
	Stats      aggregate.Stats
	Projection projection.Projection
	Records    []model.Exhibitor

	// Narrative is nil when generation failed or was skipped; the
	// document then omits the narrative section.
	Narrative *narrative.Report

	GeneratedAt time.Time
}

// Document is a fully laid-out report document ready for rasterization.
type Document struct {
	HTML []byte

	// WidthPX is the fixed page width the document was laid out for.
	WidthPX int
}

// View is the rendering-mode boundary the export orchestrator flips.
//
// EnterDocumentMode switches the view to the fixed-layout document
// tree and returns only once that tree is completely built; the return
// itself is the layout-settle signal, so callers never guess with
// timers. ExitDocumentMode restores the interactive presentation and
// must be safe to call on every exit path.
type View interface {
	Mode() ViewMode
	EnterDocumentMode(ctx context.Context, data ReportData) (Document, error)
	ExitDocumentMode()
}
