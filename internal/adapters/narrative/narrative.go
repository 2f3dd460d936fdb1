// Package narrative defines the contract for generating the free-text
// section of the executive report.
//
// Generation is a best-effort enhancement: callers must tolerate
// failure and ship the numeric report without a narrative section.
package narrative

import (
	"context"
	"time"

	"github.com/agrofair/portal/internal/domain/model"
)

// Totals carries the headline numbers the generator conditions on.
type Totals struct {
	TotalVolume   float64 `json:"total_volume"`
	TotalVisitors int     `json:"total_visitors"`
}

// Report is one generated narrative: a summary paragraph plus an
// ordered list of strategic recommendations.
type Report struct {
	Summary         string    `json:"summary"`
	Recommendations []string  `json:"recommendations"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// Provider generates a narrative report from the current records and
// totals. Implementations may call an external text-generation service
// and must honor ctx for cancellation.
type Provider interface {
	Generate(ctx context.Context, records []model.Exhibitor, totals Totals) (Report, error)
}
