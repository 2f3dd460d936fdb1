// Package projection applies fixed growth assumptions to aggregate
// statistics to produce next-edition forecasts.
package projection

import (
	"math"

	"github.com/agrofair/portal/internal/domain/aggregate"
)

// Growth multipliers for the next edition. These are policy constants
// set by the organizers, not values derived from historical data.
const (
	VolumeGrowth    = 1.20
	VisitorsGrowth  = 1.15
	ExhibitorGrowth = 1.10
)

// Projection is the forecast derived from one aggregate snapshot.
// Volume stays a raw amount; visitor and exhibitor count projections
// are whole numbers.
type Projection struct {
	Volume     float64 `json:"volume"`
	Visitors   int     `json:"visitors"`
	Exhibitors int     `json:"exhibitors"`
}

// Project computes the forecast for stats. A zero-valued Stats flows
// through to a zero-valued Projection; there are no error conditions.
func Project(stats aggregate.Stats) Projection {
	return Projection{
		Volume:     stats.TotalVolume * VolumeGrowth,
		Visitors:   roundHalfUp(float64(stats.TotalVisitors) * VisitorsGrowth),
		Exhibitors: roundHalfUp(float64(stats.ExhibitorCount) * ExhibitorGrowth),
	}
}

// roundHalfUp rounds to the nearest integer with halves going up,
// matching the behavior the report has always shown for these counts.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
