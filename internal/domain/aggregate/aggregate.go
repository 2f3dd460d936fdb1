// Package aggregate turns a flat list of exhibitor records into the
// summary statistics the dashboard and the export report render.
//
// Compute is a pure function: it never mutates its input and performs
// no I/O. Stats are recomputed from scratch on every call, so a caller
// can never observe a stale or partially updated aggregate.
package aggregate

import (
	"sort"

	"github.com/agrofair/portal/internal/domain/model"
)

// TopCitiesLimit caps the ranked city list.
const TopCitiesLimit = 5

// GroupTotal is one grouping bucket with its summed business volume.
type GroupTotal struct {
	Key    string  `json:"key"`
	Volume float64 `json:"volume"`
}

// Stats is the aggregate view over all current exhibitor records.
// All values are raw numbers; currency and locale formatting belong
// to the presentation layer.
type Stats struct {
	TotalVolume    float64 `json:"total_volume"`
	TotalVisitors  int     `json:"total_visitors"`
	ExhibitorCount int     `json:"exhibitor_count"`

	// MeanTicket is TotalVolume / ExhibitorCount, and exactly 0 for an
	// empty record set.
	MeanTicket float64 `json:"mean_ticket"`

	// TopCities holds at most TopCitiesLimit cities ordered by summed
	// volume descending. Cities with equal volume keep first-seen order.
	TopCities []GroupTotal `json:"top_cities"`

	// CategoriesByVolume orders category totals ascending by volume,
	// the order the pie legend wants (smallest slice first).
	CategoriesByVolume []GroupTotal `json:"categories_by_volume"`

	// Categories keeps category totals in group-discovery order.
	Categories []GroupTotal `json:"categories"`
}

// grouping accumulates volume sums per key while remembering the order
// in which keys were first seen. Keys are taken verbatim: "Porto Velho"
// and "porto velho" are distinct groups.
type grouping struct {
	order  []string
	totals map[string]float64
}

func newGrouping() *grouping {
	return &grouping{totals: make(map[string]float64)}
}

func (g *grouping) add(key string, volume float64) {
	if _, seen := g.totals[key]; !seen {
		g.order = append(g.order, key)
	}
	g.totals[key] += volume
}

// entries returns the buckets in first-seen order.
func (g *grouping) entries() []GroupTotal {
	out := make([]GroupTotal, 0, len(g.order))
	for _, key := range g.order {
		out = append(out, GroupTotal{Key: key, Volume: g.totals[key]})
	}
	return out
}

// Compute derives Stats from records. The input slice is read once and
// left untouched.
func Compute(records []model.Exhibitor) Stats {
	var stats Stats

	cities := newGrouping()
	categories := newGrouping()
	for _, rec := range records {
		stats.TotalVolume += rec.BusinessVolume
		stats.TotalVisitors += rec.Visitors
		cities.add(rec.City, rec.BusinessVolume)
		categories.add(string(rec.Category), rec.BusinessVolume)
	}
	stats.ExhibitorCount = len(records)
	if stats.ExhibitorCount > 0 {
		stats.MeanTicket = stats.TotalVolume / float64(stats.ExhibitorCount)
	}

	stats.TopCities = topByVolume(cities.entries(), TopCitiesLimit)
	stats.Categories = categories.entries()
	stats.CategoriesByVolume = ascendingByVolume(categories.entries())

	return stats
}

// topByVolume sorts entries descending by volume and truncates to limit.
// The stable sort preserves first-seen order among equal sums.
func topByVolume(entries []GroupTotal, limit int) []GroupTotal {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Volume > entries[j].Volume
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func ascendingByVolume(entries []GroupTotal) []GroupTotal {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Volume < entries[j].Volume
	})
	return entries
}
