package domain

import (
	"fmt"
	"strings"
	"time"
)

// Layer is what the map front-end draws for one cell.
type Layer struct {
	CellID  string          `json:"cell_id"`
	Lat     float64         `json:"lat"`
	Lon     float64         `json:"lon"`
	Bounds  Bounds          `json:"bounds"`
	Color   Band            `json:"color"`
	Opacity float64         `json:"opacity"`
	Tooltip string          `json:"tooltip"`
	Stats   ExceedanceStats `json:"stats"`
}

// BuildLayer classifies a cell's statistics and renders its tooltip.
func BuildLayer(cell Cell, stats ExceedanceStats) Layer {
	style := Classify(stats.AvgExceedanceDaysYr)
	return Layer{
		CellID:  cell.ID,
		Lat:     cell.Lat,
		Lon:     cell.Lon,
		Bounds:  cell.Bounds,
		Color:   style.Color,
		Opacity: style.Opacity,
		Tooltip: Tooltip(cell, stats),
		Stats:   stats,
	}
}

// Tooltip renders the hover text of a cell:
//
//	cell-4-2 (51.1, 11.4)
//	Coverage: 3.0 years
//	Exceedance: 42.3 days/yr (11.6%)
//	Temperature: 2.0 days/yr, avg peak 31.4 °C, avg 3.5 h/day
//	Precipitation: 38.7 days/yr, avg peak 9.1 mm, avg 7.2 h/day
//	Wind: 0.0 days/yr, avg peak - m/s, avg - h/day
func Tooltip(cell Cell, stats ExceedanceStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%.1f, %.1f)\n", cell.ID, cell.Lat, cell.Lon)
	fmt.Fprintf(&b, "Coverage: %.1f years\n", stats.Years)
	fmt.Fprintf(&b, "Exceedance: %.1f days/yr (%.1f%%)\n", stats.AvgExceedanceDaysYr, stats.Ratio*100)
	writeVariable(&b, "Temperature", "°C", stats.Temperature)
	writeVariable(&b, "Precipitation", "mm", stats.Precipitation)
	writeVariable(&b, "Wind", "m/s", stats.Wind)
	return strings.TrimSuffix(b.String(), "\n")
}

func writeVariable(b *strings.Builder, name, unit string, v VariableStats) {
	fmt.Fprintf(b, "%s: %.1f days/yr, avg peak %s %s, avg %s h/day\n",
		name, v.DaysPerYear, v.AvgPeak.Format(1), unit, v.AvgHours.Format(1))
}

// Snapshot is one complete rendering of the overlay. A new snapshot replaces
// the previous one as a whole.
type Snapshot struct {
	Thresholds  Thresholds `json:"thresholds"`
	Profile     string     `json:"profile"`
	RefreshedAt time.Time  `json:"refreshed_at"`
	Layers      []Layer    `json:"layers"`
	Skipped     int        `json:"skipped"`
}

// NewSnapshot stamps a rendering with the current time.
func NewSnapshot(thr Thresholds, profile string, layers []Layer, skipped int) Snapshot {
	if layers == nil {
		layers = []Layer{}
	}
	return Snapshot{
		Thresholds:  thr,
		Profile:     profile,
		RefreshedAt: clock.Now().UTC(),
		Layers:      layers,
		Skipped:     skipped,
	}
}
