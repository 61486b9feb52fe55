package domain

import "math"

// Band is the colour class of a cell on the overlay.
type Band string

const (
	BandTransparent Band = "transparent"
	BandGreen       Band = "green"
	BandYellow      Band = "yellow"
	BandOrange      Band = "orange"
	BandRed         Band = "red"
)

// Style is the visual encoding of one cell.
type Style struct {
	Color   Band    `json:"color"`
	Opacity float64 `json:"opacity"`
}

// Classify maps an annualized exceedance rate (days per year) to a style.
// Each band scales opacity with its own formula; bands are not blended at
// their edges.
func Classify(daysPerYear float64) Style {
	v := daysPerYear
	switch {
	case math.IsNaN(v) || v <= 0:
		return Style{Color: BandTransparent, Opacity: 0}
	case v <= 30:
		return Style{Color: BandGreen, Opacity: 0.3 + (v/30)*0.3}
	case v <= 70:
		return Style{Color: BandYellow, Opacity: 0.5 + ((v-30)/40)*0.3}
	case v < 200:
		return Style{Color: BandOrange, Opacity: 0.6 + ((v-70)/130)*0.3}
	default:
		return Style{Color: BandRed, Opacity: 0.9}
	}
}
