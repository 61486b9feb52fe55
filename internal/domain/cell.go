package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// HoursPerDay is the stride between consecutive days in an hourly series.
const HoursPerDay = 24

// Point is a WGS-84 latitude/longitude pair.
type Point struct {
	Lat float64
	Lon float64
}

// Bounds is the rectangle a cell covers, as two corner points in the order
// supplied by the cache document ([[lat, lon], [lat, lon]]).
type Bounds struct {
	SouthWest Point
	NorthEast Point
}

// MarshalJSON encodes the bounds as [[lat, lon], [lat, lon]].
func (b Bounds) MarshalJSON() ([]byte, error) {
	return json.Marshal([2][2]float64{
		{b.SouthWest.Lat, b.SouthWest.Lon},
		{b.NorthEast.Lat, b.NorthEast.Lon},
	})
}

// UnmarshalJSON decodes [[lat, lon], [lat, lon]].
func (b *Bounds) UnmarshalJSON(data []byte) error {
	var corners [][]float64
	if err := json.Unmarshal(data, &corners); err != nil {
		return fmt.Errorf("parse bounds: %w", err)
	}
	if corners == nil {
		*b = Bounds{}
		return nil
	}
	if len(corners) != 2 || len(corners[0]) != 2 || len(corners[1]) != 2 {
		return fmt.Errorf("parse bounds: want two [lat, lon] corners, got %s", data)
	}
	b.SouthWest = Point{Lat: corners[0][0], Lon: corners[0][1]}
	b.NorthEast = Point{Lat: corners[1][0], Lon: corners[1][1]}
	return nil
}

// Series is a numeric time series. JSON nulls decode to NaN and NaN encodes
// back to null.
type Series []float64

// At returns the value at index i, or NaN when i is out of range.
func (s Series) At(i int) float64 {
	if i < 0 || i >= len(s) {
		return math.NaN()
	}
	return s[i]
}

func (s Series) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	out := make([]*float64, len(s))
	for i := range s {
		if !math.IsNaN(s[i]) {
			out[i] = &s[i]
		}
	}
	return json.Marshal(out)
}

func (s *Series) UnmarshalJSON(data []byte) error {
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse series: %w", err)
	}
	if raw == nil {
		*s = nil
		return nil
	}
	out := make(Series, len(raw))
	for i, v := range raw {
		if v == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *v
	}
	*s = out
	return nil
}

// DailySeries holds the parallel per-day series of one cell.
type DailySeries struct {
	Time             []string `json:"time"`
	TemperatureMax   Series   `json:"temperature_2m_max"`
	PrecipitationSum Series   `json:"precipitation_sum"`
	WindSpeedMax     Series   `json:"wind_speed_10m_max"`
}

// Append extends every series with the corresponding series of next.
// A series absent from next contributes nothing.
func (d *DailySeries) Append(next DailySeries) {
	d.Time = append(d.Time, next.Time...)
	d.TemperatureMax = append(d.TemperatureMax, next.TemperatureMax...)
	d.PrecipitationSum = append(d.PrecipitationSum, next.PrecipitationSum...)
	d.WindSpeedMax = append(d.WindSpeedMax, next.WindSpeedMax...)
}

// Days returns the number of days covered, as given by the time axis.
func (d DailySeries) Days() int { return len(d.Time) }

// HourlySeries holds the parallel per-hour series of one cell.
type HourlySeries struct {
	Time          []string `json:"time"`
	Temperature   Series   `json:"temperature_2m"`
	Precipitation Series   `json:"precipitation"`
	WindSpeed     Series   `json:"wind_speed_10m"`
}

// Append extends every series with the corresponding series of next.
func (h *HourlySeries) Append(next HourlySeries) {
	h.Time = append(h.Time, next.Time...)
	h.Temperature = append(h.Temperature, next.Temperature...)
	h.Precipitation = append(h.Precipitation, next.Precipitation...)
	h.WindSpeed = append(h.WindSpeed, next.WindSpeed...)
}

// aligned reports whether every non-empty hourly series holds whole days.
func (h HourlySeries) aligned() bool {
	for _, n := range []int{len(h.Time), len(h.Temperature), len(h.Precipitation), len(h.WindSpeed)} {
		if n%HoursPerDay != 0 {
			return false
		}
	}
	return true
}

// CellYearRecord is one cell's entry for a single year of the cache document.
// Daily and Hourly are nil when the block is absent.
type CellYearRecord struct {
	ID     string        `json:"id,omitempty"`
	Lat    float64       `json:"lat"`
	Lon    float64       `json:"lon"`
	Bounds Bounds        `json:"bounds"`
	Daily  *DailySeries  `json:"daily,omitempty"`
	Hourly *HourlySeries `json:"hourly,omitempty"`
}

// YearPartition is the set of cell records for one year, in document order.
type YearPartition struct {
	Year  string
	Cells []CellYearRecord
}

// Cell is a grid square with its weather series merged across all years.
// Cells are built once at load time and treated as read-only afterwards.
type Cell struct {
	ID     string       `json:"id"`
	Lat    float64      `json:"lat"`
	Lon    float64      `json:"lon"`
	Bounds Bounds       `json:"bounds"`
	Daily  DailySeries  `json:"daily"`
	Hourly HourlySeries `json:"hourly"`

	// HasDaily and HasHourly record whether any merged year carried the block.
	HasDaily  bool `json:"-"`
	HasHourly bool `json:"-"`
}
