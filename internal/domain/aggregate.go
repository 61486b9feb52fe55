package domain

import (
	"encoding/json"
	"errors"
	"strconv"
)

// DaysPerYear converts a day count to years of coverage.
const DaysPerYear = 365.25

// MissingValue is how an undefined mean is displayed.
const MissingValue = "-"

// Reasons a cell produces no statistics. Callers drop such cells from the
// overlay; they are not load failures.
var (
	ErrMissingSeries    = errors.New("cell has no daily or no hourly series")
	ErrNoCoverage       = errors.New("cell covers zero days")
	ErrHourlyMisaligned = errors.New("hourly series length is not a multiple of 24")
)

// Mean is an arithmetic mean that is undefined when nothing was averaged.
type Mean struct {
	Value float64
	Valid bool
}

func meanOf(sum float64, n int) Mean {
	if n == 0 {
		return Mean{}
	}
	return Mean{Value: sum / float64(n), Valid: true}
}

// Format renders the mean with prec decimals, or MissingValue.
func (m Mean) Format(prec int) string {
	if !m.Valid {
		return MissingValue
	}
	return strconv.FormatFloat(m.Value, 'f', prec, 64)
}

func (m Mean) String() string { return m.Format(-1) }

// MarshalJSON encodes a valid mean as a number and an undefined one as "-".
func (m Mean) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return json.Marshal(MissingValue)
	}
	return json.Marshal(m.Value)
}

func (m *Mean) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != MissingValue {
			return errors.New("parse mean: expected number or \"-\"")
		}
		*m = Mean{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Mean{Value: v, Valid: true}
	return nil
}

// VariableStats accumulates exceedances of one weather variable.
type VariableStats struct {
	ExceedanceDays int     `json:"exceedance_days"`
	SumPeak        float64 `json:"sum_peak"`
	HourlyExceeds  int     `json:"hourly_exceeds"`

	DaysPerYear float64 `json:"days_per_year"`
	AvgPeak     Mean    `json:"avg_peak"`
	AvgHours    Mean    `json:"avg_hours"`
}

func (v *VariableStats) record(peak float64, hours int) {
	v.ExceedanceDays++
	v.SumPeak += peak
	v.HourlyExceeds += hours
}

func (v *VariableStats) finish(years float64) {
	v.DaysPerYear = float64(v.ExceedanceDays) / years
	v.AvgPeak = meanOf(v.SumPeak, v.ExceedanceDays)
	v.AvgHours = meanOf(float64(v.HourlyExceeds), v.ExceedanceDays)
}

// ExceedanceStats is the per-cell result of one aggregation. It is derived
// from the cell and the thresholds in force and is never cached.
type ExceedanceStats struct {
	TotalDays            int     `json:"total_days"`
	Years                float64 `json:"years"`
	TotalExceedanceCount int     `json:"total_exceedance_count"`
	AvgExceedanceDaysYr  float64 `json:"avg_exceedance_days_yr"`
	Ratio                float64 `json:"ratio"`

	Temperature   VariableStats `json:"temperature"`
	Precipitation VariableStats `json:"precipitation"`
	Wind          VariableStats `json:"wind"`
}

// Aggregate scans the daily series of a cell against thresholds and
// cross-references the hourly series for sub-day duration. A day that
// exceeds several variables counts once towards TotalExceedanceCount.
//
// Daily and hourly series are paired by position after the multi-year merge,
// so a cell whose years each carry only one block is still aggregated, with
// day d reading hours d*24 to d*24+23 of the merged hourly series.
//
// Hourly samples beyond the end of a series count as absent. Cells missing a
// block, covering no days, or with hourly series that do not hold whole days
// return one of ErrMissingSeries, ErrNoCoverage or ErrHourlyMisaligned.
func Aggregate(cell Cell, thr Thresholds) (ExceedanceStats, error) {
	if !cell.HasDaily || !cell.HasHourly {
		return ExceedanceStats{}, ErrMissingSeries
	}
	totalDays := cell.Daily.Days()
	if totalDays == 0 {
		return ExceedanceStats{}, ErrNoCoverage
	}
	if !cell.Hourly.aligned() {
		return ExceedanceStats{}, ErrHourlyMisaligned
	}

	stats := ExceedanceStats{
		TotalDays: totalDays,
		Years:     float64(totalDays) / DaysPerYear,
	}
	daily, hourly := cell.Daily, cell.Hourly

	for d := range totalDays {
		exceeded := false

		if peak := daily.TemperatureMax.At(d); peak > thr.Temperature {
			stats.Temperature.record(peak, countHours(hourly.Temperature, d, thr.Temperature))
			exceeded = true
		}
		// Duration counts any rainfall, not hours above the daily-sum limit.
		if peak := daily.PrecipitationSum.At(d); peak > thr.Precipitation {
			stats.Precipitation.record(peak, countHours(hourly.Precipitation, d, 0))
			exceeded = true
		}
		if peak := daily.WindSpeedMax.At(d); peak > thr.Wind {
			stats.Wind.record(peak, countHours(hourly.WindSpeed, d, thr.Wind))
			exceeded = true
		}

		if exceeded {
			stats.TotalExceedanceCount++
		}
	}

	stats.AvgExceedanceDaysYr = float64(stats.TotalExceedanceCount) / stats.Years
	stats.Ratio = float64(stats.TotalExceedanceCount) / float64(totalDays)
	stats.Temperature.finish(stats.Years)
	stats.Precipitation.finish(stats.Years)
	stats.Wind.finish(stats.Years)
	return stats, nil
}

// countHours counts the hours of day d whose value is above limit.
func countHours(s Series, day int, limit float64) int {
	n := 0
	base := day * HoursPerDay
	for h := range HoursPerDay {
		if s.At(base+h) > limit {
			n++
		}
	}
	return n
}
