package domain

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidThreshold is returned for NaN or infinite threshold values.
	ErrInvalidThreshold = errors.New("invalid threshold")

	// ErrUnknownProfile is returned when a profile name is not in the table.
	ErrUnknownProfile = errors.New("unknown profile")
)

// CustomProfile is the selection sentinel for manually adjusted thresholds.
const CustomProfile = "custom"

// Thresholds are the per-variable limits a day is compared against.
type Thresholds struct {
	Temperature   float64 `json:"temp" yaml:"temp"`     // °C, daily max
	Precipitation float64 `json:"precip" yaml:"precip"` // mm, daily sum
	Wind          float64 `json:"wind" yaml:"wind"`     // m/s, daily max
}

// ValidThreshold rejects a limit no comparison can be made against.
func ValidThreshold(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: must be a finite number", ErrInvalidThreshold)
	}
	return nil
}

// Validate rejects thresholds no comparison can be made against.
func (t Thresholds) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"temp", t.Temperature},
		{"precip", t.Precipitation},
		{"wind", t.Wind},
	} {
		if ValidThreshold(f.value) != nil {
			return fmt.Errorf("%w: %s must be a finite number", ErrInvalidThreshold, f.name)
		}
	}
	return nil
}

// ThresholdUpdate is a partial change to Thresholds; nil fields are kept.
type ThresholdUpdate struct {
	Temperature   *float64 `json:"temp,omitempty"`
	Precipitation *float64 `json:"precip,omitempty"`
	Wind          *float64 `json:"wind,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u ThresholdUpdate) Empty() bool {
	return u.Temperature == nil && u.Precipitation == nil && u.Wind == nil
}

// Apply returns t with the non-nil fields of u applied.
func (u ThresholdUpdate) Apply(t Thresholds) Thresholds {
	if u.Temperature != nil {
		t.Temperature = *u.Temperature
	}
	if u.Precipitation != nil {
		t.Precipitation = *u.Precipitation
	}
	if u.Wind != nil {
		t.Wind = *u.Wind
	}
	return t
}
