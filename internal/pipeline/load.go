package pipeline

import (
	"context"

	"github.com/couchcryptid/drone-weather-heatmap/internal/domain"
)

// CacheSource retrieves the raw weather cache document.
type CacheSource interface {
	Fetch(ctx context.Context) ([]byte, error)
	Name() string
}

// LoadError reports a cache document that could not be fetched or parsed.
// Nothing from a failed load reaches the aggregator.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return "load weather cache: " + e.Err.Error()
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadCells fetches the cache document once, parses it, and merges every
// year into one Cell per id. Any failure is returned as a *LoadError with
// no cells.
func LoadCells(ctx context.Context, source CacheSource) ([]domain.Cell, error) {
	data, err := source.Fetch(ctx)
	if err != nil {
		return nil, &LoadError{Source: source.Name(), Err: err}
	}

	partitions, err := domain.ParseCache(data)
	if err != nil {
		return nil, &LoadError{Source: source.Name(), Err: err}
	}

	return domain.MergeYears(partitions), nil
}
