package pipeline

import (
	"errors"

	"github.com/couchcryptid/drone-weather-heatmap/internal/domain"
)

// SkippedCell is a cell left out of an overlay because it produced no statistics.
type SkippedCell struct {
	CellID string
	Reason error
}

// Render aggregates and classifies every cell against thr. Cells the
// aggregator rejects are returned separately, in input order.
func Render(cells []domain.Cell, thr domain.Thresholds) ([]domain.Layer, []SkippedCell) {
	layers := make([]domain.Layer, 0, len(cells))
	var skipped []SkippedCell

	for i := range cells {
		stats, err := domain.Aggregate(cells[i], thr)
		if err != nil {
			skipped = append(skipped, SkippedCell{CellID: cells[i].ID, Reason: err})
			continue
		}
		layers = append(layers, domain.BuildLayer(cells[i], stats))
	}
	return layers, skipped
}

// skipReason maps an aggregation error to its metric label.
func skipReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingSeries):
		return "missing_series"
	case errors.Is(err, domain.ErrNoCoverage):
		return "no_coverage"
	case errors.Is(err, domain.ErrHourlyMisaligned):
		return "hourly_misaligned"
	default:
		return "other"
	}
}
