package source

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/couchcryptid/drone-weather-heatmap/internal/observability"
)

// FileSource reads the cache document from the local filesystem.
// It implements pipeline.CacheSource. metrics may be nil for one-shot tools.
type FileSource struct {
	path    string
	metrics *observability.Metrics
}

// NewFileSource creates a source for the document at path.
func NewFileSource(path string, metrics *observability.Metrics) *FileSource {
	return &FileSource{path: path, metrics: metrics}
}

func (s *FileSource) Name() string { return s.path }

func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	data, err := os.ReadFile(s.path)
	if s.metrics != nil {
		s.metrics.CacheFetchDuration.WithLabelValues("file").Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return nil, fmt.Errorf("read weather cache: %w", err)
	}
	return data, nil
}
