package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/drone-weather-heatmap/internal/observability"
)

// maxDocumentBytes bounds the cache document read into memory. Three years of
// hourly data for the 50-cell grid is roughly 60 MB.
const maxDocumentBytes = 512 << 20

// HTTPSource fetches the cache document from a static file server.
// It implements pipeline.CacheSource.
type HTTPSource struct {
	url        string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewHTTPSource creates a source that GETs url with the given timeout.
func NewHTTPSource(url string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *HTTPSource {
	return &HTTPSource{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Name identifies the source in logs.
func (s *HTTPSource) Name() string { return s.url }

// Fetch downloads the whole document. Any non-200 status is an error.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	start := time.Now()
	defer func() {
		s.metrics.CacheFetchDuration.WithLabelValues("http").Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch weather cache: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch weather cache: status %d: %s", resp.StatusCode, body)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read weather cache: %w", err)
	}
	if len(data) > maxDocumentBytes {
		return nil, fmt.Errorf("read weather cache: document exceeds %d bytes", maxDocumentBytes)
	}

	s.logger.Debug("weather cache fetched", "url", s.url, "bytes", len(data))
	return data, nil
}
