package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/couchcryptid/drone-weather-heatmap/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger_Level(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for level, want := range cases {
		logger := NewLogger(&config.Config{LogLevel: level, LogFormat: "text"})
		assert.True(t, logger.Enabled(context.Background(), want), "level %q", level)
		assert.False(t, logger.Enabled(context.Background(), want-1), "level %q", level)
	}
}

func TestNewLogger_SetsDefault(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	logger := NewLogger(&config.Config{LogLevel: "info", LogFormat: "json"})
	assert.Same(t, logger, slog.Default())
}

func TestNewMetricsForTesting(t *testing.T) {
	m := NewMetricsForTesting()
	assert.NotNil(t, m.CacheLoads.WithLabelValues("success"))
	assert.NotNil(t, m.CellsSkipped.WithLabelValues("no_coverage"))
	assert.NotNil(t, m.CacheFetchDuration.WithLabelValues("file"))
}
