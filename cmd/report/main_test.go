package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/drone-weather-heatmap/internal/domain"
	"github.com/couchcryptid/drone-weather-heatmap/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestCache writes a cache with one two-day cell and one cell lacking
// an hourly block.
func writeTestCache(t *testing.T) string {
	t.Helper()
	rec := domain.CellYearRecord{
		ID: "cell-2-3", Lat: 49.05, Lon: 12.29,
		Daily: &domain.DailySeries{
			Time:             []string{"2024-07-01", "2024-07-02"},
			TemperatureMax:   domain.Series{31, 20},
			PrecipitationSum: domain.Series{0, 6},
			WindSpeedMax:     domain.Series{3, 3},
		},
		Hourly: &domain.HourlySeries{},
	}
	for _, temp := range []float64{31, 20} {
		for range domain.HoursPerDay {
			rec.Hourly.Append(domain.HourlySeries{
				Time:          []string{"2024-07-01T00:00"},
				Temperature:   domain.Series{temp},
				Precipitation: domain.Series{0.25},
				WindSpeed:     domain.Series{3},
			})
		}
	}
	dailyOnly := domain.CellYearRecord{ID: "cell-0-0", Daily: rec.Daily}

	var buf bytes.Buffer
	require.NoError(t, domain.EncodeCache(&buf, []domain.YearPartition{
		{Year: "2024", Cells: []domain.CellYearRecord{rec, dailyOnly}},
	}))
	path := filepath.Join(t.TempDir(), "weather_cache.json")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestParseFlags_ExplicitThresholdsOnly(t *testing.T) {
	opts, err := parseFlags([]string{"-profile", "dji-mavic-3", "-wind", "8"})
	require.NoError(t, err)

	assert.Equal(t, "dji-mavic-3", opts.profile)
	assert.Nil(t, opts.update.Temperature)
	assert.Nil(t, opts.update.Precipitation)
	require.NotNil(t, opts.update.Wind)
	assert.InDelta(t, 8.0, *opts.update.Wind, 0)
}

func TestRun_Table(t *testing.T) {
	opts, err := parseFlags([]string{"-cache", writeTestCache(t)})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), opts, &out))

	text := out.String()
	assert.Contains(t, text, "profile custom: temp > 30.0 °C, precip > 5.0 mm, wind > 10.0 m/s")
	assert.Contains(t, text, "cell-2-3")
	assert.Contains(t, text, "100.0%")
	assert.Contains(t, text, "1 cells: transparent=0 green=0 yellow=0 orange=0 red=1")
	assert.Contains(t, text, "skipped cell-0-0: cell has no daily or no hourly series")
}

func TestRun_JSON(t *testing.T) {
	opts, err := parseFlags([]string{"-cache", writeTestCache(t), "-profile", "dji-matrice-350", "-json"})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), opts, &out))

	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(out.Bytes(), &snap))
	assert.Equal(t, "dji-matrice-350", snap.Profile)
	assert.Equal(t, domain.Thresholds{Temperature: 50, Precipitation: 10, Wind: 12}, snap.Thresholds)
	assert.Equal(t, 1, snap.Skipped)
	require.Len(t, snap.Layers, 1)
	assert.Equal(t, domain.BandTransparent, snap.Layers[0].Color)
}

func TestRun_ExplicitThresholdsSwitchToCustom(t *testing.T) {
	opts, err := parseFlags([]string{"-cache", writeTestCache(t), "-profile", "dji-matrice-350", "-temp", "25", "-json"})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), opts, &out))

	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(out.Bytes(), &snap))
	assert.Equal(t, domain.CustomProfile, snap.Profile)
	assert.Equal(t, domain.Thresholds{Temperature: 25, Precipitation: 10, Wind: 12}, snap.Thresholds)
	require.Len(t, snap.Layers, 1)
	assert.Equal(t, 1, snap.Layers[0].Stats.TotalExceedanceCount)
}

func TestRun_Errors(t *testing.T) {
	opts, err := parseFlags([]string{"-cache", writeTestCache(t), "-profile", "paper-plane"})
	require.NoError(t, err)
	require.ErrorIs(t, run(context.Background(), opts, &bytes.Buffer{}), domain.ErrUnknownProfile)

	opts, err = parseFlags([]string{"-cache", filepath.Join(t.TempDir(), "absent.json")})
	require.NoError(t, err)
	var loadErr *pipeline.LoadError
	require.ErrorAs(t, run(context.Background(), opts, &bytes.Buffer{}), &loadErr)
}
