package domain

import (
	"bytes"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoYearCache = `{
  "2024": {
    "cell-1-0": {
      "id": "cell-1-0", "lat": 48.23, "lon": 6.47,
      "bounds": [[47.82, 5.5], [48.64, 7.44]],
      "daily": {"time": ["2024-01-01", "2024-01-02"], "temperature_2m_max": [3.1, null], "precipitation_sum": [0, 2.5], "wind_speed_10m_max": [4, 9.5]},
      "hourly": {"time": ["2024-01-01T00:00"], "temperature_2m": [1.5], "precipitation": [0], "wind_speed_10m": [3]}
    },
    "cell-0-0": {
      "lat": 47.41, "lon": 6.47,
      "bounds": [[47.0, 5.5], [47.82, 7.44]],
      "daily": {"time": ["2024-01-01"], "temperature_2m_max": [2], "precipitation_sum": [0], "wind_speed_10m_max": [4]}
    }
  },
  "2022": {
    "cell-0-0": {
      "id": "cell-0-0", "lat": 99, "lon": 99,
      "bounds": [[0, 0], [1, 1]],
      "daily": {"time": ["2022-01-01", "2022-01-02"], "temperature_2m_max": [5, 6], "precipitation_sum": [1, 1], "wind_speed_10m_max": [2, 2]},
      "hourly": {"time": ["2022-01-01T00:00", "2022-01-01T01:00"], "temperature_2m": [4, 4], "precipitation": [0, 0], "wind_speed_10m": [1, 1]}
    },
    "cell-2-0": {
      "lat": 49.05, "lon": 6.47,
      "bounds": [[48.64, 5.5], [49.46, 7.44]]
    }
  }
}`

func TestParseCache(t *testing.T) {
	partitions, err := ParseCache([]byte(twoYearCache))
	require.NoError(t, err)
	require.Len(t, partitions, 2)

	t.Run("keeps document order", func(t *testing.T) {
		assert.Equal(t, "2024", partitions[0].Year)
		assert.Equal(t, "2022", partitions[1].Year)

		var ids []string
		for _, c := range partitions[0].Cells {
			ids = append(ids, c.ID)
		}
		assert.Equal(t, []string{"cell-1-0", "cell-0-0"}, ids)
	})

	t.Run("object key is the cell id", func(t *testing.T) {
		assert.Equal(t, "cell-0-0", partitions[0].Cells[1].ID)
	})

	t.Run("nulls decode to NaN", func(t *testing.T) {
		rec := partitions[0].Cells[0]
		require.NotNil(t, rec.Daily)
		assert.True(t, math.IsNaN(rec.Daily.TemperatureMax[1]))
		assert.Equal(t, 3.1, rec.Daily.TemperatureMax[0])
	})

	t.Run("absent blocks stay nil", func(t *testing.T) {
		assert.Nil(t, partitions[0].Cells[1].Hourly)
		assert.Nil(t, partitions[1].Cells[1].Daily)
		assert.Nil(t, partitions[1].Cells[1].Hourly)
	})

	t.Run("bounds corners", func(t *testing.T) {
		b := partitions[0].Cells[0].Bounds
		assert.Equal(t, Point{Lat: 47.82, Lon: 5.5}, b.SouthWest)
		assert.Equal(t, Point{Lat: 48.64, Lon: 7.44}, b.NorthEast)
	})
}

func TestParseCache_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":          `not json`,
		"empty":             ``,
		"top level array":   `[]`,
		"year not object":   `{"2024": []}`,
		"cell not object":   `{"2024": {"cell-0-0": 5}}`,
		"bad bounds":        `{"2024": {"cell-0-0": {"bounds": [[1, 2]]}}}`,
		"bad series":        `{"2024": {"cell-0-0": {"daily": {"temperature_2m_max": ["hot"]}}}}`,
		"truncated":         `{"2024": {"cell-0-0": {}`,
		"trailing document": `{} {}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCache([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParseCache_EmptyDocument(t *testing.T) {
	partitions, err := ParseCache([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, partitions)
}

func TestMergeYears(t *testing.T) {
	partitions, err := ParseCache([]byte(twoYearCache))
	require.NoError(t, err)

	cells := MergeYears(partitions)

	t.Run("first appearance order", func(t *testing.T) {
		var ids []string
		for _, c := range cells {
			ids = append(ids, c.ID)
		}
		assert.Equal(t, []string{"cell-1-0", "cell-0-0", "cell-2-0"}, ids)
	})

	t.Run("appends in arrival order", func(t *testing.T) {
		c := cells[1]
		assert.Equal(t, []string{"2024-01-01", "2022-01-01", "2022-01-02"}, c.Daily.Time)
		if diff := cmp.Diff(Series{2, 5, 6}, c.Daily.TemperatureMax); diff != "" {
			t.Fatalf("temperature mismatch (-want +got):\n%s", diff)
		}
		assert.Len(t, c.Daily.Time, len(partitions[0].Cells[1].Daily.Time)+len(partitions[1].Cells[0].Daily.Time))
		assert.Equal(t, Series{4, 4}, c.Hourly.Temperature)
		assert.True(t, c.HasDaily)
		assert.True(t, c.HasHourly)
	})

	t.Run("first year sets static fields", func(t *testing.T) {
		c := cells[1]
		assert.Equal(t, 47.41, c.Lat)
		assert.Equal(t, 6.47, c.Lon)
		assert.Equal(t, Point{Lat: 47.0, Lon: 5.5}, c.Bounds.SouthWest)
	})

	t.Run("absent blocks contribute nothing", func(t *testing.T) {
		c := cells[2]
		assert.False(t, c.HasDaily)
		assert.False(t, c.HasHourly)
		assert.Empty(t, c.Daily.Time)
	})

	t.Run("merged series do not alias the source", func(t *testing.T) {
		partitions[0].Cells[0].Daily.PrecipitationSum[0] = 100
		assert.Equal(t, 0.0, cells[0].Daily.PrecipitationSum[0])
	})
}

func TestMergeYears_LengthIsSumOfYears(t *testing.T) {
	year := func(name string, days int) YearPartition {
		daily := DailySeries{}
		hourly := HourlySeries{}
		for d := range days {
			daily.Time = append(daily.Time, name)
			daily.TemperatureMax = append(daily.TemperatureMax, float64(d))
			for range HoursPerDay {
				hourly.Time = append(hourly.Time, name)
				hourly.Temperature = append(hourly.Temperature, float64(d))
			}
		}
		return YearPartition{Year: name, Cells: []CellYearRecord{{ID: "cell-0-0", Daily: &daily, Hourly: &hourly}}}
	}

	cells := MergeYears([]YearPartition{year("2023", 365), year("2024", 366)})
	require.Len(t, cells, 1)
	assert.Equal(t, 731, cells[0].Daily.Days())
	assert.Len(t, cells[0].Daily.TemperatureMax, 731)
	assert.Len(t, cells[0].Hourly.Temperature, 731*HoursPerDay)
	assert.Equal(t, "2023", cells[0].Daily.Time[0])
	assert.Equal(t, "2024", cells[0].Daily.Time[730])
	assert.Equal(t, 364.0, cells[0].Daily.TemperatureMax[364])
	assert.Equal(t, 0.0, cells[0].Daily.TemperatureMax[365])
}

func TestMergeYears_BlocksFromDifferentYearsArePairedByPosition(t *testing.T) {
	dailyOnly := CellYearRecord{ID: "cell-0-0", Daily: &DailySeries{
		Time:             []string{"2024-07-01", "2024-07-02"},
		TemperatureMax:   Series{31, 20},
		PrecipitationSum: Series{0, 0},
		WindSpeedMax:     Series{3, 3},
	}}
	hourlyOnly := CellYearRecord{ID: "cell-0-0", Hourly: &HourlySeries{}}
	for h := range 2 * HoursPerDay {
		temp := 10.0
		if h < 6 {
			temp = 31
		}
		hourlyOnly.Hourly.Append(HourlySeries{
			Time:          []string{"2022-07-01T00:00"},
			Temperature:   Series{temp},
			Precipitation: Series{0},
			WindSpeed:     Series{3},
		})
	}

	cells := MergeYears([]YearPartition{
		{Year: "2024", Cells: []CellYearRecord{dailyOnly}},
		{Year: "2022", Cells: []CellYearRecord{hourlyOnly}},
	})
	require.Len(t, cells, 1)
	assert.True(t, cells[0].HasDaily)
	assert.True(t, cells[0].HasHourly)

	// Day 0 of the daily series reads hours 0-23 of the other year's hourly series.
	stats, err := Aggregate(cells[0], Thresholds{Temperature: 30, Precipitation: 5, Wind: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalDays)
	assert.Equal(t, 1, stats.Temperature.ExceedanceDays)
	assert.True(t, stats.Temperature.AvgHours.Valid)
	assert.InDelta(t, 6.0, stats.Temperature.AvgHours.Value, 1e-12)
}

func TestEncodeCache_RoundTrip(t *testing.T) {
	partitions, err := ParseCache([]byte(twoYearCache))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeCache(&buf, partitions))

	again, err := ParseCache(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Equal(t, "2024", again[0].Year)
	assert.Equal(t, "2022", again[1].Year)
	assert.Equal(t, "cell-1-0", again[0].Cells[0].ID)
	assert.True(t, math.IsNaN(again[0].Cells[0].Daily.TemperatureMax[1]))
	assert.Equal(t, partitions[1].Cells[0].Bounds, again[1].Cells[0].Bounds)
	assert.Nil(t, again[1].Cells[1].Daily)
}
