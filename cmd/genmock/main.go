// Command genmock writes a synthetic weather cache for the Germany grid in the
// same year→cell layout the service loads. Output is deterministic for a given
// seed, so the service and tests can run without the archive API.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out weather_cache.json \
//	  -years 2024,2023,2022 \
//	  -seed 1
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/drone-weather-heatmap/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "weather_cache.json", "output path for the cache document")
	yearList := flag.String("years", "2024,2023,2022", "comma-separated years, in document order")
	seed := flag.Uint64("seed", 1, "random seed")
	flag.Parse()

	years, err := parseYears(*yearList)
	if err != nil {
		flag.Usage()
		return err
	}

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	grid := domain.GermanyGrid.Cells()

	partitions := make([]domain.YearPartition, 0, len(years))
	for _, year := range years {
		partitions = append(partitions, generateYear(rng, year, grid))
		log.Printf("%d: %d cells", year, len(grid))
	}

	if err := writeCache(*out, partitions); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	log.Printf("wrote cache: %s", *out)

	printStats(domain.MergeYears(partitions))
	return nil
}

func parseYears(s string) ([]int, error) {
	var years []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		y, err := strconv.Atoi(part)
		if err != nil || y < 1940 || y > 2100 {
			return nil, fmt.Errorf("invalid year %q", part)
		}
		years = append(years, y)
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("no years given")
	}
	return years, nil
}

// generateYear builds one record per grid cell covering every day of year.
// Daily values are derived from the hourly ones the way the archive API
// derives them: maxima for temperature and wind, the sum for precipitation.
func generateYear(rng *rand.Rand, year int, grid []domain.GridCell) domain.YearPartition {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	days := start.AddDate(1, 0, 0).Sub(start).Hours() / domain.HoursPerDay

	p := domain.YearPartition{Year: strconv.Itoa(year), Cells: make([]domain.CellYearRecord, 0, len(grid))}
	for _, gc := range grid {
		rec := domain.CellYearRecord{
			ID:     gc.ID,
			Lat:    gc.Lat,
			Lon:    gc.Lon,
			Bounds: gc.Bounds,
			Daily:  &domain.DailySeries{},
			Hourly: &domain.HourlySeries{},
		}
		for d := range int(days) {
			generateDay(rng, rec.Daily, rec.Hourly, gc, start.AddDate(0, 0, d))
		}
		p.Cells = append(p.Cells, rec)
	}
	return p
}

func generateDay(rng *rand.Rand, daily *domain.DailySeries, hourly *domain.HourlySeries, gc domain.GridCell, day time.Time) {
	doy := float64(day.YearDay())

	// Warmer in the south-west and inland, windier towards the North Sea coast.
	seasonal := 9 + 10*math.Sin(2*math.Pi*(doy-110)/365)
	base := seasonal - 0.6*(gc.Lat-47) + 2.5*rng.NormFloat64()
	windBase := 2.5 + 0.5*math.Max(0, gc.Lat-52) + math.Abs(1.5*rng.NormFloat64())

	wet := rng.Float64() < 0.35
	rainHours := 0
	if wet {
		rainHours = 1 + rng.IntN(12)
	}
	rainStart := rng.IntN(domain.HoursPerDay)

	var tMax, wMax, pSum float64 = math.Inf(-1), 0, 0
	for h := range domain.HoursPerDay {
		temp := round1(base + 5*math.Sin(2*math.Pi*float64(h-9)/domain.HoursPerDay) + 0.5*rng.NormFloat64())
		wind := round1(math.Max(0, windBase+1.5*math.Sin(2*math.Pi*float64(h-8)/domain.HoursPerDay)+rng.NormFloat64()))
		precip := 0.0
		if (h-rainStart+domain.HoursPerDay)%domain.HoursPerDay < rainHours {
			precip = round1(rng.ExpFloat64() * 0.8)
		}

		hourly.Time = append(hourly.Time, day.Add(time.Duration(h)*time.Hour).Format("2006-01-02T15:04"))
		hourly.Temperature = append(hourly.Temperature, temp)
		hourly.Precipitation = append(hourly.Precipitation, precip)
		hourly.WindSpeed = append(hourly.WindSpeed, wind)

		tMax = math.Max(tMax, temp)
		wMax = math.Max(wMax, wind)
		pSum += precip
	}

	daily.Time = append(daily.Time, day.Format(time.DateOnly))
	daily.TemperatureMax = append(daily.TemperatureMax, tMax)
	daily.PrecipitationSum = append(daily.PrecipitationSum, round1(pSum))
	daily.WindSpeedMax = append(daily.WindSpeedMax, wMax)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func writeCache(path string, partitions []domain.YearPartition) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := domain.EncodeCache(f, partitions); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// printStats reports the band distribution of every built-in profile so
// fixture changes are easy to spot.
func printStats(cells []domain.Cell) {
	fmt.Println("\n=== Band distribution per profile ===")
	for _, p := range domain.DefaultProfiles {
		counts := map[domain.Band]int{}
		for i := range cells {
			stats, err := domain.Aggregate(cells[i], p.Thresholds)
			if err != nil {
				counts["skipped"]++
				continue
			}
			counts[domain.Classify(stats.AvgExceedanceDaysYr).Color]++
		}
		fmt.Printf("%-18s transparent=%d green=%d yellow=%d orange=%d red=%d skipped=%d\n", p.Name,
			counts[domain.BandTransparent], counts[domain.BandGreen], counts[domain.BandYellow],
			counts[domain.BandOrange], counts[domain.BandRed], counts["skipped"])
	}
}
