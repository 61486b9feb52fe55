// Command report prints the per-cell exceedance statistics of a weather cache
// for one profile or an explicit set of thresholds, without starting the
// service.
//
// Usage:
//
//	go run ./cmd/report -cache weather_cache.json -profile dji-mavic-3
//	go run ./cmd/report -cache weather_cache.json -temp 30 -precip 5 -wind 10 -json
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/couchcryptid/drone-weather-heatmap/internal/adapter/source"
	"github.com/couchcryptid/drone-weather-heatmap/internal/config"
	"github.com/couchcryptid/drone-weather-heatmap/internal/domain"
	"github.com/couchcryptid/drone-weather-heatmap/internal/pipeline"
)

var defaultThresholds = domain.Thresholds{Temperature: 30, Precipitation: 5, Wind: 10}

type options struct {
	cache        string
	profile      string
	profilesFile string
	update       domain.ThresholdUpdate
	asJSON       bool
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(context.Background(), opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	var opts options
	fs.StringVar(&opts.cache, "cache", "weather_cache.json", "path to the weather cache document")
	fs.StringVar(&opts.profile, "profile", domain.CustomProfile, "profile to report for")
	fs.StringVar(&opts.profilesFile, "profiles", "", "optional YAML profile table")
	fs.BoolVar(&opts.asJSON, "json", false, "print the overlay snapshot as JSON")
	temp := fs.Float64("temp", defaultThresholds.Temperature, "temperature threshold (°C)")
	precip := fs.Float64("precip", defaultThresholds.Precipitation, "precipitation threshold (mm)")
	wind := fs.Float64("wind", defaultThresholds.Wind, "wind threshold (m/s)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	// Only explicitly set thresholds override the profile.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "temp":
			opts.update.Temperature = temp
		case "precip":
			opts.update.Precipitation = precip
		case "wind":
			opts.update.Wind = wind
		}
	})
	return opts, nil
}

func run(ctx context.Context, opts options, out io.Writer) error {
	profiles, err := config.LoadProfiles(opts.profilesFile)
	if err != nil {
		return err
	}

	thr, err := profiles.Resolve(opts.profile, defaultThresholds)
	if err != nil {
		return err
	}
	profile := opts.profile
	if !opts.update.Empty() {
		thr = opts.update.Apply(thr)
		profile = domain.CustomProfile
	}
	if err := thr.Validate(); err != nil {
		return err
	}

	cells, err := pipeline.LoadCells(ctx, source.NewFileSource(opts.cache, nil))
	if err != nil {
		return err
	}
	layers, skipped := pipeline.Render(cells, thr)

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(domain.NewSnapshot(thr, profile, layers, len(skipped)))
	}
	return printTable(out, profile, thr, layers, skipped)
}

func printTable(out io.Writer, profile string, thr domain.Thresholds, layers []domain.Layer, skipped []pipeline.SkippedCell) error {
	fmt.Fprintf(out, "profile %s: temp > %.1f °C, precip > %.1f mm, wind > %.1f m/s\n\n",
		profile, thr.Temperature, thr.Precipitation, thr.Wind)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "CELL\tLAT\tLON\tYEARS\tDAYS/YR\tRATIO\tTEMP\tPRECIP\tWIND\tCOLOR\t")
	bands := map[domain.Band]int{}
	for _, l := range layers {
		s := l.Stats
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.1f\t%.1f\t%.1f%%\t%.1f\t%.1f\t%.1f\t%s\t\n",
			l.CellID, l.Lat, l.Lon, s.Years, s.AvgExceedanceDaysYr, s.Ratio*100,
			s.Temperature.DaysPerYear, s.Precipitation.DaysPerYear, s.Wind.DaysPerYear, l.Color)
		bands[l.Color]++
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d cells: transparent=%d green=%d yellow=%d orange=%d red=%d\n", len(layers),
		bands[domain.BandTransparent], bands[domain.BandGreen], bands[domain.BandYellow],
		bands[domain.BandOrange], bands[domain.BandRed])
	for _, s := range skipped {
		fmt.Fprintf(out, "skipped %s: %v\n", s.CellID, s.Reason)
	}
	if len(layers) == 0 && len(skipped) == 0 {
		return errors.New("weather cache holds no cells")
	}
	return nil
}
