package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the heatmap service.
type Metrics struct {
	// Cache load metrics.
	CacheLoads         *prometheus.CounterVec // labels: outcome={success,error}
	CacheLoadDuration  prometheus.Histogram
	CacheFetchDuration *prometheus.HistogramVec // labels: source={file,http}
	CellsLoaded        prometheus.Gauge

	// Overlay refresh metrics.
	Refreshes       *prometheus.CounterVec // labels: trigger={load,thresholds,profile}
	RefreshDuration prometheus.Histogram
	CellsRendered   prometheus.Gauge
	CellsSkipped    *prometheus.CounterVec // labels: reason={missing_series,no_coverage,hourly_misaligned}

	// Publisher metrics.
	OverlaysPublished prometheus.Counter
	PublishErrors     prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := NewMetricsForTesting()
	prometheus.MustRegister(
		m.CacheLoads,
		m.CacheLoadDuration,
		m.CacheFetchDuration,
		m.CellsLoaded,
		m.Refreshes,
		m.RefreshDuration,
		m.CellsRendered,
		m.CellsSkipped,
		m.OverlaysPublished,
		m.PublishErrors,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		CacheLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_heatmap",
			Name:      "cache_loads_total",
			Help:      "Weather cache loads by outcome.",
		}, []string{"outcome"}),
		CacheLoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_heatmap",
			Name:      "cache_load_duration_seconds",
			Help:      "Duration of a complete fetch-parse-merge cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		CacheFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather_heatmap",
			Name:      "cache_fetch_duration_seconds",
			Help:      "Duration of reading the raw cache document.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		CellsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_heatmap",
			Name:      "cells_loaded",
			Help:      "Number of merged cells held by the controller.",
		}),
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_heatmap",
			Name:      "refreshes_total",
			Help:      "Overlay recomputations by triggering event.",
		}, []string{"trigger"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_heatmap",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of aggregating and classifying every cell.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		CellsRendered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_heatmap",
			Name:      "cells_rendered",
			Help:      "Number of layers in the current overlay.",
		}),
		CellsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_heatmap",
			Name:      "cells_skipped_total",
			Help:      "Cells left out of an overlay by reason.",
		}, []string{"reason"}),
		OverlaysPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_heatmap",
			Name:      "overlays_published_total",
			Help:      "Overlay snapshots written to the publisher.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_heatmap",
			Name:      "publish_errors_total",
			Help:      "Overlay snapshots the publisher failed to write.",
		}),
	}
}
