package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/drone-weather-heatmap/internal/domain"
	"github.com/couchcryptid/drone-weather-heatmap/internal/observability"
)

// OverlayPublisher receives every snapshot rendered after a successful load.
type OverlayPublisher interface {
	Publish(ctx context.Context, snapshot domain.Snapshot) error
}

// VisualizationState is everything the controller owns: the merged cells,
// the thresholds in force, the active selection, and the latest rendering.
type VisualizationState struct {
	Cells      []domain.Cell
	Thresholds domain.Thresholds
	Profile    string
	Snapshot   domain.Snapshot
}

// Controller handles load, threshold, and profile events one at a time.
// Each event that changes the state recomputes the whole overlay.
type Controller struct {
	source    CacheSource
	publisher OverlayPublisher
	profiles  *domain.ProfileTable
	logger    *slog.Logger
	metrics   *observability.Metrics

	mu    sync.Mutex
	state VisualizationState

	snapshot atomic.Pointer[domain.Snapshot]
	loaded   atomic.Bool
}

// New creates a Controller with profile selected. When profile is
// domain.CustomProfile the given thresholds are used, otherwise the
// profile's own. publisher may be nil.
func New(
	source CacheSource,
	publisher OverlayPublisher,
	profiles *domain.ProfileTable,
	profile string,
	thresholds domain.Thresholds,
	logger *slog.Logger,
	metrics *observability.Metrics,
) (*Controller, error) {
	thr, err := profiles.Resolve(profile, thresholds)
	if err != nil {
		return nil, err
	}
	if err := thr.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		source:    source,
		publisher: publisher,
		profiles:  profiles,
		logger:    logger,
		metrics:   metrics,
		state: VisualizationState{
			Thresholds: thr,
			Profile:    profile,
		},
	}
	initial := domain.NewSnapshot(thr, profile, nil, 0)
	c.state.Snapshot = initial
	c.snapshot.Store(&initial)
	return c, nil
}

// CheckReadiness returns nil once a cache load has succeeded.
func (c *Controller) CheckReadiness(_ context.Context) error {
	if !c.loaded.Load() {
		return errors.New("weather cache has not been loaded yet")
	}
	return nil
}

// Load fetches and merges the cache document, then recomputes the overlay.
// On failure the previous state is kept and a *LoadError is returned.
// Other events wait until the load resolves.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	cells, err := LoadCells(ctx, c.source)
	c.metrics.CacheLoadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.CacheLoads.WithLabelValues("error").Inc()
		c.logger.Error("weather cache load failed", "source", c.source.Name(), "error", err)
		return err
	}

	c.metrics.CacheLoads.WithLabelValues("success").Inc()
	c.metrics.CellsLoaded.Set(float64(len(cells)))
	c.logger.Info("weather cache loaded",
		"source", c.source.Name(),
		"cells", len(cells),
		"duration", time.Since(start),
	)

	c.state.Cells = cells
	c.loaded.Store(true)
	c.refresh(ctx, "load")
	return nil
}

// UpdateThresholds applies a partial threshold change, switches the
// selection to domain.CustomProfile, and recomputes the overlay.
func (c *Controller) UpdateThresholds(ctx context.Context, update domain.ThresholdUpdate) (domain.Snapshot, error) {
	if update.Empty() {
		return domain.Snapshot{}, fmt.Errorf("%w: no threshold given", domain.ErrInvalidThreshold)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := update.Apply(c.state.Thresholds)
	if err := next.Validate(); err != nil {
		return domain.Snapshot{}, err
	}

	c.state.Thresholds = next
	c.state.Profile = domain.CustomProfile
	return c.refresh(ctx, "thresholds"), nil
}

// SelectProfile overwrites all three thresholds with the named profile's
// and recomputes the overlay. Selecting domain.CustomProfile keeps the
// current thresholds.
func (c *Controller) SelectProfile(ctx context.Context, name string) (domain.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	thr, err := c.profiles.Resolve(name, c.state.Thresholds)
	if err != nil {
		return domain.Snapshot{}, err
	}

	c.state.Thresholds = thr
	c.state.Profile = name
	return c.refresh(ctx, "profile"), nil
}

// Snapshot returns the latest overlay without waiting for an in-flight event.
func (c *Controller) Snapshot() domain.Snapshot {
	return *c.snapshot.Load()
}

// State returns a copy of the controller state. Cells are shared and must
// not be modified.
func (c *Controller) State() VisualizationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Profiles lists the selectable presets in table order.
func (c *Controller) Profiles() []domain.Profile {
	return c.profiles.All()
}

// refresh renders every cell against the current thresholds and replaces
// the snapshot. The caller holds c.mu.
func (c *Controller) refresh(ctx context.Context, trigger string) domain.Snapshot {
	start := time.Now()
	layers, skipped := Render(c.state.Cells, c.state.Thresholds)

	for _, s := range skipped {
		reason := skipReason(s.Reason)
		c.metrics.CellsSkipped.WithLabelValues(reason).Inc()
		if errors.Is(s.Reason, domain.ErrHourlyMisaligned) {
			c.logger.Warn("cell rejected", "cell_id", s.CellID, "reason", reason, "error", s.Reason)
			continue
		}
		c.logger.Debug("cell skipped", "cell_id", s.CellID, "reason", reason)
	}

	snapshot := domain.NewSnapshot(c.state.Thresholds, c.state.Profile, layers, len(skipped))
	c.state.Snapshot = snapshot
	c.snapshot.Store(&snapshot)

	c.metrics.Refreshes.WithLabelValues(trigger).Inc()
	c.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	c.metrics.CellsRendered.Set(float64(len(layers)))
	c.logger.Debug("overlay refreshed",
		"trigger", trigger,
		"profile", snapshot.Profile,
		"layers", len(layers),
		"skipped", len(skipped),
	)

	c.publish(ctx, snapshot)
	return snapshot
}

// publish hands the snapshot to the publisher. Failures are logged and
// counted; they never undo a refresh.
func (c *Controller) publish(ctx context.Context, snapshot domain.Snapshot) {
	if c.publisher == nil || !c.loaded.Load() {
		return
	}
	if err := c.publisher.Publish(ctx, snapshot); err != nil {
		c.metrics.PublishErrors.Inc()
		c.logger.Error("publish overlay failed", "error", err, "layers", len(snapshot.Layers))
		return
	}
	c.metrics.OverlaysPublished.Inc()
}
