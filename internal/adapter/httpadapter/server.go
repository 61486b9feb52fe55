package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/drone-weather-heatmap/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Visualizer is the control surface of the overlay controller.
type Visualizer interface {
	Load(ctx context.Context) error
	Snapshot() domain.Snapshot
	Profiles() []domain.Profile
	UpdateThresholds(ctx context.Context, update domain.ThresholdUpdate) (domain.Snapshot, error)
	SelectProfile(ctx context.Context, name string) (domain.Snapshot, error)
}

// Server exposes the overlay API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	viz        Visualizer
	logger     *slog.Logger
}

// minWriteTimeout is the write deadline for responses that never wait on a fetch.
const minWriteTimeout = 10 * time.Second

// writeTimeout leaves room for POST /api/reload, which runs a full cache
// fetch bounded by cacheTimeout before it writes its response.
func writeTimeout(cacheTimeout time.Duration) time.Duration {
	return max(cacheTimeout+minWriteTimeout, minWriteTimeout)
}

// NewServer creates an HTTP server with the /api routes and /healthz, /readyz, and /metrics.
// cacheTimeout is the fetch timeout of the cache source behind viz.
func NewServer(addr string, ready sharedobs.ReadinessChecker, viz Visualizer, cacheTimeout time.Duration, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: writeTimeout(cacheTimeout),
			IdleTimeout:  60 * time.Second,
		},
		viz:    viz,
		logger: logger,
	}

	mux.Handle("GET /api/overlay", noStore(s.handleOverlay))
	mux.Handle("GET /api/profiles", noStore(s.handleProfiles))
	mux.Handle("PUT /api/thresholds", noStore(s.handleThresholds))
	mux.Handle("PUT /api/profile", noStore(s.handleProfile))
	mux.Handle("POST /api/reload", noStore(s.handleReload))

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// noStore disables client caching so a recoloured overlay is never served stale.
func noStore(h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		h(w, r)
	})
}
