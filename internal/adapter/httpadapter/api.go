package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/couchcryptid/drone-weather-heatmap/internal/domain"
	"github.com/couchcryptid/drone-weather-heatmap/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

const maxRequestBytes = 1 << 16

type profilesResponse struct {
	Selected string           `json:"selected"`
	Custom   string           `json:"custom"`
	Profiles []domain.Profile `json:"profiles"`
}

type profileRequest struct {
	Profile string `json:"profile"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleOverlay(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.viz.Snapshot())
}

func (s *Server) handleProfiles(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, profilesResponse{
		Selected: s.viz.Snapshot().Profile,
		Custom:   domain.CustomProfile,
		Profiles: s.viz.Profiles(),
	})
}

func (s *Server) handleThresholds(w http.ResponseWriter, r *http.Request) {
	var update domain.ThresholdUpdate
	if err := decodeBody(w, r, &update); err != nil {
		s.writeError(w, err)
		return
	}

	snapshot, err := s.viz.UpdateThresholds(r.Context(), update)
	if err != nil {
		s.writeError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	snapshot, err := s.viz.SelectProfile(r.Context(), req.Profile)
	if err != nil {
		s.writeError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.viz.Load(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, s.viz.Snapshot())
}

// badRequestError marks a body that could not be decoded.
type badRequestError struct{ err error }

func (e badRequestError) Error() string { return "decode request: " + e.err.Error() }
func (e badRequestError) Unwrap() error { return e.err }

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequestError{err: err}
	}
	if dec.More() {
		return badRequestError{err: errors.New("unexpected data after JSON body")}
	}
	return nil
}

// writeError maps controller errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var loadErr *pipeline.LoadError
	var badReq badRequestError
	switch {
	case errors.As(err, &badReq),
		errors.Is(err, domain.ErrInvalidThreshold),
		errors.Is(err, domain.ErrUnknownProfile):
		status = http.StatusBadRequest
	case errors.As(err, &loadErr):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("api request failed", "status", status, "error", err)
	}
	sharedobs.WriteJSON(w, status, errorResponse{Error: err.Error()})
}
