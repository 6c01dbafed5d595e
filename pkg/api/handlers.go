package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/timegrid/pkg/buildinfo"
	"github.com/matzehuels/timegrid/pkg/calendar"
	"github.com/matzehuels/timegrid/pkg/column"
	"github.com/matzehuels/timegrid/pkg/errors"
	"github.com/matzehuels/timegrid/pkg/grid"
)

// GridRequest is the body of POST /grids and POST /export. A nil Calendar
// uses calendar.Default().
type GridRequest struct {
	Calendar *calendar.Config `json:"calendar,omitempty"`
	Options  grid.Options     `json:"options"`
}

// calendar builds the requested calendar and returns it with its content hash.
func (req GridRequest) calendar() (*calendar.Calendar, string, error) {
	cfg := calendar.DefaultConfig()
	if req.Calendar != nil {
		cfg = *req.Calendar
	}
	cal, err := cfg.Build()
	if err != nil {
		return nil, "", err
	}
	hash, err := cfg.Hash()
	if err != nil {
		return nil, "", err
	}
	return cal, hash, nil
}

// CreateResponse is the body returned by POST /grids.
type CreateResponse struct {
	ID   uuid.UUID   `json:"id"`
	Grid grid.Export `json:"grid"`
}

// HealthResponse is the body returned by GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Grids  int            `json:"grids"`
	Build  buildinfo.Info `json:"build"`
}

// DateResponse is the body returned by GET /grids/{id}/date.
type DateResponse struct {
	Date time.Time `json:"date"`
}

// PositionResponse is the body returned by GET /grids/{id}/position.
type PositionResponse struct {
	Position float64 `json:"position"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Grids: s.grids.len(), Build: buildinfo.Get()})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cal, _, err := req.calendar()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	g, err := s.builder.Build(r.Context(), cal, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id := s.grids.put(g)
	s.logger.Info("stored grid", "id", id, "columns", len(g.Columns()))

	s.writeJSON(w, http.StatusCreated, CreateResponse{ID: id, Grid: g.Export()})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cal, hash, err := req.calendar()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data, hit, err := s.builder.ExportJSON(r.Context(), cal, hash, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	g, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, g.Export())
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := gridID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !s.grids.delete(id) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "grid %s not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDate(w http.ResponseWriter, r *http.Request) {
	g, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	position, err := strconv.ParseFloat(q.Get("position"), 64)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid position %q", q.Get("position")))
		return
	}
	snap, err := parseSnap(q.Get("amount"), q.Get("unit"), q.Get("midpoint"), q.Get("frames"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, DateResponse{Date: g.DateFromPosition(position, snap)})
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	g, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	at, err := time.Parse(time.RFC3339Nano, r.URL.Query().Get("at"))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid instant %q (want RFC 3339)", r.URL.Query().Get("at")))
		return
	}

	s.writeJSON(w, http.StatusOK, PositionResponse{Position: g.PositionFromDate(at)})
}

func (s *Server) lookup(r *http.Request) (*grid.Grid, error) {
	id, err := gridID(r)
	if err != nil {
		return nil, err
	}
	g, ok := s.grids.get(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "grid %s not found", id)
	}
	return g, nil
}

func gridID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid grid id %q", raw)
	}
	return id, nil
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (GridRequest, error) {
	var req GridRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return GridRequest{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return req, nil
}

// parseSnap builds a snap from query values. A missing amount or unit leaves
// snapping disabled.
func parseSnap(amount, unit, midpoint, frames string) (column.Snap, error) {
	var snap column.Snap
	var err error

	if amount != "" {
		if snap.Amount, err = strconv.Atoi(amount); err != nil {
			return snap, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid amount %q", amount)
		}
	}
	if unit != "" {
		if snap.Unit, err = column.ParseUnit(unit); err != nil {
			return snap, err
		}
	}
	if snap.Midpoint, err = column.ParseMidpoint(midpoint); err != nil {
		return snap, err
	}
	if frames != "" {
		if snap.Frames, err = strconv.ParseBool(frames); err != nil {
			return snap, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid frames flag %q", frames)
		}
	}
	return snap, nil
}
