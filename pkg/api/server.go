// Package api serves grids over HTTP.
//
// Grids are built from a JSON request holding grid options and an optional
// inline calendar, stored in memory under a UUID and queried by position or
// date:
//
//	POST   /grids                    build and store a grid
//	GET    /grids/{id}               export a stored grid
//	DELETE /grids/{id}               forget a stored grid
//	GET    /grids/{id}/date          ?position=&amount=&unit=&midpoint=&frames=
//	GET    /grids/{id}/position      ?at=<RFC 3339>
//	POST   /export                   build and export without storing, cached
//	GET    /healthz
//
// Errors are returned as {"code": ..., "message": ...} with a status derived
// from the error code.
package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/timegrid/pkg/grid"
	"github.com/matzehuels/timegrid/pkg/observability"
)

const (
	// DefaultMaxGrids bounds the in-memory grid store.
	DefaultMaxGrids = 1000

	// maxBodyBytes bounds request bodies.
	maxBodyBytes = 1 << 20

	shutdownTimeout = 10 * time.Second
)

// Server is the HTTP API.
type Server struct {
	builder *grid.Builder
	grids   *store
	logger  *log.Logger
}

// New creates a server. A nil builder uses grid.NewBuilder defaults; a nil
// logger uses log.Default().
func New(builder *grid.Builder, logger *log.Logger, maxGrids int) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if builder == nil {
		builder = grid.NewBuilder(nil, nil, logger)
	}
	if maxGrids <= 0 {
		maxGrids = DefaultMaxGrids
	}
	return &Server{builder: builder, grids: newStore(maxGrids), logger: logger}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Post("/export", s.handleExport)
	r.Route("/grids", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Get("/date", s.handleDate)
			r.Get("/position", s.handlePosition)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// instrument logs every request and reports it to the HTTP hooks.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, route)
		hooks.OnResponse(r.Context(), r.Method, route, status, elapsed)

		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
