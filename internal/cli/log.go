package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/timegrid/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Built 7 columns (1ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Log-backed observability hooks
// =============================================================================

// logHooks reports grid, cache and HTTP events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

// installLogHooks registers logHooks for every hook category.
func installLogHooks(l *log.Logger) {
	h := logHooks{logger: l.WithPrefix("hooks")}
	observability.SetGridHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnBuildStart(_ context.Context, unit string, from, to time.Time) {
	h.logger.Debug("grid build started", "unit", unit, "from", from, "to", to)
}

func (h logHooks) OnBuildComplete(_ context.Context, unit string, columns int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("grid build failed", "unit", unit, "duration", d, "error", err)
		return
	}
	h.logger.Debug("grid build complete", "unit", unit, "columns", columns, "duration", d)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, route string) {}

func (h logHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("http", "method", method, "route", route, "status", status, "duration", d)
}

func (h logHooks) OnError(_ context.Context, method, route string, err error) {
	h.logger.Debug("http error", "method", method, "route", route, "error", err)
}
