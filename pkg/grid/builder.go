package grid

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/timegrid/pkg/cache"
	"github.com/matzehuels/timegrid/pkg/column"
	"github.com/matzehuels/timegrid/pkg/observability"
)

// cacheKeyType labels grid entries in cache hooks.
const cacheKeyType = "grid"

// Builder builds grids with caching.
// Both CLI and API use it so that caching and logging behave the same.
//
// The Builder is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Builder with different options.
type Builder struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewBuilder creates a builder.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewBuilder(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Builder {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{Cache: c, Keyer: keyer, Logger: logger}
}

// Build generates a grid, reporting to the grid hooks.
func (b *Builder) Build(ctx context.Context, cal column.Calendar, opts Options) (*Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	hooks := observability.Grid()
	hooks.OnBuildStart(ctx, string(opts.Unit), opts.From, opts.To)

	start := time.Now()
	g, err := Generate(cal, opts)
	elapsed := time.Since(start)

	if err != nil {
		hooks.OnBuildComplete(ctx, string(opts.Unit), 0, elapsed, err)
		return nil, fmt.Errorf("build grid: %w", err)
	}
	hooks.OnBuildComplete(ctx, string(opts.Unit), len(g.columns), elapsed, nil)

	b.Logger.Debug("built grid",
		"unit", opts.Unit,
		"columns", len(g.columns),
		"width", g.width,
		"duration", elapsed)
	return g, nil
}

// ExportJSON returns the JSON export of the grid for cal and opts, from the
// cache when possible. calendarHash identifies cal's content; an empty hash
// bypasses the cache. The boolean reports a cache hit.
//
// Cache failures are logged and never fail the export.
func (b *Builder) ExportJSON(ctx context.Context, cal column.Calendar, calendarHash string, opts Options) ([]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, fmt.Errorf("invalid options: %w", err)
	}

	var key string
	if calendarHash != "" {
		key = b.Keyer.GridKey(calendarHash, opts.KeyOpts())
		if data, hit := b.lookup(ctx, key); hit {
			return data, true, nil
		}
	}

	g, err := b.Build(ctx, cal, opts)
	if err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		return nil, false, err
	}
	data := buf.Bytes()

	if key != "" {
		b.store(ctx, key, data)
	}
	return data, false, nil
}

func (b *Builder) lookup(ctx context.Context, key string) ([]byte, bool) {
	var data []byte
	var hit bool
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		data, hit, err = b.Cache.Get(ctx, key)
		return err
	})
	if err != nil {
		b.Logger.Warn("cache read failed", "key", key, "error", err)
		return nil, false
	}

	if hit {
		observability.Cache().OnCacheHit(ctx, cacheKeyType)
		b.Logger.Debug("cache hit", "key", key)
	} else {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
	}
	return data, hit
}

func (b *Builder) store(ctx context.Context, key string, data []byte) {
	err := cache.RetryWithBackoff(ctx, func() error {
		return b.Cache.Set(ctx, key, data, cache.DefaultTTL)
	})
	if err != nil {
		b.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}
