// Package cli implements the timegrid command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/timegrid/pkg/buildinfo"
	"github.com/matzehuels/timegrid/pkg/cache"
	"github.com/matzehuels/timegrid/pkg/grid"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "timegrid"

	// Cache backends accepted by --cache.
	cacheNone  = "none"
	cacheFile  = "file"
	cacheRedis = "redis"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level, grid, cache and
// HTTP events are logged through the observability hooks as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		installLogHooks(c.Logger)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Timegrid maps time onto pixel columns",
		Long:         `Timegrid splits a time range into columns, partitions each column into working and non-working frames from a calendar, and converts between pixel positions and dates, optionally cropping frames out of the axis.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.columnsCommand())
	root.AddCommand(c.dateCommand())
	root.AddCommand(c.positionCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// =============================================================================
// Builder Factory
// =============================================================================

// newBuilder creates a grid builder for CLI use, backed by the file cache
// unless noCache is set.
func (c *CLI) newBuilder(noCache bool) (*grid.Builder, error) {
	backend := cacheFile
	if noCache {
		backend = cacheNone
	}
	cc, err := c.newCache(context.Background(), backend, cache.RedisConfig{})
	if err != nil {
		return nil, err
	}
	return grid.NewBuilder(cc, nil, c.Logger), nil
}

// newCache opens the named cache backend. A file cache whose directory
// cannot be determined degrades to no caching.
func (c *CLI) newCache(ctx context.Context, backend string, redisCfg cache.RedisConfig) (cache.Cache, error) {
	switch backend {
	case cacheNone:
		return cache.NewNullCache(), nil
	case cacheRedis:
		rc, err := cache.NewRedisCache(ctx, redisCfg)
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		dir, err := cacheDir()
		if err != nil {
			c.Logger.Warn("cache disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/timegrid/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
