package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/timegrid/pkg/api"
	"github.com/matzehuels/timegrid/pkg/cache"
	"github.com/matzehuels/timegrid/pkg/errors"
	"github.com/matzehuels/timegrid/pkg/grid"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		backend   string
		redisCfg  cache.RedisConfig
		keyPrefix string
		maxGrids  int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the grid HTTP API",
		Long: `Serve the grid HTTP API.

Grids are stored in memory. Exports from POST /export are cached in the
selected backend: none, file (the local cache directory) or redis.`,
		Example: `  timegrid serve --addr :8080
  timegrid serve --cache redis --redis-addr localhost:6379 --key-prefix staging`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch backend {
			case cacheNone, cacheFile, cacheRedis:
			default:
				return errors.New(errors.ErrCodeInvalidInput, "invalid cache backend: %q (must be one of: none, file, redis)", backend)
			}

			cc, err := c.newCache(cmd.Context(), backend, redisCfg)
			if err != nil {
				return err
			}
			defer cc.Close()

			var keyer cache.Keyer
			if keyPrefix != "" {
				keyer = cache.NewScopedKeyer(nil, strings.TrimSuffix(keyPrefix, ":")+":")
			}

			srv := api.New(grid.NewBuilder(cc, keyer, c.Logger), c.Logger, maxGrids)
			printInfo("Serving on %s", addr)
			printDetail("Cache: %s", backend)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&addr, "addr", ":8080", "listen address")
	fs.StringVar(&backend, "cache", cacheFile, "export cache backend: none, file, redis")
	fs.StringVar(&redisCfg.Addr, "redis-addr", "localhost:6379", "redis address")
	fs.StringVar(&redisCfg.Password, "redis-password", "", "redis password")
	fs.IntVar(&redisCfg.DB, "redis-db", 0, "redis database")
	fs.DurationVar(&redisCfg.DialTimeout, "redis-timeout", 5*time.Second, "redis dial timeout")
	fs.StringVar(&keyPrefix, "key-prefix", "", "scope cache keys under this prefix")
	fs.IntVar(&maxGrids, "max-grids", api.DefaultMaxGrids, "maximum number of grids kept in memory")
	_ = cmd.RegisterFlagCompletionFunc("cache", fixedCompletions(cacheNone, cacheFile, cacheRedis))

	return cmd
}
