package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/corral/pkg/buildinfo"
	"github.com/matzehuels/corral/pkg/cache"
	"github.com/matzehuels/corral/pkg/config"
	"github.com/matzehuels/corral/pkg/pipeline"
	"github.com/matzehuels/corral/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

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

	configPath string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Corral realizes qubit coupling patterns with shared couplers",
		Long: `Corral builds a bipartite qubit/coupler graph for a coupling pattern.

Every required qubit pair ends up sharing a coupler, no coupler joins a pair
that the pattern leaves uncoupled, and qubit and coupler degrees stay within
the given caps.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/corral/config.toml)")

	// Register all subcommands
	root.AddCommand(c.realizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.topologyCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner and Store Factories
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if c.cfg.Cache.KeyPrefix != "" {
		keyer = cache.NewScopedKeyer(nil, c.cfg.Cache.KeyPrefix)
	}
	runner := pipeline.NewRunner(cc, keyer, c.Logger)
	runner.TTL = c.cfg.Cache.TTL.Duration
	return runner, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, c.cfg.Cache.RedisURL)
	default:
		dir, err := c.cfg.CacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// newStore opens the configured record store. Commands that outlive a
// single process (history, realize --save) get a file store in place of
// the memory backend.
func (c *CLI) newStore(ctx context.Context, persistent bool) (store.Store, error) {
	switch c.cfg.Store.Backend {
	case config.StoreMongo:
		return store.NewMongoStore(ctx, c.cfg.Store.MongoURI, c.cfg.Store.Database)
	case config.StoreMemory:
		if !persistent {
			return store.NewMemoryStore(), nil
		}
	}
	dir, err := c.cfg.StoreDir()
	if err != nil {
		return nil, fmt.Errorf("store dir: %w", err)
	}
	return store.NewFileStore(dir)
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s, fallback string) []string {
	if s == "" {
		return []string{fallback}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, strings.ToLower(f))
		}
	}
	return out
}
