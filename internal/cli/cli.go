// Package cli implements the bvg command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tbl3rd/bvg/pkg/buildinfo"
	"github.com/tbl3rd/bvg/pkg/cache"
	"github.com/tbl3rd/bvg/pkg/config"
	"github.com/tbl3rd/bvg/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "bvg"
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

	configPath string
	config     config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "bvg",
		Short:        "Bvg infers genealogies from populations of bit vectors",
		Long: `Bvg reconstructs the descent tree of a population of binary vectors.

Given N vectors of N bits each, it scores every pair by how far their
bit difference falls from the count a known mutation rate predicts,
greedily assembles a spanning structure from the closest pairs, and
peels leaves to locate the progenitor. The result is a parent table:
one line per member, -1 marking the root.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			cmd.SetContext(ctx)
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to config file (default ~/.config/bvg/config.toml)")

	// Register all subcommands
	root.AddCommand(c.inferCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig resolves the effective configuration before any command
// runs. An explicit --config path must exist; the default location is
// optional.
func (c *CLI) loadConfig() error {
	if c.configPath != "" {
		cfg, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		c.config = cfg
		return nil
	}
	cfg, err := config.LoadDefault()
	if err != nil {
		return err
	}
	c.config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Callers own the
// runner and must Close it to release the cache backend.
func (c *CLI) newRunner(cmd *cobra.Command, noCache bool) (*pipeline.Runner, error) {
	backend, err := c.newCache(cmd, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(backend, c.Logger), nil
}

// newCache builds the cache backend selected by the configuration.
// Backend failures fall back to no caching rather than aborting: a
// dead redis should not stop an inference the CPU can do anyway.
func (c *CLI) newCache(cmd *cobra.Command, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.config.Cache.Backend {
	case "off":
		return cache.NewNullCache(), nil
	case "redis":
		backend, err := cache.NewRedisCache(cmd.Context(), c.config.Cache.RedisAddr)
		if err != nil {
			c.Logger.Warn("redis unavailable, caching disabled", "addr", c.config.Cache.RedisAddr, "err", err)
			return cache.NewNullCache(), nil
		}
		return backend, nil
	case "mongo":
		backend, err := cache.NewMongoCache(cmd.Context(), c.config.Cache.MongoURI, c.config.Cache.MongoDatabase, c.config.Cache.MongoCollection)
		if err != nil {
			c.Logger.Warn("mongodb unavailable, caching disabled", "uri", c.config.Cache.MongoURI, "err", err)
			return cache.NewNullCache(), nil
		}
		return backend, nil
	default:
		dir, err := c.cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory, preferring the configured
// override, then the XDG standard (~/.cache/bvg/).
func (c *CLI) cacheDir() (string, error) {
	if c.config.Cache.Dir != "" {
		return c.config.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Input Helpers
// =============================================================================

// readInput reads the population bytes from path, or from stdin when
// path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
