// Package cli implements the docmark command-line interface.
//
// # Commands
//
//   - render:    transpile a document and write html, json, text or outline artifacts
//   - blocks:    print the block list of a document as a table
//   - view:      interactive terminal preview that re-renders on file change
//   - serve:     run the HTTP API with live preview sessions
//   - grammars:  list grammars and output formats
//   - cache:     manage the artifact cache
//   - completion: generate shell completion scripts
//
// Settings are resolved flags first, then the TOML config file
// (see [config.DefaultPath]), then built-in defaults.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/docmark/pkg/buildinfo"
	"github.com/matzehuels/docmark/pkg/cache"
	"github.com/matzehuels/docmark/pkg/config"
	"github.com/matzehuels/docmark/pkg/errors"
	"github.com/matzehuels/docmark/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "docmark"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
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
		Short: "Docmark turns lightweight markup into structured blocks and styled HTML",
		Long: `Docmark transpiles a tiny line-oriented markup language into typed blocks
and renders them as HTML fragments, standalone documents, terminal text
or a document outline graph.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/docmark/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.blocksCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.grammarsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Execute builds the root command and runs it with ctx.
func Execute(ctx context.Context, args []string) error {
	c := New(os.Stderr, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(store, c.newKeyer(), c.Logger)
	r.TTL = c.Config.Cache.TTL.Duration
	return r, nil
}

// newKeyer returns nil (the runner default) unless the backend is Redis,
// where a shared instance may hold keys of other applications.
func (c *CLI) newKeyer() cache.Keyer {
	if c.Config.Cache.Backend != config.BackendRedis {
		return nil
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+":")
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr: c.Config.Cache.RedisAddr,
			DB:   c.Config.Cache.RedisDB,
		})
	default:
		dir, err := c.cacheDir()
		if err != nil {
			c.Logger.Warn("cache disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, defaulting to the XDG
// cache location (~/.cache/docmark/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return defaultCacheDir()
}

func defaultCacheDir() (string, error) {
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
// Options Helpers
// =============================================================================

// pipelineOptions fills opts from the config wherever a flag left it empty.
func (c *CLI) pipelineOptions(opts pipeline.Options) pipeline.Options {
	if opts.Grammar == "" {
		opts.Grammar = c.Config.Grammar
	}
	if len(opts.Formats) == 0 && c.Config.Format != "" {
		opts.Formats = []string{c.Config.Format}
	}
	if opts.Placeholder == "" {
		opts.Placeholder = c.Config.Placeholder
	}
	opts.Logger = c.Logger
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
// An empty string yields nil so the config default applies.
func parseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// inputPath returns the single positional argument, or stdin when none.
func inputPath(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}

// validateOutput rejects output paths the filesystem cannot take.
func validateOutput(path string) error {
	if path == "" || path == "-" {
		return nil
	}
	return errors.ValidateOutputPath(path)
}
