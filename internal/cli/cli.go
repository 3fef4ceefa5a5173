// Package cli implements the geotrig command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/geotrig/pkg/buildinfo"
	"github.com/matzehuels/geotrig/pkg/cache"
	"github.com/matzehuels/geotrig/pkg/calc"
	"github.com/matzehuels/geotrig/pkg/config"
	"github.com/matzehuels/geotrig/pkg/diagram"
	"github.com/matzehuels/geotrig/pkg/history"
	"github.com/matzehuels/geotrig/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "geotrig"

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
	Config *config.Config

	out        io.Writer // log destination before a log file is attached
	configPath string
	verbose    bool
	logFile    io.Closer
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		out:    w,
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
		Short: "Geotrig transforms points and solves triangles",
		Long: `Geotrig is a 2D geometry and triangle trigonometry calculator. It serves
an interactive page in the browser and runs the same calculations from the
command line, with worked steps and triangle diagrams.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return c.setup(cmd) },
		PersistentPostRun: func(cmd *cobra.Command, args []string) { c.teardown() },
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/geotrig/config.toml)")

	// Register all subcommands
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.calcCommand())
	root.AddCommand(c.drawCommand())
	root.AddCommand(c.opsCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration, applies logging settings and registers the
// log-backed observability hooks.
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if c.verbose {
		level = log.DebugLevel
	}
	c.SetLogLevel(level)

	if cfg.Log.File != "" {
		lf := newFileWriter(cfg.Log)
		c.Logger.SetOutput(io.MultiWriter(c.out, lf))
		c.logFile = lf
		c.Logger.Debug("logging to file", "path", lf.Filename)
	}

	hooks := &logHooks{logger: c.Logger}
	observability.SetCalcHooks(hooks)
	observability.SetCacheHooks(hooks)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

func (c *CLI) teardown() {
	if c.logFile == nil {
		return
	}
	c.Logger.SetOutput(c.out)
	_ = c.logFile.Close()
	c.logFile = nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a calculation runner from the configuration. A non-empty
// backend overrides the configured cache backend.
func (c *CLI) newRunner(ctx context.Context, backend string) (*calc.Runner, error) {
	cacheCfg := c.Config.CacheConfig()
	if backend != "" {
		cacheCfg.Backend = backend
	}
	ch, err := cache.New(ctx, cacheCfg)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	store, err := history.New(ctx, c.Config.HistoryConfig())
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("open history: %w", err)
	}

	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "v"+buildinfo.Version+":")
	r := calc.NewRunner(ch, keyer, store, c.Logger)
	if ttl := c.Config.Cache.TTL.Std(); ttl > 0 {
		r.TTL = ttl
	}
	c.Logger.Debug("runner ready", "cache", cacheCfg.Backend, "history", c.Config.History.Backend)
	return r, nil
}

// oneShotBackend picks the cache for commands that exit after one result.
// An in-memory cache dies with the process, so the file cache replaces it.
func (c *CLI) oneShotBackend(noCache bool) string {
	switch {
	case noCache:
		return cache.BackendNone
	case c.Config.Cache.Backend == cache.BackendMemory:
		return cache.BackendFile
	}
	return ""
}

// closeRunner releases the runner's backends, logging any failure.
func (c *CLI) closeRunner(ctx context.Context, r *calc.Runner) {
	if err := r.Close(context.WithoutCancel(ctx)); err != nil {
		c.Logger.Warn("close runner", "error", err)
	}
}

// =============================================================================
// Options Helpers
// =============================================================================

// diagramOptions returns the configured rendering options.
func (c *CLI) diagramOptions() calc.Options {
	d := c.Config.Diagram
	return calc.Options{
		Format:       d.Format,
		SkipDiagrams: !d.Enabled,
		Width:        d.Width,
		Height:       d.Height,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s, fallback string) []string {
	if s == "" {
		return []string{fallback}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// validateFormats checks every entry of formats.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if err := diagram.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}
