// Package cli implements the netscope command-line interface.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netscope/pkg/buildinfo"
	"github.com/matzehuels/netscope/pkg/cache"
	"github.com/matzehuels/netscope/pkg/config"
	"github.com/matzehuels/netscope/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "netscope"

	// defaultLoadTimeout bounds a single network load.
	defaultLoadTimeout = 30 * time.Second

	// defaultSettleTicks bounds the simulation when settling a snapshot.
	defaultSettleTicks = 2000
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
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level. At debug level source and cache
// events are logged as well.
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
		Short:        "Netscope explores positioned networks interactively",
		Long:         `Netscope loads networks with data-supplied node positions, relaxes them around their anchors, and lets you inspect, render, serve and explore them in the terminal.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if ctx := cmd.Context(); ctx != nil {
				cmd.SetContext(withLogger(ctx, c.Logger))
			}
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")

	// Register all subcommands
	root.AddCommand(c.networksCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("config loaded", "path", c.configFile(), "networks", len(cfg.Networks))
	return nil
}

func (c *CLI) configFile() string {
	if c.configPath != "" {
		return c.configPath
	}
	return config.Path()
}

// =============================================================================
// Resolver Factory
// =============================================================================

// newResolver builds a source resolver from the configuration. The returned
// cleanup releases the cache and the mongo connection.
func (c *CLI) newResolver(ctx context.Context, noCache bool) (*source.Resolver, func(), error) {
	dc, err := newCache(ctx, c.Config.Cache, noCache)
	if err != nil {
		return nil, nil, err
	}
	closers := []func(){func() { dc.Close() }}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	opts := source.ResolverOptions{
		HTTP: source.NewHTTPSource(source.HTTPOptions{
			Cache: dc,
			TTL:   c.Config.Cache.TTL.Duration,
		}),
		Catalog: c.Config.Catalog(),
		Logger:  c.Logger,
	}

	if m := c.Config.Mongo; m.URI != "" {
		ms, err := source.NewMongoSource(ctx, source.MongoConfig{
			URI:        m.URI,
			Database:   m.Database,
			Collection: m.Collection,
		})
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, func() { ms.Close(context.Background()) })
		opts.Mongo = ms
	}

	return source.NewResolver(opts), cleanup, nil
}

// newCache returns the configured document cache. A file cache that cannot
// be created degrades to no caching.
func newCache(ctx context.Context, cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.RedisAddr})
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, falling back to the XDG
// default (~/.cache/netscope/).
func cacheDir(cfg config.CacheConfig) (string, error) {
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	return config.CacheDir()
}
