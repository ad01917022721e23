// Package config loads and saves the netscope configuration file.
//
// The file lives at $XDG_CONFIG_HOME/netscope/config.toml (falling back to
// ~/.config/netscope/config.toml). A missing file yields [Default]; keys
// absent from the file keep their default values.
//
//	[viewport]
//	width = 1024
//	height = 768
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[[networks]]
//	name = "Client A"
//	source = "data/client1.json"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/netscope/pkg/engine"
	"github.com/matzehuels/netscope/pkg/errors"
	"github.com/matzehuels/netscope/pkg/normalize"
	"github.com/matzehuels/netscope/pkg/sim"
	"github.com/matzehuels/netscope/pkg/source"
	"github.com/matzehuels/netscope/pkg/viewport"
)

const appName = "netscope"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config holds the netscope configuration.
type Config struct {
	Viewport   ViewportConfig   `toml:"viewport"`
	Layout     LayoutConfig     `toml:"layout"`
	Simulation SimulationConfig `toml:"simulation"`
	View       ViewConfig       `toml:"view"`
	Cache      CacheConfig      `toml:"cache"`
	Mongo      MongoConfig      `toml:"mongo"`
	Server     ServerConfig     `toml:"server"`
	Networks   []Network        `toml:"networks"`
}

// ViewportConfig is the size networks are normalized into.
type ViewportConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// LayoutConfig controls normalization and node sizing.
type LayoutConfig struct {
	Margin       float64 `toml:"margin"`
	DefaultScale float64 `toml:"default_scale"`
	NodeScale    float64 `toml:"node_scale"` // 0 follows the normalization scale
}

// SimulationConfig tunes the anchor simulation.
type SimulationConfig struct {
	Strength      float64 `toml:"strength"`
	WorkingAlpha  float64 `toml:"working_alpha"`
	AlphaMin      float64 `toml:"alpha_min"`
	AlphaDecay    float64 `toml:"alpha_decay"`
	SettleEpsilon float64 `toml:"settle_epsilon"`
}

// ViewConfig bounds pan and zoom.
type ViewConfig struct {
	MinScale float64 `toml:"min_scale"`
	MaxScale float64 `toml:"max_scale"`
	ZoomStep float64 `toml:"zoom_step"`
}

// CacheConfig selects the document cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"` // "file", "redis", "none"
	Dir       string   `toml:"dir,omitempty"`
	RedisAddr string   `toml:"redis_addr,omitempty"`
	TTL       Duration `toml:"ttl"`
}

// MongoConfig locates the MongoDB network store. An empty URI disables
// mongo: references.
type MongoConfig struct {
	URI        string `toml:"uri,omitempty"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig configures netscope serve.
type ServerConfig struct {
	Addr        string   `toml:"addr"`
	IdleTimeout Duration `toml:"idle_timeout"`
}

// Network is a catalog entry.
type Network struct {
	Name   string `toml:"name"`
	Source string `toml:"source"`
}

// Duration is a time.Duration written as a string ("24h", "90s").
type Duration struct{ time.Duration }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the default configuration.
func Default() *Config {
	sc := sim.DefaultConfig()
	lim := viewport.DefaultLimits()
	return &Config{
		Viewport: ViewportConfig{Width: engine.DefaultWidth, Height: engine.DefaultHeight},
		Layout:   LayoutConfig{Margin: normalize.DefaultMargin, DefaultScale: normalize.DefaultScale},
		Simulation: SimulationConfig{
			Strength:      sc.Strength,
			WorkingAlpha:  sc.WorkingAlpha,
			AlphaMin:      sc.AlphaMin,
			AlphaDecay:    sc.AlphaDecay,
			SettleEpsilon: sc.SettleEpsilon,
		},
		View:   ViewConfig{MinScale: lim.MinScale, MaxScale: lim.MaxScale, ZoomStep: engine.DefaultZoomStep},
		Cache:  CacheConfig{Backend: CacheFile, TTL: Duration{24 * time.Hour}},
		Mongo:  MongoConfig{Database: source.DefaultMongoDatabase, Collection: source.DefaultMongoCollection},
		Server: ServerConfig{Addr: "localhost:8080", IdleTimeout: Duration{30 * time.Minute}},
	}
}

// Dir returns the netscope config directory.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName)
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// CacheDir returns the default file cache directory.
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads the config file at path, or at [Path] when path is empty.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	return cfg, nil
}

// Save writes cfg to path, or to [Path] when path is empty.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks value ranges and catalog consistency.
func (c *Config) Validate() error {
	switch {
	case c.Viewport.Width <= 0 || c.Viewport.Height <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "viewport size must be positive")
	case c.Layout.Margin <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "layout.margin must be positive")
	case c.Layout.NodeScale < 0:
		return errors.New(errors.ErrCodeInvalidInput, "layout.node_scale must not be negative")
	case c.Simulation.Strength <= 0 || c.Simulation.Strength > 1:
		return errors.New(errors.ErrCodeInvalidInput, "simulation.strength must be in (0, 1]")
	case c.View.MinScale <= 0 || c.View.MinScale > c.View.MaxScale:
		return errors.New(errors.ErrCodeInvalidInput, "view scale limits must satisfy 0 < min_scale <= max_scale")
	case c.View.ZoomStep <= 1:
		return errors.New(errors.ErrCodeInvalidInput, "view.zoom_step must be greater than 1")
	}

	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}

	seen := make(map[string]bool, len(c.Networks))
	for i, n := range c.Networks {
		if n.Name == "" || n.Source == "" {
			return errors.New(errors.ErrCodeInvalidInput, "networks[%d] needs a name and a source", i)
		}
		if seen[n.Name] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate network %q", n.Name)
		}
		seen[n.Name] = true
	}
	return nil
}

// EngineOptions returns engine options for the configured layout,
// simulation and view settings.
func (c *Config) EngineOptions() engine.Options {
	sc := sim.DefaultConfig()
	sc.Strength = c.Simulation.Strength
	sc.WorkingAlpha = c.Simulation.WorkingAlpha
	sc.AlphaMin = c.Simulation.AlphaMin
	sc.AlphaDecay = c.Simulation.AlphaDecay
	sc.SettleEpsilon = c.Simulation.SettleEpsilon

	return engine.Options{
		Width:        c.Viewport.Width,
		Height:       c.Viewport.Height,
		Margin:       c.Layout.Margin,
		DefaultScale: c.Layout.DefaultScale,
		NodeScale:    c.Layout.NodeScale,
		Sim:          sc,
		Limits:       viewport.Limits{MinScale: c.View.MinScale, MaxScale: c.View.MaxScale},
		ZoomStep:     c.View.ZoomStep,
	}
}

// Catalog returns the configured networks as source entries.
func (c *Config) Catalog() []source.Entry {
	entries := make([]source.Entry, len(c.Networks))
	for i, n := range c.Networks {
		entries[i] = source.Entry{Name: n.Name, Source: n.Source}
	}
	return entries
}
