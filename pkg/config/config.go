// Package config loads geotrig settings from a TOML file.
//
// The file is optional: a missing file yields [Default]. Command-line flags
// are applied on top of the loaded values by the CLI.
//
// Example:
//
//	[server]
//	addr = "0.0.0.0:8080"
//	open_browser = false
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "1h"
//
//	[history]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/geotrig/pkg/cache"
	"github.com/matzehuels/geotrig/pkg/diagram"
	"github.com/matzehuels/geotrig/pkg/history"
)

// AppName names the configuration directory.
const AppName = "geotrig"

// Config is the full configuration file.
type Config struct {
	Server  Server  `toml:"server"`
	Log     Log     `toml:"log"`
	Cache   Cache   `toml:"cache"`
	History History `toml:"history"`
	Diagram Diagram `toml:"diagram"`
}

// Server configures the HTTP server.
type Server struct {
	Addr            string   `toml:"addr"`
	OpenBrowser     bool     `toml:"open_browser"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// Log configures logging. File enables a rotating JSON log next to stderr.
type Log struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	Compress   bool   `toml:"compress"`
}

// Cache configures the result cache.
type Cache struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	TTL           Duration `toml:"ttl"`
	Size          int      `toml:"size"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
}

// History configures the calculation history.
type History struct {
	Backend    string `toml:"backend"`
	Limit      int    `toml:"limit"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Diagram configures triangle diagrams.
type Diagram struct {
	Enabled bool    `toml:"enabled"`
	Format  string  `toml:"format"`
	Width   float64 `toml:"width"`
	Height  float64 `toml:"height"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: Server{
			Addr:            "127.0.0.1:5000",
			OpenBrowser:     true,
			ReadTimeout:     Duration(10 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			ShutdownTimeout: Duration(5 * time.Second),
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  16,
			MaxBackups: 3,
			Compress:   true,
		},
		Cache: Cache{
			Backend: cache.BackendMemory,
			TTL:     Duration(cache.DefaultTTL),
			Size:    cache.DefaultSize,
		},
		History: History{
			Backend:    history.BackendMemory,
			Limit:      history.DefaultLimit,
			Database:   history.DefaultDatabase,
			Collection: history.DefaultCollection,
		},
		Diagram: Diagram{
			Enabled: true,
			Format:  diagram.DefaultFormat,
			Width:   diagram.DefaultWidth,
			Height:  diagram.DefaultHeight,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/geotrig/config.toml, falling back to
// ~/.config/geotrig/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// Load reads path over the defaults and validates the result. An empty path
// means [DefaultPath]. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return cfg, nil
		}
	}

	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerations and ranges.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Cache.Backend {
	case cache.BackendMemory, cache.BackendFile, cache.BackendNone:
	case cache.BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New("cache.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl must not be negative")
	}
	switch c.History.Backend {
	case history.BackendMemory, history.BackendNone:
	case history.BackendMongo:
		if c.History.MongoURI == "" {
			return errors.New("history.mongo_uri is required for the mongo backend")
		}
	default:
		return fmt.Errorf("history.backend: unknown backend %q", c.History.Backend)
	}
	if err := diagram.ValidateFormat(c.Diagram.Format); err != nil {
		return fmt.Errorf("diagram.format: %w", err)
	}
	if c.Diagram.Width <= 0 || c.Diagram.Height <= 0 {
		return errors.New("diagram.width and diagram.height must be positive")
	}
	return nil
}

// CacheConfig converts the [cache] section for [cache.New].
func (c *Config) CacheConfig() cache.Config {
	return cache.Config{
		Backend:       c.Cache.Backend,
		Dir:           c.Cache.Dir,
		Size:          c.Cache.Size,
		TTL:           c.Cache.TTL.Std(),
		RedisAddr:     c.Cache.RedisAddr,
		RedisPassword: c.Cache.RedisPassword,
		RedisDB:       c.Cache.RedisDB,
	}
}

// HistoryConfig converts the [history] section for [history.New].
func (c *Config) HistoryConfig() history.Config {
	return history.Config{
		Backend:    c.History.Backend,
		Limit:      c.History.Limit,
		MongoURI:   c.History.MongoURI,
		Database:   c.History.Database,
		Collection: c.History.Collection,
	}
}

// DiagramOptions converts the [diagram] section for rendering.
func (c *Config) DiagramOptions() diagram.Options {
	return diagram.Options{Width: c.Diagram.Width, Height: c.Diagram.Height}
}
