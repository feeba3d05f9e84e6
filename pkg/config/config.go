// Package config loads corral settings from a TOML file.
//
// The file has one table per concern:
//
//	[realize]
//	max_qubit_degree = 4
//	max_coupler_degree = 2
//
//	[cache]
//	backend = "file"     # file | redis | none
//	ttl = "24h"
//
//	[store]
//	backend = "memory"   # memory | file | mongo
//
//	[server]
//	addr = ":8080"
//
// Missing keys keep their [Default] values. Command-line flags override
// whatever the file sets.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/corral/pkg/bipartite"
	"github.com/matzehuels/corral/pkg/errors"
)

// AppName names the XDG subdirectories used for config and cache.
const AppName = "corral"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreMongo  = "mongo"
)

// Config is the full settings tree.
type Config struct {
	Realize RealizeConfig `toml:"realize"`
	Cache   CacheConfig   `toml:"cache"`
	Store   StoreConfig   `toml:"store"`
	Server  ServerConfig  `toml:"server"`
}

// RealizeConfig holds the default degree caps.
type RealizeConfig struct {
	MaxQubitDegree   int    `toml:"max_qubit_degree"`
	MaxCouplerDegree int    `toml:"max_coupler_degree"`
	SkipFill         bool   `toml:"skip_fill"`
	CouplerPrefix    string `toml:"coupler_prefix"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir,omitempty"`
	RedisURL string   `toml:"redis_url,omitempty"`
	TTL      Duration `toml:"ttl"`

	// KeyPrefix scopes every key, so deployments can share one Redis.
	KeyPrefix string `toml:"key_prefix,omitempty"`
}

// StoreConfig selects the realization store used by the server.
type StoreConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir,omitempty"`
	MongoURI string `toml:"mongo_uri,omitempty"`
	Database string `toml:"database"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// Duration is a time.Duration written as a Go duration string ("24h").
type Duration struct {
	time.Duration
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

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Realize: RealizeConfig{
			MaxQubitDegree:   4,
			MaxCouplerDegree: 2,
			CouplerPrefix:    bipartite.DefaultCouplerPrefix,
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     Duration{24 * time.Hour},
		},
		Store: StoreConfig{
			Backend:  StoreMemory,
			Database: AppName,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: Duration{10 * time.Second},
		},
	}
}

// Load reads the TOML file at path on top of [Default] and validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %s", path, undecoded[0])
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to [Default]
// otherwise. An empty path means [Path].
func LoadOrDefault(path string) (Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Write encodes cfg as TOML.
func (c Config) Write(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := errors.ValidateDegrees(c.Realize.MaxQubitDegree, c.Realize.MaxCouplerDegree); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis requires redis_url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	switch c.Store.Backend {
	case StoreMemory, StoreFile:
	case StoreMongo:
		if c.Store.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store backend mongo requires mongo_uri")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server addr must not be empty")
	}
	return nil
}

// Bipartite returns the realize section as a [bipartite.Config].
func (c Config) Bipartite() bipartite.Config {
	return bipartite.Config{
		MaxQubitDegree:   c.Realize.MaxQubitDegree,
		MaxCouplerDegree: c.Realize.MaxCouplerDegree,
		SkipFill:         c.Realize.SkipFill,
		CouplerPrefix:    c.Realize.CouplerPrefix,
	}
}

// Path returns the config file location using XDG
// (~/.config/corral/config.toml).
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the cache directory: the configured dir, or the XDG
// cache location (~/.cache/corral/).
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// StoreDir returns the file store directory: the configured dir, or the
// XDG data location (~/.local/share/corral/realizations/).
func (c Config) StoreDir() (string, error) {
	if c.Store.Dir != "" {
		return c.Store.Dir, nil
	}
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "realizations"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", AppName, "realizations"), nil
}
