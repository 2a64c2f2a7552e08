// Package config loads the docmark configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/docmark/config.toml, or
// ~/.config/docmark/config.toml when XDG_CONFIG_HOME is unset. A missing
// file is not an error: Load returns [Default]. Keys left out of the file
// keep their default values.
//
//	grammar = "previewer"
//	format = "html"
//	placeholder = "No content to display"
//
//	[cache]
//	backend = "file"     # file | redis | none
//	ttl = "24h"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//
// Command-line flags take precedence over the file.
package config

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/docmark/pkg/errors"
	"github.com/matzehuels/docmark/pkg/pipeline"
	"github.com/matzehuels/docmark/pkg/server"
)

const appName = "docmark"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Defaults for settings not present in the file.
const (
	DefaultCacheTTL  = 24 * time.Hour
	DefaultRedisAddr = "localhost:6379"
)

// Config is the parsed configuration file.
type Config struct {
	Grammar     string `toml:"grammar"`
	Format      string `toml:"format"`
	Placeholder string `toml:"placeholder"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	TTL       Duration `toml:"ttl"`
	Dir       string   `toml:"dir"` // file backend; empty means the XDG cache dir
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
}

// ServerConfig configures `docmark serve`.
type ServerConfig struct {
	Addr       string   `toml:"addr"`
	SessionTTL Duration `toml:"session_ttl"`
}

// Duration is a time.Duration written as a string ("24h", "90s") in TOML.
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

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Grammar:     pipeline.DefaultGrammar,
		Format:      pipeline.DefaultFormat,
		Placeholder: pipeline.DefaultPlaceholder,
		Cache: CacheConfig{
			Backend:   BackendFile,
			TTL:       Duration{DefaultCacheTTL},
			RedisAddr: DefaultRedisAddr,
		},
		Server: ServerConfig{
			Addr: server.DefaultAddr,
		},
	}
}

// DefaultPath returns the default location of the configuration file.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the configuration at path, or at DefaultPath when path is
// empty. A missing file yields Default. The result is validated.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) && !explicit {
			return Default(), nil
		}
		if stderrors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(data, path)
}

// Parse decodes TOML data on top of Default. Unknown keys are rejected.
func Parse(data []byte, path string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every value names something docmark supports.
func (c Config) Validate() error {
	if err := pipeline.ValidateGrammar(c.Grammar); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "grammar")
	}
	if err := pipeline.ValidateFormat(c.Format); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "format")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.Server.SessionTTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.session_ttl must not be negative")
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
