// Package config loads forcelayout settings from TOML or YAML files.
//
// A config file has three sections; every key is optional and falls back
// to [Default]:
//
//	[layout]
//	area = 22.0
//	gravity = 0.8
//	speed = 0.01
//	iterations = 2000
//	seed = 42
//	workers = 4
//
//	[cache]
//	backend = "redis"          # file | redis | none
//	redis_addr = "localhost:6379"
//	ttl = "720h"
//
//	[render]
//	width = 1600
//	height = 1600
//	base_size = 4.0
//
// The same keys work in YAML. Command-line flags override file values.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/forcelayout/pkg/cache"
	"github.com/matzehuels/forcelayout/pkg/errors"
	"github.com/matzehuels/forcelayout/pkg/force"
	"github.com/matzehuels/forcelayout/pkg/render"
)

// AppName names the cache and config directories.
const AppName = "forcelayout"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the full settings file.
type Config struct {
	Layout Layout `toml:"layout" yaml:"layout" json:"layout"`
	Cache  Cache  `toml:"cache" yaml:"cache" json:"cache"`
	Render Render `toml:"render" yaml:"render" json:"render"`
}

// Layout holds the force simulation settings.
type Layout struct {
	Area       float64 `toml:"area" yaml:"area" json:"area"`
	Gravity    float64 `toml:"gravity" yaml:"gravity" json:"gravity"`
	Speed      float64 `toml:"speed" yaml:"speed" json:"speed"`
	Iterations int     `toml:"iterations" yaml:"iterations" json:"iterations"`
	Seed       int64   `toml:"seed" yaml:"seed" json:"seed"`
	Workers    int     `toml:"workers" yaml:"workers" json:"workers"`
}

// Force returns the engine configuration.
func (l Layout) Force() force.Config {
	return force.Config{Area: l.Area, Gravity: l.Gravity, Speed: l.Speed, Iterations: l.Iterations}
}

// Cache selects and configures the layout cache.
type Cache struct {
	Backend       string        `toml:"backend" yaml:"backend" json:"backend"`
	Dir           string        `toml:"dir" yaml:"dir" json:"dir,omitempty"`
	RedisAddr     string        `toml:"redis_addr" yaml:"redis_addr" json:"redis_addr,omitempty"`
	RedisPassword string        `toml:"redis_password" yaml:"redis_password" json:"-"`
	RedisDB       int           `toml:"redis_db" yaml:"redis_db" json:"redis_db,omitempty"`
	Prefix        string        `toml:"prefix" yaml:"prefix" json:"prefix,omitempty"`
	TTL           time.Duration `toml:"ttl" yaml:"ttl" json:"ttl"`
}

// Render holds the canvas settings.
type Render struct {
	Width      int     `toml:"width" yaml:"width" json:"width"`
	Height     int     `toml:"height" yaml:"height" json:"height"`
	Margin     float64 `toml:"margin" yaml:"margin" json:"margin"`
	BaseSize   float64 `toml:"base_size" yaml:"base_size" json:"base_size"`
	Background string  `toml:"background" yaml:"background" json:"background"`
}

// Options returns the renderer options.
func (r Render) Options() render.Options {
	return render.Options{
		Width:      r.Width,
		Height:     r.Height,
		Margin:     r.Margin,
		BaseSize:   r.BaseSize,
		Background: r.Background,
	}
}

// Default returns the built-in settings.
func Default() Config {
	fc := force.DefaultConfig()
	ro := render.DefaultOptions()
	return Config{
		Layout: Layout{
			Area:       fc.Area,
			Gravity:    fc.Gravity,
			Speed:      fc.Speed,
			Iterations: fc.Iterations,
			Seed:       force.DefaultSeed,
		},
		Cache: Cache{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
			TTL:       cache.TTLLayout,
		},
		Render: Render{
			Width:      ro.Width,
			Height:     ro.Height,
			Margin:     ro.Margin,
			BaseSize:   ro.BaseSize,
			Background: ro.Background,
		},
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Layout.Force().Validate(); err != nil {
		return err
	}
	if c.Layout.Workers < 0 {
		return errors.New(errors.ErrCodeConfiguration, "workers must be >= 0, got %d", c.Layout.Workers)
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeConfiguration, "redis cache needs redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeConfiguration,
			"unknown cache backend %q (want %s, %s or %s)", c.Cache.Backend, BackendFile, BackendRedis, BackendNone)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeConfiguration, "cache ttl must be >= 0, got %s", c.Cache.TTL)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return errors.New(errors.ErrCodeConfiguration,
			"render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Render.BaseSize <= 0 || c.Render.Margin < 0 {
		return errors.New(errors.ErrCodeConfiguration, "render base_size must be > 0 and margin >= 0")
	}
	return nil
}

// Load reads path on top of the defaults. The format follows the extension:
// .toml, .yaml or .yml.
func Load(path string) (Config, error) {
	if err := errors.ValidatePath(path); err != nil {
		return Config{}, err
	}
	format, err := errors.ValidateFormat(path, "toml", "yaml", "yml")
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := Parse(data, format)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML ("toml") or YAML ("yaml", "yml") on top of the
// defaults and validates the result.
func Parse(data []byte, format string) (Config, error) {
	cfg := Default()
	switch strings.ToLower(format) {
	case "toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, errors.New(errors.ErrCodeConfiguration, "unknown config key %q", undecoded[0].String())
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(strings.NewReader(string(data)))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
		}
	default:
		return Config{}, errors.New(errors.ErrCodeUnsupported, "unsupported config format %q", format)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Discover returns the first config file found in the working directory
// (forcelayout.toml, forcelayout.yaml, forcelayout.yml) or in the user
// config directory (forcelayout/config.toml, config.yaml). It returns ""
// when none exists.
func Discover() string {
	candidates := []string{AppName + ".toml", AppName + ".yaml", AppName + ".yml"}
	if dir, err := ConfigDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(dir, "config.toml"),
			filepath.Join(dir, "config.yaml"))
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// CacheDir returns the cache directory using XDG standard (~/.cache/forcelayout/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// ConfigDir returns the config directory using XDG standard (~/.config/forcelayout/).
func ConfigDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}
