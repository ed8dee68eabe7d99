// Package config loads orgchart settings from TOML or YAML files.
//
// The file format is chosen by extension (.toml, .yaml, .yml). Values absent
// from the file keep the defaults returned by [Default]; command-line flags
// are applied on top by the caller.
//
//	source    = "https://example.com/roster.csv"
//	delimiter = ","
//
//	[columns]
//	id         = "Employee ID"
//	supervisor = "Supervisor ID"
//
//	[display]
//	auto_expand_layers = 2
//	duplicate_root     = "Actionariat"
//
//	[server]
//	addr    = ":8080"
//	metrics = true
//	watch   = true
//
//	[cache]
//	backend   = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl       = "30m"
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/roster"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the complete set of file-backed settings.
type Config struct {
	Source    string  `toml:"source" yaml:"source"`
	Delimiter string  `toml:"delimiter" yaml:"delimiter"`
	Columns   Columns `toml:"columns" yaml:"columns"`
	Display   Display `toml:"display" yaml:"display"`
	Server    Server  `toml:"server" yaml:"server"`
	Cache     Cache   `toml:"cache" yaml:"cache"`
}

// Columns overrides the roster header names.
type Columns struct {
	ID            string `toml:"id" yaml:"id"`
	Supervisor    string `toml:"supervisor" yaml:"supervisor"`
	Name          string `toml:"name" yaml:"name"`
	Role          string `toml:"role" yaml:"role"`
	LeftImageURL  string `toml:"image_left" yaml:"image_left"`
	RightImageURL string `toml:"image_right" yaml:"image_right"`
}

// Display holds opt-in rendering policies.
type Display struct {
	AutoExpandLayers int    `toml:"auto_expand_layers" yaml:"auto_expand_layers"`
	DuplicateRoot    string `toml:"duplicate_root" yaml:"duplicate_root"`
	IncludeCollapsed bool   `toml:"include_collapsed" yaml:"include_collapsed"`
	Title            string `toml:"title" yaml:"title"`

	// BranchDepth picks the ancestor depth that names a node's branch
	// (data-branch in HTML). 0 groups everything under its root.
	BranchDepth int `toml:"branch_depth" yaml:"branch_depth"`
}

// Server configures the browsing surface.
type Server struct {
	Addr    string `toml:"addr" yaml:"addr"`
	Metrics bool   `toml:"metrics" yaml:"metrics"`
	Watch   bool   `toml:"watch" yaml:"watch"`
}

// Cache selects where fetched rosters are kept.
type Cache struct {
	Backend  string   `toml:"backend" yaml:"backend"`
	Dir      string   `toml:"dir" yaml:"dir"`
	RedisURL string   `toml:"redis_url" yaml:"redis_url"`
	TTL      Duration `toml:"ttl" yaml:"ttl"`

	// Namespace scopes keys so several teams can share one redis.
	Namespace string `toml:"namespace" yaml:"namespace"`
}

// Duration is a time.Duration that decodes from strings like "30m".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler (used by TOML).
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// Default returns the settings used when no file is given.
func Default() Config {
	cols := roster.DefaultColumns()
	return Config{
		Delimiter: ",",
		Columns: Columns{
			ID:            cols.ID,
			Supervisor:    cols.Supervisor,
			Name:          cols.Name,
			Role:          cols.Role,
			LeftImageURL:  cols.LeftImageURL,
			RightImageURL: cols.RightImageURL,
		},
		Display: Display{Title: "Organization chart"},
		Server:  Server{Addr: ":8080"},
		Cache:   Cache{Backend: CacheFile, TTL: Duration(time.Hour)},
	}
}

// Load reads path on top of [Default] and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}
	if err := Decode(&cfg, data, filepath.Ext(path)); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Decode parses data into cfg according to the file extension.
func Decode(cfg *Config, data []byte, ext string) error {
	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse toml")
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse yaml")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q (use .toml or .yaml)", ext)
	}
	return nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if _, err := c.Comma(); err != nil {
		return err
	}
	if c.Display.AutoExpandLayers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "display.auto_expand_layers must be >= 0")
	}
	if c.Display.BranchDepth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "display.branch_depth must be >= 0")
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}

// Comma returns the delimiter as a rune. "\t" and "tab" select tab.
func (c Config) Comma() (rune, error) {
	switch c.Delimiter {
	case "", ",":
		return ',', nil
	case `\t`, "\t", "tab":
		return '\t', nil
	}
	r := []rune(c.Delimiter)
	if len(r) != 1 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "delimiter must be a single character, got %q", c.Delimiter)
	}
	return r[0], nil
}

// RosterColumns converts the header settings, falling back to defaults for
// empty entries.
func (c Config) RosterColumns() roster.Columns {
	def := roster.DefaultColumns()
	pick := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	comma, _ := c.Comma()
	return roster.Columns{
		ID:            pick(c.Columns.ID, def.ID),
		Supervisor:    pick(c.Columns.Supervisor, def.Supervisor),
		Name:          pick(c.Columns.Name, def.Name),
		Role:          pick(c.Columns.Role, def.Role),
		LeftImageURL:  pick(c.Columns.LeftImageURL, def.LeftImageURL),
		RightImageURL: pick(c.Columns.RightImageURL, def.RightImageURL),
		Comma:         comma,
	}
}

// String renders a short summary for debug logs.
func (c Config) String() string {
	return fmt.Sprintf("source=%q cache=%s addr=%s", c.Source, c.Cache.Backend, c.Server.Addr)
}
