package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when no --config flag is given.
const DefaultPath = "binventory.yaml"

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path          string `yaml:"path"`
	MaxOpenConns  int    `yaml:"max_open_conns"`
	BusyTimeoutMS int    `yaml:"busy_timeout_ms"`
}

// SearchConfig bounds search pages and browse previews.
type SearchConfig struct {
	DefaultLimit      int `yaml:"default_limit"`
	MaxLimit          int `yaml:"max_limit"`
	PreviewSize       int `yaml:"preview_size"`
	TagPreviewSize    int `yaml:"tag_preview_size"`
	AutocompleteLimit int `yaml:"autocomplete_limit"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level    string `yaml:"level"`    // debug | info | warn | error
	Encoding string `yaml:"encoding"` // console | json
	File     string `yaml:"file"`
}

// ImageConfig controls how uploaded item photos are normalized.
type ImageConfig struct {
	MaxDimension int `yaml:"max_dimension"`
	JPEGQuality  int `yaml:"jpeg_quality"`
}

// Config holds the complete configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Search   SearchConfig   `yaml:"search"`
	Log      LogConfig      `yaml:"log"`
	Images   ImageConfig    `yaml:"images"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path:          "binventory.db",
			MaxOpenConns:  8,
			BusyTimeoutMS: 5000,
		},
		Search: SearchConfig{
			DefaultLimit:      100,
			MaxLimit:          1000,
			PreviewSize:       6,
			TagPreviewSize:    9,
			AutocompleteLimit: 10,
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
		Images: ImageConfig{
			MaxDimension: 1024,
			JPEGQuality:  85,
		},
	}
}

// Load reads .env from the working directory, then the YAML file at path,
// then BINVENTORY_* environment overrides. Missing files yield defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"BINVENTORY_ADDR":         &c.Server.Addr,
		"BINVENTORY_DB":           &c.Database.Path,
		"BINVENTORY_LOG_LEVEL":    &c.Log.Level,
		"BINVENTORY_LOG_ENCODING": &c.Log.Encoding,
		"BINVENTORY_LOG_FILE":     &c.Log.File,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"BINVENTORY_DEFAULT_LIMIT": &c.Search.DefaultLimit,
		"BINVENTORY_MAX_LIMIT":     &c.Search.MaxLimit,
		"BINVENTORY_PREVIEW_SIZE":  &c.Search.PreviewSize,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = n
	}
	return nil
}

// Validate returns an error if the configuration contains invalid values.
func (c *Config) Validate() error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log.level %q: must be one of debug, info, warn, error", c.Log.Level)
	}
	validEncodings := map[string]bool{"console": true, "json": true}
	if !validEncodings[c.Log.Encoding] {
		return fmt.Errorf("invalid log.encoding %q: must be one of console, json", c.Log.Encoding)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}

	positive := map[string]int{
		"search.default_limit":      c.Search.DefaultLimit,
		"search.max_limit":          c.Search.MaxLimit,
		"search.preview_size":       c.Search.PreviewSize,
		"search.tag_preview_size":   c.Search.TagPreviewSize,
		"search.autocomplete_limit": c.Search.AutocompleteLimit,
		"images.max_dimension":      c.Images.MaxDimension,
	}
	for name, v := range positive {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, v)
		}
	}
	if c.Search.DefaultLimit > c.Search.MaxLimit {
		return fmt.Errorf("search.default_limit (%d) must not exceed search.max_limit (%d)",
			c.Search.DefaultLimit, c.Search.MaxLimit)
	}
	if c.Images.JPEGQuality < 1 || c.Images.JPEGQuality > 100 {
		return fmt.Errorf("images.jpeg_quality must be between 1 and 100, got %d", c.Images.JPEGQuality)
	}
	return nil
}

// Page clamps a requested page to the configured bounds.
func (s SearchConfig) Page(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = s.DefaultLimit
	}
	if limit > s.MaxLimit {
		limit = s.MaxLimit
	}
	return skip, limit
}
