// Package config loads dirscroll settings from the user's config file, the
// environment and command-line flags, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/rshade/dirscroll/internal/catalog"
	"github.com/rshade/dirscroll/internal/logging"
	"github.com/rshade/dirscroll/internal/pagination"
	"github.com/rshade/dirscroll/internal/scroll"
)

// Scroll and catalog defaults.
const (
	DefaultRowHeightPx     = 16
	DefaultWatchDebounceMS = 150
	configFileName         = "config.yaml"
)

// Validation errors.
var (
	ErrInvalidDebounce   = errors.New("scroll debounce_ms must not be negative")
	ErrInvalidRootMargin = errors.New("scroll root_margin_px must not be negative")
	ErrInvalidThreshold  = errors.New("scroll back_to_top_threshold_px must not be negative")
	ErrInvalidRowHeight  = errors.New("scroll row_height_px must be positive")
	ErrInvalidLogLevel   = errors.New("invalid log level")
	ErrInvalidLogFormat  = errors.New("log format must be 'console' or 'json'")
	ErrInvalidWatch      = errors.New("catalog watch_debounce_ms must not be negative")
)

// Config is the complete dirscroll configuration.
type Config struct {
	Pagination pagination.Config `yaml:"pagination" json:"pagination"`
	Scroll     ScrollConfig      `yaml:"scroll" json:"scroll"`
	Catalog    CatalogConfig     `yaml:"catalog" json:"catalog"`
	Logging    LoggingConfig     `yaml:"logging" json:"logging"`

	configPath string
	warnings   []error
}

// ScrollConfig tunes the sentinel observer and the back-to-top affordance.
// Offsets are pixel-equivalents; a terminal row counts as RowHeightPx.
type ScrollConfig struct {
	DebounceMS           int `yaml:"debounce_ms" json:"debounce_ms"`
	RootMarginPx         int `yaml:"root_margin_px" json:"root_margin_px"`
	BackToTopThresholdPx int `yaml:"back_to_top_threshold_px" json:"back_to_top_threshold_px"`
	RowHeightPx          int `yaml:"row_height_px" json:"row_height_px"`
}

// Debounce returns the sentinel debounce as a duration.
func (s ScrollConfig) Debounce() time.Duration {
	return time.Duration(s.DebounceMS) * time.Millisecond
}

// CatalogConfig locates the package catalog.
type CatalogConfig struct {
	Path            string `yaml:"path" json:"path"`
	Sort            string `yaml:"sort" json:"sort"`
	Watch           bool   `yaml:"watch" json:"watch"`
	WatchDebounceMS int    `yaml:"watch_debounce_ms" json:"watch_debounce_ms"`
}

// WatchDebounce returns the catalog watcher debounce as a duration.
func (c CatalogConfig) WatchDebounce() time.Duration {
	return time.Duration(c.WatchDebounceMS) * time.Millisecond
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file" json:"file"`
}

// Default returns the built-in configuration without reading any file.
func Default() *Config {
	cfg := &Config{
		Pagination: pagination.DefaultConfig(),
		Scroll: ScrollConfig{
			DebounceMS:           int(scroll.DefaultDebounce / time.Millisecond),
			RootMarginPx:         scroll.DefaultRootMargin,
			BackToTopThresholdPx: scroll.DefaultBackToTopThreshold,
			RowHeightPx:          DefaultRowHeightPx,
		},
		Catalog: CatalogConfig{
			Sort:            catalog.DefaultSort().String(),
			Watch:           true,
			WatchDebounceMS: DefaultWatchDebounceMS,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
	}

	if dir, err := GetConfigDir(); err == nil {
		cfg.configPath = filepath.Join(dir, configFileName)
	}
	return cfg
}

// New returns the default configuration overlaid with the user's config file,
// if one exists, and the environment. Problems with the file or environment
// do not block startup; they are kept for the caller to report through
// Warnings.
func New() *Config {
	cfg := Default()

	if cfg.configPath != "" {
		if _, err := os.Stat(cfg.configPath); err == nil {
			if mergeErr := ShallowMergeYAML(cfg, cfg.configPath); mergeErr != nil {
				cfg.warnings = append(cfg.warnings, mergeErr)
			}
		}
	}

	if err := ApplyEnvOverrides(cfg); err != nil {
		cfg.warnings = append(cfg.warnings, err)
	}

	return cfg
}

// Load reads the config file at path over the defaults and applies the
// environment. Unlike New, a missing or malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := ShallowMergeYAML(cfg, path); err != nil {
		return nil, err
	}
	cfg.configPath = path

	if err := ApplyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Warnings returns the problems New skipped over.
func (c *Config) Warnings() []error {
	return c.warnings
}

// LogWarnings reports skipped problems on logger.
func (c *Config) LogWarnings(logger zerolog.Logger) {
	for _, err := range c.warnings {
		logger.Warn().
			Str("component", "config").
			Str("operation", "load").
			Err(err).
			Str("path", c.configPath).
			Msg("ignoring invalid configuration")
	}
}

// ConfigPath returns the file Save writes to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath changes the file Save writes to.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Save writes the configuration as YAML, creating the parent directory.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path is not set")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", c.configPath, err)
	}
	return nil
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if err := c.Pagination.Validate(); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}

	switch {
	case c.Scroll.DebounceMS < 0:
		return fmt.Errorf("%w: got %d", ErrInvalidDebounce, c.Scroll.DebounceMS)
	case c.Scroll.RootMarginPx < 0:
		return fmt.Errorf("%w: got %d", ErrInvalidRootMargin, c.Scroll.RootMarginPx)
	case c.Scroll.BackToTopThresholdPx < 0:
		return fmt.Errorf("%w: got %d", ErrInvalidThreshold, c.Scroll.BackToTopThresholdPx)
	case c.Scroll.RowHeightPx <= 0:
		return fmt.Errorf("%w: got %d", ErrInvalidRowHeight, c.Scroll.RowHeightPx)
	}

	if _, err := catalog.ParseSort(c.Catalog.Sort); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if c.Catalog.WatchDebounceMS < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidWatch, c.Catalog.WatchDebounceMS)
	}

	if c.Logging.Level != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
		}
	}
	switch c.Logging.Format {
	case "", logging.FormatConsole, logging.FormatJSON:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	return nil
}
