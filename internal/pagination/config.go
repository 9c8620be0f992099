package pagination

import (
	"errors"
	"fmt"
)

// Window sizing defaults and validation constants.
const (
	DefaultInitialLimit  = 24
	DefaultLoadMoreCount = 24
	DefaultAutoLoadLimit = 240

	// GridMultiple is the least common multiple of the supported grid column
	// counts (2 and 3). Every window size must be a multiple of it.
	GridMultiple = 6
)

// Common validation errors.
var (
	ErrInvalidInitialLimit  = errors.New("initial limit must be positive")
	ErrInvalidLoadMoreCount = errors.New("load-more count must be positive")
	ErrInvalidAutoLoadLimit = errors.New("auto-load limit must be >= initial limit")
	ErrGridMisaligned       = fmt.Errorf("window sizes must be multiples of %d", GridMultiple)
)

// Config holds the pagination window settings.
type Config struct {
	// InitialLimit is the window size on first load and after a reset.
	InitialLimit int `yaml:"initial_limit" json:"initial_limit"`

	// LoadMoreCount is how much the window grows per LoadMore call.
	LoadMoreCount int `yaml:"load_more_count" json:"load_more_count"`

	// AutoLoadLimit is the window size at which scroll-triggered growth stops.
	AutoLoadLimit int `yaml:"auto_load_limit" json:"auto_load_limit"`
}

// DefaultConfig returns the default window configuration.
func DefaultConfig() Config {
	return Config{
		InitialLimit:  DefaultInitialLimit,
		LoadMoreCount: DefaultLoadMoreCount,
		AutoLoadLimit: DefaultAutoLoadLimit,
	}
}

// Validate checks that the window sizes are positive, ordered, and aligned to
// the grid multiple.
func (c Config) Validate() error {
	if c.InitialLimit <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidInitialLimit, c.InitialLimit)
	}
	if c.LoadMoreCount <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidLoadMoreCount, c.LoadMoreCount)
	}
	if c.AutoLoadLimit < c.InitialLimit {
		return fmt.Errorf("%w: got %d < %d", ErrInvalidAutoLoadLimit, c.AutoLoadLimit, c.InitialLimit)
	}

	sizes := []struct {
		name  string
		value int
	}{
		{"initial limit", c.InitialLimit},
		{"load-more count", c.LoadMoreCount},
		{"auto-load limit", c.AutoLoadLimit},
	}
	for _, size := range sizes {
		if size.value%GridMultiple != 0 {
			return fmt.Errorf("%w: %s is %d", ErrGridMisaligned, size.name, size.value)
		}
	}

	return nil
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.InitialLimit == 0 {
		c.InitialLimit = d.InitialLimit
	}
	if c.LoadMoreCount == 0 {
		c.LoadMoreCount = d.LoadMoreCount
	}
	if c.AutoLoadLimit == 0 {
		c.AutoLoadLimit = d.AutoLoadLimit
	}
	return c
}
