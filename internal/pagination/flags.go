package pagination

import (
	"github.com/spf13/pflag"
)

// Flag names for the pagination window.
const (
	FlagInitialLimit  = "initial-limit"
	FlagLoadMoreCount = "load-more-count"
	FlagAutoLoadLimit = "auto-load-limit"
)

// BindFlags registers the window flags on fs, writing into cfg. The current
// values in cfg become the flag defaults.
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.InitialLimit, FlagInitialLimit, cfg.InitialLimit,
		"number of items requested on first load and after a filter change")
	fs.IntVar(&cfg.LoadMoreCount, FlagLoadMoreCount, cfg.LoadMoreCount,
		"number of items added to the window per load")
	fs.IntVar(&cfg.AutoLoadLimit, FlagAutoLoadLimit, cfg.AutoLoadLimit,
		"window size at which scroll-triggered loading stops")
}

// ApplyChanged copies the window flags that were set on fs from src into dst.
// src is the Config passed to BindFlags; flags left at their defaults do not
// override dst.
func ApplyChanged(fs *pflag.FlagSet, src Config, dst *Config) {
	if fs.Changed(FlagInitialLimit) {
		dst.InitialLimit = src.InitialLimit
	}
	if fs.Changed(FlagLoadMoreCount) {
		dst.LoadMoreCount = src.LoadMoreCount
	}
	if fs.Changed(FlagAutoLoadLimit) {
		dst.AutoLoadLimit = src.AutoLoadLimit
	}
}
