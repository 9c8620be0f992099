package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Environment variables read by ApplyEnvOverrides.
const (
	EnvHome          = "DIRSCROLL_HOME"
	EnvLogLevel      = "DIRSCROLL_LOG_LEVEL"
	EnvLogFormat     = "DIRSCROLL_LOG_FORMAT"
	EnvCatalog       = "DIRSCROLL_CATALOG"
	EnvInitialLimit  = "DIRSCROLL_INITIAL_LIMIT"
	EnvAutoLoadLimit = "DIRSCROLL_AUTO_LOAD_LIMIT"
)

// ErrInvalidEnv is returned when an environment override does not parse.
var ErrInvalidEnv = errors.New("invalid environment override")

// ApplyEnvOverrides copies set environment variables onto cfg. Every valid
// override is applied even when another one is malformed; the malformed ones
// are returned joined.
func ApplyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv(EnvCatalog); v != "" {
		cfg.Catalog.Path = v
	}

	var errs []error
	if err := envInt(EnvInitialLimit, &cfg.Pagination.InitialLimit); err != nil {
		errs = append(errs, err)
	}
	if err := envInt(EnvAutoLoadLimit, &cfg.Pagination.AutoLoadLimit); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func envInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %s=%q", ErrInvalidEnv, name, v)
	}
	*dst = n
	return nil
}
