package config

import (
	"path/filepath"

	"github.com/rshade/dirscroll/internal/logging"
)

// ToLoggingConfig converts LoggingConfig to logging.Config for use with
// the internal/logging package.
//
// The conversion applies these rules:
//   - Level, Format are copied directly
//   - If File is set, Output becomes "file" and File is passed through
//   - If File is empty, Output defaults to "stderr"
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

// DefaultLogFile returns the log file used while the TUI owns the terminal,
// ~/.dirscroll/dirscroll.log. It falls back to the working directory when the
// config directory cannot be determined.
func DefaultLogFile() string {
	dir, err := GetConfigDir()
	if err != nil {
		return "dirscroll.log"
	}
	return filepath.Join(dir, "dirscroll.log")
}
