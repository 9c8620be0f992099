package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Source errors.
var (
	ErrUnknownFormat = errors.New("unknown catalog format")
	ErrEmptyPath     = errors.New("catalog path cannot be empty")
)

// Snapshot is the result of a windowed query.
type Snapshot struct {
	// Items are the matching packages in display order, at most limit long.
	Items []Package

	// Complete is false when the source could only read part of its data,
	// for example while the catalog file was mid-write.
	Complete bool
}

// Source answers windowed catalog queries.
type Source interface {
	Query(ctx context.Context, filter Filter, limit int) (Snapshot, error)
	Close() error
}

// Open returns the source for path, chosen by file extension.
func Open(path string) (Source, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson", ".json":
		return NewJSONLSource(path), nil
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteSource(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}
