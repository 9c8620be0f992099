package catalog

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// JSONLSource reads a newline-delimited JSON catalog. The file is re-read on
// every query so external edits show up on the next refresh.
type JSONLSource struct {
	path string
}

// NewJSONLSource creates a source for the JSONL file at path.
func NewJSONLSource(path string) *JSONLSource {
	return &JSONLSource{path: path}
}

// Path returns the catalog file path.
func (s *JSONLSource) Path() string {
	return s.path
}

// Query implements Source.
func (s *JSONLSource) Query(ctx context.Context, filter Filter, limit int) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	pkgs, complete, err := ReadJSONL(s.path)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Items:    filter.Apply(pkgs, limit),
		Complete: complete,
	}, nil
}

// Close implements Source.
func (s *JSONLSource) Close() error {
	return nil
}

// ReadJSONL reads every package in the file at path. A trailing line that is
// not newline-terminated and does not decode is treated as a write in
// progress: the packages before it are returned with complete set to false.
// Any other undecodable line is an error.
func ReadJSONL(path string) ([]Package, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return ParseJSONL(data)
}

// ParseJSONL decodes JSONL data. See ReadJSONL.
func ParseJSONL(data []byte) ([]Package, bool, error) {
	lines := bytes.Split(data, []byte("\n"))
	terminated := len(data) == 0 || data[len(data)-1] == '\n'

	pkgs := make([]Package, 0, len(lines))
	for i, line := range lines {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var p Package
		if err := json.Unmarshal(line, &p); err != nil {
			if i == len(lines)-1 && !terminated {
				return pkgs, false, nil
			}
			return nil, false, fmt.Errorf("catalog line %d: %w", i+1, err)
		}
		pkgs = append(pkgs, p)
	}

	return pkgs, true, nil
}

// WriteJSONL encodes pkgs as JSONL.
func WriteJSONL(pkgs []Package) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, p := range pkgs {
		if err := enc.Encode(p); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", Key(p), err)
		}
	}
	return buf.Bytes(), nil
}
