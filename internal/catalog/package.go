package catalog

import (
	"strings"
	"time"
)

// Package is a single directory entry.
type Package struct {
	Name        string    `json:"name"`
	Ecosystem   string    `json:"ecosystem"`
	Version     string    `json:"version,omitempty"`
	Description string    `json:"description,omitempty"`
	Downloads   int64     `json:"downloads"`
	Stars       int64     `json:"stars"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Key returns the identity of p, unique within a catalog.
func Key(p Package) string {
	return strings.ToLower(p.Ecosystem) + "/" + p.Name
}
