package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/rshade/dirscroll/internal/pagination"
)

// sectionDecoder decodes one top-level section onto its Config field.
type sectionDecoder func(target *Config, node *yaml.Node) error

// sectionDecoders maps top-level YAML keys to their Config fields. Keys not
// listed are ignored during merge.
//
//nolint:gochecknoglobals // Read-only lookup table.
var sectionDecoders = map[string]sectionDecoder{
	"pagination": replaceSection(func(c *Config) *pagination.Config { return &c.Pagination }),
	"scroll":     replaceSection(func(c *Config) *ScrollConfig { return &c.Scroll }),
	"catalog":    replaceSection(func(c *Config) *CatalogConfig { return &c.Catalog }),
	"logging":    replaceSection(func(c *Config) *LoggingConfig { return &c.Logging }),
}

// replaceSection decodes a section into a zero value and stores it, so a
// section present in the overlay replaces the target's section completely.
func replaceSection[T any](field func(*Config) *T) sectionDecoder {
	return func(target *Config, node *yaml.Node) error {
		var v T
		if err := node.Decode(&v); err != nil {
			return err
		}
		*field(target) = v
		return nil
	}
}

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// the target Config. Keys present in the overlay replace entire sections
// in the target. Keys absent in the overlay are left unchanged.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	keys := make([]string, 0, len(overlay))
	for key := range overlay {
		if _, ok := sectionDecoders[key]; ok {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	for _, key := range keys {
		node := overlay[key]
		if err = sectionDecoders[key](target, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}

	return nil
}
