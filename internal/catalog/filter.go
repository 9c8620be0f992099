package catalog

import (
	"fmt"
	"strings"
)

// Filter selects and orders packages. It is the query intent; the window size
// is passed separately.
type Filter struct {
	Text      string
	Ecosystem string
	Sort      Sort
}

// Fingerprint returns a stable string that changes whenever the filter
// selects or orders differently.
func (f Filter) Fingerprint() string {
	return fmt.Sprintf("text=%s|ecosystem=%s|sort=%s",
		strings.ToLower(strings.TrimSpace(f.Text)),
		strings.ToLower(strings.TrimSpace(f.Ecosystem)),
		f.Sort.effective())
}

// Match reports whether p passes the filter.
func (f Filter) Match(p Package) bool {
	if eco := strings.TrimSpace(f.Ecosystem); eco != "" && !strings.EqualFold(eco, p.Ecosystem) {
		return false
	}

	text := strings.ToLower(strings.TrimSpace(f.Text))
	if text == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), text) ||
		strings.Contains(strings.ToLower(p.Description), text)
}

// Apply filters, sorts and truncates pkgs to limit. A limit <= 0 means no
// limit. pkgs is not modified.
func (f Filter) Apply(pkgs []Package, limit int) []Package {
	matched := make([]Package, 0, len(pkgs))
	for _, p := range pkgs {
		if f.Match(p) {
			matched = append(matched, p)
		}
	}

	matched = SortPackages(matched, f.Sort)
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}
