package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Sort fields and orders.
const (
	SortDownloads = "downloads"
	SortStars     = "stars"
	SortName      = "name"
	SortUpdated   = "updated"
	SortVersion   = "version"

	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"

	// sortPartsMax is the maximum number of parts in a sort string (field:order).
	sortPartsMax = 2
)

// Sort validation errors.
var (
	ErrEmptySortField   = errors.New("sort field cannot be empty")
	ErrInvalidSortField = errors.New("invalid sort field")
	ErrInvalidSortOrder = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortFmt   = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'downloads:desc')")
)

//nolint:gochecknoglobals // Read-only lookup table.
var validSortFields = map[string]bool{
	SortDownloads: true,
	SortStars:     true,
	SortName:      true,
	SortUpdated:   true,
	SortVersion:   true,
}

// Sort is an ordering over packages. The zero value sorts by downloads,
// most popular first.
type Sort struct {
	Field string
	Order string
}

// DefaultSort returns the default ordering.
func DefaultSort() Sort {
	return Sort{Field: SortDownloads, Order: SortOrderDesc}
}

// String renders the sort as "field:order".
func (s Sort) String() string {
	e := s.effective()
	return e.Field + ":" + e.Order
}

func (s Sort) effective() Sort {
	if s.Field == "" {
		return DefaultSort()
	}
	if s.Order == "" {
		s.Order = SortOrderDesc
	}
	return s
}

// ValidSortFields returns the sortable field names in a consistent order.
func ValidSortFields() []string {
	fields := make([]string, 0, len(validSortFields))
	for field := range validSortFields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// ParseSort parses "field" or "field:order". The order defaults to desc and an
// empty expression yields the default sort.
func ParseSort(expr string) (Sort, error) {
	if strings.TrimSpace(expr) == "" {
		return DefaultSort(), nil
	}

	parts := strings.Split(expr, ":")
	if len(parts) > sortPartsMax {
		return Sort{}, fmt.Errorf("%w: %q", ErrInvalidSortFmt, expr)
	}

	field := strings.TrimSpace(parts[0])
	if field == "" {
		return Sort{}, ErrEmptySortField
	}
	if !validSortFields[field] {
		return Sort{}, fmt.Errorf("%w: %q (valid: %s)", ErrInvalidSortField, field, strings.Join(ValidSortFields(), ", "))
	}

	order := SortOrderDesc
	if len(parts) == sortPartsMax {
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return Sort{}, fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}

	return Sort{Field: field, Order: order}, nil
}

// SortPackages returns a sorted copy of pkgs. Ties are broken by Key so the
// order is deterministic. Packages whose version is not valid semver sort after
// all valid versions regardless of direction.
func SortPackages(pkgs []Package, s Sort) []Package {
	s = s.effective()

	sorted := make([]Package, len(pkgs))
	copy(sorted, pkgs)

	var versions map[string]*semver.Version
	if s.Field == SortVersion {
		versions = make(map[string]*semver.Version, len(sorted))
		for _, p := range sorted {
			if v, err := semver.NewVersion(p.Version); err == nil {
				versions[Key(p)] = v
			}
		}
	}

	desc := s.Order == SortOrderDesc
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]

		var cmp int
		switch s.Field {
		case SortDownloads:
			cmp = compareInt(a.Downloads, b.Downloads)
		case SortStars:
			cmp = compareInt(a.Stars, b.Stars)
		case SortName:
			cmp = strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		case SortUpdated:
			cmp = a.UpdatedAt.Compare(b.UpdatedAt)
		case SortVersion:
			va, vb := versions[Key(a)], versions[Key(b)]
			switch {
			case va == nil && vb == nil:
				cmp = 0
			case va == nil:
				return false
			case vb == nil:
				return true
			default:
				cmp = va.Compare(vb)
			}
		}

		if cmp == 0 {
			return Key(a) < Key(b)
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})

	return sorted
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
