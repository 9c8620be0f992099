package reconcile

// IdentityFunc returns the stable identity key of an item. Keys are expected to
// be unique within a single list.
type IdentityFunc[T any] func(item T) string

// Reconcile merges newItems into oldItems and returns the list to display.
//
// When filtersChanged is true or there is no history, the result is a copy of
// newItems. When the filter is unchanged and newItems is shorter than
// oldItems, the snapshot is treated as an incomplete sync: Reconcile returns
// (nil, false) and the caller keeps its previous list.
//
// Otherwise items already on screen keep their position but carry the record
// from newItems, items missing from newItems are dropped, and items that were
// not on screen are appended in newItems order. Duplicate keys in newItems
// resolve to the last record; the output never repeats a key.
func Reconcile[T any](newItems, oldItems []T, filtersChanged bool, identity IdentityFunc[T]) ([]T, bool) {
	if filtersChanged || len(oldItems) == 0 {
		return clone(newItems), true
	}

	if len(newItems) < len(oldItems) {
		return nil, false
	}

	latest := make(map[string]T, len(newItems))
	for _, item := range newItems {
		latest[identity(item)] = item
	}

	emitted := make(map[string]struct{}, len(newItems))
	merged := make([]T, 0, len(newItems))

	// Phase 1: walk the displayed order, refreshing records in place.
	for _, old := range oldItems {
		key := identity(old)
		if _, done := emitted[key]; done {
			continue
		}
		fresh, ok := latest[key]
		if !ok {
			continue
		}
		emitted[key] = struct{}{}
		merged = append(merged, fresh)
	}

	// Phase 2: newly loaded tail.
	for _, item := range newItems {
		key := identity(item)
		if _, done := emitted[key]; done {
			continue
		}
		emitted[key] = struct{}{}
		merged = append(merged, latest[key])
	}

	return merged, true
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
