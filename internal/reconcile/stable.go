package reconcile

import (
	"sync"

	"github.com/rs/zerolog"
)

// StableList owns the list currently on screen and is its only writer.
// Readers take copies through Items.
type StableList[T any] struct {
	identity    IdentityFunc[T]
	logger      zerolog.Logger
	items       []T
	fingerprint string
	applied     bool
	mu          sync.RWMutex
}

// NewStableList creates an empty stable list keyed by identity.
func NewStableList[T any](identity IdentityFunc[T], logger zerolog.Logger) *StableList[T] {
	return &StableList[T]{
		identity: identity,
		logger:   logger,
	}
}

// Apply reconciles snapshot against the stored list. The snapshot counts as a
// fresh start when fingerprint differs from the one used on the previous
// Apply. Returns false when the snapshot was rejected as a partial sync, in
// which case the stored list is unchanged.
func (s *StableList[T]) Apply(snapshot []T, fingerprint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtersChanged := s.applied && fingerprint != s.fingerprint
	merged, ok := Reconcile(snapshot, s.items, filtersChanged, s.identity)
	if !ok {
		s.logger.Debug().
			Str("component", "reconcile").
			Str("operation", "apply").
			Int("snapshot_len", len(snapshot)).
			Int("stable_len", len(s.items)).
			Msg("snapshot shorter than stable list, keeping previous list")
		return false
	}

	s.items = merged
	s.fingerprint = fingerprint
	s.applied = true

	s.logger.Debug().
		Str("component", "reconcile").
		Str("operation", "apply").
		Bool("filters_changed", filtersChanged).
		Int("stable_len", len(merged)).
		Msg("stable list updated")
	return true
}

// Items returns a copy of the stable list.
func (s *StableList[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.items)
}

// Len returns the number of items in the stable list.
func (s *StableList[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Fingerprint returns the filter fingerprint of the last accepted snapshot.
func (s *StableList[T]) Fingerprint() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fingerprint
}

// Reset discards the history so the next Apply is a fresh start.
func (s *StableList[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.fingerprint = ""
	s.applied = false
}
