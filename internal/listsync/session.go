package listsync

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rshade/dirscroll/internal/catalog"
	"github.com/rshade/dirscroll/internal/pagination"
	"github.com/rshade/dirscroll/internal/reconcile"
)

// Session drives a single directory view. It is safe for concurrent use; the
// source is queried without holding the session lock.
type Session struct {
	src        catalog.Source
	controller *pagination.LimitController
	stable     *reconcile.StableList[catalog.Package]
	logger     zerolog.Logger

	mu     sync.Mutex
	filter catalog.Filter
	// epoch counts filter changes; a query started under an older epoch is
	// discarded.
	epoch   uint64
	display []catalog.Package
}

// NewSession creates a session over src with an empty filter.
func NewSession(src catalog.Source, cfg pagination.Config, logger zerolog.Logger) *Session {
	logger = logger.With().Str("component", "listsync").Logger()
	return &Session{
		src:        src,
		controller: pagination.NewLimitController(cfg),
		stable:     reconcile.NewStableList(catalog.Key, logger),
		logger:     logger,
	}
}

// Controller exposes the window controller, for the sentinel observer.
func (s *Session) Controller() *pagination.LimitController {
	return s.controller
}

// Limit returns the current window size.
func (s *Session) Limit() int {
	return s.controller.Limit()
}

// Filter returns the active filter.
func (s *Session) Filter() catalog.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Items returns a copy of the list to display.
func (s *Session) Items() []catalog.Package {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.display)
}

// Meta returns the window metadata for the displayed list.
func (s *Session) Meta() pagination.Meta {
	return s.controller.Meta(s.displayLen())
}

// SetFilter switches to f. When f selects or orders differently from the
// active filter the window is reset and the list history is dropped, so the
// next complete result is a fresh start even when f matches a filter used
// before. Returns whether the filter changed.
func (s *Session) SetFilter(f catalog.Filter) bool {
	s.mu.Lock()
	same := f.Fingerprint() == s.filter.Fingerprint()
	if same {
		s.filter = f
	}
	s.mu.Unlock()
	if same {
		return false
	}

	// The window shrinks before the epoch moves, so any query started under
	// the new epoch also sees the reset limit.
	s.controller.ResetLimit()

	s.mu.Lock()
	s.filter = f
	s.epoch++
	s.stable.Reset()
	s.mu.Unlock()

	s.logger.Debug().
		Str("operation", "set_filter").
		Str("fingerprint", f.Fingerprint()).
		Msg("filter changed, window and history reset")
	return true
}

// Reload drops the list history so the next complete result is taken as is.
// It recovers from a real shrink under an unchanged filter, which reconcile
// otherwise rejects as a partial sync.
func (s *Session) Reload() {
	s.stable.Reset()
	s.logger.Debug().Str("operation", "reload").Msg("stable list history cleared")
}

// LoadMore grows the window by one step.
func (s *Session) LoadMore() {
	s.controller.LoadMore()
}

// CanLoadMore reports whether the displayed list fills the window.
func (s *Session) CanLoadMore() bool {
	return s.controller.CanLoadMore(s.displayLen())
}

// PastAutoLoadLimit reports whether automatic growth has stopped.
func (s *Session) PastAutoLoadLimit() bool {
	return s.controller.PastAutoLoadLimit()
}

// Refresh queries the source for the current filter and window and updates
// the displayed list. Complete results are reconciled into the stable list.
// Incomplete results are only displayed while nothing has been reconciled for
// the active filter yet, and are never kept as history. A result whose filter
// was replaced while the query ran is discarded. Returns whether the displayed
// list changed.
func (s *Session) Refresh(ctx context.Context) (bool, error) {
	s.mu.Lock()
	filter, epoch := s.filter, s.epoch
	s.mu.Unlock()
	fingerprint := filter.Fingerprint()
	limit := s.controller.Limit()

	snap, err := s.src.Query(ctx, filter, limit)
	if err != nil {
		return false, fmt.Errorf("refreshing %s: %w", fingerprint, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		s.logger.Debug().
			Str("operation", "refresh").
			Str("fingerprint", fingerprint).
			Msg("filter changed during query, dropping result")
		return false, nil
	}

	var next []catalog.Package
	switch {
	case snap.Complete:
		if !s.stable.Apply(snap.Items, fingerprint) {
			return false, nil
		}
		next = s.stable.Items()
	case s.stable.Len() == 0:
		next = slices.Clone(snap.Items)
	default:
		s.logger.Debug().
			Str("operation", "refresh").
			Int("snapshot_len", len(snap.Items)).
			Msg("incomplete result, keeping displayed list")
		return false, nil
	}

	changed := !slices.Equal(s.display, next)
	s.display = next

	s.logger.Debug().
		Str("operation", "refresh").
		Int("limit", limit).
		Int("displayed", len(next)).
		Bool("complete", snap.Complete).
		Bool("changed", changed).
		Msg("list refreshed")
	return changed, nil
}

func (s *Session) displayLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.display)
}
