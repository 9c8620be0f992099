package tui

import (
	"sync"

	"github.com/rshade/dirscroll/internal/scroll"
)

// DefaultRowHeightPx is the pixel-equivalent height of one terminal row.
const DefaultRowHeightPx = 16

// SentinelElement is the trailing row of a list that marks the end of the
// loaded window.
type SentinelElement struct{}

// ElementName implements scroll.Element.
func (SentinelElement) ElementName() string { return "sentinel-row" }

// rowSurface is the part of a list the viewport measures.
type rowSurface interface {
	ScrollOffset() int
	Height() int
	SentinelIndex() int
	SetSelected(index int)
	ScrollToTop()
}

type intersectionWatch struct {
	el      scroll.Element
	margin  int
	fn      func(bool)
	visible bool
}

// Viewport adapts a terminal list to scroll.Viewport. Offsets are the first
// visible row times the row height, so pixel-based thresholds and margins
// keep their meaning.
//
// The list is only read from the goroutine that calls Sync, normally the
// Bubble Tea update loop.
type Viewport struct {
	rows      rowSurface
	rowHeight int

	mu        sync.Mutex
	watches   map[int]*intersectionWatch
	scrollers map[int]func(int)
	nextID    int
	offset    int
}

// NewViewport measures rows in units of rowHeight. A non-positive rowHeight
// uses DefaultRowHeightPx.
func NewViewport(rows rowSurface, rowHeight int) *Viewport {
	if rowHeight <= 0 {
		rowHeight = DefaultRowHeightPx
	}
	return &Viewport{
		rows:      rows,
		rowHeight: rowHeight,
		watches:   make(map[int]*intersectionWatch),
		scrollers: make(map[int]func(int)),
		offset:    rows.ScrollOffset() * rowHeight,
	}
}

// RowHeight returns the pixel-equivalent height of a row.
func (v *Viewport) RowHeight() int {
	return v.rowHeight
}

// ObserveIntersection implements scroll.Viewport. fn is called once with the
// current state before this returns.
func (v *Viewport) ObserveIntersection(el scroll.Element, rootMargin int, fn func(bool)) scroll.Subscription {
	w := &intersectionWatch{el: el, margin: rootMargin, fn: fn}
	w.visible = v.intersects(w)

	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.watches[id] = w
	v.mu.Unlock()

	fn(w.visible)

	return scroll.OnceSubscription(func() {
		v.mu.Lock()
		delete(v.watches, id)
		v.mu.Unlock()
	})
}

// OnScroll implements scroll.Viewport.
func (v *Viewport) OnScroll(fn func(int)) scroll.Subscription {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.scrollers[id] = fn
	v.mu.Unlock()

	return scroll.OnceSubscription(func() {
		v.mu.Lock()
		delete(v.scrollers, id)
		v.mu.Unlock()
	})
}

// ScrollOffset implements scroll.Viewport.
func (v *Viewport) ScrollOffset() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.offset
}

// ScrollTo implements scroll.Viewport. Terminals have no scroll animation, so
// smooth is ignored.
func (v *Viewport) ScrollTo(offset int, _ bool) {
	if offset <= 0 {
		v.rows.ScrollToTop()
	} else {
		v.rows.SetSelected(offset / v.rowHeight)
	}
	v.Sync()
}

// Sync re-measures the list after it changed and notifies scroll listeners of
// a new offset and intersection watchers of visibility flips.
func (v *Viewport) Sync() {
	offset := v.rows.ScrollOffset() * v.rowHeight

	v.mu.Lock()
	scrolled := offset != v.offset
	v.offset = offset

	var scrollers []func(int)
	if scrolled {
		scrollers = make([]func(int), 0, len(v.scrollers))
		for _, fn := range v.scrollers {
			scrollers = append(scrollers, fn)
		}
	}

	type flip struct {
		fn      func(bool)
		visible bool
	}
	var flips []flip
	for _, w := range v.watches {
		visible := v.intersects(w)
		if visible != w.visible {
			w.visible = visible
			flips = append(flips, flip{fn: w.fn, visible: visible})
		}
	}
	v.mu.Unlock()

	for _, fn := range scrollers {
		fn(offset)
	}
	for _, f := range flips {
		f.fn(f.visible)
	}
}

// intersects reports whether w's element overlaps the viewport grown by the
// watch's margin.
func (v *Viewport) intersects(w *intersectionWatch) bool {
	row := v.locate(w.el)
	if row < 0 {
		return false
	}

	top := row * v.rowHeight
	bottom := top + v.rowHeight

	viewTop := v.rows.ScrollOffset()*v.rowHeight - w.margin
	viewBottom := (v.rows.ScrollOffset()+v.rows.Height())*v.rowHeight + w.margin

	return top < viewBottom && bottom > viewTop
}

func (v *Viewport) locate(el scroll.Element) int {
	if _, ok := el.(SentinelElement); ok {
		return v.rows.SentinelIndex()
	}
	return -1
}
