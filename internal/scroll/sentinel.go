package scroll

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Sentinel defaults.
const (
	DefaultDebounce   = 100 * time.Millisecond
	DefaultRootMargin = 200
)

// LoadTarget is the window a SentinelObserver grows. *pagination.LimitController
// satisfies it.
type LoadTarget interface {
	LoadMore()
	PastAutoLoadLimit() bool
}

// SentinelOption configures a SentinelObserver.
type SentinelOption func(*SentinelObserver)

// WithDebounce sets how long the observer waits after the sentinel becomes
// visible before growing the window.
func WithDebounce(d time.Duration) SentinelOption {
	return func(o *SentinelObserver) {
		o.debounce = d
	}
}

// WithRootMargin sets how far outside the viewport the sentinel is already
// considered visible, so loading starts before the reader reaches the end.
func WithRootMargin(margin int) SentinelOption {
	return func(o *SentinelObserver) {
		o.rootMargin = margin
	}
}

// WithScheduler replaces the timer source.
func WithScheduler(s Scheduler) SentinelOption {
	return func(o *SentinelObserver) {
		o.scheduler = s
	}
}

// WithSentinelLogger sets the logger.
func WithSentinelLogger(l zerolog.Logger) SentinelOption {
	return func(o *SentinelObserver) {
		o.logger = l
	}
}

// SentinelObserver grows a LoadTarget when the sentinel element scrolls into
// view. Visibility events are coalesced into at most one pending debounced
// call, and automatic growth stops once the target is past its auto-load
// limit. LoadMore is the manual path and ignores that ceiling.
type SentinelObserver struct {
	viewport   Viewport
	target     LoadTarget
	debounce   time.Duration
	rootMargin int
	scheduler  Scheduler
	logger     zerolog.Logger

	mu       sync.Mutex
	sentinel Element
	watch    Subscription
	binding  uint64

	// pending is the single debounce slot; generation invalidates callbacks
	// from timers that were stopped too late.
	pending    Timer
	generation uint64

	closed bool
}

// NewSentinelObserver creates an observer over viewport. No watcher is
// attached until SetSentinel is called with an element.
func NewSentinelObserver(viewport Viewport, target LoadTarget, opts ...SentinelOption) *SentinelObserver {
	o := &SentinelObserver{
		viewport:   viewport,
		target:     target,
		debounce:   DefaultDebounce,
		rootMargin: DefaultRootMargin,
		scheduler:  RealScheduler,
		logger:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// SetSentinel binds the observer to el, releasing any previous watcher and
// pending trigger. A nil element leaves the observer detached; growth then only
// happens through LoadMore.
func (o *SentinelObserver) SetSentinel(el Element) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	prevWatch := o.watch
	prevTimer := o.clearPendingLocked()
	o.watch = nil
	o.sentinel = el
	o.binding++
	binding := o.binding
	o.mu.Unlock()

	release(prevWatch, prevTimer)

	if el == nil || o.viewport == nil {
		o.logger.Debug().
			Str("component", "scroll").
			Str("operation", "set_sentinel").
			Msg("no sentinel element, automatic loading disabled")
		return
	}

	// The host may report the initial state synchronously, so the lock is
	// not held here.
	sub := o.viewport.ObserveIntersection(el, o.rootMargin, o.onIntersect)

	o.mu.Lock()
	if o.closed || o.binding != binding {
		o.mu.Unlock()
		sub.Close()
		return
	}
	o.watch = sub
	o.mu.Unlock()

	o.logger.Debug().
		Str("component", "scroll").
		Str("operation", "set_sentinel").
		Str("element", el.ElementName()).
		Int("root_margin", o.rootMargin).
		Msg("sentinel attached")
}

// Sentinel returns the bound element, or nil.
func (o *SentinelObserver) Sentinel() Element {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sentinel
}

// Pending reports whether a debounced trigger is scheduled.
func (o *SentinelObserver) Pending() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pending != nil
}

// LoadMore grows the target unconditionally. It backs the explicit
// "load more" action and is the only way past the auto-load limit.
func (o *SentinelObserver) LoadMore() {
	o.target.LoadMore()
}

// Cancel drops the pending debounced trigger, if any.
func (o *SentinelObserver) Cancel() {
	o.mu.Lock()
	timer := o.clearPendingLocked()
	o.mu.Unlock()

	release(nil, timer)
}

// Close disconnects the watcher and cancels any pending trigger. The observer
// cannot be reused afterwards.
func (o *SentinelObserver) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	watch := o.watch
	o.watch = nil
	timer := o.clearPendingLocked()
	o.mu.Unlock()

	release(watch, timer)
}

func (o *SentinelObserver) onIntersect(visible bool) {
	if !visible {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed || o.pending != nil {
		return
	}

	o.generation++
	gen := o.generation
	o.pending = o.scheduler.AfterFunc(o.debounce, func() {
		o.fire(gen)
	})
}

func (o *SentinelObserver) fire(gen uint64) {
	o.mu.Lock()
	if o.closed || o.pending == nil || gen != o.generation {
		o.mu.Unlock()
		return
	}
	o.pending = nil
	o.mu.Unlock()

	if o.target.PastAutoLoadLimit() {
		o.logger.Debug().
			Str("component", "scroll").
			Str("operation", "auto_load").
			Msg("auto-load limit reached, waiting for manual load")
		return
	}

	o.target.LoadMore()
}

// clearPendingLocked empties the debounce slot and returns the timer to stop.
// Must be called with o.mu held.
func (o *SentinelObserver) clearPendingLocked() Timer {
	timer := o.pending
	o.pending = nil
	o.generation++
	return timer
}

func release(sub Subscription, timer Timer) {
	if sub != nil {
		sub.Close()
	}
	if timer != nil {
		timer.Stop()
	}
}
