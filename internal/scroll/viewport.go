package scroll

import (
	"sync"
	"time"
)

// Element is a marker rendered inside a viewport, such as the sentinel row that
// follows the last loaded item. Hosts decide how to locate it.
type Element interface {
	ElementName() string
}

// Subscription is a registered watcher or listener. Close releases it and is
// safe to call more than once.
type Subscription interface {
	Close()
}

// SubscriptionFunc adapts a release function to Subscription.
type SubscriptionFunc func()

// Close calls f.
func (f SubscriptionFunc) Close() { f() }

// OnceSubscription wraps release so that it runs at most once.
func OnceSubscription(release func()) Subscription {
	var once sync.Once
	return SubscriptionFunc(func() { once.Do(release) })
}

// Viewport is the scrolling surface a list is rendered into. Offsets are
// expressed in the host's scroll unit (pixels, or pixel-equivalents for
// terminal hosts).
type Viewport interface {
	// ObserveIntersection watches el and calls fn whenever it enters or leaves
	// the viewport grown by rootMargin on each side. Hosts report the current
	// state once after registration.
	ObserveIntersection(el Element, rootMargin int, fn func(visible bool)) Subscription

	// OnScroll calls fn with the vertical offset after every scroll.
	OnScroll(fn func(offset int)) Subscription

	// ScrollOffset returns the current vertical offset.
	ScrollOffset() int

	// ScrollTo moves the viewport to offset, animating when smooth is set and
	// the host supports it.
	ScrollTo(offset int, smooth bool)
}

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(d time.Duration, f func()) Timer

// AfterFunc calls s(d, f).
func (s SchedulerFunc) AfterFunc(d time.Duration, f func()) Timer { return s(d, f) }

// RealScheduler schedules callbacks with time.AfterFunc.
//
//nolint:gochecknoglobals // Stateless default scheduler.
var RealScheduler Scheduler = SchedulerFunc(func(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
})
