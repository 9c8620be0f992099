package scroll

import (
	"sync"
	"time"
)

type marker string

func (m marker) ElementName() string { return string(m) }

type intersectionWatch struct {
	el     Element
	margin int
	fn     func(bool)
}

// fakeViewport records watchers and lets tests drive events by hand.
type fakeViewport struct {
	mu            sync.Mutex
	offset        int
	initial       *bool
	watches       map[int]*intersectionWatch
	scrolls       map[int]func(int)
	nextID        int
	scrolledTo    []int
	smoothScrolls int
}

func newFakeViewport() *fakeViewport {
	return &fakeViewport{
		watches: make(map[int]*intersectionWatch),
		scrolls: make(map[int]func(int)),
	}
}

func (v *fakeViewport) ObserveIntersection(el Element, margin int, fn func(bool)) Subscription {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.watches[id] = &intersectionWatch{el: el, margin: margin, fn: fn}
	initial := v.initial
	v.mu.Unlock()

	if initial != nil {
		fn(*initial)
	}

	return OnceSubscription(func() {
		v.mu.Lock()
		delete(v.watches, id)
		v.mu.Unlock()
	})
}

func (v *fakeViewport) OnScroll(fn func(int)) Subscription {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.scrolls[id] = fn
	v.mu.Unlock()

	return OnceSubscription(func() {
		v.mu.Lock()
		delete(v.scrolls, id)
		v.mu.Unlock()
	})
}

func (v *fakeViewport) ScrollOffset() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.offset
}

func (v *fakeViewport) ScrollTo(offset int, smooth bool) {
	v.mu.Lock()
	v.scrolledTo = append(v.scrolledTo, offset)
	if smooth {
		v.smoothScrolls++
	}
	v.mu.Unlock()
	v.scroll(offset)
}

func (v *fakeViewport) intersect(visible bool) {
	v.mu.Lock()
	fns := make([]func(bool), 0, len(v.watches))
	for _, w := range v.watches {
		fns = append(fns, w.fn)
	}
	v.mu.Unlock()

	for _, fn := range fns {
		fn(visible)
	}
}

func (v *fakeViewport) scroll(offset int) {
	v.mu.Lock()
	v.offset = offset
	fns := make([]func(int), 0, len(v.scrolls))
	for _, fn := range v.scrolls {
		fns = append(fns, fn)
	}
	v.mu.Unlock()

	for _, fn := range fns {
		fn(offset)
	}
}

func (v *fakeViewport) watchCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.watches)
}

func (v *fakeViewport) scrollCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.scrolls)
}

// fakeTimer fires only when the test calls fire.
type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

type fakeScheduler struct {
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// fireAll runs every timer that is still active.
func (s *fakeScheduler) fireAll() {
	for _, t := range s.timers {
		if t.stopped || t.fired {
			continue
		}
		t.fired = true
		t.f()
	}
}

func (s *fakeScheduler) active() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// countingTarget is a LoadTarget with a fixed step and ceiling.
type countingTarget struct {
	limit, step, ceiling int
	calls                int
}

func (c *countingTarget) LoadMore() {
	c.calls++
	c.limit += c.step
}

func (c *countingTarget) PastAutoLoadLimit() bool {
	return c.limit >= c.ceiling
}
