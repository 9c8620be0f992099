package scroll

import (
	"sync"
)

// DefaultBackToTopThreshold is the scroll offset past which the back-to-top
// affordance is shown.
const DefaultBackToTopThreshold = 800

// BackToTopOption configures a BackToTop controller.
type BackToTopOption func(*BackToTop)

// WithThreshold sets the offset past which the affordance is shown.
func WithThreshold(offset int) BackToTopOption {
	return func(b *BackToTop) {
		b.threshold = offset
	}
}

// BackToTop tracks whether the viewport is scrolled past a threshold. It
// listens to every scroll event without debouncing since the check is a single
// comparison.
type BackToTop struct {
	viewport  Viewport
	threshold int

	mu        sync.Mutex
	visible   bool
	listeners map[int]func(bool)
	nextID    int
	sub       Subscription
	closed    bool
}

// NewBackToTop attaches a scroll listener to viewport. Call Close to detach.
func NewBackToTop(viewport Viewport, opts ...BackToTopOption) *BackToTop {
	b := &BackToTop{
		viewport:  viewport,
		threshold: DefaultBackToTopThreshold,
		listeners: make(map[int]func(bool)),
	}

	for _, opt := range opts {
		opt(b)
	}

	// Without a viewport the affordance stays hidden.
	if viewport == nil {
		return b
	}

	b.visible = viewport.ScrollOffset() > b.threshold
	sub := viewport.OnScroll(b.onScroll)

	b.mu.Lock()
	b.sub = sub
	b.mu.Unlock()

	return b
}

// Visible reports whether the back-to-top affordance should be shown.
func (b *BackToTop) Visible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.visible
}

// Threshold returns the configured offset threshold.
func (b *BackToTop) Threshold() int {
	return b.threshold
}

// ScrollToTop smoothly scrolls the viewport back to the origin.
func (b *BackToTop) ScrollToTop() {
	if b.viewport == nil {
		return
	}
	b.viewport.ScrollTo(0, true)
}

// OnChange registers fn to be called when visibility flips. The returned
// function removes it.
func (b *BackToTop) OnChange(fn func(visible bool)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

// Close detaches the scroll listener. Safe to call more than once.
func (b *BackToTop) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	sub := b.sub
	b.sub = nil
	b.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
}

func (b *BackToTop) onScroll(offset int) {
	visible := offset > b.threshold

	b.mu.Lock()
	if b.closed || visible == b.visible {
		b.mu.Unlock()
		return
	}
	b.visible = visible
	listeners := make([]func(bool), 0, len(b.listeners))
	for _, fn := range b.listeners {
		listeners = append(listeners, fn)
	}
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(visible)
	}
}
