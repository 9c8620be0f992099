package pagination

import (
	"sync"
)

// Listener is notified with the new limit after every change.
type Listener func(limit int)

// LimitController owns the pagination window size. It is the only writer of
// the limit; consumers read it with Limit and react to changes through
// Subscribe.
//
// Listeners run synchronously on the goroutine that changed the limit, after
// the controller's lock has been released.
type LimitController struct {
	cfg   Config
	limit int

	listeners map[int]Listener
	nextID    int

	mu sync.Mutex
}

// NewLimitController creates a controller at cfg.InitialLimit. Zero fields in
// cfg take their defaults; cfg is not validated here.
func NewLimitController(cfg Config) *LimitController {
	cfg = cfg.withDefaults()
	return &LimitController{
		cfg:       cfg,
		limit:     cfg.InitialLimit,
		listeners: make(map[int]Listener),
	}
}

// Config returns the effective window configuration.
func (c *LimitController) Config() Config {
	return c.cfg
}

// Limit returns the current window size.
func (c *LimitController) Limit() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.limit
}

// SetLimit overrides the window size. Values below the initial limit are
// raised to it. Prefer LoadMore and ResetLimit.
func (c *LimitController) SetLimit(limit int) {
	if limit < c.cfg.InitialLimit {
		limit = c.cfg.InitialLimit
	}
	c.update(func(int) int { return limit })
}

// LoadMore grows the window by the load-more count. There is no upper bound;
// callers that auto-load must check PastAutoLoadLimit first.
func (c *LimitController) LoadMore() {
	c.update(func(cur int) int { return cur + c.cfg.LoadMoreCount })
}

// ResetLimit returns the window to the initial limit.
func (c *LimitController) ResetLimit() {
	c.update(func(int) int { return c.cfg.InitialLimit })
}

// CanLoadMore reports whether itemCount has caught up with the window, meaning
// the source may hold more items than were requested.
func (c *LimitController) CanLoadMore(itemCount int) bool {
	return itemCount >= c.Limit()
}

// PastAutoLoadLimit reports whether automatic growth must stop.
func (c *LimitController) PastAutoLoadLimit() bool {
	return c.Limit() >= c.cfg.AutoLoadLimit
}

// Subscribe registers fn for limit changes and returns a function that removes
// it. The returned function is safe to call more than once.
func (c *LimitController) Subscribe(fn Listener) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

// Meta returns a snapshot of the window for itemCount loaded items.
func (c *LimitController) Meta(itemCount int) Meta {
	return NewMeta(c.cfg, c.Limit(), itemCount)
}

// update applies next under the lock and notifies listeners outside it when
// the value changed.
func (c *LimitController) update(next func(cur int) int) {
	c.mu.Lock()
	prev := c.limit
	c.limit = next(prev)
	limit := c.limit
	var listeners []Listener
	if limit != prev {
		listeners = make([]Listener, 0, len(c.listeners))
		for _, fn := range c.listeners {
			listeners = append(listeners, fn)
		}
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(limit)
	}
}
