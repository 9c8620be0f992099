package scroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/dirscroll/internal/pagination"
)

func newObserver(t *testing.T, target LoadTarget) (*SentinelObserver, *fakeViewport, *fakeScheduler) {
	t.Helper()
	vp := newFakeViewport()
	sched := &fakeScheduler{}
	o := NewSentinelObserver(vp, target, WithScheduler(sched))
	t.Cleanup(o.Close)
	return o, vp, sched
}

func TestSentinelObserver_Defaults(t *testing.T) {
	o := NewSentinelObserver(newFakeViewport(), &countingTarget{})

	assert.Equal(t, DefaultDebounce, o.debounce)
	assert.Equal(t, DefaultRootMargin, o.rootMargin)
	assert.Nil(t, o.Sentinel())
	assert.False(t, o.Pending())
}

func TestSentinelObserver_AttachUsesRootMargin(t *testing.T) {
	vp := newFakeViewport()
	o := NewSentinelObserver(vp, &countingTarget{}, WithRootMargin(64), WithScheduler(&fakeScheduler{}))
	defer o.Close()

	o.SetSentinel(marker("end"))

	require.Equal(t, 1, vp.watchCount())
	for _, w := range vp.watches {
		assert.Equal(t, 64, w.margin)
		assert.Equal(t, marker("end"), w.el)
	}
	assert.Equal(t, marker("end"), o.Sentinel())
}

func TestSentinelObserver_DebounceCoalescing(t *testing.T) {
	target := &countingTarget{limit: 24, step: 24, ceiling: 240}
	o, vp, sched := newObserver(t, target)
	o.SetSentinel(marker("end"))

	vp.intersect(true)
	vp.intersect(true)
	vp.intersect(true)

	assert.True(t, o.Pending())
	assert.Equal(t, 1, sched.active(), "only one debounce may be in flight")
	assert.Equal(t, DefaultDebounce, sched.timers[0].d)

	sched.fireAll()
	assert.Equal(t, 1, target.calls)
	assert.False(t, o.Pending())

	// A later event schedules a new trigger.
	vp.intersect(true)
	sched.fireAll()
	assert.Equal(t, 2, target.calls)
}

func TestSentinelObserver_HiddenEventsIgnored(t *testing.T) {
	target := &countingTarget{limit: 24, step: 24, ceiling: 240}
	o, vp, sched := newObserver(t, target)
	o.SetSentinel(marker("end"))

	vp.intersect(false)
	assert.False(t, o.Pending())
	assert.Equal(t, 0, sched.active())
}

func TestSentinelObserver_AutoLoadCeiling(t *testing.T) {
	limits := pagination.NewLimitController(pagination.DefaultConfig())
	o, vp, sched := newObserver(t, limits)
	o.SetSentinel(marker("end"))

	for range 9 {
		vp.intersect(true)
		sched.fireAll()
	}
	assert.Equal(t, 240, limits.Limit())
	assert.True(t, limits.PastAutoLoadLimit())

	// Tenth automatic trigger: the slot clears without growing the window.
	vp.intersect(true)
	require.True(t, o.Pending())
	sched.fireAll()
	assert.Equal(t, 240, limits.Limit())
	assert.False(t, o.Pending())

	// The manual path ignores the ceiling.
	o.LoadMore()
	assert.Equal(t, 264, limits.Limit())
}

func TestSentinelObserver_NilSentinelAttachesNothing(t *testing.T) {
	target := &countingTarget{limit: 24, step: 24, ceiling: 240}
	o, vp, _ := newObserver(t, target)

	o.SetSentinel(nil)
	assert.Equal(t, 0, vp.watchCount())

	o.LoadMore()
	assert.Equal(t, 1, target.calls)
}

func TestSentinelObserver_NilViewport(t *testing.T) {
	target := &countingTarget{limit: 24, step: 24, ceiling: 240}
	o := NewSentinelObserver(nil, target)
	defer o.Close()

	assert.NotPanics(t, func() { o.SetSentinel(marker("end")) })
}

func TestSentinelObserver_RebindReleasesPrevious(t *testing.T) {
	target := &countingTarget{limit: 24, step: 24, ceiling: 240}
	o, vp, sched := newObserver(t, target)

	o.SetSentinel(marker("a"))
	vp.intersect(true)
	require.True(t, o.Pending())

	o.SetSentinel(marker("b"))
	assert.Equal(t, 1, vp.watchCount())
	assert.False(t, o.Pending(), "rebinding clears the pending trigger")
	assert.Equal(t, 0, sched.active())

	sched.fireAll()
	assert.Equal(t, 0, target.calls)
}

func TestSentinelObserver_InitialVisibleStateSchedules(t *testing.T) {
	target := &countingTarget{limit: 24, step: 24, ceiling: 240}
	o, vp, sched := newObserver(t, target)
	visible := true
	vp.initial = &visible

	o.SetSentinel(marker("end"))
	assert.True(t, o.Pending())

	sched.fireAll()
	assert.Equal(t, 1, target.calls)
}

func TestSentinelObserver_Cancel(t *testing.T) {
	target := &countingTarget{limit: 24, step: 24, ceiling: 240}
	o, vp, sched := newObserver(t, target)
	o.SetSentinel(marker("end"))

	vp.intersect(true)
	o.Cancel()
	assert.False(t, o.Pending())

	sched.fireAll()
	assert.Equal(t, 0, target.calls)
}

func TestSentinelObserver_LateTimerCallbackIgnored(t *testing.T) {
	target := &countingTarget{limit: 24, step: 24, ceiling: 240}
	o, vp, sched := newObserver(t, target)
	o.SetSentinel(marker("end"))

	vp.intersect(true)
	stale := sched.timers[0]
	o.Cancel()

	// Simulates a timer whose callback was already running when stopped.
	stale.f()
	assert.Equal(t, 0, target.calls)
}

func TestSentinelObserver_Close(t *testing.T) {
	target := &countingTarget{limit: 24, step: 24, ceiling: 240}
	o, vp, sched := newObserver(t, target)
	o.SetSentinel(marker("end"))
	vp.intersect(true)

	o.Close()
	assert.Equal(t, 0, vp.watchCount())
	assert.Equal(t, 0, sched.active())

	// Closed observers ignore further events and rebinding.
	vp.intersect(true)
	o.SetSentinel(marker("again"))
	assert.Equal(t, 0, vp.watchCount())
	assert.NotPanics(t, o.Close)
}

func TestSentinelObserver_RealScheduler(t *testing.T) {
	limits := pagination.NewLimitController(pagination.DefaultConfig())
	vp := newFakeViewport()
	o := NewSentinelObserver(vp, limits, WithDebounce(20*time.Millisecond))
	defer o.Close()
	o.SetSentinel(marker("end"))

	vp.intersect(true)
	vp.intersect(true)

	require.Eventually(t, func() bool {
		return limits.Limit() == 48
	}, time.Second, 5*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 48, limits.Limit(), "two events inside the window produce one load")
}
