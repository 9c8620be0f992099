package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/rshade/dirscroll/internal/catalog"
	"github.com/rshade/dirscroll/internal/listsync"
	"github.com/rshade/dirscroll/internal/scroll"
	listview "github.com/rshade/dirscroll/internal/tui/list"
)

// LimitChangedMsg is sent when the pagination window changes size.
type LimitChangedMsg struct {
	Limit int
}

// CatalogChangedMsg asks the directory to re-query its source.
type CatalogChangedMsg struct{}

// BackToTopMsg is sent when the back-to-top badge should appear or disappear.
type BackToTopMsg struct {
	Visible bool
}

type refreshDoneMsg struct {
	changed bool
	err     error
}

// sortCycle is the order the sort key steps through.
//
//nolint:gochecknoglobals // Read-only lookup table.
var sortCycle = []catalog.Sort{
	{Field: catalog.SortDownloads, Order: catalog.SortOrderDesc},
	{Field: catalog.SortStars, Order: catalog.SortOrderDesc},
	{Field: catalog.SortName, Order: catalog.SortOrderAsc},
	{Field: catalog.SortUpdated, Order: catalog.SortOrderDesc},
	{Field: catalog.SortVersion, Order: catalog.SortOrderDesc},
}

// DirectoryOptions tunes scroll behavior. Zero values take the scroll
// package defaults.
type DirectoryOptions struct {
	RowHeightPx          int
	Debounce             time.Duration
	RootMarginPx         int
	BackToTopThresholdPx int

	// Scheduler replaces the debounce timer source.
	Scheduler scroll.Scheduler

	Logger zerolog.Logger
}

// DirectoryModel is the Bubble Tea model for the infinitely scrolling package
// directory.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type DirectoryModel struct {
	ctx     context.Context
	cancel  context.CancelFunc
	session *listsync.Session
	logger  zerolog.Logger

	list      *listview.VirtualListModel[catalog.Package]
	viewport  *Viewport
	sentinel  *scroll.SentinelObserver
	backToTop *scroll.BackToTop
	events    *eventQueue
	releases  []func()

	textInput textinput.Model
	loading   *LoadingState

	width         int
	height        int
	showFilter    bool
	showDetail    bool
	showTop       bool
	sentinelBound bool
	inFlight      int
	err           error
}

// NewDirectoryModel creates the directory view over session. Call Close when
// the program exits.
func NewDirectoryModel(ctx context.Context, session *listsync.Session, opts DirectoryOptions) DirectoryModel {
	ctx, cancel := context.WithCancel(ctx)
	logger := opts.Logger.With().Str("component", "tui").Logger()

	list := listview.NewVirtualListModel(session.Items(), defaultHeight-chromeRows, defaultWidth, renderPackageRow)
	viewport := NewViewport(list, opts.RowHeightPx)
	events := newEventQueue(ctx)

	sentinelOpts := []scroll.SentinelOption{scroll.WithSentinelLogger(logger)}
	if opts.Debounce > 0 {
		sentinelOpts = append(sentinelOpts, scroll.WithDebounce(opts.Debounce))
	}
	if opts.RootMarginPx > 0 {
		sentinelOpts = append(sentinelOpts, scroll.WithRootMargin(opts.RootMarginPx))
	}
	if opts.Scheduler != nil {
		sentinelOpts = append(sentinelOpts, scroll.WithScheduler(opts.Scheduler))
	}
	sentinel := scroll.NewSentinelObserver(viewport, session.Controller(), sentinelOpts...)

	var topOpts []scroll.BackToTopOption
	if opts.BackToTopThresholdPx > 0 {
		topOpts = append(topOpts, scroll.WithThreshold(opts.BackToTopThresholdPx))
	}
	backToTop := scroll.NewBackToTop(viewport, topOpts...)

	m := DirectoryModel{
		ctx:       ctx,
		cancel:    cancel,
		session:   session,
		logger:    logger,
		list:      list,
		viewport:  viewport,
		sentinel:  sentinel,
		backToTop: backToTop,
		events:    events,
		textInput: newTextInput(),
		loading:   NewLoadingState(),
		width:     defaultWidth,
		height:    defaultHeight,
		showTop:   backToTop.Visible(),
		inFlight:  1,
	}

	m.releases = append(m.releases,
		session.Controller().Subscribe(func(limit int) {
			events.send(LimitChangedMsg{Limit: limit})
		}),
		backToTop.OnChange(func(visible bool) {
			events.send(BackToTopMsg{Visible: visible})
		}),
	)

	return m
}

// Notify delivers msg to the model from another goroutine.
func (m DirectoryModel) Notify(msg tea.Msg) {
	m.events.send(msg)
}

// Close releases the scroll watchers, listeners and pending timers. Safe to
// call more than once.
func (m DirectoryModel) Close() {
	m.sentinel.Close()
	m.backToTop.Close()
	for _, release := range m.releases {
		release()
	}
	m.cancel()
}

// Init starts the spinner, the first query and the event pump.
func (m DirectoryModel) Init() tea.Cmd {
	return tea.Batch(m.loading.Init(), m.refreshCmd(), m.events.wait())
}

// Update handles messages and updates the model state.
func (m DirectoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, max(1, msg.Height-chromeRows))
		m.viewport.Sync()
		return m, nil

	case spinner.TickMsg:
		return m, m.loading.Update(msg)

	case LimitChangedMsg:
		m.logger.Debug().
			Str("operation", "limit_changed").
			Int("limit", msg.Limit).
			Msg("window resized, refreshing")
		m.inFlight++
		return m, tea.Batch(m.refreshCmd(), m.events.wait())

	case CatalogChangedMsg:
		m.inFlight++
		return m, tea.Batch(m.refreshCmd(), m.events.wait())

	case BackToTopMsg:
		// A newer flip may have been dropped from the queue; read the source.
		m.showTop = m.backToTop.Visible()
		return m, m.events.wait()

	case refreshDoneMsg:
		return m.handleRefreshDone(msg), nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m DirectoryModel) handleRefreshDone(msg refreshDoneMsg) DirectoryModel {
	if m.inFlight > 0 {
		m.inFlight--
	}

	if msg.err != nil {
		m.err = msg.err
		m.logger.Warn().
			Str("operation", "refresh").
			Err(msg.err).
			Msg("catalog query failed")
		return m
	}
	m.err = nil

	if msg.changed {
		m.list.SetItems(m.session.Items())
	}
	m.bindSentinel(msg.changed)
	m.viewport.Sync()
	return m
}

// bindSentinel adds or removes the sentinel row. The observer is re-bound
// after every change so a sentinel that is still in view after a load
// triggers the next one.
func (m *DirectoryModel) bindSentinel(changed bool) {
	want := m.session.CanLoadMore()

	switch {
	case want && (!m.sentinelBound || changed):
		session := m.session
		m.list.SetSentinel(func() string { return renderSentinelRow(session.Meta()) })
		m.viewport.Sync()
		m.sentinel.SetSentinel(SentinelElement{})
		m.sentinelBound = true
	case !want && m.sentinelBound:
		m.list.SetSentinel(nil)
		m.sentinel.SetSentinel(nil)
		m.sentinelBound = false
	}
}

//nolint:gocognit,exhaustive // Key handling inherently requires multiple branches.
func (m DirectoryModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.showFilter {
		return m.handleFilterKey(msg)
	}

	if m.showDetail {
		switch msg.Type {
		case tea.KeyEsc, tea.KeyEnter, tea.KeyBackspace:
			m.showDetail = false
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.showFilter = true
		m.textInput.SetValue(m.session.Filter().Text)
		m.textInput.CursorEnd()
		return m, m.textInput.Focus()
	case "m":
		if m.session.CanLoadMore() {
			m.sentinel.LoadMore()
		}
		return m, nil
	case "t":
		m.backToTop.ScrollToTop()
		return m, nil
	case "r":
		m.session.Reload()
		m.inFlight++
		return m, m.refreshCmd()
	case "s":
		f := m.session.Filter()
		f.Sort = nextSort(f.Sort)
		return m.applyFilter(f)
	case "enter":
		m.showDetail = m.list.GetSelectedItem() != nil
		return m, nil
	}

	_, _ = m.list.Update(msg)
	m.viewport.Sync()
	return m, nil
}

func (m DirectoryModel) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.showFilter = false
		m.textInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.showFilter = false
		m.textInput.Blur()
		f := m.session.Filter()
		f.Text = m.textInput.Value()
		return m.applyFilter(f)
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// applyFilter switches the session to f and starts over from the top.
func (m DirectoryModel) applyFilter(f catalog.Filter) (tea.Model, tea.Cmd) {
	if !m.session.SetFilter(f) {
		return m, nil
	}
	m.sentinel.Cancel()
	m.list.ScrollToTop()
	m.viewport.Sync()
	m.inFlight++
	return m, m.refreshCmd()
}

func (m DirectoryModel) refreshCmd() tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		changed, err := session.Refresh(ctx)
		return refreshDoneMsg{changed: changed, err: err}
	}
}

func nextSort(cur catalog.Sort) catalog.Sort {
	if cur.Field == "" {
		cur = catalog.DefaultSort()
	}
	for i, s := range sortCycle {
		if s.Field == cur.Field {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return sortCycle[0]
}
