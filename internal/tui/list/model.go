package listview

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// defaultBufferSize is the number of extra rows rendered past each edge of
// the viewport.
const defaultBufferSize = 5

// RenderFunc renders one item; selected is true for the highlighted row.
type RenderFunc[T any] func(item T, selected bool) string

// SentinelFunc renders the trailing sentinel row.
type SentinelFunc func() string

// KeyMap holds the navigation bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
}

// DefaultKeyMap returns arrow, paging and vim-style bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Home:     key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "first")),
		End:      key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "last")),
	}
}

// VirtualListModel is a list that renders only the rows around the viewport,
// so a frame costs the same at 24 items as at 10,000. Rows are the items
// followed by an optional sentinel row, which can be scrolled into view but
// never selected.
type VirtualListModel[T any] struct {
	items    []T
	render   RenderFunc[T]
	sentinel SentinelFunc
	keys     KeyMap

	selected int

	// [from, to) is the row range inside the viewport.
	from, to int

	height, width int
	buffer        int
}

// NewVirtualListModel creates a list showing items in a height by width
// viewport.
func NewVirtualListModel[T any](items []T, height, width int, render RenderFunc[T]) *VirtualListModel[T] {
	m := &VirtualListModel[T]{
		items:  items,
		render: render,
		keys:   DefaultKeyMap(),
		height: height,
		width:  width,
		buffer: defaultBufferSize,
	}
	m.reflow()
	return m
}

// Init implements tea.Model.
func (m *VirtualListModel[T]) Init() tea.Cmd {
	return nil
}

// Update handles navigation keys and resizes.
func (m *VirtualListModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.navigate(msg)
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}
	return m, nil
}

// KeyMap returns the navigation bindings, for help rendering.
func (m *VirtualListModel[T]) KeyMap() KeyMap {
	return m.keys
}

func (m *VirtualListModel[T]) navigate(msg tea.KeyMsg) {
	if len(m.items) == 0 {
		return
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.SetSelected(m.selected - 1)
	case key.Matches(msg, m.keys.Down):
		m.SetSelected(m.selected + 1)
	case key.Matches(msg, m.keys.PageUp):
		m.SetSelected(m.selected - m.height)
	case key.Matches(msg, m.keys.PageDown):
		m.SetSelected(m.selected + m.height)
	case key.Matches(msg, m.keys.Home):
		m.SetSelected(0)
	case key.Matches(msg, m.keys.End):
		m.SetSelected(len(m.items) - 1)
	}
}

// reflow centers the viewport on the selection, pinned to the first and last
// rows. The sentinel row counts as a row, so selecting the last item brings
// it into view.
func (m *VirtualListModel[T]) reflow() {
	rows := m.RowCount()
	if rows == 0 {
		m.from, m.to = 0, 0
		return
	}

	half := m.height / 2 //nolint:mnd // center of the viewport
	from := m.selected - half
	switch {
	case from < 0:
		from = 0
	case m.selected+half > rows:
		from = max(rows-m.height, 0)
	}

	m.from = from
	m.to = min(from+m.height, rows)
}

// View renders the viewport rows plus the buffer on either side.
func (m *VirtualListModel[T]) View() string {
	rows := m.RowCount()
	if rows == 0 {
		return ""
	}

	start := max(m.from-m.buffer, 0)
	end := min(m.to+m.buffer, rows)

	var b strings.Builder
	for i := start; i < end; i++ {
		if i > start {
			b.WriteByte('\n')
		}
		if i == len(m.items) {
			b.WriteString(m.sentinel())
			continue
		}
		b.WriteString(m.render(m.items[i], i == m.selected))
	}
	return b.String()
}

// ItemCount returns the number of items.
func (m *VirtualListModel[T]) ItemCount() int {
	return len(m.items)
}

// RowCount returns the number of rows, sentinel included.
func (m *VirtualListModel[T]) RowCount() int {
	if m.sentinel == nil {
		return len(m.items)
	}
	return len(m.items) + 1
}

// Items returns the items. The slice must not be modified.
func (m *VirtualListModel[T]) Items() []T {
	return m.items
}

// SetItems replaces the items. The selection stays put while it is in range.
func (m *VirtualListModel[T]) SetItems(items []T) {
	m.items = items
	m.SetSelected(m.selected)
}

// SetSentinel sets the sentinel row renderer; nil removes the row.
func (m *VirtualListModel[T]) SetSentinel(fn SentinelFunc) {
	m.sentinel = fn
	m.reflow()
}

// SentinelIndex returns the sentinel's row index, or -1 without one.
func (m *VirtualListModel[T]) SentinelIndex() int {
	if m.sentinel == nil {
		return -1
	}
	return len(m.items)
}

// ScrollOffset returns the first row in the viewport.
func (m *VirtualListModel[T]) ScrollOffset() int {
	return m.from
}

// ScrollToTop selects the first item.
func (m *VirtualListModel[T]) ScrollToTop() {
	m.SetSelected(0)
}

// SetSize resizes the viewport.
func (m *VirtualListModel[T]) SetSize(width, height int) {
	m.width, m.height = width, height
	m.reflow()
}

// Selected returns the selected item index.
func (m *VirtualListModel[T]) Selected() int {
	return m.selected
}

// SetSelected selects index, clamped to the items, and scrolls it into view.
func (m *VirtualListModel[T]) SetSelected(index int) {
	m.selected = min(max(index, 0), max(len(m.items)-1, 0))
	m.reflow()
}

// VisibleFrom returns the first row in the viewport.
func (m *VirtualListModel[T]) VisibleFrom() int {
	return m.from
}

// VisibleTo returns the row after the last one in the viewport.
func (m *VirtualListModel[T]) VisibleTo() int {
	return m.to
}

// Height returns the viewport height in rows.
func (m *VirtualListModel[T]) Height() int {
	return m.height
}

// Width returns the viewport width in columns.
func (m *VirtualListModel[T]) Width() int {
	return m.width
}

// GetSelectedItem returns the selected item, or nil when the list is empty.
func (m *VirtualListModel[T]) GetSelectedItem() *T {
	if m.selected >= len(m.items) {
		return nil
	}
	return &m.items[m.selected]
}
