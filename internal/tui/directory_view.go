package tui

import (
	"fmt"
	"strings"

	"github.com/rshade/dirscroll/internal/catalog"
	"github.com/rshade/dirscroll/internal/pagination"
	"github.com/rshade/dirscroll/internal/tui/detail"
)

const (
	ecosystemWidth = 8
	versionWidth   = 12
	countWidth     = 12
)

const helpText = "/ filter  s sort  m load more  t top  r reload  enter detail  q quit"

// View renders the directory.
func (m DirectoryModel) View() string {
	if m.showDetail {
		if item := m.list.GetSelectedItem(); item != nil {
			return detail.Render(*item, m.width)
		}
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.list.ItemCount() == 0 {
		switch {
		case m.inFlight > 0:
			b.WriteString(RenderLoading(m.loading))
		default:
			b.WriteString(SubtleStyle.Render("No packages match."))
		}
	} else {
		b.WriteString(m.list.View())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	b.WriteString("\n")
	b.WriteString(SubtleStyle.Render(helpText))
	return b.String()
}

func (m DirectoryModel) renderHeader() string {
	header := HeaderStyle.Render("dirscroll")

	filter := m.session.Filter()
	switch {
	case m.showFilter:
		header += "  " + LabelStyle.Render("Filter: ") + m.textInput.View()
	case filter.Text != "":
		header += "  " + LabelStyle.Render("Filter: ") + ValueStyle.Render(filter.Text)
	}
	header += "  " + LabelStyle.Render("Sort: ") + ValueStyle.Render(filter.Sort.String())

	if m.showTop {
		header += "  " + BadgeStyle.Render("↑ top (t)")
	}
	return header
}

func (m DirectoryModel) renderFooter() string {
	meta := m.session.Meta()
	status := RenderMeta(meta)

	switch {
	case m.err != nil:
		status += "  " + ErrorStyle.Render("Error: "+m.err.Error())
	case m.inFlight > 0 && m.list.ItemCount() > 0:
		status += "  " + RenderLoading(m.loading)
	}
	return status
}

// RenderMeta summarizes the pagination window.
func RenderMeta(meta pagination.Meta) string {
	status := fmt.Sprintf("Showing %s of limit %s (auto-load up to %s)",
		FormatCount(int64(meta.Loaded)),
		FormatCount(int64(meta.Limit)),
		FormatCount(int64(meta.AutoLoadLimit)))

	switch {
	case meta.ShowLoadMore():
		return InfoStyle.Render(status) + "  " + ActionStyle.Render("press m to load more")
	case !meta.CanLoadMore:
		return InfoStyle.Render(status) + "  " + SubtleStyle.Render("end of list")
	default:
		return InfoStyle.Render(status)
	}
}

func renderSentinelRow(meta pagination.Meta) string {
	if meta.ShowLoadMore() {
		return ActionStyle.Render("  ▼ Load more (m)")
	}
	return SubtleStyle.Render("  … loading more")
}

func renderPackageRow(p catalog.Package, selected bool) string {
	line := fmt.Sprintf("%-*s %-*s %-*s %*s %*s",
		maxNameDisplayLen, truncate(p.Name, maxNameDisplayLen),
		ecosystemWidth, truncate(p.Ecosystem, ecosystemWidth),
		versionWidth, truncate(p.Version, versionWidth),
		countWidth, FormatCount(p.Downloads),
		countWidth, "★ "+FormatCount(p.Stars))

	if selected {
		return SelectedStyle.Render("> " + line)
	}
	return "  " + line
}
