package detail

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/dirscroll/internal/catalog"
)

const borderPadding = 2

//nolint:gochecknoglobals // Read-only style definitions.
var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
)

// Render returns the detail box for p, width columns wide.
func Render(p catalog.Package, width int) string {
	printer := message.NewPrinter(language.English)

	var content strings.Builder
	content.WriteString(headerStyle.Render(strings.ToUpper(p.Name)))
	content.WriteString("\n\n")

	field := func(label, value string) {
		if value == "" {
			value = "-"
		}
		content.WriteString(labelStyle.Render(label))
		content.WriteString(valueStyle.Render(value))
		content.WriteString("\n")
	}

	field("Ecosystem:   ", p.Ecosystem)
	field("Version:     ", p.Version)
	field("Downloads:   ", printer.Sprintf("%d", p.Downloads))
	field("Stars:       ", printer.Sprintf("%d", p.Stars))
	updated := ""
	if !p.UpdatedAt.IsZero() {
		updated = p.UpdatedAt.UTC().Format(time.DateOnly)
	}
	field("Updated:     ", updated)

	if p.Description != "" {
		content.WriteString("\n")
		content.WriteString(valueStyle.Render(p.Description))
		content.WriteString("\n")
	}

	content.WriteString(subtleStyle.Render("\nPress ESC to return"))

	if width <= borderPadding {
		return boxStyle.Render(content.String())
	}
	return boxStyle.Width(width - borderPadding).Render(content.String())
}
