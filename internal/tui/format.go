package tui

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	maxNameDisplayLen = 32
	truncateSuffix    = "..."
)

//nolint:gochecknoglobals // Shared English number printer.
var numberPrinter = message.NewPrinter(language.English)

// FormatCount renders n with thousands separators.
func FormatCount(n int64) string {
	return numberPrinter.Sprintf("%d", n)
}

// FormatDate renders t as a date, or "-" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02")
}

// truncate shortens s to maxLen runes, marking the cut with an ellipsis.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= len(truncateSuffix) {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-len(truncateSuffix)]) + truncateSuffix
}
