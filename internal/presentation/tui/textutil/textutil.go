// Package textutil provides small formatting helpers for TUI text.
package textutil

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// SingleLine collapses whitespace into single spaces.
func SingleLine(text string) string {
	if text == "" {
		return ""
	}
	return strings.Join(strings.Fields(text), " ")
}

// Truncate trims a string to the given width with an ellipsis.
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(text, width, "...")
}

// PadRight pads text with spaces up to width, truncating when longer.
func PadRight(text string, width int) string {
	if width <= 0 {
		return ""
	}
	w := ansi.StringWidth(text)
	if w > width {
		return Truncate(text, width)
	}
	return text + strings.Repeat(" ", width-w)
}

// Indent prefixes text with depth*unit spaces.
func Indent(text string, depth, unit int) string {
	if depth <= 0 || unit <= 0 {
		return text
	}
	return strings.Repeat(" ", depth*unit) + text
}
