// Package mainview provides the detail pane component.
package mainview

import (
	"github.com/charmbracelet/lipgloss"
)

// Props defines the properties for the detail pane.
type Props struct {
	Width  int
	Height int
	Header string
	Body   string
}

// Render renders the detail pane with an optional header above the body.
func Render(p Props) string {
	style := lipgloss.NewStyle().
		Width(p.Width).
		Height(p.Height).
		PaddingLeft(1)

	content := p.Body
	if p.Header != "" {
		content = p.Header
		if p.Body != "" {
			content += "\n\n" + p.Body
		}
	}
	return style.Render(content)
}
