// Package header provides the detail pane header component.
package header

import (
	"github.com/charmbracelet/lipgloss"
)

// Props defines the properties for the header component.
type Props struct {
	Visible  bool
	Title    string
	Subtitle string
}

// Render renders the two-line detail header.
func Render(p Props) string {
	if !p.Visible {
		return ""
	}
	title := lipgloss.NewStyle().Bold(true).Render(p.Title)
	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Render(p.Subtitle)
	return title + "\n" + subtitle
}
