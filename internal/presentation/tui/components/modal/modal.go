// Package modal provides modal dialog components.
package modal

import (
	"github.com/charmbracelet/lipgloss"
)

// Kind represents the type of modal.
type Kind int

const (
	// None indicates no modal.
	None Kind = iota
	// Input shows a single-line text entry dialog.
	Input
	// Confirm shows a yes/no prompt.
	Confirm
	// Help shows the full key binding list.
	Help
)

// Props defines the properties for the modal component.
type Props struct {
	Visible bool
	Kind    Kind
	Body    string
	Width   int
	Height  int
}

// Render renders the modal centered over the whole screen.
func Render(p Props) string {
	if !p.Visible {
		return ""
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 2)

	switch p.Kind {
	case Input:
		style = style.Width(44).BorderForeground(lipgloss.Color("205"))
	case Confirm:
		style = style.BorderForeground(lipgloss.Color("167"))
	default:
		style = style.BorderForeground(lipgloss.Color("63"))
	}

	return lipgloss.Place(p.Width, p.Height, lipgloss.Center, lipgloss.Center,
		style.Render(p.Body))
}
