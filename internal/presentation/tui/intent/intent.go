// Package intent maps key presses to tree-view intents.
package intent

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"feedtray/internal/presentation/tui/state"
)

// Intent is a user action in the tree view.
type Intent int

const (
	None Intent = iota
	Up
	Down
	Open
	Back
	Quit
	ToggleExpand
	ExpandAll
	CollapseAll
	Move
	Refresh
	RefreshAll
	AddCategory
	Rename
	Delete
	Unsubscribe
	Subscribe
	Settings
	Filter
	ToggleCounts
	Track
	ToggleSidebar
	Help
)

// FromKey resolves a key press against the key map.
func FromKey(msg tea.KeyMsg, keys *state.KeyMap) Intent {
	switch {
	case key.Matches(msg, keys.Up):
		return Up
	case key.Matches(msg, keys.Down):
		return Down
	case key.Matches(msg, keys.Open):
		return Open
	case key.Matches(msg, keys.Back):
		return Back
	case key.Matches(msg, keys.Quit):
		return Quit
	case key.Matches(msg, keys.ToggleExpand):
		return ToggleExpand
	case key.Matches(msg, keys.ExpandAll):
		return ExpandAll
	case key.Matches(msg, keys.CollapseAll):
		return CollapseAll
	case key.Matches(msg, keys.Move):
		return Move
	case key.Matches(msg, keys.Refresh):
		return Refresh
	case key.Matches(msg, keys.RefreshAll):
		return RefreshAll
	case key.Matches(msg, keys.AddCategory):
		return AddCategory
	case key.Matches(msg, keys.Rename):
		return Rename
	case key.Matches(msg, keys.Delete):
		return Delete
	case key.Matches(msg, keys.Unsubscribe):
		return Unsubscribe
	case key.Matches(msg, keys.Subscribe):
		return Subscribe
	case key.Matches(msg, keys.Settings):
		return Settings
	case key.Matches(msg, keys.Filter):
		return Filter
	case key.Matches(msg, keys.ToggleCounts):
		return ToggleCounts
	case key.Matches(msg, keys.Track):
		return Track
	case key.Matches(msg, keys.ToggleSidebar):
		return ToggleSidebar
	case key.Matches(msg, keys.Help):
		return Help
	}
	return None
}
