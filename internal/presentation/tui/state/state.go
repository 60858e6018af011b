// Package state holds UI state types for the TUI.
package state

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"feedtray/internal/application/settings"
)

// Session represents the current view state.
type Session int

const (
	TreeView Session = iota
	AddCategoryView
	RenameView
	ConfirmView
	QuitView
)

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	Up            key.Binding
	Down          key.Binding
	Open          key.Binding
	Back          key.Binding
	Quit          key.Binding
	ToggleExpand  key.Binding
	ExpandAll     key.Binding
	CollapseAll   key.Binding
	Move          key.Binding
	Refresh       key.Binding
	RefreshAll    key.Binding
	AddCategory   key.Binding
	Rename        key.Binding
	Delete        key.Binding
	Unsubscribe   key.Binding
	Subscribe     key.Binding
	Settings      key.Binding
	Filter        key.Binding
	ToggleCounts  key.Binding
	Track         key.Binding
	ToggleSidebar key.Binding
	Help          key.Binding
}

// ShortHelp returns a subset of keybindings for the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit, k.ToggleExpand, k.Move, k.Filter}
}

// FullHelp returns all keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Back},
		{k.ToggleExpand, k.ExpandAll, k.CollapseAll, k.ToggleSidebar},
		{k.Move, k.Refresh, k.RefreshAll, k.Track},
		{k.AddCategory, k.Rename, k.Delete, k.Unsubscribe},
		{k.Subscribe, k.Settings, k.Filter, k.ToggleCounts},
		{k.Help, k.Quit},
	}
}

// NewKeyMap creates a new KeyMap from the configuration.
func NewKeyMap(cfg settings.KeyMapConfig) KeyMap {
	return KeyMap{
		Up:            binding(cfg.Up, "up"),
		Down:          binding(cfg.Down, "down"),
		Open:          binding(cfg.Open, "select"),
		Back:          binding(cfg.Back, "back"),
		Quit:          binding(cfg.Quit, "quit"),
		ToggleExpand:  binding(cfg.ToggleExpand, "expand/collapse"),
		ExpandAll:     binding(cfg.ExpandAll, "expand all"),
		CollapseAll:   binding(cfg.CollapseAll, "collapse all"),
		Move:          binding(cfg.Move, "move feed"),
		Refresh:       binding(cfg.Refresh, "refresh feed"),
		RefreshAll:    binding(cfg.RefreshAll, "refresh all"),
		AddCategory:   binding(cfg.AddCategory, "new category"),
		Rename:        binding(cfg.Rename, "rename"),
		Delete:        binding(cfg.Delete, "delete"),
		Unsubscribe:   binding(cfg.Unsubscribe, "unsubscribe group"),
		Subscribe:     binding(cfg.Subscribe, "subscribe"),
		Settings:      binding(cfg.Settings, "settings"),
		Filter:        binding(cfg.Filter, "filter"),
		ToggleCounts:  binding(cfg.ToggleCounts, "unread/total"),
		Track:         binding(cfg.Track, "jump to tracked"),
		ToggleSidebar: binding(cfg.ToggleSidebar, "toggle sidebar"),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

func binding(keys, help string) key.Binding {
	return key.NewBinding(
		key.WithKeys(splitKeys(keys)...),
		key.WithHelp(keys, help),
	)
}

func splitKeys(keys string) []string {
	parts := strings.Split(keys, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		keyName := strings.TrimSpace(part)
		if keyName == "" {
			continue
		}
		out = append(out, keyName)
	}
	return out
}
