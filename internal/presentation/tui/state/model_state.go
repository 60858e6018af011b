package state

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"

	"feedtray/internal/domain/feed"
	"feedtray/internal/domain/tree"
	"feedtray/internal/presentation/tui/metrics"
	"feedtray/internal/presentation/tui/presenter"
)

// ConfirmKind identifies which destructive flow is awaiting confirmation.
type ConfirmKind int

const (
	ConfirmNone ConfirmKind = iota
	ConfirmDeleteCategory
	ConfirmDeleteFeed
	ConfirmBulkUnsubscribe
)

// Confirm carries the pending confirmation prompt and its subject.
type Confirm struct {
	Kind       ConfirmKind
	Message    string
	CategoryID string
	FeedIDs    []string
	Group      string
}

// RenameTarget identifies the entity being renamed or the parent of a new
// category.
type RenameTarget struct {
	IsCategory bool
	ID         string
	ParentID   string
}

// ModelState holds the presentation state for the TUI.
type ModelState struct {
	Session Session

	Keys      KeyMap
	Help      help.Model
	Spinner   spinner.Model
	TextInput textinput.Model
	Loading   bool

	Width            int
	Height           int
	SidebarCollapsed bool

	// Read-mostly snapshots of the collaborator collections.
	Feeds      []feed.Feed
	Categories []feed.Category

	TagCounts     map[string]int
	VirtualCounts map[tree.VirtualFeedKey]int
	SmartFolders  []tree.SmartFolder

	Expansion *Expansion
	CountMode tree.CountMode

	Rows   []presenter.Row
	Cursor int
	Scroll int

	SelectedFeedID     string
	SelectedCategoryID string
	SelectedVirtual    tree.VirtualFeedKey
	SelectedTag        string

	// Drag session: at most one feed is active at a time.
	ActiveDragID  string
	DragPressedID string
	DragOriginRow int

	// Single in-flight refresh guard.
	RefreshingFeedID string

	TrackedFeedID string

	FilterActive bool
	FilterQuery  string

	Confirm Confirm
	Rename  RenameTarget

	Err           error
	StatusMessage string
}

// SidebarWidth returns the column width of the navigation tree.
func (s *ModelState) SidebarWidth() int {
	if s.SidebarCollapsed {
		return 0
	}
	w := s.Width / 3
	if w < metrics.SidebarMinWidth {
		w = metrics.SidebarMinWidth
	}
	return w
}

// SidebarHeight returns the number of visible tree rows.
func (s *ModelState) SidebarHeight() int {
	h := s.Height - metrics.SidebarTitleLines - metrics.FooterLines
	if h < 0 {
		return 0
	}
	return h
}

// CurrentRow returns the row under the cursor.
func (s *ModelState) CurrentRow() (presenter.Row, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Rows) {
		return presenter.Row{}, false
	}
	return s.Rows[s.Cursor], true
}
