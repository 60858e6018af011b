package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"feedtray/internal/presentation/tui/metrics"
	"feedtray/internal/presentation/tui/presenter"
	"feedtray/internal/presentation/tui/state"
)

// HandleMoveKey drives the keyboard move gesture: the first press grabs the
// feed under the cursor, the second drops it on the current row.
func HandleMoveKey(st *state.ModelState, deps Deps) tea.Cmd {
	if st.ActiveDragID == "" {
		row, ok := st.CurrentRow()
		if !ok || row.Kind != presenter.RowFeed {
			return nil
		}
		st.ActiveDragID = row.FeedID
		st.DragOriginRow = st.Cursor
		st.StatusMessage = fmt.Sprintf("Moving %s (drop on a category, esc cancels)", row.Label)
		return nil
	}
	return dropAtCursor(st, deps)
}

// CancelDrag abandons the move gesture without touching the collection.
func CancelDrag(st *state.ModelState) {
	st.ActiveDragID = ""
	st.DragPressedID = ""
	st.StatusMessage = "Move cancelled"
}

// HandleMouse drives selection, wheel scrolling and the mouse drag gesture.
// A press arms a potential drag; it becomes one only after the pointer moves
// at least DragRowThreshold rows, so plain clicks never reparent anything.
func HandleMouse(st *state.ModelState, deps Deps, msg tea.MouseMsg) tea.Cmd {
	m := tea.MouseEvent(msg)
	switch m.Button {
	case tea.MouseButtonWheelUp:
		st.Scroll = state.ClampScroll(st.Scroll-1, len(st.Rows), st.SidebarHeight())
		return nil
	case tea.MouseButtonWheelDown:
		st.Scroll = state.ClampScroll(st.Scroll+1, len(st.Rows), st.SidebarHeight())
		return nil
	}

	idx := rowAt(st, m.X, m.Y)
	switch m.Action {
	case tea.MouseActionPress:
		if m.Button != tea.MouseButtonLeft || idx < 0 {
			return nil
		}
		st.Cursor = idx
		if st.Rows[idx].Kind == presenter.RowFeed {
			st.DragPressedID = st.Rows[idx].FeedID
			st.DragOriginRow = idx
		} else {
			st.DragPressedID = ""
		}
	case tea.MouseActionMotion:
		if st.ActiveDragID != "" {
			if idx >= 0 {
				st.Cursor = idx
			}
			return nil
		}
		if st.DragPressedID == "" || idx < 0 {
			return nil
		}
		if abs(idx-st.DragOriginRow) >= metrics.DragRowThreshold {
			st.ActiveDragID = st.DragPressedID
			if f, ok := findFeed(st.Feeds, st.ActiveDragID); ok {
				st.StatusMessage = fmt.Sprintf("Moving %s", f.DisplayTitle())
			}
			st.Cursor = idx
		}
	case tea.MouseActionRelease:
		if st.ActiveDragID != "" {
			if idx >= 0 {
				st.Cursor = idx
			}
			return dropAtCursor(st, deps)
		}
		pressed := st.DragPressedID
		st.DragPressedID = ""
		if pressed != "" && idx == st.DragOriginRow {
			return activateRow(st, deps)
		}
	}
	return nil
}

// rowAt maps terminal coordinates to a visible row index, or -1 when the
// pointer is outside the tree.
func rowAt(st *state.ModelState, x, y int) int {
	if st.SidebarCollapsed || x >= st.SidebarWidth() {
		return -1
	}
	if y < metrics.SidebarTitleLines {
		return -1
	}
	idx := st.Scroll + y - metrics.SidebarTitleLines
	if idx < 0 || idx >= len(st.Rows) {
		return -1
	}
	return idx
}

// dropAtCursor ends the drag unconditionally, then commits the move only
// when the cursor row is a valid target and the parent actually changes.
func dropAtCursor(st *state.ModelState, deps Deps) tea.Cmd {
	feedID := st.ActiveDragID
	st.ActiveDragID = ""
	st.DragPressedID = ""

	target, ok := presenter.DropTarget(st.Rows, st.Cursor)
	if !ok {
		st.StatusMessage = "Not a drop target, move cancelled"
		return nil
	}
	f, found := findFeed(st.Feeds, feedID)
	if !found {
		return nil
	}
	if f.CategoryID == target {
		st.StatusMessage = ""
		return nil
	}
	return ReparentFeedCmd(deps.Client, feedID, target)
}

// HandleFeedReparented applies a committed move. On failure the collection
// stays untouched and the error is surfaced in the footer.
func HandleFeedReparented(st *state.ModelState, deps Deps, msg FeedReparentedMsg) {
	if msg.Err != nil {
		st.StatusMessage = fmt.Sprintf("Move failed: %v", msg.Err)
		return
	}
	replaceFeed(st, msg.Feed)
	deps.Callbacks.feedUpdated(msg.Feed)
	deps.Callbacks.feedsChange(st.Feeds)
	st.StatusMessage = fmt.Sprintf("Moved %q", msg.Feed.DisplayTitle())
	RebuildRows(st)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
