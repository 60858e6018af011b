package update

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedtray/internal/domain/feed"
	"feedtray/internal/presentation/tui/metrics"
	"feedtray/internal/presentation/tui/presenter"
)

func mouseMsg(action tea.MouseAction, button tea.MouseButton, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

func TestKeyboardMoveGrabAndDrop(t *testing.T) {
	st := newTestState()
	fc := newFakeClient()
	deps := Deps{Client: fc}

	st.Cursor = presenter.FeedRowIndex(st.Rows, "f2")
	require.GreaterOrEqual(t, st.Cursor, 0)

	cmd := HandleMoveKey(st, deps)
	assert.Nil(t, cmd)
	assert.Equal(t, "f2", st.ActiveDragID)

	st.Cursor = rowIndexOfCategory(st, "a")
	cmd = HandleMoveKey(st, deps)
	require.NotNil(t, cmd)
	assert.Empty(t, st.ActiveDragID)

	msg, ok := cmd().(FeedReparentedMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	assert.Equal(t, "f2", msg.FeedID)
	assert.Equal(t, "a", msg.Feed.CategoryID)

	changes := fc.updated["f2"]
	require.NotNil(t, changes.CategoryID)
	assert.Equal(t, "a", *changes.CategoryID)
}

func TestDropOnSameCategoryIsNoCall(t *testing.T) {
	st := newTestState()
	fc := newFakeClient()
	deps := Deps{Client: fc}

	st.Cursor = presenter.FeedRowIndex(st.Rows, "f1")
	require.Nil(t, HandleMoveKey(st, deps))
	st.Cursor = rowIndexOfCategory(st, "a")

	cmd := HandleMoveKey(st, deps)
	assert.Nil(t, cmd)
	assert.Empty(t, st.ActiveDragID)
	assert.Empty(t, fc.updated)
}

func TestDropOnInvalidTargetCancels(t *testing.T) {
	st := newTestState()
	deps := Deps{Client: newFakeClient()}

	st.Cursor = presenter.FeedRowIndex(st.Rows, "f1")
	require.Nil(t, HandleMoveKey(st, deps))
	st.Cursor = presenter.FeedRowIndex(st.Rows, "f2")

	cmd := HandleMoveKey(st, deps)
	assert.Nil(t, cmd)
	assert.Empty(t, st.ActiveDragID)
	assert.Contains(t, st.StatusMessage, "cancelled")
}

func TestDropOnUncategorizedTargetsEmptyCategory(t *testing.T) {
	st := newTestState()
	fc := newFakeClient()
	deps := Deps{Client: fc}

	st.Cursor = presenter.FeedRowIndex(st.Rows, "f1")
	require.Nil(t, HandleMoveKey(st, deps))
	st.Cursor = rowIndexOfKind(st, presenter.RowUncategorized)
	require.GreaterOrEqual(t, st.Cursor, 0)

	cmd := HandleMoveKey(st, deps)
	require.NotNil(t, cmd)
	msg := cmd().(FeedReparentedMsg)
	require.NoError(t, msg.Err)
	assert.Empty(t, msg.Feed.CategoryID)
}

func TestCancelDragLeavesCollectionUntouched(t *testing.T) {
	st := newTestState()
	before := len(st.Feeds)

	st.Cursor = presenter.FeedRowIndex(st.Rows, "f1")
	require.Nil(t, HandleMoveKey(st, Deps{Client: newFakeClient()}))
	require.Equal(t, "f1", st.ActiveDragID)

	CancelDrag(st)
	assert.Empty(t, st.ActiveDragID)
	assert.Len(t, st.Feeds, before)
}

func TestMouseDragRequiresMotionThreshold(t *testing.T) {
	st := newTestState()
	fc := newFakeClient()
	deps := Deps{Client: fc}

	feedIdx := presenter.FeedRowIndex(st.Rows, "f2")
	y := feedIdx + metrics.SidebarTitleLines

	cmd := HandleMouse(st, deps, mouseMsg(tea.MouseActionPress, tea.MouseButtonLeft, 1, y))
	assert.Nil(t, cmd)
	assert.Equal(t, "f2", st.DragPressedID)
	assert.Empty(t, st.ActiveDragID)

	// Motion on the press row stays below the threshold.
	require.Nil(t, HandleMouse(st, deps, mouseMsg(tea.MouseActionMotion, tea.MouseButtonNone, 1, y)))
	assert.Empty(t, st.ActiveDragID)

	require.Nil(t, HandleMouse(st, deps, mouseMsg(tea.MouseActionMotion, tea.MouseButtonNone, 1, y-1)))
	assert.Equal(t, "f2", st.ActiveDragID)

	catY := rowIndexOfCategory(st, "a") + metrics.SidebarTitleLines
	cmd = HandleMouse(st, deps, mouseMsg(tea.MouseActionRelease, tea.MouseButtonNone, 1, catY))
	require.NotNil(t, cmd)
	assert.Empty(t, st.ActiveDragID)
	assert.Empty(t, st.DragPressedID)

	msg := cmd().(FeedReparentedMsg)
	require.NoError(t, msg.Err)
	assert.Equal(t, "a", msg.Feed.CategoryID)
}

func TestMouseClickSelectsFeed(t *testing.T) {
	st := newTestState()
	var selected []string
	deps := Deps{
		Client:    newFakeClient(),
		Callbacks: Callbacks{OnSelectFeed: func(id string) { selected = append(selected, id) }},
	}

	feedIdx := presenter.FeedRowIndex(st.Rows, "f1")
	y := feedIdx + metrics.SidebarTitleLines
	require.Nil(t, HandleMouse(st, deps, mouseMsg(tea.MouseActionPress, tea.MouseButtonLeft, 1, y)))
	require.Nil(t, HandleMouse(st, deps, mouseMsg(tea.MouseActionRelease, tea.MouseButtonNone, 1, y)))

	assert.Equal(t, "f1", st.SelectedFeedID)
	assert.Equal(t, []string{"f1"}, selected)
	assert.Empty(t, st.ActiveDragID)
}

func TestMouseWheelScrolls(t *testing.T) {
	st := newTestState()
	st.Height = 6 // viewport smaller than the row count
	deps := Deps{Client: newFakeClient()}

	require.Nil(t, HandleMouse(st, deps, mouseMsg(tea.MouseActionPress, tea.MouseButtonWheelDown, 1, 3)))
	assert.Equal(t, 1, st.Scroll)
	require.Nil(t, HandleMouse(st, deps, mouseMsg(tea.MouseActionPress, tea.MouseButtonWheelUp, 1, 3)))
	assert.Equal(t, 0, st.Scroll)
}

func TestHandleFeedReparentedFailureKeepsCollection(t *testing.T) {
	st := newTestState()
	before := make([]feed.Feed, len(st.Feeds))
	copy(before, st.Feeds)

	HandleFeedReparented(st, Deps{}, FeedReparentedMsg{
		FeedID: "f2",
		Err:    errors.New("server said no"),
	})

	assert.Contains(t, st.StatusMessage, "Move failed")
	assert.Equal(t, before, st.Feeds)
}

func TestHandleFeedReparentedSuccessMovesFeed(t *testing.T) {
	st := newTestState()
	var updated []feed.Feed
	deps := Deps{Callbacks: Callbacks{OnFeedUpdated: func(f feed.Feed) { updated = append(updated, f) }}}

	moved := feed.Feed{ID: "f2", Title: "Gadgets", CategoryID: "a", UnreadCount: 2, EntryCount: 4}
	HandleFeedReparented(st, deps, FeedReparentedMsg{FeedID: "f2", Feed: moved})

	f, ok := findFeed(st.Feeds, "f2")
	require.True(t, ok)
	assert.Equal(t, "a", f.CategoryID)
	require.Len(t, updated, 1)
	assert.Equal(t, "f2", updated[0].ID)
}
