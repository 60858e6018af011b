package update

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedtray/internal/presentation/tui/presenter"
)

func TestTrackExpandsAncestorChain(t *testing.T) {
	st := newTestState()
	st.Expansion.CollapseAll()
	RebuildRows(st)
	require.Equal(t, -1, presenter.FeedRowIndex(st.Rows, "f2"))

	st.Cursor = 0
	st.SelectedFeedID = "f1"
	HandleTrackFeed(st, Deps{}, "f2")

	assert.True(t, st.Expansion.IsExpanded("a"))
	assert.True(t, st.Expansion.IsExpanded("b"))
	assert.GreaterOrEqual(t, presenter.FeedRowIndex(st.Rows, "f2"), 0)

	// Revealing never moves the cursor or the selection.
	assert.Equal(t, 0, st.Cursor)
	assert.Equal(t, "f1", st.SelectedFeedID)
	assert.Equal(t, "f2", st.TrackedFeedID)
}

func TestTrackScrollsRowIntoView(t *testing.T) {
	st := newTestState()
	st.Height = 7 // three visible rows
	RebuildRows(st)
	idx := presenter.FeedRowIndex(st.Rows, "f3")
	require.Greater(t, idx, st.SidebarHeight())

	HandleTrackFeed(st, Deps{}, "f3")

	assert.GreaterOrEqual(t, idx, st.Scroll)
	assert.Less(t, idx, st.Scroll+st.SidebarHeight())
}

func TestTrackIsIdempotent(t *testing.T) {
	st := newTestState()
	st.Height = 7
	RebuildRows(st)

	HandleTrackFeed(st, Deps{}, "f3")
	scroll := st.Scroll
	expanded := st.Expansion.ExpandedCategories()

	HandleTrackFeed(st, Deps{}, "f3")
	assert.Equal(t, scroll, st.Scroll)
	assert.ElementsMatch(t, expanded, st.Expansion.ExpandedCategories())
}

func TestTrackUncategorizedFeedOpensFolder(t *testing.T) {
	st := newTestState()
	st.Expansion.CollapseAll()
	RebuildRows(st)

	HandleTrackFeed(st, Deps{}, "f3")

	assert.True(t, st.Expansion.SmartOpen(presenter.UncategorizedFolderID))
	assert.GreaterOrEqual(t, presenter.FeedRowIndex(st.Rows, "f3"), 0)
}

func TestTrackUnknownFeedIsNoop(t *testing.T) {
	st := newTestState()
	before := len(st.Rows)

	HandleTrackFeed(st, Deps{}, "missing")
	assert.Len(t, st.Rows, before)

	st.TrackedFeedID = "f1"
	HandleTrackFeed(st, Deps{}, "")
	assert.Equal(t, "f1", st.TrackedFeedID)
}
