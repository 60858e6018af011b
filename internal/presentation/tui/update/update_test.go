package update

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedtray/internal/domain/feed"
	"feedtray/internal/domain/tree"
	"feedtray/internal/presentation/tui/presenter"
	"feedtray/internal/presentation/tui/state"
)

func TestCollectionsLoadedExpandsOnFirstObservation(t *testing.T) {
	st := newTestState()
	st.Feeds = nil
	st.Categories = nil
	st.Expansion = state.NewExpansion()
	RebuildRows(st)

	HandleCollectionsLoaded(st, Deps{}, CollectionsLoadedMsg{
		Feeds: []feed.Feed{
			{ID: "f1", Title: "World", CategoryID: "a", UnreadCount: 1},
		},
		Categories: []feed.Category{
			{ID: "a", Title: "News"},
		},
	})

	assert.False(t, st.Loading)
	assert.True(t, st.Expansion.IsExpanded("a"))
	assert.GreaterOrEqual(t, presenter.FeedRowIndex(st.Rows, "f1"), 0)
}

func TestCollectionsLoadedFailureKeepsState(t *testing.T) {
	st := newTestState()
	before := len(st.Feeds)

	HandleCollectionsLoaded(st, Deps{}, CollectionsLoadedMsg{Err: errors.New("offline")})

	assert.Len(t, st.Feeds, before)
	assert.Contains(t, st.StatusMessage, "Failed to load")
}

func TestCursorMovementClampsAndScrolls(t *testing.T) {
	st := newTestState()
	deps := Deps{}

	require.Nil(t, HandleKeyMsg(st, deps, keyRunes("k")))
	assert.Equal(t, 0, st.Cursor)

	require.Nil(t, HandleKeyMsg(st, deps, keyRunes("j")))
	assert.Equal(t, 1, st.Cursor)

	for range st.Rows {
		HandleKeyMsg(st, deps, keyRunes("j"))
	}
	assert.Equal(t, len(st.Rows)-1, st.Cursor)
}

func TestToggleExpandOnCategoryRow(t *testing.T) {
	st := newTestState()
	st.Cursor = rowIndexOfCategory(st, "a")
	before := len(st.Rows)

	require.Nil(t, HandleKeyMsg(st, Deps{}, tea.KeyMsg{Type: tea.KeyTab}))

	assert.False(t, st.Expansion.IsExpanded("a"))
	assert.Less(t, len(st.Rows), before)
}

func TestExpandAllAndCollapseAllKeys(t *testing.T) {
	st := newTestState()
	deps := Deps{}

	require.Nil(t, HandleKeyMsg(st, deps, keyRunes("C")))
	assert.False(t, st.Expansion.IsExpanded("a"))
	assert.False(t, st.Expansion.ErrorsOpen())
	assert.Equal(t, -1, presenter.FeedRowIndex(st.Rows, "f2"))

	require.Nil(t, HandleKeyMsg(st, deps, keyRunes("E")))
	assert.True(t, st.Expansion.IsExpanded("a"))
	assert.True(t, st.Expansion.IsExpanded("b"))
	assert.True(t, st.Expansion.ErrorsOpen())
	assert.GreaterOrEqual(t, presenter.FeedRowIndex(st.Rows, "f2"), 0)
}

func TestToggleCountsAffectsEveryCount(t *testing.T) {
	st := newTestState()

	idx := rowIndexOfCategory(st, "a")
	assert.Equal(t, 5, st.Rows[idx].Count)
	assert.Equal(t, 6, virtualRowCount(t, st, tree.VirtualAll))
	assert.Equal(t, 6, virtualRowCount(t, st, tree.VirtualFresh))

	require.Nil(t, HandleKeyMsg(st, Deps{}, keyRunes("u")))
	assert.Equal(t, tree.CountTotal, st.CountMode)
	idx = rowIndexOfCategory(st, "a")
	assert.Equal(t, 11, st.Rows[idx].Count)
	assert.Equal(t, 12, virtualRowCount(t, st, tree.VirtualAll))
	assert.Equal(t, 12, virtualRowCount(t, st, tree.VirtualFresh))

	require.Nil(t, HandleKeyMsg(st, Deps{}, keyRunes("u")))
	assert.Equal(t, tree.CountUnread, st.CountMode)
}

func virtualRowCount(t *testing.T, st *state.ModelState, key tree.VirtualFeedKey) int {
	t.Helper()
	for _, row := range st.Rows {
		if row.Kind == presenter.RowVirtual && row.VirtualKey == key {
			return row.Count
		}
	}
	t.Fatalf("no virtual row for %q", key)
	return 0
}

func TestRefreshGuardAllowsOneInFlight(t *testing.T) {
	st := newTestState()
	deps := Deps{Client: newFakeClient()}
	st.Cursor = presenter.FeedRowIndex(st.Rows, "f1")

	cmd := HandleKeyMsg(st, deps, keyRunes("r"))
	require.NotNil(t, cmd)
	assert.Equal(t, "f1", st.RefreshingFeedID)

	st.Cursor = presenter.FeedRowIndex(st.Rows, "f2")
	assert.Nil(t, HandleKeyMsg(st, deps, keyRunes("r")))
	assert.Contains(t, st.StatusMessage, "already running")

	msg := cmd().(FeedRefreshedMsg)
	HandleFeedRefreshed(st, deps, msg)
	assert.Empty(t, st.RefreshingFeedID)

	st.Cursor = presenter.FeedRowIndex(st.Rows, "f2")
	assert.NotNil(t, HandleKeyMsg(st, deps, keyRunes("r")))
}

func TestSelectFeedFiresCallbackAndTracks(t *testing.T) {
	st := newTestState()
	var selected []string
	deps := Deps{Callbacks: Callbacks{OnSelectFeed: func(id string) { selected = append(selected, id) }}}

	st.Cursor = presenter.FeedRowIndex(st.Rows, "f2")
	require.Nil(t, HandleKeyMsg(st, deps, tea.KeyMsg{Type: tea.KeyEnter}))

	assert.Equal(t, "f2", st.SelectedFeedID)
	assert.Equal(t, "f2", st.TrackedFeedID)
	assert.Equal(t, []string{"f2"}, selected)
}

func TestBackDeselects(t *testing.T) {
	st := newTestState()
	var selected []string
	deps := Deps{Callbacks: Callbacks{OnSelectFeed: func(id string) { selected = append(selected, id) }}}

	st.Cursor = presenter.FeedRowIndex(st.Rows, "f1")
	require.Nil(t, HandleKeyMsg(st, deps, tea.KeyMsg{Type: tea.KeyEnter}))
	require.Nil(t, HandleKeyMsg(st, deps, tea.KeyMsg{Type: tea.KeyEsc}))

	assert.Empty(t, st.SelectedFeedID)
	assert.Equal(t, []string{"f1", ""}, selected)
}

func TestFilterNarrowsToFuzzyMatches(t *testing.T) {
	st := newTestState()
	deps := Deps{}

	require.NotNil(t, HandleKeyMsg(st, deps, keyRunes("/")))
	assert.True(t, st.FilterActive)

	for _, r := range "gad" {
		HandleKeyMsg(st, deps, keyRunes(string(r)))
	}
	require.Len(t, st.Rows, 1)
	assert.Equal(t, "f2", st.Rows[0].FeedID)

	// Enter keeps the query for navigation, esc then clears it.
	require.Nil(t, HandleKeyMsg(st, deps, tea.KeyMsg{Type: tea.KeyEnter}))
	assert.False(t, st.FilterActive)
	assert.Len(t, st.Rows, 1)

	require.Nil(t, HandleKeyMsg(st, deps, tea.KeyMsg{Type: tea.KeyEsc}))
	assert.Empty(t, st.FilterQuery)
	assert.Greater(t, len(st.Rows), 1)
}

func TestAddCategoryFlow(t *testing.T) {
	st := newTestState()
	fc := newFakeClient()
	var changed [][]feed.Category
	deps := Deps{
		Client:    fc,
		Callbacks: Callbacks{OnCategoriesChange: func(c []feed.Category) { changed = append(changed, c) }},
	}

	st.Cursor = rowIndexOfCategory(st, "b")
	require.NotNil(t, HandleKeyMsg(st, deps, keyRunes("n")))
	assert.Equal(t, state.AddCategoryView, st.Session)
	assert.Equal(t, "b", st.Rename.ParentID)

	st.TextInput.SetValue("Sub")
	cmd := HandleKeyMsg(st, deps, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, state.TreeView, st.Session)

	msg := cmd().(CategoryCreatedMsg)
	require.NoError(t, msg.Err)
	assert.Equal(t, "Sub", msg.Category.Title)
	assert.Equal(t, "b", msg.Category.ParentID)

	HandleCategoryCreated(st, deps, msg)
	assert.True(t, st.Expansion.IsExpanded("new"))
	assert.GreaterOrEqual(t, rowIndexOfCategory(st, "new"), 0)
	require.Len(t, changed, 1)
}

func TestRenameFeedFlow(t *testing.T) {
	st := newTestState()
	fc := newFakeClient()
	var edited []feed.Feed
	deps := Deps{
		Client:    fc,
		Callbacks: Callbacks{OnEditFeed: func(f feed.Feed) { edited = append(edited, f) }},
	}

	st.Cursor = presenter.FeedRowIndex(st.Rows, "f1")
	require.NotNil(t, HandleKeyMsg(st, deps, keyRunes("e")))
	assert.Equal(t, state.RenameView, st.Session)
	require.Len(t, edited, 1)
	assert.Equal(t, "f1", edited[0].ID)

	st.TextInput.SetValue("Global")
	cmd := HandleKeyMsg(st, deps, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd().(FeedRenamedMsg)
	require.NoError(t, msg.Err)
	changes := fc.updated["f1"]
	require.NotNil(t, changes.Title)
	assert.Equal(t, "Global", *changes.Title)
}

func TestTextEntryEscCancels(t *testing.T) {
	st := newTestState()
	deps := Deps{Client: newFakeClient()}

	st.Cursor = rowIndexOfCategory(st, "a")
	require.NotNil(t, HandleKeyMsg(st, deps, keyRunes("n")))
	require.Nil(t, HandleKeyMsg(st, deps, tea.KeyMsg{Type: tea.KeyEsc}))

	assert.Equal(t, state.TreeView, st.Session)
	assert.Empty(t, st.TextInput.Value())
}

func TestSubscribeAndSettingsCallbacks(t *testing.T) {
	st := newTestState()
	var calls []string
	deps := Deps{Callbacks: Callbacks{
		OnSubscribe: func() { calls = append(calls, "subscribe") },
		OnSettings:  func() { calls = append(calls, "settings") },
	}}

	require.Nil(t, HandleKeyMsg(st, deps, keyRunes("a")))
	require.Nil(t, HandleKeyMsg(st, deps, keyRunes("S")))
	assert.Equal(t, []string{"subscribe", "settings"}, calls)
}

func TestQuitConfirmation(t *testing.T) {
	st := newTestState()
	deps := Deps{}

	require.Nil(t, HandleKeyMsg(st, deps, keyRunes("q")))
	assert.Equal(t, state.QuitView, st.Session)

	require.Nil(t, HandleKeyMsg(st, deps, keyRunes("n")))
	assert.Equal(t, state.TreeView, st.Session)

	HandleKeyMsg(st, deps, keyRunes("q"))
	assert.NotNil(t, HandleKeyMsg(st, deps, keyRunes("y")))
}
