package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"feedtray/internal/domain/tree"
	"feedtray/internal/presentation/tui/metrics"
	"feedtray/internal/presentation/tui/presenter"
	"feedtray/internal/presentation/tui/state"
)

// TrackFeedMsg asks the tree to reveal a feed, e.g. after the reading pane
// auto-advanced to an entry of a feed whose branch is collapsed.
type TrackFeedMsg struct {
	FeedID string
}

// TrackFeedCmd lets the hosting surface request a reveal through the
// message loop.
func TrackFeedCmd(feedID string) tea.Cmd {
	return func() tea.Msg { return TrackFeedMsg{FeedID: feedID} }
}

// HandleTrackFeed reveals the feed: its ancestor chain is expanded (never
// collapsed) and the minimal scroll adjustment brings the row into view.
// Cursor and selection stay where they were. Calling it again with the same
// feed is a no-op.
func HandleTrackFeed(st *state.ModelState, deps Deps, feedID string) {
	if feedID == "" {
		return
	}
	st.TrackedFeedID = feedID
	tr := tree.New(st.Categories, st.Feeds)
	f, ok := tr.Feed(feedID)
	if !ok {
		return
	}
	if _, exists := tr.Category(f.CategoryID); exists && f.CategoryID != "" {
		st.Expansion.Expand(f.CategoryID)
		for _, id := range tr.AncestorChain(f.CategoryID) {
			st.Expansion.Expand(id)
		}
	} else {
		st.Expansion.ExpandSmart(presenter.UncategorizedFolderID)
	}
	PersistExpansion(st, deps)
	RebuildRows(st)
	if idx := presenter.FeedRowIndex(st.Rows, feedID); idx >= 0 {
		st.Scroll = state.ScrollIntoView(st.Scroll, idx, len(st.Rows),
			st.SidebarHeight(), metrics.ScrollMargin)
	}
}
