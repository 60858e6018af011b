package update

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"

	"feedtray/internal/application/settings"
	"feedtray/internal/domain/feed"
	"feedtray/internal/infrastructure/api"
	"feedtray/internal/presentation/tui/presenter"
	"feedtray/internal/presentation/tui/state"
)

// fakeClient records mutations and lets tests inject failures.
type fakeClient struct {
	feeds      []feed.Feed
	categories []feed.Category

	updated           map[string]api.FeedChanges
	deletedFeeds      []string
	deletedCategories []string

	updateErr  error
	refreshErr error
	deleteErr  map[string]error
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		updated:   make(map[string]api.FeedChanges),
		deleteErr: make(map[string]error),
	}
}

func (c *fakeClient) ListFeeds(context.Context) ([]feed.Feed, error) {
	return c.feeds, nil
}

func (c *fakeClient) ListCategories(context.Context) ([]feed.Category, error) {
	return c.categories, nil
}

func (c *fakeClient) UpdateFeed(_ context.Context, id string, changes api.FeedChanges) (feed.Feed, error) {
	if c.updateErr != nil {
		return feed.Feed{}, c.updateErr
	}
	c.updated[id] = changes
	f := feed.Feed{ID: id}
	if changes.CategoryID != nil {
		f.CategoryID = *changes.CategoryID
	}
	if changes.Title != nil {
		f.Title = *changes.Title
	}
	return f, nil
}

func (c *fakeClient) DeleteFeed(_ context.Context, id string) error {
	if err := c.deleteErr[id]; err != nil {
		return err
	}
	c.deletedFeeds = append(c.deletedFeeds, id)
	return nil
}

func (c *fakeClient) RefreshFeed(_ context.Context, id string) (*feed.Feed, error) {
	if c.refreshErr != nil {
		return nil, c.refreshErr
	}
	return &feed.Feed{ID: id, Title: "refreshed"}, nil
}

func (c *fakeClient) CreateCategory(_ context.Context, title, parentID string) (feed.Category, error) {
	cat := feed.Category{ID: "new", Title: title, ParentID: parentID}
	c.categories = append(c.categories, cat)
	return cat, nil
}

func (c *fakeClient) UpdateCategory(_ context.Context, id, title string) (feed.Category, error) {
	return feed.Category{ID: id, Title: title}, nil
}

func (c *fakeClient) DeleteCategory(_ context.Context, id string) error {
	c.deletedCategories = append(c.deletedCategories, id)
	return nil
}

func testKeyMap() state.KeyMap {
	return state.NewKeyMap(settings.KeyMapConfig{
		Up:            "k",
		Down:          "j",
		Open:          "enter",
		Back:          "esc",
		Quit:          "q",
		ToggleExpand:  "tab",
		ExpandAll:     "E",
		CollapseAll:   "C",
		Move:          "m",
		Refresh:       "r",
		RefreshAll:    "R",
		AddCategory:   "n",
		Rename:        "e",
		Delete:        "x",
		Unsubscribe:   "X",
		Subscribe:     "a",
		Settings:      "S",
		Filter:        "/",
		ToggleCounts:  "u",
		Track:         "t",
		ToggleSidebar: "b",
	})
}

// newTestState builds the small two-category forest most tests use, fully
// expanded with rows already projected.
func newTestState() *state.ModelState {
	st := &state.ModelState{
		Keys:      testKeyMap(),
		Expansion: state.NewExpansion(),
		TextInput: textinput.New(),
		Width:     120,
		Height:    40,
		Categories: []feed.Category{
			{ID: "a", Title: "News"},
			{ID: "b", Title: "Tech", ParentID: "a"},
		},
		Feeds: []feed.Feed{
			{ID: "f1", Title: "World", CategoryID: "a", UnreadCount: 3, EntryCount: 7},
			{ID: "f2", Title: "Gadgets", CategoryID: "b", UnreadCount: 2, EntryCount: 4},
			{ID: "f3", Title: "Loose", UnreadCount: 1, EntryCount: 1},
		},
	}
	st.Expansion.Reconcile(st.Categories)
	st.Expansion.ExpandSmart(presenter.UncategorizedFolderID)
	RebuildRows(st)
	return st
}

func rowIndexOfCategory(st *state.ModelState, categoryID string) int {
	for i, row := range st.Rows {
		if row.Kind == presenter.RowCategory && row.CategoryID == categoryID {
			return i
		}
	}
	return -1
}

func rowIndexOfKind(st *state.ModelState, kind presenter.RowKind) int {
	for i, row := range st.Rows {
		if row.Kind == kind {
			return i
		}
	}
	return -1
}
