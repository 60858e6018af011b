// Package update holds the message types, commands and key handling for the
// navigation tree.
package update

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"feedtray/internal/domain/feed"
	"feedtray/internal/domain/tree"
	"feedtray/internal/infrastructure/api"
	"feedtray/internal/presentation/tui/intent"
	"feedtray/internal/presentation/tui/metrics"
	"feedtray/internal/presentation/tui/presenter"
	"feedtray/internal/presentation/tui/state"
)

// Callbacks notify the hosting surface about selection and collection
// changes. Every field may be nil.
type Callbacks struct {
	OnSelectFeed        func(id string)
	OnSelectCategory    func(id string)
	OnSelectVirtualFeed func(key tree.VirtualFeedKey)
	OnSelectTag         func(name string)
	OnRefreshAll        func()
	OnSubscribe         func()
	OnEditFeed          func(f feed.Feed)
	OnSettings          func()
	OnCategoriesChange  func(categories []feed.Category)
	OnFeedsChange       func(feeds []feed.Feed)
	OnFeedUpdated       func(f feed.Feed)
	OnToggleCollapse    func()
}

func (c Callbacks) selectFeed(id string) {
	if c.OnSelectFeed != nil {
		c.OnSelectFeed(id)
	}
}

func (c Callbacks) selectCategory(id string) {
	if c.OnSelectCategory != nil {
		c.OnSelectCategory(id)
	}
}

func (c Callbacks) selectVirtual(key tree.VirtualFeedKey) {
	if c.OnSelectVirtualFeed != nil {
		c.OnSelectVirtualFeed(key)
	}
}

func (c Callbacks) selectTag(name string) {
	if c.OnSelectTag != nil {
		c.OnSelectTag(name)
	}
}

func (c Callbacks) refreshAll() {
	if c.OnRefreshAll != nil {
		c.OnRefreshAll()
	}
}

func (c Callbacks) subscribe() {
	if c.OnSubscribe != nil {
		c.OnSubscribe()
	}
}

func (c Callbacks) settings() {
	if c.OnSettings != nil {
		c.OnSettings()
	}
}

func (c Callbacks) editFeed(f feed.Feed) {
	if c.OnEditFeed != nil {
		c.OnEditFeed(f)
	}
}

func (c Callbacks) categoriesChange(categories []feed.Category) {
	if c.OnCategoriesChange != nil {
		c.OnCategoriesChange(categories)
	}
}

func (c Callbacks) feedsChange(feeds []feed.Feed) {
	if c.OnFeedsChange != nil {
		c.OnFeedsChange(feeds)
	}
}

func (c Callbacks) feedUpdated(f feed.Feed) {
	if c.OnFeedUpdated != nil {
		c.OnFeedUpdated(f)
	}
}

func (c Callbacks) toggleCollapse() {
	if c.OnToggleCollapse != nil {
		c.OnToggleCollapse()
	}
}

// Deps bundles the collaborators the update handlers need.
type Deps struct {
	Client    api.Client
	States    state.StateStore
	Callbacks Callbacks
}

// CollectionsLoadedMsg delivers the initial feed and category collections.
type CollectionsLoadedMsg struct {
	Feeds      []feed.Feed
	Categories []feed.Category
	Err        error
}

// FeedReparentedMsg reports the outcome of a drag-and-drop move.
type FeedReparentedMsg struct {
	FeedID string
	Feed   feed.Feed
	Err    error
}

// FeedRefreshedMsg reports the outcome of a manual refresh. Feed is nil when
// the poll reported nothing new.
type FeedRefreshedMsg struct {
	FeedID string
	Feed   *feed.Feed
	Err    error
}

// FeedRenamedMsg reports the outcome of a feed title change.
type FeedRenamedMsg struct {
	FeedID string
	Feed   feed.Feed
	Err    error
}

// FeedDeletedMsg reports the outcome of a single unsubscribe.
type FeedDeletedMsg struct {
	FeedID string
	Err    error
}

// CategoryCreatedMsg reports a new category.
type CategoryCreatedMsg struct {
	Category feed.Category
	Err      error
}

// CategoryRenamedMsg reports a category title change.
type CategoryRenamedMsg struct {
	CategoryID string
	Category   feed.Category
	Err        error
}

// LoadCollectionsCmd fetches both collections from the collaborator.
func LoadCollectionsCmd(client api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		feeds, err := client.ListFeeds(ctx)
		if err != nil {
			return CollectionsLoadedMsg{Err: err}
		}
		categories, err := client.ListCategories(ctx)
		if err != nil {
			return CollectionsLoadedMsg{Err: err}
		}
		return CollectionsLoadedMsg{Feeds: feeds, Categories: categories}
	}
}

// ReparentFeedCmd commits a move to the collaborator.
func ReparentFeedCmd(client api.Client, feedID, categoryID string) tea.Cmd {
	return func() tea.Msg {
		f, err := client.UpdateFeed(context.Background(), feedID, api.FeedChanges{
			CategoryID: &categoryID,
		})
		return FeedReparentedMsg{FeedID: feedID, Feed: f, Err: err}
	}
}

// RefreshFeedCmd triggers a poll of one feed.
func RefreshFeedCmd(client api.Client, feedID string) tea.Cmd {
	return func() tea.Msg {
		f, err := client.RefreshFeed(context.Background(), feedID)
		return FeedRefreshedMsg{FeedID: feedID, Feed: f, Err: err}
	}
}

// RenameFeedCmd commits a feed title change.
func RenameFeedCmd(client api.Client, feedID, title string) tea.Cmd {
	return func() tea.Msg {
		f, err := client.UpdateFeed(context.Background(), feedID, api.FeedChanges{
			Title: &title,
		})
		return FeedRenamedMsg{FeedID: feedID, Feed: f, Err: err}
	}
}

// DeleteFeedCmd unsubscribes from one feed.
func DeleteFeedCmd(client api.Client, feedID string) tea.Cmd {
	return func() tea.Msg {
		err := client.DeleteFeed(context.Background(), feedID)
		return FeedDeletedMsg{FeedID: feedID, Err: err}
	}
}

// CreateCategoryCmd creates a category under the given parent ("" = root).
func CreateCategoryCmd(client api.Client, title, parentID string) tea.Cmd {
	return func() tea.Msg {
		c, err := client.CreateCategory(context.Background(), title, parentID)
		return CategoryCreatedMsg{Category: c, Err: err}
	}
}

// RenameCategoryCmd commits a category title change.
func RenameCategoryCmd(client api.Client, categoryID, title string) tea.Cmd {
	return func() tea.Msg {
		c, err := client.UpdateCategory(context.Background(), categoryID, title)
		return CategoryRenamedMsg{CategoryID: categoryID, Category: c, Err: err}
	}
}

// RebuildRows re-derives the visible rows from the current collections and
// expansion state, then clamps cursor and scroll.
func RebuildRows(st *state.ModelState) {
	tr := tree.New(st.Categories, st.Feeds)
	st.Rows = presenter.BuildRows(presenter.Input{
		Tree:           tr,
		Feeds:          st.Feeds,
		Expansion:      st.Expansion,
		Mode:           st.CountMode,
		SmartFolders:   st.SmartFolders,
		TagCounts:      st.TagCounts,
		VirtualCounts:  virtualCounts(st),
		SelectedFeedID: st.SelectedFeedID,
		Filter:         st.FilterQuery,
	})
	st.Cursor = state.ClampCursor(st.Cursor, len(st.Rows))
	st.Scroll = state.ClampScroll(st.Scroll, len(st.Rows), st.SidebarHeight())
}

// virtualCounts derives the All/Fresh counts from the collection and merges
// in externally supplied ones (starred, published).
func virtualCounts(st *state.ModelState) map[tree.VirtualFeedKey]int {
	counts := make(map[tree.VirtualFeedKey]int, len(st.VirtualCounts)+2)
	for k, v := range st.VirtualCounts {
		counts[k] = v
	}
	all, fresh := 0, 0
	for _, f := range st.Feeds {
		all += st.CountMode.Count(f)
		// Fresh membership is unread>0; the count follows the active mode
		// like every other displayed count.
		if f.UnreadCount > 0 {
			fresh += st.CountMode.Count(f)
		}
	}
	counts[tree.VirtualAll] = all
	counts[tree.VirtualFresh] = fresh
	return counts
}

// PersistExpansion writes the expansion state through, best effort.
func PersistExpansion(st *state.ModelState, deps Deps) {
	st.Expansion.Persist(context.Background(), deps.States)
}

// HandleKeyMsg dispatches a key press for the current session.
func HandleKeyMsg(st *state.ModelState, deps Deps, msg tea.KeyMsg) tea.Cmd {
	switch st.Session {
	case state.ConfirmView:
		return handleConfirmKey(st, deps, msg)
	case state.QuitView:
		return handleQuitKey(st, msg)
	case state.AddCategoryView, state.RenameView:
		return handleTextEntryKey(st, deps, msg)
	default:
		if st.FilterActive {
			return handleFilterKey(st, msg)
		}
		return handleTreeKey(st, deps, msg)
	}
}

func handleQuitKey(st *state.ModelState, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y", "enter":
		return tea.Quit
	case "n", "N", "esc", "q":
		st.Session = state.TreeView
	}
	return nil
}

func handleTextEntryKey(st *state.ModelState, deps Deps, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		closeTextEntry(st)
		return nil
	case "enter":
		value := strings.TrimSpace(st.TextInput.Value())
		session := st.Session
		target := st.Rename
		closeTextEntry(st)
		if value == "" {
			return nil
		}
		if session == state.AddCategoryView {
			st.Loading = true
			return CreateCategoryCmd(deps.Client, value, target.ParentID)
		}
		st.Loading = true
		if target.IsCategory {
			return RenameCategoryCmd(deps.Client, target.ID, value)
		}
		return RenameFeedCmd(deps.Client, target.ID, value)
	}
	var cmd tea.Cmd
	st.TextInput, cmd = st.TextInput.Update(msg)
	return cmd
}

func closeTextEntry(st *state.ModelState) {
	st.Session = state.TreeView
	st.TextInput.Blur()
	st.TextInput.SetValue("")
	st.Rename = state.RenameTarget{}
}

func handleFilterKey(st *state.ModelState, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		st.FilterActive = false
		st.FilterQuery = ""
		st.TextInput.Blur()
		st.TextInput.SetValue("")
		RebuildRows(st)
		return nil
	case "enter":
		// Keep the query, hand the keys back to navigation.
		st.FilterActive = false
		st.TextInput.Blur()
		RebuildRows(st)
		return nil
	}
	var cmd tea.Cmd
	st.TextInput, cmd = st.TextInput.Update(msg)
	st.FilterQuery = st.TextInput.Value()
	st.Cursor = 0
	RebuildRows(st)
	return cmd
}

func handleTreeKey(st *state.ModelState, deps Deps, msg tea.KeyMsg) tea.Cmd {
	switch intent.FromKey(msg, &st.Keys) {
	case intent.Up:
		moveCursor(st, -1)
	case intent.Down:
		moveCursor(st, 1)
	case intent.Open:
		return activateRow(st, deps)
	case intent.Back:
		goBack(st, deps)
	case intent.Quit:
		st.Session = state.QuitView
	case intent.ToggleExpand:
		toggleRowExpansion(st, deps)
	case intent.ExpandAll:
		st.Expansion.ExpandAll(categoryIDs(st.Categories))
		PersistExpansion(st, deps)
		RebuildRows(st)
	case intent.CollapseAll:
		st.Expansion.CollapseAll()
		PersistExpansion(st, deps)
		RebuildRows(st)
	case intent.Move:
		return HandleMoveKey(st, deps)
	case intent.Refresh:
		return refreshCurrentFeed(st, deps)
	case intent.RefreshAll:
		deps.Callbacks.refreshAll()
		st.StatusMessage = "Refreshing all feeds"
	case intent.AddCategory:
		return openAddCategory(st)
	case intent.Rename:
		return openRename(st, deps)
	case intent.Delete:
		confirmDeleteAtCursor(st)
	case intent.Unsubscribe:
		confirmBulkAtCursor(st)
	case intent.Subscribe:
		deps.Callbacks.subscribe()
	case intent.Settings:
		deps.Callbacks.settings()
	case intent.Filter:
		return openFilter(st)
	case intent.ToggleCounts:
		if st.CountMode == tree.CountUnread {
			st.CountMode = tree.CountTotal
		} else {
			st.CountMode = tree.CountUnread
		}
		RebuildRows(st)
	case intent.Track:
		HandleTrackFeed(st, deps, st.TrackedFeedID)
	case intent.ToggleSidebar:
		st.SidebarCollapsed = !st.SidebarCollapsed
		deps.Callbacks.toggleCollapse()
	case intent.Help:
		st.Help.ShowAll = !st.Help.ShowAll
	}
	return nil
}

func moveCursor(st *state.ModelState, delta int) {
	st.Cursor = state.ClampCursor(st.Cursor+delta, len(st.Rows))
	st.Scroll = state.ScrollIntoView(st.Scroll, st.Cursor, len(st.Rows),
		st.SidebarHeight(), metrics.ScrollMargin)
}

func activateRow(st *state.ModelState, deps Deps) tea.Cmd {
	row, ok := st.CurrentRow()
	if !ok {
		return nil
	}
	switch row.Kind {
	case presenter.RowFeed:
		st.SelectedFeedID = row.FeedID
		st.SelectedCategoryID = ""
		st.SelectedVirtual = ""
		st.SelectedTag = ""
		st.TrackedFeedID = row.FeedID
		deps.Callbacks.selectFeed(row.FeedID)
		RebuildRows(st)
	case presenter.RowCategory:
		st.SelectedCategoryID = row.CategoryID
		st.SelectedFeedID = ""
		st.SelectedVirtual = ""
		st.SelectedTag = ""
		deps.Callbacks.selectCategory(row.CategoryID)
		RebuildRows(st)
	case presenter.RowVirtual:
		st.SelectedVirtual = row.VirtualKey
		st.SelectedFeedID = ""
		st.SelectedCategoryID = ""
		st.SelectedTag = ""
		deps.Callbacks.selectVirtual(row.VirtualKey)
		RebuildRows(st)
	case presenter.RowTag:
		st.SelectedTag = row.Tag
		st.SelectedFeedID = ""
		st.SelectedCategoryID = ""
		st.SelectedVirtual = ""
		deps.Callbacks.selectTag(row.Tag)
		RebuildRows(st)
	default:
		if row.Expandable {
			toggleRowExpansion(st, deps)
		}
	}
	return nil
}

func toggleRowExpansion(st *state.ModelState, deps Deps) {
	row, ok := st.CurrentRow()
	if !ok {
		return
	}
	switch row.Kind {
	case presenter.RowCategory:
		st.Expansion.Toggle(row.CategoryID)
	case presenter.RowErrorsHeader:
		st.Expansion.ToggleErrors()
	case presenter.RowErrorGroup:
		st.Expansion.ToggleErrorKind(row.ErrorKind)
	case presenter.RowSmartFolder, presenter.RowUncategorized:
		st.Expansion.ToggleSmartFolder(row.SmartID)
	case presenter.RowTagsHeader:
		st.Expansion.ToggleTags()
	default:
		return
	}
	PersistExpansion(st, deps)
	RebuildRows(st)
}

func goBack(st *state.ModelState, deps Deps) {
	if st.ActiveDragID != "" {
		CancelDrag(st)
		return
	}
	if st.FilterQuery != "" {
		st.FilterQuery = ""
		st.TextInput.SetValue("")
		RebuildRows(st)
		return
	}
	switch {
	case st.SelectedFeedID != "":
		st.SelectedFeedID = ""
		deps.Callbacks.selectFeed("")
	case st.SelectedCategoryID != "":
		st.SelectedCategoryID = ""
		deps.Callbacks.selectCategory("")
	case st.SelectedVirtual != "":
		st.SelectedVirtual = ""
		deps.Callbacks.selectVirtual("")
	case st.SelectedTag != "":
		st.SelectedTag = ""
		deps.Callbacks.selectTag("")
	default:
		return
	}
	RebuildRows(st)
}

func refreshCurrentFeed(st *state.ModelState, deps Deps) tea.Cmd {
	row, ok := st.CurrentRow()
	if !ok || row.Kind != presenter.RowFeed {
		return nil
	}
	if st.RefreshingFeedID != "" {
		st.StatusMessage = "A refresh is already running"
		return nil
	}
	st.RefreshingFeedID = row.FeedID
	st.StatusMessage = fmt.Sprintf("Refreshing %s", row.Label)
	return RefreshFeedCmd(deps.Client, row.FeedID)
}

func openAddCategory(st *state.ModelState) tea.Cmd {
	parentID := ""
	if row, ok := st.CurrentRow(); ok && row.Kind == presenter.RowCategory {
		parentID = row.CategoryID
	}
	st.Rename = state.RenameTarget{ParentID: parentID}
	st.Session = state.AddCategoryView
	st.TextInput.SetValue("")
	st.TextInput.Placeholder = "Category name"
	st.TextInput.Focus()
	return textinput.Blink
}

func openRename(st *state.ModelState, deps Deps) tea.Cmd {
	row, ok := st.CurrentRow()
	if !ok {
		return nil
	}
	switch row.Kind {
	case presenter.RowCategory:
		st.Rename = state.RenameTarget{IsCategory: true, ID: row.CategoryID}
	case presenter.RowFeed:
		st.Rename = state.RenameTarget{ID: row.FeedID}
		if f, found := findFeed(st.Feeds, row.FeedID); found {
			deps.Callbacks.editFeed(f)
		}
	default:
		return nil
	}
	st.Session = state.RenameView
	st.TextInput.SetValue(row.Label)
	st.TextInput.Placeholder = "New title"
	st.TextInput.Focus()
	st.TextInput.CursorEnd()
	return textinput.Blink
}

func openFilter(st *state.ModelState) tea.Cmd {
	st.FilterActive = true
	st.FilterQuery = ""
	st.Cursor = 0
	st.TextInput.SetValue("")
	st.TextInput.Placeholder = "Filter feeds"
	st.TextInput.Focus()
	RebuildRows(st)
	return textinput.Blink
}

// HandleCollectionsLoaded installs freshly loaded collections and reconciles
// expansion state against them.
func HandleCollectionsLoaded(st *state.ModelState, deps Deps, msg CollectionsLoadedMsg) {
	st.Loading = false
	if msg.Err != nil {
		st.Err = msg.Err
		st.StatusMessage = fmt.Sprintf("Failed to load subscriptions: %v", msg.Err)
		return
	}
	st.Feeds = msg.Feeds
	st.Categories = msg.Categories
	st.Expansion.Reconcile(st.Categories)
	PersistExpansion(st, deps)
	RebuildRows(st)
}

// HandleFeedRefreshed clears the in-flight guard and applies the result.
func HandleFeedRefreshed(st *state.ModelState, deps Deps, msg FeedRefreshedMsg) {
	st.RefreshingFeedID = ""
	if msg.Err != nil {
		st.StatusMessage = fmt.Sprintf("Refresh failed: %v", msg.Err)
		return
	}
	if msg.Feed == nil {
		st.StatusMessage = "Feed is up to date"
		return
	}
	replaceFeed(st, *msg.Feed)
	deps.Callbacks.feedUpdated(*msg.Feed)
	deps.Callbacks.feedsChange(st.Feeds)
	st.StatusMessage = fmt.Sprintf("Refreshed %q", msg.Feed.DisplayTitle())
	RebuildRows(st)
}

// HandleFeedRenamed applies a committed title change.
func HandleFeedRenamed(st *state.ModelState, deps Deps, msg FeedRenamedMsg) {
	st.Loading = false
	if msg.Err != nil {
		st.StatusMessage = fmt.Sprintf("Rename failed: %v", msg.Err)
		return
	}
	replaceFeed(st, msg.Feed)
	deps.Callbacks.feedUpdated(msg.Feed)
	deps.Callbacks.feedsChange(st.Feeds)
	st.StatusMessage = fmt.Sprintf("Renamed to %q", msg.Feed.DisplayTitle())
	RebuildRows(st)
}

// HandleFeedDeleted removes a single unsubscribed feed.
func HandleFeedDeleted(st *state.ModelState, deps Deps, msg FeedDeletedMsg) {
	st.Loading = false
	if msg.Err != nil {
		st.StatusMessage = fmt.Sprintf("Unsubscribe failed: %v", msg.Err)
		return
	}
	removeFeeds(st, deps, []string{msg.FeedID})
	deps.Callbacks.feedsChange(st.Feeds)
	st.StatusMessage = "Unsubscribed"
	RebuildRows(st)
}

// HandleCategoryCreated installs a new category. Reconcile force-expands the
// unseen id so the empty folder is immediately visible.
func HandleCategoryCreated(st *state.ModelState, deps Deps, msg CategoryCreatedMsg) {
	st.Loading = false
	if msg.Err != nil {
		st.StatusMessage = fmt.Sprintf("Create category failed: %v", msg.Err)
		return
	}
	st.Categories = append(st.Categories, msg.Category)
	st.Expansion.Reconcile(st.Categories)
	PersistExpansion(st, deps)
	deps.Callbacks.categoriesChange(st.Categories)
	st.StatusMessage = fmt.Sprintf("Created category %q", msg.Category.Title)
	RebuildRows(st)
}

// HandleCategoryRenamed applies a committed category title change.
func HandleCategoryRenamed(st *state.ModelState, deps Deps, msg CategoryRenamedMsg) {
	st.Loading = false
	if msg.Err != nil {
		st.StatusMessage = fmt.Sprintf("Rename failed: %v", msg.Err)
		return
	}
	for i := range st.Categories {
		if st.Categories[i].ID == msg.Category.ID {
			st.Categories[i] = msg.Category
			break
		}
	}
	deps.Callbacks.categoriesChange(st.Categories)
	st.StatusMessage = fmt.Sprintf("Renamed to %q", msg.Category.Title)
	RebuildRows(st)
}

func findFeed(feeds []feed.Feed, id string) (feed.Feed, bool) {
	for _, f := range feeds {
		if f.ID == id {
			return f, true
		}
	}
	return feed.Feed{}, false
}

func replaceFeed(st *state.ModelState, f feed.Feed) {
	for i := range st.Feeds {
		if st.Feeds[i].ID == f.ID {
			st.Feeds[i] = f
			return
		}
	}
	st.Feeds = append(st.Feeds, f)
}

// removeFeeds drops the given ids from the collection and clears any
// selection or tracking that pointed at them.
func removeFeeds(st *state.ModelState, deps Deps, ids []string) {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := st.Feeds[:0]
	for _, f := range st.Feeds {
		if !drop[f.ID] {
			kept = append(kept, f)
		}
	}
	st.Feeds = kept
	if drop[st.SelectedFeedID] {
		st.SelectedFeedID = ""
		deps.Callbacks.selectFeed("")
	}
	if drop[st.TrackedFeedID] {
		st.TrackedFeedID = ""
	}
}

func categoryIDs(categories []feed.Category) []string {
	ids := make([]string, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	return ids
}
