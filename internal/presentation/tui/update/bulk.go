package update

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"feedtray/internal/domain/tree"
	"feedtray/internal/infrastructure/api"
	"feedtray/internal/presentation/tui/presenter"
	"feedtray/internal/presentation/tui/state"
)

// CategoryDeletedMsg reports a category deletion. The collaborator has
// already uncategorized its feeds and rerooted its child categories.
type CategoryDeletedMsg struct {
	CategoryID string
	Err        error
}

// BulkUnsubscribeMsg reports a sequential group unsubscribe. Deleted holds
// the ids removed before the first failure; Err is nil on full success.
type BulkUnsubscribeMsg struct {
	Group   string
	Deleted []string
	Err     error
}

// DeleteCategoryCmd deletes a category on the collaborator.
func DeleteCategoryCmd(client api.Client, categoryID string) tea.Cmd {
	return func() tea.Msg {
		err := client.DeleteCategory(context.Background(), categoryID)
		return CategoryDeletedMsg{CategoryID: categoryID, Err: err}
	}
}

// BulkUnsubscribeCmd unsubscribes from the given feeds one by one, stopping
// at the first failure.
func BulkUnsubscribeCmd(client api.Client, group string, feedIDs []string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		deleted := make([]string, 0, len(feedIDs))
		for _, id := range feedIDs {
			if err := client.DeleteFeed(ctx, id); err != nil {
				return BulkUnsubscribeMsg{Group: group, Deleted: deleted, Err: err}
			}
			deleted = append(deleted, id)
		}
		return BulkUnsubscribeMsg{Group: group, Deleted: deleted}
	}
}

// confirmDeleteAtCursor opens the confirmation prompt for the row under the
// cursor. Category prompts spell out how many direct feeds will end up
// uncategorized.
func confirmDeleteAtCursor(st *state.ModelState) {
	row, ok := st.CurrentRow()
	if !ok {
		return
	}
	switch row.Kind {
	case presenter.RowCategory:
		n := len(tree.New(st.Categories, st.Feeds).FeedsIn(row.CategoryID))
		msg := fmt.Sprintf("Delete category %q?", row.Label)
		if n > 0 {
			msg = fmt.Sprintf("Delete category %q? %d feed(s) will become uncategorized.", row.Label, n)
		}
		st.Confirm = state.Confirm{
			Kind:       state.ConfirmDeleteCategory,
			Message:    msg,
			CategoryID: row.CategoryID,
		}
		st.Session = state.ConfirmView
	case presenter.RowFeed:
		st.Confirm = state.Confirm{
			Kind:    state.ConfirmDeleteFeed,
			Message: fmt.Sprintf("Unsubscribe from %q?", row.Label),
			FeedIDs: []string{row.FeedID},
		}
		st.Session = state.ConfirmView
	}
}

// confirmBulkAtCursor opens the bulk-unsubscribe prompt for a group row
// (error group, smart folder, the Uncategorized folder or a tag).
func confirmBulkAtCursor(st *state.ModelState) {
	row, ok := st.CurrentRow()
	if !ok {
		return
	}
	var group string
	var ids []string
	switch row.Kind {
	case presenter.RowErrorGroup:
		group = row.Label
		for _, g := range tree.GroupErrors(st.Feeds) {
			if g.Kind != row.ErrorKind {
				continue
			}
			for _, f := range g.Feeds {
				ids = append(ids, f.ID)
			}
		}
	case presenter.RowSmartFolder:
		group = row.Label
		for _, sf := range st.SmartFolders {
			if sf.ID != row.SmartID {
				continue
			}
			for _, f := range sf.Feeds(st.Feeds) {
				ids = append(ids, f.ID)
			}
		}
	case presenter.RowUncategorized:
		group = row.Label
		for _, f := range tree.New(st.Categories, st.Feeds).Uncategorized() {
			ids = append(ids, f.ID)
		}
	case presenter.RowTag:
		group = "tag " + row.Tag
		for _, f := range st.Feeds {
			if f.HasTag(row.Tag) {
				ids = append(ids, f.ID)
			}
		}
	default:
		return
	}
	if len(ids) == 0 {
		return
	}
	st.Confirm = state.Confirm{
		Kind:    state.ConfirmBulkUnsubscribe,
		Message: fmt.Sprintf("Unsubscribe from %d feed(s) in %s?", len(ids), group),
		FeedIDs: ids,
		Group:   group,
	}
	st.Session = state.ConfirmView
}

func handleConfirmKey(st *state.ModelState, deps Deps, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y", "enter":
		confirm := st.Confirm
		st.Confirm = state.Confirm{}
		st.Session = state.TreeView
		switch confirm.Kind {
		case state.ConfirmDeleteCategory:
			st.Loading = true
			return DeleteCategoryCmd(deps.Client, confirm.CategoryID)
		case state.ConfirmDeleteFeed:
			if len(confirm.FeedIDs) == 0 {
				return nil
			}
			st.Loading = true
			return DeleteFeedCmd(deps.Client, confirm.FeedIDs[0])
		case state.ConfirmBulkUnsubscribe:
			st.Loading = true
			return BulkUnsubscribeCmd(deps.Client, confirm.Group, confirm.FeedIDs)
		}
	case "n", "N", "esc", "q":
		st.Confirm = state.Confirm{}
		st.Session = state.TreeView
	}
	return nil
}

// HandleCategoryDeleted removes the confirmed category and nothing else.
// Member feeds and child categories keep whatever the server assigns them;
// until the next load the tree's dangling-reference fallback shows the
// feeds as uncategorized and the children as roots.
func HandleCategoryDeleted(st *state.ModelState, deps Deps, msg CategoryDeletedMsg) {
	st.Loading = false
	if msg.Err != nil {
		st.StatusMessage = fmt.Sprintf("Delete failed: %v", msg.Err)
		return
	}
	kept := st.Categories[:0]
	for _, c := range st.Categories {
		if c.ID != msg.CategoryID {
			kept = append(kept, c)
		}
	}
	st.Categories = kept
	if st.SelectedCategoryID == msg.CategoryID {
		st.SelectedCategoryID = ""
		deps.Callbacks.selectCategory("")
	}
	st.Expansion.Reconcile(st.Categories)
	PersistExpansion(st, deps)
	deps.Callbacks.categoriesChange(st.Categories)
	st.StatusMessage = "Category deleted"
	RebuildRows(st)
}

// HandleBulkUnsubscribe removes whatever the command managed to delete. On
// a partial failure the remaining feeds stay subscribed.
func HandleBulkUnsubscribe(st *state.ModelState, deps Deps, msg BulkUnsubscribeMsg) {
	st.Loading = false
	removeFeeds(st, deps, msg.Deleted)
	if len(msg.Deleted) > 0 {
		deps.Callbacks.feedsChange(st.Feeds)
	}
	if msg.Err != nil {
		st.StatusMessage = fmt.Sprintf("Unsubscribe from %s stopped after %d feed(s): %v",
			msg.Group, len(msg.Deleted), msg.Err)
	} else {
		st.StatusMessage = fmt.Sprintf("Unsubscribed from %d feed(s) in %s",
			len(msg.Deleted), msg.Group)
	}
	RebuildRows(st)
}
