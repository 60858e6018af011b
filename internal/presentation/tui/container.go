// Package tui provides the main user interface model and view components.
package tui

import (
	"fmt"
	"strings"

	"feedtray/internal/domain/tree"
	"feedtray/internal/presentation/tui/components/header"
	main_view "feedtray/internal/presentation/tui/components/main"
	"feedtray/internal/presentation/tui/components/modal"
	"feedtray/internal/presentation/tui/components/sidebar"
	"feedtray/internal/presentation/tui/metrics"
	"feedtray/internal/presentation/tui/state"
	"feedtray/internal/presentation/tui/textutil"
	"feedtray/internal/presentation/tui/view"
)

func (m *Model) buildProps() view.Props {
	return view.Props{
		Sidebar: m.buildSidebarProps(),
		Header:  m.buildHeaderProps(),
		Main:    m.buildMainProps(),
		Modal:   m.buildModalProps(),
		Footer:  m.buildFooterProps(),
	}
}

func (m *Model) buildSidebarProps() sidebar.Props {
	return sidebar.Props{
		Rows:   m.state.Rows,
		Cursor: m.state.Cursor,
		Scroll: m.state.Scroll,
		Width:  m.state.SidebarWidth(),
		Height: m.state.SidebarHeight(),
		Title:  "Feedtray",
		DragID: m.state.ActiveDragID,
		Theme:  m.settings.Theme,
	}
}

func (m *Model) buildHeaderProps() header.Props {
	st := m.state
	width := m.mainWidth() - metrics.RowRightPadding
	tr := tree.New(st.Categories, st.Feeds)

	switch {
	case st.SelectedFeedID != "":
		f, ok := tr.Feed(st.SelectedFeedID)
		if !ok {
			return header.Props{}
		}
		return header.Props{
			Visible:  true,
			Title:    headerLine(f.DisplayTitle(), width),
			Subtitle: headerLine(categoryPath(tr, f.CategoryID), width),
		}
	case st.SelectedCategoryID != "":
		c, ok := tr.Category(st.SelectedCategoryID)
		if !ok {
			return header.Props{}
		}
		return header.Props{
			Visible:  true,
			Title:    headerLine(c.Title, width),
			Subtitle: headerLine(categoryPath(tr, c.ParentID), width),
		}
	case st.SelectedVirtual != "":
		return header.Props{
			Visible:  true,
			Title:    headerLine(virtualTitle(st.SelectedVirtual), width),
			Subtitle: "Virtual view",
		}
	case st.SelectedTag != "":
		return header.Props{
			Visible:  true,
			Title:    headerLine("#"+st.SelectedTag, width),
			Subtitle: "Tag",
		}
	}
	return header.Props{}
}

func (m *Model) buildMainProps() main_view.Props {
	st := m.state
	var body string
	switch {
	case st.Loading:
		body = fmt.Sprintf("\n\n   %s Loading subscriptions...", st.Spinner.View())
	case st.SelectedFeedID != "":
		body = m.buildFeedDetail(st.SelectedFeedID)
	case st.SelectedCategoryID != "":
		body = m.buildCategoryDetail(st.SelectedCategoryID)
	case st.SelectedVirtual != "" || st.SelectedTag != "":
		body = ""
	default:
		body = "Select a feed or category."
	}
	if st.Err != nil && !st.Loading {
		body = fmt.Sprintf("Error: %v\n\n%s", st.Err, body)
	}

	return main_view.Props{
		Width:  m.mainWidth(),
		Height: st.SidebarHeight() + metrics.SidebarTitleLines,
		Body:   body,
	}
}

func (m *Model) buildFeedDetail(feedID string) string {
	tr := tree.New(m.state.Categories, m.state.Feeds)
	f, ok := tr.Feed(feedID)
	if !ok {
		return ""
	}
	lines := []string{
		fmt.Sprintf("Unread: %d    Entries: %d", f.UnreadCount, f.EntryCount),
	}
	if len(f.Tags) > 0 {
		lines = append(lines, "Tags: "+strings.Join(f.Tags, ", "))
	}
	if f.HasError() {
		lines = append(lines, fmt.Sprintf("Last error: %s (%s)",
			f.LastError, tree.ClassifyError(f.LastError).Label()))
	}
	if f.NextPollAt != nil {
		lines = append(lines, "Next poll: "+f.NextPollAt.Format("2006-01-02 15:04"))
	}
	if m.state.RefreshingFeedID == f.ID {
		lines = append(lines, fmt.Sprintf("%s Refreshing...", m.state.Spinner.View()))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) buildCategoryDetail(categoryID string) string {
	tr := tree.New(m.state.Categories, m.state.Feeds)
	return fmt.Sprintf("Subcategories: %d    Feeds: %d\nUnread: %d    Entries: %d",
		len(tr.Children(categoryID)),
		len(tr.FeedsIn(categoryID)),
		tr.RecursiveUnread(categoryID),
		tr.RecursiveTotal(categoryID))
}

func (m *Model) buildModalProps() modal.Props {
	st := m.state
	switch st.Session {
	case state.AddCategoryView:
		return modal.Props{
			Visible: true,
			Kind:    modal.Input,
			Body: fmt.Sprintf("New category:\n\n%s\n\n(enter to save, esc to cancel)",
				st.TextInput.View()),
			Width:  st.Width,
			Height: st.Height,
		}
	case state.RenameView:
		return modal.Props{
			Visible: true,
			Kind:    modal.Input,
			Body: fmt.Sprintf("Rename:\n\n%s\n\n(enter to save, esc to cancel)",
				st.TextInput.View()),
			Width:  st.Width,
			Height: st.Height,
		}
	case state.ConfirmView:
		return modal.Props{
			Visible: true,
			Kind:    modal.Confirm,
			Body:    st.Confirm.Message + "\n\n(y/n)",
			Width:   st.Width,
			Height:  st.Height,
		}
	case state.QuitView:
		return modal.Props{
			Visible: true,
			Kind:    modal.Confirm,
			Body:    "Are you sure you want to quit?\n\n(y/n)",
			Width:   st.Width,
			Height:  st.Height,
		}
	}
	if st.Help.ShowAll {
		return modal.Props{
			Visible: true,
			Kind:    modal.Help,
			Body:    st.Help.View(&st.Keys),
			Width:   st.Width,
			Height:  st.Height,
		}
	}
	return modal.Props{Visible: false}
}

func (m *Model) buildFooterProps() string {
	helpText := m.state.Help.View(&m.state.Keys)
	if m.state.FilterActive {
		return "/" + m.state.TextInput.View() + "\n" + helpText
	}
	return state.FooterText(m.state.Loading, m.state.StatusMessage, helpText)
}

func (m *Model) mainWidth() int {
	w := m.state.Width - m.state.SidebarWidth()
	if w < 0 {
		return 0
	}
	return w
}

func headerLine(text string, width int) string {
	return textutil.Truncate(textutil.SingleLine(text), width)
}

// categoryPath renders the root-to-leaf chain of the category, falling back
// to the Uncategorized label for the empty id.
func categoryPath(tr *tree.Tree, categoryID string) string {
	if categoryID == "" {
		return "Uncategorized"
	}
	chain := tr.AncestorChain(categoryID)
	parts := make([]string, 0, len(chain)+1)
	for i := len(chain) - 1; i >= 0; i-- {
		if c, ok := tr.Category(chain[i]); ok {
			parts = append(parts, c.Title)
		}
	}
	if c, ok := tr.Category(categoryID); ok {
		parts = append(parts, c.Title)
	}
	if len(parts) == 0 {
		return "Uncategorized"
	}
	return strings.Join(parts, " ▸ ")
}

func virtualTitle(key tree.VirtualFeedKey) string {
	switch key {
	case tree.VirtualAll:
		return "All Feeds"
	case tree.VirtualFresh:
		return "Fresh"
	case tree.VirtualStarred:
		return "Starred"
	case tree.VirtualPublished:
		return "Published"
	default:
		return string(key)
	}
}
