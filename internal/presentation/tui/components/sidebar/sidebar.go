// Package sidebar renders the navigation tree column.
package sidebar

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"feedtray/internal/application/settings"
	"feedtray/internal/presentation/tui/metrics"
	"feedtray/internal/presentation/tui/presenter"
	"feedtray/internal/presentation/tui/textutil"
)

// Props defines the properties for the sidebar component.
type Props struct {
	Rows   []presenter.Row
	Cursor int
	Scroll int
	Width  int
	Height int
	Title  string
	// DragID is the feed currently grabbed for a move, "" when idle.
	DragID string
	Theme  settings.ThemeConfig
}

// Render renders the tree column with its title and right border.
func Render(p Props) string {
	if p.Width <= 0 {
		return ""
	}
	innerWidth := p.Width - metrics.SidebarRightBorderWidth

	borderStyle := lipgloss.NewStyle().
		Width(innerWidth).
		Height(p.Height + metrics.SidebarTitleLines).
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(lipgloss.Color(p.Theme.Selection))

	titleStyle := lipgloss.NewStyle().
		PaddingLeft(2).
		PaddingBottom(1).
		Foreground(lipgloss.Color(p.Theme.Selection))

	return borderStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(p.Title),
		renderRows(p, innerWidth),
	))
}

func renderRows(p Props, width int) string {
	if len(p.Rows) == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Theme.Count)).
			PaddingLeft(2).
			Render("No subscriptions")
	}

	top := p.Scroll
	bottom := top + p.Height
	if bottom > len(p.Rows) {
		bottom = len(p.Rows)
	}
	out := ""
	for i := top; i < bottom; i++ {
		if out != "" {
			out += "\n"
		}
		out += renderRow(p.Rows[i], p, i == p.Cursor, width)
	}
	return out
}

func renderRow(row presenter.Row, p Props, selected bool, width int) string {
	marker := "  "
	if row.Expandable {
		marker = "▸ "
		if row.Expanded {
			marker = "▾ "
		}
	}
	label := row.Label
	if row.Icon != "" {
		label = row.Icon + " " + label
	}
	text := textutil.Indent(marker+label, row.Depth, metrics.RowIndentWidth)

	count := ""
	if row.HasCount && row.Count > 0 {
		count = strconv.Itoa(row.Count)
	}
	if row.FeedID != "" && row.FeedID == p.DragID {
		count = "moving"
	}

	avail := width - metrics.RowRightPadding - lipgloss.Width(count)
	if count != "" {
		avail-- // gap before the badge
	}
	line := textutil.PadRight(textutil.SingleLine(text), avail)
	if count != "" {
		line += " " + countStyle(p.Theme).Render(count)
	}
	return rowStyle(row, p, selected).Render(line)
}

func rowStyle(row presenter.Row, p Props, selected bool) lipgloss.Style {
	style := lipgloss.NewStyle()
	switch row.Kind {
	case presenter.RowSection:
		style = style.Foreground(lipgloss.Color(p.Theme.Count)).Bold(true)
	case presenter.RowCategory, presenter.RowVirtual, presenter.RowSmartFolder,
		presenter.RowTagsHeader, presenter.RowTag, presenter.RowUncategorized:
		style = style.Foreground(lipgloss.Color(p.Theme.CategoryName))
	case presenter.RowErrorsHeader, presenter.RowErrorGroup:
		style = style.Foreground(lipgloss.Color(p.Theme.ErrorName))
	default:
		style = style.Foreground(lipgloss.Color(p.Theme.FeedName))
		if row.Faulty {
			style = style.Foreground(lipgloss.Color(p.Theme.ErrorName))
		}
	}
	if row.Emphasis {
		style = style.Bold(true)
	}
	if row.FeedID != "" && row.FeedID == p.DragID {
		style = style.Italic(true)
	}
	if selected {
		style = style.Foreground(lipgloss.Color(p.Theme.Selection)).Bold(true)
	}
	return style
}

func countStyle(theme settings.ThemeConfig) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Count))
}
