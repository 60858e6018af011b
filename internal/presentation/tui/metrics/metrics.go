// Package metrics centralizes layout constants for the TUI.
package metrics

const (
	SidebarTitleLines       = 2
	SidebarMinWidth         = 24
	SidebarRightBorderWidth = 1
	FooterLines             = 2

	RowIndentWidth    = 2
	RowRightPadding   = 1
	ScrollMargin      = 1
	DragRowThreshold  = 1
	DetailHeaderLines = 2
)
