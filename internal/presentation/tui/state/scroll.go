package state

// ClampCursor keeps the cursor inside [0, size).
func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

// ClampScroll keeps the scroll offset inside the valid window for the
// given row count and viewport height.
func ClampScroll(scroll, totalRows, height int) int {
	if totalRows <= 0 || height <= 0 || totalRows <= height {
		return 0
	}
	maxScroll := totalRows - height
	if scroll > maxScroll {
		return maxScroll
	}
	if scroll < 0 {
		return 0
	}
	return scroll
}

// ScrollIntoView returns the minimal scroll adjustment that brings the row
// fully into the viewport with the given margin. When the row is already
// visible the current offset is returned unchanged, so repeated calls with
// the same inputs never jitter.
func ScrollIntoView(scroll, row, totalRows, height, margin int) int {
	if height <= 0 || totalRows <= height {
		return 0
	}
	if row < 0 || row >= totalRows {
		return ClampScroll(scroll, totalRows, height)
	}
	top := scroll
	bottom := scroll + height - 1
	switch {
	case row-margin < top:
		return ClampScroll(row-margin, totalRows, height)
	case row+margin > bottom:
		return ClampScroll(row+margin-height+1, totalRows, height)
	default:
		return ClampScroll(scroll, totalRows, height)
	}
}
