package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampCursor(t *testing.T) {
	assert.Equal(t, 0, ClampCursor(3, 0))
	assert.Equal(t, 0, ClampCursor(-1, 5))
	assert.Equal(t, 4, ClampCursor(9, 5))
	assert.Equal(t, 2, ClampCursor(2, 5))
}

func TestClampScroll(t *testing.T) {
	assert.Equal(t, 0, ClampScroll(4, 3, 10), "everything fits, no scroll")
	assert.Equal(t, 0, ClampScroll(-2, 20, 10))
	assert.Equal(t, 10, ClampScroll(99, 20, 10))
	assert.Equal(t, 5, ClampScroll(5, 20, 10))
}

func TestScrollIntoViewMovesMinimally(t *testing.T) {
	// Row above the window scrolls up to margin distance.
	assert.Equal(t, 2, ScrollIntoView(10, 4, 30, 8, 2))
	// Row below the window scrolls down just enough.
	assert.Equal(t, 13, ScrollIntoView(0, 18, 30, 8, 2))
	// Visible row with margin satisfied leaves the offset alone.
	assert.Equal(t, 10, ScrollIntoView(10, 14, 30, 8, 2))
}

func TestScrollIntoViewEdgeCases(t *testing.T) {
	assert.Equal(t, 0, ScrollIntoView(5, 2, 6, 10, 2), "short list never scrolls")
	assert.Equal(t, 10, ScrollIntoView(10, -1, 30, 8, 2), "out-of-range row only clamps")
	assert.Equal(t, 22, ScrollIntoView(0, 29, 30, 8, 2), "last row clamps to max scroll")
}

func TestFooterText(t *testing.T) {
	assert.Equal(t, "help", FooterText(true, "busy", "help"))
	assert.Equal(t, "help", FooterText(false, "  ", "help"))
	assert.Equal(t, "saved\nhelp", FooterText(false, "saved", "help"))
	assert.Equal(t, "saved", FooterText(false, "saved", ""))
}
