package ui

import (
	"github.com/mattn/go-runewidth"
)

// All widths are display widths in screen columns, not byte lengths.

// RuneWidth returns the display width of a single rune. Control and
// combining characters take no columns.
func RuneWidth(r rune) int {
	w := runewidth.RuneWidth(r)
	if w < 0 {
		return 0
	}
	return w
}

// StringWidth returns the display width of a string
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateToWidth cuts s to at most maxWidth columns without splitting runes
func TruncateToWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "")
}

// TruncateToWidthWithEllipsis truncates s with "..." if it exceeds maxWidth
func TruncateToWidthWithEllipsis(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return TruncateToWidth(s, maxWidth)
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// PadStringToWidth pads s with spaces to width columns. Wider strings are
// returned unchanged.
func PadStringToWidth(s string, width int) string {
	if StringWidth(s) >= width {
		return s
	}
	return runewidth.FillRight(s, width)
}

// CursorColumn returns the display column of the rune at index pos
func CursorColumn(runes []rune, pos int) int {
	col := 0
	for i := 0; i < pos && i < len(runes); i++ {
		col += RuneWidth(runes[i])
	}
	return col
}
