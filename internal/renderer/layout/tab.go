// Package layout provides visible-column arithmetic shared by the line
// renderer: tab stops, full-width advance, column/offset conversion and
// wrapped-row breaking.
package layout

import "github.com/mattn/go-runewidth"

// DefaultTabSize is used when a non-positive tab size is configured.
const DefaultTabSize = 4

// widthCondition classifies ambiguous-width characters as narrow so the
// result does not depend on the RUNEWIDTH_EASTASIAN environment.
var widthCondition = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// IsFullWidth reports whether r occupies two visible columns.
func IsFullWidth(r rune) bool {
	if r < 0x1100 {
		return false
	}
	return widthCondition.RuneWidth(r) == 2
}

// TabExpander provides tab expansion utilities.
type TabExpander struct {
	tabSize int
}

// NewTabExpander creates a tab expander with the given tab size.
func NewTabExpander(tabSize int) *TabExpander {
	if tabSize < 1 {
		tabSize = DefaultTabSize
	}
	return &TabExpander{tabSize: tabSize}
}

// TabSize returns the current tab size.
func (t *TabExpander) TabSize() int {
	return t.tabSize
}

// TabStopOffset returns how many columns a tab at the given column expands to.
func (t *TabExpander) TabStopOffset(col int) int {
	return t.tabSize - (col % t.tabSize)
}

// CharWidth returns the number of visible columns r takes when it starts
// at col: the distance to the next tab stop for a tab, 2 for a full-width
// character and 1 otherwise.
func (t *TabExpander) CharWidth(r rune, col int) int {
	switch {
	case r == '\t':
		return t.TabStopOffset(col)
	case IsFullWidth(r):
		return 2
	default:
		return 1
	}
}

// Advance returns the visible column after r when r starts at col.
func (t *TabExpander) Advance(col int, r rune) int {
	return col + t.CharWidth(r, col)
}

// ColumnToOffset converts a visible column to a rune offset.
// A column inside a tab or a full-width character resolves to the offset
// of that character. Returns -1 if the column is beyond the runes.
func (t *TabExpander) ColumnToOffset(runes []rune, visibleCol int) int {
	col := 0
	for i, r := range runes {
		if col >= visibleCol {
			return i
		}
		next := t.Advance(col, r)
		if visibleCol < next {
			return i
		}
		col = next
	}
	if col >= visibleCol {
		return len(runes)
	}
	return -1
}

// OffsetToColumn converts a rune offset to a visible column.
func (t *TabExpander) OffsetToColumn(runes []rune, offset int) int {
	col := 0
	for i, r := range runes {
		if i >= offset {
			return col
		}
		col = t.Advance(col, r)
	}
	return col
}
