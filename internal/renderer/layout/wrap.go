package layout

// wordSearchLimit bounds how far back a word wrap looks for a space.
const wordSearchLimit = 20

// LineBreaks describes how a line is split into wrapped rows.
type LineBreaks struct {
	// Offsets holds the rune offset where each continuation row starts.
	Offsets []int

	// StartColumns holds the visible column at the start of each row.
	// The first row starts at column 0.
	StartColumns []int

	// Length is the line length in runes.
	Length int
}

// RowCount returns the number of rows the line occupies.
func (b LineBreaks) RowCount() int {
	return len(b.Offsets) + 1
}

// RowRange returns the rune range [start, end) of row.
func (b LineBreaks) RowRange(row int) (start, end int) {
	if row > 0 && row <= len(b.Offsets) {
		start = b.Offsets[row-1]
	}
	end = b.Length
	if row < len(b.Offsets) {
		end = b.Offsets[row]
	}
	return start, end
}

// WrapEngine computes wrapped rows for lines.
type WrapEngine struct {
	tabs       *TabExpander
	wrapWidth  int  // 0 = no wrap
	wrapAtWord bool // Try to wrap at word boundaries
}

// NewWrapEngine creates a wrap engine. A width of 0 disables wrapping.
func NewWrapEngine(tabSize, width int, atWord bool) *WrapEngine {
	e := &WrapEngine{tabs: NewTabExpander(tabSize)}
	e.SetWrap(width, atWord)
	return e
}

// TabSize returns the tab size used for column arithmetic.
func (e *WrapEngine) TabSize() int {
	return e.tabs.TabSize()
}

// WrapWidth returns the current wrap width (0 = no wrap).
func (e *WrapEngine) WrapWidth() int {
	return e.wrapWidth
}

// SetWrap configures wrapping. A width of 0 disables it.
func (e *WrapEngine) SetWrap(width int, atWord bool) {
	if width < 0 {
		width = 0
	}
	e.wrapWidth = width
	e.wrapAtWord = atWord
}

// Breaks splits line into rows no wider than the wrap width. A row always
// holds at least one character, so a character wider than the wrap width
// gets a row of its own.
func (e *WrapEngine) Breaks(line string) LineBreaks {
	runes := []rune(line)
	b := LineBreaks{StartColumns: []int{0}, Length: len(runes)}
	if e.wrapWidth == 0 {
		return b
	}

	// cols[i] is the visible column before rune i.
	cols := make([]int, len(runes)+1)
	for i, r := range runes {
		cols[i+1] = e.tabs.Advance(cols[i], r)
	}

	rowStart := 0
	for i := 0; i < len(runes); {
		if cols[i+1]-cols[rowStart] <= e.wrapWidth || i == rowStart {
			i++
			continue
		}
		brk := e.findWrapPoint(runes, rowStart, i)
		b.Offsets = append(b.Offsets, brk)
		b.StartColumns = append(b.StartColumns, cols[brk])
		rowStart = brk
	}
	return b
}

// findWrapPoint finds where to break a row that overflows at rune i: after
// the last nearby space when wrapping at words, else before i. The result
// is always past rowStart.
func (e *WrapEngine) findWrapPoint(runes []rune, rowStart, i int) int {
	if !e.wrapAtWord {
		return i
	}

	searchEnd := max(i-wordSearchLimit, rowStart)
	for j := i - 1; j >= searchEnd; j-- {
		if runes[j] == ' ' || runes[j] == '\t' {
			return j + 1
		}
	}

	// No good wrap point found, wrap at column
	return i
}
