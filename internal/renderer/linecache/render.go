package linecache

import (
	"math"

	"github.com/dshills/viewline/internal/renderer/viewline"
)

// RenderedRow is a line ready to paint at a screen row.
type RenderedRow struct {
	// Line is the buffer line number.
	Line uint32

	// ScreenRow is the screen row to paint at.
	ScreenRow int

	// Output is the rendered line.
	Output *viewline.RenderLineOutput
}

// Viewport renders the visible rows of a Source through a Cache.
type Viewport struct {
	cache *Cache

	height     int
	topLine    uint32
	leftColumn int
}

// NewViewport creates a viewport of the given height.
func NewViewport(cache *Cache, height int) *Viewport {
	return &Viewport{cache: cache, height: height}
}

// SetHeight sets the number of visible rows.
func (v *Viewport) SetHeight(height int) {
	v.height = height
}

// SetPosition scrolls the viewport.
func (v *Viewport) SetPosition(topLine uint32, leftColumn int) {
	v.topLine = topLine
	v.leftColumn = max(leftColumn, 0)
}

// LeftColumn returns the horizontal scroll offset in columns.
func (v *Viewport) LeftColumn() int {
	return v.leftColumn
}

// RenderVisible renders every visible line of src.
func (v *Viewport) RenderVisible(src Source) []RenderedRow {
	start, end := v.VisibleLineRange()
	if count := src.LineCount(); count == 0 {
		return nil
	} else if end >= uint32(count) {
		end = uint32(count) - 1
	}
	if start > end {
		return nil
	}

	rows := make([]RenderedRow, 0, end-start+1)
	for line := start; line <= end; line++ {
		in := src.LineInput(line)
		if in == nil {
			break
		}
		rows = append(rows, RenderedRow{
			Line:      line,
			ScreenRow: int(line - v.topLine),
			Output:    v.cache.GetLine(line, in).Output,
		})
		if line == math.MaxUint32 {
			break
		}
	}
	return rows
}

// VisibleLineRange returns the first and last visible buffer lines.
func (v *Viewport) VisibleLineRange() (startLine, endLine uint32) {
	startLine = v.topLine
	if v.height <= 0 {
		endLine = v.topLine
		return
	}
	offset := uint32(v.height - 1)
	if v.topLine > math.MaxUint32-offset {
		endLine = math.MaxUint32
	} else {
		endLine = v.topLine + offset
	}
	return
}

// LineToScreenRow converts a buffer line to a screen row, or -1 when the
// line is not visible.
func (v *Viewport) LineToScreenRow(line uint32) int {
	if line < v.topLine {
		return -1
	}
	row := int(line - v.topLine)
	if row >= v.height {
		return -1
	}
	return row
}

// ScreenRowToLine converts a screen row to a buffer line.
func (v *Viewport) ScreenRowToLine(row int) uint32 {
	if row < 0 {
		return v.topLine
	}
	return v.topLine + uint32(row)
}

// HorizontalOffset returns the offset of a 1-based column on a visible
// line, relative to the left edge of the viewport. ok is false when the
// line is not cached.
func (v *Viewport) HorizontalOffset(line uint32, column int) (offset int, ok bool) {
	v.cache.mu.RLock()
	entry, found := v.cache.entries[line]
	v.cache.mu.RUnlock()
	if !found {
		return 0, false
	}
	return entry.Output.CharacterMapping.HorizontalOffset(column) - v.leftColumn, true
}
