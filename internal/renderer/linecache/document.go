package linecache

import (
	"sync"

	"github.com/dshills/viewline/internal/renderer/layout"
	"github.com/dshills/viewline/internal/renderer/viewline"
)

// Document is an in-memory Source: buffer lines with their token runs,
// decorations and selections, rendered with shared layout options.
type Document struct {
	mu sync.RWMutex

	lines       []string
	tokens      []viewline.TokenRuns
	decorations []viewline.InlineDecoration
	selections  []viewline.Range

	// template carries the options shared by every line.
	template viewline.RenderLineInput
}

// NewDocument creates a document. tokens may be shorter than lines;
// lines without runs render unstyled.
func NewDocument(lines []string, tokens []viewline.TokenRuns, template viewline.RenderLineInput) *Document {
	return &Document{
		lines:    lines,
		tokens:   tokens,
		template: template,
	}
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.lines)
}

// Line returns the text of a line, or "" past the end.
func (d *Document) Line(line uint32) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if int(line) >= len(d.lines) {
		return ""
	}
	return d.lines[line]
}

// Lines returns the buffer lines. The slice must not be modified.
func (d *Document) Lines() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lines
}

// SetLines replaces the text and token runs, keeping decorations,
// selections and the template.
func (d *Document) SetLines(lines []string, tokens []viewline.TokenRuns) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines = lines
	d.tokens = tokens
}

// SetDecorations replaces the document decorations.
func (d *Document) SetDecorations(decorations []viewline.InlineDecoration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.decorations = decorations
}

// SetSelections replaces the selections. Ranges use 1-based lines and
// columns.
func (d *Document) SetSelections(selections []viewline.Range) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selections = selections
}

// Template returns the shared layout options.
func (d *Document) Template() viewline.RenderLineInput {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.template
}

// SetTemplate replaces the shared layout options.
func (d *Document) SetTemplate(template viewline.RenderLineInput) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.template = template
}

// LineInput builds the render input for a line, or nil past the end.
func (d *Document) LineInput(line uint32) *viewline.RenderLineInput {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if int(line) >= len(d.lines) {
		return nil
	}
	text := d.lines[line]
	length := len([]rune(text))

	in := d.template
	in.LineContent = text
	in.IsBasicASCII, in.ContainsRTL = viewline.DetectLineHints(text)
	if int(line) < len(d.tokens) {
		in.LineTokens = d.tokens[line]
	} else {
		in.LineTokens = viewline.TokenRuns(nil)
	}

	lineNumber := int(line) + 1
	in.LineDecorations = viewline.FilterDecorations(d.decorations, lineNumber, 1, length+1)
	in.SelectionsOnLine = selectionsOnLine(d.selections, lineNumber, length)
	return &in
}

// WrappedRowInputs splits a line into the render inputs of its wrapped
// rows, or nil past the end. A nil or non-wrapping engine yields one row.
func (d *Document) WrappedRowInputs(line uint32, engine *layout.WrapEngine) []*viewline.RenderLineInput {
	in := d.LineInput(line)
	if in == nil {
		return nil
	}
	if engine == nil || engine.WrapWidth() == 0 {
		return []*viewline.RenderLineInput{in}
	}

	breaks := engine.Breaks(in.LineContent)
	rows := make([]*viewline.RenderLineInput, breaks.RowCount())
	for row := range rows {
		start, end := breaks.RowRange(row)
		rows[row] = viewline.WrappedRow(in, start, end, breaks.StartColumns[row], row < len(rows)-1)
	}
	return rows
}

// selectionsOnLine clips selections to a line as rune offset ranges.
// Empty selections are skipped.
func selectionsOnLine(selections []viewline.Range, lineNumber, length int) []viewline.OffsetRange {
	var result []viewline.OffsetRange
	for _, s := range selections {
		if s.IsEmpty() || s.StartLine > lineNumber || s.EndLine < lineNumber {
			continue
		}
		start := 0
		if s.StartLine == lineNumber {
			start = min(s.StartColumn-1, length)
		}
		end := length
		if s.EndLine == lineNumber {
			end = min(s.EndColumn-1, length)
		}
		if start < end {
			result = append(result, viewline.OffsetRange{Start: start, End: end})
		}
	}
	return result
}
