package viewline

import (
	"math"
	"slices"
	"strings"
)

// InlineDecorationType selects how a decoration attaches to the text.
type InlineDecorationType uint8

// Decoration types.
const (
	// DecorationRegular styles the characters it covers.
	DecorationRegular InlineDecorationType = iota
	// DecorationBefore is a zero-width part placed before its column.
	DecorationBefore
	// DecorationAfter is a zero-width part placed after its column.
	DecorationAfter
	// DecorationRegularAffectingLetterSpacing styles characters and
	// changes their width, which disables measurement shortcuts.
	DecorationRegularAffectingLetterSpacing
)

// typeOrder gives the z-order of decoration types at the same range.
var typeOrder = [...]int{
	DecorationRegular:                       2,
	DecorationBefore:                        0,
	DecorationAfter:                         1,
	DecorationRegularAffectingLetterSpacing: 3,
}

// LineDecoration is an inline decoration projected onto one line.
// Columns are 1-based and EndColumn is exclusive. Before and After
// decorations use StartColumn == EndColumn.
type LineDecoration struct {
	StartColumn int
	EndColumn   int
	ClassName   string
	Type        InlineDecorationType
}

// NewLineDecoration creates a line decoration.
func NewLineDecoration(startColumn, endColumn int, className string, typ InlineDecorationType) LineDecoration {
	return LineDecoration{StartColumn: startColumn, EndColumn: endColumn, ClassName: className, Type: typ}
}

func (d LineDecoration) metadata() PartMetadata {
	switch d.Type {
	case DecorationBefore:
		return PartPseudoBefore
	case DecorationAfter:
		return PartPseudoAfter
	}
	return 0
}

// CompareDecorations orders decorations by start column, end column,
// type and class name.
func CompareDecorations(a, b LineDecoration) int {
	if a.StartColumn != b.StartColumn {
		return a.StartColumn - b.StartColumn
	}
	if a.EndColumn != b.EndColumn {
		return a.EndColumn - b.EndColumn
	}
	if c := typeOrder[a.Type] - typeOrder[b.Type]; c != 0 {
		return c
	}
	return strings.Compare(a.ClassName, b.ClassName)
}

// SortDecorations returns a sorted copy of decorations.
func SortDecorations(decorations []LineDecoration) []LineDecoration {
	sorted := slices.Clone(decorations)
	slices.SortStableFunc(sorted, CompareDecorations)
	return sorted
}

// Range is a multi-line range in 1-based line and column coordinates.
type Range struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// IsEmpty reports whether the range covers no characters.
func (r Range) IsEmpty() bool {
	return r.StartLine == r.EndLine && r.StartColumn == r.EndColumn
}

// InlineDecoration is a decoration in model coordinates.
type InlineDecoration struct {
	Range     Range
	ClassName string
	Type      InlineDecorationType
}

// FilterDecorations projects the decorations touching line onto it.
// Ranges continuing from a previous line start at minColumn; ranges
// continuing on a following line end at maxColumn. Empty regular
// decorations are dropped.
func FilterDecorations(decorations []InlineDecoration, line, minColumn, maxColumn int) []LineDecoration {
	if len(decorations) == 0 {
		return nil
	}
	var result []LineDecoration
	for _, d := range decorations {
		r := d.Range
		if r.EndLine < line || r.StartLine > line {
			continue
		}
		if r.IsEmpty() && (d.Type == DecorationRegular || d.Type == DecorationRegularAffectingLetterSpacing) {
			continue
		}
		start := minColumn
		if r.StartLine == line {
			start = r.StartColumn
		}
		end := maxColumn
		if r.EndLine == line {
			end = r.EndColumn
		}
		result = append(result, NewLineDecoration(start, end, d.ClassName, d.Type))
	}
	return result
}

// decorationSegment is a non-overlapping run of merged decorations.
// endOffset is inclusive; a pseudo decoration has endOffset < startOffset.
type decorationSegment struct {
	startOffset int
	endOffset   int
	classes     []string
	metadata    PartMetadata
}

// decorationStack holds the open decorations ordered by stop offset.
type decorationStack struct {
	stopOffsets []int
	classes     []string
	metadata    []PartMetadata
}

func (s *decorationStack) count() int {
	return len(s.stopOffsets)
}

func (s *decorationStack) segment(start, end int) decorationSegment {
	var md PartMetadata
	for _, m := range s.metadata {
		md |= m
	}
	return decorationSegment{
		startOffset: start,
		endOffset:   end,
		classes:     slices.Clone(s.classes),
		metadata:    md,
	}
}

// consumeLowerThan emits segments for every open decoration stopping
// before maxStopOffset and returns the next start offset.
func (s *decorationStack) consumeLowerThan(maxStopOffset, nextStartOffset int, result []decorationSegment) (int, []decorationSegment) {
	for s.count() > 0 && s.stopOffsets[0] < maxStopOffset {
		i := 0
		for i+1 < s.count() && s.stopOffsets[i] == s.stopOffsets[i+1] {
			i++
		}
		result = append(result, s.segment(nextStartOffset, s.stopOffsets[i]))
		nextStartOffset = s.stopOffsets[i] + 1

		s.stopOffsets = s.stopOffsets[i+1:]
		s.classes = s.classes[i+1:]
		s.metadata = s.metadata[i+1:]
	}

	if s.count() > 0 && nextStartOffset < maxStopOffset {
		result = append(result, s.segment(nextStartOffset, maxStopOffset-1))
		nextStartOffset = maxStopOffset
	}
	return nextStartOffset, result
}

func (s *decorationStack) insert(stopOffset int, class string, metadata PartMetadata) {
	n := s.count()
	if n == 0 || s.stopOffsets[n-1] <= stopOffset {
		s.stopOffsets = append(s.stopOffsets, stopOffset)
		s.classes = append(s.classes, class)
		s.metadata = append(s.metadata, metadata)
		return
	}
	for i := 0; i < n; i++ {
		if s.stopOffsets[i] >= stopOffset {
			s.stopOffsets = slices.Insert(s.stopOffsets, i, stopOffset)
			s.classes = slices.Insert(s.classes, i, class)
			s.metadata = slices.Insert(s.metadata, i, metadata)
			return
		}
	}
}

// clampDecorations limits decoration columns to [1, length+1]. Regular
// decorations left empty are dropped; pseudo decorations keep a zero
// width.
func clampDecorations(decorations []LineDecoration, length int) []LineDecoration {
	result := make([]LineDecoration, 0, len(decorations))
	for _, d := range decorations {
		d.StartColumn = min(max(d.StartColumn, 1), length+1)
		d.EndColumn = min(max(d.EndColumn, 1), length+1)
		switch d.Type {
		case DecorationBefore, DecorationAfter:
			d.EndColumn = d.StartColumn
		default:
			if d.EndColumn <= d.StartColumn {
				continue
			}
		}
		result = append(result, d)
	}
	return result
}

// normalizeDecorations turns sorted, possibly overlapping decorations
// into non-overlapping segments.
func normalizeDecorations(decorations []LineDecoration) []decorationSegment {
	if len(decorations) == 0 {
		return nil
	}
	var result []decorationSegment
	stack := &decorationStack{}
	nextStartOffset := 0

	for _, d := range decorations {
		currentStartOffset := d.StartColumn - 1
		currentEndOffset := d.EndColumn - 2

		nextStartOffset, result = stack.consumeLowerThan(currentStartOffset, nextStartOffset, result)
		if stack.count() == 0 {
			nextStartOffset = currentStartOffset
		}
		stack.insert(currentEndOffset, d.ClassName, d.metadata())
	}

	_, result = stack.consumeLowerThan(math.MaxInt32, nextStartOffset, result)
	return result
}
