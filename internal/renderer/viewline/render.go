package viewline

import (
	"fmt"
	"strings"

	"github.com/dshills/viewline/internal/renderer/layout"
)

// resolvedInput is the input after all normalization passes.
type resolvedInput struct {
	fontIsMonospace         bool
	canUseHalfwidthArrow    bool
	runes                   []rune
	length                  int
	isOverflowing           bool
	overflowingCharCount    int
	parts                   []LinePart
	containsForeignElements ForeignElementType
	fauxIndentLength        int
	tabSize                 int
	startVisibleColumn      int
	containsRTL             bool
	spaceWidth              float64
	renderSpaceGlyph        rune
	renderWhitespace        RenderWhitespace
	renderControlCharacters bool
	textDirection           TextDirection
}

// RenderViewLine renders one line into styled segments and builds its
// character mapping. It never fails: out-of-range decorations and
// selections are clamped.
func RenderViewLine(in *RenderLineInput) *RenderLineOutput {
	if in.LineContent == "" {
		return renderEmptyLine(in)
	}
	r := resolveRenderLineInput(in)
	out := renderLine(r)
	checkOutput(r, out)
	return out
}

func renderEmptyLine(in *RenderLineInput) *RenderLineOutput {
	out := &RenderLineOutput{CharacterMapping: NewCharacterMapping(1)}
	if in.TextDirection == TextDirectionRTL {
		out.Dir = "rtl"
	}

	// Only pseudo decorations can show on an empty line.
	beforeCount := 0
	for _, d := range SortDecorations(in.LineDecorations) {
		switch d.Type {
		case DecorationBefore:
			out.ContainsForeignElements |= ForeignElementBefore
			beforeCount++
		case DecorationAfter:
			out.ContainsForeignElements |= ForeignElementAfter
		default:
			continue
		}
		out.Segments = append(out.Segments, Segment{Classes: []string{d.ClassName}})
	}
	if out.ContainsForeignElements != ForeignElementNone {
		out.CharacterMapping.SetColumnInfo(1, beforeCount, 0, 0)
		return out
	}

	text := ""
	if in.RenderNewLineWhenEmpty {
		text = "\n"
	}
	out.Segments = []Segment{{Text: text}}
	out.CharacterMapping.SetColumnInfo(1, 0, 0, 0)
	return out
}

// resolveRenderLineInput runs the normalization passes in order:
// overflow and faux indent, control characters, whitespace, decorations
// and long-token splitting.
func resolveRenderLineInput(in *RenderLineInput) *resolvedInput {
	runes := []rune(in.LineContent)

	r := &resolvedInput{
		fontIsMonospace:         in.UseMonospaceOptimizations,
		canUseHalfwidthArrow:    in.CanUseHalfwidthRightwardsArrow,
		runes:                   runes,
		length:                  len(runes),
		fauxIndentLength:        in.FauxIndentLength,
		tabSize:                 in.tabSize(),
		startVisibleColumn:      in.StartVisibleColumn,
		containsRTL:             in.ContainsRTL,
		spaceWidth:              in.SpaceWidth,
		renderWhitespace:        in.RenderWhitespace,
		renderControlCharacters: in.RenderControlCharacters,
		textDirection:           in.TextDirection,
	}
	r.renderSpaceGlyph, _ = in.RenderSpace()

	if in.StopRenderingLineAfter != NoStopRendering && in.StopRenderingLineAfter >= 0 &&
		in.StopRenderingLineAfter < len(runes) {
		r.isOverflowing = true
		r.overflowingCharCount = len(runes) - in.StopRenderingLineAfter
		r.length = in.StopRenderingLineAfter
	}
	if r.fauxIndentLength > r.length {
		r.fauxIndentLength = r.length
	}

	parts := transformAndRemoveOverflowing(runes, in.ContainsRTL, in.LineTokens, r.fauxIndentLength, r.length)

	if in.RenderControlCharacters && !in.IsBasicASCII {
		parts = extractControlCharacters(runes, parts)
	}

	if shouldRenderWhitespace(in) {
		ws := *in
		ws.FauxIndentLength = r.fauxIndentLength
		parts = applyRenderWhitespace(&ws, runes, r.length, parts)
	}

	if decorations := clampDecorations(in.LineDecorations, len(runes)); len(decorations) > 0 {
		r.containsForeignElements = foreignElements(decorations)
		parts = applyInlineDecorations(parts, decorations)
	}

	// Splitting RTL text breaks its bidi reordering.
	if !in.ContainsRTL {
		parts = splitLargeTokens(runes, parts, !in.IsBasicASCII || in.FontLigatures)
	}

	r.parts = parts
	return r
}

// emitState holds the running counters of the emission pass.
type emitState struct {
	charIndex            int
	visibleColumn        int
	charOffsetInPart     int
	charHorizontalOffset int
	partDisplacement     int
}

func renderLine(r *resolvedInput) *RenderLineOutput {
	mapping := NewCharacterMapping(r.length + 1)
	out := &RenderLineOutput{
		CharacterMapping:        mapping,
		Segments:                make([]Segment, 0, len(r.parts)+1),
		ContainsRTL:             r.containsRTL,
		ContainsForeignElements: r.containsForeignElements,
		IsOverflowing:           r.isOverflowing,
		OverflowingCharCount:    r.overflowingCharCount,
	}
	switch {
	case r.textDirection == TextDirectionRTL:
		out.Dir = "rtl"
	case r.containsRTL:
		out.Dir = "ltr"
	}

	tabs := layout.NewTabExpander(r.tabSize)
	st := emitState{visibleColumn: r.startVisibleColumn}
	lastMappingDefined := false
	var sb strings.Builder

	for partIndex, part := range r.parts {
		rendersWhitespace := r.renderWhitespace != RenderWhitespaceNone && part.IsWhitespace()
		rendersWhitespaceWithWidth := rendersWhitespace && !r.fontIsMonospace &&
			(part.isOnlyWhitespace() || r.containsForeignElements == ForeignElementNone)
		emptyWithPseudoAfter := st.charIndex == part.EndIndex && part.IsPseudoAfter()
		st.charOffsetInPart = 0
		sb.Reset()

		seg := Segment{Classes: part.Classes, Isolate: part.ContainsRTL}
		if rendersWhitespaceWithWidth {
			seg.Classes = []string{ClassWhitespaceWidth}
			seg.HasWidth = true
			seg.Width = r.spaceWidth * float64(r.whitespaceWidth(tabs, st, part.EndIndex))
		}

		for ; st.charIndex < part.EndIndex; st.charIndex++ {
			mapping.SetColumnInfo(st.charIndex+1, partIndex-st.partDisplacement, st.charOffsetInPart, st.charHorizontalOffset)
			st.partDisplacement = 0

			var produced, width int
			if rendersWhitespace {
				produced, width = r.emitWhitespaceChar(&sb, tabs, st.visibleColumn, r.runes[st.charIndex])
			} else {
				produced, width = r.emitChar(&sb, tabs, st.visibleColumn, r.runes[st.charIndex])
			}

			st.charOffsetInPart += produced
			st.charHorizontalOffset += width
			if st.charIndex >= r.fauxIndentLength {
				st.visibleColumn += width
			}
		}

		if emptyWithPseudoAfter {
			st.partDisplacement++
		} else {
			st.partDisplacement = 0
		}

		if st.charIndex >= r.length && !lastMappingDefined && part.IsPseudoAfter() {
			lastMappingDefined = true
			mapping.SetColumnInfo(st.charIndex+1, partIndex, st.charOffsetInPart, st.charHorizontalOffset)
		}

		seg.Text = sb.String()
		out.Segments = append(out.Segments, seg)
	}

	if !lastMappingDefined {
		// Hit-testing the end of the line resolves to the end of the last
		// part rather than the start of a following one.
		mapping.SetColumnInfo(r.length+1, max(len(r.parts)-1, 0), st.charOffsetInPart, st.charHorizontalOffset)
	}

	if r.isOverflowing {
		out.Segments = append(out.Segments, Segment{
			Classes: []string{ClassOverflow},
			Text:    "Show more (" + overflowingCharCountLabel(r.overflowingCharCount) + ")",
		})
	}
	return out
}

// whitespaceWidth returns the width in columns of the whitespace from the
// current character up to end.
func (r *resolvedInput) whitespaceWidth(tabs *layout.TabExpander, st emitState, end int) int {
	width := 0
	col := st.visibleColumn
	for i := st.charIndex; i < end; i++ {
		w := 1
		if r.runes[i] == '\t' {
			w = tabs.TabStopOffset(col)
		}
		width += w
		if i >= r.fauxIndentLength {
			col += w
		}
	}
	return width
}

// emitWhitespaceChar writes a visualized tab or space and returns the
// number of produced characters and the width in columns.
func (r *resolvedInput) emitWhitespaceChar(sb *strings.Builder, tabs *layout.TabExpander, col int, ch rune) (int, int) {
	if ch == '\t' {
		width := tabs.TabStopOffset(col)
		if !r.canUseHalfwidthArrow || width > 1 {
			sb.WriteRune(glyphRightwardsArrow)
		} else {
			sb.WriteRune(glyphHalfwidthRightwardArrow)
		}
		for i := 2; i <= width; i++ {
			sb.WriteRune(glyphNBSP)
		}
		return width, width
	}
	sb.WriteRune(r.renderSpaceGlyph)
	sb.WriteRune(glyphZWNJ)
	return 2, 1
}

// emitChar writes one character of a regular part and returns the
// number of produced characters and the width in columns.
func (r *resolvedInput) emitChar(sb *strings.Builder, tabs *layout.TabExpander, col int, ch rune) (int, int) {
	switch ch {
	case '\t':
		width := tabs.TabStopOffset(col)
		for i := 0; i < width; i++ {
			sb.WriteRune(glyphNBSP)
		}
		return width, width
	case ' ':
		sb.WriteRune(glyphNBSP)
	case '<':
		sb.WriteString("&lt;")
	case '>':
		sb.WriteString("&gt;")
	case '&':
		sb.WriteString("&amp;")
	case charNUL:
		if r.renderControlCharacters {
			sb.WriteRune(glyphSymbolForNull)
		} else {
			sb.WriteString("&#00;")
		}
	case charBOM, charLineSeparator, charParagraphSeparator, charNEL:
		sb.WriteRune(glyphReplacement)
	default:
		width := 1
		if layout.IsFullWidth(ch) {
			width++
		}
		switch {
		case r.renderControlCharacters && ch < 32:
			sb.WriteRune(glyphSymbolForNull + ch)
		case r.renderControlCharacters && ch == charDEL:
			sb.WriteRune(glyphSymbolForDelete)
		case r.renderControlCharacters && isControlCharacter(ch):
			fmt.Fprintf(sb, "[U+%04X]", ch)
			return 8, width + 8
		default:
			sb.WriteRune(ch)
		}
		return 1, width
	}
	return 1, 1
}

// overflowingCharCountLabel formats the hidden character count using
// chars below 1024, KB below 1 MiB and MB above.
func overflowingCharCountLabel(n int) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d chars", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/1024/1024)
	}
}
