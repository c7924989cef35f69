package viewline

import "github.com/dshills/viewline/internal/renderer/layout"

// shouldRenderWhitespace reports whether the whitespace pass applies to
// the input at all.
func shouldRenderWhitespace(in *RenderLineInput) bool {
	switch in.RenderWhitespace {
	case RenderWhitespaceAll, RenderWhitespaceBoundary:
		return true
	case RenderWhitespaceSelection:
		return in.SelectionsOnLine != nil
	case RenderWhitespaceTrailing:
		return !in.ContinuesWithWrappedLine
	}
	return false
}

// whitespaceRun appends ClassWhitespace parts ending at end, one per
// character when each whitespace char needs its own part.
func whitespaceRun(result []LinePart, end, fauxIndentLength int, perChar bool) []LinePart {
	if !perChar {
		return append(result, NewLinePart(end, ClassWhitespace, PartWhitespace, false))
	}
	lastEnd := fauxIndentLength
	if len(result) > 0 {
		lastEnd = result[len(result)-1].EndIndex
	}
	for i := lastEnd + 1; i <= end; i++ {
		result = append(result, NewLinePart(i, ClassWhitespace, PartWhitespace, false))
	}
	return result
}

// applyRenderWhitespace replaces visualized whitespace with
// ClassWhitespace parts according to the render-whitespace mode.
func applyRenderWhitespace(in *RenderLineInput, runes []rune, length int, parts []LinePart) []LinePart {
	if len(parts) == 0 {
		return parts
	}

	var (
		fauxIndentLength = in.FauxIndentLength
		tabSize          = in.tabSize()
		onlyBoundary     = in.RenderWhitespace == RenderWhitespaceBoundary
		onlyTrailing     = in.RenderWhitespace == RenderWhitespaceTrailing
		keepWrapSeam     = in.ContinuesWithWrappedLine && (onlyBoundary || in.RenderWhitespace == RenderWhitespaceAll)
		monospace        = in.UseMonospaceOptimizations
		selections       []OffsetRange
	)
	if in.RenderWhitespace == RenderWhitespaceSelection {
		selections = in.SelectionsOnLine
	}
	_, renderSpaceWidth := in.RenderSpace()
	perChar := renderSpaceWidth != in.SpaceWidth

	result := make([]LinePart, 0, len(parts))
	partIndex := 0
	part := parts[partIndex]

	// Leading and trailing are judged on the whole line, not the
	// rendered prefix.
	lineIsBlank := false
	firstNonWS := firstNonWhitespaceIndex(runes)
	lastNonWS := -1
	if firstNonWS == -1 {
		lineIsBlank = true
		firstNonWS = length
		lastNonWS = length
	} else {
		lastNonWS = lastNonWhitespaceIndex(runes)
	}

	wasInWhitespace := false
	selectionIndex := 0
	tmpIndent := in.StartVisibleColumn % tabSize

	for charIndex := fauxIndentLength; charIndex < length; charIndex++ {
		ch := runes[charIndex]

		for selectionIndex < len(selections) && charIndex >= selections[selectionIndex].End {
			selectionIndex++
		}

		var inWhitespace bool
		switch {
		case charIndex < firstNonWS || charIndex > lastNonWS:
			// leading or trailing whitespace
			inWhitespace = true
		case ch == '\t':
			inWhitespace = true
		case ch == ' ':
			if onlyBoundary && !wasInWhitespace {
				next := rune(0)
				if charIndex+1 < length {
					next = runes[charIndex+1]
				}
				inWhitespace = isWhitespace(next)
			} else {
				inWhitespace = true
			}
		}

		if inWhitespace && selections != nil {
			inWhitespace = selectionIndex < len(selections) &&
				selections[selectionIndex].Start <= charIndex &&
				selections[selectionIndex].End > charIndex
		}

		if inWhitespace && onlyTrailing {
			inWhitespace = lineIsBlank || charIndex > lastNonWS
		}

		// Splitting an RTL part around interior whitespace would change
		// the bidi layout; only the line's edges are visualized.
		if inWhitespace && part.ContainsRTL && charIndex >= firstNonWS && charIndex <= lastNonWS {
			inWhitespace = false
		}

		if wasInWhitespace {
			if !inWhitespace || (!monospace && tmpIndent >= tabSize) {
				// leaving whitespace or crossing a tab stop
				result = whitespaceRun(result, charIndex, fauxIndentLength, perChar)
				tmpIndent %= tabSize
			}
		} else if charIndex == part.EndIndex || (inWhitespace && charIndex > fauxIndentLength) {
			result = append(result, part.withEnd(charIndex))
			tmpIndent %= tabSize
		}

		switch {
		case ch == '\t':
			tmpIndent = tabSize
		case layout.IsFullWidth(ch):
			tmpIndent += 2
		default:
			tmpIndent++
		}

		wasInWhitespace = inWhitespace

		for charIndex == part.EndIndex && partIndex+1 < len(parts) {
			partIndex++
			part = parts[partIndex]
		}
	}

	generateWhitespace := false
	if wasInWhitespace {
		generateWhitespace = true
		if keepWrapSeam {
			last, prev := rune(0), rune(0)
			if length > 0 {
				last = runes[length-1]
			}
			if length > 1 {
				prev = runes[length-2]
			}
			if last == ' ' && !isWhitespace(prev) {
				generateWhitespace = false
			}
		}
	}

	if generateWhitespace {
		result = whitespaceRun(result, length, fauxIndentLength, perChar)
	} else {
		result = append(result, part.withEnd(length))
	}
	return result
}
