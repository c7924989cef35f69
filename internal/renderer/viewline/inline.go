package viewline

// foreignElements computes which kinds of foreign elements the
// decorations place on the line.
func foreignElements(decorations []LineDecoration) ForeignElementType {
	var result ForeignElementType
	for _, d := range decorations {
		switch d.Type {
		case DecorationRegularAffectingLetterSpacing, DecorationBefore:
			result |= ForeignElementBefore
		case DecorationAfter:
			result |= ForeignElementAfter
		}
	}
	return result
}

// applyInlineDecorations overlays decorations onto parts. Parts are split
// at decoration boundaries and covered sub-parts get the decoration
// classes appended. Decorations anchored at the end of the line become
// trailing zero-width parts.
func applyInlineDecorations(parts []LinePart, decorations []LineDecoration) []LinePart {
	if len(parts) == 0 {
		return parts
	}
	segments := normalizeDecorations(SortDecorations(decorations))

	result := make([]LinePart, 0, len(parts)+2*len(segments))
	segIndex := 0
	lastResultEnd := 0
	for _, part := range parts {
		partEnd := part.EndIndex

		for segIndex < len(segments) && segments[segIndex].startOffset < partEnd {
			seg := segments[segIndex]

			if seg.startOffset > lastResultEnd {
				lastResultEnd = seg.startOffset
				result = append(result, part.withEnd(lastResultEnd))
			}

			if seg.endOffset+1 <= partEnd {
				// decoration ends inside this part
				lastResultEnd = seg.endOffset + 1
				result = append(result, part.withClasses(lastResultEnd, seg.classes, seg.metadata))
				segIndex++
			} else {
				// decoration continues into the next part
				lastResultEnd = partEnd
				result = append(result, part.withClasses(lastResultEnd, seg.classes, seg.metadata))
				break
			}
		}

		if partEnd > lastResultEnd {
			lastResultEnd = partEnd
			result = append(result, part)
		}
	}

	lastPartEnd := parts[len(parts)-1].EndIndex
	for segIndex < len(segments) && segments[segIndex].startOffset == lastPartEnd {
		seg := segments[segIndex]
		result = append(result, LinePart{
			EndIndex: lastResultEnd,
			Classes:  seg.classes,
			Metadata: seg.metadata,
		})
		segIndex++
	}
	return result
}
