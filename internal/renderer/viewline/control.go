package viewline

// extractControlCharacters isolates every control character in its own
// one-character part tagged ClassControl.
func extractControlCharacters(runes []rune, parts []LinePart) []LinePart {
	result := make([]LinePart, 0, len(parts))
	lastEnd := 0
	charOffset := 0
	for _, part := range parts {
		for ; charOffset < part.EndIndex; charOffset++ {
			if !isControlCharacter(runes[charOffset]) {
				continue
			}
			if charOffset > lastEnd {
				result = append(result, part.withEnd(charOffset))
			}
			result = append(result, NewLinePart(charOffset+1, ClassControl, part.Metadata, false))
			lastEnd = charOffset + 1
		}
		if charOffset > lastEnd {
			result = append(result, part)
			lastEnd = part.EndIndex
		}
	}
	return result
}
