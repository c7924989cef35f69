package viewline

// transformAndRemoveOverflowing converts token runs into parts covering
// exactly length characters. The faux indent becomes one class-less part
// and tokens ending inside it are dropped.
func transformAndRemoveOverflowing(runes []rune, lineContainsRTL bool, tokens LineTokens, fauxIndentLength, length int) []LinePart {
	var result []LinePart
	if fauxIndentLength > length {
		fauxIndentLength = length
	}
	if fauxIndentLength > 0 {
		result = append(result, NewLinePart(fauxIndentLength, "", 0, false))
	}

	startOffset := fauxIndentLength
	count := 0
	if tokens != nil {
		count = tokens.Count()
	}
	for i := 0; i < count && startOffset < length; i++ {
		endIndex := tokens.EndOffset(i)
		if endIndex <= startOffset {
			continue
		}
		if endIndex > length {
			endIndex = length
		}
		rtl := lineContainsRTL && containsRTL(runes[startOffset:endIndex])
		result = append(result, NewLinePart(endIndex, tokens.ClassName(i), 0, rtl))
		startOffset = endIndex
	}

	// Runs that stop short of the line leave the rest unstyled.
	if startOffset < length {
		rtl := lineContainsRTL && containsRTL(runes[startOffset:length])
		result = append(result, NewLinePart(length, "", 0, rtl))
	}
	return result
}
