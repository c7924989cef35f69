package viewline

// LongToken is the maximum length of a rendered part. Hosts that measure
// per-character rectangles slow down sharply on longer spans.
const LongToken = 50

// splitLargeTokens splits parts longer than LongToken. With onlyAtSpaces
// the break goes after the last space inside the window, or at the window
// edge when the window has no space; otherwise breaks fall on fixed
// LongToken strides.
func splitLargeTokens(runes []rune, parts []LinePart, onlyAtSpaces bool) []LinePart {
	result := make([]LinePart, 0, len(parts))
	lastEnd := 0
	for _, part := range parts {
		partEnd := part.EndIndex
		if partEnd-lastEnd <= LongToken {
			result = append(result, part)
			lastEnd = partEnd
			continue
		}

		if onlyAtSpaces {
			lastSpace := -1
			pieceStart := lastEnd
			for j := lastEnd; j < partEnd; j++ {
				if j-pieceStart >= LongToken {
					cut := j
					if lastSpace != -1 {
						cut = lastSpace + 1
					}
					result = append(result, part.withEnd(cut))
					pieceStart = cut
					lastSpace = -1
				}
				if runes[j] == ' ' {
					lastSpace = j
				}
			}
			if pieceStart != partEnd {
				result = append(result, part.withEnd(partEnd))
			}
		} else {
			pieces := (partEnd - lastEnd + LongToken - 1) / LongToken
			for j := 1; j < pieces; j++ {
				result = append(result, part.withEnd(lastEnd+j*LongToken))
			}
			result = append(result, part.withEnd(partEnd))
		}
		lastEnd = partEnd
	}
	return result
}
