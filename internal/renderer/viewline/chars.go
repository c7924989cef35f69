package viewline

import (
	"golang.org/x/text/unicode/bidi"
)

// Characters with dedicated rendering.
const (
	charNUL                = 0x0000
	charDEL                = 0x007F
	charNEL                = 0x0085
	charLineSeparator      = 0x2028
	charParagraphSeparator = 0x2029
	charBOM                = 0xFEFF

	glyphNBSP                    = 0x00A0
	glyphMiddot                  = 0x00B7
	glyphWSMiddot                = 0x2E31
	glyphZWNJ                    = 0x200C
	glyphRightwardsArrow         = 0x2192
	glyphHalfwidthRightwardArrow = 0xFFEB
	glyphReplacement             = 0xFFFD
	glyphSymbolForNull           = 0x2400
	glyphSymbolForDelete         = 0x2421
)

// isControlCharacter reports whether r is rendered as a control character:
// C0 controls except TAB, DEL and the bidi formatting/mark characters.
func isControlCharacter(r rune) bool {
	if r < 32 {
		return r != '\t'
	}
	if r == charDEL {
		return true
	}
	switch {
	case r >= 0x202A && r <= 0x202E: // LRE, RLE, PDF, LRO, RLO
		return true
	case r >= 0x2066 && r <= 0x2069: // LRI, RLI, FSI, PDI
		return true
	case r == 0x200E || r == 0x200F: // LRM, RLM
		return true
	case r == 0x061C: // ALM
		return true
	}
	return false
}

// isRTL reports whether r has a strong right-to-left bidi class.
func isRTL(r rune) bool {
	if r < 0x0590 {
		return false
	}
	p, _ := bidi.LookupRune(r)
	switch p.Class() {
	case bidi.R, bidi.AL:
		return true
	}
	return false
}

func containsRTL(runes []rune) bool {
	for _, r := range runes {
		if isRTL(r) {
			return true
		}
	}
	return false
}

func isBasicASCII(runes []rune) bool {
	for _, r := range runes {
		if r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		if r < 0x20 || r > 0x7E {
			return false
		}
	}
	return true
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t'
}

// firstNonWhitespaceIndex returns -1 when the runes are empty or blank.
func firstNonWhitespaceIndex(runes []rune) int {
	for i, r := range runes {
		if !isWhitespace(r) {
			return i
		}
	}
	return -1
}

func lastNonWhitespaceIndex(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if !isWhitespace(runes[i]) {
			return i
		}
	}
	return -1
}

// DetectLineHints computes the basic-ASCII and contains-RTL hints for a
// line. Hosts usually cache these per line.
func DetectLineHints(text string) (basicASCII, rtl bool) {
	runes := []rune(text)
	basicASCII = isBasicASCII(runes)
	if !basicASCII {
		rtl = containsRTL(runes)
	}
	return basicASCII, rtl
}
