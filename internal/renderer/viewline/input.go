package viewline

import (
	"math"
	"strings"

	"github.com/dshills/viewline/internal/renderer/layout"
)

// RenderWhitespace selects which whitespace is visualized.
type RenderWhitespace uint8

// Whitespace rendering modes.
const (
	RenderWhitespaceNone RenderWhitespace = iota
	RenderWhitespaceBoundary
	RenderWhitespaceSelection
	RenderWhitespaceTrailing
	RenderWhitespaceAll
)

// String returns the configuration name of the mode.
func (m RenderWhitespace) String() string {
	switch m {
	case RenderWhitespaceNone:
		return "none"
	case RenderWhitespaceBoundary:
		return "boundary"
	case RenderWhitespaceSelection:
		return "selection"
	case RenderWhitespaceTrailing:
		return "trailing"
	case RenderWhitespaceAll:
		return "all"
	default:
		return "unknown"
	}
}

// ParseRenderWhitespace parses a configuration name into a mode.
func ParseRenderWhitespace(s string) (RenderWhitespace, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return RenderWhitespaceNone, true
	case "boundary":
		return RenderWhitespaceBoundary, true
	case "selection":
		return RenderWhitespaceSelection, true
	case "trailing":
		return RenderWhitespaceTrailing, true
	case "all":
		return RenderWhitespaceAll, true
	}
	return RenderWhitespaceNone, false
}

// TextDirection is the host's paragraph direction hint.
type TextDirection uint8

// Text directions.
const (
	TextDirectionLTR TextDirection = iota
	TextDirectionRTL
)

// NoStopRendering disables overflow truncation.
const NoStopRendering = -1

// OffsetRange is a half-open [Start, End) range of rune offsets.
type OffsetRange struct {
	Start int
	End   int
}

// LineTokens is implemented by token-run providers. Runs are contiguous;
// EndOffset is exclusive and increasing.
type LineTokens interface {
	Count() int
	EndOffset(i int) int
	ClassName(i int) string
}

// TokenRun is one styled run of a line.
type TokenRun struct {
	EndOffset int
	ClassName string
}

// TokenRuns is a slice-backed LineTokens.
type TokenRuns []TokenRun

// Count returns the number of runs.
func (t TokenRuns) Count() int { return len(t) }

// EndOffset returns the exclusive end offset of run i.
func (t TokenRuns) EndOffset(i int) int { return t[i].EndOffset }

// ClassName returns the class of run i.
func (t TokenRuns) ClassName(i int) string { return t[i].ClassName }

// SingleToken returns runs covering length characters with one class.
func SingleToken(length int, class string) TokenRuns {
	return TokenRuns{{EndOffset: length, ClassName: class}}
}

// RenderLineInput holds everything needed to render one line. It is
// treated as read-only by RenderViewLine.
type RenderLineInput struct {
	UseMonospaceOptimizations      bool
	CanUseHalfwidthRightwardsArrow bool
	LineContent                    string
	ContinuesWithWrappedLine       bool
	IsBasicASCII                   bool
	ContainsRTL                    bool
	FauxIndentLength               int
	LineTokens                     LineTokens
	LineDecorations                []LineDecoration
	TabSize                        int
	StartVisibleColumn             int
	SpaceWidth                     float64
	MiddotWidth                    float64
	WSMiddotWidth                  float64
	StopRenderingLineAfter         int
	RenderWhitespace               RenderWhitespace
	RenderControlCharacters        bool
	FontLigatures                  bool
	SelectionsOnLine               []OffsetRange
	TextDirection                  TextDirection
	VerticalScrollbarSize          int
	RenderNewLineWhenEmpty         bool
}

// RenderSpace returns the glyph used for a visualized space and its
// measured width: whichever of U+2E31 and U+00B7 is closer in width to a
// real space. Ties pick U+00B7.
func (in *RenderLineInput) RenderSpace() (rune, float64) {
	wsmiddotDiff := math.Abs(in.WSMiddotWidth - in.SpaceWidth)
	middotDiff := math.Abs(in.MiddotWidth - in.SpaceWidth)
	if wsmiddotDiff < middotDiff {
		return glyphWSMiddot, in.WSMiddotWidth
	}
	return glyphMiddot, in.MiddotWidth
}

func (in *RenderLineInput) tabSize() int {
	if in.TabSize < 1 {
		return layout.DefaultTabSize
	}
	return in.TabSize
}
