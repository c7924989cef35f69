package highlight

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/dshills/viewline/internal/renderer/viewline"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "catppuccin-mocha"

// Classes for host UI drawn around rendered lines.
const (
	ClassLineNumber       = "line-numbers"
	ClassActiveLineNumber = "active-line-number"
	ClassFindMatch        = "findMatch"
)

// Theme resolves the classes of a rendered segment to a chroma style
// entry.
type Theme struct {
	style *chroma.Style
}

// NewTheme loads a chroma style by name. Unknown names get chroma's
// fallback style.
func NewTheme(name string) *Theme {
	if name == "" {
		name = DefaultStyle
	}
	return &Theme{style: styles.Get(name)}
}

// Name returns the style name.
func (t *Theme) Name() string {
	return t.style.Name
}

// Base returns the entry for unclassified text.
func (t *Theme) Base() chroma.StyleEntry {
	return t.style.Get(chroma.Text)
}

// Entry returns the style for a class list. Later classes override
// earlier ones, so decoration classes layer over the token class. Classes
// the theme does not know are skipped.
func (t *Theme) Entry(classes []string) chroma.StyleEntry {
	entry := t.Base()
	for _, class := range classes {
		if tt, ok := tokenForRenderClass(class); ok {
			entry = t.style.Get(tt)
		}
	}
	return entry
}

func tokenForRenderClass(class string) (chroma.TokenType, bool) {
	switch class {
	case viewline.ClassWhitespace, viewline.ClassWhitespaceWidth:
		return chroma.TextWhitespace, true
	case viewline.ClassControl:
		return chroma.Error, true
	case viewline.ClassOverflow:
		return chroma.Comment, true
	case ClassLineNumber:
		return chroma.LineNumbers, true
	case ClassActiveLineNumber, ClassFindMatch:
		return chroma.LineHighlight, true
	}
	return TokenForClass(class)
}
