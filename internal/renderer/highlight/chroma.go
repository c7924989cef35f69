package highlight

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/dshills/viewline/internal/renderer/viewline"
)

const classPrefix = "mtk-"

// ChromaHighlighter tokenizes with a chroma lexer. Token types become
// classes "mtk-<short name>" using chroma's standard CSS names, so a
// keyword declaration renders with class "mtk-kd".
type ChromaHighlighter struct {
	lexer chroma.Lexer
}

// NewChromaHighlighter wraps a chroma lexer.
func NewChromaHighlighter(lexer chroma.Lexer) *ChromaHighlighter {
	return &ChromaHighlighter{lexer: chroma.Coalesce(lexer)}
}

// ChromaForLanguage looks up a lexer by name or alias.
func ChromaForLanguage(name string) (*ChromaHighlighter, bool) {
	l := lexers.Get(name)
	if l == nil {
		return nil, false
	}
	return NewChromaHighlighter(l), true
}

// ChromaForFile looks up a lexer by file name pattern.
func ChromaForFile(filename string) (*ChromaHighlighter, bool) {
	l := lexers.Match(filename)
	if l == nil {
		return nil, false
	}
	return NewChromaHighlighter(l), true
}

// ChromaForContent picks a lexer by analysing the text.
func ChromaForContent(text string) (*ChromaHighlighter, bool) {
	l := lexers.Analyse(text)
	if l == nil {
		return nil, false
	}
	return NewChromaHighlighter(l), true
}

// Language returns the lexer name.
func (h *ChromaHighlighter) Language() string {
	return h.lexer.Config().Name
}

// HighlightLines tokenizes the lines as one document joined by '\n'.
func (h *ChromaHighlighter) HighlightLines(lines []string) ([]viewline.TokenRuns, error) {
	text := strings.Join(lines, "\n")

	// EnsureLF is off: rewriting '\r' would shift offsets against the lines.
	tokens, err := chroma.Tokenise(h.lexer, &chroma.TokeniseOptions{State: "root"}, text)
	if err != nil {
		return nil, fmt.Errorf("tokenising %s: %w", h.Language(), err)
	}

	b := runBuilder{lines: make([]viewline.TokenRuns, len(lines))}
	for _, tok := range tokens {
		if tok.Type == chroma.EOFType {
			break
		}
		class := ClassForToken(tok.Type)
		value := tok.Value
		for {
			i := strings.IndexByte(value, '\n')
			if i < 0 {
				b.add(value, class)
				break
			}
			b.add(value[:i], class)
			b.newline()
			value = value[i+1:]
		}
	}
	return b.lines, nil
}

// runBuilder cuts a token stream into per-line runs, merging neighbours
// that share a class.
type runBuilder struct {
	lines  []viewline.TokenRuns
	line   int
	offset int
}

func (b *runBuilder) add(piece, class string) {
	if piece == "" || b.line >= len(b.lines) {
		return
	}
	b.offset += utf8.RuneCountInString(piece)
	runs := b.lines[b.line]
	if n := len(runs); n > 0 && runs[n-1].ClassName == class {
		runs[n-1].EndOffset = b.offset
		return
	}
	b.lines[b.line] = append(runs, viewline.TokenRun{EndOffset: b.offset, ClassName: class})
}

func (b *runBuilder) newline() {
	b.line++
	b.offset = 0
}

// ClassForToken returns the render class for a chroma token type. Types
// without a standard name use their sub-category or category name.
func ClassForToken(t chroma.TokenType) string {
	for _, candidate := range []chroma.TokenType{t, t.SubCategory(), t.Category()} {
		if short := chroma.StandardTypes[candidate]; short != "" {
			return classPrefix + short
		}
	}
	return DefaultClass
}

var tokenTypesByClass = sync.OnceValue(func() map[string]chroma.TokenType {
	m := make(map[string]chroma.TokenType, len(chroma.StandardTypes))
	for t, short := range chroma.StandardTypes {
		if short != "" {
			m[classPrefix+short] = t
		}
	}
	return m
})

// TokenForClass reverses ClassForToken.
func TokenForClass(class string) (chroma.TokenType, bool) {
	if class == DefaultClass {
		return chroma.Text, true
	}
	t, ok := tokenTypesByClass()[class]
	return t, ok
}
