// Package highlight supplies the token runs a line is rendered with.
//
// Highlighters tokenize whole documents so that multi-line constructs such
// as block comments classify correctly, then cut the result into per-line
// runs with rune offsets.
package highlight

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/dshills/viewline/internal/renderer/viewline"
)

// DefaultClass is the class of text no lexer rule classified.
const DefaultClass = "mtk1"

// Highlighter produces token runs for the lines of a document.
type Highlighter interface {
	// HighlightLines returns one TokenRuns per input line.
	HighlightLines(lines []string) ([]viewline.TokenRuns, error)

	// Language returns the language this highlighter tokenizes.
	Language() string
}

// Static tokenizes every line as a single run of one class.
type Static struct {
	Class string
}

// HighlightLines returns a single run per non-empty line.
func (s Static) HighlightLines(lines []string) ([]viewline.TokenRuns, error) {
	class := s.Class
	if class == "" {
		class = DefaultClass
	}
	result := make([]viewline.TokenRuns, len(lines))
	for i, line := range lines {
		if n := len([]rune(line)); n > 0 {
			result[i] = viewline.SingleToken(n, class)
		}
	}
	return result, nil
}

// Language returns "plaintext".
func (s Static) Language() string {
	return "plaintext"
}

// Registry maps language names and file extensions to highlighters.
// Lookups that miss fall through to the chroma lexer set.
type Registry struct {
	mu sync.RWMutex

	// byLanguage maps lower-cased language names to highlighters
	byLanguage map[string]Highlighter

	// byExtension maps file extensions to highlighters
	byExtension map[string]Highlighter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byLanguage:  make(map[string]Highlighter),
		byExtension: make(map[string]Highlighter),
	}
}

// Register adds a highlighter for its language and the given extensions.
func (r *Registry) Register(h Highlighter, extensions ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byLanguage[strings.ToLower(h.Language())] = h
	for _, ext := range extensions {
		r.byExtension[normalizeExtension(ext)] = h
	}
}

// GetByLanguage returns the registered highlighter for a language.
func (r *Registry) GetByLanguage(language string) (Highlighter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.byLanguage[strings.ToLower(language)]
	return h, ok
}

// GetByExtension returns the registered highlighter for a file extension.
func (r *Registry) GetByExtension(ext string) (Highlighter, bool) {
	if ext == "" {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.byExtension[normalizeExtension(ext)]
	return h, ok
}

// Resolve picks a highlighter for a document. An explicit language wins,
// then the file name, then content analysis of sample. Registered
// highlighters are consulted before chroma lexers at each step. When
// nothing matches the result is a Static highlighter.
func (r *Registry) Resolve(language, filename, sample string) Highlighter {
	if language != "" {
		if h, ok := r.GetByLanguage(language); ok {
			return h
		}
		if h, ok := ChromaForLanguage(language); ok {
			return h
		}
	}
	if filename != "" {
		if h, ok := r.GetByExtension(filepath.Ext(filename)); ok {
			return h
		}
		if h, ok := ChromaForFile(filename); ok {
			return h
		}
	}
	if sample != "" {
		if h, ok := ChromaForContent(sample); ok {
			return h
		}
	}
	return Static{Class: DefaultClass}
}

// DefaultRegistry returns a registry with the plain text highlighter.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Static{Class: DefaultClass}, ".txt")
	return r
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
