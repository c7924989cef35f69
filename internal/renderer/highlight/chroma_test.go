package highlight

import (
	"testing"

	"github.com/alecthomas/chroma/v2"

	"github.com/dshills/viewline/internal/renderer/viewline"
)

func TestClassForToken(t *testing.T) {
	tests := []struct {
		token    chroma.TokenType
		expected string
	}{
		{chroma.KeywordDeclaration, "mtk-kd"},
		{chroma.Keyword, "mtk-k"},
		{chroma.CommentMultiline, "mtk-cm"},
		{chroma.LiteralStringDouble, "mtk-s2"},
		{chroma.Text, DefaultClass},
	}
	for _, tt := range tests {
		if got := ClassForToken(tt.token); got != tt.expected {
			t.Errorf("ClassForToken(%v): expected %q, got %q", tt.token, tt.expected, got)
		}
	}
}

func TestTokenForClass(t *testing.T) {
	for _, tok := range []chroma.TokenType{chroma.KeywordDeclaration, chroma.CommentMultiline, chroma.NameFunction} {
		got, ok := TokenForClass(ClassForToken(tok))
		if !ok || got != tok {
			t.Errorf("TokenForClass(ClassForToken(%v)) = %v, %v", tok, got, ok)
		}
	}
	if got, ok := TokenForClass(DefaultClass); !ok || got != chroma.Text {
		t.Errorf("default class should map to text, got %v, %v", got, ok)
	}
	if _, ok := TokenForClass("decoration"); ok {
		t.Error("unknown class should not resolve")
	}
}

// runsCover reports whether runs are increasing and end at length.
func runsCover(runs viewline.TokenRuns, length int) bool {
	prev := 0
	for _, r := range runs {
		if r.EndOffset <= prev {
			return false
		}
		prev = r.EndOffset
	}
	return prev == length
}

func TestChromaHighlightLines(t *testing.T) {
	h := chromaFor(t, "go")
	lines := []string{
		"package main",
		"",
		"/* block",
		"   comment */ var s = \"héllo\"",
		"\tfunc f() {}",
	}

	runs, err := h.HighlightLines(lines)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runs) != len(lines) {
		t.Fatalf("expected %d lines of runs, got %d", len(lines), len(runs))
	}

	for i, line := range lines {
		if !runsCover(runs[i], len([]rune(line))) {
			t.Errorf("line %d: runs %v do not cover %q", i, runs[i], line)
		}
	}

	if first := runs[0][0]; first.EndOffset != 7 || first.ClassName != "mtk-kn" {
		t.Errorf("expected package keyword run, got %+v", first)
	}
	if runs[1] != nil {
		t.Errorf("empty line should have no runs, got %v", runs[1])
	}
	if got := runs[2][0]; got.ClassName != "mtk-cm" {
		t.Errorf("expected comment on line 2, got %+v", got)
	}
	if got := runs[3][0]; got.ClassName != "mtk-cm" || got.EndOffset != 13 {
		t.Errorf("comment should continue onto line 3, got %+v", got)
	}
}

func TestChromaRunsRender(t *testing.T) {
	h := chromaFor(t, "go")
	line := "func main() { return }"
	runs, err := h.HighlightLines([]string{line})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := viewline.RenderViewLine(&viewline.RenderLineInput{
		LineContent:            line,
		IsBasicASCII:           true,
		LineTokens:             runs[0],
		TabSize:                4,
		SpaceWidth:             1,
		MiddotWidth:            1,
		WSMiddotWidth:          1,
		StopRenderingLineAfter: viewline.NoStopRendering,
	})
	if got := out.CharacterMapping.Length(); got != len(line)+1 {
		t.Errorf("expected mapping length %d, got %d", len(line)+1, got)
	}
	if out.Segments[0].ClassName() != "mtk-kd" {
		t.Errorf("expected func keyword segment, got %q", out.Segments[0].ClassName())
	}
}

func TestThemeEntry(t *testing.T) {
	theme := NewTheme("")
	if theme.Name() != DefaultStyle {
		t.Errorf("expected %q, got %q", DefaultStyle, theme.Name())
	}

	keyword := theme.Entry([]string{"mtk-kd"})
	if keyword != theme.style.Get(chroma.KeywordDeclaration) {
		t.Error("keyword class should use the keyword entry")
	}
	if got := theme.Entry([]string{"mtk-kd", "my-decoration"}); got != keyword {
		t.Error("unknown decoration class should not change the entry")
	}
	if got := theme.Entry(nil); got != theme.Base() {
		t.Error("no classes should give the base entry")
	}
	if got := theme.Entry([]string{viewline.ClassWhitespace}); got != theme.style.Get(chroma.TextWhitespace) {
		t.Error("whitespace class should use the whitespace entry")
	}
}

func TestThemeHostClasses(t *testing.T) {
	theme := NewTheme("monokai")
	for _, class := range []string{ClassLineNumber, ClassActiveLineNumber, ClassFindMatch} {
		if got, ok := tokenForRenderClass(class); !ok {
			t.Errorf("expected %q to map to a token type", class)
		} else if theme.Entry([]string{class}) != theme.style.Get(got) {
			t.Errorf("expected %q to use the %v entry", class, got)
		}
	}
}
