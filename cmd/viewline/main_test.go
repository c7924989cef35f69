package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/viewline/internal/config"
	"github.com/dshills/viewline/internal/renderer/backend"
	"github.com/dshills/viewline/internal/renderer/gutter"
	"github.com/dshills/viewline/internal/renderer/highlight"
	"github.com/dshills/viewline/internal/renderer/linecache"
	"github.com/dshills/viewline/internal/renderer/viewline"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestRunWritesHTML(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := writeFile(t, "notes.txt", "a<b\nfoo bar\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-find", "bar", path}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}

	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), stdout.String())
	}
	if lines[0] != `<div class="view-line"><span><span class="mtk1">a&lt;b</span></span></div>` {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if !strings.Contains(lines[1], `<span class="mtk1 findMatch">bar</span>`) {
		t.Errorf("expected decorated match in %q", lines[1])
	}
}

func TestRunReadsStdin(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	code := run([]string{"-lang", "go"}, strings.NewReader("package main\n"), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), `class="mtk-k`) {
		t.Errorf("expected keyword class in %q", stdout.String())
	}
}

func TestRunErrors(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"unknown flag", []string{"-nope"}, 2},
		{"too many files", []string{"a", "b"}, 2},
		{"watch without terminal", []string{"-watch", "a.go"}, 2},
		{"watch without file", []string{"-term", "-watch"}, 2},
		{"missing file", []string{filepath.Join(t.TempDir(), "missing.txt")}, 1},
		{"missing config", []string{"-config", filepath.Join(t.TempDir(), "missing.toml")}, 1},
		{"bad whitespace mode", []string{"-ws", "sometimes"}, 1},
		{"version", []string{"-version"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, strings.NewReader(""), &stdout, &stderr); code != tt.code {
				t.Errorf("expected exit %d, got %d: %s", tt.code, code, stderr.String())
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		text     string
		expected []string
	}{
		{"", []string{""}},
		{"a", []string{"a"}},
		{"a\n", []string{"a"}},
		{"a\r\nb\r\n", []string{"a", "b"}},
		{"a\n\nb", []string{"a", "", "b"}},
	}
	for _, tt := range tests {
		if got := splitLines(tt.text); !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("splitLines(%q): expected %q, got %q", tt.text, tt.expected, got)
		}
	}
}

func TestFindDecorations(t *testing.T) {
	got := findDecorations([]string{"xéx x", "none"}, "x")
	expected := []viewline.Range{
		{StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 2},
		{StartLine: 1, StartColumn: 3, EndLine: 1, EndColumn: 4},
		{StartLine: 1, StartColumn: 5, EndLine: 1, EndColumn: 6},
	}
	if len(got) != len(expected) {
		t.Fatalf("expected %d matches, got %d", len(expected), len(got))
	}
	for i, d := range got {
		if d.Range != expected[i] || d.ClassName != highlight.ClassFindMatch {
			t.Errorf("match %d: expected %+v, got %+v", i, expected[i], d)
		}
	}

	if findDecorations([]string{"abc"}, "") != nil {
		t.Error("empty needle should match nothing")
	}
}

func newTestBrowser(t *testing.T, lines []string, width, height int) (*browser, tcell.SimulationScreen) {
	t.Helper()
	return newTestBrowserWithGutter(t, lines, width, height, gutter.Config{})
}

func newTestBrowserWithGutter(t *testing.T, lines []string, width, height int, gc gutter.Config) (*browser, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	term := backend.NewTerminalWithScreen(screen, highlight.NewTheme(""))
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	screen.SetSize(width, height)
	t.Cleanup(term.Shutdown)

	tokens, err := highlight.Static{Class: highlight.DefaultClass}.HighlightLines(lines)
	if err != nil {
		t.Fatalf("HighlightLines failed: %v", err)
	}
	doc := linecache.NewDocument(lines, tokens, config.Default().Template())
	g := gutter.New(gc)
	g.SetLineCount(uint32(len(lines)))
	return newBrowser(term, doc, g), screen
}

func screenRow(screen tcell.SimulationScreen, y int) string {
	cells, width, _ := screen.GetContents()
	var sb strings.Builder
	for x := 0; x < width; x++ {
		c := cells[y*width+x]
		if len(c.Runes) == 0 {
			sb.WriteByte(' ')
			continue
		}
		sb.WriteRune(c.Runes[0])
	}
	return sb.String()
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestBrowserDraw(t *testing.T) {
	b, screen := newTestBrowser(t, []string{"one", "two", "three"}, 8, 4)
	b.draw()

	for y, expected := range []string{"one     ", "two     ", "three   ", "        "} {
		if got := screenRow(screen, y); got != expected {
			t.Errorf("row %d: expected %q, got %q", y, expected, got)
		}
	}
}

func TestBrowserScrollsToCursor(t *testing.T) {
	b, screen := newTestBrowser(t, []string{"a", "b", "c", "d"}, 4, 2)

	for range 3 {
		if !b.handleKey(runeKey('j')) {
			t.Fatal("j should not quit")
		}
	}
	b.draw()
	if b.line != 3 {
		t.Fatalf("expected cursor on line 3, got %d", b.line)
	}
	if got := screenRow(screen, 0); got != "c   " {
		t.Errorf("expected line c at the top, got %q", got)
	}
	if got := screenRow(screen, 1); got != "d   " {
		t.Errorf("expected line d at the bottom, got %q", got)
	}

	b.handleKey(runeKey('j'))
	if b.line != 3 {
		t.Errorf("cursor should stop at the last line, got %d", b.line)
	}
	b.handleKey(runeKey('g'))
	b.draw()
	if got := screenRow(screen, 0); got != "a   " {
		t.Errorf("expected line a at the top, got %q", got)
	}
}

func TestBrowserHorizontalScroll(t *testing.T) {
	b, screen := newTestBrowser(t, []string{"abcdefgh"}, 4, 1)

	b.handleKey(key(tcell.KeyEnd))
	if b.column != 9 {
		t.Fatalf("expected column 9 at line end, got %d", b.column)
	}
	b.draw()
	if got := screenRow(screen, 0); got != "fgh " {
		t.Errorf("expected scrolled text, got %q", got)
	}

	b.handleKey(key(tcell.KeyHome))
	b.draw()
	if got := screenRow(screen, 0); got != "abcd" {
		t.Errorf("expected unscrolled text, got %q", got)
	}
}

func TestBrowserColumnClamps(t *testing.T) {
	b, _ := newTestBrowser(t, []string{"long line", "ab"}, 20, 4)

	b.handleKey(key(tcell.KeyEnd))
	b.handleKey(key(tcell.KeyDown))
	if b.column != 3 {
		t.Errorf("column should clamp to the shorter line, got %d", b.column)
	}
	b.handleKey(key(tcell.KeyLeft))
	b.handleKey(key(tcell.KeyLeft))
	b.handleKey(key(tcell.KeyLeft))
	if b.column != 1 {
		t.Errorf("column should not go below 1, got %d", b.column)
	}
}

func TestBrowserQuit(t *testing.T) {
	b, _ := newTestBrowser(t, []string{"x"}, 4, 1)
	for _, ev := range []*tcell.EventKey{runeKey('q'), key(tcell.KeyEscape)} {
		if b.handleKey(ev) {
			t.Errorf("expected %v to quit", ev.Name())
		}
	}
}

func TestRunWrapsLines(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := writeFile(t, "notes.txt", "hello world\nhi\n")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-wrap", "8", path}, strings.NewReader(""), &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}

	rows := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d: %q", len(rows), stdout.String())
	}
	if rows[2] != `<div class="view-line"><span><span class="mtk1">hi</span></span></div>` {
		t.Errorf("unexpected last row %q", rows[2])
	}
}

func TestBrowserGutter(t *testing.T) {
	b, screen := newTestBrowserWithGutter(t, []string{"one", "two"}, 10, 3, gutter.DefaultConfig())

	b.handleKey(runeKey('j'))
	b.draw()
	for y, expected := range []string{"  1 one   ", "  2 two   ", "          "} {
		if got := screenRow(screen, y); got != expected {
			t.Errorf("row %d: expected %q, got %q", y, expected, got)
		}
	}
}

func TestBrowserReload(t *testing.T) {
	b, screen := newTestBrowserWithGutter(t, []string{"a", "b", "c"}, 10, 3, gutter.DefaultConfig())
	b.handleKey(runeKey('G'))
	b.handleKey(key(tcell.KeyEnd))
	b.draw()

	b.reload(&source{
		lines:  []string{"xyz"},
		tokens: []viewline.TokenRuns{viewline.SingleToken(3, highlight.DefaultClass)},
	})
	if b.line != 0 || b.column != 2 {
		t.Errorf("cursor should clamp to (0, 2), got (%d, %d)", b.line, b.column)
	}

	b.draw()
	if got := screenRow(screen, 0); got != "  1 xyz   " {
		t.Errorf("expected reloaded text, got %q", got)
	}
	if got := screenRow(screen, 1); got != "          " {
		t.Errorf("expected blank row after reload, got %q", got)
	}
}

func TestBrowserKeepsVisibleColumn(t *testing.T) {
	b, _ := newTestBrowser(t, []string{"\tx", "abcdef"}, 20, 4)

	b.handleKey(runeKey('l'))
	b.handleKey(runeKey('j'))
	if b.line != 1 || b.column != 5 {
		t.Errorf("expected (1, 5) below the tab end, got (%d, %d)", b.line, b.column)
	}
	b.handleKey(runeKey('k'))
	if b.line != 0 || b.column != 2 {
		t.Errorf("expected (0, 2) after the tab, got (%d, %d)", b.line, b.column)
	}
}

func TestBrowserMouseSelection(t *testing.T) {
	b, _ := newTestBrowser(t, []string{"hello", "a\tb"}, 20, 4)
	b.draw()

	b.handleMouse(tcell.NewEventMouse(3, 0, tcell.Button1, tcell.ModNone))
	if b.line != 0 || b.column != 4 {
		t.Errorf("click: expected (0, 4), got (%d, %d)", b.line, b.column)
	}

	// Inside the tab cells.
	b.handleMouse(tcell.NewEventMouse(2, 1, tcell.Button1, tcell.ModNone))
	if b.line != 1 || b.column != 2 {
		t.Errorf("drag: expected (1, 2), got (%d, %d)", b.line, b.column)
	}
	if got, expected := b.doc.LineInput(0).SelectionsOnLine, []viewline.OffsetRange{{Start: 3, End: 5}}; !reflect.DeepEqual(got, expected) {
		t.Errorf("line 0 selection: expected %v, got %v", expected, got)
	}
	if got, expected := b.doc.LineInput(1).SelectionsOnLine, []viewline.OffsetRange{{Start: 0, End: 1}}; !reflect.DeepEqual(got, expected) {
		t.Errorf("line 1 selection: expected %v, got %v", expected, got)
	}

	b.handleMouse(tcell.NewEventMouse(2, 1, tcell.ButtonNone, tcell.ModNone))
	b.handleMouse(tcell.NewEventMouse(0, 0, tcell.Button1, tcell.ModNone))
	if b.doc.LineInput(0).SelectionsOnLine != nil {
		t.Error("a new click should clear the selection")
	}
	if b.line != 0 || b.column != 1 {
		t.Errorf("click: expected (0, 1), got (%d, %d)", b.line, b.column)
	}
}

func TestBrowserMouseIgnoresGutter(t *testing.T) {
	b, _ := newTestBrowserWithGutter(t, []string{"one", "two"}, 10, 3, gutter.DefaultConfig())
	b.draw()

	b.handleMouse(tcell.NewEventMouse(1, 1, tcell.Button1, tcell.ModNone))
	if b.line != 0 || b.column != 1 {
		t.Errorf("click in the gutter should not move the cursor, got (%d, %d)", b.line, b.column)
	}
	b.handleMouse(tcell.NewEventMouse(5, 1, tcell.Button1, tcell.ModNone))
	if b.line != 1 || b.column != 2 {
		t.Errorf("expected (1, 2), got (%d, %d)", b.line, b.column)
	}
}

func TestBrowserCyclesWhitespace(t *testing.T) {
	b, _ := newTestBrowser(t, []string{"a b"}, 10, 2)
	start := b.doc.Template().RenderWhitespace

	b.handleKey(runeKey('w'))
	if got := b.doc.LineInput(0).RenderWhitespace; got != (start+1)%(viewline.RenderWhitespaceAll+1) {
		t.Errorf("expected next mode after %v, got %v", start, got)
	}
	for range 4 {
		b.handleKey(runeKey('w'))
	}
	if got := b.doc.Template().RenderWhitespace; got != start {
		t.Errorf("expected to cycle back to %v, got %v", start, got)
	}
}
