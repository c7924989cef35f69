package linecache

import (
	"sync"
	"testing"

	"github.com/dshills/viewline/internal/renderer/viewline"
)

func testTemplate() viewline.RenderLineInput {
	return viewline.RenderLineInput{
		UseMonospaceOptimizations: true,
		TabSize:                   4,
		SpaceWidth:                1,
		MiddotWidth:               1,
		WSMiddotWidth:             1,
		StopRenderingLineAfter:    viewline.NoStopRendering,
	}
}

func testInput(text string) *viewline.RenderLineInput {
	in := testTemplate()
	in.LineContent = text
	in.IsBasicASCII, in.ContainsRTL = viewline.DetectLineHints(text)
	in.LineTokens = viewline.SingleToken(len([]rune(text)), "mtk1")
	return &in
}

func TestNew(t *testing.T) {
	c := New(Config{})
	stats := c.Stats()
	if stats.MaxSize != 2000 {
		t.Errorf("default max size: expected 2000, got %d", stats.MaxSize)
	}
	if c.config.EvictionBatchSize != 50 {
		t.Errorf("default eviction batch: expected 50, got %d", c.config.EvictionBatchSize)
	}
}

func TestGetLineCaches(t *testing.T) {
	c := New(DefaultConfig())

	first := c.GetLine(0, testInput("hello"))
	second := c.GetLine(0, testInput("hello"))
	if first != second {
		t.Error("same input should return the cached entry")
	}
	if got := first.Output.Text(); got != "hello" {
		t.Errorf("unexpected text %q", got)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %d/%d", stats.Hits, stats.Misses)
	}
	if stats.HitRate != 0.5 {
		t.Errorf("expected hit rate 0.5, got %v", stats.HitRate)
	}
}

func TestGetLineRerendersChangedInput(t *testing.T) {
	c := New(DefaultConfig())

	first := c.GetLine(0, testInput("hello"))
	if got := c.GetLine(0, testInput("world")); got == first {
		t.Error("changed content should re-render")
	}

	in := testInput("world")
	in.RenderWhitespace = viewline.RenderWhitespaceAll
	before := c.GetLine(0, testInput("world"))
	if got := c.GetLine(0, in); got == before {
		t.Error("changed options should re-render")
	}

	in = testInput("world")
	in.LineTokens = viewline.TokenRuns{{EndOffset: 2, ClassName: "a"}, {EndOffset: 5, ClassName: "b"}}
	if got := c.GetLine(0, in); len(got.Output.Segments) != 2 {
		t.Errorf("changed tokens should re-render, got %d segments", len(got.Output.Segments))
	}
}

func TestInvalidate(t *testing.T) {
	c := New(DefaultConfig())
	for line := uint32(0); line < 10; line++ {
		c.GetLine(line, testInput("x"))
	}

	c.Invalidate(0)
	if c.Stats().Size != 9 {
		t.Errorf("expected 9 entries, got %d", c.Stats().Size)
	}

	c.InvalidateRange(2, 4)
	if c.Stats().Size != 6 {
		t.Errorf("expected 6 entries, got %d", c.Stats().Size)
	}

	c.InvalidateFrom(8)
	if c.Stats().Size != 4 {
		t.Errorf("expected 4 entries, got %d", c.Stats().Size)
	}
}

func TestInvalidateAll(t *testing.T) {
	c := New(DefaultConfig())
	first := c.GetLine(3, testInput("abc"))

	c.InvalidateAll()
	if c.Stats().Version != 1 {
		t.Errorf("expected version 1, got %d", c.Stats().Version)
	}
	if got := c.GetLine(3, testInput("abc")); got == first {
		t.Error("entry from an older version should re-render")
	}
}

func TestShiftLines(t *testing.T) {
	c := New(DefaultConfig())
	c.GetLine(0, testInput("a"))
	c.GetLine(5, testInput("b"))

	c.ShiftLines(3, 2)
	c.mu.RLock()
	entry, ok := c.entries[7]
	_, stale := c.entries[5]
	_, kept := c.entries[0]
	c.mu.RUnlock()

	if !ok || entry.BufferLine != 7 {
		t.Error("line 5 should move to 7")
	}
	if stale {
		t.Error("line 5 should no longer be cached")
	}
	if !kept {
		t.Error("line 0 is above the shift and should stay")
	}

	c.ShiftLines(3, -2)
	c.mu.RLock()
	_, back := c.entries[5]
	c.mu.RUnlock()
	if !back {
		t.Error("line 7 should move back to 5")
	}
}

func TestReconcile(t *testing.T) {
	cachedLines := func(c *Cache) map[uint32]string {
		c.mu.RLock()
		defer c.mu.RUnlock()
		result := make(map[uint32]string)
		for line, entry := range c.entries {
			result[line] = entry.Output.Text()
		}
		return result
	}

	tests := []struct {
		name     string
		oldLines []string
		newLines []string
		expected map[uint32]string
	}{
		{
			name:     "one line edited",
			oldLines: []string{"a", "b", "c"},
			newLines: []string{"a", "B", "c"},
			expected: map[uint32]string{0: "a", 2: "c"},
		},
		{
			name:     "lines inserted",
			oldLines: []string{"a", "b", "c"},
			newLines: []string{"a", "x", "y", "b", "c"},
			expected: map[uint32]string{0: "a", 3: "b", 4: "c"},
		},
		{
			name:     "lines deleted",
			oldLines: []string{"a", "b", "c", "d"},
			newLines: []string{"a", "d"},
			expected: map[uint32]string{0: "a", 1: "d"},
		},
		{
			name:     "range replaced",
			oldLines: []string{"a", "b", "c", "d"},
			newLines: []string{"a", "x", "y", "d"},
			expected: map[uint32]string{0: "a", 3: "d"},
		},
		{
			name:     "tail changed",
			oldLines: []string{"a", "b", "c"},
			newLines: []string{"a", "b", "z"},
			expected: map[uint32]string{0: "a", 1: "b"},
		},
		{
			name:     "unchanged",
			oldLines: []string{"a", "b"},
			newLines: []string{"a", "b"},
			expected: map[uint32]string{0: "a", 1: "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(DefaultConfig())
			for i, text := range tt.oldLines {
				c.GetLine(uint32(i), testInput(text))
			}

			c.Reconcile(tt.oldLines, tt.newLines)
			got := cachedLines(c)
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, got)
			}
			for line, text := range tt.expected {
				if got[line] != text {
					t.Errorf("line %d: expected %q, got %q", line, text, got[line])
				}
			}
		})
	}
}

func TestEviction(t *testing.T) {
	c := New(Config{MaxCachedLines: 10, EvictionBatchSize: 5})
	for line := uint32(0); line < 11; line++ {
		c.GetLine(line, testInput("x"))
	}

	stats := c.Stats()
	if stats.Size != 5 {
		t.Errorf("expected 5 entries after eviction, got %d", stats.Size)
	}
	if stats.Evictions != 6 {
		t.Errorf("expected 6 evictions, got %d", stats.Evictions)
	}
}

func TestPrefetchLines(t *testing.T) {
	lines := make([]string, 100)
	for i := range lines {
		lines[i] = "line"
	}
	doc := NewDocument(lines, nil, testTemplate())

	c := New(Config{MaxCachedLines: 1000, PrefetchLines: 5})
	c.PrefetchLines(2, doc)
	if got := c.Stats().Size; got != 8 {
		t.Errorf("expected lines 0-7 cached, got %d", got)
	}

	c.PrefetchLines(98, doc)
	if got := c.Stats().Size; got != 15 {
		t.Errorf("expected lines 93-99 added, got %d", got)
	}
}

func TestConcurrentGetLine(t *testing.T) {
	c := New(DefaultConfig())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for line := uint32(0); line < 50; line++ {
				c.GetLine(line, testInput("concurrent line"))
			}
		}()
	}
	wg.Wait()

	if got := c.Stats().Size; got != 50 {
		t.Errorf("expected 50 entries, got %d", got)
	}
}

func TestHashInput(t *testing.T) {
	a := testInput("abc")
	b := testInput("abc")
	if hashInput(a) != hashInput(b) {
		t.Error("equal inputs should hash equally")
	}

	b.SpaceWidth = 2
	if hashInput(a) == hashInput(b) {
		t.Error("space width should change the hash")
	}

	c := testInput("abc")
	c.LineDecorations = []viewline.LineDecoration{viewline.NewLineDecoration(1, 2, "d", viewline.DecorationRegular)}
	if hashInput(a) == hashInput(c) {
		t.Error("decorations should change the hash")
	}
}
