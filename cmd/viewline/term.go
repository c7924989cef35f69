package main

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/dshills/viewline/internal/config"
	"github.com/dshills/viewline/internal/logging"
	"github.com/dshills/viewline/internal/renderer/backend"
	"github.com/dshills/viewline/internal/renderer/gutter"
	"github.com/dshills/viewline/internal/renderer/highlight"
	"github.com/dshills/viewline/internal/renderer/layout"
	"github.com/dshills/viewline/internal/renderer/linecache"
	"github.com/dshills/viewline/internal/renderer/viewline"
	"github.com/dshills/viewline/internal/watcher"
)

// runTerminal shows doc on the tty until the user quits or ctx ends. With
// opts.Watch the view reloads when the file changes.
func runTerminal(ctx context.Context, cfg *config.Config, opts options, doc *linecache.Document) error {
	l := logging.FromContext(ctx)

	term, err := backend.NewTerminal(highlight.NewTheme(cfg.Highlight.Style))
	if err != nil {
		return err
	}
	if err := term.Init(); err != nil {
		return err
	}
	shutdown := sync.OnceFunc(term.Shutdown)
	defer shutdown()

	// Shutting the screen down unblocks WaitForEvent.
	go func() {
		<-ctx.Done()
		shutdown()
	}()

	g := gutter.New(cfg.GutterOptions())
	g.SetLineCount(uint32(doc.LineCount()))
	b := newBrowser(term, doc, g)

	if opts.Watch {
		w, err := watcher.New(opts.File, 0)
		if err != nil {
			return fmt.Errorf("watching %s: %w", opts.File, err)
		}
		defer w.Close()
		go watchSource(ctx, cfg, opts, w, term)
	}

loop:
	for {
		b.draw()
		ev, ok := term.WaitForEvent()
		if !ok || ctx.Err() != nil {
			break
		}
		switch e := ev.(type) {
		case *tcell.EventKey:
			if !b.handleKey(e) {
				break loop
			}
		case *tcell.EventMouse:
			b.handleMouse(e)
		case *tcell.EventInterrupt:
			if src, isSource := e.Data().(*source); isSource {
				b.reload(src)
				l.Debug("reloaded", zap.String("file", opts.File), zap.Int("lines", len(src.lines)))
			}
		}
	}

	stats := b.cache.Stats()
	l.Debug("terminal closed",
		zap.Uint64("hits", stats.Hits),
		zap.Uint64("misses", stats.Misses),
		zap.Float64("hitRate", stats.HitRate))
	return nil
}

// watchSource re-reads the file on every change and hands the result to
// the terminal loop. It returns when w is closed.
func watchSource(ctx context.Context, cfg *config.Config, opts options, w *watcher.FileWatcher, term *backend.Terminal) {
	l := logging.FromContext(ctx)
	errs := w.Errors()
	for {
		select {
		case _, ok := <-w.Changes():
			if !ok {
				return
			}
			src, err := readSource(ctx, cfg, opts, nil)
			if err != nil {
				l.Warn("reload failed", zap.String("file", w.Path()), zap.Error(err))
				continue
			}
			if err := term.Wake(src); err != nil {
				l.Warn("wake terminal", zap.Error(err))
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			l.Warn("watch error", zap.String("file", w.Path()), zap.Error(err))
		}
	}
}

// browser is a read-only view with a cursor over a document. Dragging
// with the left button selects text.
type browser struct {
	term   *backend.Terminal
	doc    *linecache.Document
	gutter *gutter.Gutter
	cache  *linecache.Cache
	view   *linecache.Viewport
	tabs   *layout.TabExpander

	line   uint32
	column int

	// Selection anchor while the left button is held.
	dragging     bool
	anchorLine   uint32
	anchorColumn int
}

func newBrowser(term *backend.Terminal, doc *linecache.Document, g *gutter.Gutter) *browser {
	cache := linecache.New(linecache.DefaultConfig())
	_, height := term.Size()
	term.SetGutterWidth(g.Width())
	return &browser{
		term:   term,
		doc:    doc,
		gutter: g,
		cache:  cache,
		view:   linecache.NewViewport(cache, height),
		tabs:   layout.NewTabExpander(doc.Template().TabSize),
		column: 1,
	}
}

// draw paints the visible lines and places the cursor.
func (b *browser) draw() {
	width, height := b.term.Size()
	b.view.SetHeight(height)
	b.gutter.SetCurrentLine(b.line)
	b.scrollToCursor(width-b.gutter.Width(), height)

	rows := b.view.RenderVisible(b.doc)
	for _, row := range rows {
		label, current := b.gutter.Label(row.Line, 0)
		b.term.DrawGutter(row.ScreenRow, label, current)
		b.term.DrawLine(row.ScreenRow, b.view.LeftColumn(), row.Output)
	}
	empty := &viewline.RenderLineOutput{}
	for y := len(rows); y < height; y++ {
		b.term.DrawGutter(y, "", false)
		b.term.DrawLine(y, 0, empty)
	}

	x, _ := b.view.HorizontalOffset(b.line, b.column)
	b.term.ShowCursor(x, b.view.LineToScreenRow(b.line))
	b.term.Show()

	start, _ := b.view.VisibleLineRange()
	b.cache.PrefetchLines(start+uint32(height/2), b.doc)
}

// scrollToCursor moves the viewport so the cursor cell is visible.
func (b *browser) scrollToCursor(width, height int) {
	top, _ := b.view.VisibleLineRange()
	left := b.view.LeftColumn()

	switch {
	case b.line < top:
		top = b.line
	case height > 0 && b.line >= top+uint32(height):
		top = b.line - uint32(height) + 1
	}

	out := b.cache.GetLine(b.line, b.doc.LineInput(b.line)).Output
	x := out.CharacterMapping.HorizontalOffset(b.column)
	switch {
	case x < left:
		left = x
	case width > 0 && x >= left+width:
		left = x - width + 1
	}
	b.view.SetPosition(top, left)
}

// handleKey applies a key press. It returns false when the user quits.
func (b *browser) handleKey(ev *tcell.EventKey) bool {
	_, height := b.term.Size()
	last := uint32(max(b.doc.LineCount()-1, 0))

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		b.moveLine(-1, last)
	case tcell.KeyDown:
		b.moveLine(1, last)
	case tcell.KeyPgUp:
		b.moveLine(-max(height-1, 1), last)
	case tcell.KeyPgDn:
		b.moveLine(max(height-1, 1), last)
	case tcell.KeyLeft:
		b.column = max(b.column-1, 1)
	case tcell.KeyRight:
		b.column = min(b.column+1, b.lineEnd())
	case tcell.KeyHome:
		b.column = 1
	case tcell.KeyEnd:
		b.column = b.lineEnd()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'k':
			b.moveLine(-1, last)
		case 'j':
			b.moveLine(1, last)
		case 'h':
			b.column = max(b.column-1, 1)
		case 'l':
			b.column = min(b.column+1, b.lineEnd())
		case 'g':
			b.line, b.column = 0, 1
		case 'G':
			b.line, b.column = last, 1
		case 'w':
			b.cycleWhitespace()
		}
	}
	return true
}

// handleMouse moves the cursor to a clicked cell. Dragging with the left
// button selects from the press position to the cursor.
func (b *browser) handleMouse(ev *tcell.EventMouse) {
	if ev.Buttons()&tcell.Button1 == 0 {
		b.dragging = false
		return
	}
	if b.doc.LineCount() == 0 {
		return
	}
	col, row, ok := b.term.TextPosition(ev.Position())
	if !ok {
		return
	}

	last := uint32(b.doc.LineCount() - 1)
	b.line = min(b.view.ScreenRowToLine(row), last)
	b.column = b.columnAt(b.line, col+b.view.LeftColumn())

	if !b.dragging {
		b.dragging = true
		b.anchorLine, b.anchorColumn = b.line, b.column
		b.doc.SetSelections(nil)
		return
	}
	b.doc.SetSelections([]viewline.Range{orderedRange(b.anchorLine, b.anchorColumn, b.line, b.column)})
}

// columnAt returns the column rendered at horizontal offset x of a line.
// A cell inside a wide character or tab resolves to that character.
func (b *browser) columnAt(line uint32, x int) int {
	m := b.cache.GetLine(line, b.doc.LineInput(line)).Output.CharacterMapping
	n := sort.Search(m.Length(), func(i int) bool {
		return m.HorizontalOffset(i+1) > x
	})
	return max(n, 1)
}

func orderedRange(line1 uint32, column1 int, line2 uint32, column2 int) viewline.Range {
	if line2 < line1 || (line2 == line1 && column2 < column1) {
		line1, column1, line2, column2 = line2, column2, line1, column1
	}
	return viewline.Range{
		StartLine:   int(line1) + 1,
		StartColumn: column1,
		EndLine:     int(line2) + 1,
		EndColumn:   column2,
	}
}

// cycleWhitespace switches to the next whitespace rendering mode.
func (b *browser) cycleWhitespace() {
	tmpl := b.doc.Template()
	tmpl.RenderWhitespace = (tmpl.RenderWhitespace + 1) % (viewline.RenderWhitespaceAll + 1)
	b.doc.SetTemplate(tmpl)
	b.cache.InvalidateAll()
}

// reload swaps in new file contents and keeps the cursor in range.
func (b *browser) reload(src *source) {
	visible := b.visibleColumn()

	b.cache.Reconcile(b.doc.Lines(), src.lines)
	b.doc.SetLines(src.lines, src.tokens)
	b.doc.SetDecorations(src.decorations)

	b.gutter.SetLineCount(uint32(len(src.lines)))
	b.term.SetGutterWidth(b.gutter.Width())

	last := uint32(max(b.doc.LineCount()-1, 0))
	b.placeCursor(min(b.line, last), visible)
}

// moveLine moves the cursor by delta lines, keeping its visible column
// across tabs and wide characters.
func (b *browser) moveLine(delta int, last uint32) {
	line := max(int64(b.line)+int64(delta), 0)
	b.placeCursor(uint32(min(line, int64(last))), b.visibleColumn())
}

// visibleColumn is the cursor's 0-based visible column.
func (b *browser) visibleColumn() int {
	return b.tabs.OffsetToColumn([]rune(b.doc.Line(b.line)), b.column-1)
}

// placeCursor puts the cursor on line at the character covering the
// visible column, or at the line end when the line is shorter.
func (b *browser) placeCursor(line uint32, visible int) {
	runes := []rune(b.doc.Line(line))
	offset := b.tabs.ColumnToOffset(runes, visible)
	if offset < 0 {
		offset = len(runes)
	}
	b.line = line
	b.column = offset + 1
}

// lineEnd is the column after the last character of the cursor line.
func (b *browser) lineEnd() int {
	return len([]rune(b.doc.Line(b.line))) + 1
}
