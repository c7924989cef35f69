// Package backend paints rendered lines onto a terminal.
package backend

import (
	"html"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/viewline/internal/renderer/highlight"
	"github.com/dshills/viewline/internal/renderer/viewline"
)

// Terminal paints RenderLineOutput rows onto a tcell screen, styling each
// segment through a highlight theme.
type Terminal struct {
	screen tcell.Screen
	theme  *highlight.Theme
	styles map[string]tcell.Style
	mu     sync.Mutex

	// gutterWidth columns on the left are reserved for DrawGutter.
	gutterWidth int
}

// NewTerminal creates a terminal backed by the real tty.
func NewTerminal(theme *highlight.Theme) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen, theme), nil
}

// NewTerminalWithScreen wraps an existing screen, such as a simulation
// screen in tests.
func NewTerminalWithScreen(screen tcell.Screen, theme *highlight.Theme) *Terminal {
	if theme == nil {
		theme = highlight.NewTheme("")
	}
	return &Terminal{
		screen: screen,
		theme:  theme,
		styles: make(map[string]tcell.Style),
	}
}

// Init initializes the screen and clears it to the theme background.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.SetStyle(convertEntry(t.theme.Base()))
	t.screen.EnableMouse(tcell.MouseDragEvents)
	t.screen.Clear()
	return nil
}

// Shutdown restores the terminal.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

// Size returns the screen size in cells.
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// SetGutterWidth reserves columns on the left for DrawGutter. Lines and
// the cursor are drawn to the right of it.
func (t *Terminal) SetGutterWidth(width int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gutterWidth = max(width, 0)
}

// DrawGutter paints a gutter label on row y, clipped to the gutter width.
func (t *Terminal) DrawGutter(y int, label string, current bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, height := t.screen.Size()
	if y < 0 || y >= height {
		return
	}
	class := highlight.ClassLineNumber
	if current {
		class = highlight.ClassActiveLineNumber
	}
	style := t.styleFor([]string{class})

	x := 0
	for _, r := range label {
		if x >= t.gutterWidth {
			break
		}
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
	for ; x < t.gutterWidth; x++ {
		t.screen.SetContent(x, y, ' ', nil, style)
	}
}

// DrawLine paints a rendered line on row y, right of the gutter, skipping
// the first leftCol columns, and blanks the rest of the row. It returns
// the number of columns the line occupies before clipping.
func (t *Terminal) DrawLine(y, leftCol int, out *viewline.RenderLineOutput) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	width, height := t.screen.Size()
	if y < 0 || y >= height {
		return 0
	}

	col := 0
	for _, seg := range out.Segments {
		style := t.styleFor(seg.Classes)
		for _, r := range html.UnescapeString(seg.Text) {
			r = displayRune(r)
			w := runewidth.RuneWidth(r)
			if w == 0 {
				continue
			}
			x := t.gutterWidth + col - leftCol
			if x >= t.gutterWidth && x+w <= width {
				t.screen.SetContent(x, y, r, nil, style)
			}
			col += w
		}
	}

	blank := convertEntry(t.theme.Base())
	for x := t.gutterWidth + max(col-leftCol, 0); x < width; x++ {
		t.screen.SetContent(x, y, ' ', nil, blank)
	}
	return col
}

// ShowCursor places the cursor at text column x of row y. Positions
// outside the text area hide it.
func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	width, height := t.screen.Size()
	x += t.gutterWidth
	if x < t.gutterWidth || y < 0 || x >= width || y >= height {
		t.screen.HideCursor()
		return
	}
	t.screen.ShowCursor(x, y)
}

// Show flushes pending changes to the terminal.
func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

// Wake interrupts WaitForEvent from another goroutine, delivering data
// in a *tcell.EventInterrupt.
func (t *Terminal) Wake(data any) error {
	return t.screen.PostEvent(tcell.NewEventInterrupt(data))
}

// WaitForEvent blocks until a key press, a mouse event or a Wake and
// returns it as a *tcell.EventKey, *tcell.EventMouse or
// *tcell.EventInterrupt. Resizes are handled here. It returns false when
// the screen has been shut down.
func (t *Terminal) WaitForEvent() (tcell.Event, bool) {
	for {
		ev := t.screen.PollEvent()
		switch e := ev.(type) {
		case nil:
			return nil, false
		case *tcell.EventKey, *tcell.EventMouse, *tcell.EventInterrupt:
			return e, true
		case *tcell.EventResize:
			t.mu.Lock()
			t.screen.Sync()
			t.mu.Unlock()
		}
	}
}

// TextPosition converts screen coordinates to a cell of the text area.
// ok is false for positions inside the gutter.
func (t *Terminal) TextPosition(x, y int) (col, row int, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	col = x - t.gutterWidth
	return col, y, col >= 0
}

// styleFor caches converted styles by joined class list.
func (t *Terminal) styleFor(classes []string) tcell.Style {
	key := viewline.Segment{Classes: classes}.ClassName()
	if s, ok := t.styles[key]; ok {
		return s
	}
	s := convertEntry(t.theme.Entry(classes))
	t.styles[key] = s
	return s
}

// displayRune maps markup-only characters to what a terminal cell shows.
func displayRune(r rune) rune {
	switch r {
	case '\u00a0', '\n':
		return ' '
	}
	return r
}

// convertEntry converts a chroma style entry to a tcell style.
func convertEntry(e chroma.StyleEntry) tcell.Style {
	style := tcell.StyleDefault

	if e.Colour.IsSet() {
		style = style.Foreground(convertColour(e.Colour))
	}
	if e.Background.IsSet() {
		style = style.Background(convertColour(e.Background))
	}

	if e.Bold == chroma.Yes {
		style = style.Bold(true)
	}
	if e.Italic == chroma.Yes {
		style = style.Italic(true)
	}
	if e.Underline == chroma.Yes {
		style = style.Underline(true)
	}
	return style
}

func convertColour(c chroma.Colour) tcell.Color {
	return tcell.NewRGBColor(int32(c.Red()), int32(c.Green()), int32(c.Blue()))
}
