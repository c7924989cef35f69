// Package gutter formats the line-number column shown to the left of
// rendered lines.
package gutter

import (
	"strconv"
	"strings"
	"sync"
)

// LineNumberMode defines how line numbers are displayed.
type LineNumberMode uint8

const (
	// LineNumberAbsolute shows absolute line numbers (1, 2, 3, ...).
	LineNumberAbsolute LineNumberMode = iota

	// LineNumberRelative shows relative line numbers from cursor.
	LineNumberRelative

	// LineNumberHybrid shows absolute for current line, relative for others.
	LineNumberHybrid
)

// ParseLineNumberMode parses "absolute", "relative" or "hybrid".
func ParseLineNumberMode(s string) (LineNumberMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "absolute":
		return LineNumberAbsolute, true
	case "relative":
		return LineNumberRelative, true
	case "hybrid":
		return LineNumberHybrid, true
	}
	return LineNumberAbsolute, false
}

// Config holds gutter configuration.
type Config struct {
	// ShowLineNumbers enables line number display.
	ShowLineNumbers bool

	// MinLineNumberWidth is the minimum number of digit columns.
	MinLineNumberWidth int

	// Mode selects absolute or cursor-relative numbering.
	Mode LineNumberMode
}

// DefaultConfig returns the default gutter configuration.
func DefaultConfig() Config {
	return Config{
		ShowLineNumbers:    true,
		MinLineNumberWidth: 3,
		Mode:               LineNumberAbsolute,
	}
}

// Gutter formats line-number labels for a buffer.
type Gutter struct {
	mu sync.RWMutex

	config Config

	width       int    // Total width including the separator column
	lineCount   uint32 // Total lines in buffer
	currentLine uint32 // Current cursor line
}

// New creates a new gutter with the given configuration.
func New(config Config) *Gutter {
	g := &Gutter{config: config}
	g.width = g.calculateWidth()
	return g
}

// Width returns the gutter width in columns, 0 when hidden.
func (g *Gutter) Width() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.width
}

// SetLineCount updates the line count, which sizes the gutter.
func (g *Gutter) SetLineCount(count uint32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lineCount = count
	g.width = g.calculateWidth()
}

// SetCurrentLine sets the cursor line for relative numbering and
// highlighting.
func (g *Gutter) SetCurrentLine(line uint32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.currentLine = line
}

// Label returns the gutter text for a row of a buffer line and whether it
// is the cursor line. Continuation rows of a wrapped line are blank. The
// label is exactly Width columns.
func (g *Gutter) Label(line uint32, row int) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.width == 0 {
		return "", false
	}
	current := line == g.currentLine
	if row > 0 {
		return strings.Repeat(" ", g.width), current
	}
	return PadLeft(FormatNumber(g.calculateNumber(line)), g.width-1) + " ", current
}

// calculateNumber returns the number to display for a line.
func (g *Gutter) calculateNumber(line uint32) uint32 {
	switch g.config.Mode {
	case LineNumberRelative:
		if line == g.currentLine {
			// Show 0 for current line in full relative mode
			return 0
		}
		return absDiff(line, g.currentLine)

	case LineNumberHybrid:
		if line == g.currentLine {
			// Show absolute number for current line
			return line + 1
		}
		return absDiff(line, g.currentLine)

	default: // LineNumberAbsolute
		return line + 1 // 1-indexed display
	}
}

func (g *Gutter) calculateWidth() int {
	if !g.config.ShowLineNumbers {
		return 0
	}
	return max(countDigits(g.lineCount), g.config.MinLineNumberWidth) + 1
}

// absDiff returns the absolute difference between two uint32 values.
func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

// PadLeft pads a string with spaces on the left to the specified width.
func PadLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// FormatNumber formats a line number.
func FormatNumber(n uint32) string {
	return strconv.FormatUint(uint64(n), 10)
}

func countDigits(n uint32) int {
	if n == 0 {
		return 1
	}
	digits := 0
	for n > 0 {
		digits++
		n /= 10
	}
	return digits
}
