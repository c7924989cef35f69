package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/viewline/internal/renderer/gutter"
	"github.com/dshills/viewline/internal/renderer/highlight"
	"github.com/dshills/viewline/internal/renderer/layout"
	"github.com/dshills/viewline/internal/renderer/viewline"
)

// Config holds all viewline settings.
type Config struct {
	Render    RenderConfig    `toml:"render"`
	Highlight HighlightConfig `toml:"highlight"`
	Gutter    GutterConfig    `toml:"gutter"`
	Log       LogConfig       `toml:"log"`

	// Source is the file the config was read from, empty for defaults.
	Source string `toml:"-"`
}

// RenderConfig holds the per-line layout options.
type RenderConfig struct {
	TabSize                 int     `toml:"tab_size"`
	RenderWhitespace        string  `toml:"render_whitespace"`
	RenderControlCharacters bool    `toml:"render_control_characters"`
	FontLigatures           bool    `toml:"font_ligatures"`
	Monospace               bool    `toml:"monospace"`
	StopRenderingLineAfter  int     `toml:"stop_rendering_line_after"`
	SpaceWidth              float64 `toml:"space_width"`
	MiddotWidth             float64 `toml:"middot_width"`
	WSMiddotWidth           float64 `toml:"wsmiddot_width"`
	HalfwidthArrow          bool    `toml:"halfwidth_arrow"`
	RenderNewlineWhenEmpty  bool    `toml:"render_newline_when_empty"`
	TextDirection           string  `toml:"text_direction"`

	// WrapColumn wraps lines wider than this many columns; 0 disables
	// wrapping.
	WrapColumn int  `toml:"wrap_column"`
	WrapAtWord bool `toml:"wrap_at_word"`
}

// HighlightConfig selects the lexer and color style.
type HighlightConfig struct {
	// Language forces a lexer; empty picks one from the file name.
	Language string `toml:"language"`
	Style    string `toml:"style"`
}

// GutterConfig configures the terminal view's line numbers.
type GutterConfig struct {
	// LineNumbers is "off", "absolute", "relative" or "hybrid".
	LineNumbers string `toml:"line_numbers"`
	MinWidth    int    `toml:"min_width"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// Default returns the built-in configuration. Widths are in terminal
// cells.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			TabSize:                4,
			RenderWhitespace:       "none",
			Monospace:              true,
			StopRenderingLineAfter: 10000,
			SpaceWidth:             1,
			MiddotWidth:            1,
			WSMiddotWidth:          1,
			TextDirection:          "ltr",
			WrapAtWord:             true,
		},
		Highlight: HighlightConfig{
			Style: highlight.DefaultStyle,
		},
		Gutter: GutterConfig{
			LineNumbers: "absolute",
			MinWidth:    3,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the user config file path.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "viewline", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "viewline", "config.toml")
}

// Load reads the config file at path over the defaults, applies VIEWLINE_*
// environment overrides and validates the result. An empty path reads
// DefaultPath and tolerates it being absent.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.decode(path, bytes.NewReader(data)); err != nil {
			return nil, err
		}
		cfg.Source = path
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%s: %w", path, ErrFileNotFound)
	default:
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode overlays the TOML document onto c. Unknown keys are errors.
func (c *Config) decode(source string, r io.Reader) error {
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}

		var derr *toml.DecodeError
		var serr *toml.StrictMissingError
		switch {
		case errors.As(err, &derr):
			perr.Line, perr.Column = derr.Position()
		case errors.As(err, &serr) && len(serr.Errors) > 0:
			perr.Line, perr.Column = serr.Errors[0].Position()
			perr.Message = "unknown setting " + strings.Join(serr.Errors[0].Key(), ".")
		}
		return perr
	}
	return nil
}

// Validate checks every setting and returns the first failure.
func (c *Config) Validate() error {
	r := c.Render
	if r.TabSize < 1 {
		return invalid("render.tab_size", r.TabSize, "must be at least 1")
	}
	if _, ok := viewline.ParseRenderWhitespace(r.RenderWhitespace); !ok {
		return invalid("render.render_whitespace", r.RenderWhitespace,
			"must be one of none, boundary, selection, trailing, all")
	}
	if r.StopRenderingLineAfter < viewline.NoStopRendering {
		return invalid("render.stop_rendering_line_after", r.StopRenderingLineAfter, "must be -1 or a length")
	}
	for _, w := range []struct {
		path  string
		value float64
	}{
		{"render.space_width", r.SpaceWidth},
		{"render.middot_width", r.MiddotWidth},
		{"render.wsmiddot_width", r.WSMiddotWidth},
	} {
		if w.value <= 0 {
			return invalid(w.path, w.value, "must be positive")
		}
	}
	if r.WrapColumn < 0 {
		return invalid("render.wrap_column", r.WrapColumn, "must not be negative")
	}
	if _, ok := parseTextDirection(r.TextDirection); !ok {
		return invalid("render.text_direction", r.TextDirection, "must be ltr or rtl")
	}
	if c.Gutter.LineNumbers != "off" {
		if _, ok := gutter.ParseLineNumberMode(c.Gutter.LineNumbers); !ok {
			return invalid("gutter.line_numbers", c.Gutter.LineNumbers,
				"must be one of off, absolute, relative, hybrid")
		}
	}
	if c.Gutter.MinWidth < 0 {
		return invalid("gutter.min_width", c.Gutter.MinWidth, "must not be negative")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level", c.Log.Level, "%v", err)
	}
	return nil
}

// Template returns a RenderLineInput carrying the layout options. The
// per-line fields are left empty.
func (c *Config) Template() viewline.RenderLineInput {
	r := c.Render
	ws, _ := viewline.ParseRenderWhitespace(r.RenderWhitespace)
	dir, _ := parseTextDirection(r.TextDirection)
	return viewline.RenderLineInput{
		UseMonospaceOptimizations:      r.Monospace,
		CanUseHalfwidthRightwardsArrow: r.HalfwidthArrow,
		TabSize:                        r.TabSize,
		SpaceWidth:                     r.SpaceWidth,
		MiddotWidth:                    r.MiddotWidth,
		WSMiddotWidth:                  r.WSMiddotWidth,
		StopRenderingLineAfter:         r.StopRenderingLineAfter,
		RenderWhitespace:               ws,
		RenderControlCharacters:        r.RenderControlCharacters,
		FontLigatures:                  r.FontLigatures,
		TextDirection:                  dir,
		RenderNewLineWhenEmpty:         r.RenderNewlineWhenEmpty,
	}
}

// WrapEngine returns the wrap engine for the render settings.
func (c *Config) WrapEngine() *layout.WrapEngine {
	return layout.NewWrapEngine(c.Render.TabSize, c.Render.WrapColumn, c.Render.WrapAtWord)
}

// GutterOptions returns the gutter settings.
func (c *Config) GutterOptions() gutter.Config {
	mode, _ := gutter.ParseLineNumberMode(c.Gutter.LineNumbers)
	return gutter.Config{
		ShowLineNumbers:    c.Gutter.LineNumbers != "off",
		MinLineNumberWidth: c.Gutter.MinWidth,
		Mode:               mode,
	}
}

func parseTextDirection(s string) (viewline.TextDirection, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ltr":
		return viewline.TextDirectionLTR, true
	case "rtl":
		return viewline.TextDirectionRTL, true
	}
	return viewline.TextDirectionLTR, false
}
