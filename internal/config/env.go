package config

import (
	"fmt"
	"strconv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "VIEWLINE_"

type envSetter func(c *Config, value string) error

// envSettings maps environment variables (without prefix) to settings.
var envSettings = map[string]envSetter{
	"TAB_SIZE": func(c *Config, v string) error {
		return parseInt(v, &c.Render.TabSize)
	},
	"RENDER_WHITESPACE": func(c *Config, v string) error {
		c.Render.RenderWhitespace = v
		return nil
	},
	"RENDER_CONTROL_CHARACTERS": func(c *Config, v string) error {
		return parseBool(v, &c.Render.RenderControlCharacters)
	},
	"FONT_LIGATURES": func(c *Config, v string) error {
		return parseBool(v, &c.Render.FontLigatures)
	},
	"MONOSPACE": func(c *Config, v string) error {
		return parseBool(v, &c.Render.Monospace)
	},
	"STOP_RENDERING_LINE_AFTER": func(c *Config, v string) error {
		return parseInt(v, &c.Render.StopRenderingLineAfter)
	},
	"SPACE_WIDTH": func(c *Config, v string) error {
		return parseFloat(v, &c.Render.SpaceWidth)
	},
	"TEXT_DIRECTION": func(c *Config, v string) error {
		c.Render.TextDirection = v
		return nil
	},
	"WRAP_COLUMN": func(c *Config, v string) error {
		return parseInt(v, &c.Render.WrapColumn)
	},
	"LANGUAGE": func(c *Config, v string) error {
		c.Highlight.Language = v
		return nil
	},
	"STYLE": func(c *Config, v string) error {
		c.Highlight.Style = v
		return nil
	},
	"LINE_NUMBERS": func(c *Config, v string) error {
		c.Gutter.LineNumbers = v
		return nil
	},
	"LOG_LEVEL": func(c *Config, v string) error {
		c.Log.Level = v
		return nil
	},
	"LOG_DEVELOPMENT": func(c *Config, v string) error {
		return parseBool(v, &c.Log.Development)
	},
}

// ApplyEnv applies VIEWLINE_* overrides found through lookup, which is
// normally os.LookupEnv. Empty values count as set.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for name, set := range envSettings {
		value, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		if err := set(c, value); err != nil {
			return fmt.Errorf("%s%s=%q: %w", EnvPrefix, name, value, err)
		}
	}
	return nil
}

func parseInt(s string, dst *int) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	*dst = v
	return nil
}

func parseFloat(s string, dst *float64) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	*dst = v
	return nil
}

func parseBool(s string, dst *bool) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	*dst = v
	return nil
}
