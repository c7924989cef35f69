// Package config loads render settings for viewline.
//
// Settings are layered, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← VIEWLINE_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← ~/.config/viewline/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// Command line flags are applied by the caller after Load.
//
// # File Format
//
//	[render]
//	tab_size = 4
//	render_whitespace = "boundary"   # none, boundary, selection, trailing, all
//	render_control_characters = true
//	stop_rendering_line_after = 10000
//	space_width = 1.0
//	text_direction = "ltr"
//	wrap_column = 100                # 0 disables wrapping
//	wrap_at_word = true
//
//	[highlight]
//	language = "go"
//	style = "catppuccin-mocha"
//
//	[gutter]
//	line_numbers = "relative"        # off, absolute, relative, hybrid
//	min_width = 3
//
//	[log]
//	level = "debug"
//	development = true
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	template := cfg.Template()
package config
