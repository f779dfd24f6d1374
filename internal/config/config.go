// Package config loads settings from defaults, an optional config file,
// SUNGLOW_ environment variables and command-line flags, in increasing order
// of precedence.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Window   WindowConfig   `mapstructure:"window"`
	Render   RenderConfig   `mapstructure:"render"`
	Colors   ColorsConfig   `mapstructure:"colors"`
	Sun      SunConfig      `mapstructure:"sun"`
	Location LocationConfig `mapstructure:"location"`
	Log      LogConfig      `mapstructure:"log"`
}

// WindowConfig applies to the preview window; fullscreen mode takes the
// monitor's size.
type WindowConfig struct {
	Width      int  `mapstructure:"width" validate:"gt=0"`
	Height     int  `mapstructure:"height" validate:"gt=0"`
	HideCursor bool `mapstructure:"hide_cursor"`
	VSync      bool `mapstructure:"vsync"`
}

type RenderConfig struct {
	FPS             int     `mapstructure:"fps" validate:"gte=1,lte=240"`
	PixelRatioCap   float64 `mapstructure:"pixel_ratio_cap" validate:"gt=0,lte=4"`
	LerpRate        float32 `mapstructure:"lerp_rate" validate:"gt=0,lte=1"`
	PointerStrength float32 `mapstructure:"pointer_strength" validate:"gte=0,lte=1"`
}

// ColorsConfig picks the gradient colours. Theme is a built-in palette name,
// "auto" to follow the time of day, or "custom" to use Inner and Outer.
type ColorsConfig struct {
	Theme string `mapstructure:"theme" validate:"required,theme"`
	Inner string `mapstructure:"inner" validate:"required_if=Theme custom,color"`
	Outer string `mapstructure:"outer" validate:"required_if=Theme custom,color"`
}

type SunConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Interval  time.Duration `mapstructure:"interval" validate:"min=1s"`
	RadiusX   float64       `mapstructure:"radius_x" validate:"gt=0,lte=1"`
	RadiusY   float64       `mapstructure:"radius_y" validate:"gt=0,lte=1"`
	BaselineY float64       `mapstructure:"baseline_y" validate:"gte=-1,lte=2"`
}

// LocationConfig selects where the observer's coordinates come from.
type LocationConfig struct {
	Source    string        `mapstructure:"source" validate:"oneof=geoclue static none"`
	Latitude  float64       `mapstructure:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64       `mapstructure:"longitude" validate:"gte=-180,lte=180"`
	DesktopID string        `mapstructure:"desktop_id" validate:"required_if=Source geoclue"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"min=1s"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Debug bool   `mapstructure:"debug"`
}

// Theme names with special meaning.
const (
	ThemeAuto   = "auto"
	ThemeCustom = "custom"
)

var defaults = map[string]any{
	"window.width":       960,
	"window.height":      540,
	"window.hide_cursor": true,
	"window.vsync":       true,

	"render.fps":              30,
	"render.pixel_ratio_cap":  0.5,
	"render.lerp_rate":        0.15,
	"render.pointer_strength": 0.05,

	"colors.theme": "amber",
	"colors.inner": "",
	"colors.outer": "",

	"sun.enabled":    true,
	"sun.interval":   time.Minute,
	"sun.radius_x":   0.3,
	"sun.radius_y":   0.125,
	"sun.baseline_y": 0.09,

	"location.source":     "geoclue",
	"location.latitude":   0.0,
	"location.longitude":  0.0,
	"location.desktop_id": "sunglow",
	"location.timeout":    30 * time.Second,

	"log.level": "info",
	"log.debug": false,
}
