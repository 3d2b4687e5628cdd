// Package config provides configuration management for the timeline-flow CLI.
//
// Configuration is assembled from defaults, an optional timeline.yaml, the
// TIMELINE_* environment and command-line flags, in ascending precedence.
// Date values accept ISO-8601 timestamps with or without a clock component;
// they are parsed as wall-clock values and bound to the configured display
// zone when the widget range is built.
package config

import (
	"time"

	"github.com/tltv/timeline-flow/internal/locale"
	"github.com/tltv/timeline-flow/internal/timeline"
)

// UIConfig holds configuration for the web host.
type UIConfig struct {
	Port          int    `koanf:"port"`
	AutoOpen      bool   `koanf:"auto_open"`
	Watch         bool   `koanf:"watch"`
	SessionSecret string `koanf:"session_secret"`
}

// DefaultUIConfig returns a UIConfig with default values.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Port:     8497,
		AutoOpen: true,
		Watch:    true,
	}
}

// GetUIConfig returns the UI config with defaults applied for any unset values.
func (c *Config) GetUIConfig() *UIConfig {
	if c.UI == nil {
		return DefaultUIConfig()
	}
	ui := c.UI
	if ui.Port == 0 {
		ui.Port = 8497
	}
	return ui
}

// Config holds all CLI configuration options.
type Config struct {
	Resolution      string    `koanf:"resolution"`
	Start           time.Time `koanf:"start"`
	End             time.Time `koanf:"end"`
	Locale          string    `koanf:"locale"`
	Timezone        string    `koanf:"timezone"`
	FirstDayOfWeek  int       `koanf:"first_day_of_week"` // 1..7 override, 0 = from locale
	SizingMode      string    `koanf:"sizing_mode"`
	MinUnitWidthPx  int       `koanf:"min_unit_width_px"`
	ViewportWidthPx int       `koanf:"viewport_width_px"`
	YearRow         bool      `koanf:"year_row"`
	MonthRow        bool      `koanf:"month_row"`
	Verbose         bool      `koanf:"verbose"`
	OutputFormat    string    `koanf:"output"`
	UI              *UIConfig `koanf:"ui"`
}

// Default configuration values.
const (
	DefaultResolution = "day"
	DefaultSizingMode = "percentage"
	DefaultLocale     = "en-US"
	DefaultTimezone   = "UTC"
	DefaultViewportPx = 1000
	DefaultOutput     = "auto" // Auto-detect: TTY=table, non-TTY=json
)

// ParsedResolution returns the configured tiling resolution.
func (c *Config) ParsedResolution() (timeline.Resolution, error) {
	return timeline.ParseResolution(c.Resolution)
}

// ParsedSizingMode returns the configured sizing mode.
func (c *Config) ParsedSizingMode() (timeline.SizingMode, error) {
	return timeline.ParseSizingMode(c.SizingMode)
}

// Bundle resolves the configured locale tag and timezone.
func (c *Config) Bundle() (*locale.Bundle, error) {
	return locale.Load(c.Locale, c.Timezone)
}

// WidgetConfig maps the host configuration onto the widget's own settings.
func (c *Config) WidgetConfig() (timeline.Config, error) {
	mode, err := c.ParsedSizingMode()
	if err != nil {
		return timeline.Config{}, err
	}
	return timeline.Config{
		SizingMode:      mode,
		MinUnitWidthPx:  c.MinUnitWidthPx,
		FirstDayOfWeek:  c.FirstDayOfWeek,
		YearRowVisible:  c.YearRow,
		MonthRowVisible: c.MonthRow,
	}, nil
}

// RangeIn rebinds the configured start and end wall-clock values to the
// display zone. An end without a clock component means the end of that day.
func (c *Config) RangeIn(loc *time.Location) (start, end time.Time) {
	start = rebind(c.Start, loc)
	end = rebind(c.End, loc)
	if h, m, s := end.Clock(); h == 0 && m == 0 && s == 0 {
		end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, loc)
	}
	return start, end
}

func rebind(t time.Time, loc *time.Location) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
}
