package config

import "fmt"

// Validate checks the cross-field constraints flag parsing cannot catch.
// Locale and timezone resolution is deferred to Bundle so that help-style
// commands work without tzdata lookups.
func (c *Config) Validate() error {
	if _, err := c.ParsedResolution(); err != nil {
		return fmt.Errorf("invalid resolution %q: want hour, day or week", c.Resolution)
	}
	if _, err := c.ParsedSizingMode(); err != nil {
		return fmt.Errorf("invalid sizing_mode %q: want percentage or fixed", c.SizingMode)
	}
	if c.FirstDayOfWeek < 0 || c.FirstDayOfWeek > 7 {
		return fmt.Errorf("first_day_of_week must be 1..7 (1 = Sunday) or 0 for the locale default, got %d", c.FirstDayOfWeek)
	}
	if c.MinUnitWidthPx <= 0 {
		return fmt.Errorf("min_unit_width_px must be positive, got %d", c.MinUnitWidthPx)
	}
	if c.ViewportWidthPx <= 0 {
		return fmt.Errorf("viewport_width_px must be positive, got %d", c.ViewportWidthPx)
	}
	return nil
}
