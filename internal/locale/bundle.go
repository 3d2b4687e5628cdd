// Package locale implements the locale/timezone capability the timeline
// widget consumes: month and weekday name tables, first day of week,
// Java-pattern date formatting and zone offsets.
package locale

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// Bundle is one resolved locale plus display zone. It satisfies
// timeline.LocaleCapability.
type Bundle struct {
	tag  language.Tag
	loc  *time.Location
	data localeData
}

// Load resolves a BCP 47 language tag and an IANA zone id into a Bundle.
// An empty tag falls back to American English, an empty zone to the local
// zone. Unknown tags match to the closest supported locale rather than
// failing; an unknown zone is an error.
func Load(tag, zone string) (*Bundle, error) {
	resolved := supported[0]
	if tag != "" {
		parsed, err := language.Parse(tag)
		if err != nil {
			return nil, fmt.Errorf("parse locale %q: %w", tag, err)
		}
		_, idx, _ := matcher.Match(parsed)
		resolved = supported[idx]
	}
	idx := 0
	for i, t := range supported {
		if t == resolved {
			idx = i
			break
		}
	}

	loc := time.Local
	if zone != "" {
		var err error
		loc, err = time.LoadLocation(zone)
		if err != nil {
			return nil, fmt.Errorf("load timezone %q: %w", zone, err)
		}
	}
	return &Bundle{tag: resolved, loc: loc, data: tables[idx]}, nil
}

// SupportedTags returns the built-in locale tags, fallback first.
func SupportedTags() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

// MustLoad is Load for statically known inputs.
func MustLoad(tag, zone string) *Bundle {
	b, err := Load(tag, zone)
	if err != nil {
		panic(err)
	}
	return b
}

// Tag returns the resolved language tag.
func (b *Bundle) Tag() language.Tag { return b.tag }

// Location returns the display zone's location.
func (b *Bundle) Location() *time.Location { return b.loc }

// MonthNames returns the twelve month names, January first.
func (b *Bundle) MonthNames() [12]string { return b.data.months }

// WeekdayNames returns the seven weekday names, Sunday first.
func (b *Bundle) WeekdayNames() [7]string { return b.data.weekdays }

// FirstDayOfWeek returns the locale's first day of week, 1 = Sunday.
func (b *Bundle) FirstDayOfWeek() int { return b.data.firstDay }

// TwelveHourClock reports whether the locale uses a 12-hour clock.
func (b *Bundle) TwelveHourClock() bool { return b.data.twelveHour }

// TimeZone returns the display zone id.
func (b *Bundle) TimeZone() string { return b.loc.String() }

// Offset returns the UTC offset in seconds east at t in the display zone.
func (b *Bundle) Offset(t time.Time) int {
	_, off := t.In(b.loc).Zone()
	return off
}

// Date builds a wall-clock instant in the display zone. Hosts use it to
// construct the range boundaries they pass to Render.
func (b *Bundle) Date(year int, month time.Month, day, hour, min, sec int) time.Time {
	return time.Date(year, month, day, hour, min, sec, 0, b.loc)
}
