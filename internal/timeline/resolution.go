// Package timeline implements the date-tiling, DST-correction and
// scroll-virtualization engine behind the timeline widget.
//
// The engine is split along its data flow: a Resolver classifies instants as
// daylight-saving or not, a Stepper advances block boundaries across DST
// transitions, the Tiler walks a date range into leaf blocks and
// run-length-aggregated rows, RenderState converts block counts to widths and
// positions back to dates, and the Renderer keeps a bounded pool of reused
// render slots in sync with the scroll position.
package timeline

import (
	"fmt"
	"strings"
	"time"
)

// Resolution selects the smallest rendered unit of the timeline.
type Resolution int

const (
	// ResolutionHour tiles the range into hours, with a day aggregation row.
	ResolutionHour Resolution = iota
	// ResolutionDay tiles the range into days.
	ResolutionDay
	// ResolutionWeek tiles the range into days grouped seven at a time.
	ResolutionWeek
)

// ParseResolution parses a case-insensitive resolution name.
func ParseResolution(s string) (Resolution, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hour":
		return ResolutionHour, nil
	case "day":
		return ResolutionDay, nil
	case "week":
		return ResolutionWeek, nil
	default:
		return 0, fmt.Errorf("unsupported resolution %q (want hour, day or week)", s)
	}
}

func (r Resolution) String() string {
	switch r {
	case ResolutionHour:
		return "hour"
	case ResolutionDay:
		return "day"
	case ResolutionWeek:
		return "week"
	default:
		return fmt.Sprintf("resolution(%d)", int(r))
	}
}

// Valid reports whether r is one of the supported resolutions.
func (r Resolution) Valid() bool {
	return r == ResolutionHour || r == ResolutionDay || r == ResolutionWeek
}

// Interval returns the nominal leaf interval: one hour for Hour, one day
// otherwise. Week resolution still steps leaf by leaf; grouping into weeks
// happens in the tiler.
func (r Resolution) Interval() time.Duration {
	if r == ResolutionHour {
		return time.Hour
	}
	return 24 * time.Hour
}

// SizingMode selects how block widths are computed.
type SizingMode int

const (
	// SizingPercentage sizes blocks as percentages of the rendered row.
	SizingPercentage SizingMode = iota
	// SizingFixedPixel sizes every leaf at a fixed integer pixel width.
	SizingFixedPixel
)

// ParseSizingMode parses a case-insensitive sizing mode name.
func ParseSizingMode(s string) (SizingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "percentage":
		return SizingPercentage, nil
	case "fixed", "pixel", "fixedpixel", "fixed_pixel":
		return SizingFixedPixel, nil
	default:
		return 0, fmt.Errorf("unsupported sizing mode %q (want percentage or fixed_pixel)", s)
	}
}

func (m SizingMode) String() string {
	if m == SizingFixedPixel {
		return "fixed_pixel"
	}
	return "percentage"
}

// WeekdayPosition marks where a day falls inside a week whose first day is
// configurable (1 = Sunday .. 7 = Saturday).
type WeekdayPosition int

const (
	// WeekdayFirst is the first day of a week.
	WeekdayFirst WeekdayPosition = iota
	// WeekdayBetween is any day that is neither first nor last.
	WeekdayBetween
	// WeekdayLast is the last day of a week.
	WeekdayLast
)

func (p WeekdayPosition) String() string {
	switch p {
	case WeekdayFirst:
		return "first"
	case WeekdayLast:
		return "last"
	default:
		return "between"
	}
}

// weekdayNumber maps a Go weekday onto the 1..7 scheme used throughout the
// widget, where 1 is Sunday and 7 is Saturday.
func weekdayNumber(d time.Weekday) int {
	return int(d) + 1
}
