package timeline

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"
)

// fakeZone is a synthetic offset source with explicit DST-active periods,
// so transition tests do not depend on the host zone database.
type fakeZone struct {
	standard int // seconds east of UTC
	daylight int
	periods  [][2]time.Time // DST active within [start, end)
}

func (z fakeZone) Offset(t time.Time) int {
	for _, p := range z.periods {
		if !t.Before(p[0]) && t.Before(p[1]) {
			return z.daylight
		}
	}
	return z.standard
}

// northernZone mimics US Pacific time for 2020: standard UTC-8, daylight
// UTC-7, DST from 2020-03-08 10:00 UTC to 2020-11-01 09:00 UTC.
func northernZone() fakeZone {
	return fakeZone{
		standard: -8 * 3600,
		daylight: -7 * 3600,
		periods: [][2]time.Time{{
			time.Date(2020, time.March, 8, 10, 0, 0, 0, time.UTC),
			time.Date(2020, time.November, 1, 9, 0, 0, 0, time.UTC),
		}},
	}
}

// southernZone mimics eastern Australia around 2020: standard UTC+10,
// daylight UTC+11, DST across the new year.
func southernZone() fakeZone {
	return fakeZone{
		standard: 10 * 3600,
		daylight: 11 * 3600,
		periods: [][2]time.Time{
			{
				time.Date(2019, time.October, 5, 16, 0, 0, 0, time.UTC),
				time.Date(2020, time.April, 4, 16, 0, 0, 0, time.UTC),
			},
			{
				time.Date(2020, time.October, 3, 16, 0, 0, 0, time.UTC),
				time.Date(2021, time.April, 3, 16, 0, 0, 0, time.UTC),
			},
		},
	}
}

// utcLocale is a minimal LocaleCapability over UTC for pure tiling tests.
type utcLocale struct {
	firstDay int
}

func (l utcLocale) Offset(time.Time) int { return 0 }

func (l utcLocale) FirstDayOfWeek() int {
	if l.firstDay == 0 {
		return 1
	}
	return l.firstDay
}

func (l utcLocale) FormatDate(t time.Time, pattern string) string {
	switch pattern {
	case "yyyy":
		return t.UTC().Format("2006")
	case "MM":
		return t.UTC().Format("01")
	case "dd":
		return t.UTC().Format("02")
	case "HH":
		return t.UTC().Format("15")
	default:
		return t.UTC().Format(time.RFC3339)
	}
}

func (l utcLocale) MonthNames() [12]string {
	return [12]string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"}
}

func (l utcLocale) WeekdayNames() [7]string {
	return [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
}

func (l utcLocale) TwelveHourClock() bool { return false }
func (l utcLocale) TimeZone() string      { return "UTC" }

func losAngeles(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	return loc
}

// zoneLocale wraps a location into a LocaleCapability for DST tests.
type zoneLocale struct {
	utcLocale
	loc *time.Location
}

func (l zoneLocale) Offset(t time.Time) int {
	_, off := t.In(l.loc).Zone()
	return off
}

func (l zoneLocale) FormatDate(t time.Time, pattern string) string {
	lt := t.In(l.loc)
	switch pattern {
	case "yyyy":
		return lt.Format("2006")
	case "MM":
		return lt.Format("01")
	case "dd":
		return lt.Format("02")
	case "HH":
		return lt.Format("15")
	default:
		return lt.Format(time.RFC3339)
	}
}

func (l zoneLocale) TimeZone() string { return l.loc.String() }

// recordElement retains the last label, style and width set on it.
type recordElement struct {
	kind   RowKind
	label  string
	style  BlockStyle
	width  Width
	resets int
}

func (e *recordElement) SetLabel(label string) { e.label = label; e.resets++ }
func (e *recordElement) SetStyle(s BlockStyle) { e.style = s }
func (e *recordElement) SetWidth(w Width)      { e.width = w }

// recordSurface retains every element it created, by row kind.
type recordSurface struct {
	elements  []*recordElement
	rowOffset float64
	offsets   int
}

func (s *recordSurface) NewElement(kind RowKind) Element {
	e := &recordElement{kind: kind}
	s.elements = append(s.elements, e)
	return e
}

func (s *recordSurface) SetRowOffset(px float64) {
	s.rowOffset = px
	s.offsets++
}

func (s *recordSurface) byKind(kind RowKind) []*recordElement {
	var out []*recordElement
	for _, e := range s.elements {
		if e.kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// countingScheduler wraps ImmediateScheduler and counts schedules.
type countingScheduler struct {
	scheduled int
	cancelled int
}

func (s *countingScheduler) Schedule(_ time.Duration, fn func()) {
	s.scheduled++
	fn()
}

func (s *countingScheduler) Cancel() { s.cancelled++ }

// pendingScheduler holds the latest scheduled refill until released, to
// observe trailing-edge coalescing.
type pendingScheduler struct {
	pending   func()
	scheduled int
}

func (s *pendingScheduler) Schedule(_ time.Duration, fn func()) {
	s.scheduled++
	s.pending = fn
}

func (s *pendingScheduler) Cancel() { s.pending = nil }

func (s *pendingScheduler) fire() {
	if s.pending != nil {
		fn := s.pending
		s.pending = nil
		fn()
	}
}
