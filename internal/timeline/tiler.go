package timeline

import (
	"errors"
	"fmt"
	"time"
)

// Tiling errors surfaced to the widget boundary. The widget converts them to
// diagnostics; they never escape a steady-state render.
var (
	ErrUnsupportedResolution = errors.New("unsupported resolution")
	ErrMissingLocale         = errors.New("missing locale capability")
)

// LocaleSource is the slice of the locale/timezone capability the engine
// actually consumes: zone offsets, the configured first day of week, and
// pattern-based date formatting. Everything else the capability exposes is
// pass-through display data for the hosts.
type LocaleSource interface {
	OffsetSource
	FirstDayOfWeek() int
	FormatDate(t time.Time, pattern string) string
}

// Request describes one full tiling of a date range.
//
// Start and End are inclusive wall-clock instants carrying the display
// zone's location; the tiler reads the first weekday and hour of the range
// straight off Start. FirstDayOfWeek overrides the locale's value when in
// 1..7 (1 = Sunday).
type Request struct {
	Resolution     Resolution
	Start, End     time.Time
	FirstDayOfWeek int
	Locale         LocaleSource
	Surface        Surface
}

// Leaf is one smallest rendered unit: an hour or a day.
type Leaf struct {
	Date     time.Time
	Label    string
	Weekday  int // 1..7, 1 = Sunday
	Position WeekdayPosition
	DST      bool
}

// Run is one run-length-encoded entry of an aggregation row: Length adjacent
// leaves sharing a label, drawn into a single element.
type Run struct {
	Label   string
	Index   int // calendar index behind the label: year, 0-based month, day
	Length  int
	Element Element
}

// AggregationRow is an ordered sequence of runs covering the whole range.
type AggregationRow struct {
	Kind RowKind
	Runs []Run
}

// Total returns the leaf count covered by the row.
func (r *AggregationRow) Total() int {
	n := 0
	for i := range r.Runs {
		n += r.Runs[i].Length
	}
	return n
}

// extend run-length-appends one leaf with the given label: the open run grows
// when the label matches, otherwise a new run (and element) is opened.
func (r *AggregationRow) extend(label string, index int, surface Surface) {
	if n := len(r.Runs); n > 0 && r.Runs[n-1].Label == label {
		r.Runs[n-1].Length++
		return
	}
	r.Runs = append(r.Runs, Run{
		Label:   label,
		Index:   index,
		Length:  1,
		Element: surface.NewElement(r.Kind),
	})
}

// TilingResult summarizes the block structure of a tiled range.
type TilingResult struct {
	LeafCount            int
	ResolutionBlockCount int
	FirstShortLength     int
	LastShortLength      int
}

// Tiling is the full logical structure of a tiled range. It is rebuilt from
// scratch on every resolution, range or locale change.
type Tiling struct {
	Resolution     Resolution
	Start, End     time.Time
	NormalStart    time.Time
	NormalEnd      time.Time
	FirstDayOfWeek int
	FirstHour      int

	Leaves []Leaf
	Year   AggregationRow
	Month  AggregationRow
	Day    AggregationRow // populated at Hour resolution only

	Result TilingResult

	// Effective DST shifts at the range edges, kept for position inversion.
	adjustStart time.Duration
	adjustEnd   time.Duration
}

// Empty reports whether the tiling covers no leaves (degenerate range).
func (t *Tiling) Empty() bool { return t.Result.LeafCount == 0 }

// BlockSpan returns the leaf index range of resolution block i. For Hour and
// Day every leaf is its own block; for Week blocks are anchored to the first
// day of week, so a short first block shifts all later spans.
func (t *Tiling) BlockSpan(i int) (start, length int) {
	if t.Resolution != ResolutionWeek {
		return i, 1
	}
	first := t.Result.FirstShortLength
	if first == 0 {
		first = 7
	}
	if i == 0 {
		start = 0
		length = first
	} else {
		start = first + (i-1)*7
		length = 7
	}
	if rem := t.Result.LeafCount - start; rem < length {
		length = rem
	}
	if length < 0 {
		length = 0
	}
	return start, length
}

// tileCursor is the mutable per-step state of the tiling loop, threaded
// explicitly through the resolution strategy instead of captured by closures.
type tileCursor struct {
	weekday  int // 1..7 of the current leaf
	hour     int // 0..23 of the current leaf (Hour resolution)
	pos      int // position inside the current aggregation group
	groupLen int // leaves in the open group
	groups   int // closed groups
}

// resolutionStrategy is the per-resolution variant of the tiling loop:
// leaf labeling, grouping geometry and counter advancement.
type resolutionStrategy interface {
	leafPattern() string
	groupSize() int
	startPos(weekday, hour, firstDay int) int
	advance(c tileCursor) tileCursor
	hasDayRow() bool
}

func strategyFor(r Resolution) resolutionStrategy {
	if r == ResolutionHour {
		return hourStrategy{}
	}
	return weekdayStrategy{}
}

// weekdayStrategy serves both Day and Week resolution: leaves are days and
// the short-block accounting groups them into weeks anchored at the first
// day of week. The two resolutions differ only in what counts as a
// resolution block, which Tile decides from the request.
type weekdayStrategy struct{}

func (weekdayStrategy) leafPattern() string { return "dd" }
func (weekdayStrategy) groupSize() int      { return 7 }
func (weekdayStrategy) startPos(weekday, _, firstDay int) int {
	return (weekday - firstDay + 7) % 7
}
func (weekdayStrategy) advance(c tileCursor) tileCursor {
	c.weekday = c.weekday%7 + 1
	c.pos = (c.pos + 1) % 7
	return c
}
func (weekdayStrategy) hasDayRow() bool { return false }

type hourStrategy struct{}

func (hourStrategy) leafPattern() string { return "HH" }
func (hourStrategy) groupSize() int      { return 24 }
func (hourStrategy) startPos(_, hour, _ int) int {
	return hour
}
func (hourStrategy) advance(c tileCursor) tileCursor {
	c.hour = (c.hour + 1) % 24
	if c.hour == 0 {
		c.weekday = c.weekday%7 + 1
	}
	c.pos = c.hour
	return c
}
func (hourStrategy) hasDayRow() bool { return true }

// Tile walks the range leaf by leaf under DST-corrected stepping and builds
// the aggregation rows and block accounting for it.
//
// A degenerate range (End before Start) yields an empty tiling, not an
// error. An unsupported resolution or missing locale is a configuration
// error for the caller to report.
func Tile(req Request) (*Tiling, error) {
	if !req.Resolution.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedResolution, int(req.Resolution))
	}
	if req.Locale == nil {
		return nil, ErrMissingLocale
	}
	surface := req.Surface
	if surface == nil {
		surface = NopSurface{}
	}

	firstDay := req.FirstDayOfWeek
	if firstDay < 1 || firstDay > 7 {
		firstDay = req.Locale.FirstDayOfWeek()
	}
	if firstDay < 1 || firstDay > 7 {
		firstDay = 1
	}

	t := &Tiling{
		Resolution:     req.Resolution,
		Start:          req.Start,
		End:            req.End,
		FirstDayOfWeek: firstDay,
		FirstHour:      req.Start.Hour(),
		Year:           AggregationRow{Kind: RowYear},
		Month:          AggregationRow{Kind: RowMonth},
		Day:            AggregationRow{Kind: RowDay},
	}
	if req.End.Before(req.Start) {
		t.NormalStart = req.Start
		t.NormalEnd = req.Start
		return t, nil
	}

	resolver := NewResolver(req.Locale)
	interval := req.Resolution.Interval()
	stepper := NewStepper(resolver, interval)
	strategy := strategyFor(req.Resolution)

	t.NormalStart = resolver.Normalize(req.Start)
	t.NormalEnd = resolver.Normalize(req.End)
	if resolver.IsDaylightSaving(req.Start) {
		t.adjustStart = resolver.Adjustment(req.Start)
	}
	if resolver.IsDaylightSaving(req.End) {
		t.adjustEnd = resolver.Adjustment(req.End)
	}

	cur := tileCursor{
		weekday: weekdayNumber(req.Start.Weekday()),
		hour:    req.Start.Hour(),
	}
	cur.pos = strategy.startPos(cur.weekday, cur.hour, firstDay)
	startedMidGroup := cur.pos != 0
	groupSize := strategy.groupSize()

	cursor := req.Start
	prevDST := resolver.IsDaylightSaving(cursor)

	closeGroup := func(c *tileCursor) {
		if c.groupLen == 0 {
			return
		}
		if c.groupLen < groupSize {
			if c.groups == 0 && startedMidGroup {
				t.Result.FirstShortLength = c.groupLen
			} else {
				t.Result.LastShortLength = c.groupLen
			}
		}
		c.groups++
		c.groupLen = 0
	}

	for {
		last := cursor.Add(interval).After(req.End)

		weekPos := (cur.weekday - firstDay + 7) % 7
		position := WeekdayBetween
		switch weekPos {
		case 0:
			position = WeekdayFirst
		case 6:
			position = WeekdayLast
		}
		t.Leaves = append(t.Leaves, Leaf{
			Date:     cursor,
			Label:    req.Locale.FormatDate(cursor, strategy.leafPattern()),
			Weekday:  cur.weekday,
			Position: position,
			DST:      prevDST,
		})
		t.Year.extend(req.Locale.FormatDate(cursor, "yyyy"), cursor.Year(), surface)
		t.Month.extend(req.Locale.FormatDate(cursor, "MM"), int(cursor.Month())-1, surface)
		if strategy.hasDayRow() {
			t.Day.extend(req.Locale.FormatDate(cursor, "dd"), cursor.Day(), surface)
		}

		if cur.pos == 0 {
			closeGroup(&cur)
		}
		cur.groupLen++

		if last {
			break
		}
		boundary := stepper.Step(prevDST, cursor.Add(interval))
		prevDST = resolver.IsDaylightSaving(boundary)
		cursor = boundary
		cur = strategy.advance(cur)
	}
	closeGroup(&cur)

	t.Result.LeafCount = len(t.Leaves)
	if req.Resolution == ResolutionWeek {
		t.Result.ResolutionBlockCount = cur.groups
	} else {
		t.Result.ResolutionBlockCount = t.Result.LeafCount
	}
	return t, nil
}
