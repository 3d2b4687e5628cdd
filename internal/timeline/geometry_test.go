package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nineMonthTiling(t *testing.T) *Tiling {
	t.Helper()
	return mustTile(t, Request{
		Resolution: ResolutionDay,
		Start:      time.Date(2020, time.April, 1, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2020, time.December, 1, 23, 59, 59, 0, time.UTC),
		Locale:     utcLocale{},
	})
}

func TestRenderStatePercentageMode(t *testing.T) {
	tiling := nineMonthTiling(t)
	state := NewRenderState(SizingPercentage, 0)
	state.Recompute(tiling, 1000)

	assert.Equal(t, DefaultMinUnitWidthPx, state.MinUnitWidthPx)
	assert.InDelta(t, 100.0/245.0, state.PercentagePerUnit, 1e-9)
	assert.Zero(t, state.PerUnitPixelWidth, "pixel width is fixed-pixel mode only")
	assert.InDelta(t, 1000.0, state.RenderedWidth(tiling), 1e-9,
		"percentage mode fills the viewport exactly")
}

func TestRenderStateFixedPixel(t *testing.T) {
	tiling := nineMonthTiling(t)
	state := NewRenderState(SizingFixedPixel, 0)
	state.Recompute(tiling, 1000)

	// ceil(1000/245) = 5; 245 blocks cover the viewport with headroom.
	assert.Equal(t, 5, state.PerUnitPixelWidth)
	assert.InDelta(t, 1225.0, state.RenderedWidth(tiling), 1e-9)
	assert.GreaterOrEqual(t, int(state.RenderedWidth(tiling)), state.ViewportWidthPx,
		"rendered row never leaves a gap at the right edge")
	assert.InDelta(t, 5.0, state.UnitWidth(tiling), 1e-9)
}

func TestRenderStateFixedPixelExactFit(t *testing.T) {
	tiling := mustTile(t, Request{
		Resolution: ResolutionDay,
		Start:      time.Date(2020, time.April, 1, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2020, time.April, 10, 23, 59, 59, 0, time.UTC),
		Locale:     utcLocale{},
	})
	require.Equal(t, 10, tiling.Result.LeafCount)

	state := NewRenderState(SizingFixedPixel, 0)
	state.Recompute(tiling, 400)
	assert.Equal(t, 40, state.PerUnitPixelWidth)
	assert.InDelta(t, 400.0, state.RenderedWidth(tiling), 1e-9)
}

func TestRenderStateEmptyTiling(t *testing.T) {
	state := NewRenderState(SizingFixedPixel, 25)
	state.Recompute(nil, 1000)
	assert.Zero(t, state.PerUnitPixelWidth)
	assert.Zero(t, state.PercentagePerUnit)
	assert.Zero(t, state.RenderedWidth(nil))
	assert.Zero(t, state.UnitWidth(nil))
	assert.True(t, state.PositionToDate(nil, 100).IsZero())

	empty := mustTile(t, Request{
		Resolution: ResolutionDay,
		Start:      time.Date(2020, time.April, 2, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2020, time.April, 1, 0, 0, 0, 0, time.UTC),
		Locale:     utcLocale{},
	})
	state.Recompute(empty, 1000)
	assert.Zero(t, state.RenderedWidth(empty))
	assert.True(t, state.PositionToDate(empty, 100).IsZero())
}

func TestWidthPct(t *testing.T) {
	assert.InDelta(t, 100.0*7/245, WidthPct(7, 245), 1e-9)
	assert.InDelta(t, 100.0, WidthPct(245, 245), 1e-9)
	assert.Zero(t, WidthPct(7, 0))
}

func TestBlockWidthFor(t *testing.T) {
	tiling := nineMonthTiling(t)
	state := NewRenderState(SizingFixedPixel, 0)
	state.Recompute(tiling, 1000)

	w := state.BlockWidthFor(tiling, 30)
	assert.InDelta(t, 150.0, w.Px, 1e-9)
	assert.InDelta(t, 100.0*30/245, w.Pct, 1e-9)
	assert.Equal(t, SizingFixedPixel, w.Mode)
}

func TestDateToPosition(t *testing.T) {
	start := time.Date(2020, time.April, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2020, time.April, 11, 0, 0, 0, 0, time.UTC)

	assert.Zero(t, DateToPosition(start, start, end, 500))
	assert.InDelta(t, 500.0, DateToPosition(end, start, end, 500), 1e-9)
	mid := start.Add(5 * 24 * time.Hour)
	assert.InDelta(t, 250.0, DateToPosition(mid, start, end, 500), 1e-9)

	assert.Zero(t, DateToPosition(mid, end, start, 500), "degenerate range maps to zero")
	assert.Zero(t, DateToPosition(mid, start, end, 0))
}

func TestPositionDateRoundTripUTC(t *testing.T) {
	tiling := nineMonthTiling(t)
	state := NewRenderState(SizingFixedPixel, 0)
	state.Recompute(tiling, 1000)
	rendered := state.RenderedWidth(tiling)

	for _, i := range []int{0, 1, 60, 122, 244} {
		leaf := tiling.Leaves[i].Date
		pos := DateToPosition(leaf, tiling.Start, tiling.End, rendered)
		back := state.PositionToDate(tiling, pos)
		assert.WithinDuration(t, leaf, back, time.Second, "leaf %d", i)
	}
}

// Hour resolution across a spring-forward: the inversion corrects the range
// length by the edge adjustments, so positions on either side of the
// transition land back on the leaf they came from.
func TestPositionDateRoundTripSpringForward(t *testing.T) {
	la := losAngeles(t)
	tiling := mustTile(t, Request{
		Resolution: ResolutionHour,
		Start:      time.Date(2020, time.March, 8, 0, 0, 0, 0, la),
		End:        time.Date(2020, time.March, 8, 5, 59, 59, 0, la),
		Locale:     zoneLocale{loc: la},
	})
	// 00, 01, then 03..05: the 02:00 hour does not exist.
	require.Equal(t, 5, tiling.Result.LeafCount)

	state := NewRenderState(SizingFixedPixel, 0)
	state.Recompute(tiling, 500)
	rendered := state.RenderedWidth(tiling)

	for i, leaf := range tiling.Leaves {
		pos := DateToPosition(leaf.Date, tiling.Start, tiling.End, rendered)
		back := state.PositionToDate(tiling, pos)
		assert.WithinDuration(t, leaf.Date, back, time.Second, "leaf %d", i)
	}
}

// Day resolution across the same transition: the edge correction is not an
// Hour-only concern, so a day range whose start and end sit in different DST
// states must invert exactly too.
func TestPositionDateRoundTripSpringForwardDays(t *testing.T) {
	la := losAngeles(t)
	tiling := mustTile(t, Request{
		Resolution: ResolutionDay,
		Start:      time.Date(2020, time.March, 7, 0, 0, 0, 0, la),
		End:        time.Date(2020, time.March, 10, 23, 59, 59, 0, la),
		Locale:     zoneLocale{loc: la},
	})
	require.Equal(t, 4, tiling.Result.LeafCount)

	state := NewRenderState(SizingFixedPixel, 0)
	state.Recompute(tiling, 400)
	rendered := state.RenderedWidth(tiling)

	for i, leaf := range tiling.Leaves {
		pos := DateToPosition(leaf.Date, tiling.Start, tiling.End, rendered)
		back := state.PositionToDate(tiling, pos)
		assert.WithinDuration(t, leaf.Date, back, time.Second, "leaf %d", i)
	}
}

func TestPositionDateRoundTripFallBack(t *testing.T) {
	la := losAngeles(t)
	tiling := mustTile(t, Request{
		Resolution: ResolutionHour,
		Start:      time.Date(2020, time.October, 31, 22, 0, 0, 0, la),
		End:        time.Date(2020, time.November, 1, 4, 59, 59, 0, la),
		Locale:     zoneLocale{loc: la},
	})

	state := NewRenderState(SizingFixedPixel, 0)
	state.Recompute(tiling, 600)
	rendered := state.RenderedWidth(tiling)

	for i, leaf := range tiling.Leaves {
		pos := DateToPosition(leaf.Date, tiling.Start, tiling.End, rendered)
		back := state.PositionToDate(tiling, pos)
		assert.WithinDuration(t, leaf.Date, back, time.Second, "leaf %d", i)
	}
}

func TestPositionToDateClamping(t *testing.T) {
	tiling := nineMonthTiling(t)
	state := NewRenderState(SizingFixedPixel, 0)
	state.Recompute(tiling, 1000)
	rendered := state.RenderedWidth(tiling)

	assert.WithinDuration(t, tiling.Start, state.PositionToDate(tiling, -50), time.Second)
	atEnd := state.PositionToDate(tiling, rendered+500)
	assert.WithinDuration(t, state.PositionToDate(tiling, rendered), atEnd, time.Second)
	assert.False(t, atEnd.After(tiling.End))
}
