package timeline

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tltv/timeline-flow/internal/testutil"
)

// fakeContainer is a ScrollContainer recording its subscription lifecycle.
type fakeContainer struct {
	fn        func(float64)
	subs      int
	cancelled int
}

func (c *fakeContainer) Subscribe(fn func(offsetPx float64)) func() {
	c.fn = fn
	c.subs++
	return func() {
		c.cancelled++
		c.fn = nil
	}
}

func (c *fakeContainer) emit(px float64) {
	if c.fn != nil {
		c.fn(px)
	}
}

func tenYearTiling(t *testing.T) *Tiling {
	t.Helper()
	return mustTile(t, Request{
		Resolution: ResolutionDay,
		Start:      time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC),
		Locale:     utcLocale{},
	})
}

func TestRendererPoolBoundedByViewport(t *testing.T) {
	tiling := tenYearTiling(t)
	require.Equal(t, 3653, tiling.Result.LeafCount)

	surface := &recordSurface{}
	rs := NewRenderState(SizingFixedPixel, 30)
	rs.Recompute(tiling, 1200)

	r := NewRenderer(surface, testutil.NewTestLogger(t), &countingScheduler{})
	r.Rebuild(tiling, rs)

	// 1200/30 visible blocks plus two overscan slots, regardless of the
	// thousands of blocks in the range.
	assert.Equal(t, 42, r.PoolSize())
	assert.Len(t, surface.byKind(RowBlock), 42)
}

func TestRendererPoolFitsShortRange(t *testing.T) {
	tiling := mustTile(t, Request{
		Resolution: ResolutionDay,
		Start:      time.Date(2020, time.April, 1, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2020, time.April, 10, 23, 59, 59, 0, time.UTC),
		Locale:     utcLocale{},
	})
	surface := &recordSurface{}
	rs := NewRenderState(SizingFixedPixel, 30)
	rs.Recompute(tiling, 1000)

	r := NewRenderer(surface, nil, &countingScheduler{})
	r.Rebuild(tiling, rs)

	assert.Equal(t, 10, r.PoolSize(), "everything fits, no virtualization needed")
}

func TestRendererRefillReusesPool(t *testing.T) {
	tiling := tenYearTiling(t)
	surface := &recordSurface{}
	rs := NewRenderState(SizingFixedPixel, 30)
	rs.Recompute(tiling, 1200)

	r := NewRenderer(surface, nil, &countingScheduler{})
	r.Rebuild(tiling, rs)
	r.Arm(nil)
	created := len(surface.elements)

	for _, px := range []float64{600, 3000, 90000, 120} {
		r.SetScrollOffset(px)
	}

	assert.Len(t, surface.elements, created, "scrolling must not allocate elements")
	assert.InDelta(t, 120.0, surface.rowOffset, 1e-9)
	assert.Equal(t, RendererArmed, r.State())
}

func TestRendererScrollWindowLabels(t *testing.T) {
	tiling := nineMonthTiling(t)
	surface := &recordSurface{}
	rs := NewRenderState(SizingFixedPixel, 30)
	rs.Recompute(tiling, 300)
	unit := rs.UnitWidth(tiling)
	require.Positive(t, unit)

	r := NewRenderer(surface, nil, &countingScheduler{})
	r.Rebuild(tiling, rs)
	r.Arm(nil)

	offset := unit * 50
	r.SetScrollOffset(offset)

	blocks := surface.byKind(RowBlock)
	require.NotEmpty(t, blocks)
	assert.Equal(t, tiling.Leaves[50].Label, blocks[0].label,
		"slot 0 maps to the first block at the scroll offset")
	assert.Equal(t, tiling.Leaves[51].Label, blocks[1].label)
	assert.InDelta(t, offset, surface.rowOffset, 1e-9)
}

func TestRendererRepeatedOffsetIsNoop(t *testing.T) {
	tiling := nineMonthTiling(t)
	sched := &countingScheduler{}
	rs := NewRenderState(SizingFixedPixel, 30)
	rs.Recompute(tiling, 300)

	r := NewRenderer(&recordSurface{}, nil, sched)
	r.Rebuild(tiling, rs)
	r.Arm(nil)

	r.SetScrollOffset(600)
	r.SetScrollOffset(600)
	assert.Equal(t, 1, sched.scheduled, "repeating the current offset schedules nothing")
}

func TestRendererTrailingEdgeDebounce(t *testing.T) {
	tiling := nineMonthTiling(t)
	surface := &recordSurface{}
	sched := &pendingScheduler{}
	rs := NewRenderState(SizingFixedPixel, 30)
	rs.Recompute(tiling, 300)

	r := NewRenderer(surface, nil, sched)
	r.Rebuild(tiling, rs)
	r.Arm(nil)
	refillsBefore := surface.offsets

	r.SetScrollOffset(60)
	r.SetScrollOffset(150)
	r.SetScrollOffset(120)

	assert.Equal(t, RendererScrolling, r.State())
	assert.Equal(t, refillsBefore, surface.offsets, "no refill until the burst settles")

	sched.fire()
	assert.Equal(t, RendererArmed, r.State())
	assert.InDelta(t, 120.0, surface.rowOffset, 1e-9, "last offset wins")
	assert.Equal(t, refillsBefore+1, surface.offsets)
}

func TestRendererIdleIgnoresScroll(t *testing.T) {
	tiling := nineMonthTiling(t)
	sched := &countingScheduler{}
	rs := NewRenderState(SizingFixedPixel, 30)
	rs.Recompute(tiling, 300)

	r := NewRenderer(&recordSurface{}, nil, sched)
	r.Rebuild(tiling, rs)

	r.SetScrollOffset(600)
	assert.Zero(t, sched.scheduled)
	assert.Equal(t, RendererIdle, r.State())
}

func TestRendererArmDisarmSymmetry(t *testing.T) {
	tiling := nineMonthTiling(t)
	surface := &recordSurface{}
	sched := &countingScheduler{}
	rs := NewRenderState(SizingFixedPixel, 30)
	rs.Recompute(tiling, 300)

	r := NewRenderer(surface, nil, sched)
	r.Rebuild(tiling, rs)

	container := &fakeContainer{}
	r.Arm(container)
	assert.Equal(t, 1, container.subs)
	assert.Equal(t, RendererArmed, r.State())

	container.emit(150)
	assert.InDelta(t, 150.0, surface.rowOffset, 1e-9)

	r.Disarm()
	assert.Equal(t, 1, container.cancelled)
	assert.Equal(t, RendererIdle, r.State())
	assert.Positive(t, sched.cancelled, "disarm drops any pending refill")

	// A signal after disarm must not reach the renderer.
	before := surface.offsets
	container.emit(900)
	assert.Equal(t, before, surface.offsets)
}

func TestRendererRearmReplacesSubscription(t *testing.T) {
	r := NewRenderer(&recordSurface{}, nil, &countingScheduler{})
	first := &fakeContainer{}
	second := &fakeContainer{}

	r.Arm(first)
	r.Arm(second)
	assert.Equal(t, 1, first.cancelled, "re-arm releases the previous subscription")
	assert.Equal(t, 1, second.subs)
}

func TestRendererWeekBlockStyles(t *testing.T) {
	tiling := mustTile(t, Request{
		Resolution:     ResolutionWeek,
		Start:          time.Date(2020, time.April, 1, 0, 0, 0, 0, time.UTC),
		End:            time.Date(2020, time.December, 1, 23, 59, 59, 0, time.UTC),
		FirstDayOfWeek: 1,
		Locale:         utcLocale{},
	})
	require.Equal(t, 36, tiling.Result.ResolutionBlockCount)

	surface := &recordSurface{}
	rs := NewRenderState(SizingFixedPixel, 30)
	rs.Recompute(tiling, 1200)

	r := NewRenderer(surface, nil, &countingScheduler{})
	r.Rebuild(tiling, rs)

	blocks := surface.byKind(RowBlock)
	require.Len(t, blocks, 36)

	assert.True(t, blocks[0].style.Short, "four-day first block renders short")
	assert.True(t, blocks[0].style.Even)
	assert.False(t, blocks[1].style.Short)
	assert.False(t, blocks[1].style.Even)
	assert.True(t, blocks[35].style.Short, "three-day last block renders short")
}

func TestRendererOffsetClamped(t *testing.T) {
	tiling := nineMonthTiling(t)
	surface := &recordSurface{}
	rs := NewRenderState(SizingFixedPixel, 30)
	rs.Recompute(tiling, 300)
	rendered := rs.RenderedWidth(tiling)

	r := NewRenderer(surface, nil, &countingScheduler{})
	r.Rebuild(tiling, rs)
	r.Arm(nil)

	r.SetScrollOffset(rendered + 10000)
	assert.InDelta(t, rendered-300, surface.rowOffset, 1e-9,
		"offset clamps to the scrollable extent")

	unit := rs.UnitWidth(tiling)
	wantFirst := 1 + int((rendered-300-unit)/unit)
	blocks := surface.byKind(RowBlock)
	assert.Equal(t, tiling.Leaves[wantFirst].Label, blocks[0].label)
}

func TestRendererSlotOutOfBoundsIsSoftFailure(t *testing.T) {
	tiling := nineMonthTiling(t)
	logger, capture := testutil.NewCaptureLogger()
	rs := NewRenderState(SizingFixedPixel, 30)
	rs.Recompute(tiling, 300)

	r := NewRenderer(&recordSurface{}, logger, &countingScheduler{})
	r.Rebuild(tiling, rs)

	r.fillSlot(len(r.pool)+5, 0)
	assert.Equal(t, 1, capture.CountLevel(slog.LevelWarn))
	assert.Contains(t, capture.Messages(), "pool slot out of bounds")
}

func TestRendererRebuildEmptyTilingClearsPool(t *testing.T) {
	tiling := nineMonthTiling(t)
	rs := NewRenderState(SizingFixedPixel, 30)
	rs.Recompute(tiling, 300)

	r := NewRenderer(&recordSurface{}, nil, &countingScheduler{})
	r.Rebuild(tiling, rs)
	require.Positive(t, r.PoolSize())

	r.Rebuild(nil, rs)
	assert.Zero(t, r.PoolSize())
}
