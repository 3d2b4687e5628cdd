package timeline

import (
	"math"
	"time"
)

// DefaultMinUnitWidthPx is the narrowest a resolution block may render; it
// is what bounds the virtualization pool for long ranges.
const DefaultMinUnitWidthPx = 30

// RenderState holds the sizing constants derived from a tiling and the
// viewport. It is owned by the width calculator and recomputed whenever the
// tiling or the container size changes; everything on it is plain data the
// renderer and hosts read.
type RenderState struct {
	Mode              SizingMode
	MinUnitWidthPx    int
	PerUnitPixelWidth int     // fixed-pixel mode: width of one leaf
	PercentagePerUnit float64 // percentage mode: width of one leaf
	ScrollOffsetPx    float64
	ViewportWidthPx   int
}

// NewRenderState returns a RenderState for the given mode. A non-positive
// minUnitWidthPx falls back to DefaultMinUnitWidthPx.
func NewRenderState(mode SizingMode, minUnitWidthPx int) *RenderState {
	if minUnitWidthPx <= 0 {
		minUnitWidthPx = DefaultMinUnitWidthPx
	}
	return &RenderState{Mode: mode, MinUnitWidthPx: minUnitWidthPx}
}

// Recompute derives the per-unit constants for a tiling and viewport width.
func (s *RenderState) Recompute(t *Tiling, viewportPx int) {
	s.ViewportWidthPx = viewportPx
	s.PerUnitPixelWidth = 0
	s.PercentagePerUnit = 0
	if t == nil || t.Empty() {
		return
	}
	n := t.Result.LeafCount
	s.PercentagePerUnit = 100.0 / float64(n)
	if s.Mode == SizingFixedPixel && viewportPx > 0 {
		w := int(math.Ceil(float64(viewportPx) / float64(n)))
		// Close the right-edge gap integer rounding can leave.
		for n*w < viewportPx {
			w++
		}
		s.PerUnitPixelWidth = w
	}
}

// RenderedWidth returns the full pixel width of the tiled row: the viewport
// itself in percentage mode, leafCount times the per-unit width in
// fixed-pixel mode.
func (s *RenderState) RenderedWidth(t *Tiling) float64 {
	if t == nil || t.Empty() {
		return 0
	}
	if s.Mode == SizingFixedPixel {
		return float64(t.Result.LeafCount * s.PerUnitPixelWidth)
	}
	return float64(s.ViewportWidthPx)
}

// UnitWidth returns the pixel width of one leaf block.
func (s *RenderState) UnitWidth(t *Tiling) float64 {
	if t == nil || t.Empty() {
		return 0
	}
	return s.RenderedWidth(t) / float64(t.Result.LeafCount)
}

// WidthPct returns the percentage width of n leaves out of total. Rows that
// follow resolution blocks pass ResolutionBlockCount as total instead of
// LeafCount.
func WidthPct(n, total int) float64 {
	if total <= 0 {
		return 0
	}
	return 100.0 * float64(n) / float64(total)
}

// BlockWidthFor returns the Width of n leaves under the current sizing mode.
func (s *RenderState) BlockWidthFor(t *Tiling, n int) Width {
	return Width{
		Px:   float64(n) * s.UnitWidth(t),
		Pct:  WidthPct(n, tLeafCount(t)),
		Mode: s.Mode,
	}
}

func tLeafCount(t *Tiling) int {
	if t == nil {
		return 0
	}
	return t.Result.LeafCount
}

// DateToPosition maps a date inside [start, end] onto a pixel offset in a
// row of renderedWidth. Degenerate ranges map everything to zero.
func DateToPosition(d, start, end time.Time, renderedWidth float64) float64 {
	total := end.Sub(start)
	if total <= 0 || renderedWidth <= 0 {
		return 0
	}
	return renderedWidth * float64(d.Sub(start)) / float64(total)
}

// PositionToDate inverts the linear mapping against the DST-neutral normal
// start and end of the tiling. The effective range length is corrected by the
// signed difference between the DST adjustments at the range edges, which
// restores the absolute Start..End span when the edges sit in different DST
// states and is zero otherwise. The position is clamped to [0, renderedWidth].
func (s *RenderState) PositionToDate(t *Tiling, pos float64) time.Time {
	if t == nil || t.Empty() {
		return time.Time{}
	}
	rendered := s.RenderedWidth(t)
	length := t.NormalEnd.Sub(t.NormalStart) + t.adjustEnd - t.adjustStart
	if rendered <= 0 || length <= 0 {
		return t.Start
	}
	if pos < 0 {
		pos = 0
	}
	if pos > rendered {
		pos = rendered
	}
	offset := time.Duration(pos / rendered * float64(length))
	return t.NormalStart.Add(offset).Add(t.adjustStart)
}
