package tui

import (
	"github.com/tltv/timeline-flow/internal/timeline"
)

// cellElement buffers the label, style and width the widget pushes onto one
// render target. One terminal column stands in for one pixel, so spans come
// out directly in columns.
type cellElement struct {
	label string
	style timeline.BlockStyle
	width timeline.Width
}

func (e *cellElement) SetLabel(label string)          { e.label = label }
func (e *cellElement) SetStyle(s timeline.BlockStyle) { e.style = s }
func (e *cellElement) SetWidth(w timeline.Width)      { e.width = w }

// span returns the element width in terminal columns.
func (e *cellElement) span() int {
	return int(e.width.Px)
}

// cellSurface is the terminal render surface. It tracks only the block pool:
// aggregation-row elements stay reachable through the tiling's runs, so they
// need no bookkeeping here. The pool is recreated on every structural
// rebuild, hence resetPool before each Render or Resize.
type cellSurface struct {
	pool      []*cellElement
	rowOffset float64
}

func (s *cellSurface) NewElement(kind timeline.RowKind) timeline.Element {
	e := &cellElement{}
	if kind == timeline.RowBlock {
		s.pool = append(s.pool, e)
	}
	return e
}

func (s *cellSurface) SetRowOffset(px float64) { s.rowOffset = px }

func (s *cellSurface) resetPool() {
	s.pool = s.pool[:0]
	s.rowOffset = 0
}
