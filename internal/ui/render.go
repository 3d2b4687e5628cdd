package ui

import (
	"fmt"
	"html/template"
	"log/slog"

	"github.com/tltv/timeline-flow/internal/cli/config"
	"github.com/tltv/timeline-flow/internal/timeline"
)

// htmlElement buffers the label, style and width the widget pushes onto one
// render target; the page template turns it into a block span.
type htmlElement struct {
	kind  timeline.RowKind
	label string
	style timeline.BlockStyle
	width timeline.Width
}

func (e *htmlElement) SetLabel(label string)          { e.label = label }
func (e *htmlElement) SetStyle(s timeline.BlockStyle) { e.style = s }
func (e *htmlElement) SetWidth(w timeline.Width)      { e.width = w }

// htmlSurface collects the elements the widget creates for one server-side
// render pass.
type htmlSurface struct {
	elements  []*htmlElement
	rowOffset float64
}

func (s *htmlSurface) NewElement(kind timeline.RowKind) timeline.Element {
	e := &htmlElement{kind: kind}
	s.elements = append(s.elements, e)
	return e
}

func (s *htmlSurface) SetRowOffset(px float64) { s.rowOffset = px }

func (s *htmlSurface) byKind(kind timeline.RowKind) []*htmlElement {
	var out []*htmlElement
	for _, e := range s.elements {
		if e.kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Cell is one rendered block in a row.
type Cell struct {
	Label string
	Style template.CSS
	Class string
}

// RowView is one labeled row of the rendered timeline.
type RowView struct {
	Name  string
	Cells []Cell
}

// TimelineView is the data the timeline fragment template renders.
type TimelineView struct {
	Resolution  string
	Start       string
	End         string
	Zone        string
	LeafCount   int
	BlockCount  int
	Rows        []RowView
	Blocks      []Cell
	RowOffsetPx float64
	WidthPx     float64
	Err         string
}

// buildTimelineView renders the configured range through the widget onto an
// HTML surface and assembles the fragment data.
func buildTimelineView(cfg *config.Config, logger *slog.Logger) *TimelineView {
	view := &TimelineView{Resolution: cfg.Resolution}

	bundle, err := cfg.Bundle()
	if err != nil {
		view.Err = err.Error()
		return view
	}
	res, err := cfg.ParsedResolution()
	if err != nil {
		view.Err = err.Error()
		return view
	}
	wcfg, err := cfg.WidgetConfig()
	if err != nil {
		view.Err = err.Error()
		return view
	}
	start, end := cfg.RangeIn(bundle.Location())

	surface := &htmlSurface{}
	widget := timeline.NewWidget(wcfg, surface, nil, logger, timeline.ImmediateScheduler{})
	defer widget.Close()
	widget.Resize(cfg.ViewportWidthPx)
	widget.Render(res, start, end, bundle)

	tiling := widget.Tiling()
	if tiling == nil || tiling.Empty() {
		view.Err = "nothing to render for the configured range"
		return view
	}

	view.Start = bundle.FormatDate(start, "yyyy-MM-dd HH:mm")
	view.End = bundle.FormatDate(end, "yyyy-MM-dd HH:mm")
	view.Zone = bundle.TimeZone()
	view.LeafCount = tiling.Result.LeafCount
	view.BlockCount = tiling.Result.ResolutionBlockCount
	view.RowOffsetPx = surface.rowOffset
	view.WidthPx = widget.RenderState().RenderedWidth(tiling)

	if cfg.YearRow {
		view.Rows = append(view.Rows, rowView("year", surface.byKind(timeline.RowYear)))
	}
	if cfg.MonthRow {
		view.Rows = append(view.Rows, rowView("month", surface.byKind(timeline.RowMonth)))
	}
	if res == timeline.ResolutionHour {
		view.Rows = append(view.Rows, rowView("day", surface.byKind(timeline.RowDay)))
	}
	for _, e := range surface.byKind(timeline.RowBlock) {
		view.Blocks = append(view.Blocks, cellFor(e))
	}
	return view
}

func rowView(name string, elements []*htmlElement) RowView {
	row := RowView{Name: name}
	for _, e := range elements {
		row.Cells = append(row.Cells, cellFor(e))
	}
	return row
}

func cellFor(e *htmlElement) Cell {
	class := "cell"
	if e.style.Even {
		class += " even"
	} else {
		class += " odd"
	}
	if e.style.Weekend {
		class += " weekend"
	}
	if e.style.Short {
		class += " short"
	}
	return Cell{
		Label: e.label,
		Style: widthStyle(e.width),
		Class: class,
	}
}

// widthStyle emits the inline width for a block: integer pixels in
// fixed-pixel mode, a fractional percentage otherwise.
func widthStyle(w timeline.Width) template.CSS {
	if w.Mode == timeline.SizingFixedPixel {
		return template.CSS(fmt.Sprintf("width:%.0fpx", w.Px))
	}
	return template.CSS(fmt.Sprintf("width:%.4f%%", w.Pct))
}
