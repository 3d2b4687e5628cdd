package timeline

import (
	"log/slog"
	"sync"
	"time"
)

// LocaleCapability is the full locale/timezone capability a host hands to
// Render. The engine itself consumes only the LocaleSource slice; the name
// tables and clock flag are pass-through data for row labeling and hosts.
type LocaleCapability interface {
	LocaleSource
	MonthNames() [12]string
	WeekdayNames() [7]string
	TwelveHourClock() bool
	TimeZone() string
}

// Config is the widget configuration hosts parse from their own settings
// surface and pass in as a plain struct.
type Config struct {
	SizingMode      SizingMode
	MinUnitWidthPx  int
	FirstDayOfWeek  int // 1..7 override, 0 = take from locale
	YearRowVisible  bool
	MonthRowVisible bool
}

// DefaultConfig returns the widget defaults: percentage sizing, both
// aggregation rows visible.
func DefaultConfig() Config {
	return Config{
		SizingMode:      SizingPercentage,
		MinUnitWidthPx:  DefaultMinUnitWidthPx,
		YearRowVisible:  true,
		MonthRowVisible: true,
	}
}

// Widget ties the tiler, the width calculator and the virtualization
// renderer together behind the public operations: Render, Resize,
// SetScrollOffset and the position/date queries.
//
// All steady-state operations fail soft: bad input clears the render and
// emits a diagnostic instead of returning an error.
type Widget struct {
	mu       sync.Mutex
	log      *slog.Logger
	cfg      Config
	surface  Surface
	scroll   ScrollContainer
	renderer *Renderer

	locale LocaleCapability
	tiling *Tiling
	state  *RenderState
	armed  bool
}

// NewWidget creates a widget drawing on surface and scrolled by container
// (nil for hosts that push offsets directly). A nil scheduler gets the
// debounce timer default.
func NewWidget(cfg Config, surface Surface, container ScrollContainer, logger *slog.Logger, sched RefillScheduler) *Widget {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Widget{
		log:      logger,
		cfg:      cfg,
		surface:  surface,
		scroll:   container,
		renderer: NewRenderer(surface, logger, sched),
		state:    NewRenderState(cfg.SizingMode, cfg.MinUnitWidthPx),
	}
}

// Render performs a full rebuild of the timeline structure. Missing
// resolution, start, end or locale clears the current render with a logged
// diagnostic rather than failing.
func (w *Widget) Render(res Resolution, start, end time.Time, locale LocaleCapability) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !res.Valid() || start.IsZero() || end.IsZero() || locale == nil {
		w.log.Warn("render skipped: incomplete input",
			"resolution", res, "start", start, "end", end, "locale_set", locale != nil)
		w.clearLocked()
		return
	}

	tiling, err := Tile(Request{
		Resolution:     res,
		Start:          start,
		End:            end,
		FirstDayOfWeek: w.cfg.FirstDayOfWeek,
		Locale:         locale,
		Surface:        w.surface,
	})
	if err != nil {
		w.log.Warn("render skipped", "error", err)
		w.clearLocked()
		return
	}
	w.locale = locale
	w.tiling = tiling
	w.state.Recompute(tiling, w.state.ViewportWidthPx)
	w.layoutRowsLocked()
	w.renderer.Rebuild(tiling, w.state)

	if !w.armed && !tiling.Empty() {
		// Scroll subscription is attached on the first successful tiling
		// and held until Close.
		w.renderer.Arm(w.scroll)
		w.armed = true
	}
	w.log.Info("timeline rendered",
		"resolution", res,
		"leaves", tiling.Result.LeafCount,
		"blocks", tiling.Result.ResolutionBlockCount)
}

// Resize recomputes the sizing constants and the pool for a new viewport.
func (w *Widget) Resize(viewportPx int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Recompute(w.tiling, viewportPx)
	if w.tiling == nil {
		return
	}
	w.layoutRowsLocked()
	w.renderer.Rebuild(w.tiling, w.state)
}

// SetScrollOffset schedules a deferred pool refill for the new offset.
func (w *Widget) SetScrollOffset(px float64) {
	w.renderer.SetScrollOffset(px)
}

// PositionForDate maps a date to a pixel offset in the rendered row.
func (w *Widget) PositionForDate(d time.Time) float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.tiling == nil || w.tiling.Empty() {
		return 0
	}
	return DateToPosition(d, w.tiling.Start, w.tiling.End, w.state.RenderedWidth(w.tiling))
}

// DateForPosition maps a pixel offset back to a date.
func (w *Widget) DateForPosition(px float64) time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.PositionToDate(w.tiling, px)
}

// Tiling returns the current logical structure, nil before the first render.
func (w *Widget) Tiling() *Tiling {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tiling
}

// RenderState returns the current sizing constants.
func (w *Widget) RenderState() *RenderState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Renderer exposes the virtualization renderer to hosts that drive refills
// themselves.
func (w *Widget) Renderer() *Renderer { return w.renderer }

// Config returns the widget configuration.
func (w *Widget) Config() Config { return w.cfg }

// Close disarms the renderer, detaching the scroll subscription.
func (w *Widget) Close() {
	w.mu.Lock()
	w.armed = false
	w.mu.Unlock()
	w.renderer.Disarm()
}

func (w *Widget) clearLocked() {
	w.tiling = nil
	w.state.Recompute(nil, w.state.ViewportWidthPx)
	w.renderer.Rebuild(nil, nil)
}

// layoutRowsLocked pushes labels, widths and styles onto the aggregation-row
// elements the tiler created. Month runs are labeled from the locale's name
// table via the run's calendar index.
func (w *Widget) layoutRowsLocked() {
	t := w.tiling
	if t == nil || t.Empty() || w.locale == nil {
		return
	}
	months := w.locale.MonthNames()
	for i := range t.Year.Runs {
		run := &t.Year.Runs[i]
		w.layoutRun(run, run.Label, RowYear, i)
	}
	for i := range t.Month.Runs {
		run := &t.Month.Runs[i]
		label := run.Label
		if run.Index >= 0 && run.Index < len(months) && months[run.Index] != "" {
			label = months[run.Index]
		}
		w.layoutRun(run, label, RowMonth, i)
	}
	for i := range t.Day.Runs {
		run := &t.Day.Runs[i]
		w.layoutRun(run, run.Label, RowDay, i)
	}
}

func (w *Widget) layoutRun(run *Run, label string, kind RowKind, i int) {
	if run.Element == nil {
		return
	}
	run.Element.SetLabel(label)
	run.Element.SetStyle(BlockStyle{Even: i%2 == 0, Kind: kind})
	run.Element.SetWidth(w.state.BlockWidthFor(w.tiling, run.Length))
}
