package timeline

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultRefillDelay is the trailing-edge debounce applied to scroll signals
// before the pool is refilled.
const DefaultRefillDelay = 50 * time.Millisecond

// RendererState is the lifecycle state of the virtualization renderer.
type RendererState int

const (
	// RendererIdle means no scroll subscription is attached.
	RendererIdle RendererState = iota
	// RendererArmed means the subscription is live and the pool is current.
	RendererArmed
	// RendererScrolling means a refill is pending for a new offset.
	RendererScrolling
)

func (s RendererState) String() string {
	switch s {
	case RendererArmed:
		return "armed"
	case RendererScrolling:
		return "scrolling"
	default:
		return "idle"
	}
}

// ScrollContainer is the shared scroll-position resource a host exposes. The
// renderer subscribes on arm and must unsubscribe on disarm so no callback
// outlives the widget.
type ScrollContainer interface {
	Subscribe(fn func(offsetPx float64)) (cancel func())
}

// RefillScheduler defers a refill and coalesces bursts of scroll signals:
// scheduling again before the delay elapses replaces the pending call
// (trailing-edge debounce, last signal wins).
type RefillScheduler interface {
	Schedule(delay time.Duration, fn func())
	Cancel()
}

// NewTimerScheduler returns the production scheduler backed by a timer owned
// by the renderer instance.
func NewTimerScheduler() RefillScheduler { return &timerScheduler{} }

type timerScheduler struct {
	mu    sync.Mutex
	timer *time.Timer
}

func (s *timerScheduler) Schedule(delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(delay, fn)
}

func (s *timerScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// ImmediateScheduler runs refills synchronously. Hosts that already coalesce
// input (and tests) use it in place of the timer.
type ImmediateScheduler struct{}

// Schedule implements RefillScheduler.
func (ImmediateScheduler) Schedule(_ time.Duration, fn func()) { fn() }

// Cancel implements RefillScheduler.
func (ImmediateScheduler) Cancel() {}

// Renderer maintains the bounded, reused pool of block elements and keeps it
// synced to the scroll position. The pool is created once per structural
// rebuild and only mutated in place afterwards: element churn per scroll is
// O(poolSize) regardless of range length.
type Renderer struct {
	mu      sync.Mutex
	log     *slog.Logger
	surface Surface
	sched   RefillScheduler
	delay   time.Duration

	state       RendererState
	tiling      *Tiling
	renderState *RenderState
	pool        []Element
	firstBlock  int // block index currently mapped to pool slot 0
	lastOffset  float64
	unsubscribe func()
}

// NewRenderer returns a renderer drawing on surface. A nil scheduler gets
// the timer-backed default; a nil logger discards diagnostics.
func NewRenderer(surface Surface, logger *slog.Logger, sched RefillScheduler) *Renderer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if sched == nil {
		sched = NewTimerScheduler()
	}
	if surface == nil {
		surface = NopSurface{}
	}
	return &Renderer{
		log:     logger,
		surface: surface,
		sched:   sched,
		delay:   DefaultRefillDelay,
		state:   RendererIdle,
	}
}

// State returns the renderer lifecycle state.
func (r *Renderer) State() RendererState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// PoolSize returns the current element pool size.
func (r *Renderer) PoolSize() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pool)
}

// FirstBlock returns the block index currently mapped to pool slot 0. Hosts
// that lay the pool out themselves use it to place the row.
func (r *Renderer) FirstBlock() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.firstBlock
}

// Arm attaches the scroll subscription. Called on the first successful
// tiling; calling it again replaces the previous subscription.
func (r *Renderer) Arm(container ScrollContainer) {
	r.mu.Lock()
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
	if container != nil {
		r.unsubscribe = container.Subscribe(r.SetScrollOffset)
	}
	r.state = RendererArmed
	r.mu.Unlock()
	r.log.Debug("renderer armed")
}

// Disarm cancels any pending refill and detaches the scroll subscription.
// Mount/unmount symmetry: every Arm needs a Disarm or the subscription
// outlives the widget.
func (r *Renderer) Disarm() {
	r.sched.Cancel()
	r.mu.Lock()
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
	r.state = RendererIdle
	r.mu.Unlock()
	r.log.Debug("renderer disarmed")
}

// Rebuild sizes the pool for a new tiling and render state and fills it for
// the current scroll offset. A structural rebuild supersedes any pending
// deferred refill.
func (r *Renderer) Rebuild(t *Tiling, rs *RenderState) {
	r.sched.Cancel()
	r.mu.Lock()
	r.tiling = t
	r.renderState = rs
	r.pool = r.pool[:0]
	r.firstBlock = 0
	if t == nil || t.Empty() || rs == nil {
		r.mu.Unlock()
		return
	}

	blocks := t.Result.ResolutionBlockCount
	size := blocks
	if blocks*rs.MinUnitWidthPx > rs.ViewportWidthPx {
		// Pool bound: what fits the viewport at minimum width, plus two
		// overscan slots to absorb partial blocks at the edges.
		size = rs.ViewportWidthPx/rs.MinUnitWidthPx + 2
		if size > blocks {
			size = blocks
		}
	}
	r.pool = make([]Element, size)
	for i := range r.pool {
		r.pool[i] = r.surface.NewElement(RowBlock)
	}
	offset := r.lastOffset
	r.mu.Unlock()

	r.log.Debug("pool rebuilt", "blocks", blocks, "pool", size)
	r.refill(offset)
}

// SetScrollOffset schedules a deferred refill for the new offset. Repeating
// the current offset is a no-op; a newer offset cancels and replaces a
// pending refill.
func (r *Renderer) SetScrollOffset(px float64) {
	r.mu.Lock()
	if r.state == RendererIdle || px == r.lastOffset {
		r.mu.Unlock()
		return
	}
	r.state = RendererScrolling
	r.lastOffset = px
	delay := r.delay
	r.mu.Unlock()

	r.sched.Schedule(delay, func() { r.refill(px) })
}

// refill relabels and restyles every pool slot for the window visible at
// offset, then translates the row. No slot is created or destroyed.
func (r *Renderer) refill(offset float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, rs := r.tiling, r.renderState
	if t == nil || t.Empty() || rs == nil || len(r.pool) == 0 {
		return
	}

	rendered := rs.RenderedWidth(t)
	unit := rs.UnitWidth(t)
	blocks := t.Result.ResolutionBlockCount
	if rendered <= 0 || unit <= 0 || blocks == 0 {
		return
	}
	if offset < 0 {
		offset = 0
	}
	if limit := rendered - float64(rs.ViewportWidthPx); limit > 0 && offset > limit {
		offset = limit
	}

	// Left edge of the first visible resolution block, short first block
	// accounted for.
	_, firstLen := t.BlockSpan(0)
	firstW := unit * float64(firstLen)
	fullW := unit * float64(t.leavesPerBlock())
	firstIdx := 0
	if offset >= firstW && fullW > 0 {
		firstIdx = 1 + int((offset-firstW)/fullW)
	}
	if firstIdx > blocks-len(r.pool) {
		firstIdx = blocks - len(r.pool)
	}
	if firstIdx < 0 {
		firstIdx = 0
	}
	r.firstBlock = firstIdx

	windowEnd := offset + float64(rs.ViewportWidthPx)
	if windowEnd > rendered {
		windowEnd = rendered
	}
	r.log.Debug("refill",
		"offset", offset,
		"first_block", firstIdx,
		"window_start", rs.PositionToDate(t, offset),
		"window_end", rs.PositionToDate(t, windowEnd))

	for s := 0; s < len(r.pool); s++ {
		r.fillSlot(s, firstIdx+s)
	}
	r.surface.SetRowOffset(offset)
	if r.state == RendererScrolling {
		r.state = RendererArmed
	}
}

// fillSlot redraws one pool slot for one resolution block. An index outside
// the pool bounds is a soft failure (possible transiently after a resize
// race): logged, skipped, never fatal.
func (r *Renderer) fillSlot(slot, block int) {
	if slot < 0 || slot >= len(r.pool) {
		r.log.Warn("pool slot out of bounds", "slot", slot, "pool", len(r.pool))
		return
	}
	t, rs := r.tiling, r.renderState
	if block < 0 || block >= t.Result.ResolutionBlockCount {
		return
	}
	start, length := t.BlockSpan(block)
	if length == 0 || start >= len(t.Leaves) {
		return
	}
	leaf := t.Leaves[start]

	el := r.pool[slot]
	el.SetLabel(leaf.Label)
	el.SetStyle(BlockStyle{
		Even:    block%2 == 0,
		Weekend: leaf.Weekday == 1 || leaf.Weekday == 7,
		Short:   length < t.leavesPerBlock(),
		Kind:    RowBlock,
	})
	el.SetWidth(rs.BlockWidthFor(t, length))
}

// leavesPerBlock is the leaf count of a full resolution block.
func (t *Tiling) leavesPerBlock() int {
	if t.Resolution == ResolutionWeek {
		return 7
	}
	return 1
}
