package timeline

// RowKind identifies which timeline row an element belongs to.
type RowKind int

const (
	// RowYear is the topmost aggregation row.
	RowYear RowKind = iota
	// RowMonth is the month aggregation row.
	RowMonth
	// RowDay is the day aggregation row shown at Hour resolution.
	RowDay
	// RowBlock is the resolution-block row the pool scrolls through.
	RowBlock
)

func (k RowKind) String() string {
	switch k {
	case RowYear:
		return "year"
	case RowMonth:
		return "month"
	case RowDay:
		return "day"
	default:
		return "block"
	}
}

// Width is a block width in both sizing vocabularies. Hosts pick whichever
// their surface understands; Mode says which one the calculator considers
// authoritative.
type Width struct {
	Px   float64
	Pct  float64
	Mode SizingMode
}

// BlockStyle carries the deterministic styling inputs for a block. Everything
// here derives from the block's position in the range, never from prior slot
// state, so refilling a slot in place fully resets its appearance.
type BlockStyle struct {
	Even    bool
	Weekend bool
	Short   bool
	Kind    RowKind
}

// Element is an opaque render target owned by the host surface. The engine
// only ever relabels, restyles and resizes elements; creating and destroying
// them is the surface's business.
type Element interface {
	SetLabel(label string)
	SetStyle(style BlockStyle)
	SetWidth(w Width)
}

// Surface is the host-owned render surface the widget draws on. NewElement is
// called once per aggregation run and once per pool slot on structural
// rebuild; SetRowOffset translates the resolution row during scrolling.
type Surface interface {
	NewElement(kind RowKind) Element
	SetRowOffset(px float64)
}

// NopSurface discards all rendering. It backs pure tiling queries such as the
// inspect command, where only the logical structure matters.
type NopSurface struct{}

// NewElement implements Surface.
func (NopSurface) NewElement(RowKind) Element { return nopElement{} }

// SetRowOffset implements Surface.
func (NopSurface) SetRowOffset(float64) {}

type nopElement struct{}

func (nopElement) SetLabel(string)     {}
func (nopElement) SetStyle(BlockStyle) {}
func (nopElement) SetWidth(Width)      {}
