package timeline

import "time"

// Stepper advances block boundaries by one nominal interval while keeping
// them pinned to the same local wall-clock hour across DST transitions.
type Stepper struct {
	resolver *Resolver
	interval time.Duration
}

// NewStepper returns a Stepper correcting boundaries stepped by interval.
func NewStepper(r *Resolver, interval time.Duration) *Stepper {
	return &Stepper{resolver: r, interval: interval}
}

// Step corrects a raw boundary (cursor + nominal interval) for a DST
// crossing. A naive step across a fall-back under-shoots real elapsed
// wall-clock time and gets the adjustment added back; a naive step across a
// spring-forward over-shoots and gets it subtracted. Boundaries that do not
// cross a transition pass through unchanged.
//
// The correction only applies when the adjustment is smaller than the step
// interval; an adjustment of a full interval (hour steps across a one-hour
// shift) would stall or reverse the cursor, so those boundaries pass through
// uncorrected and the instants stay monotonic and non-overlapping.
func (s *Stepper) Step(prevWasDST bool, boundary time.Time) time.Time {
	adj := s.resolver.Adjustment(boundary)
	if adj == 0 || adj >= s.interval {
		return boundary
	}
	nowDST := s.resolver.IsDaylightSaving(boundary)
	switch {
	case prevWasDST && !nowDST:
		return boundary.Add(adj)
	case !prevWasDST && nowDST:
		return boundary.Add(-adj)
	default:
		return boundary
	}
}
