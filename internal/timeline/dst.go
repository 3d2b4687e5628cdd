package timeline

import "time"

// OffsetSource supplies the UTC offset in effect at an instant, in seconds
// east of UTC. It is the only zone capability the engine depends on.
type OffsetSource interface {
	Offset(t time.Time) int
}

// OffsetFunc adapts a plain function to an OffsetSource.
type OffsetFunc func(t time.Time) int

// Offset implements OffsetSource.
func (f OffsetFunc) Offset(t time.Time) int { return f(t) }

// LocationOffset sources offsets from a time.Location.
type LocationOffset struct {
	Loc *time.Location
}

// Offset implements OffsetSource.
func (l LocationOffset) Offset(t time.Time) int {
	loc := l.Loc
	if loc == nil {
		loc = time.UTC
	}
	_, off := t.In(loc).Zone()
	return off
}

// Resolver classifies instants as daylight-saving or not and reports the
// magnitude of the zone's DST shift for the instant's calendar year.
//
// It samples the offset on January 1 and July 1 of the year. Equal samples
// mean the zone observes no DST that year. Otherwise the smaller sample is
// the standard-time offset and an instant is DST-active when its own offset
// exceeds it. Whichever hemisphere the zone is in, the non-advanced sample is
// by construction the smaller one, so no hemisphere switch is needed.
type Resolver struct {
	src   OffsetSource
	years map[int]yearSamples
}

type yearSamples struct {
	january, july int
}

// NewResolver returns a Resolver sampling offsets from src.
func NewResolver(src OffsetSource) *Resolver {
	return &Resolver{src: src, years: make(map[int]yearSamples)}
}

func (r *Resolver) samples(year int) yearSamples {
	if s, ok := r.years[year]; ok {
		return s
	}
	s := yearSamples{
		january: r.src.Offset(time.Date(year, time.January, 1, 12, 0, 0, 0, time.UTC)),
		july:    r.src.Offset(time.Date(year, time.July, 1, 12, 0, 0, 0, time.UTC)),
	}
	r.years[year] = s
	return s
}

// Adjustment returns the DST shift of t's year, zero for zones without DST.
func (r *Resolver) Adjustment(t time.Time) time.Duration {
	s := r.samples(t.Year())
	diff := s.july - s.january
	if diff < 0 {
		diff = -diff
	}
	return time.Duration(diff) * time.Second
}

// IsDaylightSaving reports whether daylight-saving time is in effect at t.
func (r *Resolver) IsDaylightSaving(t time.Time) bool {
	s := r.samples(t.Year())
	if s.january == s.july {
		return false
	}
	standard := s.january
	if s.july < standard {
		standard = s.july
	}
	return r.src.Offset(t) > standard
}

// Normalize removes the DST adjustment from t, producing the DST-neutral
// "normal date" the geometry uses as a stable reference for boundary math.
func (r *Resolver) Normalize(t time.Time) time.Time {
	adj := r.Adjustment(t)
	if adj == 0 || !r.IsDaylightSaving(t) {
		return t
	}
	return t.Add(-adj)
}
