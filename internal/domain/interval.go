package domain

import "time"

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps is the only overlap test used for conflict decisions.
// Intervals that merely touch (one ends where the other starts) do not overlap.
// Repository queries express the same predicate as "start_time < ? AND end_time > ?".
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

func (iv Interval) Overlaps(other Interval) bool {
	return Overlaps(iv.Start, iv.End, other.Start, other.End)
}

// OverlapsAny reports whether iv intersects at least one interval of set.
func (iv Interval) OverlapsAny(set []Interval) bool {
	for _, busy := range set {
		if iv.Overlaps(busy) {
			return true
		}
	}
	return false
}
