// Package curve implements the per-primitive-member received-value point
// set a Property interpolates through: a sparse, timestamp-sorted history
// of incoming values, garbage collected on a sliding one-second window and
// baked into a fixed-interval sample table that SampleFunction walks.
//
// Interpolation curve type is declared but forced to linear end to end in
// this engine (see DESIGN.md's resolution of the corresponding open
// question), so Bake and SampleFunction only ever linearly interpolate.
package curve

import "sort"

// Point is one received sample: a timestamp in seconds and the member's
// value at that time.
type Point struct {
	Timestamp float64
	Value     float64
}

// gcWindow is the sliding window, in seconds, behind "now" that points are
// allowed to persist in before being garbage collected. Matches the
// one-second window the engine this is modeled on uses.
const gcWindow = 1.0

// bakeInterval is the fixed spacing, in seconds, between baked curve
// samples.
const bakeInterval = 0.05

// History is the raw, sorted point set for one primitive member.
type History struct {
	points []Point
}

// Insert adds a new received point, rejecting stale points below the
// garbage-collection window and then collecting anything now stale.
// Rejected points are dropped silently: a stale sample is not an error,
// it is simply too late to matter. Insertion is idempotent on equal
// timestamp: a point whose timestamp matches one already stored replaces
// nothing and leaves the history unchanged.
func (h *History) Insert(now, timestamp, v float64) {
	minTimestamp := now - gcWindow
	if timestamp < minTimestamp {
		return
	}

	idx := sort.Search(len(h.points), func(i int) bool { return h.points[i].Timestamp >= timestamp })
	if idx < len(h.points) && h.points[idx].Timestamp == timestamp {
		return
	}
	h.points = append(h.points, Point{})
	copy(h.points[idx+1:], h.points[idx:])
	h.points[idx] = Point{Timestamp: timestamp, Value: v}

	h.collect(minTimestamp)
}

// collect drops points from the front of the history while more than two
// remain and the two oldest are both behind minTimestamp: keeping at least
// two points at all times means there is always a segment to interpolate
// through even right after a collection pass.
func (h *History) collect(minTimestamp float64) {
	for len(h.points) > 2 && h.points[0].Timestamp < minTimestamp && h.points[1].Timestamp < minTimestamp {
		h.points = h.points[1:]
	}
}

// Len reports how many raw points are currently retained.
func (h *History) Len() int { return len(h.points) }

// Baked is the fixed-interval sample table produced by Bake, which
// SampleFunction walks to answer an arbitrary-timestamp query in O(log n)
// without re-walking the sparse raw history each time.
type Baked struct {
	points []Point
}

// Bake resamples the raw history at a fixed interval between its first and
// last timestamp, linearly interpolating between bracketing raw points.
// An empty or single-point history bakes to an empty table: there is
// nothing to interpolate through yet.
func (h *History) Bake() Baked {
	if len(h.points) < 2 {
		return Baked{}
	}
	start := h.points[0].Timestamp
	end := h.points[len(h.points)-1].Timestamp

	var baked []Point
	for t := start; t < end; t += bakeInterval {
		baked = append(baked, Point{Timestamp: t, Value: h.interpolate(t)})
	}
	baked = append(baked, Point{Timestamp: end, Value: h.points[len(h.points)-1].Value})
	return Baked{points: baked}
}

func (h *History) interpolate(t float64) float64 {
	pts := h.points
	i := sort.Search(len(pts), func(i int) bool { return pts[i].Timestamp >= t })
	if i == 0 {
		return pts[0].Value
	}
	if i >= len(pts) {
		return pts[len(pts)-1].Value
	}
	if pts[i].Timestamp == t {
		return pts[i].Value
	}
	a, b := pts[i-1], pts[i]
	span := b.Timestamp - a.Timestamp
	if span <= 0 {
		return a.Value
	}
	frac := (t - a.Timestamp) / span
	return a.Value + (b.Value-a.Value)*frac
}

// Size reports how many baked samples are present.
func (b Baked) Size() int { return len(b.points) }

// SampleFunction evaluates the baked curve at an arbitrary timestamp,
// clamping to the first/last sample outside the baked range: the curve
// never extrapolates beyond what it was baked from.
func (b Baked) SampleFunction(t float64) (float64, bool) {
	if len(b.points) == 0 {
		return 0, false
	}
	pts := b.points
	if t <= pts[0].Timestamp {
		return pts[0].Value, true
	}
	if t >= pts[len(pts)-1].Timestamp {
		return pts[len(pts)-1].Value, true
	}
	i := sort.Search(len(pts), func(i int) bool { return pts[i].Timestamp >= t })
	if pts[i].Timestamp == t {
		return pts[i].Value, true
	}
	a, b2 := pts[i-1], pts[i]
	span := b2.Timestamp - a.Timestamp
	if span <= 0 {
		return a.Value, true
	}
	frac := (t - a.Timestamp) / span
	return a.Value + (b2.Value-a.Value)*frac, true
}
