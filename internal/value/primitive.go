package value

import "math"

// epsilon mirrors the ten-epsilon floor the replication engine this is
// modeled on uses when a configured threshold would otherwise be zero or
// negative (Math::Epsilon() * 10 in the original).
const epsilon = 2.22e-15

// NonZeroAbs normalizes a single configured primitive member (a delta
// threshold or snap threshold component) to a strictly positive magnitude:
// floating members below epsilon become epsilon, integral members below 1
// become 1. A zero or negative threshold would otherwise make every
// change "infinitely large" and defeat hysteresis entirely.
func NonZeroAbs(x float64, integral bool) float64 {
	if integral {
		a := math.Abs(math.Round(x))
		if a < 1 {
			return 1
		}
		return a
	}
	a := math.Abs(x)
	if a <= epsilon {
		return epsilon
	}
	return a
}

// Converge computes the per-member convergence step from current toward
// target at the given weight. For floating members this is a plain lerp.
// For integral members the lerp result is rounded, and if rounding lands
// back on the current value while current != target, the result is
// nudged one unit toward target: this is the integral-progress guarantee
// that keeps an integral property from getting permanently stuck short of
// its target when the weight is too small to move a whole unit.
func Converge(current, target, weight float64, integral bool) float64 {
	lerped := current + (target-current)*weight
	if !integral {
		return lerped
	}
	rounded := math.Round(lerped)
	if rounded == current && current != target {
		if target > current {
			return current + 1
		}
		return current - 1
	}
	return rounded
}
