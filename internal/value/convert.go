package value

import (
	"github.com/hollis-tate/repliprop/internal/kind"
)

// ConvertArithmetic converts src, component by component, into the given
// destination kind using plain language-level numeric conversion: an
// integral destination truncates toward zero, exactly as a C-style cast
// does, with no rounding and no clamping to the destination's range. It
// fails (ok=false) if src is empty, src's kind is not arithmetic, or
// dstKind is not arithmetic: converting between arithmetic and
// non-arithmetic kinds, or converting in place, is a contract violation
// the caller must not attempt.
//
// When the primitive counts differ (e.g. Vector3 source into a Vector4
// destination) only the overlapping prefix is converted; the rest of the
// destination's members are left at zero. This mirrors the underlying
// engine's per-primitive-member dispatch, which never itself implies
// shape compatibility beyond "dispatch over min(count) members".
func ConvertArithmetic(src Value, dstKind kind.Kind) (Value, bool) {
	if src.IsEmpty() {
		return Value{}, false
	}
	sd := kind.Lookup(src.Kind())
	dd := kind.Lookup(dstKind)
	if sd == nil || dd == nil || !sd.Arithmetic || !dd.Arithmetic {
		return Value{}, false
	}

	n := sd.PrimitiveCount
	if dd.PrimitiveCount < n {
		n = dd.PrimitiveCount
	}

	members := make([]float64, dd.PrimitiveCount)
	for i := 0; i < n; i++ {
		members[i] = convertScalar(src.prim[i], dd)
	}
	return NewArithmetic(dstKind, members...), true
}

// convertScalar applies the destination primitive's native cast: identity
// for a floating destination, a fixed-width integer cast for an integral
// one. Go's float-to-int conversion already truncates toward zero, and
// converting through the destination's actual bit width reproduces a
// native cast's wraparound on overflow rather than clamping to range.
func convertScalar(x float64, dst *kind.Descriptor) float64 {
	if !dst.Integral {
		return x
	}
	switch dst.Kind {
	case kind.Int8, kind.Char:
		return float64(int8(x))
	case kind.Uint8:
		return float64(uint8(x))
	case kind.Int16:
		return float64(int16(x))
	case kind.Uint16:
		return float64(uint16(x))
	case kind.Int32:
		return float64(int32(x))
	case kind.Uint32:
		return float64(uint32(x))
	case kind.Int64:
		return float64(int64(x))
	case kind.Uint64:
		return float64(uint64(x))
	default:
		return float64(int64(x))
	}
}
