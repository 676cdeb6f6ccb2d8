package kind

import "sync"

// Descriptor is the function-pointer table for one Kind. Arithmetic
// handling outside this package and internal/value goes through the
// descriptor; internal/property still switches on kind.Bool and
// kind.String directly for the two non-arithmetic kinds.
//
// This intentionally omits several members of the opaque interface the
// type table this is modeled on exposes (construct/destruct/to-string/
// parse): Go's garbage collector and fmt.Stringer already cover
// construction and textual formatting, so a hand-rolled function-pointer
// equivalent would just be indirection around language features.
type Descriptor struct {
	Kind Kind
	Name string

	// PrimitiveCount is the number of independently-addressable numeric
	// components (1 for scalars, 2-4 for vectors, 4 for a quaternion, 4/9/16
	// for matrices laid out row-major as a flat primitive array).
	PrimitiveCount int

	// Arithmetic is true for every kind except Bool and String: these are
	// the kinds convergence, quantization, delta-thresholding and curve
	// sampling operate on.
	Arithmetic bool

	// Integral is only meaningful when Arithmetic is true.
	Integral bool

	// BitWidth is the native wire width per primitive member (8/16/32/64),
	// only meaningful when Arithmetic is true.
	BitWidth int
}

var (
	registryMu sync.RWMutex
	registry   = map[Kind]*Descriptor{}
)

func register(d Descriptor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[d.Kind] = &d
}

// Lookup returns the descriptor for k, or nil if k is not registered.
func Lookup(k Kind) *Descriptor {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[k]
}

func init() {
	register(Descriptor{Kind: Bool, Name: "Bool", PrimitiveCount: 0, Arithmetic: false})
	register(Descriptor{Kind: String, Name: "String", PrimitiveCount: 0, Arithmetic: false})

	register(Descriptor{Kind: Char, Name: "Char", PrimitiveCount: 1, Arithmetic: true, Integral: true, BitWidth: 8})
	register(Descriptor{Kind: Int8, Name: "Int8", PrimitiveCount: 1, Arithmetic: true, Integral: true, BitWidth: 8})
	register(Descriptor{Kind: Int16, Name: "Int16", PrimitiveCount: 1, Arithmetic: true, Integral: true, BitWidth: 16})
	register(Descriptor{Kind: Int32, Name: "Int32", PrimitiveCount: 1, Arithmetic: true, Integral: true, BitWidth: 32})
	register(Descriptor{Kind: Int64, Name: "Int64", PrimitiveCount: 1, Arithmetic: true, Integral: true, BitWidth: 64})
	register(Descriptor{Kind: Uint8, Name: "Uint8", PrimitiveCount: 1, Arithmetic: true, Integral: true, BitWidth: 8})
	register(Descriptor{Kind: Uint16, Name: "Uint16", PrimitiveCount: 1, Arithmetic: true, Integral: true, BitWidth: 16})
	register(Descriptor{Kind: Uint32, Name: "Uint32", PrimitiveCount: 1, Arithmetic: true, Integral: true, BitWidth: 32})
	register(Descriptor{Kind: Uint64, Name: "Uint64", PrimitiveCount: 1, Arithmetic: true, Integral: true, BitWidth: 64})

	register(Descriptor{Kind: Float, Name: "Float", PrimitiveCount: 1, Arithmetic: true, Integral: false, BitWidth: 32})
	register(Descriptor{Kind: Double, Name: "Double", PrimitiveCount: 1, Arithmetic: true, Integral: false, BitWidth: 64})

	register(Descriptor{Kind: Vector2, Name: "Vector2", PrimitiveCount: 2, Arithmetic: true, Integral: false, BitWidth: 32})
	register(Descriptor{Kind: Vector3, Name: "Vector3", PrimitiveCount: 3, Arithmetic: true, Integral: false, BitWidth: 32})
	register(Descriptor{Kind: Vector4, Name: "Vector4", PrimitiveCount: 4, Arithmetic: true, Integral: false, BitWidth: 32})
	register(Descriptor{Kind: Quaternion, Name: "Quaternion", PrimitiveCount: 4, Arithmetic: true, Integral: false, BitWidth: 32})
	register(Descriptor{Kind: Matrix2, Name: "Matrix2", PrimitiveCount: 4, Arithmetic: true, Integral: false, BitWidth: 32})
	register(Descriptor{Kind: Matrix3, Name: "Matrix3", PrimitiveCount: 9, Arithmetic: true, Integral: false, BitWidth: 32})
	register(Descriptor{Kind: Matrix4, Name: "Matrix4", PrimitiveCount: 16, Arithmetic: true, Integral: false, BitWidth: 32})
}

// IntegralBounds returns the representable [min, max] range of an integral
// kind's wire width. Quantization width and arithmetic conversion do not
// use it; conversion wraps rather than saturates.
func IntegralBounds(k Kind) (min, max float64, ok bool) {
	d := Lookup(k)
	if d == nil || !d.Arithmetic || !d.Integral {
		return 0, 0, false
	}
	switch d.BitWidth {
	case 8:
		if k == Uint8 {
			return 0, 255, true
		}
		return -128, 127, true
	case 16:
		if k == Uint16 {
			return 0, 65535, true
		}
		return -32768, 32767, true
	case 32:
		if k == Uint32 {
			return 0, 4294967295, true
		}
		return -2147483648, 2147483647, true
	case 64:
		if k == Uint64 {
			return 0, 18446744073709551615, true
		}
		return -9223372036854775808, 9223372036854775807, true
	}
	return 0, 0, false
}
