// Package value implements the Typed Value: a closed tagged union over the
// kinds in internal/kind, generalizing the sync-rule engine's sealed IR
// value interface to the arithmetic, multi-primitive kinds a replicated
// property needs and that IR explicitly forbade.
package value

import (
	"golang.org/x/text/unicode/norm"

	"github.com/hollis-tate/repliprop/internal/kind"
)

// Value holds exactly one kind's worth of data at a time, or nothing. The
// empty Value (IsEmpty() == true) is the "no value" state getters and
// conversions report on failure, per the getter contract in the property
// component.
type Value struct {
	k     kind.Kind
	prim  [16]float64 // up to Matrix4's 16 primitive members
	b     bool
	s     string
	valid bool
}

// Empty returns the empty Value.
func Empty() Value { return Value{} }

// IsEmpty reports whether v carries no data.
func (v Value) IsEmpty() bool { return !v.valid }

// Kind returns v's kind. The result is Unknown for an empty Value.
func (v Value) Kind() kind.Kind {
	if !v.valid {
		return kind.Unknown
	}
	return v.k
}

// NewBool constructs a Bool Value.
func NewBool(b bool) Value { return Value{k: kind.Bool, b: b, valid: true} }

// NewString constructs a String Value, NFC-normalized so values that are
// visually identical but differently composed (e.g. combining characters
// entered by different input methods) compare and hash equal.
func NewString(s string) Value {
	return Value{k: kind.String, s: norm.NFC.String(s), valid: true}
}

// Bool returns v's boolean payload and whether v is actually a Bool.
func (v Value) Bool() (bool, bool) {
	if !v.valid || v.k != kind.Bool {
		return false, false
	}
	return v.b, true
}

// Str returns v's string payload and whether v is actually a String.
func (v Value) Str() (string, bool) {
	if !v.valid || v.k != kind.String {
		return "", false
	}
	return v.s, true
}

// NewArithmetic constructs a Value of an arithmetic kind from its
// primitive members, in native component order (e.g. x,y,z for Vector3;
// row-major for matrices). Panics if k is not arithmetic or members has
// the wrong length: this is a programming contract violation, not a
// runtime condition callers are expected to recover from.
func NewArithmetic(k kind.Kind, members ...float64) Value {
	d := kind.Lookup(k)
	if d == nil || !d.Arithmetic {
		panic("value: NewArithmetic requires an arithmetic kind")
	}
	if len(members) != d.PrimitiveCount {
		panic("value: NewArithmetic got wrong member count for kind")
	}
	var v Value
	v.k = k
	v.valid = true
	copy(v.prim[:], members)
	return v
}

// PrimitiveCount returns the number of addressable members, 0 for Bool and
// String.
func (v Value) PrimitiveCount() int {
	d := kind.Lookup(v.Kind())
	if d == nil {
		return 0
	}
	return d.PrimitiveCount
}

// Member returns the i'th primitive member. Out-of-range i or a
// non-arithmetic Value returns 0; callers that need to distinguish that
// from a real zero should check PrimitiveCount first.
func (v Value) Member(i int) float64 {
	if i < 0 || i >= v.PrimitiveCount() {
		return 0
	}
	return v.prim[i]
}

// WithMember returns a copy of v with its i'th primitive member replaced.
func (v Value) WithMember(i int, x float64) Value {
	if i < 0 || i >= v.PrimitiveCount() {
		return v
	}
	out := v
	out.prim[i] = x
	return out
}

// Equal reports whole-value equality: every member equal for arithmetic
// kinds, exact match for Bool and (NFC-normalized) String. This is the
// basis for HasChangedAtAll; it never looks at any delta threshold.
func (v Value) Equal(other Value) bool {
	if v.valid != other.valid {
		return false
	}
	if !v.valid {
		return true
	}
	if v.k != other.k {
		return false
	}
	switch v.k {
	case kind.Bool:
		return v.b == other.b
	case kind.String:
		return v.s == other.s
	default:
		n := v.PrimitiveCount()
		for i := 0; i < n; i++ {
			if v.prim[i] != other.prim[i] {
				return false
			}
		}
		return true
	}
}
