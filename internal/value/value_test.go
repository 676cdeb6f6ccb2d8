package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollis-tate/repliprop/internal/kind"
)

func TestEmptyValue(t *testing.T) {
	v := Empty()
	assert.True(t, v.IsEmpty())
	assert.Equal(t, kind.Unknown, v.Kind())
	assert.Equal(t, 0, v.PrimitiveCount())
}

func TestBoolRoundTrip(t *testing.T) {
	v := NewBool(true)
	require.False(t, v.IsEmpty())
	got, ok := v.Bool()
	require.True(t, ok)
	assert.True(t, got)

	_, ok = v.Str()
	assert.False(t, ok, "Str() on a Bool Value must report not-ok")
}

func TestStringNormalization(t *testing.T) {
	// "e" + combining acute vs precomposed "é" should normalize identically.
	composed := NewString("café")
	decomposed := NewString("café")
	assert.True(t, composed.Equal(decomposed))
}

func TestArithmeticMemberAccess(t *testing.T) {
	v := NewArithmetic(kind.Vector3, 1, 2, 3)
	assert.Equal(t, 3, v.PrimitiveCount())
	assert.Equal(t, 2.0, v.Member(1))

	v2 := v.WithMember(1, 9)
	assert.Equal(t, 9.0, v2.Member(1))
	assert.Equal(t, 2.0, v.Member(1), "WithMember must not mutate the receiver")
}

func TestNewArithmeticPanicsOnWrongShape(t *testing.T) {
	assert.Panics(t, func() { NewArithmetic(kind.Vector3, 1, 2) })
	assert.Panics(t, func() { NewArithmetic(kind.Bool, 1) })
}

func TestEqual(t *testing.T) {
	a := NewArithmetic(kind.Vector2, 1, 2)
	b := NewArithmetic(kind.Vector2, 1, 2)
	c := NewArithmetic(kind.Vector2, 1, 2.0001)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.True(t, Empty().Equal(Empty()))
	assert.False(t, a.Equal(Empty()))
}
