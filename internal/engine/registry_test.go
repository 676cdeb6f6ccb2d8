package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollis-tate/repliprop/internal/kind"
	"github.com/hollis-tate/repliprop/internal/property"
	"github.com/hollis-tate/repliprop/internal/proptype"
	"github.com/hollis-tate/repliprop/internal/value"
)

func newActivatedFloatType(t *testing.T) *proptype.PropertyType {
	pt := proptype.New("health", kind.Float, nil)
	require.NoError(t, pt.SetUseConvergence(true))
	require.NoError(t, pt.Activate())
	return pt
}

func TestRegisterTypeTwiceFails(t *testing.T) {
	reg := NewRegistry()
	pt := newActivatedFloatType(t)
	require.NoError(t, reg.RegisterType("health", pt, nil))
	assert.Error(t, reg.RegisterType("health", pt, nil))
}

func TestRegisterPropertyRequiresKnownType(t *testing.T) {
	reg := NewRegistry()
	pt := newActivatedFloatType(t)
	p := property.New("hp1", pt, value.NewArithmetic(kind.Float, 100))
	assert.Error(t, reg.RegisterProperty("health", p))
}

func TestRegisterPropertyTwiceFails(t *testing.T) {
	reg := NewRegistry()
	pt := newActivatedFloatType(t)
	require.NoError(t, reg.RegisterType("health", pt, nil))
	p := property.New("hp1", pt, value.NewArithmetic(kind.Float, 100))
	require.NoError(t, reg.RegisterProperty("health", p))
	assert.Error(t, reg.RegisterProperty("health", p))
}

func TestPropertyLookup(t *testing.T) {
	reg := NewRegistry()
	pt := newActivatedFloatType(t)
	require.NoError(t, reg.RegisterType("health", pt, nil))
	p := property.New("hp1", pt, value.NewArithmetic(kind.Float, 100))
	require.NoError(t, reg.RegisterProperty("health", p))

	got, ok := reg.Property("hp1")
	require.True(t, ok)
	assert.Equal(t, p, got)

	_, ok = reg.Property("missing")
	assert.False(t, ok)
}
