package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollis-tate/repliprop/internal/kind"
	"github.com/hollis-tate/repliprop/internal/proptype"
	"github.com/hollis-tate/repliprop/internal/value"
	"github.com/hollis-tate/repliprop/internal/wire"
)

func newFloatType(t *testing.T, configure func(pt *proptype.PropertyType)) *proptype.PropertyType {
	pt := proptype.New("health", kind.Float, nil)
	if configure != nil {
		configure(pt)
	}
	require.NoError(t, pt.Activate())
	return pt
}

func TestHasChangedAtAllIgnoresThreshold(t *testing.T) {
	pt := newFloatType(t, func(pt *proptype.PropertyType) {
		require.NoError(t, pt.SetUseDeltaThreshold(true))
		require.NoError(t, pt.SetDeltaThreshold(value.NewArithmetic(kind.Float, 5)))
	})
	p := New("health", pt, value.NewArithmetic(kind.Float, 10))
	p.SetValue(value.NewArithmetic(kind.Float, 10.01))
	assert.True(t, p.HasChangedAtAll())
	assert.False(t, p.HasChanged(), "0.01 is below the configured threshold of 5")
}

func TestUpdateLastValueHysteresis(t *testing.T) {
	pt := newFloatType(t, func(pt *proptype.PropertyType) {
		require.NoError(t, pt.SetUseDeltaThreshold(true))
		require.NoError(t, pt.SetDeltaThreshold(value.NewArithmetic(kind.Float, 5)))
	})
	p := New("health", pt, value.NewArithmetic(kind.Float, 10))
	p.SetValue(value.NewArithmetic(kind.Float, 10.01))
	p.UpdateLastValue(false)
	// The tiny change was below threshold, so UpdateLastValue should reset
	// LastValue back to the last committed value.
	assert.Equal(t, 10.0, p.LastValue().Member(0))
	// It must never write that adjustment back through the setter: the
	// live, externally-owned current value is untouched.
	assert.Equal(t, 10.01, p.GetValue().Member(0))
}

func TestUpdateLastValuePerMemberHysteresisDoesNotTouchLiveValue(t *testing.T) {
	pt := proptype.New("pos", kind.Vector3, nil)
	require.NoError(t, pt.SetUseDeltaThreshold(true))
	require.NoError(t, pt.SetDeltaThreshold(value.NewArithmetic(kind.Vector3, 0.1, 0.1, 0.1)))
	require.NoError(t, pt.Activate())

	p := New("pos", pt, value.NewArithmetic(kind.Vector3, 0, 0, 0))
	p.SetValue(value.NewArithmetic(kind.Vector3, 0.05, 5.0, 0))
	assert.True(t, p.HasChanged(), "member 1 exceeds the threshold")

	p.UpdateLastValue(false)

	// Member 0 stayed below threshold, so LastValue keeps its old member 0;
	// member 1 exceeded threshold, so LastValue picks up the new value.
	assert.Equal(t, 0.0, p.LastValue().Member(0))
	assert.Equal(t, 5.0, p.LastValue().Member(1))

	// The live value is never rewritten by UpdateLastValue, regardless of
	// per-member hysteresis outcome.
	assert.Equal(t, 0.05, p.GetValue().Member(0))
	assert.Equal(t, 5.0, p.GetValue().Member(1))
	assert.Equal(t, 0.0, p.GetValue().Member(2))
}

func TestSerializeDeserializeAllMode(t *testing.T) {
	pt := proptype.New("pos", kind.Vector3, nil)
	require.NoError(t, pt.Activate())

	src := New("pos", pt, value.NewArithmetic(kind.Vector3, 1, 2, 3))
	w := wire.NewWriter()
	require.NoError(t, src.Serialize(w, Initialization, 0))

	dst := New("pos", pt, value.Empty())
	r := wire.NewReader(w.Bytes())
	require.NoError(t, dst.Deserialize(r, Initialization, 0, 1, 0))

	got := dst.GetValue()
	assert.Equal(t, 1.0, got.Member(0))
	assert.Equal(t, 2.0, got.Member(1))
	assert.Equal(t, 3.0, got.Member(2))
}

func TestSerializeDeserializeChangedMode(t *testing.T) {
	pt := proptype.New("pos", kind.Vector3, nil)
	require.NoError(t, pt.SetSerializationMode(proptype.SerializeChanged))
	require.NoError(t, pt.SetUseDeltaThreshold(true))
	require.NoError(t, pt.Activate())

	src := New("pos", pt, value.NewArithmetic(kind.Vector3, 1, 2, 3))
	src.UpdateLastValue(true)
	src.SetValue(value.NewArithmetic(kind.Vector3, 1, 99, 3)) // only member 1 changes

	w := wire.NewWriter()
	require.NoError(t, src.Serialize(w, Normal, 1))

	dst := New("pos", pt, value.NewArithmetic(kind.Vector3, 1, 2, 3))
	r := wire.NewReader(w.Bytes())
	require.NoError(t, dst.Deserialize(r, Normal, 1, 1, 1))

	got := dst.LastReceivedChangeValue()
	assert.Equal(t, 99.0, got.Member(1))
}

func TestQuantizedRoundTrip(t *testing.T) {
	pt := proptype.New("health", kind.Float, nil)
	require.NoError(t, pt.SetQuantizationRangeMin(value.NewArithmetic(kind.Float, -100)))
	require.NoError(t, pt.SetQuantizationRangeMax(value.NewArithmetic(kind.Float, 100)))
	require.NoError(t, pt.SetDeltaThreshold(value.NewArithmetic(kind.Float, 0.5)))
	require.NoError(t, pt.SetUseQuantization(true))
	require.NoError(t, pt.Activate())

	src := New("health", pt, value.NewArithmetic(kind.Float, 42))
	w := wire.NewWriter()
	require.NoError(t, src.Serialize(w, Initialization, 0))

	dst := New("health", pt, value.Empty())
	r := wire.NewReader(w.Bytes())
	require.NoError(t, dst.Deserialize(r, Initialization, 0, 1, 0))
	assert.InDelta(t, 42, dst.GetValue().Member(0), 0.5)
}

func TestConvergenceSnapsOnLargeDistance(t *testing.T) {
	pt := proptype.New("health", kind.Float, nil)
	require.NoError(t, pt.SetUseConvergence(true))
	require.NoError(t, pt.SetActiveConvergenceWeight(0.1))
	require.NoError(t, pt.SetSnapThreshold(value.NewArithmetic(kind.Float, 1)))
	require.NoError(t, pt.Activate())

	p := New("health", pt, value.NewArithmetic(kind.Float, 0))
	p.SetValueUsingConvergence(value.NewArithmetic(kind.Float, 1000), 0.1)
	assert.Equal(t, 1000.0, p.GetValue().Member(0), "distance exceeds snap threshold, so it should jump straight to target")
}

func TestConvergenceSmoothsWithinThreshold(t *testing.T) {
	pt := proptype.New("health", kind.Float, nil)
	require.NoError(t, pt.SetUseConvergence(true))
	require.NoError(t, pt.SetActiveConvergenceWeight(0.5))
	require.NoError(t, pt.SetSnapThreshold(value.NewArithmetic(kind.Float, 1000)))
	require.NoError(t, pt.Activate())

	p := New("health", pt, value.NewArithmetic(kind.Float, 0))
	p.SetValueUsingConvergence(value.NewArithmetic(kind.Float, 10), 0.5)
	assert.Equal(t, 5.0, p.GetValue().Member(0))
}

func TestBoolStandardPathSkipsConvergence(t *testing.T) {
	pt := proptype.New("alive", kind.Bool, nil)
	require.NoError(t, pt.Activate())

	src := New("alive", pt, value.NewBool(true))
	w := wire.NewWriter()
	require.NoError(t, src.Serialize(w, Initialization, 0))

	dst := New("alive", pt, value.NewBool(false))
	r := wire.NewReader(w.Bytes())
	require.NoError(t, dst.Deserialize(r, Initialization, 0, 1, 0))
	got, ok := dst.GetValue().Bool()
	require.True(t, ok)
	assert.True(t, got)
}

func TestStringRoundTrip(t *testing.T) {
	pt := proptype.New("name", kind.String, nil)
	require.NoError(t, pt.Activate())

	src := New("name", pt, value.NewString("hello"))
	w := wire.NewWriter()
	require.NoError(t, src.Serialize(w, Initialization, 0))

	dst := New("name", pt, value.NewString(""))
	r := wire.NewReader(w.Bytes())
	require.NoError(t, dst.Deserialize(r, Initialization, 0, 1, 0))
	got, ok := dst.GetValue().Str()
	require.True(t, ok)
	assert.Equal(t, "hello", got)
}

func TestDeserializeExhaustedBitstreamAborts(t *testing.T) {
	pt := proptype.New("pos", kind.Vector3, nil)
	require.NoError(t, pt.Activate())

	dst := New("pos", pt, value.NewArithmetic(kind.Vector3, 1, 2, 3))
	r := wire.NewReader([]byte{0x00}) // far too short for three float32 members
	err := dst.Deserialize(r, Initialization, 0, 1, 0)
	assert.Error(t, err)
	// The property's value must be untouched: no partial update applied.
	assert.Equal(t, 1.0, dst.GetValue().Member(0))
}
