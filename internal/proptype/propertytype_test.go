package proptype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollis-tate/repliprop/internal/fault"
	"github.com/hollis-tate/repliprop/internal/kind"
	"github.com/hollis-tate/repliprop/internal/value"
)

func TestSetAfterActivationRefused(t *testing.T) {
	pt := New("health", kind.Float, nil)
	require.NoError(t, pt.Activate())

	err := pt.SetUseConvergence(true)
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.ConfigAfterActivation))
}

func TestActivateTwiceFails(t *testing.T) {
	pt := New("health", kind.Float, nil)
	require.NoError(t, pt.Activate())
	assert.Error(t, pt.Activate())
}

func TestHalfFloatsDisablesQuantization(t *testing.T) {
	pt := New("pos", kind.Vector3, nil)
	require.NoError(t, pt.SetUseQuantization(true))
	require.NoError(t, pt.SetUseHalfFloats(true))
	assert.False(t, pt.Snapshot().UseQuantization)
}

func TestQuantizationEnablesDeltaThresholdDisablesHalfFloats(t *testing.T) {
	pt := New("pos", kind.Vector3, nil)
	require.NoError(t, pt.SetUseHalfFloats(true))
	require.NoError(t, pt.SetUseQuantization(true))
	cfg := pt.Snapshot()
	assert.True(t, cfg.UseDeltaThreshold)
	assert.False(t, cfg.UseHalfFloats)
}

func TestDisablingDeltaThresholdDisablesQuantization(t *testing.T) {
	pt := New("pos", kind.Vector3, nil)
	require.NoError(t, pt.SetUseQuantization(true))
	require.NoError(t, pt.SetUseDeltaThreshold(false))
	assert.False(t, pt.Snapshot().UseQuantization)
}

func TestSerializationModeForcedAllForSingleMember(t *testing.T) {
	pt := New("health", kind.Float, nil)
	require.NoError(t, pt.SetSerializationMode(SerializeChanged))
	assert.Equal(t, SerializeAll, pt.Snapshot().SerializationMode)
}

func TestSerializationModeHonoredForMultiMember(t *testing.T) {
	pt := New("pos", kind.Vector3, nil)
	require.NoError(t, pt.SetSerializationMode(SerializeChanged))
	assert.Equal(t, SerializeChanged, pt.Snapshot().SerializationMode)
}

func TestRangeBoundMutualCorrection(t *testing.T) {
	pt := New("pos", kind.Vector2, nil)
	require.NoError(t, pt.SetQuantizationRangeMax(value.NewArithmetic(kind.Vector2, 0, 0)))
	require.NoError(t, pt.SetQuantizationRangeMin(value.NewArithmetic(kind.Vector2, 5, -5)))

	cfg := pt.Snapshot()
	assert.Equal(t, 5.0, cfg.QuantizationRangeMax.Member(0))
	assert.Equal(t, 0.0, cfg.QuantizationRangeMax.Member(1))
}

func TestDeltaThresholdNormalized(t *testing.T) {
	pt := New("pos", kind.Vector2, nil)
	require.NoError(t, pt.SetDeltaThreshold(value.NewArithmetic(kind.Vector2, 0, -3)))
	cfg := pt.Snapshot()
	assert.Greater(t, cfg.DeltaThreshold.Member(0), 0.0)
	assert.Equal(t, 3.0, cfg.DeltaThreshold.Member(1))
}

func TestConvergenceIntervalClamped(t *testing.T) {
	pt := New("pos", kind.Float, nil)
	require.NoError(t, pt.SetConvergenceInterval(500))
	assert.Equal(t, 100, pt.Snapshot().ConvergenceInterval)

	require.NoError(t, pt.SetConvergenceInterval(0))
	assert.Equal(t, 1, pt.Snapshot().ConvergenceInterval)
}

func TestNotifyFlagWritableAfterActivation(t *testing.T) {
	pt := New("pos", kind.Float, nil)
	require.NoError(t, pt.Activate())
	pt.SetNotifyOnConvergenceStateChange(true)
	assert.True(t, pt.Snapshot().NotifyOnConvergenceStateChange)
}

func TestApplyConfigSkipsNonArithmeticKind(t *testing.T) {
	pt := New("flag", kind.Bool, nil)
	cfg := DefaultConfig(kind.Bool)
	cfg.NotifyOnConvergenceStateChange = true
	require.NoError(t, ApplyConfig(pt, cfg))
	assert.True(t, pt.Snapshot().NotifyOnConvergenceStateChange)
}

func TestApplyConfigConvertsMismatchedKind(t *testing.T) {
	pt := New("health", kind.Int32, nil)
	cfg := DefaultConfig(kind.Double)
	cfg.DeltaThreshold = value.NewArithmetic(kind.Double, 2.7)
	require.NoError(t, ApplyConfig(pt, cfg))
	assert.Equal(t, 2.0, pt.Snapshot().DeltaThreshold.Member(0))
}
