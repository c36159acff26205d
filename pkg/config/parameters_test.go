package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjustableParameterClampsToRange(t *testing.T) {
	p := AdjustableParameter{CurrentValue: 0.5, Min: 0, Max: 1}
	p.CurrentValue = 5
	changed := p.Clamp()
	assert.True(t, changed)
	assert.Equal(t, float32(1), p.CurrentValue)
}

func TestAdjustableParameterAdjustFlipsStepDirection(t *testing.T) {
	p := AdjustableParameter{CurrentValue: 0.5, Min: 0, Max: 1, AdjustStep: 0.1}
	p.Adjust(-1)
	assert.InDelta(t, float32(0.4), p.CurrentValue, 1e-6)
	assert.True(t, p.AdjustStep < 0)

	p.Adjust(1)
	assert.InDelta(t, float32(0.5), p.CurrentValue, 1e-6)
	assert.True(t, p.AdjustStep > 0)
}

func TestAdjustableParameterReset(t *testing.T) {
	p := AdjustableParameter{CurrentValue: 0.9, DefaultValue: 0.3}
	p.Reset()
	assert.Equal(t, float32(0.3), p.CurrentValue)
}

func TestSelectionAffectsGaitGeometry(t *testing.T) {
	assert.True(t, StepFrequency.AffectsGaitGeometry())
	assert.False(t, VirtualMass.AffectsGaitGeometry())
	assert.True(t, VirtualStiffness.AffectsImpedance())
	assert.False(t, BodyClearance.AffectsImpedance())
}

func TestDefaultParameterSetGetRoundTrips(t *testing.T) {
	ps := Default()
	got := ps.Get(StepClearance)
	if assert.NotNil(t, got) {
		assert.Equal(t, "step_clearance", got.Name)
	}
	assert.Nil(t, ps.Get(SelectionNone))
}
