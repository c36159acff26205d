package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/config"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/gait"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/geom"
)

func testParams() *config.ParameterSet {
	ps := config.Default()
	for i := range ps.Legs {
		ps.Legs[i] = config.LegGeometry{
			CoxaLength: 0.05, FemurLength: 0.1, TibiaLength: 0.15,
			CoxaMin: -1.5, CoxaMax: 1.5,
			FemurMin: -1.5, FemurMax: 1.5,
			TibiaMin: -2.5, TibiaMax: 0,
			StanceOffset: geom.Vector3{0.2, float32(i) * 0.05, -0.1},
		}
	}
	return ps
}

func TestNewModelOrdersLegsDeterministically(t *testing.T) {
	ps := testParams()
	m := New(ps, gait.Library[gait.Tripod])
	require.Len(t, m.LegOrder(), 6)
	for i, id := range m.LegOrder() {
		assert.Equal(t, i, id)
	}
}

func TestModelApplyIKReachableTargetsSucceed(t *testing.T) {
	ps := testParams()
	m := New(ps, gait.Library[gait.Tripod])
	m.ForEachLeg(func(l *Leg) {
		l.CurrentTipPose = l.Stepper.WalkPlaneOffset
	})
	errs := m.ApplyIK()
	assert.Empty(t, errs)
}

func TestAllLegsAtStanceStartInitiallyFalse(t *testing.T) {
	ps := testParams()
	m := New(ps, gait.Library[gait.Tripod])
	// Legs 0,2,4 start at phase offset 0 (stance start); 1,3,5 start in
	// swing, so the model as a whole is not at a synchronized stance start.
	assert.False(t, m.AllLegsAtStanceStart())
}
