package walk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/config"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/gait"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/geom"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/model"
)

func buildModel() *model.Model {
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
	return model.New(ps, gait.Library[gait.Tripod])
}

func TestControllerStartsAndStopsOnVelocityCommand(t *testing.T) {
	m := buildModel()
	c := NewController(gait.Library[gait.Tripod], 1.0, 0.04, 1.0, 1.0, -1)

	require.Equal(t, Stopped, c.State)

	c.SetDesiredVelocity(geom.Vector3{0.2, 0, 0}, geom.Vector3{})
	c.UpdateWalk(m, 0.02)
	assert.Equal(t, Starting, c.State)

	c.UpdateWalk(m, 0.02)
	assert.Equal(t, Moving, c.State)

	c.SetDesiredVelocity(geom.Vector3{}, geom.Vector3{})
	c.UpdateWalk(m, 0.02)
	assert.Equal(t, Stopping, c.State)

	for i := 0; i < 200; i++ {
		c.UpdateWalk(m, 0.02)
		if c.State == Stopped {
			break
		}
	}
	assert.Equal(t, Stopped, c.State)
	assert.True(t, m.AllLegsAtStanceStart())
}

func TestIntegrateVelocityRespectsAccelerationClamp(t *testing.T) {
	m := buildModel()
	c := NewController(gait.Library[gait.Tripod], 1.0, 0.04, 2.0, 2.0, 1.0)
	c.SetDesiredVelocity(geom.Vector3{1.0, 0, 0}, geom.Vector3{})
	c.UpdateWalk(m, 0.02)
	assert.InDelta(t, float32(0.02), c.currentLinearVelocity.X(), 1e-5)
}

func TestUpdateManualMovesTipDirectly(t *testing.T) {
	m := buildModel()
	l := m.Legs[0]
	start := l.Stepper.TargetTipPose
	UpdateManual(l, geom.Vector3{0, 0, 0.1}, 0.1)
	assert.InDelta(t, start.Z()+0.01, l.Stepper.TargetTipPose.Z(), 1e-6)
}
