package pose

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/config"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/gait"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/geom"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/model"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/pid"
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

func TestUpdateCurrentPoseWithNoInputsStaysIdentity(t *testing.T) {
	c := NewController(pid.Gains{}, pid.Gains{}, 1.0)
	c.UpdateCurrentPose(geom.Vector3{}, geom.Vector3{}, 0.02)
	assert.Equal(t, geom.IdentityPose, c.CurrentPose())
}

func TestManualOffsetAppliesTranslation(t *testing.T) {
	c := NewController(pid.Gains{}, pid.Gains{}, 1.0)
	c.ManualPoseOffset = geom.Vector3{0, 0, 0.05}
	c.UpdateCurrentPose(geom.Vector3{}, geom.Vector3{}, 0.02)
	assert.Equal(t, float32(0.05), c.CurrentPose().Translation.Z())
}

func TestAdvanceSequenceUnpackingReachesStanceAtCompletion(t *testing.T) {
	m := buildModel()
	c := NewController(pid.Gains{}, pid.Gains{}, 2.0) // completes in 0.5s
	l := m.Legs[0]
	l.Poser.PackedJointAngles.Coxa = 0
	l.Poser.StanceTipPose = l.Stepper.WalkPlaneOffset

	c.BeginSequence(SequenceUnpacking)
	done := false
	for i := 0; i < 100 && !done; i++ {
		done = c.AdvanceSequence(m, 0.02)
	}
	assert.True(t, done)
	assert.Equal(t, model.PoseSettled, l.Poser.SubState)
	assert.InDelta(t, l.Poser.StanceTipPose.X(), l.CurrentTipPose.X(), 1e-4)
}

func TestResetModeZOverridesAutoCompensationHeight(t *testing.T) {
	c := NewController(pid.Gains{Position: 1}, pid.Gains{Position: 1}, 1.0)
	c.AutoCompensate = true
	c.ResetMode = ResetZ
	c.ManualPoseOffset = geom.Vector3{0, 0, 0.03}
	c.UpdateCurrentPose(geom.Vector3{}, geom.Vector3{0, 0, 0.2}, 0.02)
	assert.Equal(t, float32(0.03), c.CurrentPose().Translation.Z())
}
