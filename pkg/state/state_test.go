package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/adapters"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/config"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/gait"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/geom"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/impedance"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/model"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/pid"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/pose"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/walk"
)

func buildController() (*Controller, *adapters.InProcessInput, *adapters.InProcessSensors) {
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
	m := model.New(ps, gait.Library[gait.Tripod])
	w := walk.NewController(gait.Library[gait.Tripod], 1.0, 0.04, 1.0, 1.0, -1)
	p := pose.NewController(pid.Gains{}, pid.Gains{}, 2.0)
	imp := impedance.NewController(m, 1.0, 20.0, 1.0, 1.0, 0.02, 0, 50)

	in := adapters.NewInProcessInput()
	sensors := adapters.NewInProcessSensors()

	c := New(m, w, p, imp, ps, in, sensors, adapters.NullActuatorSink{}, adapters.NullTelemetrySink{})
	return c, in, sensors
}

func TestBootstrapResolvesToPackedWhenJointsNearPackedPosture(t *testing.T) {
	c, _, sensors := buildController()
	var reports []adapters.JointReport
	for id, leg := range c.Model.Legs {
		reports = append(reports,
			adapters.JointReport{LegID: id, JointName: "coxa", Position: leg.Poser.PackedJointAngles.Coxa},
			adapters.JointReport{LegID: id, JointName: "femur", Position: leg.Poser.PackedJointAngles.Femur},
			adapters.JointReport{LegID: id, JointName: "tibia", Position: leg.Poser.PackedJointAngles.Tibia},
		)
	}
	sensors.SetJoints(reports)

	c.Tick(0.02)
	assert.Equal(t, Packed, c.Current)
}

func TestBootstrapResolvesToOffWhenJointsFarFromPacked(t *testing.T) {
	c, _, sensors := buildController()
	var reports []adapters.JointReport
	for id := range c.Model.Legs {
		reports = append(reports,
			adapters.JointReport{LegID: id, JointName: "coxa", Position: 10},
			adapters.JointReport{LegID: id, JointName: "femur", Position: 10},
			adapters.JointReport{LegID: id, JointName: "tibia", Position: 10},
		)
	}
	sensors.SetJoints(reports)

	c.Tick(0.02)
	assert.Equal(t, Off, c.Current)
}

func TestIllegalTransitionIsRejected(t *testing.T) {
	c, in, _ := buildController()
	c.Current = Off
	in.SetSystemState(adapters.SystemStateCommand{Requested: adapters.StateRunning})
	c.Tick(0.02)
	assert.Equal(t, Off, c.Current)
}

func TestLegalTransitionSequenceReachesRunning(t *testing.T) {
	c, in, _ := buildController()
	c.Current = Off

	in.SetSystemState(adapters.SystemStateCommand{Requested: adapters.StatePacked})
	c.Tick(0.02)
	require.Equal(t, Packed, c.Current)

	in.SetSystemState(adapters.SystemStateCommand{Requested: adapters.StateReady})
	c.Tick(0.02)
	require.Equal(t, Ready, c.Current)

	in.SetSystemState(adapters.SystemStateCommand{Requested: adapters.StateRunning})
	c.Tick(0.02)
	require.Equal(t, Running, c.Current)
}

// TestMaxManualLegsEnforced drives two leg toggles through the full
// WALKING->WALKING_TO_MANUAL->MANUAL choreography (spec.md §4.1.2 scenario
// 4) and asserts a third is rejected while the first two occupy both of
// MaxManualLegs' slots.
func TestMaxManualLegsEnforced(t *testing.T) {
	c, in, _ := buildController()
	c.Current = Running

	in.SetLegStateToggle(adapters.LegStateToggleCommand{LegID: 0, Manual: true})
	for i := 0; i < 60 && c.Model.Legs[0].State != model.LegManual; i++ {
		c.Tick(0.02)
	}
	require.Equal(t, model.LegManual, c.Model.Legs[0].State)

	in.SetLegStateToggle(adapters.LegStateToggleCommand{LegID: 1, Manual: true})
	for i := 0; i < 60 && c.Model.Legs[1].State != model.LegManual; i++ {
		c.Tick(0.02)
	}
	require.Equal(t, model.LegManual, c.Model.Legs[1].State)

	in.SetLegStateToggle(adapters.LegStateToggleCommand{LegID: 2, Manual: true})
	c.Tick(0.02)

	assert.Equal(t, model.LegWalking, c.Model.Legs[2].State)
}

// TestLegManipulationHoldsTipDuringTransition asserts the mid-transition
// WALKING_TO_MANUAL leg's tip is held at its captured anchor via
// PoseForLegManipulation on every tick, and that the leg then settles into
// MANUAL (spec.md §4.1.2, invariant 6).
func TestLegManipulationHoldsTipDuringTransition(t *testing.T) {
	c, in, _ := buildController()
	c.Current = Running

	in.SetLegStateToggle(adapters.LegStateToggleCommand{LegID: 0, Manual: true})
	c.Tick(0.02)
	require.Equal(t, model.LegWalkingToManual, c.Model.Legs[0].State)
	anchor := c.Model.Legs[0].Poser.ManipulationAnchor

	for i := 0; i < 60 && c.Model.Legs[0].State != model.LegManual; i++ {
		c.Tick(0.02)
		assert.Equal(t, anchor, c.Model.Legs[0].CurrentTipPose)
	}
	require.Equal(t, model.LegManual, c.Model.Legs[0].State)
}

// TestGaitChangeDeferredUntilStopped covers spec.md §8 scenario 3: a gait
// change requested while walking must be latched (not dropped), force
// velocity to zero every tick until the walker fully stops, then apply.
func TestGaitChangeDeferredUntilStopped(t *testing.T) {
	c, in, _ := buildController()
	c.Current = Running
	c.Walk.SetDesiredVelocity(geom.Vector3{0.1, 0, 0}, geom.Vector3{})
	c.Walk.UpdateWalk(c.Model, 0.02) // now Starting, not Stopped

	in.SetGait(adapters.GaitSelection{Gait: gait.Wave})
	c.Tick(0.02)

	assert.Equal(t, gait.Tripod.String(), c.Walk.Gait.Name)
	assert.Equal(t, geom.Vector3{}, c.Walk.DesiredLinearVelocity)

	for i := 0; i < 200 && c.Walk.Gait.Name != gait.Wave.String(); i++ {
		c.Tick(0.02)
	}

	assert.Equal(t, gait.Wave.String(), c.Walk.Gait.Name)
	assert.Equal(t, walk.Stopped, c.Walk.State)
}

// TestParameterAdjustDeferredUntilStopped covers spec.md §8 scenario 5: a
// parameter adjustment requested while walking must zero velocity and wait,
// then clamp/re-init/step-to-new-stance once the walker stops.
func TestParameterAdjustDeferredUntilStopped(t *testing.T) {
	c, in, _ := buildController()
	c.Current = Running
	c.Walk.SetDesiredVelocity(geom.Vector3{0.1, 0, 0}, geom.Vector3{})
	c.Walk.UpdateWalk(c.Model, 0.02) // now Starting, not Stopped

	before := c.Params.StepClearance.CurrentValue
	in.SetParameter(adapters.ParameterCommand{Selection: config.StepClearance, Direction: 1})
	c.Tick(0.02)

	assert.Equal(t, before, c.Params.StepClearance.CurrentValue)
	assert.Equal(t, geom.Vector3{}, c.Walk.DesiredLinearVelocity)

	for i := 0; i < 200 && c.Params.StepClearance.CurrentValue == before; i++ {
		c.Tick(0.02)
	}

	assert.Greater(t, c.Params.StepClearance.CurrentValue, before)
	assert.Equal(t, walk.Stopped, c.Walk.State)
}

// TestCruiseControlSubstitutesVelocity covers the cruise-control velocity
// substitution step of the RUNNING pipeline (spec.md §4.1.1 step 4).
func TestCruiseControlSubstitutesVelocity(t *testing.T) {
	c, in, _ := buildController()
	c.Current = Running

	in.SetCruiseControl(adapters.CruiseControlCommand{
		Enabled:  true,
		Velocity: adapters.VelocityCommand{Linear: geom.Vector3{0.2, 0, 0}},
	})
	c.Tick(0.02)

	assert.Equal(t, geom.Vector3{0.2, 0, 0}, c.Walk.DesiredLinearVelocity)

	// A newer manual Velocity() command must not override an active cruise
	// control latch on a later tick.
	in.SetVelocity(adapters.VelocityCommand{Linear: geom.Vector3{0.9, 0, 0}})
	c.Tick(0.02)
	assert.Equal(t, geom.Vector3{0.2, 0, 0}, c.Walk.DesiredLinearVelocity)
}

// TestStartUpSequenceDrivesReadyToRunning covers spec.md §4.1's
// READY->RUNNING edge via PoseController.startUpSequence (scenario 1): the
// top-level state flips to RUNNING immediately, but the per-leg pose
// sequence keeps running to completion afterward.
func TestStartUpSequenceDrivesReadyToRunning(t *testing.T) {
	c, in, _ := buildController()
	c.Current = Ready

	in.SetSystemState(adapters.SystemStateCommand{Requested: adapters.StateRunning})
	c.Tick(0.02)

	require.Equal(t, Running, c.Current)
	assert.Equal(t, pose.SequenceStartUp, c.Pose.Sequence)
	assert.True(t, c.startupActive)

	for i := 0; i < 100 && c.startupActive; i++ {
		c.Tick(0.02)
	}
	assert.False(t, c.startupActive)
	assert.Equal(t, pose.SequenceIdle, c.Pose.Sequence)
}

// TestShutDownSequenceDrivesRunningToReady covers spec.md §4.1's
// RUNNING->READY edge via PoseController.shutDownSequence.
func TestShutDownSequenceDrivesRunningToReady(t *testing.T) {
	c, in, _ := buildController()
	c.Current = Running

	in.SetSystemState(adapters.SystemStateCommand{Requested: adapters.StateReady})
	c.Tick(0.02)

	require.Equal(t, Ready, c.Current)
	assert.Equal(t, pose.SequenceShutDown, c.Pose.Sequence)
}

// TestDirectStartupWhenStartUpSequenceDisabled covers spec.md §4.1's
// OFF->RUNNING (no startup) edge, legal only when StartUpSequence is false.
func TestDirectStartupWhenStartUpSequenceDisabled(t *testing.T) {
	c, in, _ := buildController()
	c.Current = Off
	c.Params.StartUpSequence = false

	in.SetSystemState(adapters.SystemStateCommand{Requested: adapters.StateRunning})
	c.Tick(0.02)

	require.Equal(t, Running, c.Current)
	assert.Equal(t, pose.SequenceDirectStartup, c.Pose.Sequence)
}

// TestDirectStartupRejectedWhenStartUpSequenceEnabled confirms OFF->RUNNING
// remains illegal via the normal adjacency graph when StartUpSequence is on.
func TestDirectStartupRejectedWhenStartUpSequenceEnabled(t *testing.T) {
	c, in, _ := buildController()
	c.Current = Off

	in.SetSystemState(adapters.SystemStateCommand{Requested: adapters.StateRunning})
	c.Tick(0.02)

	assert.Equal(t, Off, c.Current)
}
