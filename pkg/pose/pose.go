// Package pose implements body-pose compensation and the packed/ready
// startup and shutdown choreographies (spec.md §4.3 PoseController).
package pose

import (
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/geom"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/model"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/pid"
)

// ResetMode selects which pose components UpdateCurrentPose strips of
// auto-compensation, leaving only the operator's manual offset for them
// (spec.md §4.3). The reset takes full effect on every update: there is no
// gradual decay, and the manual offset itself is not reset to zero.
type ResetMode uint8

const (
	ResetNone ResetMode = iota
	ResetZ
	ResetOrientation
	ResetAll
)

// Sequence names the choreography currently driving every leg's LegPoser
// (spec.md §4.3).
type Sequence uint8

const (
	SequenceIdle Sequence = iota
	SequenceUnpacking
	SequencePacking
	SequenceSteppingToStance
	SequenceLegManipulation
	SequenceStartUp
	SequenceShutDown
	SequenceDirectStartup
)

// Controller composes the manually-commanded pose offset with PID-driven
// auto-compensation (orientation + vertical) and drives the per-leg packed
// <-> ready choreographies.
type Controller struct {
	OrientationPID pid.Vector3PID // roll/pitch/yaw compensation, radians
	TranslationPID pid.Vector3PID // x/y/z compensation, meters

	ManualPoseOffset geom.Vector3 // operator-commanded translation offset
	ManualOrientation geom.Vector3 // operator-commanded roll/pitch/yaw

	AutoCompensate bool
	ResetMode      ResetMode

	Sequence         Sequence
	SequenceProgress float32 // 0..1, advanced by dt*sequenceSpeed
	SequenceSpeed    float32 // fraction of sequence completed per second

	currentPose geom.Pose
}

// NewController seeds a Controller at the identity pose.
func NewController(orientationGains, translationGains pid.Gains, sequenceSpeed float32) *Controller {
	c := &Controller{
		OrientationPID: pid.Vector3PID{Gains: orientationGains, Min: -0.4, Max: 0.4},
		TranslationPID: pid.Vector3PID{Gains: translationGains, Min: -0.1, Max: 0.1},
		SequenceSpeed:  sequenceSpeed,
		currentPose:    geom.IdentityPose,
	}
	c.OrientationPID.Reset(geom.Vector3{})
	c.TranslationPID.Reset(geom.Vector3{})
	return c
}

// CurrentPose returns the most recently computed compensated body pose.
func (c *Controller) CurrentPose() geom.Pose {
	return c.currentPose
}

// UpdateCurrentPose recomputes the compensated body pose from the manual
// offset plus (if enabled) auto-compensation driven by measured
// orientation/height error; ResetMode then replaces the selected components
// with their manual values at once, whether or not a manual pose is
// commanded (spec.md §4.3).
func (c *Controller) UpdateCurrentPose(measuredOrientation, measuredTranslation geom.Vector3, dt float32) {
	orientation := c.ManualOrientation
	translation := c.ManualPoseOffset

	if c.AutoCompensate {
		c.OrientationPID.Target = geom.Vector3{}
		orientation = orientation.Add(c.OrientationPID.Update(measuredOrientation, dt))

		c.TranslationPID.Target = geom.Vector3{}
		translation = translation.Add(c.TranslationPID.Update(measuredTranslation, dt))
	}

	switch c.ResetMode {
	case ResetZ:
		translation[2] = c.ManualPoseOffset.Z()
	case ResetOrientation:
		orientation = c.ManualOrientation
	case ResetAll:
		orientation = c.ManualOrientation
		translation = c.ManualPoseOffset
	}

	c.currentPose = geom.Pose{
		Translation: translation,
		Rotation:    geom.FromEuler(orientation.X(), orientation.Y(), orientation.Z()),
	}
}

// UpdateStance composes the walk controller's nominal walk-plane target
// with the current compensated body pose, producing each leg's
// pre-impedance tip target (spec.md §4.1 pipeline ordering:
// walk -> pose -> impedance -> IK).
func (c *Controller) UpdateStance(m *model.Model) {
	pose := c.currentPose
	m.ForEachLeg(func(l *model.Leg) {
		l.CurrentTipPose = pose.ApplyInverse(l.Stepper.TargetTipPose)
	})
}

// BeginSequence starts a named choreography from scratch.
func (c *Controller) BeginSequence(s Sequence) {
	c.Sequence = s
	c.SequenceProgress = 0
}

// AdvanceSequence steps the active choreography forward by dt, driving
// every leg's LegPoser between its packed and unpacked joint targets, and
// reports whether the sequence has completed (progress reached 1).
func (c *Controller) AdvanceSequence(m *model.Model, dt float32) bool {
	if c.Sequence == SequenceIdle {
		return true
	}
	if c.SequenceSpeed <= 0 {
		return true
	}
	c.SequenceProgress += c.SequenceSpeed * dt
	done := c.SequenceProgress >= 1
	if done {
		c.SequenceProgress = 1
	}

	m.ForEachLeg(func(l *model.Leg) {
		switch c.Sequence {
		case SequenceUnpacking:
			l.Poser.SubState = model.PoseUnpacking
			l.CurrentTipPose = interpolateJointTarget(l, c.SequenceProgress, true)
		case SequencePacking:
			l.Poser.SubState = model.PosePacking
			l.CurrentTipPose = interpolateJointTarget(l, c.SequenceProgress, false)
		case SequenceSteppingToStance, SequenceStartUp, SequenceShutDown:
			l.Poser.SubState = model.PoseSteppingToStance
			l.CurrentTipPose = l.Stepper.WalkPlaneOffset.Lerp(l.Poser.StanceTipPose, c.SequenceProgress)
		case SequenceDirectStartup:
			l.Poser.SubState = model.PoseUnpacking
			l.CurrentTipPose = interpolateJointTarget(l, c.SequenceProgress, true)
		}
		l.Poser.SequenceProgress = c.SequenceProgress
	})

	if done {
		m.ForEachLeg(func(l *model.Leg) {
			l.Poser.SubState = model.PoseSettled
		})
		c.Sequence = SequenceIdle
	}
	return done
}

// interpolateJointTarget linearly interpolates a leg's tip position between
// its packed posture (joint angles fed through forward kinematics) and its
// nominal stance position, unpacking when toStance is true and packing
// (the reverse direction) when false.
func interpolateJointTarget(l *model.Leg, progress float32, toStance bool) geom.Vector3 {
	packedTip := l.Geometry.Forward(l.Poser.PackedJointAngles)
	if toStance {
		return packedTip.Lerp(l.Poser.StanceTipPose, progress)
	}
	return l.Poser.StanceTipPose.Lerp(packedTip, progress)
}

// PoseForLegManipulation overrides a single leg's tip target directly so it
// holds still while the rest of the model continues walking (spec.md §4.1.2,
// driven every tick a leg is in model.LegWalkingToManual/LegManualToWalking).
func PoseForLegManipulation(l *model.Leg, target geom.Vector3) {
	l.CurrentTipPose = target
}
