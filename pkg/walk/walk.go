// Package walk implements the gait-driven leg trajectory generator
// (spec.md §4.2 WalkController).
package walk

import (
	"github.com/chewxy/math32"

	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/gait"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/geom"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/model"
)

// State is the walk controller's own sub-state machine, distinct from the
// per-leg StepState (spec.md §4.2).
type State uint8

const (
	Stopped State = iota
	Starting
	Moving
	Stopping
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Moving:
		return "moving"
	case Stopping:
		return "stopping"
	default:
		return "stopped"
	}
}

// Controller drives every leg's LegStepper from a commanded body velocity,
// per the selected Gait (spec.md §4.2).
type Controller struct {
	Gait            gait.Gait
	StepFrequency   float32
	StepClearance   float32
	MaxLinearSpeed  float32
	MaxAngularSpeed float32
	MaxAcceleration float32 // <=0 disables acceleration clamping (see DESIGN.md)

	State State

	DesiredLinearVelocity  geom.Vector3
	DesiredAngularVelocity geom.Vector3

	currentLinearVelocity  geom.Vector3
	currentAngularVelocity geom.Vector3
}

// NewController seeds a Controller at rest with the given starting gait.
func NewController(g gait.Gait, stepFrequency, stepClearance, maxLinear, maxAngular, maxAccel float32) *Controller {
	return &Controller{
		Gait:            g,
		StepFrequency:   stepFrequency,
		StepClearance:   stepClearance,
		MaxLinearSpeed:  maxLinear,
		MaxAngularSpeed: maxAngular,
		MaxAcceleration: maxAccel,
		State:           Stopped,
	}
}

// SetDesiredVelocity stores the next commanded body velocity, clamped to
// the configured linear/angular speed caps.
func (c *Controller) SetDesiredVelocity(linear, angular geom.Vector3) {
	c.DesiredLinearVelocity = linear.ClampMagnitude(c.MaxLinearSpeed)
	if c.MaxAngularSpeed > 0 {
		if angular[2] > c.MaxAngularSpeed {
			angular[2] = c.MaxAngularSpeed
		}
		if angular[2] < -c.MaxAngularSpeed {
			angular[2] = -c.MaxAngularSpeed
		}
	}
	c.DesiredAngularVelocity = angular
}

// ChangeGait swaps the active gait template. Per spec.md §4.1.1, this must
// only be called once the walker has fully stopped (AllLegsAtStanceStart);
// callers are responsible for that precondition, enforced by pkg/state.
func (c *Controller) ChangeGait(g gait.Gait, m *model.Model) {
	c.Gait = g
	m.ForEachLeg(func(l *model.Leg) {
		l.Stepper.Phase.Reload(g, l.ID)
	})
}

// moving reports whether a nonzero velocity is currently commanded.
func (c *Controller) moving() bool {
	const eps = 1e-4
	return c.DesiredLinearVelocity.Magnitude() > eps || math32.Abs(c.DesiredAngularVelocity[2]) > eps
}

// UpdateWalk advances every leg's stepper by one tick: integrates the
// commanded velocity (respecting MaxAcceleration), derives each leg's
// stride vector, advances its gait phase, and writes the resulting target
// tip position into LegStepper.TargetTipPose for every leg not in LegManual
// state (spec.md §4.2).
func (c *Controller) UpdateWalk(m *model.Model, dt float32) {
	c.integrateVelocity(dt)

	wantMoving := c.moving()
	switch c.State {
	case Stopped:
		if wantMoving {
			c.State = Starting
		}
	case Starting:
		c.State = Moving
	case Moving:
		if !wantMoving {
			c.State = Stopping
			m.ForEachLeg(func(l *model.Leg) {
				l.Stepper.Phase.RequestForceStance()
			})
		}
	case Stopping:
		if wantMoving {
			m.ForEachLeg(func(l *model.Leg) {
				l.Stepper.Phase.ClearForceStance()
			})
			c.State = Moving
		} else if m.AllLegsAtStanceStart() {
			c.State = Stopped
		}
	}

	effectiveLinear := c.currentLinearVelocity
	effectiveAngular := c.currentAngularVelocity
	if c.State == Stopped {
		effectiveLinear = geom.Zero3
		effectiveAngular = geom.Zero3
	}

	m.ForEachLeg(func(l *model.Leg) {
		stride := gait.StrideVector(effectiveLinear, effectiveAngular, l.Stepper.WalkPlaneOffset, c.StepFrequency)
		l.Stepper.StrideVector = stride
		l.Stepper.SwingClearance = c.StepClearance

		l.Stepper.Phase.Advance(dt, c.StepFrequency)

		if l.State == model.LegManual {
			// Manual legs keep the target set by UpdateManual.
			return
		}

		var planar geom.Vector3
		switch l.Stepper.Phase.State() {
		case gait.Swing:
			planar = gait.SwingTrajectory(stride, c.StepClearance, l.Stepper.Phase.SwingProgress())
		default: // Stance, ForceStance, ForceStop all hold the stance path
			planar = gait.StanceTrajectory(stride, l.Stepper.Phase.StanceProgress())
		}
		l.Stepper.TargetTipPose = l.Stepper.WalkPlaneOffset.Add(planar)
	})
}

// integrateVelocity ramps currentLinear/AngularVelocity toward the desired
// velocity, clamped by MaxAcceleration*dt when acceleration clamping is
// enabled (MaxAcceleration > 0).
func (c *Controller) integrateVelocity(dt float32) {
	if c.MaxAcceleration <= 0 {
		c.currentLinearVelocity = c.DesiredLinearVelocity
		c.currentAngularVelocity = c.DesiredAngularVelocity
		return
	}
	maxDelta := c.MaxAcceleration * dt
	c.currentLinearVelocity = stepToward(c.currentLinearVelocity, c.DesiredLinearVelocity, maxDelta)
	c.currentAngularVelocity = stepToward(c.currentAngularVelocity, c.DesiredAngularVelocity, maxDelta)
}

func stepToward(current, target geom.Vector3, maxDelta float32) geom.Vector3 {
	delta := target.Sub(current)
	return current.Add(delta.ClampMagnitude(maxDelta))
}

// UpdateManual overrides a single leg's target tip position directly,
// bypassing gait generation, for legs in LegManual state (spec.md §4.2).
func UpdateManual(l *model.Leg, tipVelocity geom.Vector3, dt float32) {
	l.Stepper.TargetTipPose = l.Stepper.TargetTipPose.Add(tipVelocity.Scale(dt))
}
