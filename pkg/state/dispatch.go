package state

import (
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/adapters"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/gait"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/geom"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/logging"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/model"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/pose"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/walk"
)

// dispatchCommands drains every InputSource slot that has a fresh command
// this tick. System state and posing mode are meaningful in any state;
// gait/parameter/leg-toggle/velocity/pose/manual are RUNNING-pipeline
// sub-actions (spec.md §4.1.1) applied in priority order: gait change,
// parameter adjust and leg-state toggle each force the walker to a stop
// before taking effect, then (only once none of those is pending) cruise
// control or manual velocity input drives the walker.
func (c *Controller) dispatchCommands(dt float32) {
	if cmd, fresh := c.Input.SystemState(); fresh {
		c.requestState(fromExternalState(cmd.Requested))
	}

	if cmd, fresh := c.Input.PosingMode(); fresh {
		c.Pose.AutoCompensate = cmd.AutoCompensate
		if cmd.ResetRequested {
			c.Pose.ResetMode = 0
		}
	}

	if c.Current != Running {
		return
	}

	if cmd, fresh := c.Input.Gait(); fresh {
		c.requestGaitChange(cmd.Gait)
	}
	if cmd, fresh := c.Input.Parameter(); fresh {
		c.requestParameterAdjust(cmd)
	}
	if cmd, fresh := c.Input.LegStateToggle(); fresh {
		c.requestLegToggle(cmd)
	}

	c.tryApplyPendingGait()
	c.tryApplyPendingParameter(dt)
	c.tryApplyPendingLegToggle()

	if cmd, fresh := c.Input.CruiseControl(); fresh {
		c.cruiseControl = cmd
	}

	forceStop := c.pendingGait != nil || c.pendingParam != nil || c.pendingLegToggle != nil
	switch {
	case forceStop:
		c.Walk.SetDesiredVelocity(geom.Vector3{}, geom.Vector3{})
	case c.cruiseControl.Enabled:
		c.Walk.SetDesiredVelocity(c.cruiseControl.Velocity.Linear, c.cruiseControl.Velocity.Angular)
	default:
		if cmd, fresh := c.Input.Velocity(); fresh {
			c.Walk.SetDesiredVelocity(cmd.Linear, cmd.Angular)
		}
	}

	if cmd, fresh := c.Input.Pose(); fresh {
		c.Pose.ManualPoseOffset = cmd.Translation
		c.Pose.ManualOrientation = cmd.Orientation
	}
	if cmd, fresh := c.Input.LegManual(); fresh {
		if leg, ok := c.Model.Legs[cmd.LegID]; ok && leg.State == model.LegManual {
			walk.UpdateManual(leg, cmd.TipVelocity, c.Params.TimeDelta)
		}
	}
	if cmd, fresh := c.Input.PoseReset(); fresh && cmd.Requested {
		c.Pose.ResetMode = 0
	}
}

func fromExternalState(s adapters.SystemState) State {
	switch s {
	case adapters.StateOff:
		return Off
	case adapters.StatePacked:
		return Packed
	case adapters.StateReady:
		return Ready
	case adapters.StateRunning:
		return Running
	case adapters.StateSuspended:
		return Suspended
	default:
		return Unknown
	}
}

// requestGaitChange latches a gait-change request (spec.md §4.1.1 step 1).
// An unknown gait is rejected immediately; a known one is applied the next
// tick the walker is STOPPED, not necessarily this one.
func (c *Controller) requestGaitChange(t gait.Type) {
	if _, ok := gait.Lookup(t); !ok {
		logging.Warn("unknown gait requested", map[string]interface{}{"gait": t.String()})
		return
	}
	c.pendingGait = &t
}

// tryApplyPendingGait applies a latched gait-change request as soon as the
// walker is STOPPED, clearing the request (spec.md §4.1.1 step 1). Until
// then it stays pending and dispatchCommands keeps forcing velocity to zero.
func (c *Controller) tryApplyPendingGait() {
	if c.pendingGait == nil {
		return
	}
	if c.Walk.State != walk.Stopped {
		return
	}
	g, ok := gait.Lookup(*c.pendingGait)
	if !ok {
		c.pendingGait = nil
		return
	}
	c.Walk.ChangeGait(g, c.Model)
	c.pendingGait = nil
}

// requestParameterAdjust latches a parameter adjust/reset request (spec.md
// §4.1.1 step 2).
func (c *Controller) requestParameterAdjust(cmd adapters.ParameterCommand) {
	if c.Params.Get(cmd.Selection) == nil {
		logging.Warn("unknown parameter selection", map[string]interface{}{"selection": cmd.Selection.String()})
		return
	}
	c.pendingParam = &cmd
}

// tryApplyPendingParameter applies a latched parameter adjustment once the
// walker is STOPPED: clamps the value, re-initializes impedance (and the
// walker's gait geometry, if affected), then drives PoseController's
// stepToNewStance choreography to completion before clearing the request
// (spec.md §4.1.1 step 2). A startup choreography already in progress takes
// priority over stepToNewStance, since both drive the same Pose sequence.
func (c *Controller) tryApplyPendingParameter(dt float32) {
	if c.pendingParam == nil || c.startupActive {
		return
	}

	if !c.paramSequenceActive {
		if c.Walk.State != walk.Stopped {
			return
		}
		p := c.Params.Get(c.pendingParam.Selection)
		if c.pendingParam.Reset {
			p.Reset()
		} else {
			p.Adjust(c.pendingParam.Direction)
		}

		if c.pendingParam.Selection.AffectsImpedance() {
			c.Impedance.Reinitialize(
				c.Params.VirtualMass.CurrentValue,
				c.Params.VirtualStiffness.CurrentValue,
				c.Params.VirtualDampingRatio.CurrentValue,
				c.Params.ForceGain.CurrentValue,
			)
		}
		if c.pendingParam.Selection.AffectsGaitGeometry() {
			c.Walk.StepFrequency = c.Params.StepFrequency.CurrentValue
			c.Walk.StepClearance = c.Params.StepClearance.CurrentValue
		}

		c.Pose.BeginSequence(pose.SequenceSteppingToStance)
		c.paramSequenceActive = true
	}

	if c.Pose.AdvanceSequence(c.Model, dt) {
		c.paramSequenceActive = false
		c.pendingParam = nil
	}
}

// requestLegToggle latches a manual leg-state toggle request (spec.md
// §4.1.2).
func (c *Controller) requestLegToggle(cmd adapters.LegStateToggleCommand) {
	if _, ok := c.Model.Legs[cmd.LegID]; !ok {
		return
	}
	c.pendingLegToggle = &cmd
}

// tryApplyPendingLegToggle begins the WALKING<->MANUAL transition for a
// latched toggle request once the walker is STOPPED (spec.md §4.1.2: "If
// walk_state != STOPPED: zero velocity inputs and wait").
func (c *Controller) tryApplyPendingLegToggle() {
	if c.pendingLegToggle == nil {
		return
	}
	if c.Walk.State != walk.Stopped {
		return
	}
	cmd := *c.pendingLegToggle
	c.pendingLegToggle = nil

	leg, ok := c.Model.Legs[cmd.LegID]
	if !ok {
		return
	}
	c.beginLegTransition(leg, cmd.Manual)
}
