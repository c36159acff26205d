// Package state implements the top-level lifecycle state machine that owns
// and sequences the walk/pose/impedance pipeline each tick (spec.md §4.1
// StateController).
package state

import (
	"fmt"
	"time"

	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/adapters"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/config"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/gait"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/geom"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/impedance"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/logging"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/model"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/pose"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/walk"
)

// State is the top-level lifecycle state (spec.md §3). It is a superset of
// adapters.SystemState: WaitingForUser and Unknown only ever occur during
// bootstrap and are never states an operator can directly request.
type State uint8

const (
	WaitingForUser State = iota
	Unknown
	Off
	Packed
	Ready
	Running
	Suspended
)

func (s State) String() string {
	switch s {
	case Unknown:
		return "unknown"
	case Off:
		return "off"
	case Packed:
		return "packed"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Suspended:
		return "suspended"
	default:
		return "waiting_for_user"
	}
}

// MaxManualLegs bounds how many legs can simultaneously be in manual
// control (spec.md §4 invariant).
const MaxManualLegs = 2

// allowedTransitions enumerates the legal direct state-to-state edges
// (spec.md §4.1): bootstrap resolves WaitingForUser/Unknown into Off or
// Packed depending on observed joint positions (see Controller.bootstrap),
// after which every transition is operator-driven and strictly adjacent
// (Off<->Packed<->Ready<->Running, plus Running<->Suspended).
var allowedTransitions = map[State]map[State]bool{
	WaitingForUser: {Off: true, Packed: true},
	Unknown:        {Off: true, Packed: true},
	Off:            {Packed: true},
	Packed:         {Off: true, Ready: true},
	Ready:          {Packed: true, Running: true},
	Running:        {Ready: true, Suspended: true},
	Suspended:      {Running: true},
}

// Controller is the top-level FSM driving the full tick pipeline.
type Controller struct {
	Current State

	Model     *model.Model
	Walk      *walk.Controller
	Pose      *pose.Controller
	Impedance *impedance.Controller
	Params    *config.ParameterSet

	Input     adapters.InputSource
	Sensors   adapters.SensorSource
	Actuators adapters.ActuatorSink
	Telemetry adapters.TelemetrySink

	throttle *logging.Throttler

	// pendingGait/pendingParam/pendingLegToggle latch a RUNNING-pipeline
	// request that arrived while the walker was not yet STOPPED (spec.md
	// §4.1.1 steps 1-3): the request is held, velocity inputs are forced to
	// zero every tick, and it is applied the first tick Walk.State==Stopped.
	pendingGait        *gait.Type
	pendingParam       *adapters.ParameterCommand
	paramSequenceActive bool
	pendingLegToggle   *adapters.LegStateToggleCommand

	cruiseControl adapters.CruiseControlCommand

	// startupActive is true while a Ready->Running or direct-startup
	// choreography (spec.md §4.1 table) is still running; Tick drives the
	// Pose sequence instead of the full RUNNING pipeline until it completes.
	startupActive bool

	seen map[string]bool // bootstrap: joint names already reported in, see resolveBootstrap
}

// New builds a Controller wired to the given model/pipeline stages.
func New(m *model.Model, w *walk.Controller, p *pose.Controller, imp *impedance.Controller, params *config.ParameterSet, in adapters.InputSource, sensors adapters.SensorSource, act adapters.ActuatorSink, tel adapters.TelemetrySink) *Controller {
	return &Controller{
		Current:   WaitingForUser,
		Model:     m,
		Walk:      w,
		Pose:      p,
		Impedance: imp,
		Params:    params,
		Input:     in,
		Sensors:   sensors,
		Actuators: act,
		Telemetry: tel,
		throttle:  logging.NewThrottler(time.Second),
		seen:      make(map[string]bool),
	}
}

// canTransition reports whether to is a legal direct successor of from.
func canTransition(from, to State) bool {
	if from == to {
		return true
	}
	edges, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return edges[to]
}

// requestState attempts a transition, logging (not erroring) an illegal
// request per spec.md §7: malformed/illegal operator commands are reported,
// not fatal. OFF->RUNNING is special-cased: legal only when start-up
// sequencing is disabled, and driven by directStartup instead of the normal
// adjacency graph (spec.md §4.1 transition table).
func (c *Controller) requestState(to State) {
	if c.Current == Off && to == Running && !c.Params.StartUpSequence {
		c.beginDirectStartup()
		return
	}
	if !canTransition(c.Current, to) {
		logging.Warn("illegal state transition requested", map[string]interface{}{
			"from": c.Current.String(), "to": to.String(),
		})
		return
	}
	if c.Current == WaitingForUser || c.Current == Unknown {
		c.finishBootstrap(to)
		return
	}
	c.beginTransition(to)
}

// beginTransition starts the choreography (if any) for moving to the next
// adjacent state and commits Current immediately; Off<->Packed has no
// choreography. The choreography itself (unpack/pack/startup/shutdown) runs
// to completion over
// subsequent ticks via Pose.AdvanceSequence, tracked by Current already
// reflecting the target state (spec.md §4.1/§4.3: the state is "Ready" as
// soon as the transition begins, not only once settled, matching the
// teacher's non-blocking FSM style).
func (c *Controller) beginTransition(to State) {
	switch {
	case c.Current == Packed && to == Ready:
		c.Pose.BeginSequence(pose.SequenceUnpacking)
	case c.Current == Ready && to == Packed:
		c.Pose.BeginSequence(pose.SequencePacking)
	case c.Current == Ready && to == Running:
		c.Pose.BeginSequence(pose.SequenceStartUp)
		c.startupActive = true
	case c.Current == Running && to == Ready:
		c.Pose.BeginSequence(pose.SequenceShutDown)
	}
	c.Current = to
	c.Telemetry.ReportState(toExternalState(to))
	c.throttle.Info("state_transition", time.Now(), "state transition: "+to.String())
}

// beginDirectStartup drives OFF straight to RUNNING via PoseController's
// directStartup choreography, used only when StartUpSequence is disabled
// (spec.md §4.1: "OFF -> RUNNING (no startup) | PoseController.directStartup
// incrementally; complete => RUNNING").
func (c *Controller) beginDirectStartup() {
	c.Pose.BeginSequence(pose.SequenceDirectStartup)
	c.startupActive = true
	c.Current = Running
	c.Telemetry.ReportState(toExternalState(Running))
	c.throttle.Info("state_transition", time.Now(), "state transition: running (direct startup)")
}

// finishBootstrap resolves WaitingForUser/Unknown into a concrete state
// without running a pack/unpack choreography, since the robot's actual
// joint positions (not our assumed packed posture) are the ground truth at
// startup (DESIGN.md Open Question Decision: bootstrap order-dependence).
func (c *Controller) finishBootstrap(to State) {
	c.Current = to
	c.Telemetry.ReportState(toExternalState(to))
}

func toExternalState(s State) adapters.SystemState {
	switch s {
	case Off:
		return adapters.StateOff
	case Packed:
		return adapters.StatePacked
	case Ready:
		return adapters.StateReady
	case Running:
		return adapters.StateRunning
	case Suspended:
		return adapters.StateSuspended
	default:
		return adapters.StateUnknown
	}
}

// resolveBootstrap consumes joint reports until every joint of every leg has
// reported in at least once (tracked via the seen map, keyed by a stable per-joint
// identifier so bootstrap is independent of the order reports arrive in),
// then infers Off vs Packed from how close the reported joints are to the
// configured packed posture (DESIGN.md Open Question Decision #1).
func (c *Controller) resolveBootstrap() {
	if c.Current != WaitingForUser && c.Current != Unknown {
		return
	}
	reports := c.Sensors.Joints()
	if len(reports) == 0 {
		return
	}
	for _, r := range reports {
		c.seen[jointKey(r.LegID, r.JointName)] = true
	}
	if len(c.seen) < len(c.Model.Legs)*3 {
		c.Current = Unknown
		return
	}

	const packedTolerance = 0.05
	allPacked := true
	for _, r := range reports {
		leg, ok := c.Model.Legs[r.LegID]
		if !ok {
			continue
		}
		var target float32
		switch r.JointName {
		case "coxa":
			target = leg.Poser.PackedJointAngles.Coxa
		case "femur":
			target = leg.Poser.PackedJointAngles.Femur
		case "tibia":
			target = leg.Poser.PackedJointAngles.Tibia
		default:
			continue
		}
		if abs32(r.Position-target) > packedTolerance {
			allPacked = false
		}
	}
	if allPacked {
		c.finishBootstrap(Packed)
	} else {
		c.finishBootstrap(Off)
	}
}

func jointKey(legID int, name string) string {
	return fmt.Sprintf("%d/%s", legID, name)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// Tick runs exactly one fixed-period step of the full lifecycle and (when
// Running) the locomotion pipeline (spec.md §2/§5).
func (c *Controller) Tick(dt float32) {
	c.resolveBootstrap()
	c.dispatchCommands(dt)

	switch c.Current {
	case Packed, Ready:
		c.Pose.AdvanceSequence(c.Model, dt)
	case Running:
		if c.startupActive {
			if c.Pose.AdvanceSequence(c.Model, dt) {
				c.startupActive = false
			}
		} else {
			c.tickRunning(dt)
		}
	}

	c.flushActuators()
}

// tickRunning executes the per-tick pipeline in spec order: walk -> pose ->
// impedance -> IK (spec.md §2), then applies manual leg overrides and
// enforces the workspace radius before IK.
func (c *Controller) tickRunning(dt float32) {
	if imu, fresh := c.Sensors.IMU(); fresh {
		c.Pose.UpdateCurrentPose(imu.Orientation, geom.Vector3{}, dt)
	} else {
		c.Pose.UpdateCurrentPose(geom.Vector3{}, geom.Vector3{}, dt)
	}

	c.Walk.UpdateWalk(c.Model, dt)
	c.Pose.UpdateStance(c.Model)

	for _, r := range c.Sensors.TipForces() {
		if leg, ok := c.Model.Legs[r.LegID]; ok {
			leg.TipForce = r.Force
		}
	}
	c.Impedance.Update(c.Model, dt)
	c.advanceLegTransitions(dt)

	c.Model.ForEachLeg(func(l *model.Leg) {
		if l.State != model.LegManual {
			return
		}
		maxReach := l.Geometry.MaxReach()
		clamped := l.CurrentTipPose.ClampMagnitude(maxReach)
		l.CurrentTipPose = clamped
	})

	for _, err := range c.Model.ApplyIK() {
		logging.Warn("leg kinematics degenerate", map[string]interface{}{"error": err.Error()})
	}

	c.Model.ForEachLeg(func(l *model.Leg) {
		c.Actuators.SetJointTarget(l.ID, "coxa", l.Coxa.DesiredPosition)
		c.Actuators.SetJointTarget(l.ID, "femur", l.Femur.DesiredPosition)
		c.Actuators.SetJointTarget(l.ID, "tibia", l.Tibia.DesiredPosition)
	})
}

// advanceLegTransitions steps every leg mid-WALKING_TO_MANUAL/
// MANUAL_TO_WALKING transition (spec.md §4.1.2): holds the tip at its
// captured anchor via PoseController.poseForLegManipulation and finalizes
// the leg's state once progress reaches 1.0.
func (c *Controller) advanceLegTransitions(dt float32) {
	speed := c.Pose.SequenceSpeed
	if speed <= 0 {
		speed = 1
	}
	c.Model.ForEachLeg(func(l *model.Leg) {
		if l.State != model.LegWalkingToManual && l.State != model.LegManualToWalking {
			return
		}

		l.Poser.SequenceProgress += speed * dt
		done := l.Poser.SequenceProgress >= 1
		if done {
			l.Poser.SequenceProgress = 1
		}
		pose.PoseForLegManipulation(l, l.Poser.ManipulationAnchor)

		if !done {
			return
		}
		switch l.State {
		case model.LegWalkingToManual:
			l.State = model.LegManual
		case model.LegManualToWalking:
			l.State = model.LegWalking
		}
		c.Telemetry.ReportLegState(l.ID, l.State == model.LegManual)
	})
}

// manualAssociatedCount reports how many legs are currently in any of the
// manual-associated states (spec.md §3 invariant: at most MaxManualLegs in
// {MANUAL, WALKING_TO_MANUAL, MANUAL_TO_WALKING} at once).
func (c *Controller) manualAssociatedCount() int {
	n := 0
	c.Model.ForEachLeg(func(l *model.Leg) {
		if l.State != model.LegWalking {
			n++
		}
	})
	return n
}

// beginLegTransition starts a leg moving into or out of manual control,
// enforcing MaxManualLegs against every manual-associated leg, not just
// fully-manual ones (spec.md §4.1.2).
func (c *Controller) beginLegTransition(leg *model.Leg, manual bool) {
	if manual {
		if leg.State != model.LegWalking {
			return
		}
		if c.manualAssociatedCount() >= MaxManualLegs {
			logging.Warn("manual leg limit reached", map[string]interface{}{
				"leg": leg.ID, "max": MaxManualLegs,
			})
			return
		}
		leg.State = model.LegWalkingToManual
	} else {
		if leg.State != model.LegManual {
			return
		}
		leg.State = model.LegManualToWalking
	}
	leg.Poser.SequenceProgress = 0
	leg.Poser.ManipulationAnchor = leg.CurrentTipPose
}

func (c *Controller) flushActuators() {
	if err := c.Actuators.Flush(); err != nil {
		logging.Warn("actuator flush failed", map[string]interface{}{"error": err.Error()})
	}
}
