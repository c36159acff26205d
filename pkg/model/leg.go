package model

import (
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/gait"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/geom"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/kinematics"
)

// LegState is the per-leg operating mode (spec.md §3).
type LegState uint8

const (
	LegWalking LegState = iota
	LegManual
	LegWalkingToManual
	LegManualToWalking
)

// LegStepper is the plain-data record of one leg's position within the gait
// cycle, owned by Leg and driven each tick by the walk controller
// (spec.md §3: Leg owns LegStepper rather than LegStepper owning a leg
// back-reference).
type LegStepper struct {
	Phase           *gait.Phase
	StrideVector    geom.Vector3
	SwingClearance  float32
	WalkPlaneOffset geom.Vector3 // nominal stance position, body frame
	TargetTipPose   geom.Vector3 // desired tip position this tick, body frame
}

// PoseSubState is the per-leg sub-state the pose controller drives a leg
// through during startup/shutdown sequencing (spec.md §4.3).
type PoseSubState uint8

const (
	PoseSettled PoseSubState = iota
	PosePacking
	PoseUnpacking
	PoseSteppingToStance
)

// LegPoser is the plain-data record of one leg's pose-sequencing state,
// owned by Leg (mirrors LegStepper's ownership direction).
type LegPoser struct {
	SubState          PoseSubState
	PackedJointAngles kinematics.JointAngles
	StanceTipPose     geom.Vector3 // body-frame target once settled
	SequenceProgress  float32      // 0..1 through the current sub-state

	// ManipulationAnchor is the tip position held fixed while this leg's
	// State is LegWalkingToManual/LegManualToWalking (spec.md §4.1.2
	// poseForLegManipulation), captured the instant the transition begins.
	ManipulationAnchor geom.Vector3
}

// Leg is one physical leg: its static geometry, joints/links, the stepper
// and poser state machines, and the dynamic quantities fed into / produced
// by the impedance controller.
type Leg struct {
	ID       int
	Name     string
	Geometry kinematics.LegGeometry

	Coxa, Femur, Tibia Joint
	CoxaLink, FemurLink, TibiaLink Link

	State  LegState
	Stepper LegStepper
	Poser   LegPoser

	// Dynamic quantities from the impedance pipeline (spec.md §4.4).
	TipForce         float32 // measured/estimated normal force
	DeltaZ           float32 // vertical deflection commanded by impedance
	VirtualStiffness float32 // current effective stiffness (may be scaled)

	// CurrentTipPose is the fully composed target tip position (body
	// frame) for this tick, after gait trajectory + pose compensation +
	// impedance deflection have all been applied, immediately before IK.
	CurrentTipPose geom.Vector3

	JointAngles kinematics.JointAngles
}

// NewLeg builds a Leg from geometry and a gait, seeding its stepper phase.
func NewLeg(id int, name string, geometry kinematics.LegGeometry, g gait.Gait, stanceOffset geom.Vector3) *Leg {
	return &Leg{
		ID:       id,
		Name:     name,
		Geometry: geometry,
		CoxaLink: Link{Name: "coxa", Length: geometry.CoxaLength},
		FemurLink: Link{Name: "femur", Length: geometry.FemurLength},
		TibiaLink: Link{Name: "tibia", Length: geometry.TibiaLength},
		Coxa:  Joint{Name: "coxa", Limits: geometry.CoxaLimits},
		Femur: Joint{Name: "femur", Limits: geometry.FemurLimits},
		Tibia: Joint{Name: "tibia", Limits: geometry.TibiaLimits},
		State: LegWalking,
		Stepper: LegStepper{
			Phase:           gait.NewPhase(g, id),
			WalkPlaneOffset: stanceOffset,
			TargetTipPose:   stanceOffset,
		},
		Poser:          LegPoser{StanceTipPose: stanceOffset},
		CurrentTipPose: stanceOffset,
	}
}

// ApplyIK solves CurrentTipPose into JointAngles via the leg's analytic
// kinematics, updating each Joint's DesiredPosition. Returns the error from
// kinematics.LegGeometry.Inverse unchanged so callers can log/degrade per
// spec.md §7 (a degenerate-reach leg holds its last valid angles).
func (l *Leg) ApplyIK() error {
	angles, err := l.Geometry.Inverse(l.CurrentTipPose)
	if err != nil {
		return err
	}
	l.JointAngles = angles
	l.Coxa.DesiredPosition = angles.Coxa
	l.Femur.DesiredPosition = angles.Femur
	l.Tibia.DesiredPosition = angles.Tibia
	return nil
}
