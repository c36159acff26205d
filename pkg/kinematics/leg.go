// Package kinematics implements the analytic inverse/forward kinematics for
// one hexapod leg: a coxa joint rotating about the body-normal axis, feeding
// a two-link planar arm (femur, tibia) in the resulting vertical plane.
//
// This is structurally the same problem as a base-yaw + two-link planar arm,
// solved with the same atan2/law-of-cosines construction.
package kinematics

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/geom"
)

// JointLimits bounds a single joint's angle, in radians.
type JointLimits struct {
	Min, Max float32
}

// Limit clamps a to [Min,Max].
func (l JointLimits) Limit(a float32) float32 {
	switch {
	case a < l.Min:
		return l.Min
	case a > l.Max:
		return l.Max
	default:
		return a
	}
}

// LegGeometry describes one leg's link lengths and joint limits, and its
// mounting yaw relative to the body frame (so desired tip positions can be
// given in the body frame rather than the leg's own local frame).
type LegGeometry struct {
	CoxaLength, FemurLength, TibiaLength float32
	CoxaLimits, FemurLimits, TibiaLimits JointLimits
	MountYaw                             float32 // leg base orientation about body Z
	MountOffset                          geom.Vector3
}

// ErrDegenerateReach is returned when the solve has no defined angles: the
// target coincides with the femur joint, or the femur or tibia length is
// zero.
var ErrDegenerateReach = fmt.Errorf("kinematics: degenerate reach")

// JointAngles holds the three leg joint angles in solve order.
type JointAngles struct {
	Coxa, Femur, Tibia float32
}

// Forward computes the tip position (body frame) from joint angles.
func (g LegGeometry) Forward(angles JointAngles) geom.Vector3 {
	coxa := g.CoxaLimits.Limit(angles.Coxa)
	femur := g.FemurLimits.Limit(angles.Femur)
	tibia := g.TibiaLimits.Limit(angles.Tibia) + femur

	reach := g.CoxaLength + g.FemurLength*math32.Cos(femur) + g.TibiaLength*math32.Cos(tibia)
	z := g.FemurLength*math32.Sin(femur) + g.TibiaLength*math32.Sin(tibia)

	local := geom.Vector3{
		reach * math32.Cos(coxa),
		reach * math32.Sin(coxa),
		z,
	}
	return g.toBodyFrame(local)
}

// Inverse solves joint angles for a tip position given in the body frame,
// clamping to configured limits. Returns ErrDegenerateReach if the target
// coincides with the femur joint or a femur/tibia length is zero.
func (g LegGeometry) Inverse(tipBodyFrame geom.Vector3) (JointAngles, error) {
	local := g.toLegFrame(tipBodyFrame)
	x, y, z := local[0], local[1], local[2]

	l0, l1, l2 := g.CoxaLength, g.FemurLength, g.TibiaLength

	xPrime := math32.Sqrt(x*x+y*y) - l0
	rSquared := xPrime*xPrime + z*z
	r := math32.Sqrt(rSquared)

	denomBeta := 2 * l1 * l2
	if denomBeta == 0 {
		return JointAngles{}, ErrDegenerateReach
	}
	betaCos := geom.Clamp((l1*l1+l2*l2-rSquared)/denomBeta, -1, 1)
	beta := math32.Acos(betaCos)

	denomAlpha := 2 * l1 * r
	if denomAlpha == 0 {
		return JointAngles{}, ErrDegenerateReach
	}
	alphaCos := geom.Clamp((rSquared+l1*l1-l2*l2)/denomAlpha, -1, 1)
	alpha := math32.Acos(alphaCos)

	angles := JointAngles{
		Coxa:  g.CoxaLimits.Limit(math32.Atan2(y, x)),
		Femur: g.FemurLimits.Limit(math32.Atan2(z, xPrime) + alpha),
		Tibia: g.TibiaLimits.Limit(beta - math32.Pi),
	}
	return angles, nil
}

// MaxReach is the fully-extended planar reach of the leg from the coxa
// axis, used by workspace-radius enforcement in the walk controller.
func (g LegGeometry) MaxReach() float32 {
	return g.CoxaLength + g.FemurLength + g.TibiaLength
}

func (g LegGeometry) toLegFrame(bodyFrame geom.Vector3) geom.Vector3 {
	offset := bodyFrame.Sub(g.MountOffset)
	c, s := math32.Cos(-g.MountYaw), math32.Sin(-g.MountYaw)
	return geom.Vector3{
		offset[0]*c - offset[1]*s,
		offset[0]*s + offset[1]*c,
		offset[2],
	}
}

func (g LegGeometry) toBodyFrame(legFrame geom.Vector3) geom.Vector3 {
	c, s := math32.Cos(g.MountYaw), math32.Sin(g.MountYaw)
	rotated := geom.Vector3{
		legFrame[0]*c - legFrame[1]*s,
		legFrame[0]*s + legFrame[1]*c,
		legFrame[2],
	}
	return rotated.Add(g.MountOffset)
}
