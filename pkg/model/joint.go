// Package model holds the robot's static and dynamic state: joints, links,
// legs and the aggregate Model that owns them (spec.md §3 Data Model).
package model

import "github.com/deeplearning2012/syropod-highlevel-controller/pkg/kinematics"

// Joint is one actuated degree of freedom within a leg.
type Joint struct {
	Name             string
	Limits           kinematics.JointLimits
	DesiredPosition  float32
	DesiredVelocity  float32
	CurrentPosition  float32
	MaxAngularSpeed  float32 // <=0 disables velocity clamping, see DESIGN.md
}

// ApplyVelocity advances DesiredPosition by DesiredVelocity*dt, clamping the
// velocity to MaxAngularSpeed first when that limit is configured (> 0),
// per the Open Question decision recorded in DESIGN.md: the clamp is
// opt-in via a non-zero MaxAngularSpeed rather than unconditionally
// enforced.
func (j *Joint) ApplyVelocity(dt float32) {
	v := j.DesiredVelocity
	if j.MaxAngularSpeed > 0 {
		if v > j.MaxAngularSpeed {
			v = j.MaxAngularSpeed
		}
		if v < -j.MaxAngularSpeed {
			v = -j.MaxAngularSpeed
		}
	}
	j.DesiredPosition = j.Limits.Limit(j.DesiredPosition + v*dt)
}

// Link is one rigid segment between two joints (or a joint and the tip).
type Link struct {
	Name   string
	Length float32
}
