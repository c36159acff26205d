// Package adapters defines the external input/output boundary: commands an
// operator or higher-level planner can send into the controller, and the
// sensor/telemetry data it reads back out (spec.md §6 External Interfaces).
package adapters

import (
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/config"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/gait"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/geom"
)

// SystemState names the top-level states an operator may request
// transitions between (spec.md §3, §4.1).
type SystemState uint8

const (
	StateUnknown SystemState = iota
	StateOff
	StatePacked
	StateReady
	StateRunning
	StateSuspended
)

func (s SystemState) String() string {
	switch s {
	case StateOff:
		return "off"
	case StatePacked:
		return "packed"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateSuspended:
		return "suspended"
	default:
		return "unknown"
	}
}

// VelocityCommand is a commanded body velocity (spec.md §6).
type VelocityCommand struct {
	Linear  geom.Vector3
	Angular geom.Vector3
}

// PoseCommand is an operator-commanded manual body pose offset.
type PoseCommand struct {
	Translation geom.Vector3
	Orientation geom.Vector3 // roll, pitch, yaw radians
}

// SystemStateCommand requests a top-level state transition.
type SystemStateCommand struct {
	Requested SystemState
}

// GaitSelection requests a gait change, applied once the walker is fully
// stopped (spec.md §4.1.1).
type GaitSelection struct {
	Gait gait.Type
}

// PosingModeCommand toggles auto pose-compensation and reset behavior.
type PosingModeCommand struct {
	AutoCompensate bool
	ResetRequested bool
}

// CruiseControlCommand latches a velocity command so the robot continues
// walking at a fixed commanded velocity without a held input.
type CruiseControlCommand struct {
	Enabled  bool
	Velocity VelocityCommand
}

// ParameterCommand requests an adjustment (+1/-1 step) or reset of one
// runtime parameter (spec.md §3/§6).
type ParameterCommand struct {
	Selection config.Selection
	Direction int8 // +1 or -1; 0 leaves the value unchanged
	Reset     bool // restores the default value; Direction is then ignored
}

// LegSelectionCommand names which leg a subsequent manual command targets.
type LegSelectionCommand struct {
	LegID int
}

// LegStateToggleCommand requests a leg enter or leave manual control
// (spec.md §4 MAX_MANUAL_LEGS enforcement).
type LegStateToggleCommand struct {
	LegID  int
	Manual bool
}

// LegManualCommand jogs a single manually-controlled leg's tip velocity.
type LegManualCommand struct {
	LegID       int
	TipVelocity geom.Vector3
}

// PoseResetCommand requests the pose controller return to a neutral pose.
type PoseResetCommand struct {
	Requested bool
}

// IMUSample is one orientation/acceleration reading from the body IMU.
type IMUSample struct {
	Orientation  geom.Vector3 // roll, pitch, yaw radians
	LinearAccel  geom.Vector3
	AngularRate  geom.Vector3
}

// JointReport is one joint's measured state, read back from actuators.
type JointReport struct {
	LegID     int
	JointName string
	Position  float32
	Velocity  float32
}

// TipForceReport is one leg's measured/estimated tip contact force.
type TipForceReport struct {
	LegID int
	Force float32
}
