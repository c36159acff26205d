package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/geom"
	"github.com/deeplearning2012/syropod-highlevel-controller/pkg/kinematics"
)

// LegGeometry is the per-leg static geometry supplement added by the
// SPEC_FULL.md expansion of §4.2: the walk controller needs each leg's
// nominal (unloaded, standing) stance offset in the body frame to compute
// stride vectors and the default stance pose.
type LegGeometry struct {
	CoxaLength      float32     `yaml:"coxa_length"`
	FemurLength     float32     `yaml:"femur_length"`
	TibiaLength     float32     `yaml:"tibia_length"`
	MountOffset     geom.Vector3 `yaml:"mount_offset"`
	MountYaw        float32     `yaml:"mount_yaw"`
	StanceOffset    geom.Vector3 `yaml:"stance_offset"`
	CoxaMin         float32     `yaml:"coxa_min"`
	CoxaMax         float32     `yaml:"coxa_max"`
	FemurMin        float32     `yaml:"femur_min"`
	FemurMax        float32     `yaml:"femur_max"`
	TibiaMin        float32     `yaml:"tibia_min"`
	TibiaMax        float32     `yaml:"tibia_max"`
}

// ParameterSet is the complete runtime configuration (spec.md §6), loaded
// once at startup from YAML and mutated thereafter only through
// AdjustableParameter.Adjust/Reset.
type ParameterSet struct {
	TimeDelta float32 `yaml:"time_delta"`

	GaitType           string                 `yaml:"gait_type"`
	StepFrequency      AdjustableParameter     `yaml:"step_frequency"`
	StepClearance      AdjustableParameter     `yaml:"step_clearance"`
	BodyClearance      AdjustableParameter     `yaml:"body_clearance"`
	LegSpanScale       AdjustableParameter     `yaml:"leg_span_scale"`

	VirtualMass        AdjustableParameter `yaml:"virtual_mass"`
	VirtualStiffness   AdjustableParameter `yaml:"virtual_stiffness"`
	VirtualDampingRatio AdjustableParameter `yaml:"virtual_damping_ratio"`
	ForceGain          AdjustableParameter `yaml:"force_gain"`
	ForceOffset        float32             `yaml:"force_offset"`
	MaxTipForce        float32             `yaml:"max_tip_force"`
	IntegratorStepTime float32             `yaml:"integrator_step_time"`

	PitchPID geom.Vector3 `yaml:"pitch_pid_gains"`
	RollPID  geom.Vector3 `yaml:"roll_pid_gains"`
	ZPID     geom.Vector3 `yaml:"z_pid_gains"`

	MaxLinearSpeed  float32 `yaml:"max_linear_speed"`
	MaxAngularSpeed float32 `yaml:"max_angular_speed"`
	MaxAcceleration float32 `yaml:"max_acceleration"`

	MaxManualLegs int `yaml:"max_manual_legs"`

	// StartUpSequence selects the OFF->RUNNING choreography (spec.md §4.1
	// transition table): true runs the normal OFF->PACKED->READY->RUNNING
	// path; false allows a direct OFF->RUNNING request, driven by
	// PoseController's directStartup choreography instead.
	StartUpSequence bool `yaml:"start_up_sequence"`

	Legs [gaitMaxLegs]LegGeometry `yaml:"legs"`
}

const gaitMaxLegs = 6

// ToKinematics converts the YAML-friendly LegGeometry into the form
// pkg/kinematics operates on.
func (lg LegGeometry) ToKinematics() kinematics.LegGeometry {
	return kinematics.LegGeometry{
		CoxaLength:  lg.CoxaLength,
		FemurLength: lg.FemurLength,
		TibiaLength: lg.TibiaLength,
		CoxaLimits:  kinematics.JointLimits{Min: lg.CoxaMin, Max: lg.CoxaMax},
		FemurLimits: kinematics.JointLimits{Min: lg.FemurMin, Max: lg.FemurMax},
		TibiaLimits: kinematics.JointLimits{Min: lg.TibiaMin, Max: lg.TibiaMax},
		MountYaw:    lg.MountYaw,
		MountOffset: lg.MountOffset,
	}
}

// Load reads a ParameterSet from a YAML file, grounded on the teacher's use
// of gopkg.in/yaml.v3 for structured config (x/marshaller/yaml).
func Load(path string) (*ParameterSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var ps ParameterSet
	if err := yaml.Unmarshal(data, &ps); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &ps, nil
}

// Save writes the current ParameterSet back out as YAML, e.g. after an
// operator session adjusts parameters interactively.
func (ps *ParameterSet) Save(path string) error {
	data, err := yaml.Marshal(ps)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Get returns a pointer to the AdjustableParameter named by sel, or nil for
// SelectionNone / an unrecognized selection.
func (ps *ParameterSet) Get(sel Selection) *AdjustableParameter {
	switch sel {
	case StepFrequency:
		return &ps.StepFrequency
	case StepClearance:
		return &ps.StepClearance
	case BodyClearance:
		return &ps.BodyClearance
	case LegSpanScale:
		return &ps.LegSpanScale
	case VirtualMass:
		return &ps.VirtualMass
	case VirtualStiffness:
		return &ps.VirtualStiffness
	case VirtualDamping:
		return &ps.VirtualDampingRatio
	case ForceGain:
		return &ps.ForceGain
	default:
		return nil
	}
}

// Default returns a ParameterSet populated with conservative defaults,
// used by cmd/hexapod when no config file is supplied and by tests.
func Default() *ParameterSet {
	ps := &ParameterSet{
		TimeDelta: 0.02,
		GaitType:  "tripod_gait",
		StepFrequency: AdjustableParameter{
			Name: "step_frequency", CurrentValue: 1.0, DefaultValue: 1.0,
			Min: 0.1, Max: 3.0, AdjustStep: 0.1,
		},
		StepClearance: AdjustableParameter{
			Name: "step_clearance", CurrentValue: 0.04, DefaultValue: 0.04,
			Min: 0.01, Max: 0.15, AdjustStep: 0.01,
		},
		BodyClearance: AdjustableParameter{
			Name: "body_clearance", CurrentValue: 0.1, DefaultValue: 0.1,
			Min: 0.05, Max: 0.25, AdjustStep: 0.01,
		},
		LegSpanScale: AdjustableParameter{
			Name: "leg_span_scale", CurrentValue: 1.0, DefaultValue: 1.0,
			Min: 0.5, Max: 1.5, AdjustStep: 0.05,
		},
		VirtualMass: AdjustableParameter{
			Name: "virtual_mass", CurrentValue: 1.0, DefaultValue: 1.0,
			Min: 0.1, Max: 10.0, AdjustStep: 0.1,
		},
		VirtualStiffness: AdjustableParameter{
			Name: "virtual_stiffness", CurrentValue: 20.0, DefaultValue: 20.0,
			Min: 1.0, Max: 200.0, AdjustStep: 1.0,
		},
		VirtualDampingRatio: AdjustableParameter{
			Name: "virtual_damping_ratio", CurrentValue: 1.0, DefaultValue: 1.0,
			Min: 0.1, Max: 3.0, AdjustStep: 0.1,
		},
		ForceGain: AdjustableParameter{
			Name: "force_gain", CurrentValue: 1.0, DefaultValue: 1.0,
			Min: 0.0, Max: 5.0, AdjustStep: 0.1,
		},
		ForceOffset:        0.0,
		MaxTipForce:        50.0,
		IntegratorStepTime: 0.02,
		PitchPID:           geom.Vector3{1.0, 0.1, 0.05},
		RollPID:            geom.Vector3{1.0, 0.1, 0.05},
		ZPID:               geom.Vector3{1.0, 0.1, 0.05},
		MaxLinearSpeed:      0.5,
		MaxAngularSpeed:     1.0,
		MaxAcceleration:     -1, // disabled, per DESIGN.md Open Question Decision #2
		MaxManualLegs:       2,
		StartUpSequence:     true,
	}
	return ps
}
