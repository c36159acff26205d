// Package config holds the typed, bounded, adjustable runtime parameter set
// (spec.md §3 Parameters/AdjustableParameter, §6 parameter enumeration).
package config

import "github.com/deeplearning2012/syropod-highlevel-controller/pkg/geom"

// AdjustableParameter is one runtime-tunable scalar, always kept within
// [Min, Max] (spec.md §3 invariant).
type AdjustableParameter struct {
	Name         string  `yaml:"name"`
	CurrentValue float32 `yaml:"current_value"`
	DefaultValue float32 `yaml:"default_value"`
	Min          float32 `yaml:"min"`
	Max          float32 `yaml:"max"`
	AdjustStep   float32 `yaml:"adjust_step"`
}

// Clamp forces CurrentValue back into [Min,Max], returning whether a clamp
// was applied (callers use this to decide whether to log a warning per
// spec.md §7).
func (p *AdjustableParameter) Clamp() bool {
	clamped := geom.Clamp(p.CurrentValue, p.Min, p.Max)
	changed := clamped != p.CurrentValue
	p.CurrentValue = clamped
	return changed
}

// Adjust applies one adjust_step increment (direction > 0), decrement
// (direction < 0), flips AdjustStep's sign if the requested direction
// opposes it (spec.md §6 parameter_adjustment semantics), then clamps.
func (p *AdjustableParameter) Adjust(direction int8) bool {
	if direction == 0 {
		return false
	}
	wantPositive := direction > 0
	stepPositive := p.AdjustStep >= 0
	if wantPositive != stepPositive {
		p.AdjustStep = -p.AdjustStep
	}
	p.CurrentValue += p.AdjustStep
	p.Clamp()
	return true
}

// Reset restores CurrentValue to DefaultValue.
func (p *AdjustableParameter) Reset() {
	p.CurrentValue = p.DefaultValue
}

// Selection identifies one entry in the runtime-tunable subset
// (spec.md §3).
type Selection uint8

const (
	SelectionNone Selection = iota
	StepFrequency
	StepClearance
	BodyClearance
	LegSpanScale
	VirtualMass
	VirtualStiffness
	VirtualDamping
	ForceGain
)

func (s Selection) String() string {
	switch s {
	case StepFrequency:
		return "step_frequency"
	case StepClearance:
		return "step_clearance"
	case BodyClearance:
		return "body_clearance"
	case LegSpanScale:
		return "leg_span_scale"
	case VirtualMass:
		return "virtual_mass"
	case VirtualStiffness:
		return "virtual_stiffness"
	case VirtualDamping:
		return "virtual_damping"
	case ForceGain:
		return "force_gain"
	default:
		return "none"
	}
}

// affectsGaitGeometry reports whether re-initializing this parameter
// requires reloading the walk controller's geometry (spec.md §4.1.1 step 2:
// "re-init impedance (and walker if the parameter affects gait geometry)").
func (s Selection) affectsGaitGeometry() bool {
	switch s {
	case StepFrequency, StepClearance, BodyClearance, LegSpanScale:
		return true
	default:
		return false
	}
}

// AffectsGaitGeometry is the exported form of affectsGaitGeometry for use by
// pkg/state.
func (s Selection) AffectsGaitGeometry() bool {
	return s.affectsGaitGeometry()
}

// affectsImpedance reports whether the parameter requires re-initializing
// the impedance controller.
func (s Selection) affectsImpedance() bool {
	switch s {
	case VirtualMass, VirtualStiffness, VirtualDamping, ForceGain:
		return true
	default:
		return false
	}
}

// AffectsImpedance is the exported form of affectsImpedance.
func (s Selection) AffectsImpedance() bool {
	return s.affectsImpedance()
}
