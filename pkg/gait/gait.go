// Package gait defines the gait template model (spec.md §4.2) and the
// per-leg step-phase state machine shared by the walk controller.
package gait

import "github.com/chewxy/math32"

// Type enumerates the supported gait patterns.
type Type uint8

const (
	Tripod Type = iota
	Ripple
	Wave
	Amble
	Undesignated
)

func (t Type) String() string {
	switch t {
	case Tripod:
		return "tripod_gait"
	case Ripple:
		return "ripple_gait"
	case Wave:
		return "wave_gait"
	case Amble:
		return "amble_gait"
	default:
		return "undesignated"
	}
}

// MaxLegs bounds the per-leg offset multiplier table; hexapods use 6.
const MaxLegs = 6

// Gait is the tuple (stance_phase, swing_phase, phase_offset,
// offset_multiplier[N]) from spec.md §4.2.
type Gait struct {
	Name             string
	StancePhase      float32
	SwingPhase       float32
	PhaseOffset      float32
	OffsetMultiplier [MaxLegs]float32
}

// CycleLength is the total period of one step cycle (stance + swing),
// expressed in the same normalized units as PhaseOffset.
func (g Gait) CycleLength() float32 {
	return g.StancePhase + g.SwingPhase
}

// LegPhaseOffset computes phi_i = (phase_offset * offset_multiplier[i]) mod
// cycle_length for leg i, per spec.md §4.2.
func (g Gait) LegPhaseOffset(legIndex int) float32 {
	cycle := g.CycleLength()
	if cycle <= 0 {
		return 0
	}
	raw := g.PhaseOffset * g.OffsetMultiplier[legIndex]
	return math32.Mod(math32.Mod(raw, cycle)+cycle, cycle)
}

// Library is the fixed set of built-in gaits, selected by Type. Offset
// multipliers below are chosen so that tripod groups {0,2,4} and {1,3,5}
// land exactly 180 degrees out of phase (spec.md §8 scenario 2) and the
// other gaits produce the intended single/paired-swing cadences.
var Library = map[Type]Gait{
	Tripod: {
		Name:             Tripod.String(),
		StancePhase:      0.5,
		SwingPhase:       0.5,
		PhaseOffset:      0.5,
		OffsetMultiplier: [MaxLegs]float32{0, 1, 0, 1, 0, 1},
	},
	Wave: {
		Name:             Wave.String(),
		StancePhase:      5.0 / 6.0,
		SwingPhase:       1.0 / 6.0,
		PhaseOffset:      1.0 / 6.0,
		OffsetMultiplier: [MaxLegs]float32{0, 1, 2, 3, 4, 5},
	},
	Ripple: {
		Name:             Ripple.String(),
		StancePhase:      2.0 / 3.0,
		SwingPhase:       1.0 / 3.0,
		PhaseOffset:      1.0 / 6.0,
		OffsetMultiplier: [MaxLegs]float32{0, 3, 1, 4, 2, 5},
	},
	Amble: {
		Name:             Amble.String(),
		StancePhase:      0.75,
		SwingPhase:       0.25,
		PhaseOffset:      0.25,
		OffsetMultiplier: [MaxLegs]float32{0, 2, 1, 3, 0, 2},
	},
}

// Lookup returns the named gait and a found flag, leaving the caller to
// decide how to handle GAIT_UNDESIGNATED.
func Lookup(t Type) (Gait, bool) {
	g, ok := Library[t]
	return g, ok
}
