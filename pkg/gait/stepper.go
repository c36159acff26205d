package gait

// StepState enumerates a leg's walk sub-state (spec.md §3 LegStepper).
type StepState uint8

const (
	Stance StepState = iota
	Swing
	ForceStance
	ForceStop
)

// Phase tracks one leg's position within the gait cycle and derives its
// current StepState, mirroring spec.md §4.2's swing/stance boundary
// crossing logic. Stance always occupies cycle position [0, StancePhase);
// swing occupies [StancePhase, cycle). The only phase-cycle wraparound
// point (cycle -> 0) is therefore exactly the swing-to-stance boundary,
// which is where a pending force-stance request takes effect.
type Phase struct {
	gait           Gait
	offset         float32
	cyclePos       float32 // position within [0, cycle)
	state          StepState
	forceStanceReq bool
}

// NewPhase seeds a Phase at its gait-defined offset.
func NewPhase(g Gait, legIndex int) *Phase {
	p := &Phase{gait: g, offset: g.LegPhaseOffset(legIndex)}
	p.cyclePos = p.offset
	p.state = p.stateForPos(p.cyclePos)
	return p
}

// Reload re-targets the phase at a new gait/leg offset without touching the
// accumulated cycle position, used by changeGait (spec.md §4.1.1 step 1)
// once the walker has actually stopped.
func (p *Phase) Reload(g Gait, legIndex int) {
	p.gait = g
	p.offset = g.LegPhaseOffset(legIndex)
	p.state = p.stateForPos(p.cyclePos)
}

// State returns the current step state.
func (p *Phase) State() StepState {
	return p.state
}

// AtStanceStart reports whether the phase is currently at the very start of
// stance, used to detect walk_state==STOPPED (spec.md §4.2).
func (p *Phase) AtStanceStart() bool {
	return (p.state == Stance || p.state == ForceStance) && p.cyclePos < 1e-4
}

// RequestForceStance arms a transition to FORCE_STANCE the next time this
// phase crosses into stance (spec.md §4.2 Stopping).
func (p *Phase) RequestForceStance() {
	p.forceStanceReq = true
}

// ClearForceStance cancels a pending or active force-stance hold, releasing
// the leg back to its natural cycle-derived state.
func (p *Phase) ClearForceStance() {
	p.forceStanceReq = false
	if p.state == ForceStance {
		p.state = p.stateForPos(p.cyclePos)
	}
}

// Advance moves the cycle position forward by dt*stepFrequency (a fraction
// of one full cycle) and updates the step state. A leg held in ForceStance
// or ForceStop does not advance until released.
func (p *Phase) Advance(dt, stepFrequency float32) {
	if p.state == ForceStance || p.state == ForceStop {
		return
	}

	cycle := p.gait.CycleLength()
	if cycle <= 0 {
		return
	}

	prev := p.cyclePos
	next := prev + dt*stepFrequency
	wrapped := next >= cycle
	for next >= cycle {
		next -= cycle
	}
	for next < 0 {
		next += cycle
	}
	p.cyclePos = next

	if wrapped {
		if p.forceStanceReq {
			// Hold exactly at the start of stance, discarding the overshoot
			// past the wrap point.
			p.cyclePos = 0
			p.state = ForceStance
			p.forceStanceReq = false
			return
		}
	}
	p.state = p.stateForPos(p.cyclePos)
}

func (p *Phase) stateForPos(pos float32) StepState {
	if pos < p.gait.StancePhase {
		return Stance
	}
	return Swing
}

// SwingProgress returns progress in [0,1] through the swing phase, or 0
// outside of it.
func (p *Phase) SwingProgress() float32 {
	if p.state != Swing {
		return 0
	}
	if p.gait.SwingPhase <= 0 {
		return 0
	}
	return clamp01((p.cyclePos - p.gait.StancePhase) / p.gait.SwingPhase)
}

// StanceProgress returns progress in [0,1] through the stance phase, or 0
// outside of it.
func (p *Phase) StanceProgress() float32 {
	if p.state != Stance && p.state != ForceStance {
		return 0
	}
	if p.gait.StancePhase <= 0 {
		return 0
	}
	return clamp01(p.cyclePos / p.gait.StancePhase)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
