package pid

import "github.com/chewxy/math32"

// SecondOrderFilter integrates a virtual mass/spring/damper in one axis:
//
//	virtual_mass * z'' + virtual_damping * z' + virtual_stiffness * z = forceGain * force
//
// using semi-implicit (symplectic) Euler, stepped in increments of at most
// stepTime (spec.md §4.4 integrator_step_time) per call to Step.
type SecondOrderFilter struct {
	Mass         float32
	Stiffness    float32
	DampingRatio float32
	ForceGain    float32
	StepTime     float32
	position     float32
	velocity     float32
}

// Damping derives the critical-damping-scaled coefficient from the current
// stiffness, mass and damping ratio (spec.md §4.4).
func (f *SecondOrderFilter) Damping() float32 {
	if f.Mass <= 0 || f.Stiffness <= 0 {
		return 0
	}
	return 2 * f.DampingRatio * math32.Sqrt(f.Mass*f.Stiffness)
}

// Reset zeroes the integrator state (used when impedance is re-initialized
// after a parameter change, spec.md §4.1.1 step 2).
func (f *SecondOrderFilter) Reset() {
	f.position = 0
	f.velocity = 0
}

// Position returns the current integrated displacement (delta_z).
func (f *SecondOrderFilter) Position() float32 {
	return f.position
}

// Step advances the filter by dt seconds given the latest force input,
// internally sub-stepping at StepTime when dt exceeds it, and returns the
// new position (delta_z).
func (f *SecondOrderFilter) Step(force float32, dt float32) float32 {
	if f.Mass <= 0 {
		return f.position
	}

	step := f.StepTime
	if step <= 0 || step > dt {
		step = dt
	}
	if step <= 0 {
		return f.position
	}

	damping := f.Damping()
	remaining := dt
	for remaining > 0 {
		h := step
		if h > remaining {
			h = remaining
		}
		accel := (f.ForceGain*force - damping*f.velocity - f.Stiffness*f.position) / f.Mass
		f.velocity += accel * h
		f.position += f.velocity * h
		remaining -= h
	}
	return f.position
}
