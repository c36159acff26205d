// Package pid implements the scalar/vector PID controllers and the
// second-order impedance filter used by the pose and impedance stages.
package pid

import "github.com/deeplearning2012/syropod-highlevel-controller/pkg/geom"

// Gains groups the three PID terms: absement (integral of error),
// position (proportional error) and velocity (derivative of error), the
// terminology spec.md §4.3 uses for the orientation/translation loops.
type Gains struct {
	Absement, Position, Velocity float32
}

// Scalar1D is a single-channel PID with output clamping.
type Scalar1D struct {
	Gains       Gains
	Min, Max    float32
	input       float32
	lastInput   float32
	integral    float32
	Target      float32
	Output      float32
	initialized bool
}

// Reset zeroes the integral term and re-seeds the derivative history at
// the given input, so the next Update does not see a spurious derivative
// spike.
func (p *Scalar1D) Reset(input float32) {
	p.input = input
	p.lastInput = input
	p.integral = 0
	p.initialized = true
}

// Update advances the filter by samplePeriod seconds given the latest
// measured input, and returns the clamped output.
func (p *Scalar1D) Update(input float32, samplePeriod float32) float32 {
	if !p.initialized {
		p.Reset(input)
	}
	p.lastInput, p.input = p.input, input

	error := p.Target - p.input
	derivative := p.input - p.lastInput

	p.integral = geom.Clamp(p.integral+p.Gains.Absement*error*samplePeriod, p.Min, p.Max)
	p.Output = geom.Clamp(
		p.Gains.Position*error+p.integral-p.Gains.Velocity*derivative/samplePeriod,
		p.Min, p.Max,
	)
	return p.Output
}

// Vector3PID generalizes Scalar1D to three independent channels, the way
// the teacher's vector PID generalizes its scalar one-channel filter.
type Vector3PID struct {
	Gains    Gains
	Min, Max float32
	channels [3]Scalar1D
	Target   geom.Vector3
}

func (p *Vector3PID) ensure() {
	for i := range p.channels {
		p.channels[i].Gains = p.Gains
		p.channels[i].Min = p.Min
		p.channels[i].Max = p.Max
	}
}

// Reset seeds all three channels at the given input vector.
func (p *Vector3PID) Reset(input geom.Vector3) {
	p.ensure()
	for i := range p.channels {
		p.channels[i].Reset(input[i])
	}
}

// Update advances all three channels and returns the clamped output vector.
func (p *Vector3PID) Update(input geom.Vector3, samplePeriod float32) geom.Vector3 {
	p.ensure()
	for i := range p.channels {
		p.channels[i].Target = p.Target[i]
	}
	return geom.Vector3{
		p.channels[0].Update(input[0], samplePeriod),
		p.channels[1].Update(input[1], samplePeriod),
		p.channels[2].Update(input[2], samplePeriod),
	}
}
