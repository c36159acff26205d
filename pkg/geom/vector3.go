// Package geom provides the float32 vector/quaternion primitives shared by
// every stage of the locomotion pipeline.
package geom

import "github.com/chewxy/math32"

// Vector3 is a Cartesian vector or point, always in meters unless noted.
type Vector3 [3]float32

// Zero3 is the additive identity.
var Zero3 = Vector3{}

func (v Vector3) X() float32 { return v[0] }
func (v Vector3) Y() float32 { return v[1] }
func (v Vector3) Z() float32 { return v[2] }

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

func (v Vector3) Scale(s float32) Vector3 {
	return Vector3{v[0] * s, v[1] * s, v[2] * s}
}

func (v Vector3) Negate() Vector3 {
	return Vector3{-v[0], -v[1], -v[2]}
}

func (v Vector3) Dot(o Vector3) float32 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

func (v Vector3) SumSqr() float32 {
	return v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
}

func (v Vector3) Magnitude() float32 {
	return math32.Sqrt(v.SumSqr())
}

func (v Vector3) Distance(o Vector3) float32 {
	return v.Sub(o).Magnitude()
}

func (v Vector3) Clone() Vector3 {
	return v
}

// WithZ returns a copy of v with the Z component replaced.
func (v Vector3) WithZ(z float32) Vector3 {
	v[2] = z
	return v
}

// Planar returns the XY magnitude, useful for reach/workspace checks.
func (v Vector3) Planar() float32 {
	return math32.Sqrt(v[0]*v[0] + v[1]*v[1])
}

// Lerp linearly interpolates between v and o at parameter t (not clamped).
func (v Vector3) Lerp(o Vector3, t float32) Vector3 {
	return Vector3{
		v[0] + (o[0]-v[0])*t,
		v[1] + (o[1]-v[1])*t,
		v[2] + (o[2]-v[2])*t,
	}
}

// Clamp clamps each component to the matching [min,max] component.
func (v Vector3) Clamp(min, max Vector3) Vector3 {
	return Vector3{
		clampScalar(v[0], min[0], max[0]),
		clampScalar(v[1], min[1], max[1]),
		clampScalar(v[2], min[2], max[2]),
	}
}

// ClampMagnitude scales v down to at most maxLen, preserving direction.
func (v Vector3) ClampMagnitude(maxLen float32) Vector3 {
	m := v.Magnitude()
	if m <= maxLen || m == 0 {
		return v
	}
	return v.Scale(maxLen / m)
}

func clampScalar(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Clamp clamps a scalar between min and max. Exported for callers outside
// the vector domain (impedance, PID outputs, parameter adjustment).
func Clamp(v, min, max float32) float32 {
	return clampScalar(v, min, max)
}
