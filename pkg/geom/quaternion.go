package geom

import "github.com/chewxy/math32"

// Quaternion is a unit rotation quaternion stored as [w, x, y, z].
type Quaternion [4]float32

// IdentityQuaternion is the no-rotation quaternion.
var IdentityQuaternion = Quaternion{1, 0, 0, 0}

func (q Quaternion) W() float32 { return q[0] }
func (q Quaternion) X() float32 { return q[1] }
func (q Quaternion) Y() float32 { return q[2] }
func (q Quaternion) Z() float32 { return q[3] }

func (q Quaternion) SumSqr() float32 {
	return q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3]
}

func (q Quaternion) Magnitude() float32 {
	return math32.Sqrt(q.SumSqr())
}

// Normalized returns a unit quaternion; returns IdentityQuaternion for a
// degenerate (near-zero) input rather than dividing by zero.
func (q Quaternion) Normalized() Quaternion {
	m := q.Magnitude()
	if m < 1e-9 {
		return IdentityQuaternion
	}
	inv := 1 / m
	return Quaternion{q[0] * inv, q[1] * inv, q[2] * inv, q[3] * inv}
}

// Mul composes rotations: (q.Mul(o)) applied to a vector rotates by o first,
// then by q.
func (q Quaternion) Mul(o Quaternion) Quaternion {
	return Quaternion{
		q[0]*o[0] - q[1]*o[1] - q[2]*o[2] - q[3]*o[3],
		q[0]*o[1] + q[1]*o[0] + q[2]*o[3] - q[3]*o[2],
		q[0]*o[2] - q[1]*o[3] + q[2]*o[0] + q[3]*o[1],
		q[0]*o[3] + q[1]*o[2] - q[2]*o[1] + q[3]*o[0],
	}
}

// Conjugate is the inverse rotation for a unit quaternion.
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{q[0], -q[1], -q[2], -q[3]}
}

// RotateVector rotates v by q (q must be unit length for a pure rotation).
func (q Quaternion) RotateVector(v Vector3) Vector3 {
	qv := Quaternion{0, v[0], v[1], v[2]}
	r := q.Mul(qv).Mul(q.Conjugate())
	return Vector3{r[1], r[2], r[3]}
}

// FromAxisAngle builds a rotation of angle radians about axis (need not be
// unit length; it is normalized internally).
func FromAxisAngle(axis Vector3, angle float32) Quaternion {
	m := axis.Magnitude()
	if m < 1e-9 {
		return IdentityQuaternion
	}
	axis = axis.Scale(1 / m)
	half := angle * 0.5
	s := math32.Sin(half)
	return Quaternion{math32.Cos(half), axis[0] * s, axis[1] * s, axis[2] * s}
}

// FromEuler builds a rotation from roll (X), pitch (Y), yaw (Z), applied
// about the fixed axes in that order (roll, then pitch, then yaw), which is
// the ZYX intrinsic convention.
func FromEuler(roll, pitch, yaw float32) Quaternion {
	qx := FromAxisAngle(Vector3{1, 0, 0}, roll)
	qy := FromAxisAngle(Vector3{0, 1, 0}, pitch)
	qz := FromAxisAngle(Vector3{0, 0, 1}, yaw)
	return qz.Mul(qy).Mul(qx)
}

// ToEuler extracts (roll, pitch, yaw) in radians, assuming the same
// convention as FromEuler (ZYX intrinsic).
func (q Quaternion) ToEuler() (roll, pitch, yaw float32) {
	w, x, y, z := q[0], q[1], q[2], q[3]

	sinrCosp := 2 * (w*x + y*z)
	cosrCosp := 1 - 2*(x*x+y*y)
	roll = math32.Atan2(sinrCosp, cosrCosp)

	sinp := 2 * (w*y - z*x)
	switch {
	case sinp >= 1:
		pitch = math32.Pi / 2
	case sinp <= -1:
		pitch = -math32.Pi / 2
	default:
		pitch = math32.Asin(sinp)
	}

	sinyCosp := 2 * (w*z + x*y)
	cosyCosp := 1 - 2*(y*y+z*z)
	yaw = math32.Atan2(sinyCosp, cosyCosp)
	return
}

// Slerp spherically interpolates between q and o at parameter t in [0,1].
// epsilon below which the quaternions are considered parallel enough for a
// linear fallback (avoids a division by a near-zero sine).
func (q Quaternion) Slerp(o Quaternion, t float32) Quaternion {
	const epsilon = 1e-6

	dot := q[0]*o[0] + q[1]*o[1] + q[2]*o[2] + q[3]*o[3]
	if dot < 0 {
		o = Quaternion{-o[0], -o[1], -o[2], -o[3]}
		dot = -dot
	}

	if dot > 1-epsilon {
		return Quaternion{
			q[0] + (o[0]-q[0])*t,
			q[1] + (o[1]-q[1])*t,
			q[2] + (o[2]-q[2])*t,
			q[3] + (o[3]-q[3])*t,
		}.Normalized()
	}

	theta0 := math32.Acos(dot)
	theta := theta0 * t
	sinTheta0 := math32.Sin(theta0)
	sinTheta := math32.Sin(theta)

	s0 := math32.Cos(theta) - dot*sinTheta/sinTheta0
	s1 := sinTheta / sinTheta0

	return Quaternion{
		q[0]*s0 + o[0]*s1,
		q[1]*s0 + o[1]*s1,
		q[2]*s0 + o[2]*s1,
		q[3]*s0 + o[3]*s1,
	}
}

// Inverse returns the inverse rotation (equal to Conjugate for unit
// quaternions, which is the only case this package produces).
func (q Quaternion) Inverse() Quaternion {
	return q.Conjugate()
}
