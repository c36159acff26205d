// Covers spec.md §8 round-trip property: applying current_pose and its
// inverse to any tip position yields the original within tolerance.
package geom

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestVector3Arithmetic(t *testing.T) {
	a := Vector3{1, 2, 3}
	b := Vector3{4, -1, 0.5}

	assert.Equal(t, Vector3{5, 1, 3.5}, a.Add(b))
	assert.Equal(t, Vector3{-3, 3, 2.5}, a.Sub(b))
	assert.InDelta(t, float32(3.5), a.Dot(b), 1e-5)
}

func TestVector3ClampMagnitude(t *testing.T) {
	v := Vector3{3, 4, 0}
	clamped := v.ClampMagnitude(2)
	assert.InDelta(t, float32(2), clamped.Magnitude(), 1e-4)

	unclamped := v.ClampMagnitude(10)
	assert.Equal(t, v, unclamped)
}

func TestQuaternionRotateVectorIdentity(t *testing.T) {
	v := Vector3{1, 2, 3}
	got := IdentityQuaternion.RotateVector(v)
	assert.InDelta(t, v[0], got[0], 1e-5)
	assert.InDelta(t, v[1], got[1], 1e-5)
	assert.InDelta(t, v[2], got[2], 1e-5)
}

func TestQuaternionRotate90AboutZ(t *testing.T) {
	q := FromAxisAngle(Vector3{0, 0, 1}, math32.Pi/2)
	got := q.RotateVector(Vector3{1, 0, 0})
	assert.InDelta(t, float32(0), got[0], 1e-4)
	assert.InDelta(t, float32(1), got[1], 1e-4)
	assert.InDelta(t, float32(0), got[2], 1e-4)
}

func TestEulerRoundTrip(t *testing.T) {
	q := FromEuler(0.1, -0.2, 0.3)
	roll, pitch, yaw := q.ToEuler()
	assert.InDelta(t, float32(0.1), roll, 1e-4)
	assert.InDelta(t, float32(-0.2), pitch, 1e-4)
	assert.InDelta(t, float32(0.3), yaw, 1e-4)
}

func TestPoseApplyInverseRoundTrip(t *testing.T) {
	pose := Pose{
		Translation: Vector3{0.1, -0.05, 0.02},
		Rotation:    FromEuler(0.05, 0.1, -0.07),
	}
	tip := Vector3{0.2, 0.15, -0.18}

	posed := pose.Apply(tip)
	back := pose.ApplyInverse(posed)

	assert.InDelta(t, tip[0], back[0], 1e-4)
	assert.InDelta(t, tip[1], back[1], 1e-4)
	assert.InDelta(t, tip[2], back[2], 1e-4)
}

func TestSlerpEndpoints(t *testing.T) {
	a := IdentityQuaternion
	b := FromAxisAngle(Vector3{0, 0, 1}, math32.Pi/2)

	start := a.Slerp(b, 0)
	end := a.Slerp(b, 1)

	assert.InDelta(t, a[0], start[0], 1e-4)
	assert.InDelta(t, b[0], end[0], 1e-4)
	assert.InDelta(t, b[1], end[1], 1e-4)
}
