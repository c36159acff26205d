package geom

// Pose is a rigid-body transform: a translation applied after a rotation,
// the representation used throughout the pipeline for CurrentPose (§3) and
// for endpoint poses.
type Pose struct {
	Translation Vector3
	Rotation    Quaternion
}

// IdentityPose is the zero transform.
var IdentityPose = Pose{Rotation: IdentityQuaternion}

// Apply transforms a point from the frame the pose is relative to into the
// posed frame: p' = R*p + t.
func (p Pose) Apply(point Vector3) Vector3 {
	return p.Rotation.RotateVector(point).Add(p.Translation)
}

// Inverse returns the pose that undoes p.
func (p Pose) Inverse() Pose {
	invRot := p.Rotation.Inverse()
	return Pose{
		Rotation:    invRot,
		Translation: invRot.RotateVector(p.Translation).Negate(),
	}
}

// ApplyInverse transforms a point from the posed frame back to the
// original frame: p = R^-1*(p' - t).
func (p Pose) ApplyInverse(point Vector3) Vector3 {
	return p.Rotation.Inverse().RotateVector(point.Sub(p.Translation))
}
