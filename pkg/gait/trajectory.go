package gait

import "github.com/deeplearning2012/syropod-highlevel-controller/pkg/geom"

// SwingTrajectory parameterizes an arc between liftoff and touchdown for
// the swing phase (spec.md §4.2): planar linear interpolation
// in [-stride/2, +stride/2], with a parabolic lift through clearanceHeight.
func SwingTrajectory(strideVector geom.Vector3, clearanceHeight float32, progress float32) geom.Vector3 {
	progress = clamp01(progress)
	start := strideVector.Scale(-0.5)
	end := strideVector.Scale(0.5)

	planar := start.Lerp(end, progress)
	// Parabolic height profile peaking at progress==0.5, zero at the ends.
	height := clearanceHeight * 4 * progress * (1 - progress)
	planar[2] += height
	return planar
}

// StanceTrajectory linearly interpolates the ground-level stance path from
// +stride/2 back to -stride/2 (spec.md §4.2).
func StanceTrajectory(strideVector geom.Vector3, progress float32) geom.Vector3 {
	progress = clamp01(progress)
	start := strideVector.Scale(0.5)
	end := strideVector.Scale(-0.5)
	return start.Lerp(end, progress)
}

// StrideVector computes the planar displacement of a tip from swing start
// to swing end for the commanded body velocity, evaluated at the leg's
// nominal stance position (spec.md GLOSSARY, §4.2).
func StrideVector(linearVelocity, angularVelocity geom.Vector3, legStancePosition geom.Vector3, stepFrequency float32) geom.Vector3 {
	if stepFrequency <= 0 {
		return geom.Vector3{}
	}
	strideDuration := 1 / stepFrequency

	tangential := geom.Vector3{
		-angularVelocity[2] * legStancePosition[1],
		angularVelocity[2] * legStancePosition[0],
		0,
	}
	velocity := linearVelocity.Add(tangential)
	return velocity.Scale(strideDuration)
}
