package scene

import "github.com/Faultbox/simple-engine/pkg/math"

// Transform is a position, rotation and scale.
type Transform struct {
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3
}

// Identity returns a transform that leaves points unchanged.
func Identity() Transform {
	return Transform{Rotation: math.QuatIdentity(), Scale: math.V3(1, 1, 1)}
}

// FromEuler builds a transform from a position, Euler angles in degrees and a scale.
func FromEuler(position, degrees, scale math.Vec3) Transform {
	return Transform{
		Position: position,
		Rotation: math.QuatFromEuler(math.Radians(degrees.X), math.Radians(degrees.Y), math.Radians(degrees.Z)),
		Scale:    scale,
	}
}

// Matrix returns the model matrix T * R * S.
func (t Transform) Matrix() math.Mat4 {
	return math.Translate(t.Position).Mul(t.Rotation.ToMat4()).Mul(math.Scale(t.Scale))
}
