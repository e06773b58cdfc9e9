package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a position and orientation in 3D space
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.QuatIdent(),
	}
}

// Apply maps a local point to world space. A zero quaternion is treated as the identity,
// so transforms built as literals with only a Position behave as expected.
func (t Transform) Apply(local mgl64.Vec3) mgl64.Vec3 {
	if t.Rotation == (mgl64.Quat{}) {
		return local.Add(t.Position)
	}
	return t.Rotation.Rotate(local).Add(t.Position)
}
