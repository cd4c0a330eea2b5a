package model

import "github.com/go-gl/mathgl/mgl32"

// Transform places a model in the world. Rotation is in degrees and is
// applied Y, then X, then Z.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

// IdentityTransform leaves the model where the asset put it.
func IdentityTransform() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

// Matrix returns translate * rotate * scale.
func (t Transform) Matrix() mgl32.Mat4 {
	m := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	m = m.Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(t.Rotation.Y())))
	m = m.Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(t.Rotation.X())))
	m = m.Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(t.Rotation.Z())))
	return m.Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// NormalMatrix returns the inverse transpose of the upper 3x3 of Matrix,
// which keeps normals perpendicular under non-uniform scale.
func (t Transform) NormalMatrix() mgl32.Mat3 {
	return t.Matrix().Mat3().Inv().Transpose()
}
