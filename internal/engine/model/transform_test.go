package model

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestIdentityTransform(t *testing.T) {
	tr := IdentityTransform()
	assert.True(t, tr.Matrix().ApproxEqual(mgl32.Ident4()))
	assert.True(t, tr.NormalMatrix().ApproxEqual(mgl32.Ident3()))
}

func TestTransformMatrix(t *testing.T) {
	tr := Transform{
		Position: mgl32.Vec3{1, 2, 3},
		Rotation: mgl32.Vec3{0, 90, 0},
		Scale:    mgl32.Vec3{2, 2, 2},
	}
	// Scale, then rotate +X onto -Z, then translate.
	got := tr.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	assert.True(t, got.ApproxEqualThreshold(mgl32.Vec3{1, 2, 1}, 1e-5), "got %v", got)
}

func TestNormalMatrixNonUniformScale(t *testing.T) {
	tr := IdentityTransform()
	tr.Scale = mgl32.Vec3{4, 1, 1}

	// A 45° surface normal must tilt towards the squashed axis, not the stretched one.
	n := tr.NormalMatrix().Mul3x1(mgl32.Vec3{1, 1, 0}.Normalize()).Normalize()
	assert.Less(t, n.X(), n.Y())

	tangent := tr.Matrix().Mul4x1(mgl32.Vec4{1, -1, 0, 0}).Vec3()
	assert.InDelta(t, 0, n.Dot(tangent), 1e-5)
}
