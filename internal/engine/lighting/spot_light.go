package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SpotLight is a cone light. Cutoffs are half-angles in degrees; the
// intensity fades between CutOff and OuterCutOff.
type SpotLight struct {
	Position    mgl32.Vec3
	Direction   mgl32.Vec3
	Ambient     mgl32.Vec3
	Diffuse     mgl32.Vec3
	Specular    mgl32.Vec3
	Constant    float32
	Linear      float32
	Quadratic   float32
	CutOff      float32
	OuterCutOff float32
}

// NewFlashlight returns a spot light with a 12.5° inner and 15° outer cone.
func NewFlashlight() SpotLight {
	return SpotLight{
		Direction:   mgl32.Vec3{0, 0, -1},
		Diffuse:     mgl32.Vec3{1, 1, 1},
		Specular:    mgl32.Vec3{1, 1, 1},
		Constant:    1,
		Linear:      0.09,
		Quadratic:   0.032,
		CutOff:      12.5,
		OuterCutOff: 15,
	}
}

// FollowCamera places the light at the eye, pointing along the view.
func (l *SpotLight) FollowCamera(position, front mgl32.Vec3) {
	l.Position = position
	l.Direction = front
}

func cosDeg(deg float32) float32 {
	return float32(math.Cos(float64(mgl32.DegToRad(deg))))
}

func (l SpotLight) apply(u Uniforms) {
	u.SetVec3("spotLight.position", l.Position)
	u.SetVec3("spotLight.direction", l.Direction)
	u.SetVec3("spotLight.ambient", l.Ambient)
	u.SetVec3("spotLight.diffuse", l.Diffuse)
	u.SetVec3("spotLight.specular", l.Specular)
	u.SetFloat("spotLight.constant", l.Constant)
	u.SetFloat("spotLight.linear", l.Linear)
	u.SetFloat("spotLight.quadratic", l.Quadratic)
	u.SetFloat("spotLight.cutOff", cosDeg(l.CutOff))
	u.SetFloat("spotLight.outerCutOff", cosDeg(l.OuterCutOff))
}
