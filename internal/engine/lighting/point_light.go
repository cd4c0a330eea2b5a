package lighting

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxPointLights is the size of the pointLights array in the shader.
const MaxPointLights = 4

// PointLight is a positional light with distance attenuation
// 1 / (Constant + Linear*d + Quadratic*d²).
type PointLight struct {
	Position  mgl32.Vec3
	Ambient   mgl32.Vec3
	Diffuse   mgl32.Vec3
	Specular  mgl32.Vec3
	Constant  float32
	Linear    float32
	Quadratic float32
}

// attenuationTable lists linear/quadratic terms that fade a light out
// around the given distance, with a constant term of 1.
var attenuationTable = []struct {
	distance          float32
	linear, quadratic float32
}{
	{7, 0.7, 1.8},
	{13, 0.35, 0.44},
	{20, 0.22, 0.20},
	{32, 0.14, 0.07},
	{50, 0.09, 0.032},
	{65, 0.07, 0.017},
	{100, 0.045, 0.0075},
	{160, 0.027, 0.0028},
	{200, 0.022, 0.0019},
	{325, 0.014, 0.0007},
	{600, 0.007, 0.0002},
	{3250, 0.0014, 0.000007},
}

// NewPointLight returns a white point light at pos that covers roughly
// rangeDist world units. Ranges beyond the table use its last entry.
func NewPointLight(pos mgl32.Vec3, rangeDist float32) PointLight {
	entry := attenuationTable[len(attenuationTable)-1]
	for _, e := range attenuationTable {
		if rangeDist <= e.distance {
			entry = e
			break
		}
	}
	return PointLight{
		Position:  pos,
		Ambient:   mgl32.Vec3{0.05, 0.05, 0.05},
		Diffuse:   mgl32.Vec3{0.8, 0.8, 0.8},
		Specular:  mgl32.Vec3{1, 1, 1},
		Constant:  1,
		Linear:    entry.linear,
		Quadratic: entry.quadratic,
	}
}

// Attenuation returns the light's intensity factor at distance d.
func (l PointLight) Attenuation(d float32) float32 {
	return 1 / (l.Constant + l.Linear*d + l.Quadratic*d*d)
}

func (l PointLight) apply(u Uniforms, i int) {
	prefix := fmt.Sprintf("pointLights[%d].", i)
	u.SetVec3(prefix+"position", l.Position)
	u.SetVec3(prefix+"ambient", l.Ambient)
	u.SetVec3(prefix+"diffuse", l.Diffuse)
	u.SetVec3(prefix+"specular", l.Specular)
	u.SetFloat(prefix+"constant", l.Constant)
	u.SetFloat(prefix+"linear", l.Linear)
	u.SetFloat(prefix+"quadratic", l.Quadratic)
}
