// Package lighting describes the Phong light sources of a scene and writes
// them into shader uniforms.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SunDirection converts longitude/latitude angles in degrees to a unit
// vector pointing towards the sun. Longitude rotates around Y, latitude is
// elevation from the horizon.
func SunDirection(longitude, latitude float32) mgl32.Vec3 {
	lonRad := float64(mgl32.DegToRad(longitude))
	latRad := float64(mgl32.DegToRad(latitude))

	x := float32(math.Cos(latRad) * math.Sin(lonRad))
	y := float32(math.Sin(latRad))
	z := float32(math.Cos(latRad) * math.Cos(lonRad))

	return mgl32.Vec3{x, y, z}
}

// DirLight is a light at infinity. Direction points from the light into
// the scene.
type DirLight struct {
	Direction mgl32.Vec3
	Ambient   mgl32.Vec3
	Diffuse   mgl32.Vec3
	Specular  mgl32.Vec3
}

// NewSun returns a directional light shining from the given sky position.
func NewSun(longitude, latitude float32) DirLight {
	return DirLight{
		Direction: SunDirection(longitude, latitude).Mul(-1),
		Ambient:   mgl32.Vec3{0.05, 0.05, 0.05},
		Diffuse:   mgl32.Vec3{0.4, 0.4, 0.4},
		Specular:  mgl32.Vec3{0.5, 0.5, 0.5},
	}
}

func (l DirLight) apply(u Uniforms) {
	u.SetVec3("dirLight.direction", l.Direction)
	u.SetVec3("dirLight.ambient", l.Ambient)
	u.SetVec3("dirLight.diffuse", l.Diffuse)
	u.SetVec3("dirLight.specular", l.Specular)
}
