package lighting

import "github.com/go-gl/mathgl/mgl32"

// Uniforms is the part of a shader program the lights write to.
type Uniforms interface {
	SetBool(name string, v bool)
	SetInt(name string, v int32)
	SetFloat(name string, v float32)
	SetVec3(name string, v mgl32.Vec3)
}

// DefaultShininess is the specular exponent used when none is configured.
const DefaultShininess = 32

// Material holds the per-draw surface parameters that do not come from
// textures.
type Material struct {
	Shininess float32
}

func (m Material) apply(u Uniforms) {
	u.SetFloat("material.shininess", m.Shininess)
}

// Set is everything the model shader needs to light a frame.
type Set struct {
	Material Material
	Dir      DirLight
	Points   []PointLight
	// Spot is disabled when nil.
	Spot *SpotLight
}

// NewSet returns a set with a default sun, no point lights and no spot.
func NewSet() *Set {
	return &Set{
		Material: Material{Shininess: DefaultShininess},
		Dir:      NewSun(45, 60),
		Points:   make([]PointLight, 0, MaxPointLights),
	}
}

// AddPoint appends a point light. Returns false if the set is full.
func (s *Set) AddPoint(l PointLight) bool {
	if len(s.Points) >= MaxPointLights {
		return false
	}
	s.Points = append(s.Points, l)
	return true
}

// FollowCamera moves the spot light, if any, to the camera.
func (s *Set) FollowCamera(position, front mgl32.Vec3) {
	if s.Spot != nil {
		s.Spot.FollowCamera(position, front)
	}
}

// Apply writes the material and all lights into u. The program must
// already be in use.
func (s *Set) Apply(u Uniforms) {
	s.Material.apply(u)
	s.Dir.apply(u)

	n := min(len(s.Points), MaxPointLights)
	u.SetInt("numPointLights", int32(n))
	for i := 0; i < n; i++ {
		s.Points[i].apply(u, i)
	}

	u.SetBool("spotLightOn", s.Spot != nil)
	if s.Spot != nil {
		s.Spot.apply(u)
	}
}
