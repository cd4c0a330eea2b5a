package model

import "strconv"

// SamplerBinding assigns one texture to a texture unit and names the
// sampler uniform that should read it.
type SamplerBinding struct {
	Unit    int32
	Uniform string
	Texture uint32
}

// SamplerBindings numbers textures per type in mesh order, producing
// uniform names like texture_diffuse1, texture_diffuse2, texture_specular1.
// Units are assigned sequentially from 0.
func SamplerBindings(textures []*Texture) []SamplerBinding {
	counts := make(map[TextureType]int, len(DefaultSlots))
	out := make([]SamplerBinding, 0, len(textures))
	for i, tex := range textures {
		counts[tex.Type]++
		out = append(out, SamplerBinding{
			Unit:    int32(i),
			Uniform: tex.Type.String() + strconv.Itoa(counts[tex.Type]),
			Texture: tex.ID,
		})
	}
	return out
}

// WithFallback appends a binding of fallback for every type in types that
// has no texture in bindings, so the shader never samples an unbound unit.
func WithFallback(bindings []SamplerBinding, fallback uint32, types ...TextureType) []SamplerBinding {
	present := make(map[string]bool, len(bindings))
	for _, b := range bindings {
		present[b.Uniform] = true
	}
	unit := int32(len(bindings))
	for _, typ := range types {
		name := typ.String() + "1"
		if present[name] {
			continue
		}
		bindings = append(bindings, SamplerBinding{Unit: unit, Uniform: name, Texture: fallback})
		unit++
	}
	return bindings
}
