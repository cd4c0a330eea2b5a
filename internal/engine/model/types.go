// Package model converts parsed 3D assets into meshes ready for GPU upload.
package model

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/learngl/pkg/formats"
)

// Vertex represents a mesh vertex with position, normal, and texture coordinates.
// The layout is packed (32 bytes) and uploaded to the GPU as-is.
type Vertex struct {
	Position  [3]float32
	Normal    [3]float32
	TexCoords [2]float32
}

// VertexSize is the byte stride of Vertex.
const VertexSize = 8 * 4

// TextureType is the shading role of a texture.
type TextureType int

const (
	TextureDiffuse TextureType = iota
	TextureSpecular
	TextureNormal
	TextureHeight
)

// DefaultSlots is the order material texture slots are resolved in.
var DefaultSlots = []TextureType{TextureDiffuse, TextureSpecular, TextureNormal, TextureHeight}

// String returns the sampler uniform prefix for the type.
func (t TextureType) String() string {
	switch t {
	case TextureDiffuse:
		return "texture_diffuse"
	case TextureSpecular:
		return "texture_specular"
	case TextureNormal:
		return "texture_normal"
	case TextureHeight:
		return "texture_height"
	default:
		return fmt.Sprintf("texture_%d", int(t))
	}
}

// Slot returns the matching scene material slot.
func (t TextureType) Slot() formats.TextureSlot {
	switch t {
	case TextureDiffuse:
		return formats.SlotDiffuse
	case TextureSpecular:
		return formats.SlotSpecular
	case TextureNormal:
		return formats.SlotNormal
	case TextureHeight:
		return formats.SlotHeight
	default:
		return formats.TextureSlot(t.String())
	}
}

// ParseTextureType parses a slot name such as "diffuse".
func ParseTextureType(name string) (TextureType, error) {
	for _, t := range DefaultSlots {
		if string(t.Slot()) == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown texture type %q", name)
}

// Texture is a GPU texture and the file it was loaded from.
// Path is the canonical resolved path and identifies the texture within a
// model.
type Texture struct {
	ID   uint32
	Type TextureType
	Path string
}

// Mesh holds a triangle list with its textures. Textures point into the
// owning model's texture cache.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Textures []*Texture
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Validate checks that the index buffer describes whole triangles and
// references only existing vertices.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh %q: %d indices is not a triangle list", m.Name, len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("mesh %q: index %d at %d out of range (%d vertices)", m.Name, idx, i, len(m.Vertices))
		}
	}
	return nil
}

// Model is an imported asset: meshes in scene traversal order plus the
// textures they share.
type Model struct {
	Meshes []*Mesh
	// Dir is the asset's directory; texture paths resolve against it.
	Dir string
	// Nodes is the size of the scene hierarchy the meshes came from.
	Nodes int

	textures     map[string]*Texture
	textureOrder []*Texture
	failed       map[string]error
	textureErrs  error
}

func newModel(dir string) *Model {
	return &Model{
		Dir:      dir,
		textures: make(map[string]*Texture),
		failed:   make(map[string]error),
	}
}

// Textures returns every loaded texture in first-load order.
func (m *Model) Textures() []*Texture {
	return m.textureOrder
}

// Texture looks up a loaded texture by canonical path.
func (m *Model) Texture(path string) (*Texture, bool) {
	t, ok := m.textures[path]
	return t, ok
}

// TextureErr returns the combined errors of textures that failed to load,
// or nil. These errors never fail the import itself.
func (m *Model) TextureErr() error {
	return m.textureErrs
}

// TextureErrors returns the individual texture failures.
func (m *Model) TextureErrors() []error {
	return multierr.Errors(m.textureErrs)
}

// Stats returns vertex and triangle totals over all meshes.
func (m *Model) Stats() (vertices, triangles int) {
	for _, mesh := range m.Meshes {
		vertices += len(mesh.Vertices)
		triangles += mesh.TriangleCount()
	}
	return vertices, triangles
}
