// Package formats provides parsers that turn 3D asset files into a
// format-neutral scene graph.
package formats

// TextureSlot names the shading role a material texture plays.
type TextureSlot string

// Known texture slots.
const (
	SlotDiffuse  TextureSlot = "diffuse"
	SlotSpecular TextureSlot = "specular"
	SlotNormal   TextureSlot = "normal"
	SlotHeight   TextureSlot = "height"
)

// ParseOptions controls post-processing applied while parsing.
type ParseOptions struct {
	// Triangulate splits polygons, strips and fans into triangle lists.
	Triangulate bool
	// FlipUVs maps v to 1-v for sources whose UV origin is top-left.
	FlipUVs bool
}

// Scene is a parsed asset: a node hierarchy referencing flat mesh and
// material tables.
type Scene struct {
	Root      *Node
	Meshes    []SceneMesh
	Materials []Material
}

// Node is one element of the scene hierarchy.
type Node struct {
	Name     string
	Meshes   []int // indices into Scene.Meshes
	Children []*Node
}

// SceneMesh is a single drawable mesh as stored in the source file.
// Normals and UVs are either empty or the same length as Positions.
type SceneMesh struct {
	Name      string
	Positions [][3]float32
	Normals   [][3]float32
	UVs       [][2]float32
	Faces     [][]uint32
	Material  int // index into Scene.Materials, -1 if none
}

// Material lists texture file paths per slot, as declared by the source.
type Material struct {
	Name     string
	Textures map[TextureSlot][]string
}

// TexturePaths returns the declared paths for a slot.
func (m *Material) TexturePaths(slot TextureSlot) []string {
	if m == nil || m.Textures == nil {
		return nil
	}
	return m.Textures[slot]
}

// CountNodes returns the number of nodes reachable from the root.
func (s *Scene) CountNodes() int {
	if s == nil || s.Root == nil {
		return 0
	}
	var walk func(n *Node) int
	walk = func(n *Node) int {
		total := 1
		for _, c := range n.Children {
			total += walk(c)
		}
		return total
	}
	return walk(s.Root)
}
