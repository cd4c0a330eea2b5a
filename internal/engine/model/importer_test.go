package model

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/learngl/pkg/formats"
)

type fakeParser struct {
	scene *formats.Scene
	err   error

	gotPath string
	gotOpts formats.ParseOptions
}

func (p *fakeParser) Parse(path string, opts formats.ParseOptions) (*formats.Scene, error) {
	p.gotPath = path
	p.gotOpts = opts
	return p.scene, p.err
}

// fakeLoader hands out sequential handles and fails for paths in missing.
type fakeLoader struct {
	missing map[string]bool
	calls   []string
	next    uint32
}

func (l *fakeLoader) Load(path string) (uint32, error) {
	l.calls = append(l.calls, path)
	if l.missing[path] {
		return 0, errors.New("no such file")
	}
	l.next++
	return l.next, nil
}

func triangle(name string, material int) formats.SceneMesh {
	return formats.SceneMesh{
		Name:      name,
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:   [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		UVs:       [][2]float32{{0, 0}, {1, 0}, {0, 1}},
		Faces:     [][]uint32{{0, 1, 2}},
		Material:  material,
	}
}

func material(name string, textures map[formats.TextureSlot][]string) formats.Material {
	return formats.Material{Name: name, Textures: textures}
}

func TestLoadTextureDedup(t *testing.T) {
	parser := &fakeParser{scene: &formats.Scene{
		Root: &formats.Node{Name: "root", Meshes: []int{0, 1}},
		Meshes: []formats.SceneMesh{
			triangle("a", 0),
			triangle("b", 1),
		},
		Materials: []formats.Material{
			material("wall", map[formats.TextureSlot][]string{formats.SlotDiffuse: {"brick.png"}}),
			material("floor", map[formats.TextureSlot][]string{formats.SlotDiffuse: {"./brick.png"}}),
		},
	}}
	loader := &fakeLoader{}
	im := &Importer{Parser: parser, Loader: loader}

	m, err := im.Load(filepath.Join("assets", "house.gltf"))
	require.NoError(t, err)
	require.Len(t, m.Meshes, 2)

	want := filepath.Join("assets", "brick.png")
	assert.Equal(t, []string{want}, loader.calls, "shared texture is uploaded once")
	require.Len(t, m.Meshes[0].Textures, 1)
	require.Len(t, m.Meshes[1].Textures, 1)
	assert.Same(t, m.Meshes[0].Textures[0], m.Meshes[1].Textures[0])
	assert.Equal(t, want, m.Meshes[0].Textures[0].Path)
	assert.Equal(t, TextureDiffuse, m.Meshes[0].Textures[0].Type)

	tex, ok := m.Texture(want)
	require.True(t, ok)
	assert.Equal(t, uint32(1), tex.ID)
	assert.Len(t, m.Textures(), 1)
	assert.NoError(t, m.TextureErr())
}

func TestLoadSameImageInTwoRoles(t *testing.T) {
	parser := &fakeParser{scene: &formats.Scene{
		Root:   &formats.Node{Meshes: []int{0}},
		Meshes: []formats.SceneMesh{triangle("a", 0)},
		Materials: []formats.Material{
			material("m", map[formats.TextureSlot][]string{
				formats.SlotDiffuse:  {"atlas.png"},
				formats.SlotSpecular: {"atlas.png"},
			}),
		},
	}}
	loader := &fakeLoader{}
	m, err := (&Importer{Parser: parser, Loader: loader}).Load("atlas.gltf")
	require.NoError(t, err)

	assert.Len(t, loader.calls, 1)
	require.Len(t, m.Meshes[0].Textures, 2)
	assert.Equal(t, TextureDiffuse, m.Meshes[0].Textures[0].Type)
	assert.Equal(t, TextureSpecular, m.Meshes[0].Textures[1].Type)
	assert.Equal(t, m.Meshes[0].Textures[0].ID, m.Meshes[0].Textures[1].ID)
}

func TestLoadMissingTextureIsNotFatal(t *testing.T) {
	parser := &fakeParser{scene: &formats.Scene{
		Root:   &formats.Node{Meshes: []int{0, 1}},
		Meshes: []formats.SceneMesh{triangle("a", 0), triangle("b", 0)},
		Materials: []formats.Material{
			material("m", map[formats.TextureSlot][]string{
				formats.SlotDiffuse:  {"missing.png"},
				formats.SlotSpecular: {"spec.png"},
			}),
		},
	}}
	loader := &fakeLoader{missing: map[string]bool{"missing.png": true}}

	m, err := (&Importer{Parser: parser, Loader: loader}).Load("thing.gltf")
	require.NoError(t, err)
	require.Len(t, m.Meshes, 2)

	for _, mesh := range m.Meshes {
		assert.Len(t, mesh.Vertices, 3)
		assert.Len(t, mesh.Indices, 3)
		require.Len(t, mesh.Textures, 1, "diffuse slot omitted")
		assert.Equal(t, TextureSpecular, mesh.Textures[0].Type)
	}

	require.Error(t, m.TextureErr())
	assert.Contains(t, m.TextureErr().Error(), "missing.png")
	assert.Len(t, m.TextureErrors(), 1, "failure reported once")
	assert.Equal(t, []string{"missing.png", "spec.png"}, loader.calls, "failed path not retried")
}

func TestLoadParserFailureIsFatal(t *testing.T) {
	parser := &fakeParser{err: errors.New("unexpected EOF")}
	m, err := (&Importer{Parser: parser, Loader: &fakeLoader{}}).Load("broken.gltf")

	assert.Nil(t, m)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelLoad)
	assert.Contains(t, err.Error(), "unexpected EOF")
}

func TestLoadSceneWithoutRootIsFatal(t *testing.T) {
	for _, scene := range []*formats.Scene{nil, {}} {
		parser := &fakeParser{scene: scene}
		m, err := (&Importer{Parser: parser, Loader: &fakeLoader{}}).Load("empty.gltf")
		assert.Nil(t, m)
		assert.ErrorIs(t, err, ErrModelLoad)
	}
}

func TestLoadRequestsTriangulation(t *testing.T) {
	parser := &fakeParser{scene: &formats.Scene{Root: &formats.Node{}}}
	_, err := (&Importer{Parser: parser, Loader: &fakeLoader{}, FlipUVs: true}).Load("x.gltf")
	require.NoError(t, err)

	assert.Equal(t, "x.gltf", parser.gotPath)
	assert.True(t, parser.gotOpts.Triangulate)
	assert.True(t, parser.gotOpts.FlipUVs)
}

func TestLoadTraversalOrder(t *testing.T) {
	// root(m0) -> [a(m1) -> [c(m3)], b(m2)]
	root := &formats.Node{
		Name:   "root",
		Meshes: []int{0},
		Children: []*formats.Node{
			{Name: "a", Meshes: []int{1}, Children: []*formats.Node{{Name: "c", Meshes: []int{3}}}},
			{Name: "b", Meshes: []int{2}},
		},
	}
	parser := &fakeParser{scene: &formats.Scene{
		Root: root,
		Meshes: []formats.SceneMesh{
			triangle("m0", -1), triangle("m1", -1), triangle("m2", -1), triangle("m3", -1),
		},
	}}

	m, err := (&Importer{Parser: parser, Loader: &fakeLoader{}}).Load("tree.gltf")
	require.NoError(t, err)

	var names []string
	for _, mesh := range m.Meshes {
		names = append(names, mesh.Name)
	}
	assert.Equal(t, []string{"m0", "m1", "m3", "m2"}, names)
	assert.Equal(t, 4, m.Nodes)
}

func TestLoadPacksVertices(t *testing.T) {
	src := formats.SceneMesh{
		Name:      "quad",
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		Normals:   [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		Faces:     [][]uint32{{0, 1, 2}, {2, 3, 0}},
		Material:  -1,
	}
	parser := &fakeParser{scene: &formats.Scene{
		Root:   &formats.Node{Meshes: []int{0}},
		Meshes: []formats.SceneMesh{src},
	}}

	m, err := (&Importer{Parser: parser, Loader: &fakeLoader{}}).Load("quad.gltf")
	require.NoError(t, err)

	mesh := m.Meshes[0]
	assert.Equal(t, []uint32{0, 1, 2, 2, 3, 0}, mesh.Indices)
	require.Len(t, mesh.Vertices, 4)
	assert.Equal(t, [3]float32{1, 1, 0}, mesh.Vertices[2].Position)
	assert.Equal(t, [3]float32{0, 0, 1}, mesh.Vertices[2].Normal)
	assert.Equal(t, [2]float32{0, 0}, mesh.Vertices[2].TexCoords, "missing UVs are zero-filled")
	assert.Empty(t, mesh.Textures)
	assert.NoError(t, mesh.Validate())

	vertices, triangles := m.Stats()
	assert.Equal(t, 4, vertices)
	assert.Equal(t, 2, triangles)
}

func TestLoadRejectsMalformedMeshes(t *testing.T) {
	tests := []struct {
		name string
		mesh formats.SceneMesh
	}{
		{"quad face", formats.SceneMesh{
			Positions: [][3]float32{{}, {}, {}, {}},
			Faces:     [][]uint32{{0, 1, 2, 3}},
			Material:  -1,
		}},
		{"index out of range", formats.SceneMesh{
			Positions: [][3]float32{{}, {}, {}},
			Faces:     [][]uint32{{0, 1, 3}},
			Material:  -1,
		}},
		{"normal count mismatch", formats.SceneMesh{
			Positions: [][3]float32{{}, {}, {}},
			Normals:   [][3]float32{{}},
			Faces:     [][]uint32{{0, 1, 2}},
			Material:  -1,
		}},
		{"unknown material", formats.SceneMesh{
			Positions: [][3]float32{{}, {}, {}},
			Faces:     [][]uint32{{0, 1, 2}},
			Material:  4,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &fakeParser{scene: &formats.Scene{
				Root:   &formats.Node{Meshes: []int{0}},
				Meshes: []formats.SceneMesh{tt.mesh},
			}}
			m, err := (&Importer{Parser: parser, Loader: &fakeLoader{}}).Load("bad.gltf")
			assert.Nil(t, m)
			assert.ErrorIs(t, err, ErrModelLoad)
		})
	}
}

func TestLoadRejectsBadNodeReferences(t *testing.T) {
	root := &formats.Node{Name: "root"}
	root.Children = []*formats.Node{root}

	for name, scene := range map[string]*formats.Scene{
		"cycle":         {Root: root},
		"missing mesh":  {Root: &formats.Node{Meshes: []int{2}}},
		"negative mesh": {Root: &formats.Node{Meshes: []int{-1}}},
	} {
		t.Run(name, func(t *testing.T) {
			m, err := (&Importer{Parser: &fakeParser{scene: scene}, Loader: &fakeLoader{}}).Load("bad.gltf")
			assert.Nil(t, m)
			assert.ErrorIs(t, err, ErrModelLoad)
		})
	}
}

func TestLoadSharedNodeIsNotACycle(t *testing.T) {
	// The same subtree listed twice is instancing, not a cycle.
	leaf := &formats.Node{Name: "leaf", Meshes: []int{0}}
	parser := &fakeParser{scene: &formats.Scene{
		Root:   &formats.Node{Children: []*formats.Node{leaf, leaf}},
		Meshes: []formats.SceneMesh{triangle("t", -1)},
	}}

	m, err := (&Importer{Parser: parser, Loader: &fakeLoader{}}).Load("inst.gltf")
	require.NoError(t, err)
	assert.Len(t, m.Meshes, 2)
}

func TestLoadSlotOrder(t *testing.T) {
	mat := material("m", map[formats.TextureSlot][]string{
		formats.SlotHeight:   {"h.png"},
		formats.SlotNormal:   {"n.png"},
		formats.SlotSpecular: {"s.png"},
		formats.SlotDiffuse:  {"d1.png", "d2.png"},
	})
	scene := &formats.Scene{
		Root:      &formats.Node{Meshes: []int{0}},
		Meshes:    []formats.SceneMesh{triangle("t", 0)},
		Materials: []formats.Material{mat},
	}

	loader := &fakeLoader{}
	m, err := (&Importer{Parser: &fakeParser{scene: scene}, Loader: loader}).Load("m.gltf")
	require.NoError(t, err)
	assert.Equal(t, []string{"d1.png", "d2.png", "s.png", "n.png", "h.png"}, loader.calls)

	var types []TextureType
	for _, tex := range m.Meshes[0].Textures {
		types = append(types, tex.Type)
	}
	assert.Equal(t, []TextureType{TextureDiffuse, TextureDiffuse, TextureSpecular, TextureNormal, TextureHeight}, types)

	// Restricting slots skips the others entirely.
	loader = &fakeLoader{}
	im := &Importer{Parser: &fakeParser{scene: scene}, Loader: loader, Slots: []TextureType{TextureSpecular, TextureDiffuse}}
	_, err = im.Load("m.gltf")
	require.NoError(t, err)
	assert.Equal(t, []string{"s.png", "d1.png", "d2.png"}, loader.calls)
}

func TestResolvePath(t *testing.T) {
	dir := filepath.Join("models", "backpack")
	tests := []struct {
		declared string
		want     string
	}{
		{"diffuse.jpg", filepath.Join(dir, "diffuse.jpg")},
		{"./diffuse.jpg", filepath.Join(dir, "diffuse.jpg")},
		{"textures/../diffuse.jpg", filepath.Join(dir, "diffuse.jpg")},
		{`textures\wood.png`, filepath.Join(dir, "textures", "wood.png")},
		{"../shared/metal.png", filepath.Join("models", "shared", "metal.png")},
	}
	for _, tt := range tests {
		t.Run(tt.declared, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePath(dir, tt.declared))
		})
	}

	abs := filepath.Join(string(filepath.Separator), "abs", "tex.png")
	assert.Equal(t, abs, ResolvePath(dir, abs))
}
