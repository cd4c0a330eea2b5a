package formats

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/learngl/internal/logger"
)

// glTF parse errors.
var (
	ErrNoScene          = errors.New("gltf: document has no scene")
	ErrNodeCycle        = errors.New("gltf: node hierarchy contains a cycle")
	ErrInvalidReference = errors.New("gltf: index out of range")
	ErrMissingPositions = errors.New("gltf: primitive has no POSITION attribute")
	ErrBadTriangleList  = errors.New("gltf: triangle list length is not a multiple of 3")
)

// GLTFParser parses glTF 2.0 files (.gltf and .glb).
type GLTFParser struct{}

// Parse opens path and converts its default scene.
func (GLTFParser) Parse(path string, opts ParseOptions) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return ConvertGLTF(doc, opts)
}

// ConvertGLTF converts an already decoded glTF document.
// Each mesh primitive becomes one SceneMesh; the scene's root nodes are
// grouped under a synthetic root when there is more than one.
func ConvertGLTF(doc *gltf.Document, opts ParseOptions) (*Scene, error) {
	sceneIdx := 0
	if doc.Scene != nil {
		sceneIdx = int(*doc.Scene)
	}
	if sceneIdx >= len(doc.Scenes) {
		return nil, ErrNoScene
	}

	c := &gltfConverter{
		doc:        doc,
		opts:       opts,
		scene:      &Scene{},
		primitives: make(map[int][]int),
	}

	c.convertMaterials()

	roots := doc.Scenes[sceneIdx].Nodes
	if len(roots) == 1 {
		root, err := c.convertNode(int(roots[0]), map[int]bool{})
		if err != nil {
			return nil, err
		}
		c.scene.Root = root
		return c.scene, nil
	}

	c.scene.Root = &Node{Name: doc.Scenes[sceneIdx].Name}
	for _, idx := range roots {
		child, err := c.convertNode(int(idx), map[int]bool{})
		if err != nil {
			return nil, err
		}
		c.scene.Root.Children = append(c.scene.Root.Children, child)
	}
	return c.scene, nil
}

type gltfConverter struct {
	doc   *gltf.Document
	opts  ParseOptions
	scene *Scene

	// glTF mesh index -> SceneMesh indices, one per primitive
	primitives map[int][]int
}

func (c *gltfConverter) convertNode(idx int, path map[int]bool) (*Node, error) {
	if idx >= len(c.doc.Nodes) {
		return nil, fmt.Errorf("%w: node %d", ErrInvalidReference, idx)
	}
	if path[idx] {
		return nil, fmt.Errorf("%w: node %d", ErrNodeCycle, idx)
	}
	path[idx] = true
	defer delete(path, idx)

	src := c.doc.Nodes[idx]
	node := &Node{Name: src.Name}

	if src.Mesh != nil {
		meshes, err := c.convertMesh(int(*src.Mesh))
		if err != nil {
			return nil, err
		}
		node.Meshes = append(node.Meshes, meshes...)
	}

	for _, childIdx := range src.Children {
		child, err := c.convertNode(int(childIdx), path)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// convertMesh converts a glTF mesh once; instanced references reuse the
// already converted primitives.
func (c *gltfConverter) convertMesh(idx int) ([]int, error) {
	if out, ok := c.primitives[idx]; ok {
		return out, nil
	}
	if idx >= len(c.doc.Meshes) {
		return nil, fmt.Errorf("%w: mesh %d", ErrInvalidReference, idx)
	}

	src := c.doc.Meshes[idx]
	var out []int
	for i, prim := range src.Primitives {
		switch prim.Mode {
		case gltf.PrimitiveTriangles, gltf.PrimitiveTriangleStrip, gltf.PrimitiveTriangleFan:
		default:
			logger.Debug("skipping non-triangle primitive",
				zap.String("mesh", src.Name),
				zap.Int("primitive", i),
			)
			continue
		}

		mesh, err := c.convertPrimitive(src.Name, prim)
		if err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d: %w", src.Name, i, err)
		}
		out = append(out, len(c.scene.Meshes))
		c.scene.Meshes = append(c.scene.Meshes, *mesh)
	}

	c.primitives[idx] = out
	return out, nil
}

func (c *gltfConverter) convertPrimitive(name string, prim *gltf.Primitive) (*SceneMesh, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, ErrMissingPositions
	}

	acc, err := c.accessor(int(posIdx))
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(c.doc, acc, nil)
	if err != nil {
		return nil, fmt.Errorf("reading positions: %w", err)
	}

	mesh := &SceneMesh{
		Name:      name,
		Positions: positions,
		Material:  -1,
	}

	if nIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		acc, err := c.accessor(int(nIdx))
		if err != nil {
			return nil, err
		}
		if mesh.Normals, err = modeler.ReadNormal(c.doc, acc, nil); err != nil {
			return nil, fmt.Errorf("reading normals: %w", err)
		}
	}

	if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		acc, err := c.accessor(int(uvIdx))
		if err != nil {
			return nil, err
		}
		if mesh.UVs, err = modeler.ReadTextureCoord(c.doc, acc, nil); err != nil {
			return nil, fmt.Errorf("reading uvs: %w", err)
		}
		if c.opts.FlipUVs {
			for i := range mesh.UVs {
				mesh.UVs[i][1] = 1 - mesh.UVs[i][1]
			}
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		acc, err := c.accessor(int(*prim.Indices))
		if err != nil {
			return nil, err
		}
		if indices, err = modeler.ReadIndices(c.doc, acc, nil); err != nil {
			return nil, fmt.Errorf("reading indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	switch {
	case prim.Mode == gltf.PrimitiveTriangles:
		if len(indices)%3 != 0 {
			return nil, fmt.Errorf("%w: %d indices", ErrBadTriangleList, len(indices))
		}
		mesh.Faces = groupFaces(indices)
	case !c.opts.Triangulate:
		// Left as one polygon; callers that need triangles must ask for
		// triangulation.
		mesh.Faces = [][]uint32{indices}
	case prim.Mode == gltf.PrimitiveTriangleStrip:
		mesh.Faces = groupFaces(stripToList(indices))
	default:
		mesh.Faces = groupFaces(fanToList(indices))
	}

	if prim.Material != nil {
		matIdx := int(*prim.Material)
		if matIdx >= len(c.scene.Materials) {
			return nil, fmt.Errorf("%w: material %d", ErrInvalidReference, matIdx)
		}
		mesh.Material = matIdx
	}
	return mesh, nil
}

func (c *gltfConverter) accessor(idx int) (*gltf.Accessor, error) {
	if idx >= len(c.doc.Accessors) {
		return nil, fmt.Errorf("%w: accessor %d", ErrInvalidReference, idx)
	}
	return c.doc.Accessors[idx], nil
}

// convertMaterials maps the PBR texture set onto the classic slots:
// base color to diffuse, metallic-roughness to specular, normal to normal
// and occlusion to height.
func (c *gltfConverter) convertMaterials() {
	c.scene.Materials = make([]Material, len(c.doc.Materials))
	for i, src := range c.doc.Materials {
		mat := Material{Name: src.Name, Textures: make(map[TextureSlot][]string)}

		if pbr := src.PBRMetallicRoughness; pbr != nil {
			if pbr.BaseColorTexture != nil {
				c.addTexture(&mat, SlotDiffuse, int(pbr.BaseColorTexture.Index))
			}
			if pbr.MetallicRoughnessTexture != nil {
				c.addTexture(&mat, SlotSpecular, int(pbr.MetallicRoughnessTexture.Index))
			}
		}
		if src.NormalTexture != nil && src.NormalTexture.Index != nil {
			c.addTexture(&mat, SlotNormal, int(*src.NormalTexture.Index))
		}
		if src.OcclusionTexture != nil && src.OcclusionTexture.Index != nil {
			c.addTexture(&mat, SlotHeight, int(*src.OcclusionTexture.Index))
		}
		c.scene.Materials[i] = mat
	}
}

func (c *gltfConverter) addTexture(mat *Material, slot TextureSlot, texIdx int) {
	uri, ok := c.imageURI(texIdx)
	if !ok {
		logger.Warn("skipping texture without external image",
			zap.String("material", mat.Name),
			zap.String("slot", string(slot)),
			zap.Int("texture", texIdx),
		)
		return
	}
	mat.Textures[slot] = append(mat.Textures[slot], uri)
}

// imageURI resolves a texture index to the relative file path of its
// image. Embedded images (buffer views, data URIs) are not path addressable.
func (c *gltfConverter) imageURI(texIdx int) (string, bool) {
	if texIdx >= len(c.doc.Textures) {
		return "", false
	}
	tex := c.doc.Textures[texIdx]
	if tex.Source == nil || int(*tex.Source) >= len(c.doc.Images) {
		return "", false
	}
	img := c.doc.Images[int(*tex.Source)]
	if img.URI == "" || img.IsEmbeddedResource() {
		return "", false
	}
	uri, err := url.PathUnescape(img.URI)
	if err != nil {
		return img.URI, true
	}
	return uri, true
}

func groupFaces(indices []uint32) [][]uint32 {
	faces := make([][]uint32, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		faces = append(faces, []uint32{indices[i], indices[i+1], indices[i+2]})
	}
	return faces
}

// stripToList expands a triangle strip, alternating winding so every
// triangle keeps the strip's orientation.
func stripToList(strip []uint32) []uint32 {
	if len(strip) < 3 {
		return nil
	}
	out := make([]uint32, 0, (len(strip)-2)*3)
	for i := 0; i+2 < len(strip); i++ {
		if i%2 == 0 {
			out = append(out, strip[i], strip[i+1], strip[i+2])
		} else {
			out = append(out, strip[i+1], strip[i], strip[i+2])
		}
	}
	return out
}

func fanToList(fan []uint32) []uint32 {
	if len(fan) < 3 {
		return nil
	}
	out := make([]uint32, 0, (len(fan)-2)*3)
	for i := 1; i+1 < len(fan); i++ {
		out = append(out, fan[0], fan[i], fan[i+1])
	}
	return out
}
