package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/learngl/internal/logger"
	"github.com/Faultbox/learngl/pkg/formats"
)

// ErrModelLoad marks a fatal import failure: the asset could not be parsed
// or is structurally invalid. No model is returned with it.
var ErrModelLoad = errors.New("model load failed")

// SceneParser reads an asset file into a scene graph.
type SceneParser interface {
	Parse(path string, opts formats.ParseOptions) (*formats.Scene, error)
}

// TextureLoader decodes an image file and uploads it, returning the GPU
// handle.
type TextureLoader interface {
	Load(path string) (uint32, error)
}

// Importer builds Models from asset files.
type Importer struct {
	Parser SceneParser
	Loader TextureLoader

	// Slots lists the texture types to resolve per material, in order.
	// Nil means DefaultSlots.
	Slots []TextureType

	// FlipUVs asks the parser to flip the V coordinate.
	FlipUVs bool
}

// Load imports the asset at path. Texture failures are logged and
// recorded on the model but do not fail the import.
func (im *Importer) Load(path string) (*Model, error) {
	start := time.Now()

	scene, err := im.Parser.Parse(path, formats.ParseOptions{
		Triangulate: true,
		FlipUVs:     im.FlipUVs,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrModelLoad, path, err)
	}
	if scene == nil || scene.Root == nil {
		return nil, fmt.Errorf("%w: %s: scene has no root node", ErrModelLoad, path)
	}

	b := &builder{
		importer: im,
		scene:    scene,
		model:    newModel(filepath.Dir(path)),
		visiting: make(map[*formats.Node]bool),
	}
	if err := b.processNode(scene.Root); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrModelLoad, path, err)
	}
	// Counted after traversal, which has already rejected cycles.
	b.model.Nodes = scene.CountNodes()

	vertices, triangles := b.model.Stats()
	logger.Info("model loaded",
		zap.String("path", path),
		zap.Int("nodes", b.model.Nodes),
		zap.Int("meshes", len(b.model.Meshes)),
		zap.Int("vertices", vertices),
		zap.Int("triangles", triangles),
		zap.Int("textures", len(b.model.textureOrder)),
		zap.Int("textureErrors", len(b.model.TextureErrors())),
		zap.Duration("elapsed", time.Since(start)),
	)

	return b.model, nil
}

func (im *Importer) slots() []TextureType {
	if im.Slots == nil {
		return DefaultSlots
	}
	return im.Slots
}

// builder carries the state of one Load call.
type builder struct {
	importer *Importer
	scene    *formats.Scene
	model    *Model
	visiting map[*formats.Node]bool
}

// processNode converts the node's meshes, then recurses into its children
// in order. Mesh order in the model is the draw order.
func (b *builder) processNode(node *formats.Node) error {
	if b.visiting[node] {
		return fmt.Errorf("node %q is its own ancestor", node.Name)
	}
	b.visiting[node] = true
	defer delete(b.visiting, node)

	for _, idx := range node.Meshes {
		if idx < 0 || idx >= len(b.scene.Meshes) {
			return fmt.Errorf("node %q references mesh %d of %d", node.Name, idx, len(b.scene.Meshes))
		}
		mesh, err := b.processMesh(&b.scene.Meshes[idx])
		if err != nil {
			return err
		}
		b.model.Meshes = append(b.model.Meshes, mesh)
	}

	for _, child := range node.Children {
		if err := b.processNode(child); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) processMesh(src *formats.SceneMesh) (*Mesh, error) {
	if len(src.Normals) != 0 && len(src.Normals) != len(src.Positions) {
		return nil, fmt.Errorf("mesh %q: %d normals for %d positions", src.Name, len(src.Normals), len(src.Positions))
	}
	if len(src.UVs) != 0 && len(src.UVs) != len(src.Positions) {
		return nil, fmt.Errorf("mesh %q: %d uvs for %d positions", src.Name, len(src.UVs), len(src.Positions))
	}

	mesh := &Mesh{
		Name:     src.Name,
		Vertices: make([]Vertex, len(src.Positions)),
		Indices:  make([]uint32, 0, len(src.Faces)*3),
	}

	// Vertex order is kept: it is the index buffer's reference frame.
	for i, pos := range src.Positions {
		v := Vertex{Position: pos}
		if len(src.Normals) > 0 {
			v.Normal = src.Normals[i]
		}
		if len(src.UVs) > 0 {
			v.TexCoords = src.UVs[i]
		}
		mesh.Vertices[i] = v
	}

	for i, face := range src.Faces {
		if len(face) != 3 {
			return nil, fmt.Errorf("mesh %q: face %d has %d vertices, want 3", src.Name, i, len(face))
		}
		mesh.Indices = append(mesh.Indices, face...)
	}
	if err := mesh.Validate(); err != nil {
		return nil, err
	}

	if src.Material >= 0 {
		if src.Material >= len(b.scene.Materials) {
			return nil, fmt.Errorf("mesh %q references material %d of %d", src.Name, src.Material, len(b.scene.Materials))
		}
		mat := &b.scene.Materials[src.Material]
		for _, typ := range b.importer.slots() {
			mesh.Textures = append(mesh.Textures, b.loadMaterialTextures(mat, typ)...)
		}
	}

	return mesh, nil
}

// loadMaterialTextures returns the textures a material declares for one
// slot. Each canonical path is loaded at most once per model; a path that
// failed once is not retried.
func (b *builder) loadMaterialTextures(mat *formats.Material, typ TextureType) []*Texture {
	var out []*Texture
	for _, declared := range mat.TexturePaths(typ.Slot()) {
		path := ResolvePath(b.model.Dir, declared)

		if tex, ok := b.model.textures[path]; ok {
			if tex.Type != typ {
				// Same image in another role: share the handle, keep the tag.
				tex = &Texture{ID: tex.ID, Type: typ, Path: path}
			}
			out = append(out, tex)
			continue
		}
		if _, failed := b.model.failed[path]; failed {
			continue
		}

		id, err := b.importer.Loader.Load(path)
		if err != nil {
			err = fmt.Errorf("texture %s (%s, material %q): %w", path, typ, mat.Name, err)
			b.model.failed[path] = err
			b.model.textureErrs = multierr.Append(b.model.textureErrs, err)
			logger.Warn("texture load failed, slot left empty",
				zap.String("path", path),
				zap.Stringer("type", typ),
				zap.String("material", mat.Name),
				zap.Error(err),
			)
			continue
		}

		tex := &Texture{ID: id, Type: typ, Path: path}
		b.model.textures[path] = tex
		b.model.textureOrder = append(b.model.textureOrder, tex)
		out = append(out, tex)
	}
	return out
}

// ResolvePath turns a texture path declared by an asset into the canonical
// path used to load and deduplicate it. Windows separators are accepted,
// relative paths are joined to dir and the result is cleaned.
func ResolvePath(dir, declared string) string {
	p := filepath.FromSlash(strings.ReplaceAll(declared, `\`, "/"))
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}
