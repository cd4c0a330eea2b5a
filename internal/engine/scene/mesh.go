package scene

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/learngl/internal/engine/model"
	"github.com/Faultbox/learngl/internal/logger"
)

// SamplerSetter points a sampler uniform at a texture unit.
type SamplerSetter interface {
	SetInt(name string, v int32)
}

// GPUMesh is one mesh's vertex array and buffers plus the textures it
// samples.
type GPUMesh struct {
	Name string

	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
	bindings   []model.SamplerBinding
}

// GPUModel holds the GPU copies of a model's meshes, in draw order.
type GPUModel struct {
	Meshes []*GPUMesh

	released bool
}

// Upload creates GPU buffers for every mesh of m. Sampler slots for
// diffuse and specular that a mesh leaves empty are bound to fallback;
// pass 0 to leave them unbound. A GL context must be current.
func Upload(m *model.Model, fallback uint32) *GPUModel {
	g := &GPUModel{Meshes: make([]*GPUMesh, 0, len(m.Meshes))}
	for _, mesh := range m.Meshes {
		if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
			logger.Debug("skipping empty mesh", zap.String("mesh", mesh.Name))
			continue
		}
		gm := uploadMesh(mesh)
		gm.bindings = model.SamplerBindings(mesh.Textures)
		if fallback != 0 {
			gm.bindings = model.WithFallback(gm.bindings, fallback, model.TextureDiffuse, model.TextureSpecular)
		}
		g.Meshes = append(g.Meshes, gm)
	}
	return g
}

func uploadMesh(mesh *model.Mesh) *GPUMesh {
	gm := &GPUMesh{Name: mesh.Name}

	gl.GenVertexArrays(1, &gm.vao)
	gl.BindVertexArray(gm.vao)

	gl.GenBuffers(1, &gm.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, gm.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*model.VertexSize, unsafe.Pointer(&mesh.Vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &gm.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gm.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, model.VertexSize, 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, model.VertexSize, 3*4)
	gl.EnableVertexAttribArray(1)
	// TexCoords
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, model.VertexSize, 6*4)
	gl.EnableVertexAttribArray(2)

	gm.indexCount = int32(len(mesh.Indices))
	gl.BindVertexArray(0)
	return gm
}

// Draw binds each mesh's textures to consecutive units and draws it. The
// program must already be in use.
func (g *GPUModel) Draw(s SamplerSetter) {
	if g.released {
		return
	}
	for _, gm := range g.Meshes {
		gm.Draw(s)
	}
}

// Draw binds the mesh's textures and issues one indexed draw.
func (gm *GPUMesh) Draw(s SamplerSetter) {
	for _, b := range gm.bindings {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(b.Unit))
		s.SetInt(b.Uniform, b.Unit)
		gl.BindTexture(gl.TEXTURE_2D, b.Texture)
	}

	gl.BindVertexArray(gm.vao)
	gl.DrawElements(gl.TRIANGLES, gm.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)

	gl.ActiveTexture(gl.TEXTURE0)
}

// Release deletes all vertex arrays and buffers. Textures belong to the
// loader that created them. Further calls are no-ops.
func (g *GPUModel) Release() {
	if g.released {
		return
	}
	g.released = true
	for _, gm := range g.Meshes {
		gl.DeleteVertexArrays(1, &gm.vao)
		gl.DeleteBuffers(1, &gm.vbo)
		gl.DeleteBuffers(1, &gm.ebo)
		gm.vao, gm.vbo, gm.ebo = 0, 0, 0
	}
	logger.Debug("model buffers released", zap.Int("meshes", len(g.Meshes)))
}
