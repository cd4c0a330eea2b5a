package shader

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/learngl/internal/logger"
)

// Uniforms is the setter surface a linked program exposes. Lighting and
// mesh drawing write through it so they can be exercised without a GL
// context.
type Uniforms interface {
	SetBool(name string, v bool)
	SetInt(name string, v int32)
	SetFloat(name string, v float32)
	SetVec3(name string, v mgl32.Vec3)
	SetMat3(name string, m mgl32.Mat3)
	SetMat4(name string, m mgl32.Mat4)
}

// Program is a linked GL program with a uniform location cache.
type Program struct {
	ID uint32

	locations map[string]int32
	lookup    func(program uint32, name string) int32
}

var _ Uniforms = (*Program)(nil)

func newProgram(id uint32, lookup func(uint32, string) int32) *Program {
	return &Program{
		ID:        id,
		locations: make(map[string]int32),
		lookup:    lookup,
	}
}

// Use makes the program current.
func (p *Program) Use() {
	gl.UseProgram(p.ID)
}

// Location returns the cached location of a uniform, querying the driver
// on first use. Inactive uniforms resolve to -1, which GL ignores on set.
func (p *Program) Location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := p.lookup(p.ID, name)
	if loc < 0 {
		logger.Debug("uniform not active", zap.Uint32("program", p.ID), zap.String("name", name))
	}
	p.locations[name] = loc
	return loc
}

func (p *Program) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	gl.Uniform1i(p.Location(name), i)
}

func (p *Program) SetInt(name string, v int32) {
	gl.Uniform1i(p.Location(name), v)
}

func (p *Program) SetFloat(name string, v float32) {
	gl.Uniform1f(p.Location(name), v)
}

func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	gl.Uniform3fv(p.Location(name), 1, &v[0])
}

func (p *Program) SetMat3(name string, m mgl32.Mat3) {
	gl.UniformMatrix3fv(p.Location(name), 1, false, &m[0])
}

func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(p.Location(name), 1, false, &m[0])
}

// Delete releases the GL program. Calling it again is a no-op.
func (p *Program) Delete() {
	if p.ID == 0 {
		return
	}
	gl.DeleteProgram(p.ID)
	p.ID = 0
	clear(p.locations)
}
