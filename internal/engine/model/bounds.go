package model

import "github.com/go-gl/mathgl/mgl32"

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max mgl32.Vec3
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Radius returns the radius of the sphere around the box.
func (b Bounds) Radius() float32 {
	return b.Max.Sub(b.Min).Len() / 2
}

// Transform returns the box enclosing b after m is applied.
func (b Bounds) Transform(m mgl32.Mat4) Bounds {
	var out Bounds
	for i := 0; i < 8; i++ {
		corner := b.Min
		if i&1 != 0 {
			corner[0] = b.Max[0]
		}
		if i&2 != 0 {
			corner[1] = b.Max[1]
		}
		if i&4 != 0 {
			corner[2] = b.Max[2]
		}
		p := m.Mul4x1(corner.Vec4(1)).Vec3()
		if i == 0 {
			out = Bounds{Min: p, Max: p}
			continue
		}
		out.extend(p)
	}
	return out
}

func (b *Bounds) extend(p mgl32.Vec3) {
	for k := 0; k < 3; k++ {
		b.Min[k] = min(b.Min[k], p[k])
		b.Max[k] = max(b.Max[k], p[k])
	}
}

// Bounds returns the box around every vertex of the model. The second
// result is false when the model has no vertices.
func (m *Model) Bounds() (Bounds, bool) {
	var b Bounds
	found := false
	for _, mesh := range m.Meshes {
		for _, v := range mesh.Vertices {
			p := mgl32.Vec3(v.Position)
			if !found {
				b = Bounds{Min: p, Max: p}
				found = true
				continue
			}
			b.extend(p)
		}
	}
	return b, found
}
