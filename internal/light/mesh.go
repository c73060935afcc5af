package light

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"chosenoffset.com/light2d/internal/core/geom"
)

// cameraNormal faces the viewer; the mesh lies flat in the XY plane
var cameraNormal = mgl32.Vec3{0, 0, -1}

// Bounds is an axis-aligned box around the mesh vertices
type Bounds struct {
	Min, Max mgl32.Vec3
}

// Size returns the extent of the box
func (b Bounds) Size() mgl32.Vec3 { return b.Max.Sub(b.Min) }

// Mesh is a light polygon in origin-relative coordinates. Contents are
// replaced wholesale on every build; backing arrays are reused.
type Mesh struct {
	Vertices  []mgl32.Vec3
	Triangles [][3]uint32
	Normals   []mgl32.Vec3
	UV        []mgl32.Vec2
	Bounds    Bounds
}

// Clear empties the mesh
func (m *Mesh) Clear() {
	m.Vertices = m.Vertices[:0]
	m.Triangles = m.Triangles[:0]
	m.Normals = m.Normals[:0]
	m.UV = m.UV[:0]
	m.Bounds = Bounds{}
}

// Empty reports whether the mesh has no triangles
func (m *Mesh) Empty() bool {
	return len(m.Triangles) == 0
}

// Indices flattens the triangle list
func (m *Mesh) Indices() []uint32 {
	out := make([]uint32, 0, len(m.Triangles)*3)
	for _, t := range m.Triangles {
		out = append(out, t[0], t[1], t[2])
	}
	return out
}

// RecalculateBounds recomputes Bounds from the vertices
func (m *Mesh) RecalculateBounds() {
	if len(m.Vertices) == 0 {
		m.Bounds = Bounds{}
		return
	}
	b := Bounds{Min: m.Vertices[0], Max: m.Vertices[0]}
	for _, v := range m.Vertices[1:] {
		for k := 0; k < 3; k++ {
			if v[k] < b.Min[k] {
				b.Min[k] = v[k]
			}
			if v[k] > b.Max[k] {
				b.Max[k] = v[k]
			}
		}
	}
	m.Bounds = b
}

func relative(p, origin geom.Point) mgl32.Vec3 {
	d := p.Sub(origin)
	return mgl32.Vec3{float32(d.X), float32(d.Y), 0}
}

// BuildFan rebuilds m as an unindexed fan: one triangle per consecutive hit
// pair, each starting at the origin. UV x runs from 1 down across the fan and
// UV y is hit distance over radius, 0 at the origin.
func BuildFan(m *Mesh, origin geom.Point, hits []Hit, radius float64) error {
	m.Clear()
	if len(hits) < 2 {
		return errors.Wrapf(ErrDegenerateGeometry, "fan needs at least 2 hits, got %d", len(hits))
	}

	numTriangles := len(hits) - 1
	numVertices := numTriangles * 3
	for i := 0; i < numTriangles; i++ {
		m.Vertices = append(m.Vertices, mgl32.Vec3{}, relative(hits[i].Point, origin), relative(hits[i+1].Point, origin))
		base := uint32(i * 3)
		m.Triangles = append(m.Triangles, [3]uint32{base, base + 1, base + 2})
	}
	for i := 0; i < numVertices; i++ {
		m.Normals = append(m.Normals, cameraNormal)
	}

	norm := func(d float64) float32 {
		if radius == 0 {
			return 0
		}
		return float32(d / radius)
	}
	x := float32(1)
	step := 1 / float32(numVertices)
	y := norm(hits[0].Distance)
	for i := 1; i <= numTriangles; i++ {
		m.UV = append(m.UV, mgl32.Vec2{x, 0}, mgl32.Vec2{x, y})
		x -= step
		y = norm(hits[i].Distance)
		m.UV = append(m.UV, mgl32.Vec2{x, y})
	}
	return nil
}

// BuildIndexedFan rebuilds m with shared vertices: the origin first, then one
// vertex per hit, triangles (0, i, i+1). UVs are planar over the bounds.
func BuildIndexedFan(m *Mesh, origin geom.Point, hits []Hit) error {
	m.Clear()
	if len(hits) < 2 {
		return errors.Wrapf(ErrDegenerateGeometry, "fan needs at least 2 hits, got %d", len(hits))
	}

	m.Vertices = append(m.Vertices, mgl32.Vec3{})
	for _, h := range hits {
		m.Vertices = append(m.Vertices, relative(h.Point, origin))
	}
	for i := 1; i < len(hits); i++ {
		m.Triangles = append(m.Triangles, [3]uint32{0, uint32(i), uint32(i + 1)})
	}
	for range m.Vertices {
		m.Normals = append(m.Normals, cameraNormal)
	}

	m.RecalculateBounds()
	size := m.Bounds.Size()
	for _, v := range m.Vertices {
		var uv mgl32.Vec2
		if size.X() != 0 {
			uv[0] = (v.X() - m.Bounds.Min.X()) / size.X()
		}
		if size.Y() != 0 {
			uv[1] = (v.Y() - m.Bounds.Min.Y()) / size.Y()
		}
		m.UV = append(m.UV, uv)
	}
	return nil
}
