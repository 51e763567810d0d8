// Package scene provides the mesh data model the rasterizer core consumes:
// a dense vertex array and a flat triangle-index array, ready to render.
// Parsing mesh files into this shape is an external collaborator's job, not
// the core's — see the loader in gltf.go.
package scene

import (
	"github.com/taigrr/rastertile/pkg/math3d"
)

// Vertex holds the per-vertex attributes the pipeline accepts as input.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Mesh is a dense vertex array plus a flat index array whose length is a
// multiple of three; each consecutive triple names one triangle.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []int

	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewMesh creates an empty, named mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// TriangleCount returns the number of triangles described by Indices.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// CalculateBounds computes the axis-aligned bounding box over Vertices.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}
	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// CalculateFlatNormals derives a face normal per triangle and assigns it to
// all three of that triangle's vertices, overwriting whatever normal the
// loader supplied. Vertices shared between triangles end up with whichever
// triangle wrote them last (no averaging) — callers that want shared,
// averaged normals should use CalculateSmoothNormals instead.
func (m *Mesh) CalculateFlatNormals() {
	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		v0 := m.Vertices[i0].Position
		v1 := m.Vertices[i1].Position
		v2 := m.Vertices[i2].Position

		normal := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
		m.Vertices[i0].Normal = normal
		m.Vertices[i1].Normal = normal
		m.Vertices[i2].Normal = normal
	}
}

// CalculateSmoothNormals accumulates unnormalized face normals per vertex
// and normalizes the result, producing shared normals across triangles
// that meet at a vertex.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		v0 := m.Vertices[i0].Position
		v1 := m.Vertices[i1].Position
		v2 := m.Vertices[i2].Position

		normal := v1.Sub(v0).Cross(v2.Sub(v0))
		m.Vertices[i0].Normal = m.Vertices[i0].Normal.Add(normal)
		m.Vertices[i1].Normal = m.Vertices[i1].Normal.Add(normal)
		m.Vertices[i2].Normal = m.Vertices[i2].Normal.Add(normal)
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]Vertex, len(m.Vertices)),
		Indices:   make([]int, len(m.Indices)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Indices, m.Indices)
	return clone
}
