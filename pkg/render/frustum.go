package render

import (
	"github.com/taigrr/rastertile/pkg/math3d"
)

// Plane represents a plane in 3D space using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the normal and D is the distance from origin.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize normalizes the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1.0 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum represents the 6 planes of a view frustum.
// Planes are ordered: Left, Right, Bottom, Top, Near, Far.
// Each plane's normal points inward (toward the center of the frustum).
type Frustum struct {
	Planes [6]Plane
}

// Frustum plane indices, for clarity at call sites.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// NewFrustumFromMatrix extracts frustum planes from a view-projection
// matrix under the row-vector convention (clip = v * M, so a clip-space
// component is the dot product of v with a COLUMN of M, not a row). The
// near plane is z >= 0 rather than the usual -w <= z, matching this
// pipeline's projection range of clip-space z in [0, far] (NDC z in [0, 1]).
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	var f Frustum

	// Column j of a row-major Mat4 is (m[j], m[4+j], m[8+j], m[12+j]).
	col := func(j int) (float64, float64, float64, float64) {
		return m.Get(0, j), m.Get(1, j), m.Get(2, j), m.Get(3, j)
	}

	c0x, c0y, c0z, c0w := col(0)
	c1x, c1y, c1z, c1w := col(1)
	c2x, c2y, c2z, c2w := col(2)
	c3x, c3y, c3z, c3w := col(3)

	f.Planes[FrustumLeft] = Plane{Normal: math3d.V3(c0x+c3x, c0y+c3y, c0z+c3z), D: c0w + c3w}
	f.Planes[FrustumRight] = Plane{Normal: math3d.V3(c3x-c0x, c3y-c0y, c3z-c0z), D: c3w - c0w}
	f.Planes[FrustumBottom] = Plane{Normal: math3d.V3(c1x+c3x, c1y+c3y, c1z+c3z), D: c1w + c3w}
	f.Planes[FrustumTop] = Plane{Normal: math3d.V3(c3x-c1x, c3y-c1y, c3z-c1z), D: c3w - c1w}
	f.Planes[FrustumNear] = Plane{Normal: math3d.V3(c2x, c2y, c2z), D: c2w}
	f.Planes[FrustumFar] = Plane{Normal: math3d.V3(c3x-c2x, c3y-c2y, c3z-c2z), D: c3w - c2w}

	for i := range f.Planes {
		f.Planes[i].Normalize()
	}

	return f
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from min and max points.
func NewAABB(min, max math3d.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the AABB.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Transform returns an AABB that bounds the original AABB's 8 corners after
// being carried through m.
func (b AABB) Transform(m math3d.Mat4) AABB {
	corners := [8]math3d.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}

	newMin := m.MulVec3(corners[0])
	newMax := newMin
	for i := 1; i < 8; i++ {
		t := m.MulVec3(corners[i])
		newMin = newMin.Min(t)
		newMax = newMax.Max(t)
	}

	return AABB{Min: newMin, Max: newMax}
}

// ContainsPoint returns true if the point is inside the AABB.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// IntersectAABB tests if the AABB intersects or is inside the frustum. It
// is a conservative test: it can answer "might be visible" for a box that
// is actually just outside, but never discards one that is actually
// visible, which is what makes it safe to use as a broad-phase pre-filter
// ahead of the exact per-triangle culling DrawMesh already does.
func (f Frustum) IntersectAABB(box AABB) bool {
	for i := range f.Planes {
		plane := f.Planes[i]

		pVertex := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)

		if plane.DistanceToPoint(pVertex) < 0 {
			return false
		}
	}

	return true
}

// selectComponent is a branchless conditional selection helper.
func selectComponent(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}

// GetFrustum returns the current view frustum from the camera.
func (c *Camera) GetFrustum() Frustum {
	return NewFrustumFromMatrix(c.ViewProjectionMatrix())
}
