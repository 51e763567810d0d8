package render

import (
	"math/rand"
	"testing"

	"github.com/taigrr/rastertile/pkg/math3d"
	"github.com/taigrr/rastertile/pkg/scene"
)

// BenchmarkFrustumExtract benchmarks frustum plane extraction from a
// view-projection matrix.
func BenchmarkFrustumExtract(b *testing.B) {
	proj := math3d.Perspective(60, 9.0/16.0, 0.1, 100.0)
	view := math3d.Identity()
	viewProj := view.Mul(proj)

	for b.Loop() {
		_ = NewFrustumFromMatrix(viewProj)
	}
}

// BenchmarkAABBIntersection benchmarks AABB vs frustum intersection for a
// visible box and a culled one.
func BenchmarkAABBIntersection(b *testing.B) {
	proj := math3d.Perspective(60, 9.0/16.0, 0.1, 100.0)
	view := math3d.Identity()
	frustum := NewFrustumFromMatrix(view.Mul(proj))

	visibleBounds := AABB{Min: math3d.V3(-1, -1, 5), Max: math3d.V3(1, 1, 15)}
	culledBounds := AABB{Min: math3d.V3(-1, -1, -15), Max: math3d.V3(1, 1, -5)}

	b.Run("visible", func(b *testing.B) {
		for b.Loop() {
			_ = frustum.IntersectAABB(visibleBounds)
		}
	})

	b.Run("culled", func(b *testing.B) {
		for b.Loop() {
			_ = frustum.IntersectAABB(culledBounds)
		}
	})
}

// BenchmarkAABBTransform benchmarks AABB transformation through a combined
// translate/rotate/scale matrix.
func BenchmarkAABBTransform(b *testing.B) {
	local := AABB{Min: math3d.V3(-1, -1, -1), Max: math3d.V3(1, 1, 1)}
	transform := math3d.ScaleUniform(2).Mul(math3d.RotateY(0.5)).Mul(math3d.Translate(math3d.V3(10, 5, 20)))

	for b.Loop() {
		_ = local.Transform(transform)
	}
}

func cubeMesh() *scene.Mesh {
	m := scene.NewMesh("cube")
	m.Vertices = []scene.Vertex{
		{Position: math3d.V3(-1, -1, 1), Normal: math3d.V3(0, 0, 1)},
		{Position: math3d.V3(1, -1, 1), Normal: math3d.V3(0, 0, 1)},
		{Position: math3d.V3(1, 1, 1), Normal: math3d.V3(0, 0, 1)},
		{Position: math3d.V3(-1, 1, 1), Normal: math3d.V3(0, 0, 1)},
		{Position: math3d.V3(-1, -1, -1), Normal: math3d.V3(0, 0, -1)},
		{Position: math3d.V3(1, -1, -1), Normal: math3d.V3(0, 0, -1)},
		{Position: math3d.V3(1, 1, -1), Normal: math3d.V3(0, 0, -1)},
		{Position: math3d.V3(-1, 1, -1), Normal: math3d.V3(0, 0, -1)},
	}
	m.Indices = []int{
		0, 1, 2, 0, 2, 3, // front
		5, 4, 7, 5, 7, 6, // back
		4, 0, 3, 4, 3, 7, // left
		1, 5, 6, 1, 6, 2, // right
		3, 2, 6, 3, 6, 7, // top
		4, 5, 1, 4, 1, 0, // bottom
	}
	m.CalculateBounds()
	return m
}

// BenchmarkDrawMeshWithCulling measures DrawMesh's cost across a batch of
// objects half of which sit outside the camera's frustum, with the
// whole-mesh AABB pre-filter enabled versus disabled.
func BenchmarkDrawMeshWithCulling(b *testing.B) {
	fb := NewFramebuffer(160, 120)
	cam := NewCamera()
	cam.Position = math3d.V3(0, 0, -30)
	cam.Aspect = float64(fb.Height) / float64(fb.Width)

	mesh := cubeMesh()

	rng := rand.New(rand.NewSource(42))
	const objectCount = 100
	objects := make([]*Object, objectCount)
	for i := range objects {
		obj := NewObject(mesh)
		var z float64
		if i%2 == 0 {
			z = rng.Float64()*30 + 10 // in front of the camera
		} else {
			z = -rng.Float64()*30 - 40 // behind the camera
		}
		obj.Transform.Position = math3d.V3(rng.Float64()*40-20, rng.Float64()*10, z)
		objects[i] = obj
	}

	b.Run("culling_enabled", func(b *testing.B) {
		r := NewRenderer(cam, fb)
		defer r.Close()
		r.FrustumCullEnabled = true
		for b.Loop() {
			r.Clear(ColorBlack)
			for _, obj := range objects {
				r.DrawMesh(obj)
			}
		}
	})

	b.Run("culling_disabled", func(b *testing.B) {
		r := NewRenderer(cam, fb)
		defer r.Close()
		for b.Loop() {
			r.Clear(ColorBlack)
			for _, obj := range objects {
				r.DrawMesh(obj)
			}
		}
	})
}
