// Package render provides the tile-parallel software rasterizer: vertex
// transforms, homogeneous clipping, triangle setup and binning, and
// depth-tested fragment shading, dispatched across a worker pool one tile
// at a time.
package render

import (
	"math"

	"github.com/taigrr/rastertile/pkg/math3d"
	"github.com/taigrr/rastertile/pkg/scene"
)

// screenVertex is a vertex after the perspective divide: screen-space x/y,
// post-divide depth, and every varying pre-multiplied by invW so it can be
// perspective-correctly reconstructed from barycentric weights alone.
type screenVertex struct {
	position math3d.Vec3 // x, y in screen space; z is post-divide depth
	invW     float64

	worldPos math3d.Vec3
	normal   math3d.Vec3
	uv       math3d.Vec2

	lightIntensity float64 // Gouraud only; pre-multiplied by invW
}

// triangleData is one triangle's worth of setup state, referenced by index
// from every tile it overlaps.
type triangleData struct {
	v0, v1, v2 screenVertex
	area       float64

	minX, minY, maxX, maxY int

	texture       *Texture
	faceNormal    math3d.Vec3
	flatIntensity float64
}

// Renderer is the tile-parallel software rasterizer: one per target
// Framebuffer, reused frame after frame so its thread pool and tile grid
// aren't rebuilt on every DrawMesh call.
type Renderer struct {
	camera *Camera
	fb     *Framebuffer

	pool  *ThreadPool
	tiles *tileGrid

	shadingMode ShadingMode

	// FrustumCullEnabled gates the optional whole-mesh AABB-vs-frustum
	// broad-phase pre-filter in DrawMesh. Off by default: it never changes
	// final pixel output, only whether a fully-offscreen mesh's per-triangle
	// pipeline runs at all.
	FrustumCullEnabled bool

	// triangles is the per-draw scratch buffer; each DrawMesh call resets it
	// to length zero without releasing its backing array, then appends to it.
	triangles []triangleData
}

// NewRenderer creates a renderer targeting fb from camera's point of view,
// with a default 64px tile size and a thread pool sized to the host.
func NewRenderer(camera *Camera, fb *Framebuffer) *Renderer {
	r := &Renderer{
		camera: camera,
		fb:     fb,
		pool:   NewThreadPool(),
	}
	r.tiles = newTileGrid(fb.Width, fb.Height, defaultTileSize)
	return r
}

// SetTileSize changes the tile grid's tile edge length and rebuilds it.
func (r *Renderer) SetTileSize(size int) {
	r.tiles.resize(size)
}

// SetShadingMode selects which lighting model shadeFragment uses.
func (r *Renderer) SetShadingMode(mode ShadingMode) {
	r.shadingMode = mode
}

// ShadingMode returns the active shading mode.
func (r *Renderer) ShadingMode() ShadingMode {
	return r.shadingMode
}

// GetShadingModeName names the active shading mode, for HUD display.
func (r *Renderer) GetShadingModeName() string {
	return r.shadingMode.String()
}

// GetThreadCount returns the renderer's worker-pool size.
func (r *Renderer) GetThreadCount() int {
	return r.pool.ThreadCount()
}

// Close stops the renderer's thread pool. Call it when the renderer is no
// longer needed.
func (r *Renderer) Close() {
	r.pool.Stop()
}

// Clear resets the framebuffer to c with depth +Inf, splitting the work
// into GetThreadCount() roughly-equal pixel ranges across the pool.
func (r *Renderer) Clear(c Color) {
	total := r.fb.Width * r.fb.Height
	if total == 0 {
		return
	}
	n := r.pool.ThreadCount()
	chunk := (total + n - 1) / n

	for t := range n {
		start := t * chunk
		if start >= total {
			break
		}
		end := min(start+chunk, total)
		r.pool.Enqueue(func() {
			r.fb.ClearRange(start, end, c)
		})
	}
	r.pool.WaitAll()
}

// DrawMesh runs the full pipeline for one object: vertex shading,
// world-space back-face culling, homogeneous clipping, triangle setup and
// tile binning, then tile-parallel rasterization.
func (r *Renderer) DrawMesh(obj *Object) {
	mesh := obj.Mesh
	if mesh == nil || len(mesh.Vertices) == 0 {
		return
	}

	matWorld := obj.Transform.WorldMatrix()

	if r.FrustumCullEnabled {
		worldBounds := AABB{Min: mesh.BoundsMin, Max: mesh.BoundsMax}.Transform(matWorld)
		if !r.camera.GetFrustum().IntersectAABB(worldBounds) {
			return
		}
	}
	matNormal := obj.Transform.NormalMatrix()
	matMVP := matWorld.Mul(r.camera.ViewProjectionMatrix())

	processed := make([]vsOutput, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		processed[i] = r.vertexShader(v, matMVP, matWorld, matNormal)
	}

	r.tiles.clear()
	r.triangles = r.triangles[:0]

	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		vs0 := processed[mesh.Indices[i]]
		vs1 := processed[mesh.Indices[i+1]]
		vs2 := processed[mesh.Indices[i+2]]

		toCamera := r.camera.Position.Sub(vs0.worldPos)
		if vs0.normal.Dot(toCamera) <= 0 {
			continue
		}

		polygon := clipTriangle(vs0, vs1, vs2)
		if len(polygon) < 3 {
			continue
		}

		edge1 := polygon[1].worldPos.Sub(polygon[0].worldPos)
		edge2 := polygon[2].worldPos.Sub(polygon[0].worldPos)
		faceNormal := edge1.Cross(edge2).Normalize()

		centroid := polygon[0].worldPos.Add(polygon[1].worldPos).Add(polygon[2].worldPos).Scale(1.0 / 3.0)
		flatIntensity := computeLightIntensity(faceNormal, centroid, r.camera.Position)

		sv0 := r.perspectiveDivide(polygon[0])
		sv0.lightIntensity = computeLightIntensity(polygon[0].normal, polygon[0].worldPos, r.camera.Position) * sv0.invW

		for j := 1; j < len(polygon)-1; j++ {
			sv1 := r.perspectiveDivide(polygon[j])
			sv2 := r.perspectiveDivide(polygon[j+1])

			sv1.lightIntensity = computeLightIntensity(polygon[j].normal, polygon[j].worldPos, r.camera.Position) * sv1.invW
			sv2.lightIntensity = computeLightIntensity(polygon[j+1].normal, polygon[j+1].worldPos, r.camera.Position) * sv2.invW

			tri := triangleData{
				v0: sv0, v1: sv1, v2: sv2,
				area:          edgeFunction(sv0.position, sv1.position, sv2.position),
				texture:       obj.Texture,
				faceNormal:    faceNormal,
				flatIntensity: flatIntensity,
			}
			if math.Abs(tri.area) < 0.001 {
				continue
			}

			tri.minX = max(0, int(math.Floor(min3(sv0.position.X, sv1.position.X, sv2.position.X))))
			tri.minY = max(0, int(math.Floor(min3(sv0.position.Y, sv1.position.Y, sv2.position.Y))))
			tri.maxX = min(r.fb.Width-1, int(math.Ceil(max3(sv0.position.X, sv1.position.X, sv2.position.X))))
			tri.maxY = min(r.fb.Height-1, int(math.Ceil(max3(sv0.position.Y, sv1.position.Y, sv2.position.Y))))
			if tri.minX > tri.maxX || tri.minY > tri.maxY {
				continue
			}

			triIndex := len(r.triangles)
			r.triangles = append(r.triangles, tri)
			r.tiles.bin(triIndex, tri.minX, tri.minY, tri.maxX, tri.maxY)
		}
	}

	for i := range r.tiles.tiles {
		t := &r.tiles.tiles[i]
		if len(t.triangleIndices) == 0 {
			continue
		}
		r.pool.Enqueue(func() {
			r.rasterizeTile(t)
		})
	}
	r.pool.WaitAll()
}

func (r *Renderer) vertexShader(v scene.Vertex, mvp, world, normalMat math3d.Mat4) vsOutput {
	return vsOutput{
		position: mvp.MulVec4(math3d.V4FromV3(v.Position, 1)),
		worldPos: world.MulVec3(v.Position),
		normal:   normalMat.MulVec3Dir(v.Normal).Normalize(),
		uv:       v.UV,
	}
}

// perspectiveDivide maps a clip-space vsOutput to screen space and
// pre-multiplies its varyings by invW for hyperbolic interpolation.
func (r *Renderer) perspectiveDivide(in vsOutput) screenVertex {
	invW := 1.0 / in.position.W
	var out screenVertex
	out.invW = invW
	out.position.X = (in.position.X*invW + 1.0) * 0.5 * float64(r.fb.Width)
	out.position.Y = (in.position.Y*invW + 1.0) * 0.5 * float64(r.fb.Height)
	out.position.Z = in.position.Z * invW

	out.worldPos = in.worldPos.Scale(invW)
	out.normal = in.normal.Scale(invW)
	out.uv = math3d.V2(in.uv.X*invW, in.uv.Y*invW)
	return out
}

// edgeFunction is the signed area (times 2) of the triangle (a, b, p).
func edgeFunction(a, b, p math3d.Vec3) float64 {
	return (p.X-a.X)*(b.Y-a.Y) - (p.Y-a.Y)*(b.X-a.X)
}

func min3(a, b, c float64) float64 { return math.Min(a, math.Min(b, c)) }
func max3(a, b, c float64) float64 { return math.Max(a, math.Max(b, c)) }

// rasterizeTile walks every triangle binned into t and fills its pixels.
func (r *Renderer) rasterizeTile(t *tile) {
	for _, triIdx := range t.triangleIndices {
		r.rasterizeTriangleInTile(&r.triangles[triIdx], t)
	}
}

// rasterizeTriangleInTile scans the intersection of the triangle's AABB
// and the tile's bounds, testing each pixel's barycentric weights.
//
// Both all-non-negative and all-non-positive edge-function signs pass the
// inside test: triangles are culled by their world-space normal before
// clipping, not by screen-space winding, so a triangle can legitimately
// rasterize with either winding here. This is intentional, not a bug.
func (r *Renderer) rasterizeTriangleInTile(tri *triangleData, t *tile) {
	minX := max(tri.minX, t.startX)
	minY := max(tri.minY, t.startY)
	maxX := min(tri.maxX, t.endX-1)
	maxY := min(tri.maxY, t.endY-1)

	v0, v1, v2 := &tri.v0, &tri.v1, &tri.v2
	area := tri.area
	if area == 0 {
		return
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := math3d.V3(float64(x), float64(y), 0)

			w0 := edgeFunction(v1.position, v2.position, p)
			w1 := edgeFunction(v2.position, v0.position, p)
			w2 := edgeFunction(v0.position, v1.position, p)

			inside := (w0 >= 0 && w1 >= 0 && w2 >= 0) || (w0 <= 0 && w1 <= 0 && w2 <= 0)
			if !inside {
				continue
			}

			lambda0 := w0 / area
			lambda1 := w1 / area
			lambda2 := w2 / area

			z := lambda0*v0.position.Z + lambda1*v1.position.Z + lambda2*v2.position.Z

			index := y*r.fb.Width + x
			if z >= r.fb.Depth[index] {
				continue
			}
			r.fb.Depth[index] = z

			pixelInvW := lambda0*v0.invW + lambda1*v1.invW + lambda2*v2.invW
			pixelW := 1.0 / pixelInvW

			normal := math3d.V3(
				lambda0*v0.normal.X+lambda1*v1.normal.X+lambda2*v2.normal.X,
				lambda0*v0.normal.Y+lambda1*v1.normal.Y+lambda2*v2.normal.Y,
				lambda0*v0.normal.Z+lambda1*v1.normal.Z+lambda2*v2.normal.Z,
			).Scale(pixelW).Normalize()

			worldPos := math3d.V3(
				lambda0*v0.worldPos.X+lambda1*v1.worldPos.X+lambda2*v2.worldPos.X,
				lambda0*v0.worldPos.Y+lambda1*v1.worldPos.Y+lambda2*v2.worldPos.Y,
				lambda0*v0.worldPos.Z+lambda1*v1.worldPos.Z+lambda2*v2.worldPos.Z,
			).Scale(pixelW)

			uv := math3d.V2(
				(lambda0*v0.uv.X+lambda1*v1.uv.X+lambda2*v2.uv.X)*pixelW,
				(lambda0*v0.uv.Y+lambda1*v1.uv.Y+lambda2*v2.uv.Y)*pixelW,
			)

			lightIntensity := (lambda0*v0.lightIntensity + lambda1*v1.lightIntensity + lambda2*v2.lightIntensity) * pixelW

			var objectColor Color
			if tri.texture != nil && len(tri.texture.Pixels) > 0 {
				objectColor = tri.texture.SampleBilinear(uv.X, uv.Y)
			} else {
				objectColor = ColorWhite
			}

			in := fragmentInput{
				worldPos:       worldPos,
				normal:         normal,
				uv:             uv,
				lightIntensity: lightIntensity,
				faceNormal:     tri.faceNormal,
				flatIntensity:  tri.flatIntensity,
			}
			r.fb.SetPixel(x, y, shadeFragment(r.shadingMode, in, objectColor, r.camera.Position))
		}
	}
}
