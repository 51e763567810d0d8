package render

import (
	"github.com/taigrr/rastertile/pkg/math3d"
)

// Wireframe draws debug line overlays directly into a Framebuffer's color
// plane, bypassing the tile rasterizer entirely. It never touches the depth
// buffer, so it cannot affect DrawMesh's Z-buffer invariants; it exists for
// inspecting a scene (axes, bounding boxes), not for production triangle
// rendering.
type Wireframe struct {
	camera *Camera
	fb     *Framebuffer
}

// NewWireframe creates a wireframe overlay drawing into fb from camera's
// point of view.
func NewWireframe(camera *Camera, fb *Framebuffer) *Wireframe {
	return &Wireframe{camera: camera, fb: fb}
}

// worldToScreen runs a world-space point through the camera's
// view-projection matrix and the same perspective-divide/viewport mapping
// DrawMesh uses, returning pixel coordinates and whether w was positive
// (i.e. the point is in front of the camera, not just inside the frustum).
func (w *Wireframe) worldToScreen(p math3d.Vec3) (x, y float64, visible bool) {
	clip := w.camera.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(p, 1))
	if clip.W <= 0 {
		return 0, 0, false
	}
	invW := 1.0 / clip.W
	x = (clip.X*invW + 1.0) * 0.5 * float64(w.fb.Width)
	y = (clip.Y*invW + 1.0) * 0.5 * float64(w.fb.Height)
	return x, y, true
}

// DrawLine3D draws a line between two world-space points. A line with
// either endpoint behind the camera is skipped outright rather than
// properly clipped — this overlay is a debug aid, not the core pipeline,
// and section 4.3's near-plane clipping isn't worth duplicating here.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, c Color) {
	x1, y1, vis1 := w.worldToScreen(p1)
	x2, y2, vis2 := w.worldToScreen(p2)
	if !vis1 || !vis2 {
		return
	}
	w.fb.DrawLine(int(x1), int(y1), int(x2), int(y2), c)
}

// aabbEdges lists a box's 12 edges as corner-index pairs, in the same
// corner order DrawAABB builds.
var aabbEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0}, // near face
	{4, 5}, {5, 6}, {6, 7}, {7, 4}, // far face
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // connecting edges
}

// DrawAABB draws a mesh or object's axis-aligned bounding box.
func (w *Wireframe) DrawAABB(box AABB, c Color) {
	center := box.Center()
	half := box.Size().Scale(0.5)
	corners := [8]math3d.Vec3{
		math3d.V3(center.X-half.X, center.Y-half.Y, center.Z-half.Z),
		math3d.V3(center.X+half.X, center.Y-half.Y, center.Z-half.Z),
		math3d.V3(center.X+half.X, center.Y+half.Y, center.Z-half.Z),
		math3d.V3(center.X-half.X, center.Y+half.Y, center.Z-half.Z),
		math3d.V3(center.X-half.X, center.Y-half.Y, center.Z+half.Z),
		math3d.V3(center.X+half.X, center.Y-half.Y, center.Z+half.Z),
		math3d.V3(center.X+half.X, center.Y+half.Y, center.Z+half.Z),
		math3d.V3(center.X-half.X, center.Y+half.Y, center.Z+half.Z),
	}
	for _, edge := range aabbEdges {
		w.DrawLine3D(corners[edge[0]], corners[edge[1]], c)
	}
}

// DrawAxes draws the world-space coordinate axes at the origin: red for X,
// green for Y, blue for Z.
func (w *Wireframe) DrawAxes(length float64) {
	origin := math3d.Zero3()
	w.DrawLine3D(origin, math3d.V3(length, 0, 0), ColorRed)
	w.DrawLine3D(origin, math3d.V3(0, length, 0), ColorGreen)
	w.DrawLine3D(origin, math3d.V3(0, 0, length), ColorBlue)
}
