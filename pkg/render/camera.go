package render

import (
	"math"

	"github.com/taigrr/rastertile/pkg/math3d"
)

const maxPitch = 1.5 // radians

// Camera holds the renderer's view state. Its rotation is expressed as
// yaw/pitch rather than a free quaternion or Euler triple: rotationMatrix is
// rebuilt from the two angles every time either changes, matching the
// pipeline's transform-assembly stage.
type Camera struct {
	Position math3d.Vec3
	FOV      float64 // degrees
	Near     float64
	Far      float64
	Aspect   float64 // height/width, per the pipeline's projection convention

	yaw, pitch     float64
	rotationMatrix math3d.Mat4
}

// NewCamera creates a camera at the origin with a sane default lens.
func NewCamera() *Camera {
	c := &Camera{
		Position: math3d.Zero3(),
		FOV:      60,
		Near:     0.1,
		Far:      1000,
		Aspect:   1,
	}
	c.rebuildRotation()
	return c
}

// SetYawPitch sets the camera's orientation, clamping pitch to ±1.5 rad and
// rebuilding the cached rotation matrix.
func (c *Camera) SetYawPitch(yaw, pitch float64) {
	c.yaw = yaw
	c.pitch = math.Max(-maxPitch, math.Min(maxPitch, pitch))
	c.rebuildRotation()
}

// Rotate adds to yaw/pitch (e.g. from a mouse-drag delta) and rebuilds the
// rotation matrix, clamping pitch as SetYawPitch does.
func (c *Camera) Rotate(deltaYaw, deltaPitch float64) {
	c.SetYawPitch(c.yaw+deltaYaw, c.pitch+deltaPitch)
}

// Yaw returns the current yaw in radians.
func (c *Camera) Yaw() float64 { return c.yaw }

// Pitch returns the current pitch in radians.
func (c *Camera) Pitch() float64 { return c.pitch }

// RotationMatrix returns the cached rotationMatrix = rotX(pitch) * rotY(yaw).
func (c *Camera) RotationMatrix() math3d.Mat4 {
	return c.rotationMatrix
}

func (c *Camera) rebuildRotation() {
	c.rotationMatrix = math3d.RotateX(c.pitch).Mul(math3d.RotateY(c.yaw))
}

// ViewMatrix builds translate(-position) * transpose(rotationMatrix). The
// rotation matrix is orthonormal, so its transpose is its inverse — no
// general matrix inversion is needed for the view transform.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	return math3d.Translate(c.Position.Negate()).Mul(c.rotationMatrix.Transpose())
}

// ProjectionMatrix builds the pipeline's projection matrix from FOV/aspect/
// near/far.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	return math3d.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
}

// ViewProjectionMatrix returns ViewMatrix() * ProjectionMatrix().
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	return c.ViewMatrix().Mul(c.ProjectionMatrix())
}

// Forward, Right, and Up return the camera's local axes in world space,
// read off the rows of the rotation matrix. These back the illustrative
// WASD host bindings described in the external-interfaces section; they are
// not used by the core pipeline.
func (c *Camera) Forward() math3d.Vec3 {
	return math3d.V3(c.rotationMatrix.Get(2, 0), c.rotationMatrix.Get(2, 1), c.rotationMatrix.Get(2, 2))
}

func (c *Camera) Right() math3d.Vec3 {
	return math3d.V3(c.rotationMatrix.Get(0, 0), c.rotationMatrix.Get(0, 1), c.rotationMatrix.Get(0, 2))
}

func (c *Camera) Up() math3d.Vec3 {
	return math3d.V3(c.rotationMatrix.Get(1, 0), c.rotationMatrix.Get(1, 1), c.rotationMatrix.Get(1, 2))
}

// MoveLocal translates the camera along its own local axes by (right, up,
// forward) amounts.
func (c *Camera) MoveLocal(right, up, forward float64) {
	c.Position = c.Position.
		Add(c.Right().Scale(right)).
		Add(c.Up().Scale(up)).
		Add(c.Forward().Scale(forward))
}
