package render

import (
	"github.com/taigrr/rastertile/pkg/math3d"
	"github.com/taigrr/rastertile/pkg/scene"
)

// Transform is a position/rotation/scale triple with no parent-child
// hierarchy: every object's world matrix is computed directly from its own
// fields, the way the pipeline's transform-assembly stage expects.
type Transform struct {
	Position math3d.Vec3
	Rotation math3d.Vec3 // Euler angles in radians: X, Y, Z
	Scale    math3d.Vec3
}

// NewTransform returns an identity transform: no translation or rotation,
// unit scale.
func NewTransform() Transform {
	return Transform{Scale: math3d.V3(1, 1, 1)}
}

// WorldMatrix assembles scale * rotZ * rotX * rotY * translate, the fixed
// composition order the pipeline's transform stage uses.
func (t Transform) WorldMatrix() math3d.Mat4 {
	matScale := math3d.Scale(t.Scale)
	matRotZ := math3d.RotateZ(t.Rotation.Z)
	matRotX := math3d.RotateX(t.Rotation.X)
	matRotY := math3d.RotateY(t.Rotation.Y)
	matTrans := math3d.Translate(t.Position)

	world := matScale.Mul(matRotZ)
	world = world.Mul(matRotX)
	world = world.Mul(matRotY)
	world = world.Mul(matTrans)
	return world
}

// NormalMatrix returns the inverse-transpose of the world matrix's upper
// 3x3, used to transform normals so that non-uniform scale doesn't skew
// them.
func (t Transform) NormalMatrix() math3d.Mat4 {
	return t.WorldMatrix().InverseTranspose3x3()
}

// Object binds a Mesh, its Transform, and its Texture into the single unit
// DrawMesh consumes. Mesh is pure geometry and lives in package scene,
// which never imports render; Object lives here, in render, precisely
// because it needs to depend on both scene.Mesh and render.Texture without
// creating an import cycle.
type Object struct {
	Mesh      *scene.Mesh
	Transform Transform
	Texture   *Texture
}

// NewObject wraps a mesh with an identity transform and no texture.
func NewObject(mesh *scene.Mesh) *Object {
	return &Object{Mesh: mesh, Transform: NewTransform()}
}
