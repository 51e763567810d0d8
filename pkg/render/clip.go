package render

import "github.com/taigrr/rastertile/pkg/math3d"

// vsOutput is a vertex after the vertex shader: clip-space position plus
// the varyings carried through to the fragment stage.
type vsOutput struct {
	position math3d.Vec4

	worldPos math3d.Vec3
	normal   math3d.Vec3
	uv       math3d.Vec2
}

// planeDistance returns the signed distance of a clip-space position to one
// of the frustum's six planes. Non-negative means inside.
func planeDistance(v math3d.Vec4, plane int) float64 {
	switch plane {
	case 0:
		return v.X + v.W
	case 1:
		return v.W - v.X
	case 2:
		return v.Y + v.W
	case 3:
		return v.W - v.Y
	case 4:
		return v.Z
	case 5:
		return v.W - v.Z
	default:
		return 0
	}
}

func lerpVSOutput(a, b vsOutput, t float64) vsOutput {
	return vsOutput{
		position: math3d.V4(
			a.position.X+t*(b.position.X-a.position.X),
			a.position.Y+t*(b.position.Y-a.position.Y),
			a.position.Z+t*(b.position.Z-a.position.Z),
			a.position.W+t*(b.position.W-a.position.W),
		),
		worldPos: a.worldPos.Lerp(b.worldPos, t),
		normal:   a.normal.Lerp(b.normal, t),
		uv:       a.uv.Lerp(b.uv, t),
	}
}

// clipAgainstPlane runs one Sutherland-Hodgman pass of a polygon against a
// single clip plane.
func clipAgainstPlane(polygon []vsOutput, plane int) []vsOutput {
	if len(polygon) == 0 {
		return nil
	}
	output := make([]vsOutput, 0, len(polygon)+1)

	for i := range polygon {
		current := polygon[i]
		next := polygon[(i+1)%len(polygon)]

		currentDist := planeDistance(current.position, plane)
		nextDist := planeDistance(next.position, plane)

		currentInside := currentDist >= 0
		nextInside := nextDist >= 0

		if currentInside {
			output = append(output, current)
			if !nextInside {
				t := currentDist / (currentDist - nextDist)
				output = append(output, lerpVSOutput(current, next, t))
			}
		} else if nextInside {
			t := currentDist / (currentDist - nextDist)
			output = append(output, lerpVSOutput(current, next, t))
		}
	}

	return output
}

// clipTriangle clips a triangle against all six frustum planes in clip
// space, returning the (possibly empty, possibly >3-vertex) surviving
// convex polygon. Callers fan-triangulate the result.
func clipTriangle(v0, v1, v2 vsOutput) []vsOutput {
	polygon := []vsOutput{v0, v1, v2}
	for plane := range 6 {
		polygon = clipAgainstPlane(polygon, plane)
		if len(polygon) == 0 {
			break
		}
	}
	return polygon
}
