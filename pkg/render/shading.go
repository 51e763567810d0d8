package render

import "github.com/taigrr/rastertile/pkg/math3d"

// ShadingMode selects how a triangle's fragment color is lit.
type ShadingMode int

const (
	// ShadingPhong computes lighting per pixel from the interpolated normal.
	ShadingPhong ShadingMode = iota
	// ShadingGouraud interpolates lighting computed once per vertex.
	ShadingGouraud
	// ShadingFlat uses one lighting value for the whole triangle, computed
	// from its face normal and centroid.
	ShadingFlat
	// ShadingCel quantizes per-pixel lighting into toon bands with a rim
	// darkening pass.
	ShadingCel
	// ShadingUnlit skips lighting entirely and returns the sampled color.
	ShadingUnlit
)

// String names a shading mode, matching the labels the demo HUD displays.
func (m ShadingMode) String() string {
	switch m {
	case ShadingPhong:
		return "Phong"
	case ShadingGouraud:
		return "Gouraud"
	case ShadingFlat:
		return "Flat"
	case ShadingCel:
		return "Cel/Toon"
	case ShadingUnlit:
		return "Unlit"
	default:
		return "Unknown"
	}
}

// lightDir is the scene's single hardcoded directional light, normalized.
var lightDir = math3d.V3(0.5, 0.4, 1.0).Normalize()

// computeLightIntensity is the shared Phong-ish lighting formula: ambient
// plus half-weighted diffuse and specular terms, clamped to [0,1].
func computeLightIntensity(normal, worldPos, cameraPos math3d.Vec3) float64 {
	viewDir := cameraPos.Sub(worldPos).Normalize()

	const ambient = 0.1
	diff := max(0, normal.Dot(lightDir.Scale(-1)))

	refl := lightDir.Reflect(normal)
	specular := pow16(max(0, viewDir.Dot(refl)))

	intensity := ambient + diff*0.5 + specular*0.5
	return min(1, intensity)
}

// pow16 raises x to the 16th power by repeated squaring, matching the
// fixed specular exponent the shading formulas use throughout.
func pow16(x float64) float64 {
	x2 := x * x
	x4 := x2 * x2
	x8 := x4 * x4
	return x8 * x8
}

// fragmentInput carries everything the fragment shader needs for one pixel:
// perspective-correct interpolated varyings plus the flat/Gouraud values
// precomputed at triangle setup.
type fragmentInput struct {
	worldPos       math3d.Vec3
	normal         math3d.Vec3
	uv             math3d.Vec2
	lightIntensity float64 // Gouraud-interpolated, valid only in that mode

	faceNormal    math3d.Vec3 // flat shading
	flatIntensity float64     // flat shading
}

// shadeFragment dispatches to the active shading mode and returns the lit
// object color, clamped to [0,1] intensity.
func shadeFragment(mode ShadingMode, in fragmentInput, objectColor Color, cameraPos math3d.Vec3) Color {
	if mode == ShadingUnlit {
		return objectColor
	}

	var intensity float64
	switch mode {
	case ShadingFlat:
		intensity = in.flatIntensity

	case ShadingGouraud:
		intensity = in.lightIntensity

	case ShadingCel:
		raw := computeLightIntensity(in.normal, in.worldPos, cameraPos)
		switch {
		case raw > 0.9:
			intensity = 1.0
		case raw > 0.5:
			intensity = 0.7
		case raw > 0.25:
			intensity = 0.4
		default:
			intensity = 0.2
		}

		viewDir := cameraPos.Sub(in.worldPos).Normalize()
		rim := 1.0 - max(0, in.normal.Dot(viewDir))
		if rim > 0.7 {
			intensity *= 0.3
		}

	case ShadingPhong:
		fallthrough
	default:
		intensity = computeLightIntensity(in.normal, in.worldPos, cameraPos)
	}

	intensity = max(0, min(1, intensity))
	return MultiplyColor(objectColor, intensity)
}
