package render

import (
	"testing"

	"github.com/taigrr/rastertile/pkg/math3d"
)

func TestShadingModeString(t *testing.T) {
	cases := []struct {
		mode ShadingMode
		want string
	}{
		{ShadingPhong, "Phong"},
		{ShadingGouraud, "Gouraud"},
		{ShadingFlat, "Flat"},
		{ShadingCel, "Cel/Toon"},
		{ShadingUnlit, "Unlit"},
	}
	for _, c := range cases {
		t.Run(c.want, func(t *testing.T) {
			if got := c.mode.String(); got != c.want {
				t.Errorf("String() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestComputeLightIntensityIsClamped(t *testing.T) {
	cameraPos := math3d.V3(0, 0, 5)
	worldPos := math3d.Zero3()

	cases := []struct {
		name   string
		normal math3d.Vec3
	}{
		{"aligned with light rays", math3d.V3(0.5, 0.4, 1.0).Normalize()},
		{"opposite the light rays", math3d.V3(-0.5, -0.4, -1.0).Normalize()},
		{"perpendicular", math3d.V3(1, 0, 0)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := computeLightIntensity(c.normal, worldPos, cameraPos)
			if got < 0 || got > 1 {
				t.Errorf("computeLightIntensity = %v, want in [0,1]", got)
			}
		})
	}
}

func TestComputeLightIntensityHasAmbientFloor(t *testing.T) {
	cameraPos := math3d.V3(0, 0, 5)
	worldPos := math3d.Zero3()
	// A normal pointed the same direction as the light rays receives zero
	// diffuse and (from this camera angle) zero specular, so only the
	// ambient term remains.
	normal := math3d.V3(0.5, 0.4, 1.0).Normalize()

	got := computeLightIntensity(normal, worldPos, cameraPos)
	if diff := got - 0.1; diff < -1e-9 || diff > 1e-9 {
		t.Errorf("computeLightIntensity = %v, want exactly the 0.1 ambient floor", got)
	}
}

func TestShadeFragmentUnlitIgnoresLighting(t *testing.T) {
	objectColor := RGB(128, 64, 32)
	in := fragmentInput{
		normal:   math3d.V3(-1, -1, -1).Normalize(),
		worldPos: math3d.Zero3(),
	}
	got := shadeFragment(ShadingUnlit, in, objectColor, math3d.V3(0, 0, 5))
	if got != objectColor {
		t.Errorf("shadeFragment(Unlit) = %v, want unchanged %v", got, objectColor)
	}
}

func TestShadeFragmentFlatUsesPrecomputedIntensity(t *testing.T) {
	objectColor := RGB(200, 200, 200)
	in := fragmentInput{flatIntensity: 0.5}
	got := shadeFragment(ShadingFlat, in, objectColor, math3d.V3(0, 0, 5))
	want := MultiplyColor(objectColor, 0.5)
	if got != want {
		t.Errorf("shadeFragment(Flat) = %v, want %v", got, want)
	}
}

func TestShadeFragmentGouraudUsesInterpolatedIntensity(t *testing.T) {
	objectColor := RGB(100, 100, 100)
	in := fragmentInput{lightIntensity: 0.25}
	got := shadeFragment(ShadingGouraud, in, objectColor, math3d.V3(0, 0, 5))
	want := MultiplyColor(objectColor, 0.25)
	if got != want {
		t.Errorf("shadeFragment(Gouraud) = %v, want %v", got, want)
	}
}

func TestShadeFragmentCelQuantizesIntensity(t *testing.T) {
	objectColor := RGB(255, 255, 255)
	cameraPos := math3d.V3(0, 0, 5)
	// Normal pointed straight at the camera, face-on: not a glancing view
	// angle, so rim darkening doesn't fire and the ambient-only band (0.2)
	// survives unmultiplied by the rim factor.
	in := fragmentInput{
		normal:   math3d.V3(0, 0, 1),
		worldPos: math3d.Zero3(),
	}
	got := shadeFragment(ShadingCel, in, objectColor, cameraPos)
	if got.R == 0 {
		t.Errorf("shadeFragment(Cel) produced black for a face-on normal: %v", got)
	}
}
