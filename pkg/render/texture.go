package render

import (
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"math"
	"os"
)

// Texture holds a 2D RGBA8 image for texture mapping. Sampling always
// wraps U and V by repeating; there is no clamp mode and no mipmapping —
// the pipeline has exactly one sampling policy, not a configurable one.
type Texture struct {
	Width  int
	Height int
	Pixels []Color // row-major
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// LoadTexture loads a texture from an image file. Image-file decoding is an
// external collaborator's concern, not the core's — this exists for the
// demo binary and for tests, not for anything the rasterizer itself calls.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture: %w", err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage creates a texture from a decoded image.Image.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	tex := NewTexture(width, height)

	for y := range height {
		for x := range width {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			tex.SetPixel(x, y, Color{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
				A: uint8(a >> 8),
			})
		}
	}
	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture, handy for
// tests and the demo's fallback when no texture file is given.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// SetPixel sets a pixel in the texture, bounds-checked.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the pixel at (x, y), or transparent black out of bounds.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample does a wrap-repeat, nearest-neighbor lookup at (u, v).
func (t *Texture) Sample(u, v float64) Color {
	if len(t.Pixels) == 0 {
		return ColorWhite
	}
	u = frac(u)
	v = 1.0 - frac(v)

	x := clampInt(int(u*float64(t.Width-1)), 0, t.Width-1)
	y := clampInt(int(v*float64(t.Height-1)), 0, t.Height-1)
	return t.GetPixel(x, y)
}

// SampleBilinear does a wrap-repeat, bilinearly filtered lookup at (u, v).
func (t *Texture) SampleBilinear(u, v float64) Color {
	if len(t.Pixels) == 0 {
		return ColorWhite
	}
	u = frac(u)
	v = 1.0 - frac(v)

	fx := u * float64(t.Width-1)
	fy := v * float64(t.Height-1)

	x0 := int(fx)
	y0 := int(fy)
	x1 := min(x0+1, t.Width-1)
	y1 := min(y0+1, t.Height-1)

	tx := fx - float64(x0)
	ty := fy - float64(y0)

	c00 := t.GetPixel(x0, y0)
	c10 := t.GetPixel(x1, y0)
	c01 := t.GetPixel(x0, y1)
	c11 := t.GetPixel(x1, y1)

	top := lerpColor(c00, c10, tx)
	bot := lerpColor(c01, c11, tx)
	return lerpColor(top, bot, ty)
}

// frac wraps a coordinate into [0,1) by repeating.
func frac(coord float64) float64 {
	return coord - math.Floor(coord)
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func lerpColor(a, b Color, t float64) Color {
	return Color{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: 255,
	}
}

// MultiplyColor scales a color's RGB channels by intensity, used to apply a
// lighting term to a sampled or flat object color.
func MultiplyColor(c Color, intensity float64) Color {
	return Color{
		R: uint8(math.Min(255, float64(c.R)*intensity)),
		G: uint8(math.Min(255, float64(c.G)*intensity)),
		B: uint8(math.Min(255, float64(c.B)*intensity)),
		A: c.A,
	}
}
