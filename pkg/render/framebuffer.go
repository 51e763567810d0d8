package render

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
)

// Framebuffer is a width x height RGBA8 color buffer paired with a parallel
// depth buffer. It uses double vertical resolution by pairing two rows into
// one terminal cell with half-block characters (▀) when presented.
//
// The color and depth arrays are owned by the Framebuffer for its whole
// lifetime; tiles partition both arrays disjointly at rasterization time, so
// no pixel is ever touched by two tiles.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA
	Depth  []float64
}

// NewFramebuffer creates a framebuffer with depth initialized to +Inf.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
		Depth:  make([]float64, width*height),
	}
	for i := range fb.Depth {
		fb.Depth[i] = math.Inf(1)
	}
	return fb
}

// Clear fills the entire framebuffer with c and resets depth to +Inf.
func (fb *Framebuffer) Clear(c color.RGBA) {
	fb.ClearRange(0, len(fb.Pixels), c)
}

// ClearRange resets pixels [start, end) to c and their depth to +Inf. It is
// the unit of work the renderer dispatches to the thread pool when clearing
// a frame.
func (fb *Framebuffer) ClearRange(start, end int, c color.RGBA) {
	for i := start; i < end; i++ {
		fb.Pixels[i] = c
		fb.Depth[i] = math.Inf(1)
	}
}

// SetPixel sets a pixel at (x, y) to the given color. Bounds checking is
// performed; out-of-range writes are silently dropped.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y), or transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DepthAt returns the depth value at (x, y), or +Inf if out of bounds.
func (fb *Framebuffer) DepthAt(x, y int) float64 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return math.Inf(1)
	}
	return fb.Depth[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's
// algorithm, writing color only (no depth test) — used by debug overlays,
// not the tile rasterizer.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the framebuffer's color plane to a standard Go image.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// SavePNG saves the framebuffer's color plane as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, fb.ToImage())
}
