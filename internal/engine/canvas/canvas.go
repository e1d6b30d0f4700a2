// Package canvas provides the software pixel surface frames are drawn into.
package canvas

import (
	"image"
	"image/color"
	"math"
)

// Canvas is an RGBA pixel surface with clipped drawing primitives.
type Canvas struct {
	img *image.RGBA
}

// New creates a width x height canvas cleared to transparent black.
func New(width, height int) *Canvas {
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Width returns the surface width in pixels.
func (c *Canvas) Width() int { return c.img.Rect.Dx() }

// Height returns the surface height in pixels.
func (c *Canvas) Height() int { return c.img.Rect.Dy() }

// Size returns width and height.
func (c *Canvas) Size() (int, int) { return c.Width(), c.Height() }

// Image exposes the backing image for presenters and screenshots.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Pixels returns the raw RGBA bytes, row-major with Stride 4*Width.
func (c *Canvas) Pixels() []byte { return c.img.Pix }

// At returns the color at (x, y), or transparent black outside the surface.
func (c *Canvas) At(x, y int) color.RGBA {
	return c.img.RGBAAt(x, y)
}

// Set writes one pixel; out-of-range coordinates are ignored.
func (c *Canvas) Set(x, y int, col color.RGBA) {
	c.img.SetRGBA(x, y, col)
}

// FillRect fills the w x h rectangle at (x, y), clipped to the surface.
func (c *Canvas) FillRect(x, y, w, h int, col color.RGBA) {
	r := image.Rect(x, y, x+w, y+h).Intersect(c.img.Rect)
	if r.Empty() {
		return
	}
	for py := r.Min.Y; py < r.Max.Y; py++ {
		row := c.img.Pix[c.img.PixOffset(r.Min.X, py):c.img.PixOffset(r.Max.X, py)]
		for i := 0; i < len(row); i += 4 {
			row[i] = col.R
			row[i+1] = col.G
			row[i+2] = col.B
			row[i+3] = col.A
		}
	}
}

// DrawLine draws a one pixel line from (x0, y0) to (x1, y1) using Bresenham's
// algorithm. Points off the surface are skipped.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.Set(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// DrawLineF rounds float endpoints and draws the line.
func (c *Canvas) DrawLineF(x0, y0, x1, y1 float64, col color.RGBA) {
	c.DrawLine(round(x0), round(y0), round(x1), round(y1), col)
}

// VerticalGradient fills rows [y, y+h) across the full width, interpolating
// each channel from top to bottom as c0 - (c0-c1)*row/h in integer math.
// Alpha is opaque.
func (c *Canvas) VerticalGradient(y, h int, top, bottom color.RGBA) {
	if h <= 0 {
		return
	}
	for cy := 0; cy < h; cy++ {
		c.FillRect(0, y+cy, c.Width(), 1, color.RGBA{
			R: lerp(top.R, bottom.R, cy, h),
			G: lerp(top.G, bottom.G, cy, h),
			B: lerp(top.B, bottom.B, cy, h),
			A: 255,
		})
	}
}

func lerp(c0, c1 uint8, cy, h int) uint8 {
	return uint8(int(c0) - (int(c0)-int(c1))*cy/h)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func round(v float64) int {
	return int(math.Round(v))
}
