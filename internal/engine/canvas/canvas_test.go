package canvas

import (
	"image/color"
	"testing"
)

var (
	red   = color.RGBA{255, 0, 0, 255}
	black = color.RGBA{0, 0, 0, 255}
)

func TestNew(t *testing.T) {
	c := New(8, 4)
	if w, h := c.Size(); w != 8 || h != 4 {
		t.Fatalf("expected 8x4, got %dx%d", w, h)
	}
	if len(c.Pixels()) != 8*4*4 {
		t.Errorf("expected %d bytes, got %d", 8*4*4, len(c.Pixels()))
	}
}

func TestFillRect_Clipping(t *testing.T) {
	tests := []struct {
		name       string
		x, y, w, h int
		want       int // painted pixels
	}{
		{"inside", 1, 1, 2, 2, 4},
		{"overlaps left", -2, 0, 3, 1, 1},
		{"overlaps bottom right", 9, 9, 5, 5, 1},
		{"fully outside", 20, 20, 2, 2, 0},
		{"negative size", 2, 2, -1, 3, 0},
		{"whole surface", 0, 0, 10, 10, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(10, 10)
			c.FillRect(tt.x, tt.y, tt.w, tt.h, red)

			got := 0
			for y := 0; y < 10; y++ {
				for x := 0; x < 10; x++ {
					if c.At(x, y) == red {
						got++
					}
				}
			}
			if got != tt.want {
				t.Errorf("expected %d painted pixels, got %d", tt.want, got)
			}
		})
	}
}

func TestDrawLine(t *testing.T) {
	c := New(10, 10)
	c.DrawLine(0, 0, 9, 9, red)
	for i := 0; i < 10; i++ {
		if c.At(i, i) != red {
			t.Errorf("diagonal pixel (%d,%d) not drawn", i, i)
		}
	}

	c = New(10, 10)
	c.DrawLine(7, 3, 2, 3, red)
	for x := 2; x <= 7; x++ {
		if c.At(x, 3) != red {
			t.Errorf("horizontal pixel (%d,3) not drawn", x)
		}
	}
	if c.At(1, 3) == red || c.At(8, 3) == red {
		t.Error("line drawn past its endpoints")
	}

	// Off-surface endpoints must not panic.
	c.DrawLine(-5, -5, 15, 15, red)
}

func TestVerticalGradient(t *testing.T) {
	c := New(2, 4)
	c.VerticalGradient(0, 4, color.RGBA{128, 128, 128, 255}, black)

	want := []uint8{128, 96, 64, 32}
	for y, v := range want {
		for x := 0; x < 2; x++ {
			got := c.At(x, y)
			if got.R != v || got.G != v || got.B != v || got.A != 255 {
				t.Errorf("row %d: expected %d, got %+v", y, v, got)
			}
		}
	}
}
