package gridmap

import "image/color"

// Palette maps wall materials to their base color.
type Palette map[Material]color.RGBA

// MissingColor is used for wall materials without a palette entry.
var MissingColor = color.RGBA{R: 200, G: 0, B: 200, A: 255}

// DefaultPalette returns the built-in material colors.
func DefaultPalette() Palette {
	return Palette{
		1: {R: 140, G: 200, B: 204, A: 255}, // playful blue
		2: {R: 255, G: 140, B: 140, A: 255}, // cute salmon
		3: {R: 170, G: 210, B: 140, A: 255},
		4: {R: 240, G: 210, B: 130, A: 255},
		5: {R: 190, G: 160, B: 220, A: 255},
		6: {R: 150, G: 150, B: 150, A: 255},
		7: {R: 210, G: 170, B: 120, A: 255},
		8: {R: 120, G: 180, B: 160, A: 255},
		9: {R: 230, G: 230, B: 230, A: 255},
	}
}

// Color returns the base color for a material. Empty cells are black.
func (p Palette) Color(m Material) color.RGBA {
	if m == Empty {
		return color.RGBA{A: 255}
	}
	if c, ok := p[m]; ok {
		return c
	}
	return MissingColor
}

// Missing lists the wall materials of m that have no palette entry.
func (p Palette) Missing(m *Map) []Material {
	var out []Material
	for _, mat := range m.Materials() {
		if _, ok := p[mat]; !ok {
			out = append(out, mat)
		}
	}
	return out
}

// Merge returns a copy of p with the entries of override applied on top.
func (p Palette) Merge(override Palette) Palette {
	out := make(Palette, len(p)+len(override))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
