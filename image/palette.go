package image

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette indices of the display colors. The values are what the display
// firmware expects so they must never be reordered.
const (
	Black uint8 = iota
	White
	Green
	Blue
	Red
	Yellow
	Orange

	// NumColors is the number of colors the display can show.
	NumColors
)

// Color is an opaque 24-bit RGB color.
type Color struct {
	R, G, B uint8
}

// RGBA implements the color.Color interface.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	a = 0xffff
	return
}

// Hex returns the color in #rrggbb form.
func (c Color) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

func mustHex(s string) Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	r, g, b := c.RGB255()
	return Color{r, g, b}
}

// These are the measured colors of the panel rather than the nominal ones,
// which gives noticeably better dithering.
var palette = [NumColors]Color{
	Black:  mustHex("#000000"),
	White:  mustHex("#ffffff"),
	Green:  mustHex("#438a1c"),
	Blue:   mustHex("#6440ff"),
	Red:    mustHex("#bf0000"),
	Yellow: mustHex("#fff338"),
	Orange: mustHex("#e87e00"),
}

// Palette returns the display colors ordered by palette index.
func Palette() [NumColors]Color {
	return palette
}

// ColorPalette returns the display colors as a color.Palette, suitable for
// an image.Paletted.
func ColorPalette() color.Palette {
	p := make(color.Palette, NumColors)
	for i, c := range palette {
		p[i] = c
	}
	return p
}

// Nearest returns the palette index of the display color closest to c by
// squared Euclidean distance in RGB space. Ties go to the lowest index.
func Nearest(c Color) uint8 {
	best, bestDist := uint8(0), int32(1<<31-1)
	for i := range palette {
		dr := int32(c.R) - int32(palette[i].R)
		dg := int32(c.G) - int32(palette[i].G)
		db := int32(c.B) - int32(palette[i].B)
		if d := dr*dr + dg*dg + db*db; d < bestDist {
			best, bestDist = uint8(i), d
		}
	}
	return best
}

// Usage counts how many pixels of m use each palette index. Indices outside
// the palette are not counted.
func Usage(m *image.Paletted) (n [NumColors]int) {
	b := m.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for _, i := range m.Pix[y*m.Stride : y*m.Stride+b.Dx()] {
			if i < NumColors {
				n[i]++
			}
		}
	}
	return
}
