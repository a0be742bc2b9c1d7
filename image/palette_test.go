package image

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNearestSelf(t *testing.T) {
	for i, c := range Palette() {
		assert.Equal(t, uint8(i), Nearest(c), c.Hex())
	}
}

func TestNearest(t *testing.T) {
	tables := map[string]struct {
		c    Color
		want uint8
	}{
		"dark grey":  {Color{40, 40, 40}, Black},
		"light grey": {Color{220, 220, 220}, White},
		"pure red":   {Color{255, 0, 0}, Red},
		"pure blue":  {Color{0, 0, 255}, Blue},
		"amber":      {Color{240, 130, 10}, Orange},
		"lemon":      {Color{250, 240, 80}, Yellow},
		"forest":     {Color{60, 130, 30}, Green},
		"teal tie":   {Color{0, 188, 182}, Green}, // as far from green as from blue
	}

	for name, table := range tables {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, table.want, Nearest(table.c))
		})
	}
}

func TestPaletteHex(t *testing.T) {
	want := []string{"#000000", "#ffffff", "#438a1c", "#6440ff", "#bf0000", "#fff338", "#e87e00"}
	for i, c := range Palette() {
		assert.Equal(t, want[i], c.Hex())
	}
}

func TestColorPalette(t *testing.T) {
	p := ColorPalette()
	assert.Len(t, p, int(NumColors))
	for i, c := range Palette() {
		assert.Equal(t, i, p.Index(c))
		assert.Equal(t, color.RGBA{c.R, c.G, c.B, 0xff}, color.RGBAModel.Convert(p[i]))
	}
}
