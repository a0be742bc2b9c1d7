package image

import (
	"image"

	"golang.org/x/image/draw"
)

// Floyd-Steinberg weights, in sixteenths
const (
	weightEast      = 7
	weightSouthWest = 3
	weightSouth     = 5
	weightSouthEast = 1
)

func clamp(v int32) int32 {
	switch {
	case v < 0:
		return 0
	case v > 0xff:
		return 0xff
	}
	return v
}

// Accumulated error is kept in sixteenths so no precision is lost between
// neighbours; this rounds it back to whole channel units.
func unscale(v int32) int32 {
	return (v + 8) >> 4
}

func toNRGBA(m image.Image) *image.NRGBA {
	b := m.Bounds()
	if nm, ok := m.(*image.NRGBA); ok && nm.Rect.Min == (image.Point{}) {
		return nm
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), m, b.Min, draw.Src)
	return dst
}

// Dither reduces m to the display palette using Floyd-Steinberg error
// diffusion. Pixels are visited left to right, top to bottom, and the
// quantization error of each is spread east, south-west, south and
// south-east; error that would fall outside the image is discarded. Any
// alpha channel is ignored. All arithmetic is integer so the result is
// identical on every platform.
//
// The returned image has the same size as m with its origin at (0, 0).
func Dither(m image.Image) *image.Paletted {
	src := toNRGBA(m)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewPaletted(image.Rect(0, 0, w, h), ColorPalette())

	// Two rows of per-channel error with a spare column either side, so
	// the diffusion never needs to test the horizontal bounds.
	stride := (w + 2) * 3
	cur := make([]int32, stride)
	next := make([]int32, stride)

	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride:]
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			o := (x + 1) * 3
			p := row[x*4 : x*4+3 : x*4+3]

			r := clamp(int32(p[0]) + unscale(cur[o]))
			g := clamp(int32(p[1]) + unscale(cur[o+1]))
			b := clamp(int32(p[2]) + unscale(cur[o+2]))

			i := Nearest(Color{uint8(r), uint8(g), uint8(b)})
			out[x] = i

			q := &palette[i]
			diffuse(cur, next, o, r-int32(q.R))
			diffuse(cur, next, o+1, g-int32(q.G))
			diffuse(cur, next, o+2, b-int32(q.B))
		}
		cur, next = next, cur
		for i := range next {
			next[i] = 0
		}
	}

	return dst
}

func diffuse(cur, next []int32, o int, e int32) {
	if e == 0 {
		return
	}
	cur[o+3] += e * weightEast
	next[o-3] += e * weightSouthWest
	next[o] += e * weightSouth
	next[o+3] += e * weightSouthEast
}
