package acep

import (
	"image"
	"image/color"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/lucasb-eyer/go-colorful"
)

// dominantColors returns up to n representative colors of m as hex strings,
// which is handy when working out why an image dithered badly.
func dominantColors(m image.Image, n int) []string {
	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, n), m)

	hex := make([]string, 0, len(p))
	for _, c := range p {
		cf, _ := colorful.MakeColor(c)
		hex = append(hex, cf.Hex())
	}
	return hex
}
