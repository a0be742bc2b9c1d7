package image

import (
	"fmt"
	"image"
	"io"
)

// Pack serializes the palette indices of m, two pixels per byte with the
// first pixel in the high nibble. Rows follow each other without padding so
// the width of m must be even.
func Pack(m *image.Paletted) ([]byte, error) {
	b := m.Bounds()
	if b.Dx()%pixelsPerByte != 0 {
		return nil, FormatError(fmt.Sprintf("odd width %d", b.Dx()))
	}

	out := make([]byte, 0, b.Dx()*b.Dy()/pixelsPerByte)
	for y := 0; y < b.Dy(); y++ {
		row := m.Pix[y*m.Stride : y*m.Stride+b.Dx()]
		for x := 0; x < len(row); x += pixelsPerByte {
			hi, lo := row[x], row[x+1]
			if hi >= NumColors || lo >= NumColors {
				return nil, FormatError(fmt.Sprintf("palette index out of range at (%d, %d)", x, y))
			}
			out = append(out, hi<<4|lo)
		}
	}

	return out, nil
}

// Validate returns a *ValidationError unless r is exactly the size of the
// display.
func Validate(r image.Rectangle) error {
	if r.Dx() != Width || r.Dy() != Height {
		return &ValidationError{Width: r.Dx(), Height: r.Dy()}
	}
	return nil
}

// EncodeBytes dithers m and returns the packed payload.
func EncodeBytes(m image.Image) ([]byte, error) {
	if err := Validate(m.Bounds()); err != nil {
		return nil, err
	}
	return Pack(Dither(m))
}

// Encode writes the Image m to w in the display framebuffer format.
func Encode(w io.Writer, m image.Image) error {
	b, err := EncodeBytes(m)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
