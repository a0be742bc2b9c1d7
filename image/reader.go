package image

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/32bitkid/bitreader"
)

var (
	errNotEnough = FormatError("not enough image data")
	errTooMuch   = FormatError("too much image data")
)

// Unpack is the inverse of Pack, returning a width by height image whose
// pixels are the palette indices held in b.
func Unpack(b []byte, width, height int) (*image.Paletted, error) {
	if width%pixelsPerByte != 0 {
		return nil, FormatError(fmt.Sprintf("odd width %d", width))
	}
	switch n := width * height / pixelsPerByte; {
	case len(b) < n:
		return nil, errNotEnough
	case len(b) > n:
		return nil, errTooMuch
	}

	m := image.NewPaletted(image.Rect(0, 0, width, height), ColorPalette())
	br := bitreader.NewReader(bytes.NewReader(b))
	for i := range m.Pix {
		v, err := br.Read8(4)
		if err != nil {
			return nil, err
		}
		if v >= NumColors {
			return nil, FormatError(fmt.Sprintf("palette index %d out of range at (%d, %d)", v, i%width, i/width))
		}
		m.Pix[i] = v
	}

	return m, nil
}

type decoder struct {
	r   io.Reader
	tmp [PayloadSize]byte
}

func (d *decoder) decode() error {
	if _, err := io.ReadFull(d.r, d.tmp[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return errNotEnough
		}
		return err
	}

	var extra [1]byte
	if n, err := d.r.Read(extra[:]); n != 0 || (err != nil && err != io.EOF) {
		if err != nil && err != io.EOF {
			return err
		}
		return errTooMuch
	}

	return nil
}

// Decode reads a framebuffer from r and returns it as an *image.Paletted
// using the display palette.
func Decode(r io.Reader) (image.Image, error) {
	d := decoder{r: r}
	if err := d.decode(); err != nil {
		return nil, err
	}
	return Unpack(d.tmp[:], Width, Height)
}

// DecodeConfig returns the color model and dimensions of a framebuffer
// without decoding the pixels. The length of the data is still checked.
func DecodeConfig(r io.Reader) (image.Config, error) {
	d := decoder{r: r}
	if err := d.decode(); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: ColorPalette(),
		Width:      Width,
		Height:     Height,
	}, nil
}
