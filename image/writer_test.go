package image

import (
	"bytes"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indices(w, h int) *image.Paletted {
	m := image.NewPaletted(image.Rect(0, 0, w, h), ColorPalette())
	for i := range m.Pix {
		m.Pix[i] = uint8(i % int(NumColors))
	}
	return m
}

func TestPack(t *testing.T) {
	m := image.NewPaletted(image.Rect(0, 0, 4, 2), ColorPalette())
	copy(m.Pix, []uint8{Black, White, Green, Blue, Red, Yellow, Orange, Black})
	b, err := Pack(m)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x23, 0x45, 0x60}, b)
}

func TestPackOddWidth(t *testing.T) {
	_, err := Pack(indices(3, 2))
	var fe FormatError
	assert.True(t, errors.As(err, &fe))
}

func TestPackOutOfRange(t *testing.T) {
	m := indices(4, 2)
	m.Pix[5] = NumColors
	_, err := Pack(m)
	var fe FormatError
	assert.True(t, errors.As(err, &fe))
}

func TestPackUnpack(t *testing.T) {
	m := indices(Width, Height)
	b, err := Pack(m)
	require.NoError(t, err)
	assert.Len(t, b, PayloadSize)

	u, err := Unpack(b, Width, Height)
	require.NoError(t, err)
	assert.Equal(t, m.Pix, u.Pix)
}

func TestUnpackErrors(t *testing.T) {
	tables := map[string]struct {
		b             []byte
		width, height int
		want          error
	}{
		"short":     {make([]byte, 3), 4, 2, errNotEnough},
		"long":      {make([]byte, 5), 4, 2, errTooMuch},
		"odd width": {make([]byte, 3), 3, 2, FormatError("odd width 3")},
		"bad index": {[]byte{0x07, 0x00, 0x00, 0x00}, 4, 2, FormatError("palette index 7 out of range at (1, 0)")},
	}

	for name, table := range tables {
		t.Run(name, func(t *testing.T) {
			_, err := Unpack(table.b, table.width, table.height)
			assert.Equal(t, table.want, err)
		})
	}
}

func TestEncodeWrongSize(t *testing.T) {
	for _, r := range []image.Rectangle{
		image.Rect(0, 0, Width-1, Height),
		image.Rect(0, 0, Width, Height+1),
		image.Rect(0, 0, 0, 0),
	} {
		var b bytes.Buffer
		err := Encode(&b, image.NewRGBA(r))
		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, r.Dx(), ve.Width)
		assert.Equal(t, r.Dy(), ve.Height)
		assert.Zero(t, b.Len())
	}
}

func TestEncodeDecode(t *testing.T) {
	src := noise(Width, Height, 4)

	var b bytes.Buffer
	require.NoError(t, Encode(&b, src))
	assert.Equal(t, PayloadSize, b.Len())

	m, err := Decode(bytes.NewReader(b.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, Dither(src).Pix, m.(*image.Paletted).Pix)

	cfg, err := DecodeConfig(bytes.NewReader(b.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, Width, cfg.Width)
	assert.Equal(t, Height, cfg.Height)
}

func TestDecodeLength(t *testing.T) {
	_, err := Decode(bytes.NewReader(make([]byte, PayloadSize-1)))
	assert.Equal(t, errNotEnough, err)

	_, err = Decode(bytes.NewReader(make([]byte, PayloadSize+1)))
	assert.Equal(t, errTooMuch, err)
}

func TestDecodeConfigLength(t *testing.T) {
	tables := map[string]struct {
		size int
		want error
	}{
		"empty": {0, errNotEnough},
		"short": {PayloadSize - 1, errNotEnough},
		"long":  {PayloadSize + 1, errTooMuch},
		"exact": {PayloadSize, nil},
	}

	for name, table := range tables {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeConfig(bytes.NewReader(make([]byte, table.size)))
			assert.Equal(t, table.want, err)
		})
	}
}
