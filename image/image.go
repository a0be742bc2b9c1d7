/*
Package image implements an encoder and decoder for the raw framebuffer format
used by 600 by 448 pixel, 7-color ACeP e-paper displays.

Every pixel is one of seven fixed colors, identified by a 3-bit palette index.
Full color images are reduced to the palette with Floyd-Steinberg error
diffusion. The file is written as the palette indices of each row, left to
right and top to bottom, packed two pixels per byte with the leftmost pixel
in the high nibble. There is no header so the resulting file is always
134400 bytes in size.
*/
package image

const (
	// Width is the only accepted image width in pixels.
	Width = 600
	// Height is the only accepted image height in pixels.
	Height = 448

	pixelsPerByte = 2
	numPixels     = Width * Height

	// PayloadSize is the size in bytes of an encoded image.
	PayloadSize = numPixels / pixelsPerByte
)
