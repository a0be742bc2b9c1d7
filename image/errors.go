package image

import "fmt"

// A ValidationError reports an image that does not have the exact
// dimensions of the display. Such images are never resized.
type ValidationError struct {
	Width, Height int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("acep: image is wrong size: %dx%d, want %dx%d", e.Width, e.Height, Width, Height)
}

// A FormatError reports that the input is not a valid palette index buffer
// or payload.
type FormatError string

func (e FormatError) Error() string { return "acep: invalid format: " + string(e) }
