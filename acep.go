/*
Package acep is a library for maintaining a directory of pictures for a
7-color ACeP e-paper photo frame.

Images are dithered to the display palette and written as raw framebuffers
named so that the frame cycles through them in a stable order, with new
pictures appended after the existing ones.
*/
package acep

import (
	"sync"

	"github.com/rs/zerolog"
)

// Options control a single conversion batch.
type Options struct {
	// Output is the directory the framebuffers are written to.
	Output string
	// Preview also writes a PNG rendering of each framebuffer.
	Preview bool
	// Random shuffles the batch before new images are given an index.
	Random bool
	// Seed seeds the shuffle; zero uses the current time.
	Seed int64
	// Workers is the number of images processed in parallel.
	Workers int
}

// Converter converts batches of images into an output directory.
type Converter struct {
	catalog *Catalog
	logger  zerolog.Logger

	// Held while reading, reconciling and writing an output directory
	mu sync.Mutex
}

// New returns a Converter. The catalog may be nil in which case nothing is
// recorded.
func New(catalog *Catalog, logger zerolog.Logger) *Converter {
	return &Converter{
		catalog: catalog,
		logger:  logger,
	}
}
