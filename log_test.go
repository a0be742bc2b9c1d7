package acep

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	var b bytes.Buffer
	logger := NewLogger(&b, false)
	logger.Debug().Msg("hidden")
	logger.Warn().Str("source", "apple.jpg").Msg("skipping image")
	assert.NotContains(t, b.String(), "hidden")
	assert.Contains(t, b.String(), "skipping image")
	assert.Contains(t, b.String(), "source=apple.jpg")
	// Not a terminal so no escape codes
	assert.NotContains(t, b.String(), "\x1b[")

	b.Reset()
	logger = NewLogger(&b, true)
	logger.Debug().Msg("shown")
	assert.Contains(t, b.String(), "shown")
}
