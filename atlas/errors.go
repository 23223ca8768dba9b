package atlas

import (
	"errors"
	"fmt"
)

// Sentinel errors for the atlas package.
var (
	// ErrEmptyCharacterSet is returned by Build when the resolved character
	// set contains no characters.
	ErrEmptyCharacterSet = errors.New("atlas: empty character set")

	// ErrMissingGlyph is returned by a GlyphSource asked to rasterize a
	// character it has no glyph for.
	ErrMissingGlyph = errors.New("atlas: no glyph for character")
)

// RasterizationError wraps a GlyphSource failure for a single character.
// A single failed glyph aborts the whole build.
type RasterizationError struct {
	Rune rune
	Err  error
}

// Error implements the error interface.
func (e *RasterizationError) Error() string {
	return fmt.Sprintf("atlas: rasterize %q: %v", e.Rune, e.Err)
}

// Unwrap returns the underlying glyph source error.
func (e *RasterizationError) Unwrap() error {
	return e.Err
}
