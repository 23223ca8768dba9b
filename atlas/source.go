// Package atlas builds packed grayscale glyph atlases.
//
// An Atlas is built once per font configuration from a GlyphSource and is
// immutable afterwards. It owns the packed single-channel image and a lookup
// table from rune to placement metrics, which the layout engine uses to emit
// textured quads.
package atlas

// Bitmap is a single rasterized glyph as produced by a GlyphSource.
type Bitmap struct {
	// Pix holds row-major grayscale coverage, Width*Height bytes,
	// one byte per pixel. May be empty for whitespace glyphs.
	Pix []byte

	// Width and Height are the bitmap dimensions in pixels.
	Width  int
	Height int

	// Left is the horizontal bearing in pixels from the cursor to the
	// bitmap's left edge.
	Left int

	// Top is the vertical distance in pixels from the baseline up to the
	// bitmap's top edge.
	Top int

	// AdvanceX is the horizontal cursor advance in whole pixels.
	AdvanceX int
}

// GlyphSource yields rasterized glyph bitmaps for atlas building. It is the
// only rasterization capability the builder depends on; font-backed and
// pre-rendered implementations live in this package, and callers may supply
// their own.
type GlyphSource interface {
	// Characters returns every character the source can rasterize. Build
	// falls back to this set when no explicit subset is requested.
	Characters() []rune

	// Rasterize renders one character at the given pixel size.
	Rasterize(r rune, pixelSize int) (Bitmap, error)
}
