package ggtext

import "github.com/gogpu/ggtext/atlas"

// Default renderer configuration.
const (
	// DefaultFontSize is the pixel font size used when WithFontSize is not
	// given.
	DefaultFontSize = 16

	// DefaultBufferSize is the initial vertex and index buffer capacity in
	// elements.
	DefaultBufferSize = 128
)

// Option configures a Renderer during creation.
//
// Example:
//
//	// Embedded default font at 16px
//	r, err := ggtext.New(dev)
//
//	// Custom font at 24px
//	r, err := ggtext.New(dev,
//		ggtext.WithFontPath("DejaVuSans.ttf"),
//		ggtext.WithFontSize(24))
type Option func(*rendererOptions)

// rendererOptions holds optional configuration for Renderer creation.
type rendererOptions struct {
	fontBytes  []byte
	fontPath   string
	fontSize   int
	chars      []rune
	bufferSize int
	source     atlas.GlyphSource
}

// defaultRendererOptions returns the default renderer options.
func defaultRendererOptions() rendererOptions {
	return rendererOptions{
		fontSize:   DefaultFontSize,
		bufferSize: DefaultBufferSize,
	}
}

// WithFontSize sets the pixel font size glyphs are rasterized at.
func WithFontSize(size int) Option {
	return func(o *rendererOptions) {
		o.fontSize = size
	}
}

// WithFontBytes sets the TrueType or OpenType font data to rasterize glyphs
// from. Used when no font path is set.
func WithFontBytes(data []byte) Option {
	return func(o *rendererOptions) {
		o.fontBytes = data
	}
}

// WithFontPath sets a TrueType or OpenType font file to rasterize glyphs
// from.
func WithFontPath(path string) Option {
	return func(o *rendererOptions) {
		o.fontPath = path
	}
}

// WithChars sets the character set baked into the atlas. Characters outside
// this set are skipped at draw time. Defaults to the source's own character
// set, which for font-backed sources is every character the font covers;
// restricting it keeps the atlas texture small.
func WithChars(chars []rune) Option {
	return func(o *rendererOptions) {
		o.chars = chars
	}
}

// WithBufferSize sets the initial GPU vertex and index buffer capacity in
// elements. Buffers grow on demand, so this only tunes the first allocation.
func WithBufferSize(size int) Option {
	return func(o *rendererOptions) {
		if size > 0 {
			o.bufferSize = size
		}
	}
}

// WithGlyphSource sets a custom glyph source, bypassing font loading
// entirely. Use this for pre-rasterized fonts such as atlas.BMFontSource.
func WithGlyphSource(src atlas.GlyphSource) Option {
	return func(o *rendererOptions) {
		o.source = src
	}
}
