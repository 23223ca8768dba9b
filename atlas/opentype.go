package atlas

import (
	"fmt"
	"image"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// OpenTypeSource is a GlyphSource backed by a TrueType or OpenType font,
// rasterized with golang.org/x/image/font. Not safe for concurrent use.
type OpenTypeSource struct {
	font  *opentype.Font
	faces map[int]font.Face
	buf   sfnt.Buffer
}

// NewSourceFromBytes parses TrueType or OpenType font data into a glyph
// source.
func NewSourceFromBytes(data []byte) (*OpenTypeSource, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("atlas: failed to parse font: %w", err)
	}
	return &OpenTypeSource{
		font:  f,
		faces: make(map[int]font.Face),
	}, nil
}

// NewSourceFromFile reads and parses a TrueType or OpenType font file.
func NewSourceFromFile(path string) (*OpenTypeSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("atlas: failed to read font file: %w", err)
	}
	return NewSourceFromBytes(data)
}

// Characters implements GlyphSource. It returns every character in the Basic
// Multilingual Plane the font has a glyph for, found by probing the font's
// character map.
func (s *OpenTypeSource) Characters() []rune {
	runes := make([]rune, 0, 256)
	for r := rune(0x20); r <= 0xFFFF; r++ {
		if r >= 0xD800 && r <= 0xDFFF {
			continue
		}
		if idx, err := s.font.GlyphIndex(&s.buf, r); err == nil && idx != 0 {
			runes = append(runes, r)
		}
	}
	return runes
}

// Rasterize implements GlyphSource. The glyph is drawn into a tight alpha
// mask; metrics follow the baseline conventions of golang.org/x/image/font,
// with Top measured upwards from the baseline.
func (s *OpenTypeSource) Rasterize(r rune, pixelSize int) (Bitmap, error) {
	// GlyphBounds maps uncovered characters to the .notdef glyph, so probe
	// the character map directly.
	if idx, err := s.font.GlyphIndex(&s.buf, r); err != nil || idx == 0 {
		return Bitmap{}, ErrMissingGlyph
	}

	face, err := s.face(pixelSize)
	if err != nil {
		return Bitmap{}, err
	}

	bounds, advance, ok := face.GlyphBounds(r)
	if !ok {
		return Bitmap{}, ErrMissingGlyph
	}

	// Pixel box covering the glyph outline. Right shift floors, matching
	// the downward Y axis of fixed.Int26_6 coordinates.
	minX := int(bounds.Min.X) >> 6
	minY := int(bounds.Min.Y) >> 6
	maxX := int(bounds.Max.X+63) >> 6
	maxY := int(bounds.Max.Y+63) >> 6
	width := maxX - minX
	height := maxY - minY

	bmp := Bitmap{
		Width:    width,
		Height:   height,
		Left:     minX,
		Top:      -minY,
		AdvanceX: advance.Round(),
	}
	if width <= 0 || height <= 0 {
		bmp.Width, bmp.Height = 0, 0
		return bmp, nil
	}

	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	drawer := &font.Drawer{
		Dst:  mask,
		Src:  image.White,
		Face: face,
		Dot:  fixed.Point26_6{X: -bounds.Min.X, Y: -bounds.Min.Y},
	}
	drawer.DrawString(string(r))

	bmp.Pix = mask.Pix
	return bmp, nil
}

// face returns a cached font.Face for the given pixel size.
func (s *OpenTypeSource) face(pixelSize int) (font.Face, error) {
	if f, ok := s.faces[pixelSize]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(s.font, &opentype.FaceOptions{
		Size:    float64(pixelSize),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("atlas: failed to create face at %dpx: %w", pixelSize, err)
	}
	s.faces[pixelSize] = f
	return f, nil
}
