package atlas

import (
	"fmt"
	"image"

	"github.com/fzipp/bmfont"
)

// BMFontSource is a GlyphSource backed by an AngelCode BMFont descriptor and
// its pre-rendered page sheets. Glyphs are cut out of the sheets rather than
// rasterized, so the pixel size passed to Rasterize does not scale them; pass
// Size() to Build to keep the font's native metrics.
type BMFontSource struct {
	desc   *bmfont.Descriptor
	sheets map[int]image.Image
}

// NewBMFontSource loads a BMFont descriptor file (.fnt) along with the page
// sheet images it references.
func NewBMFontSource(path string) (*BMFontSource, error) {
	f, err := bmfont.Load(path)
	if err != nil {
		return nil, fmt.Errorf("atlas: failed to load bmfont: %w", err)
	}
	return &BMFontSource{
		desc:   f.Descriptor,
		sheets: f.PageSheets,
	}, nil
}

// Size returns the font's native pixel size.
func (s *BMFontSource) Size() int {
	return s.desc.Info.Size
}

// LineHeight returns the font's line height in pixels.
func (s *BMFontSource) LineHeight() int {
	return s.desc.Common.LineHeight
}

// Characters implements GlyphSource.
func (s *BMFontSource) Characters() []rune {
	runes := make([]rune, 0, len(s.desc.Chars))
	for r := range s.desc.Chars {
		runes = append(runes, r)
	}
	return runes
}

// Rasterize implements GlyphSource. The glyph's rectangle is copied out of
// its page sheet as grayscale coverage. Page sheets store glyphs as white
// pixels, premultiplied by alpha where the sheet has transparency, so the
// brightest channel is the coverage in both opaque and transparent sheets.
func (s *BMFontSource) Rasterize(r rune, pixelSize int) (Bitmap, error) {
	c, ok := s.desc.Chars[r]
	if !ok {
		return Bitmap{}, ErrMissingGlyph
	}
	sheet, ok := s.sheets[c.Page]
	if !ok {
		return Bitmap{}, fmt.Errorf("atlas: bmfont page %d missing for %q", c.Page, r)
	}

	bmp := Bitmap{
		Width:    c.Width,
		Height:   c.Height,
		Left:     c.XOffset,
		Top:      pixelSize - c.YOffset,
		AdvanceX: c.XAdvance,
	}
	if c.Width <= 0 || c.Height <= 0 {
		bmp.Width, bmp.Height = 0, 0
		return bmp, nil
	}

	pix := make([]byte, c.Width*c.Height)
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			cr, cg, cb, _ := sheet.At(c.X+x, c.Y+y).RGBA()
			v := cr
			if cg > v {
				v = cg
			}
			if cb > v {
				v = cb
			}
			pix[y*c.Width+x] = uint8(v >> 8)
		}
	}
	bmp.Pix = pix
	return bmp, nil
}
