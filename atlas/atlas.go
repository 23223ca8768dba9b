package atlas

import (
	"image"
	"math"
	"sort"
)

// Glyph holds per-character placement metrics, immutable after Build.
type Glyph struct {
	// XOffset and YOffset are the signed pixel offsets from the text
	// cursor to the glyph bitmap's top-left corner.
	XOffset int
	YOffset int

	// XAdvance is the signed pixel distance the cursor moves after this
	// glyph.
	XAdvance int

	// Width and Height are the glyph bitmap dimensions in pixels. Both may
	// be zero for whitespace.
	Width  int
	Height int

	// U0, V0, U1, V1 are the glyph's normalized texture rectangle within
	// the atlas. (U0, V0) is the top-left corner, (U1, V1) the
	// bottom-right.
	U0, V0 float32
	U1, V1 float32
}

// Atlas is a packed grayscale glyph texture plus its lookup table. Built once
// by Build and read-only afterwards, so it may be shared across renderers.
type Atlas struct {
	pix       []byte
	width     int
	height    int
	glyphs    map[rune]Glyph
	pixelSize int
}

// placedGlyph carries a rasterized bitmap through the packing passes.
type placedGlyph struct {
	r   rune
	bmp Bitmap
	x   int // horizontal placement in the atlas image
	row int // shelf index
}

// Build rasterizes every character in chars at pixelSize and packs the
// bitmaps into a single grayscale image using shelf packing with a fixed
// shelf height.
//
// When chars is empty the source's own character set is used. An empty
// resolved set fails with ErrEmptyCharacterSet; a glyph the source cannot
// rasterize fails with a RasterizationError. There is no partial atlas.
//
// The character set is deduplicated and sorted by code point before packing,
// so the same source, size, and set always produce an identical atlas.
func Build(src GlyphSource, pixelSize int, chars []rune) (*Atlas, error) {
	if len(chars) == 0 {
		chars = src.Characters()
	}
	chars = dedupeSorted(chars)
	if len(chars) == 0 {
		return nil, ErrEmptyCharacterSet
	}

	// Pass 1: rasterize everything, tracking the aggregates that drive
	// shelf geometry.
	placed := make([]placedGlyph, 0, len(chars))
	sumWidth := 0
	maxWidth := 0
	boxHeight := 0
	for _, r := range chars {
		bmp, err := src.Rasterize(r, pixelSize)
		if err != nil {
			return nil, &RasterizationError{Rune: r, Err: err}
		}
		sumWidth += bmp.Width
		if bmp.Width > maxWidth {
			maxWidth = bmp.Width
		}
		if bmp.Height > boxHeight {
			boxHeight = bmp.Height
		}
		placed = append(placed, placedGlyph{r: r, bmp: bmp})
	}

	// Approximately-square target width. A heuristic area estimate only;
	// the actual image height falls out of placement.
	idealWidth := int(math.Sqrt(float64(sumWidth * boxHeight)))
	if idealWidth < maxWidth {
		idealWidth = maxWidth
	}

	// Pass 2: shelf placement. Every shelf has the height of the tallest
	// glyph in the set, so placement is a single left-to-right walk with
	// no backtracking.
	cursorX := 0
	row := 0
	for i := range placed {
		g := &placed[i]
		if cursorX+g.bmp.Width > idealWidth {
			cursorX = 0
			row++
		}
		g.x = cursorX
		g.row = row
		cursorX += g.bmp.Width
	}
	imageHeight := (row + 1) * boxHeight

	// Degenerate sets (whitespace only) produce zero-area bitmaps. Clamp
	// to a 1x1 image so texture coordinates stay finite.
	if idealWidth < 1 {
		idealWidth = 1
	}
	if imageHeight < 1 {
		imageHeight = 1
	}

	// Assemble the image. The buffer is zero-filled, so padding between
	// and below glyphs is already transparent.
	pix := make([]byte, idealWidth*imageHeight)
	for i := range placed {
		g := &placed[i]
		top := g.row * boxHeight
		for y := 0; y < g.bmp.Height; y++ {
			src := g.bmp.Pix[y*g.bmp.Width : (y+1)*g.bmp.Width]
			dst := pix[(top+y)*idealWidth+g.x:]
			copy(dst, src)
		}
	}

	// Pass 3: normalize placements into texture space and build the
	// lookup table.
	w := float32(idealWidth)
	h := float32(imageHeight)
	glyphs := make(map[rune]Glyph, len(placed))
	for i := range placed {
		g := &placed[i]
		x := float32(g.x)
		y := float32(g.row * boxHeight)
		glyphs[g.r] = Glyph{
			XOffset:  g.bmp.Left,
			YOffset:  pixelSize - g.bmp.Top,
			XAdvance: g.bmp.AdvanceX,
			Width:    g.bmp.Width,
			Height:   g.bmp.Height,
			U0:       x / w,
			V0:       y / h,
			U1:       (x + float32(g.bmp.Width)) / w,
			V1:       (y + float32(g.bmp.Height)) / h,
		}
	}

	return &Atlas{
		pix:       pix,
		width:     idealWidth,
		height:    imageHeight,
		glyphs:    glyphs,
		pixelSize: pixelSize,
	}, nil
}

// Glyph returns the metrics for r and whether r is present in the atlas.
func (a *Atlas) Glyph(r rune) (Glyph, bool) {
	g, ok := a.glyphs[r]
	return g, ok
}

// Pix returns the packed image bytes, row-major, one byte per pixel.
// Callers must not mutate the returned slice.
func (a *Atlas) Pix() []byte {
	return a.pix
}

// Width returns the atlas image width in pixels.
func (a *Atlas) Width() int {
	return a.width
}

// Height returns the atlas image height in pixels.
func (a *Atlas) Height() int {
	return a.height
}

// PixelSize returns the pixel font size the atlas was built at.
func (a *Atlas) PixelSize() int {
	return a.pixelSize
}

// Len returns the number of glyphs in the atlas.
func (a *Atlas) Len() int {
	return len(a.glyphs)
}

// Runes returns the atlas character set sorted by code point.
func (a *Atlas) Runes() []rune {
	runes := make([]rune, 0, len(a.glyphs))
	for r := range a.glyphs {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return runes
}

// Image returns the atlas as a standard grayscale image. The pixel data is
// copied, so the result is safe to mutate.
func (a *Atlas) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, a.width, a.height))
	copy(img.Pix, a.pix)
	return img
}

// dedupeSorted returns chars sorted by code point with duplicates removed.
func dedupeSorted(chars []rune) []rune {
	if len(chars) == 0 {
		return nil
	}
	out := make([]rune, len(chars))
	copy(out, chars)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}
