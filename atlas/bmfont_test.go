package atlas

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

const testFontDescriptor = `info face="test" size=16 bold=0 italic=0 charset="" unicode=1 stretchH=100 smooth=1 aa=1 padding=0,0,0,0 spacing=1,1 outline=0
common lineHeight=18 base=14 scaleW=32 scaleH=16 pages=1 packed=0 alphaChnl=1 redChnl=0 greenChnl=0 blueChnl=0
page id=0 file="sheet_0.png"
chars count=2
char id=65 x=0 y=0 width=4 height=6 xoffset=1 yoffset=2 xadvance=5 page=0 chnl=15
char id=66 x=8 y=0 width=3 height=5 xoffset=0 yoffset=3 xadvance=4 page=0 chnl=15
kernings count=0
`

// writeTestBMFont writes a two-character descriptor and its page sheet.
// 'A' is solid white with one transparent pixel at (1, 1); 'B' is mid gray.
func writeTestBMFont(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	sheet := image.NewNRGBA(image.Rect(0, 0, 32, 16))
	for y := 0; y < 6; y++ {
		for x := 0; x < 4; x++ {
			sheet.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
		}
	}
	sheet.SetNRGBA(1, 1, color.NRGBA{255, 255, 255, 0})
	for y := 0; y < 5; y++ {
		for x := 8; x < 11; x++ {
			sheet.SetNRGBA(x, y, color.NRGBA{128, 128, 128, 255})
		}
	}

	f, err := os.Create(filepath.Join(dir, "sheet_0.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, sheet); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "test.fnt")
	if err := os.WriteFile(path, []byte(testFontDescriptor), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewBMFontSource(t *testing.T) {
	src, err := NewBMFontSource(writeTestBMFont(t))
	if err != nil {
		t.Fatalf("NewBMFontSource() = %v", err)
	}
	if src.Size() != 16 {
		t.Errorf("Size() = %d, want 16", src.Size())
	}
	if src.LineHeight() != 18 {
		t.Errorf("LineHeight() = %d, want 18", src.LineHeight())
	}

	chars := src.Characters()
	if len(chars) != 2 {
		t.Fatalf("Characters() = %q, want 2 entries", chars)
	}
	seen := map[rune]bool{chars[0]: true, chars[1]: true}
	if !seen['A'] || !seen['B'] {
		t.Errorf("Characters() = %q, want A and B", chars)
	}
}

func TestNewBMFontSourceMissingFile(t *testing.T) {
	if _, err := NewBMFontSource(filepath.Join(t.TempDir(), "absent.fnt")); err == nil {
		t.Error("NewBMFontSource() accepted a missing file")
	}
}

func TestBMFontRasterize(t *testing.T) {
	src, err := NewBMFontSource(writeTestBMFont(t))
	if err != nil {
		t.Fatalf("NewBMFontSource() = %v", err)
	}

	bmp, err := src.Rasterize('A', src.Size())
	if err != nil {
		t.Fatalf("Rasterize('A') = %v", err)
	}
	if bmp.Width != 4 || bmp.Height != 6 {
		t.Errorf("size = %dx%d, want 4x6", bmp.Width, bmp.Height)
	}
	if bmp.Left != 1 {
		t.Errorf("Left = %d, want 1", bmp.Left)
	}
	// yoffset 2 at native size 16 means Top is 14 above the cursor line.
	if bmp.Top != 14 {
		t.Errorf("Top = %d, want 14", bmp.Top)
	}
	if bmp.AdvanceX != 5 {
		t.Errorf("AdvanceX = %d, want 5", bmp.AdvanceX)
	}
	for i, v := range bmp.Pix {
		want := byte(255)
		if i == 1*4+1 {
			want = 0
		}
		if v != want {
			t.Errorf("pix[%d] = %d, want %d", i, v, want)
		}
	}

	gray, err := src.Rasterize('B', src.Size())
	if err != nil {
		t.Fatalf("Rasterize('B') = %v", err)
	}
	if gray.Pix[0] != 128 {
		t.Errorf("gray coverage = %d, want 128", gray.Pix[0])
	}

	if _, err := src.Rasterize('Z', src.Size()); !errors.Is(err, ErrMissingGlyph) {
		t.Errorf("Rasterize('Z') = %v, want ErrMissingGlyph", err)
	}
}

func TestBuildWithBMFont(t *testing.T) {
	src, err := NewBMFontSource(writeTestBMFont(t))
	if err != nil {
		t.Fatalf("NewBMFontSource() = %v", err)
	}
	a, err := Build(src, src.Size(), nil)
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	g, ok := a.Glyph('A')
	if !ok {
		t.Fatal("Glyph('A') not found")
	}
	// Native BMFont offsets survive the round trip through Build.
	if g.XOffset != 1 || g.YOffset != 2 || g.XAdvance != 5 {
		t.Errorf("metrics = %+v, want XOffset 1, YOffset 2, XAdvance 5", g)
	}
}
