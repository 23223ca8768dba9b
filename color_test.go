package ggtext

import (
	"image/color"
	"testing"
)

func TestRGB(t *testing.T) {
	c := RGB(0.5, 0.25, 1)
	if c.A != 1 {
		t.Errorf("RGB alpha = %v, want 1", c.A)
	}
	if c.R != 0.5 || c.G != 0.25 || c.B != 1 {
		t.Errorf("RGB components = %+v", c)
	}
}

func TestColorRoundTrip(t *testing.T) {
	c := RGBA4(1, 0, 0.5, 1)
	got := c.Color()
	nrgba, ok := got.(color.NRGBA)
	if !ok {
		t.Fatalf("Color() returned %T, want color.NRGBA", got)
	}
	if nrgba.R != 255 || nrgba.G != 0 || nrgba.A != 255 {
		t.Errorf("Color() = %+v", nrgba)
	}

	back := FromColor(nrgba)
	if back.R != 1 || back.A != 1 {
		t.Errorf("FromColor() = %+v", back)
	}
}

func TestAnchorStrings(t *testing.T) {
	if got := Center.String(); got != "Center" {
		t.Errorf("Center.String() = %q", got)
	}
	if got := Middle.String(); got != "Middle" {
		t.Errorf("Middle.String() = %q", got)
	}
	if got := HAlign(42).String(); got != "Unknown" {
		t.Errorf("HAlign(42).String() = %q", got)
	}
	if got := VAlign(42).String(); got != "Unknown" {
		t.Errorf("VAlign(42).String() = %q", got)
	}
}
