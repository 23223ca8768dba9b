package ggtext

import "errors"

// Sentinel errors for the ggtext package.
var (
	// ErrNoFontSpecified is returned by New when the renderer is configured
	// with neither font data nor a glyph source.
	ErrNoFontSpecified = errors.New("ggtext: no font specified")
)
