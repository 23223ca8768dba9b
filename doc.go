// Package ggtext renders text as GPU-drawable quad geometry.
//
// # Overview
//
// ggtext rasterizes a font once into a single packed grayscale texture
// atlas and turns each draw request into a stream of textured quads that
// sample it. The library owns the CPU side only: atlas construction,
// layout, measurement, anchoring, and buffer sizing. The GPU side
// (buffer and texture upload, the actual draw call) is reached through
// the small gpu.Device interface, implemented once per target backend
// (see backend/wgpu).
//
// # Quick start
//
//	import (
//	    "github.com/gogpu/ggtext"
//	    "github.com/gogpu/ggtext/backend/wgpu"
//	)
//
//	dev, err := wgpu.New(halDevice, halQueue, target)
//	// handle err
//
//	txt, err := ggtext.New(dev, ggtext.WithFontSize(20))
//	// handle err
//
//	// Each frame: queue text, then flush once.
//	txt.Add("The quick brown fox", 10, 10, ggtext.White)
//	txt.AddAnchored("centered", 320, 240, ggtext.Center, ggtext.Middle, ggtext.RGB(0, 0, 1))
//	err = txt.Flush(640, 480)
//
// Add queues geometry in screen-pixel coordinates; AddAt places text at a
// world-space position that the vertex shader projects. Both may be mixed
// freely before a single Flush, which uploads everything and issues one
// draw call.
//
// # Fonts
//
// By default ggtext rasterizes the embedded Go Regular face at 16 px.
// Use WithFontPath or WithFontBytes for a custom TTF/OTF, WithChars to
// restrict the atlas to a character subset, or WithGlyphSource to plug in
// any rasterizer implementing atlas.GlyphSource (for example the BMFont
// source in the atlas package).
//
// # Logging
//
// ggtext produces no log output by default. Call SetLogger with a
// *slog.Logger to receive atlas build statistics and buffer regrowth
// diagnostics.
package ggtext
