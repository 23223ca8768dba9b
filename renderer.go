package ggtext

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/ggtext/atlas"
	"github.com/gogpu/ggtext/gpu"
)

// Renderer turns text into quad geometry sampled from a glyph atlas.
//
// Add, AddAt and AddAnchored accumulate geometry into CPU-side lists; Flush
// grows the GPU buffers as needed, uploads everything accumulated since the
// last flush and issues a single draw call. Not safe for concurrent use.
type Renderer struct {
	device   gpu.Device
	atlas    *atlas.Atlas
	texture  gpu.Texture
	fontSize int

	vertices []Vertex
	indices  []uint32

	vertBuf gpu.Buffer
	idxBuf  gpu.Buffer
	vertCap int // buffer capacity in vertices
	idxCap  int // buffer capacity in indices
}

// New builds a glyph atlas from the configured font, uploads it as a texture
// on device and returns a renderer drawing through that device.
//
// The font source is resolved in priority order: WithGlyphSource,
// WithFontPath, WithFontBytes, then the embedded Go Regular face.
func New(device gpu.Device, opts ...Option) (*Renderer, error) {
	o := defaultRendererOptions()
	for _, opt := range opts {
		opt(&o)
	}

	src := o.source
	if src == nil {
		var err error
		src, err = resolveFontSource(&o)
		if err != nil {
			return nil, err
		}
	}

	a, err := atlas.Build(src, o.fontSize, o.chars)
	if err != nil {
		return nil, err
	}
	Logger().Debug("atlas built",
		"glyphs", a.Len(),
		"width", a.Width(),
		"height", a.Height(),
		"font_size", o.fontSize)

	texture, err := device.UploadTexture(a.Width(), a.Height(), a.Pix())
	if err != nil {
		return nil, fmt.Errorf("ggtext: upload atlas texture: %w", err)
	}

	r := &Renderer{
		device:   device,
		atlas:    a,
		texture:  texture,
		fontSize: o.fontSize,
	}
	if err := r.allocVertexBuffer(o.bufferSize); err != nil {
		return nil, err
	}
	if err := r.allocIndexBuffer(o.bufferSize); err != nil {
		return nil, err
	}
	return r, nil
}

// resolveFontSource picks the font per the configured priority order.
func resolveFontSource(o *rendererOptions) (atlas.GlyphSource, error) {
	if o.fontPath != "" {
		return atlas.NewSourceFromFile(o.fontPath)
	}
	if o.fontBytes != nil {
		if len(o.fontBytes) == 0 {
			return nil, ErrNoFontSpecified
		}
		return atlas.NewSourceFromBytes(o.fontBytes)
	}
	return atlas.NewSourceFromBytes(goregular.TTF)
}

// Atlas returns the renderer's glyph atlas.
func (r *Renderer) Atlas() *atlas.Atlas {
	return r.atlas
}

// FontSize returns the pixel font size the atlas was built at.
func (r *Renderer) FontSize() int {
	return r.fontSize
}

// Add queues text at a screen-pixel position. (x, y) is the top-left corner
// of the text's layout box. Characters absent from the atlas are skipped.
func (r *Renderer) Add(text string, x, y int, color RGBA) {
	r.emit(text, x, y, mgl32.Vec3{}, 1, color)
}

// AddAt queues text at a world-space position. Glyphs are laid out in pixels
// relative to pos; the backend's vertex stage projects pos and offsets each
// vertex from it.
func (r *Renderer) AddAt(text string, pos mgl32.Vec3, color RGBA) {
	r.emit(text, 0, 0, pos, 0, color)
}

// AddAnchored queues text at a screen-pixel position aligned to (x, y) per
// the given anchors. (Left, Top) behaves exactly as Add; other anchors shift
// the origin by the measured size, truncating half-pixel amounts.
func (r *Renderer) AddAnchored(text string, x, y int, hAlign HAlign, vAlign VAlign, color RGBA) {
	if hAlign == Left && vAlign == Top {
		r.Add(text, x, y, color)
		return
	}
	w, h := r.Measure(text)
	switch hAlign {
	case Center:
		x -= w / 2
	case Right:
		x -= w
	}
	switch vAlign {
	case Middle:
		y -= h / 2
	case Bottom:
		y -= h
	}
	r.Add(text, x, y, color)
}

// Measure returns the pixel size of text's layout box without emitting
// geometry. Width is the total cursor advance. Height is the lowest bottom
// edge over the characters actually present in text, so it varies with
// string content rather than reflecting the font's global extents.
func (r *Renderer) Measure(text string) (width, height int) {
	for _, ch := range text {
		g, ok := r.atlas.Glyph(ch)
		if !ok {
			continue
		}
		width += g.XAdvance
		if bottom := g.YOffset + g.Height; bottom > height {
			height = bottom
		}
	}
	return width, height
}

// emit appends one quad per character present in the atlas. Vertices go out
// in top-left, bottom-left, bottom-right, top-right order; indices form the
// triangles (TL, BL, TR) and (TR, BL, BR).
func (r *Renderer) emit(text string, x, y int, world mgl32.Vec3, screenRel float32, color RGBA) {
	for _, ch := range text {
		g, ok := r.atlas.Glyph(ch)
		if !ok {
			continue
		}
		x0 := float32(x + g.XOffset)
		y0 := float32(y + g.YOffset)
		x1 := x0 + float32(g.Width)
		y1 := y0 + float32(g.Height)

		base := uint32(len(r.vertices))
		r.vertices = append(r.vertices,
			Vertex{Pos: [2]float32{x0, y0}, Tex: [2]float32{g.U0, g.V0}, World: world, ScreenRel: screenRel, Color: color},
			Vertex{Pos: [2]float32{x0, y1}, Tex: [2]float32{g.U0, g.V1}, World: world, ScreenRel: screenRel, Color: color},
			Vertex{Pos: [2]float32{x1, y1}, Tex: [2]float32{g.U1, g.V1}, World: world, ScreenRel: screenRel, Color: color},
			Vertex{Pos: [2]float32{x1, y0}, Tex: [2]float32{g.U1, g.V0}, World: world, ScreenRel: screenRel, Color: color},
		)
		r.indices = append(r.indices,
			base, base+1, base+3,
			base+3, base+1, base+2,
		)
		x += g.XAdvance
	}
}

// Flush uploads all queued screen-pixel geometry and issues one draw call.
// width and height are the viewport size in pixels. World-space text queued
// with AddAt is drawn with an identity projection; use FlushProjected to
// supply a real one.
func (r *Renderer) Flush(width, height int) error {
	return r.FlushProjected(width, height, mgl32.Ident4())
}

// FlushProjected is Flush with an explicit projection matrix applied to
// world-space text. With zero queued quads it issues no draw call and leaves
// the GPU buffers untouched.
func (r *Renderer) FlushProjected(width, height int, proj mgl32.Mat4) error {
	if len(r.indices) == 0 {
		return nil
	}

	if len(r.vertices) > r.vertCap {
		if err := r.allocVertexBuffer(GrowCapacity(r.vertCap, len(r.vertices))); err != nil {
			return err
		}
	}
	if len(r.indices) > r.idxCap {
		if err := r.allocIndexBuffer(GrowCapacity(r.idxCap, len(r.indices))); err != nil {
			return err
		}
	}

	if err := r.device.UploadBuffer(r.vertBuf, encodeVertices(r.vertices), 0); err != nil {
		return fmt.Errorf("ggtext: upload vertex data: %w", err)
	}
	if err := r.device.UploadBuffer(r.idxBuf, encodeIndices(r.indices), 0); err != nil {
		return fmt.Errorf("ggtext: upload index data: %w", err)
	}

	indexCount := uint32(len(r.indices))
	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]

	err := r.device.Draw(gpu.DrawCall{
		VertexBuffer: r.vertBuf,
		IndexBuffer:  r.idxBuf,
		IndexCount:   indexCount,
		Texture:      r.texture,
		Uniforms: gpu.Uniforms{
			ScreenSize: mgl32.Vec2{float32(width), float32(height)},
			Projection: proj,
		},
	})
	if err != nil {
		return fmt.Errorf("ggtext: draw: %w", err)
	}
	return nil
}

// allocVertexBuffer replaces the vertex buffer with one holding capacity
// vertices.
func (r *Renderer) allocVertexBuffer(capacity int) error {
	buf, err := r.device.AllocateBuffer(capacity*VertexStride, gpu.RoleVertex)
	if err != nil {
		return fmt.Errorf("ggtext: allocate vertex buffer: %w", err)
	}
	if r.vertBuf != nil {
		Logger().Debug("vertex buffer grown", "capacity", capacity)
	}
	r.vertBuf = buf
	r.vertCap = capacity
	return nil
}

// allocIndexBuffer replaces the index buffer with one holding capacity
// indices.
func (r *Renderer) allocIndexBuffer(capacity int) error {
	buf, err := r.device.AllocateBuffer(capacity*IndexSize, gpu.RoleIndex)
	if err != nil {
		return fmt.Errorf("ggtext: allocate index buffer: %w", err)
	}
	if r.idxBuf != nil {
		Logger().Debug("index buffer grown", "capacity", capacity)
	}
	r.idxBuf = buf
	r.idxCap = capacity
	return nil
}
