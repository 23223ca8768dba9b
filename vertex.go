package ggtext

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexStride is the size of one serialized Vertex in bytes.
const VertexStride = 48

// IndexSize is the size of one serialized vertex index in bytes.
const IndexSize = 4

// Vertex is a single text vertex. Every glyph quad emits four of them in
// top-left, bottom-left, bottom-right, top-right order. The layout matches
// VertexInput in the text shader:
//
//	location 0: pos (vec2<f32>)       glyph corner in pixels
//	location 1: tex (vec2<f32>)       normalized atlas coordinate
//	location 2: world (vec3<f32>)     world-space base position
//	location 3: screen_rel (f32)      1 for screen-pixel text, 0 for world text
//	location 4: color (vec4<f32>)
type Vertex struct {
	Pos       [2]float32
	Tex       [2]float32
	World     mgl32.Vec3
	ScreenRel float32
	Color     RGBA
}

// encodeVertices serializes vertices into raw little-endian bytes suitable
// for GPU upload. Each vertex occupies VertexStride bytes.
func encodeVertices(verts []Vertex) []byte {
	if len(verts) == 0 {
		return nil
	}
	data := make([]byte, len(verts)*VertexStride)
	off := 0
	for _, v := range verts {
		putF32(data[off+0:], v.Pos[0])
		putF32(data[off+4:], v.Pos[1])
		putF32(data[off+8:], v.Tex[0])
		putF32(data[off+12:], v.Tex[1])
		putF32(data[off+16:], v.World[0])
		putF32(data[off+20:], v.World[1])
		putF32(data[off+24:], v.World[2])
		putF32(data[off+28:], v.ScreenRel)
		putF32(data[off+32:], v.Color.R)
		putF32(data[off+36:], v.Color.G)
		putF32(data[off+40:], v.Color.B)
		putF32(data[off+44:], v.Color.A)
		off += VertexStride
	}
	return data
}

// encodeIndices serializes indices into raw little-endian bytes for GPU
// upload. Each index occupies IndexSize bytes.
func encodeIndices(indices []uint32) []byte {
	if len(indices) == 0 {
		return nil
	}
	data := make([]byte, len(indices)*IndexSize)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(data[i*IndexSize:], idx)
	}
	return data
}

// putF32 writes a single float32 into buf.
func putF32(buf []byte, v float32) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v))
}
