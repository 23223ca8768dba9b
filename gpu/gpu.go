// Package gpu defines the narrow device capability text rendering draws
// through. A backend implements Device once per graphics API; the renderer
// itself never touches pipelines, shaders, or submission.
package gpu

import "github.com/go-gl/mathgl/mgl32"

// BufferRole tells a backend what a buffer allocation will hold.
type BufferRole int

const (
	// RoleVertex marks a buffer holding vertex data.
	RoleVertex BufferRole = iota
	// RoleIndex marks a buffer holding uint32 index data.
	RoleIndex
)

// String returns the string representation of the buffer role.
func (r BufferRole) String() string {
	switch r {
	case RoleVertex:
		return "Vertex"
	case RoleIndex:
		return "Index"
	default:
		return "Unknown"
	}
}

// Buffer is an opaque backend buffer handle.
type Buffer interface{}

// Texture is an opaque backend texture handle.
type Texture interface{}

// Uniforms is the per-draw uniform block. ScreenSize positions screen-pixel
// text; Projection transforms world-space text.
type Uniforms struct {
	ScreenSize mgl32.Vec2
	Projection mgl32.Mat4
}

// DrawCall is one batched text draw: the full contents of the vertex and
// index buffers up to IndexCount, sampled from Texture.
type DrawCall struct {
	VertexBuffer Buffer
	IndexBuffer  Buffer
	IndexCount   uint32
	Texture      Texture
	Uniforms     Uniforms
}

// Device is the backend contract. Implementations live under backend/.
type Device interface {
	// AllocateBuffer creates a buffer of size bytes for the given role.
	// Previously returned handles for the same role are superseded and may
	// be released by the backend.
	AllocateBuffer(size int, role BufferRole) (Buffer, error)

	// UploadBuffer writes data into buf at the given byte offset.
	UploadBuffer(buf Buffer, data []byte, offset int) error

	// UploadTexture creates an immutable grayscale texture from row-major
	// single-channel pixels.
	UploadTexture(width, height int, pix []byte) (Texture, error)

	// Draw issues one indexed draw of IndexCount indices. A zero
	// IndexCount is a no-op.
	Draw(call DrawCall) error
}
