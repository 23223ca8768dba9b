// Package wgpu implements the gpu.Device contract on top of the gogpu/wgpu
// hardware abstraction layer. One render pipeline is created per Device; each
// Draw records a single render pass against the current Target view.
package wgpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ggtext"
	"github.com/gogpu/ggtext/gpu"
)

// Backend errors.
var (
	// ErrNilHALDevice is returned when New is called without a device.
	ErrNilHALDevice = errors.New("wgpu: hal device is nil")

	// ErrNoTarget is returned by Draw when no target view is set.
	ErrNoTarget = errors.New("wgpu: no target view set")

	// ErrForeignHandle is returned when a buffer or texture handle was not
	// created by this backend.
	ErrForeignHandle = errors.New("wgpu: handle was not created by this backend")
)

// uniformSize is the byte size of the text uniform buffer.
// Layout: screen_size (vec2<f32>) + padding = 16 bytes +
// proj (mat4x4<f32>) = 64 bytes. Total 80 bytes.
const uniformSize = 80

// Target describes where text draw calls are rendered. View is the color
// attachment for the current frame and is typically swapped every frame via
// SetTarget; Format must match the pipeline's output and therefore cannot
// change after New.
type Target struct {
	View   hal.TextureView
	Format gputypes.TextureFormat

	// Clear selects LoadOpClear with a transparent clear color instead of
	// loading the existing attachment contents.
	Clear bool
}

// Buffer wraps a hal.Buffer as an opaque gpu.Buffer handle.
type Buffer struct {
	raw  hal.Buffer
	size int
}

// Texture wraps a hal texture and its view as an opaque gpu.Texture handle.
type Texture struct {
	tex    hal.Texture
	view   hal.TextureView
	width  int
	height int
}

// Option configures a Device during creation.
type Option func(*deviceOptions)

type deviceOptions struct {
	spirv bool
}

// WithSPIRV pre-compiles the text shader from WGSL to SPIR-V on the CPU
// instead of handing WGSL source to the driver. Needed for hal backends
// without a WGSL front end.
func WithSPIRV() Option {
	return func(o *deviceOptions) {
		o.spirv = true
	}
}

// Device implements gpu.Device using gogpu/wgpu.
type Device struct {
	device hal.Device
	queue  hal.Queue
	target Target

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	sampler    hal.Sampler
	uniformBuf hal.Buffer

	vertBuf *Buffer
	idxBuf  *Buffer
}

var _ gpu.Device = (*Device)(nil)

// New creates a text rendering device on an existing hal device and queue.
// The render pipeline, sampler and uniform buffer are created eagerly so
// configuration errors surface here rather than at first draw.
func New(device hal.Device, queue hal.Queue, target Target, opts ...Option) (*Device, error) {
	if device == nil {
		return nil, ErrNilHALDevice
	}
	o := deviceOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	d := &Device{
		device: device,
		queue:  queue,
		target: target,
	}
	if err := d.createPipeline(o.spirv); err != nil {
		d.Destroy()
		return nil, err
	}
	return d, nil
}

// SetTarget replaces the render target, typically once per frame with the
// swapchain's current view. The format must match the one given to New.
func (d *Device) SetTarget(target Target) {
	d.target = target
}

// Destroy releases all GPU resources held by the device. Safe to call more
// than once.
func (d *Device) Destroy() {
	if d.vertBuf != nil {
		d.device.DestroyBuffer(d.vertBuf.raw)
		d.vertBuf = nil
	}
	if d.idxBuf != nil {
		d.device.DestroyBuffer(d.idxBuf.raw)
		d.idxBuf = nil
	}
	if d.uniformBuf != nil {
		d.device.DestroyBuffer(d.uniformBuf)
		d.uniformBuf = nil
	}
	if d.sampler != nil {
		d.device.DestroySampler(d.sampler)
		d.sampler = nil
	}
	if d.pipeline != nil {
		d.device.DestroyRenderPipeline(d.pipeline)
		d.pipeline = nil
	}
	if d.pipeLayout != nil {
		d.device.DestroyPipelineLayout(d.pipeLayout)
		d.pipeLayout = nil
	}
	if d.bindLayout != nil {
		d.device.DestroyBindGroupLayout(d.bindLayout)
		d.bindLayout = nil
	}
	if d.shader != nil {
		d.device.DestroyShaderModule(d.shader)
		d.shader = nil
	}
}

// createPipeline compiles the text shader and creates the render pipeline
// with premultiplied alpha blending.
func (d *Device) createPipeline(spirv bool) error {
	source := hal.ShaderSource{WGSL: textShaderSource}
	if spirv {
		code, err := compileShaderToSPIRV(textShaderSource)
		if err != nil {
			return err
		}
		source = hal.ShaderSource{SPIRV: code}
	}
	shader, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "text_shader",
		Source: source,
	})
	if err != nil {
		return fmt.Errorf("wgpu: compile text shader: %w", err)
	}
	d.shader = shader

	// Bind group layout:
	//   Binding 0: Uniforms (uniform buffer, vertex+fragment)
	//   Binding 1: atlas texture (texture_2d, fragment)
	//   Binding 2: sampler (fragment)
	bindLayout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "text_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create text bind layout: %w", err)
	}
	d.bindLayout = bindLayout

	pipeLayout, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "text_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{d.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create text pipeline layout: %w", err)
	}
	d.pipeLayout = pipeLayout

	sampler, err := d.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "text_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create text sampler: %w", err)
	}
	d.sampler = sampler

	uniformBuf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "text_uniforms",
		Size:  uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create text uniform buffer: %w", err)
	}
	d.uniformBuf = uniformBuf

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := d.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "text_pipeline",
		Layout: d.pipeLayout,
		Vertex: hal.VertexState{
			Module:     d.shader,
			EntryPoint: "vs_main",
			Buffers:    textVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     d.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    d.target.Format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create text pipeline: %w", err)
	}
	d.pipeline = pipeline

	ggtext.Logger().Debug("text pipeline created", "format", d.target.Format, "spirv", spirv)
	return nil
}

// textVertexLayout returns the vertex buffer layout for the text pipeline.
// Matches VertexInput in the embedded shader:
//
//	location 0: pos (vec2<f32>)
//	location 1: tex (vec2<f32>)
//	location 2: world (vec3<f32>)
//	location 3: screen_rel (f32)
//	location 4: color (vec4<f32>)
func textVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: ggtext.VertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
				{Format: gputypes.VertexFormatFloat32x3, Offset: 16, ShaderLocation: 2},
				{Format: gputypes.VertexFormatFloat32, Offset: 28, ShaderLocation: 3},
				{Format: gputypes.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 4},
			},
		},
	}
}

// AllocateBuffer implements gpu.Device. The previous buffer for the same role
// is destroyed, matching the renderer's grow-and-replace usage.
func (d *Device) AllocateBuffer(size int, role gpu.BufferRole) (gpu.Buffer, error) {
	var usage gputypes.BufferUsage
	var label string
	switch role {
	case gpu.RoleVertex:
		usage = gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst
		label = "text_vertices"
	case gpu.RoleIndex:
		usage = gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst
		label = "text_indices"
	default:
		return nil, fmt.Errorf("wgpu: unknown buffer role %v", role)
	}

	raw, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(size),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s: %w", label, err)
	}
	buf := &Buffer{raw: raw, size: size}

	switch role {
	case gpu.RoleVertex:
		if d.vertBuf != nil {
			d.device.DestroyBuffer(d.vertBuf.raw)
		}
		d.vertBuf = buf
	case gpu.RoleIndex:
		if d.idxBuf != nil {
			d.device.DestroyBuffer(d.idxBuf.raw)
		}
		d.idxBuf = buf
	}
	return buf, nil
}

// UploadBuffer implements gpu.Device.
func (d *Device) UploadBuffer(buf gpu.Buffer, data []byte, offset int) error {
	b, ok := buf.(*Buffer)
	if !ok {
		return ErrForeignHandle
	}
	if offset+len(data) > b.size {
		return fmt.Errorf("wgpu: upload of %d bytes at offset %d exceeds buffer size %d",
			len(data), offset, b.size)
	}
	d.queue.WriteBuffer(b.raw, uint64(offset), data)
	return nil
}

// UploadTexture implements gpu.Device. The single-channel atlas image is
// expanded to RGBA because hal backends do not uniformly support R8 sampling;
// the shader reads the red channel as coverage.
func (d *Device) UploadTexture(width, height int, pix []byte) (gpu.Texture, error) {
	if len(pix) != width*height {
		return nil, fmt.Errorf("wgpu: pixel data is %d bytes, want %d", len(pix), width*height)
	}

	w, h := uint32(width), uint32(height)
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "text_atlas",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create atlas texture: %w", err)
	}

	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "text_atlas_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("wgpu: create atlas texture view: %w", err)
	}

	d.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
		},
		grayToRGBA(pix),
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  w * 4,
			RowsPerImage: h,
		},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)

	return &Texture{tex: tex, view: view, width: width, height: height}, nil
}

// Draw implements gpu.Device. It records one render pass drawing IndexCount
// indices from the call's buffers, submits it and waits for completion.
func (d *Device) Draw(call gpu.DrawCall) error {
	if call.IndexCount == 0 {
		return nil
	}
	if d.target.View == nil {
		return ErrNoTarget
	}
	vb, ok := call.VertexBuffer.(*Buffer)
	if !ok {
		return ErrForeignHandle
	}
	ib, ok := call.IndexBuffer.(*Buffer)
	if !ok {
		return ErrForeignHandle
	}
	tex, ok := call.Texture.(*Texture)
	if !ok {
		return ErrForeignHandle
	}

	d.queue.WriteBuffer(d.uniformBuf, 0, makeUniform(call.Uniforms))

	bindGroup, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "text_bind",
		Layout: d.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: d.uniformBuf.NativeHandle(), Offset: 0, Size: uniformSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: tex.view.NativeHandle(),
			}},
			{Binding: 2, Resource: gputypes.SamplerBinding{
				Sampler: d.sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create text bind group: %w", err)
	}
	defer d.device.DestroyBindGroup(bindGroup)

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "text_encoder",
	})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("text_draw"); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}

	loadOp := gputypes.LoadOpLoad
	if d.target.Clear {
		loadOp = gputypes.LoadOpClear
	}
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "text_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       d.target.View,
				LoadOp:     loadOp,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
			},
		},
	})
	rp.SetPipeline(d.pipeline)
	rp.SetBindGroup(0, bindGroup, nil)
	rp.SetVertexBuffer(0, vb.raw, 0)
	rp.SetIndexBuffer(ib.raw, gputypes.IndexFormatUint32, 0)
	rp.DrawIndexed(call.IndexCount, 1, 0, 0, 0)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("wgpu: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	fenceOK, err := d.device.Wait(fence, 1, 5*time.Second)
	if err != nil || !fenceOK {
		return fmt.Errorf("wgpu: wait for GPU: ok=%v err=%w", fenceOK, err)
	}
	return nil
}

// makeUniform serializes the uniform block for a text batch.
func makeUniform(u gpu.Uniforms) []byte {
	buf := make([]byte, uniformSize)
	putF32(buf[0:], u.ScreenSize[0])
	putF32(buf[4:], u.ScreenSize[1])
	// 8 bytes of padding keep the mat4x4 16-byte aligned.
	off := 16
	for _, v := range u.Projection {
		putF32(buf[off:], v)
		off += 4
	}
	return buf
}

// putF32 writes a single float32 into buf.
func putF32(buf []byte, v float32) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v))
}

// grayToRGBA expands 1-byte-per-pixel grayscale data to 4-byte-per-pixel
// RGBA, replicating the coverage value into every channel so linear
// filtering behaves the same regardless of which channel is sampled.
func grayToRGBA(gray []byte) []byte {
	rgba := make([]byte, len(gray)*4)
	for i, v := range gray {
		off := i * 4
		rgba[off+0] = v
		rgba[off+1] = v
		rgba[off+2] = v
		rgba[off+3] = v
	}
	return rgba
}
