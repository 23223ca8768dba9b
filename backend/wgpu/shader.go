package wgpu

import (
	"fmt"

	"github.com/gogpu/naga"
)

// Embedded text shader. Screen-relative vertices are mapped straight to
// normalized device coordinates from pixel positions; world-anchored vertices
// project the world position first and offset the glyph's pixel rectangle
// around the projected point, so world text keeps a constant on-screen size.
const textShaderSource = `
struct Uniforms {
    screen_size: vec2<f32>,
    _pad: vec2<f32>,
    proj: mat4x4<f32>,
};

@group(0) @binding(0) var<uniform> u: Uniforms;
@group(0) @binding(1) var atlas_tex: texture_2d<f32>;
@group(0) @binding(2) var atlas_samp: sampler;

struct VertexInput {
    @location(0) pos: vec2<f32>,
    @location(1) tex: vec2<f32>,
    @location(2) world: vec3<f32>,
    @location(3) screen_rel: f32,
    @location(4) color: vec4<f32>,
};

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) tex: vec2<f32>,
    @location(1) color: vec4<f32>,
};

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    let ndc_offset = vec2<f32>(
        2.0 * in.pos.x / u.screen_size.x,
        -2.0 * in.pos.y / u.screen_size.y,
    );
    if (in.screen_rel >= 0.5) {
        out.position = vec4<f32>(ndc_offset.x - 1.0, ndc_offset.y + 1.0, 0.0, 1.0);
    } else {
        let projected = u.proj * vec4<f32>(in.world, 1.0);
        out.position = vec4<f32>(projected.xy / projected.w + ndc_offset, 0.0, 1.0);
    }
    out.tex = in.tex;
    out.color = in.color;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let coverage = textureSample(atlas_tex, atlas_samp, in.tex).r;
    let alpha = in.color.a * coverage;
    return vec4<f32>(in.color.rgb * alpha, alpha);
}
`

// compileShaderToSPIRV compiles WGSL source to SPIR-V words for backends
// that cannot consume WGSL directly.
func compileShaderToSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("wgpu: failed to compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	return spirvCode, nil
}
