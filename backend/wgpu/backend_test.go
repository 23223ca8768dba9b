package wgpu

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/ggtext"
	"github.com/gogpu/ggtext/gpu"
)

func TestNewNilDevice(t *testing.T) {
	if _, err := New(nil, nil, Target{}); err != ErrNilHALDevice {
		t.Errorf("New(nil) = %v, want ErrNilHALDevice", err)
	}
}

func f32At(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4]))
}

func TestMakeUniformLayout(t *testing.T) {
	proj := mgl32.Ortho2D(0, 800, 600, 0)
	buf := makeUniform(gpu.Uniforms{
		ScreenSize: mgl32.Vec2{800, 600},
		Projection: proj,
	})

	if len(buf) != uniformSize {
		t.Fatalf("uniform block = %d bytes, want %d", len(buf), uniformSize)
	}
	if got := f32At(buf, 0); got != 800 {
		t.Errorf("screen width = %v, want 800", got)
	}
	if got := f32At(buf, 4); got != 600 {
		t.Errorf("screen height = %v, want 600", got)
	}
	if !bytes.Equal(buf[8:16], make([]byte, 8)) {
		t.Error("alignment padding is not zeroed")
	}
	for i, want := range proj {
		if got := f32At(buf, 16+i*4); got != want {
			t.Errorf("proj[%d] = %v, want %v", i, got, want)
		}
	}
}

func TestTextVertexLayout(t *testing.T) {
	layouts := textVertexLayout()
	if len(layouts) != 1 {
		t.Fatalf("vertex buffers = %d, want 1", len(layouts))
	}
	l := layouts[0]
	if l.ArrayStride != ggtext.VertexStride {
		t.Errorf("stride = %d, want %d", l.ArrayStride, ggtext.VertexStride)
	}
	if len(l.Attributes) != 5 {
		t.Fatalf("attributes = %d, want 5", len(l.Attributes))
	}
	wantOffsets := []uint64{0, 8, 16, 28, 32}
	for i, a := range l.Attributes {
		if uint64(a.Offset) != wantOffsets[i] {
			t.Errorf("attribute %d offset = %d, want %d", i, a.Offset, wantOffsets[i])
		}
		if int(a.ShaderLocation) != i {
			t.Errorf("attribute %d shader location = %d", i, a.ShaderLocation)
		}
	}
}

func TestGrayToRGBA(t *testing.T) {
	got := grayToRGBA([]byte{0, 128, 255})
	want := []byte{
		0, 0, 0, 0,
		128, 128, 128, 128,
		255, 255, 255, 255,
	}
	if !bytes.Equal(got, want) {
		t.Errorf("grayToRGBA = %v, want %v", got, want)
	}
}

func TestCompileShaderToSPIRV(t *testing.T) {
	words, err := compileShaderToSPIRV(textShaderSource)
	if err != nil {
		t.Fatalf("compileShaderToSPIRV() = %v", err)
	}
	if len(words) == 0 {
		t.Fatal("no SPIR-V output")
	}
	// SPIR-V magic number.
	if words[0] != 0x07230203 {
		t.Errorf("first word = %#x, want SPIR-V magic 0x07230203", words[0])
	}
}
