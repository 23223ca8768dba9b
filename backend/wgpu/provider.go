package wgpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

// NewFromProvider creates a Device sharing the GPU of an existing
// gpucontext.DeviceProvider (for example a gogpu application context). The
// provider must additionally expose the underlying hal handles through
// HalDevice() any and HalQueue() any. The target format defaults to the
// provider's surface format when target.Format is zero.
func NewFromProvider(provider gpucontext.DeviceProvider, target Target, opts ...Option) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("wgpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("wgpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("wgpu: provider HalQueue is not hal.Queue")
	}

	if target.Format == 0 {
		target.Format = provider.SurfaceFormat()
	}
	return New(device, queue, target, opts...)
}
