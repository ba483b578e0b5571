package renderer

import (
	"sync"

	"github.com/df07/go-cachepoint-renderer/pkg/core"
)

// ScatterBuffer accumulates contributions whose destination pixel is only
// known at evaluation time (light-tracing splats). One lock per pixel keeps
// unrelated pixels from serializing against each other.
type ScatterBuffer struct {
	width, height int
	pixels        []core.Vec3
	locks         []sync.Mutex
}

// NewScatterBuffer creates a zeroed buffer for a width x height image
func NewScatterBuffer(width, height int) *ScatterBuffer {
	return &ScatterBuffer{
		width:  width,
		height: height,
		pixels: make([]core.Vec3, width*height),
		locks:  make([]sync.Mutex, width*height),
	}
}

// Clear zeroes every accumulator. Not safe against concurrent writers.
func (b *ScatterBuffer) Clear() {
	for i := range b.pixels {
		b.pixels[i] = core.Vec3{}
	}
}

// Add accumulates a contribution at the given pixel under that pixel's lock
func (b *ScatterBuffer) Add(x, y int, color core.Vec3) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	idx := x + b.width*y
	b.locks[idx].Lock()
	b.pixels[idx] = b.pixels[idx].Add(color)
	b.locks[idx].Unlock()
}

// At returns the accumulated value at the given pixel
func (b *ScatterBuffer) At(x, y int) core.Vec3 {
	return b.pixels[x+b.width*y]
}

// MergeInto adds the buffer, scaled, into a frame
func (b *ScatterBuffer) MergeInto(frame *Frame, scale float64) {
	for i, p := range b.pixels {
		frame.Pixels[i] = frame.Pixels[i].Add(p.Multiply(scale))
	}
}
