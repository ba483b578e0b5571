package renderer

import (
	"testing"

	"github.com/df07/go-cachepoint-renderer/pkg/core"
)

func TestFrameAccumulateAndScale(t *testing.T) {
	a := NewFrame(2, 2)
	b := NewFrame(2, 2)
	a.Set(0, 0, core.NewVec3(1, 2, 3))
	b.Set(0, 0, core.NewVec3(3, 2, 1))
	b.Set(1, 1, core.NewVec3(2, 2, 2))

	a.Accumulate(b)
	if a.At(0, 0) != core.NewVec3(4, 4, 4) {
		t.Errorf("accumulated pixel %v, want (4,4,4)", a.At(0, 0))
	}
	if a.At(1, 1) != core.NewVec3(2, 2, 2) {
		t.Errorf("accumulated pixel %v, want (2,2,2)", a.At(1, 1))
	}

	mean := a.Scaled(0.5)
	if mean.At(0, 0) != core.NewVec3(2, 2, 2) {
		t.Errorf("scaled pixel %v, want (2,2,2)", mean.At(0, 0))
	}
	// Scaled returns a copy
	if a.At(0, 0) != core.NewVec3(4, 4, 4) {
		t.Error("Scaled mutated the source frame")
	}
}

func TestFrameToRGBA(t *testing.T) {
	f := NewFrame(2, 1)
	f.Set(0, 0, core.NewVec3(0.25, 1, 0))
	f.Set(1, 0, core.NewVec3(5, -1, 0.5)) // clamped to [0, 1]

	img := f.ToRGBA(2.0)

	// 0.25 through gamma 2 is sqrt(0.25) = 0.5
	p := img.RGBAAt(0, 0)
	if p.R != 128 {
		t.Errorf("R = %d, want 128", p.R)
	}
	if p.G != 255 || p.B != 0 || p.A != 255 {
		t.Errorf("unexpected pixel %v", p)
	}

	p = img.RGBAAt(1, 0)
	if p.R != 255 || p.G != 0 {
		t.Errorf("clamping failed: %v", p)
	}
}
