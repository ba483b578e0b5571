package renderer

import (
	"math"
	"sync"
	"testing"

	"github.com/df07/go-cachepoint-renderer/pkg/core"
)

func TestScatterBufferAddAndMerge(t *testing.T) {
	buf := NewScatterBuffer(4, 2)
	buf.Add(1, 0, core.NewVec3(1, 2, 3))
	buf.Add(1, 0, core.NewVec3(1, 0, 0))
	buf.Add(3, 1, core.NewVec3(0, 0, 5))

	if got := buf.At(1, 0); got != core.NewVec3(2, 2, 3) {
		t.Errorf("accumulated value %v, want (2,2,3)", got)
	}

	frame := NewFrame(4, 2)
	frame.Set(1, 0, core.NewVec3(10, 10, 10))
	buf.MergeInto(frame, 0.5)

	if got := frame.At(1, 0); got != core.NewVec3(11, 11, 11.5) {
		t.Errorf("merged pixel %v, want (11,11,11.5)", got)
	}
	if got := frame.At(3, 1); got != core.NewVec3(0, 0, 2.5) {
		t.Errorf("merged pixel %v, want (0,0,2.5)", got)
	}
}

func TestScatterBufferIgnoresOutOfBounds(t *testing.T) {
	buf := NewScatterBuffer(2, 2)
	buf.Add(-1, 0, core.NewVec3(1, 1, 1))
	buf.Add(2, 0, core.NewVec3(1, 1, 1))
	buf.Add(0, -1, core.NewVec3(1, 1, 1))
	buf.Add(0, 2, core.NewVec3(1, 1, 1))

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if !buf.At(x, y).IsZero() {
				t.Errorf("pixel (%d,%d) modified by out-of-bounds add", x, y)
			}
		}
	}
}

func TestScatterBufferConcurrentAdds(t *testing.T) {
	buf := NewScatterBuffer(2, 2)
	const goroutines = 8
	const addsPer = 1000

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < addsPer; i++ {
				buf.Add(1, 1, core.NewVec3(1, 0, 0))
			}
		}()
	}
	wg.Wait()

	got := buf.At(1, 1).X
	if math.Abs(got-float64(goroutines*addsPer)) > 1e-9 {
		t.Errorf("concurrent sum %g, want %d", got, goroutines*addsPer)
	}
}

func TestScatterBufferClear(t *testing.T) {
	buf := NewScatterBuffer(2, 2)
	buf.Add(0, 0, core.NewVec3(1, 1, 1))
	buf.Clear()
	if !buf.At(0, 0).IsZero() {
		t.Error("Clear left a residual value")
	}
}
