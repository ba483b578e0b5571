package integrator

import (
	"math"
	"testing"

	"github.com/df07/go-cachepoint-renderer/pkg/core"
	"github.com/df07/go-cachepoint-renderer/pkg/geometry"
	"github.com/df07/go-cachepoint-renderer/pkg/material"
	"github.com/df07/go-cachepoint-renderer/pkg/scene"
)

// fixedSampler replays a fixed sequence of values, cycling
type fixedSampler struct {
	values []float64
	i      int
}

func (f *fixedSampler) next() float64 {
	v := f.values[f.i%len(f.values)]
	f.i++
	return v
}

func (f *fixedSampler) Get1D() float64 { return f.next() }
func (f *fixedSampler) Get2D() core.Vec2 {
	return core.NewVec2(f.next(), f.next())
}
func (f *fixedSampler) GetInt(n int) int {
	return int(f.next() * float64(n))
}

// openBoxScene is a floor plus a downward-facing quad light above it
func openBoxScene(t *testing.T) *scene.Scene {
	t.Helper()
	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	s := &scene.Scene{
		Shapes: []geometry.Shape{
			geometry.NewQuad(core.NewVec3(-10, 0, -10), core.NewVec3(20, 0, 0), core.NewVec3(0, 0, 20), white),
		},
	}
	s.AddQuadLight(core.NewVec3(-1, 4, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2), core.NewVec3(15, 15, 15))
	if err := s.Preprocess(); err != nil {
		t.Fatalf("preprocess: %v", err)
	}
	return s
}

// lightOriginCandidate builds a single-vertex light sub-path on the scene's
// quad light and wraps it as a one-candidate pool
func lightOriginCandidate(s *scene.Scene) []Candidate {
	path := &Path{}
	path.append(Vertex{
		Point:          core.NewVec3(0, 4, 0),
		Normal:         core.NewVec3(0, -1, 0),
		Light:          s.Lights[0],
		IsLight:        true,
		Beta:           core.NewVec3(60, 60, 60), // Le / areaPDF
		AreaPdfForward: 0.25,
	})
	return []Candidate{{Path: path, S: 1}}
}

func TestCacheAnchorDistribution(t *testing.T) {
	s := openBoxScene(t)
	pool := lightOriginCandidate(s)

	anchor := NewCacheAnchor(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0), false)
	anchor.CalcDistribution(s, pool, 4)

	// Light origin responds with identity, so the target is
	// luminance(Beta) * cosLight * cosAnchor / dist^2 = 60 * 1 * 1 / 9
	expected := 60.0 / 9.0
	if math.Abs(anchor.Q()-expected) > 1e-9 {
		t.Errorf("Q = %g, want %g", anchor.Q(), expected)
	}
	if math.Abs(anchor.Pmf(0)-1.0) > 1e-12 {
		t.Errorf("single-candidate Pmf = %g, want 1", anchor.Pmf(0))
	}
}

func TestCacheAnchorOccludedCandidate(t *testing.T) {
	s := openBoxScene(t)
	// Blocker between the light and the anchor
	blocker := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	s.Shapes = append(s.Shapes,
		geometry.NewQuad(core.NewVec3(-5, 2, -5), core.NewVec3(10, 0, 0), core.NewVec3(0, 0, 10), blocker))
	if err := s.Preprocess(); err != nil {
		t.Fatalf("preprocess: %v", err)
	}
	pool := lightOriginCandidate(s)

	anchor := NewCacheAnchor(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0), false)
	anchor.CalcDistribution(s, pool, 4)

	if anchor.Q() != 0 {
		t.Errorf("occluded candidate should score zero, Q = %g", anchor.Q())
	}
	if anchor.Pmf(0) != 0 {
		t.Errorf("Pmf over a zero distribution should be zero, got %g", anchor.Pmf(0))
	}
}

func TestCacheAnchorRejectsSpecularAndBackfacing(t *testing.T) {
	s := openBoxScene(t)

	specPath := &Path{}
	specPath.append(Vertex{
		Point:      core.NewVec3(0, 4, 0),
		Normal:     core.NewVec3(0, -1, 0),
		IsSpecular: true,
		Beta:       core.NewVec3(15, 15, 15),
	})

	// Light vertex facing away from the anchor
	backPath := &Path{}
	backPath.append(Vertex{
		Point:   core.NewVec3(0, 4, 0),
		Normal:  core.NewVec3(0, 1, 0),
		Light:   s.Lights[0],
		IsLight: true,
		Beta:    core.NewVec3(15, 15, 15),
	})

	pool := []Candidate{{Path: specPath, S: 1}, {Path: backPath, S: 1}}
	anchor := NewCacheAnchor(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0), false)
	anchor.CalcDistribution(s, pool, 4)

	if anchor.Q() != 0 {
		t.Errorf("specular and backfacing candidates should both score zero, Q = %g", anchor.Q())
	}
}

func TestCacheAnchorSampleSkipsZeroWeightPlateau(t *testing.T) {
	anchor := NewCacheAnchor(core.Vec3{}, core.NewVec3(0, 1, 0), false)
	anchor.weights = []float64{0, 2, 0, 1}
	anchor.cdf = []float64{0, 2, 2, 3}
	anchor.q = 3

	// u = 0 lands on the leading zero-weight plateau
	idx, pmf := anchor.Sample(&fixedSampler{values: []float64{0}})
	if idx != 1 {
		t.Errorf("u=0 should advance past the zero-weight candidate, got idx %d", idx)
	}
	if math.Abs(pmf-2.0/3.0) > 1e-12 {
		t.Errorf("pmf = %g, want 2/3", pmf)
	}

	idx, pmf = anchor.Sample(&fixedSampler{values: []float64{0.9}})
	if idx != 3 {
		t.Errorf("u=0.9 should select the last candidate, got idx %d", idx)
	}
	if math.Abs(pmf-1.0/3.0) > 1e-12 {
		t.Errorf("pmf = %g, want 1/3", pmf)
	}
}

func TestCacheIndexNearest(t *testing.T) {
	anchors := []*CacheAnchor{
		NewCacheAnchor(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), false),
		NewCacheAnchor(core.NewVec3(5, 0, 0), core.NewVec3(0, 1, 0), false),
		NewCacheAnchor(core.NewVec3(10, 0, 0), core.NewVec3(0, 1, 0), false),
	}
	index := NewCacheIndex(anchors)

	got := index.Nearest(core.NewVec3(4, 0, 0), 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 neighbors, got %d", len(got))
	}
	if got[0].Point.X != 5 || got[1].Point.X != 0 {
		t.Errorf("neighbors out of order: %v, %v", got[0].Point, got[1].Point)
	}
}

func TestCacheIndexNilSafe(t *testing.T) {
	var index *CacheIndex
	if index.Len() != 0 {
		t.Errorf("nil index Len = %d", index.Len())
	}
	if index.Anchors() != nil {
		t.Error("nil index should have no anchors")
	}
}
