package spatial

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/df07/go-cachepoint-renderer/pkg/core"
)

func randomPoints(n int, rng *rand.Rand) []core.Vec3 {
	points := make([]core.Vec3, n)
	for i := range points {
		points[i] = core.NewVec3(rng.Float64()*100-50, rng.Float64()*100-50, rng.Float64()*100-50)
	}
	return points
}

func identity(p core.Vec3) core.Vec3 { return p }

func TestTreeSelfQuery(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	points := randomPoints(64, rng)
	tree := NewTree(points, identity)

	for i, p := range points {
		got := tree.Nearest(p, 1)
		if len(got) != 1 {
			t.Fatalf("Nearest returned %d results, want 1", len(got))
		}
		if tree.At(got[0]) != points[i] {
			t.Errorf("self-query for point %d returned index %d at %v", i, got[0], tree.At(got[0]))
		}
	}
}

func TestTreeNearestMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	points := randomPoints(200, rng)
	tree := NewTree(points, identity)

	for trial := 0; trial < 50; trial++ {
		query := core.NewVec3(rng.Float64()*120-60, rng.Float64()*120-60, rng.Float64()*120-60)
		k := 1 + rng.Intn(8)

		got := tree.Nearest(query, k)

		// Brute force reference
		indices := make([]int, len(points))
		for i := range indices {
			indices[i] = i
		}
		sort.Slice(indices, func(a, b int) bool {
			da := points[indices[a]].Subtract(query).LengthSquared()
			db := points[indices[b]].Subtract(query).LengthSquared()
			return da < db
		})

		if len(got) != k {
			t.Fatalf("trial %d: got %d neighbors, want %d", trial, len(got), k)
		}
		for i := 0; i < k; i++ {
			gotDist := points[got[i]].Subtract(query).LengthSquared()
			wantDist := points[indices[i]].Subtract(query).LengthSquared()
			if gotDist != wantDist {
				t.Errorf("trial %d: neighbor %d distance %g, want %g", trial, i, gotDist, wantDist)
			}
		}
	}
}

func TestTreeNearestOrdering(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	points := randomPoints(100, rng)
	tree := NewTree(points, identity)

	query := core.NewVec3(5, -3, 12)
	got := tree.Nearest(query, 10)

	prev := -1.0
	for i, idx := range got {
		d := points[idx].Subtract(query).LengthSquared()
		if d < prev {
			t.Errorf("neighbor %d at distance %g is closer than neighbor %d at %g", i, d, i-1, prev)
		}
		prev = d
	}
}

func TestTreeKLargerThanSize(t *testing.T) {
	points := []core.Vec3{
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(2, 0, 0),
	}
	tree := NewTree(points, identity)

	got := tree.Nearest(core.NewVec3(0.1, 0, 0), 10)
	if len(got) != 3 {
		t.Errorf("expected all 3 points, got %d", len(got))
	}
}

func TestTreeEmpty(t *testing.T) {
	tree := NewTree(nil, identity)
	if tree.Len() != 0 {
		t.Errorf("empty tree Len() = %d", tree.Len())
	}
	if got := tree.Nearest(core.NewVec3(0, 0, 0), 3); len(got) != 0 {
		t.Errorf("empty tree Nearest returned %d results", len(got))
	}
}
