package integrator

import (
	"math"
	"sort"

	"github.com/df07/go-cachepoint-renderer/pkg/core"
	"github.com/df07/go-cachepoint-renderer/pkg/scene"
	"github.com/df07/go-cachepoint-renderer/pkg/spatial"
)

// CacheAnchor is one cache point: a shading location carrying a resampling
// distribution over the candidate pool and its normalization constant Q.
// Distributions are indexed by global candidate index so a candidate drawn
// at one anchor can be scored against any other anchor's pmf.
type CacheAnchor struct {
	Point          core.Vec3
	Normal         core.Vec3
	FirstIteration bool

	weights []float64
	cdf     []float64
	q       float64
}

// NewCacheAnchor creates a cache anchor at a traced eye-path vertex
func NewCacheAnchor(point, normal core.Vec3, firstIteration bool) *CacheAnchor {
	return &CacheAnchor{Point: point, Normal: normal, FirstIteration: firstIteration}
}

// CalcDistribution computes the anchor's resampling distribution over the
// candidate pool. Each anchor is written by exactly one worker, so no
// locking is needed here.
func (c *CacheAnchor) CalcDistribution(s *scene.Scene, pool []Candidate, m int) {
	c.weights = make([]float64, len(pool))
	c.cdf = make([]float64, len(pool))
	c.q = 0

	running := 0.0
	for i, cand := range pool {
		w := c.targetWeight(s, cand)
		c.weights[i] = w
		running += w
		c.cdf[i] = running
	}
	c.q = running
}

// targetWeight scores one candidate's approximate contribution at the
// anchor location: luminance of the candidate's radiance throughput times
// its surface response toward the anchor, times the geometric term, zeroed
// for degenerate or occluded connections.
func (c *CacheAnchor) targetWeight(s *scene.Scene, cand Candidate) float64 {
	lv := cand.Vertex()
	if lv.IsSpecular {
		return 0
	}

	toAnchor := c.Point.Subtract(lv.Point)
	dist2 := toAnchor.LengthSquared()
	if dist2 < 1e-12 {
		return 0
	}
	dist := math.Sqrt(dist2)

	yz := core.NewDirection(toAnchor.Multiply(1.0/dist), lv.Normal)
	if yz.IsInvalid() || yz.InLowerHemisphere() {
		return 0
	}
	zy := core.NewDirection(toAnchor.Multiply(-1.0/dist), c.Normal)
	if zy.IsInvalid() || zy.InLowerHemisphere() {
		return 0
	}

	radiance := lv.Beta.MultiplyVec(lv.BRDF(yz.Vec()))
	target := radiance.Luminance() * yz.AbsCos() * zy.AbsCos() / dist2
	if target <= 0 {
		return 0
	}

	if !s.Visible(lv.Point, c.Point) {
		return 0
	}
	return target
}

// Q returns the normalization constant, the sum of target weights
func (c *CacheAnchor) Q() float64 {
	return c.q
}

// NormalizationConstant is an alias for Q kept for the resampling call sites
func (c *CacheAnchor) NormalizationConstant() float64 {
	return c.q
}

// Pmf returns the probability mass for the candidate at the given global
// pool index
func (c *CacheAnchor) Pmf(idx int) float64 {
	if c.q == 0 || idx < 0 || idx >= len(c.weights) {
		return 0
	}
	return c.weights[idx] / c.q
}

// Sample draws a candidate index from the anchor's distribution.
// Must not be called when Q is zero.
func (c *CacheAnchor) Sample(sampler core.Sampler) (idx int, pmf float64) {
	u := sampler.Get1D() * c.q
	idx = sort.SearchFloat64s(c.cdf, u)
	if idx >= len(c.cdf) {
		idx = len(c.cdf) - 1
	}
	// u landing exactly on a zero-weight plateau boundary
	for idx < len(c.weights)-1 && c.weights[idx] == 0 {
		idx++
	}
	return idx, c.weights[idx] / c.q
}

// CacheIndex is a static-per-iteration nearest-neighbor structure over the
// frame's cache anchors.
type CacheIndex struct {
	tree *spatial.Tree[*CacheAnchor]
}

// NewCacheIndex builds the spatial index over a set of anchors
func NewCacheIndex(anchors []*CacheAnchor) *CacheIndex {
	return &CacheIndex{
		tree: spatial.NewTree(anchors, func(c *CacheAnchor) core.Vec3 { return c.Point }),
	}
}

// Len returns the number of anchors in the index
func (ci *CacheIndex) Len() int {
	if ci == nil {
		return 0
	}
	return ci.tree.Len()
}

// At returns the anchor at the given index
func (ci *CacheIndex) At(i int) *CacheAnchor {
	return ci.tree.At(i)
}

// Anchors returns all anchors in the index
func (ci *CacheIndex) Anchors() []*CacheAnchor {
	if ci == nil {
		return nil
	}
	return ci.tree.Items()
}

// Nearest returns up to k anchors closest to the query point
func (ci *CacheIndex) Nearest(p core.Vec3, k int) []*CacheAnchor {
	indices := ci.tree.Nearest(p, k)
	result := make([]*CacheAnchor, len(indices))
	for i, idx := range indices {
		result[i] = ci.tree.At(idx)
	}
	return result
}
