package renderer

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/df07/go-cachepoint-renderer/pkg/core"
	"github.com/df07/go-cachepoint-renderer/pkg/geometry"
	"github.com/df07/go-cachepoint-renderer/pkg/integrator"
	"github.com/df07/go-cachepoint-renderer/pkg/material"
	"github.com/df07/go-cachepoint-renderer/pkg/scene"
)

// Config holds renderer construction parameters
type Config struct {
	M                  int     // Number of pre-sampled light sub-paths, must be <= width*height
	NumWorkers         int     // Worker goroutines per phase
	MaxDepth           int     // Maximum sub-path length
	NumNeighborCaches  int     // Nc: real cache points per camera vertex
	MISThreshold       float64 // Floor for Q/weight ratios in resampling MIS
	CacheProbeFraction float64 // Probe pixel count as a fraction of the frame
	GuidedEmissionProb float64 // Cone-guided emission mixing probability
	Seed               int64   // Base RNG seed; 0 seeds from the clock
	Logger             core.Logger
}

// DefaultConfig returns renderer defaults
func DefaultConfig() Config {
	return Config{
		M:                  4096,
		NumWorkers:         4,
		MaxDepth:           8,
		NumNeighborCaches:  3,
		MISThreshold:       0.1,
		CacheProbeFraction: 0.004,
		GuidedEmissionProb: 0.5,
		Logger:             DefaultLogger{},
	}
}

// Renderer orchestrates the per-frame estimator: cache point generation,
// the light sub-path pool, per-cache resampling distributions, the
// progressive normalization estimate, and the per-pixel strategy sums.
// Each Render call is one iteration and refines the progressive state.
type Renderer struct {
	config Config
	scene  *scene.Scene
	camera *geometry.Camera

	width, height int
	ns1           int // samples for light-tracing strategies, one per pixel slot

	pathConfig integrator.Config

	caches     *integrator.CacheIndex
	lightPaths []integrator.Path
	candidates []integrator.Candidate
	norm       NormalizationEstimator
	qp         float64

	scatter   *ScatterBuffer
	iteration int
	seed      int64

	cameraPathPool sync.Pool
}

// NewRenderer validates the configuration and creates a renderer bound to
// one scene and its camera
func NewRenderer(s *scene.Scene, cfg Config) (*Renderer, error) {
	if s.Camera == nil {
		return nil, fmt.Errorf("renderer: scene has no camera")
	}
	width, height := s.Camera.Width(), s.Camera.Height()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("renderer: invalid resolution %dx%d", width, height)
	}
	if cfg.M <= 0 {
		return nil, fmt.Errorf("renderer: M must be positive, got %d", cfg.M)
	}
	if cfg.M > width*height {
		return nil, fmt.Errorf("renderer: M=%d exceeds pixel count %d", cfg.M, width*height)
	}
	if cfg.NumWorkers < 1 {
		cfg.NumWorkers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = NopLogger{}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	r := &Renderer{
		config: cfg,
		scene:  s,
		camera: s.Camera,
		width:  width,
		height: height,
		ns1:    width * height,
		pathConfig: integrator.Config{
			M:                  cfg.M,
			MaxDepth:           cfg.MaxDepth,
			NumNeighborCaches:  cfg.NumNeighborCaches,
			MISThreshold:       cfg.MISThreshold,
			GuidedEmissionProb: cfg.GuidedEmissionProb,
			LightTracingCount:  width * height,
		},
		lightPaths: make([]integrator.Path, width*height),
		scatter:    NewScatterBuffer(width, height),
		seed:       seed,
	}
	r.cameraPathPool.New = func() interface{} { return &integrator.Path{} }
	return r, nil
}

// Qp returns the current virtual cache normalization estimate
func (r *Renderer) Qp() float64 { return r.qp }

// Iteration returns the number of completed Render calls
func (r *Renderer) Iteration() int { return r.iteration }

// Render computes one iteration and returns its image. Progressive state
// (cache index, light path pool, normalization estimate) carries over to
// the next call.
func (r *Renderer) Render() (*Frame, RenderStats) {
	start := time.Now()
	r.iteration++

	// Phase 1: generate cache points from coarse probe eye paths and
	// index them
	prevCaches := r.caches
	r.caches = integrator.NewCacheIndex(r.generateCachePoints(prevCaches))

	// Phase 2: light sub-path pool, one per pixel slot
	parallelFor(r.width*r.height, r.config.NumWorkers, func(idx int) {
		sampler := r.samplerFor(phaseLightPaths, idx)
		integrator.ConstructLightPath(&r.lightPaths[idx], r.scene, sampler, r.caches, r.pathConfig)
	})

	// Phase 3: candidate pool over the first M light sub-paths
	r.candidates = integrator.BuildCandidatePool(r.lightPaths, r.config.M)

	// Phase 4: per-cache resampling distributions, one worker per anchor
	anchors := r.caches.Anchors()
	parallelFor(len(anchors), r.config.NumWorkers, func(idx int) {
		anchors[idx].CalcDistribution(r.scene, r.candidates, r.config.M)
	})

	// Phase 5: progressive normalization for the virtual cache point
	r.norm.AddFrame(float64(len(r.candidates)) / float64(r.config.M))
	r.qp = r.norm.Estimate()

	// Phase 6: per-pixel radiance with light-tracing splats
	r.scatter.Clear()
	frame := NewFrame(r.width, r.height)
	parallelFor2D(r.width, r.height, r.config.NumWorkers, func(x, y int) {
		sampler := r.samplerFor(phaseRadiance, x+r.width*y)
		col := r.radiance(x, y, sampler)
		if col.IsFinite() {
			frame.Set(x, y, col)
		}
	})

	// Merge light-tracing contributions, normalized by the number of
	// light-tracing passes
	r.scatter.MergeInto(frame, 1.0/float64(r.ns1))

	stats := RenderStats{
		Iteration:      r.iteration,
		CacheCount:     r.caches.Len(),
		CandidateCount: len(r.candidates),
		Qp:             r.qp,
		Elapsed:        time.Since(start),
	}
	r.config.Logger.Printf("iteration %d: %d caches, %d candidates, Qp=%.4f, %v\n",
		stats.Iteration, stats.CacheCount, stats.CandidateCount, stats.Qp, stats.Elapsed)
	return frame, stats
}

// Phase salts keep per-index RNG streams distinct across phases and frames
const (
	phaseCachePoints = iota + 1
	phaseLightPaths
	phaseRadiance
)

func (r *Renderer) samplerFor(phase, idx int) core.Sampler {
	h := uint64(r.seed)
	h ^= uint64(r.iteration) * 0x9e3779b97f4a7c15
	h ^= uint64(phase) * 0xbf58476d1ce4e5b9
	h ^= uint64(idx) * 0x94d049bb133111eb
	return core.NewRandomSampler(rand.New(rand.NewSource(int64(h))))
}

// generateCachePoints traces short eye sub-paths through a coarse probe
// camera covering roughly CacheProbeFraction of the frame's pixels. Every
// vertex beyond the lens becomes a cache anchor. Anchors are collected per
// probe pixel and flattened in pixel order, so the anchor list does not
// depend on worker scheduling.
func (r *Renderer) generateCachePoints(prevCaches *integrator.CacheIndex) []*integrator.CacheAnchor {
	num := float64(r.width) * float64(r.height) * r.config.CacheProbeFraction
	resX := int(math.Ceil(math.Sqrt(num * float64(r.width) / float64(r.height))))
	resY := int(math.Ceil(math.Sqrt(num * float64(r.height) / float64(r.width))))
	if resX < 1 {
		resX = 1
	}
	if resY < 1 {
		resY = 1
	}

	probeConfig := r.camera.Config()
	probeConfig.Width = resX
	probeConfig.AspectRatio = float64(resX) / float64(resY)
	probeCamera := geometry.NewCamera(probeConfig)

	firstIteration := r.iteration == 1
	perPixel := make([][]*integrator.CacheAnchor, resX*probeCamera.Height())

	parallelFor2D(resX, probeCamera.Height(), r.config.NumWorkers, func(x, y int) {
		sampler := r.samplerFor(phaseCachePoints, x+resX*y)
		var path integrator.Path
		integrator.ConstructCameraPath(&path, r.scene, probeCamera, x, y, sampler, prevCaches, r.pathConfig)

		if path.Length <= 1 {
			return
		}
		local := make([]*integrator.CacheAnchor, 0, path.Length-1)
		for j := 1; j < path.Length; j++ {
			v := &path.Vertices[j]
			local = append(local, integrator.NewCacheAnchor(v.Point, v.Normal, firstIteration))
		}
		perPixel[x+resX*y] = local
	})

	anchors := make([]*integrator.CacheAnchor, 0, resX*resY*2)
	for _, local := range perPixel {
		anchors = append(anchors, local...)
	}
	return anchors
}

// radiance estimates pixel (x, y) for this iteration: light tracing splats
// into the scatter buffer, unidirectional and resampling sums return
// directly.
func (r *Renderer) radiance(x, y int, sampler core.Sampler) core.Vec3 {
	cameraPath := r.cameraPathPool.Get().(*integrator.Path)
	defer r.cameraPathPool.Put(cameraPath)

	integrator.ConstructCameraPath(cameraPath, r.scene, r.camera, x, y, sampler, r.caches, r.pathConfig)
	lightPath := &r.lightPaths[x+r.width*y]

	r.calculateS1(lightPath, cameraPath)

	return r.calculate0T(lightPath, cameraPath).Add(r.calculateST(cameraPath, sampler))
}

// calculate0T handles unidirectional strategies (s=0, t>=2): the camera
// path's own endpoint lies on an emitter.
func (r *Renderer) calculate0T(lightPath, cameraPath *integrator.Path) core.Vec3 {
	t := cameraPath.Length
	if t < 2 {
		return core.Vec3{}
	}

	last := &cameraPath.Vertices[t-1]
	if !last.IsLight || last.EmittedLight.Luminance() <= 0 {
		return core.Vec3{}
	}

	cameraPartial := integrator.CameraPartialMIS(r.scene, lightPath, 0, cameraPath, t,
		core.Direction{}, core.Direction{}, r.pathConfig, r.qp)
	misWeight := 1.0 / (1.0 + cameraPartial)

	return last.EmittedLight.MultiplyVec(last.Beta).Multiply(misWeight)
}

// calculateS1 handles light-tracing strategies (s>=1, t=1): every light
// path vertex is connected to the lens and splatted onto whatever pixel
// the connection projects to.
func (r *Renderer) calculateS1(lightPath, cameraPath *integrator.Path) {
	lens := &cameraPath.Vertices[0]

	for s := 1; s <= lightPath.Length; s++ {
		lv := &lightPath.Vertices[s-1]

		toLight := lv.Point.Subtract(lens.Point)
		dist2 := toLight.LengthSquared()
		if dist2 < 1e-12 {
			continue
		}
		dist := math.Sqrt(dist2)

		zy := core.NewDirection(toLight.Multiply(1.0/dist), lens.Normal)
		if zy.IsInvalid() || zy.InLowerHemisphere() {
			continue
		}
		yz := core.NewDirection(zy.Vec().Negate(), lv.Normal)
		if yz.IsInvalid() || yz.InLowerHemisphere() {
			continue
		}

		ray := core.NewRay(lens.Point, zy.Vec())
		px, py, ok := r.camera.MapRayToPixel(ray)
		if !ok {
			continue
		}
		if r.scene.Occluded(lens.Point, zy.Vec(), dist) {
			continue
		}

		f := lv.BRDF(yz.Vec())
		we := r.camera.EvaluateRayImportance(ray).Luminance()
		g := yz.AbsCos() * zy.AbsCos() / dist2

		ns1 := float64(r.ns1)
		lightPartial := integrator.LightPartialMIS(lightPath, s, cameraPath, 1, yz, zy, r.pathConfig, r.qp)
		misWeight := ns1 / (lightPartial + ns1)

		contrib := lv.Beta.MultiplyVec(f).Multiply(we * g / lens.AreaPdfForward * misWeight)
		r.scatter.Add(px, py, contrib)
	}
}

// calculateST handles resampling strategies (s>=1, t>=2): at each
// non-emissive camera vertex one candidate is drawn from a uniformly chosen
// cache slot (Nc real neighbors plus the virtual cache) and connected.
func (r *Renderer) calculateST(cameraPath *integrator.Path, sampler core.Sampler) core.Vec3 {
	var radiance core.Vec3
	m := float64(r.config.M)

	for t := 2; t <= cameraPath.Length; t++ {
		zt := &cameraPath.Vertices[t-1]
		if zt.Material == nil || material.IsEmissive(zt.Material) {
			continue
		}

		nc := zt.AnchorCount()
		selectorPmf := 1.0 / float64(nc+1)

		// Uniform selector over the real neighbors and the virtual slot
		cacheIdx := nc
		u := sampler.Get1D()
		for i := 0; i < nc; i++ {
			if u < selectorPmf {
				cacheIdx = i
				break
			}
			u -= selectorPmf
		}
		if cacheIdx != nc && zt.Anchors[cacheIdx].NormalizationConstant() == 0 {
			continue
		}

		// Resample one light path candidate
		var sampleIdx int
		pmf := selectorPmf
		if cacheIdx != nc {
			idx, p := zt.Anchors[cacheIdx].Sample(sampler)
			sampleIdx = idx
			pmf *= p
		} else {
			if len(r.candidates) == 0 {
				continue
			}
			sampleIdx = sampler.GetInt(len(r.candidates))
			pmf *= 1.0 / float64(len(r.candidates))
		}
		if pmf <= 0 {
			continue
		}
		cand := r.candidates[sampleIdx]
		lightPath, s := cand.Path, cand.S
		lv := cand.Vertex()

		toCamera := zt.Point.Subtract(lv.Point)
		dist2 := toCamera.LengthSquared()
		if dist2 < 1e-12 {
			continue
		}
		dist := math.Sqrt(dist2)

		yz := core.NewDirection(toCamera.Multiply(1.0/dist), lv.Normal)
		if yz.IsInvalid() || yz.InLowerHemisphere() {
			continue
		}
		zy := core.NewDirection(yz.Vec().Negate(), zt.Normal)
		if zy.IsInvalid() || zy.InLowerHemisphere() {
			continue
		}

		if r.scene.Occluded(lv.Point, yz.Vec(), dist) {
			continue
		}

		fyz := lv.BRDF(yz.Vec())
		fzy := zt.Material.EvaluateBRDF(zt.IncomingDirection, zy.Vec(), zt.Normal)
		g := yz.AbsCos() * zy.AbsCos() / dist2

		// Resampling-aware MIS: one balance term per cache slot that could
		// have produced this candidate, the chosen slot's term on top.
		// val/sumVal corrects for drawing through the uniform slot mixture;
		// the family then competes against the other strategies at the same
		// aggregate density the partial walks charge it, so the strategy
		// weights for a path sum to one.
		var val, sumVal float64
		for i := 0; i < nc; i++ {
			anchor := zt.Anchors[i]
			q := anchor.Q()
			weight := anchor.Pmf(sampleIdx) * anchor.NormalizationConstant()
			if weight > 0 {
				term := selectorPmf * m / ((m-1)*math.Max(r.config.MISThreshold, q/weight) + 1)
				if cacheIdx == i {
					val = term
				}
				sumVal += term
			}
		}
		virtualTerm := selectorPmf * m / ((m-1)*r.qp + 1)
		if cacheIdx == nc {
			val = virtualTerm
		}
		sumVal += virtualTerm
		if val <= 0 {
			continue
		}

		family := integrator.ResamplingFamilyDensity(r.config.M, r.qp)
		lightPartial := integrator.LightPartialMIS(lightPath, s, cameraPath, t, yz, zy, r.pathConfig, r.qp)
		cameraPartial := integrator.CameraPartialMIS(r.scene, lightPath, s, cameraPath, t, yz, zy, r.pathConfig, r.qp)
		misWeight := (val / sumVal) * family / (lightPartial + family + cameraPartial)

		contrib := lv.Beta.MultiplyVec(fyz).MultiplyVec(fzy).MultiplyVec(zt.Beta).
			Multiply(g / (pmf * m) * misWeight)
		radiance = radiance.Add(contrib)
	}
	return radiance
}
