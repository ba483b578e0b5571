package integrator

import (
	"math"

	"github.com/df07/go-cachepoint-renderer/pkg/core"
	"github.com/df07/go-cachepoint-renderer/pkg/scene"
)

// Cone widths for guided emission sampling. First-iteration anchors come
// from an unrefined cache set, so they get a wider cone.
const (
	guidedConeCos       = 0.95
	guidedConeCosWide   = 0.80
	minGuidedDistance   = 1e-6
	maxIntersectionDist = 1e100
)

// ConstructLightPath builds one light sub-path into dst. Emission direction
// sampling is guided toward the cache set when one is available.
func ConstructLightPath(dst *Path, s *scene.Scene, sampler core.Sampler, caches *CacheIndex, cfg Config) {
	dst.Reset()

	if len(s.Lights) == 0 {
		return
	}

	sampledLight := s.Lights[sampler.GetInt(len(s.Lights))]
	lightSelectionPdf := 1.0 / float64(len(s.Lights))

	point, normal, areaPDF := sampledLight.SamplePosition(sampler.Get2D())
	direction, directionPDF := sampleGuidedEmission(point, normal, sampler, caches, cfg)

	emission := sampledLight.Emit(core.NewRay(point, direction))

	// Origin throughput is Le over the area density of sampling this point,
	// so connection strategies can use vertex betas directly.
	originBeta := emission.Multiply(1.0 / (lightSelectionPdf * areaPDF))

	lightVertex := Vertex{
		Point:          point,
		Normal:         normal,
		Light:          sampledLight,
		AreaPdfForward: areaPDF * lightSelectionPdf,
		IsLight:        true,
		Beta:           originBeta,
		EmittedLight:   emission,
	}
	dst.append(lightVertex)

	cosTheta := direction.Dot(normal)
	if cosTheta <= 0 || directionPDF <= 0 {
		return
	}

	// beta = Le * |cos| / (selectionPdf * pdfPos * pdfDir)
	throughput := originBeta.Multiply(cosTheta / directionPDF)
	ray := core.NewRay(point, direction)
	extendPath(dst, s, ray, throughput, directionPDF, sampler, cfg.MaxDepth-1, false)
}

// sampleGuidedEmission draws an emission direction from the light surface.
// With no cache set it is plain cosine sampling. With a cache set it mixes
// cosine sampling with a cone toward a uniformly chosen anchor; the returned
// density is the two-technique mixture conditioned on that anchor.
func sampleGuidedEmission(point, normal core.Vec3, sampler core.Sampler, caches *CacheIndex, cfg Config) (core.Vec3, float64) {
	if caches == nil || caches.Len() == 0 || cfg.GuidedEmissionProb <= 0 {
		dir := core.SampleCosineHemisphere(normal, sampler.Get2D())
		return dir, core.CosineHemispherePDF(dir.Dot(normal))
	}

	anchor := caches.At(sampler.GetInt(caches.Len()))
	axis := anchor.Point.Subtract(point)
	if axis.LengthSquared() < minGuidedDistance {
		dir := core.SampleCosineHemisphere(normal, sampler.Get2D())
		return dir, core.CosineHemispherePDF(dir.Dot(normal))
	}
	axis = axis.Normalize()

	coneCos := guidedConeCos
	if anchor.FirstIteration {
		coneCos = guidedConeCosWide
	}

	g := cfg.GuidedEmissionProb
	var dir core.Vec3
	if sampler.Get1D() < g {
		dir = core.SampleCone(axis, coneCos, sampler.Get2D())
	} else {
		dir = core.SampleCosineHemisphere(normal, sampler.Get2D())
	}

	pdf := (1 - g) * core.CosineHemispherePDF(dir.Dot(normal))
	if dir.Dot(axis) >= coneCos {
		pdf += g * core.UniformConePDF(coneCos)
	}
	return dir, pdf
}

// extendPath extends a path by tracing a ray through the scene, handling
// intersections and scattering. Shared between light and camera paths.
func extendPath(path *Path, s *scene.Scene, currentRay core.Ray, beta core.Vec3, pdfDir float64, sampler core.Sampler, maxBounces int, isCameraPath bool) {
	for bounces := 0; bounces < maxBounces; bounces++ {
		vertexPrev := &path.Vertices[path.Length-1]

		hit, isHit := s.Hit(currentRay, 0.001, maxIntersectionDist)
		if !isHit {
			break
		}

		// Capture emitted light from this vertex
		var emittedLight core.Vec3
		hitLight := s.LightFor(hit.Material)
		if hitLight != nil && hit.FrontFace {
			emittedLight = hitLight.Emit(currentRay)
		}

		vertex := Vertex{
			Point:             hit.Point,
			Normal:            hit.Normal,
			Material:          hit.Material,
			Light:             hitLight,
			IncomingDirection: currentRay.Direction.Multiply(-1),
			IsLight:           hitLight != nil,
			Beta:              beta,
			EmittedLight:      emittedLight,
		}

		// Forward density into this vertex, per unit area
		vertex.AreaPdfForward = vertexPrev.convertPDFDensity(&vertex, pdfDir)

		scatter, didScatter := hit.Material.Scatter(currentRay, *hit, sampler)
		if !didScatter {
			path.append(vertex)
			break
		}

		vertex.IsSpecular = scatter.IsSpecular()
		pdfDir = scatter.PDF

		cosTheta := math.Abs(scatter.Scattered.Direction.Dot(hit.Normal))
		if scatter.IsSpecular() {
			beta = beta.MultiplyVec(scatter.Attenuation)
		} else {
			beta = beta.MultiplyVec(scatter.Attenuation).Multiply(cosTheta / pdfDir)
		}

		pdfRev, isReverseDelta := hit.Material.PDF(scatter.Scattered.Direction, currentRay.Direction.Multiply(-1), hit.Normal)
		if isReverseDelta {
			vertex.IsSpecular = true
			pdfRev = 0.0
			pdfDir = 0.0
		}
		vertexPrev.AreaPdfReverse = vertex.convertPDFDensity(vertexPrev, pdfRev)

		path.append(vertex)
		currentRay = scatter.Scattered
	}
}
