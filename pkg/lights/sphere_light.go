package lights

import (
	"math"

	"github.com/df07/go-cachepoint-renderer/pkg/core"
	"github.com/df07/go-cachepoint-renderer/pkg/geometry"
	"github.com/df07/go-cachepoint-renderer/pkg/material"
)

// SphereLight represents a spherical area light
type SphereLight struct {
	*geometry.Sphere // Embed sphere for hit testing
}

// NewSphereLight creates a new spherical light
func NewSphereLight(center core.Vec3, radius float64, mat material.Material) *SphereLight {
	return &SphereLight{Sphere: geometry.NewSphere(center, radius, mat)}
}

// SamplePosition implements the Light interface - samples uniformly on the
// entire sphere surface
func (sl *SphereLight) SamplePosition(sample core.Vec2) (point, normal core.Vec3, areaPDF float64) {
	localDir := core.SampleOnUnitSphere(sample)
	point = sl.Center.Add(localDir.Multiply(sl.Radius))
	areaPDF = 1.0 / (4.0 * math.Pi * sl.Radius * sl.Radius)
	return point, localDir, areaPDF
}

// SampleEmission samples a full emission event, cosine-weighted in direction
func (sl *SphereLight) SampleEmission(samplePoint core.Vec2, sampleDirection core.Vec2) EmissionSample {
	point, normal, areaPDF := sl.SamplePosition(samplePoint)
	return sampleEmissionDirection(point, normal, areaPDF, sl.Material, sampleDirection)
}

// PDF_Le implements the Light interface - returns both position and
// directional PDFs for an emission event starting on the sphere
func (sl *SphereLight) PDF_Le(point core.Vec3, direction core.Vec3) (pdfPos, pdfDir float64) {
	distFromCenter := point.Subtract(sl.Center).Length()
	if math.Abs(distFromCenter-sl.Radius) > 0.001 {
		return 0.0, 0.0
	}

	normal := point.Subtract(sl.Center).Normalize()
	pdfPos = 1.0 / (4.0 * math.Pi * sl.Radius * sl.Radius)

	cosTheta := direction.Dot(normal)
	if cosTheta <= 0 {
		return pdfPos, 0.0
	}
	pdfDir = cosTheta / math.Pi
	return pdfPos, pdfDir
}

// Emit implements the Light interface - returns material emission
func (sl *SphereLight) Emit(ray core.Ray) core.Vec3 {
	if emitter, isEmissive := sl.Material.(material.Emitter); isEmissive {
		return emitter.Emit(ray)
	}
	return core.Vec3{}
}
