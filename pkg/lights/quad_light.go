package lights

import (
	"math"

	"github.com/df07/go-cachepoint-renderer/pkg/core"
	"github.com/df07/go-cachepoint-renderer/pkg/geometry"
	"github.com/df07/go-cachepoint-renderer/pkg/material"
)

// QuadLight represents a rectangular area light
type QuadLight struct {
	*geometry.Quad         // Embed quad for hit testing
	Area           float64 // Cached area for PDF calculations
}

// NewQuadLight creates a new quad light
func NewQuadLight(corner, u, v core.Vec3, mat material.Material) *QuadLight {
	quad := geometry.NewQuad(corner, u, v, mat)
	area := u.Cross(v).Length()
	return &QuadLight{Quad: quad, Area: area}
}

// SamplePosition implements the Light interface
func (ql *QuadLight) SamplePosition(sample core.Vec2) (point, normal core.Vec3, areaPDF float64) {
	point = ql.Corner.Add(ql.U.Multiply(sample.X)).Add(ql.V.Multiply(sample.Y))
	return point, ql.Normal, 1.0 / ql.Area
}

// SampleEmission samples a point uniformly on the quad and a cosine-weighted
// direction from it
func (ql *QuadLight) SampleEmission(samplePoint core.Vec2, sampleDirection core.Vec2) EmissionSample {
	point, normal, areaPDF := ql.SamplePosition(samplePoint)
	return sampleEmissionDirection(point, normal, areaPDF, ql.Material, sampleDirection)
}

// PDF_Le implements the Light interface - returns both position and
// directional PDFs for an emission event starting on the quad
func (ql *QuadLight) PDF_Le(point core.Vec3, direction core.Vec3) (pdfPos, pdfDir float64) {
	if _, _, onQuad := ql.parametricCoords(point); !onQuad {
		return 0.0, 0.0
	}

	pdfPos = 1.0 / ql.Area

	cosTheta := direction.Dot(ql.Normal)
	if cosTheta <= 0 {
		return pdfPos, 0.0
	}
	pdfDir = cosTheta / math.Pi
	return pdfPos, pdfDir
}

// parametricCoords solves point = corner + alpha*u + beta*v and reports
// whether the point lies within the quad
func (ql *QuadLight) parametricCoords(point core.Vec3) (alpha, beta float64, ok bool) {
	toPoint := point.Subtract(ql.Corner)

	uDotU := ql.U.Dot(ql.U)
	vDotV := ql.V.Dot(ql.V)
	uDotV := ql.U.Dot(ql.V)

	det := uDotU*vDotV - uDotV*uDotV
	if math.Abs(det) < 1e-8 {
		return 0, 0, false
	}

	toDotU := toPoint.Dot(ql.U)
	toDotV := toPoint.Dot(ql.V)
	alpha = (vDotV*toDotU - uDotV*toDotV) / det
	beta = (uDotU*toDotV - uDotV*toDotU) / det

	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return 0, 0, false
	}

	reconstructed := ql.Corner.Add(ql.U.Multiply(alpha)).Add(ql.V.Multiply(beta))
	if reconstructed.Subtract(point).Length() > 0.001 {
		return 0, 0, false
	}
	return alpha, beta, true
}

// Emit implements the Light interface - returns material emission
func (ql *QuadLight) Emit(ray core.Ray) core.Vec3 {
	if emitter, isEmissive := ql.Material.(material.Emitter); isEmissive {
		return emitter.Emit(ray)
	}
	return core.Vec3{}
}
