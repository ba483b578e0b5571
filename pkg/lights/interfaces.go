package lights

import (
	"math"

	"github.com/df07/go-cachepoint-renderer/pkg/core"
	"github.com/df07/go-cachepoint-renderer/pkg/material"
)

// Light interface for area lights that participate in path generation
type Light interface {
	// SamplePosition samples a point on the light surface
	// Returns the point, its outward normal, and the area PDF
	SamplePosition(sample core.Vec2) (point, normal core.Vec3, areaPDF float64)

	// PDF_Le returns position and directional PDFs for an emission event.
	// Both are zero if the point does not lie on the light surface.
	PDF_Le(point core.Vec3, direction core.Vec3) (pdfPos, pdfDir float64)

	// Emit evaluates emitted radiance along the given ray
	Emit(ray core.Ray) core.Vec3
}

// EmissionSample contains information about a sampled emission event
type EmissionSample struct {
	Point        core.Vec3 // Point on the light surface
	Normal       core.Vec3 // Surface normal at the emission point (outward facing)
	Direction    core.Vec3 // Emission direction FROM the surface
	Emission     core.Vec3 // Emitted radiance at this point and direction
	AreaPDF      float64   // PDF for position sampling (per unit area)
	DirectionPDF float64   // PDF for direction sampling (per unit solid angle)
}

// sampleEmissionDirection draws a cosine-weighted direction from a sampled
// light surface point and packages the full emission sample.
func sampleEmissionDirection(point, normal core.Vec3, areaPDF float64, mat material.Material, sample core.Vec2) EmissionSample {
	emissionDir := core.SampleCosineHemisphere(normal, sample)
	cosTheta := emissionDir.Dot(normal)
	directionPDF := cosTheta / math.Pi

	var emission core.Vec3
	if emitter, ok := mat.(material.Emitter); ok {
		emission = emitter.Emit(core.NewRay(point, emissionDir))
	}

	return EmissionSample{
		Point:        point,
		Normal:       normal,
		Direction:    emissionDir,
		Emission:     emission,
		AreaPDF:      areaPDF,
		DirectionPDF: directionPDF,
	}
}
